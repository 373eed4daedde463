package config

import "time"

// Application constants
const (
	AppName    = "DoseCheck Dashboard"
	AppVersion = "1.0.0"
	RepoURL    = "https://github.com/SuperSnake427/DosecheckDashboard"

	// EnvPrefix namespaces every environment variable, e.g. DOSECHECK_SOURCE_ID.
	EnvPrefix = "DOSECHECK"

	// DefaultSourceID is the published CSV export of the DoseCheck results sheet.
	DefaultSourceID = "https://docs.google.com/spreadsheets/d/e/2PACX-1vTUPZCGv471mBayU1mLe5DLkVkoxF6K9I5f16kFVh5vPF-3MpMmgxjQOWqA_sYWsGXr60xCeeNmFGSr/pub?output=csv"

	// Default dataset column names
	DefaultFilenameColumn = "filename"
	DefaultDateColumn     = "Date Checked"
	DefaultKeyColumn      = "ID"
	DefaultSiteColumn     = "Site"

	// Date handling policies
	DatePolicyStrict  = "strict"
	DatePolicyLenient = "lenient"

	DefaultFetchTimeout = 30 * time.Second
	DefaultS3Region     = "us-east-1"
)
