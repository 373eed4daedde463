// Package dataset loads the raw DoseCheck results table from wherever it is
// published: a CSV URL, a local CSV or XLSX file, a Google Sheets range or
// an S3 object. Loaded snapshots are memoized by Cache.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/api/option"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// Source produces a fresh copy of the raw table on every Load.
type Source interface {
	// ID is the identifier the source was opened from; it keys the cache.
	ID() string
	Load(ctx context.Context) (*table.Table, error)
}

// Options configures the remote sources. The zero value is usable for
// local files and public URLs.
type Options struct {
	Timeout    time.Duration
	HTTPClient *http.Client

	SheetsAPIKey          string
	SheetsCredentialsFile string
	// SheetsClientOptions replace the options derived from the key or
	// credentials file when set.
	SheetsClientOptions []option.ClientOption

	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
	// S3Client is used instead of a client built from the S3 settings.
	S3Client S3API
}

const (
	schemeS3     = "s3://"
	schemeSheets = "sheets://"
	// defaultSheetsRange covers every column in use on the first sheet.
	defaultSheetsRange = "A:ZZ"
)

// Open resolves id to a Source:
//
//	http://..., https://...      CSV over HTTP
//	s3://bucket/key              S3 object, XLSX when key ends in .xlsx, else CSV
//	sheets://spreadsheet[/range] Google Sheets values
//	anything else                local file, XLSX by extension, else CSV
func Open(id string, opts Options) (Source, error) {
	lower := strings.ToLower(id)
	switch {
	case id == "":
		return nil, apperrors.NewConfigError("dataset source is empty", nil)

	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		client := opts.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: opts.Timeout}
		}
		return &HTTPSource{URL: id, Client: client}, nil

	case strings.HasPrefix(lower, schemeS3):
		u, err := url.Parse(id)
		if err != nil || u.Host == "" || strings.Trim(u.Path, "/") == "" {
			return nil, apperrors.NewConfigError(fmt.Sprintf("invalid S3 source %q, want s3://bucket/key", id), err)
		}
		return &S3Source{
			id:     id,
			Bucket: u.Host,
			Key:    strings.TrimPrefix(u.Path, "/"),
			client: opts.S3Client,
			cfg: S3Config{
				Region:    opts.S3Region,
				Endpoint:  opts.S3Endpoint,
				PathStyle: opts.S3PathStyle,
			},
		}, nil

	case strings.HasPrefix(lower, schemeSheets):
		rest := id[len(schemeSheets):]
		spreadsheetID, rng, _ := strings.Cut(rest, "/")
		if spreadsheetID == "" {
			return nil, apperrors.NewConfigError(fmt.Sprintf("invalid Sheets source %q, want sheets://id/range", id), nil)
		}
		if rng == "" {
			rng = defaultSheetsRange
		}
		clientOpts, err := sheetsClientOptions(opts)
		if err != nil {
			return nil, err
		}
		return &SheetsSource{id: id, SpreadsheetID: spreadsheetID, Range: rng, clientOptions: clientOpts}, nil

	case isWorkbook(id):
		return &ExcelSource{Path: id}, nil

	default:
		return &CSVSource{Path: id}, nil
	}
}

func isWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

func loadError(id string, err error) error {
	// Malformed content is reported as such, not as a failed fetch.
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.ErrTypeParsing {
		return appErr.WithContext("source", id)
	}
	return apperrors.NewLoadError("failed to load dataset", err).WithContext("source", id)
}
