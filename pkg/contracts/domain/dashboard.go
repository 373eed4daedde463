package domain

import (
	"time"
)

// CategoryCount is the number of records positive for one drug category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Bucket is one 3-month window of the quarterly time series. End is the
// window's label, the last calendar day of its final month.
type Bucket struct {
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Counts map[string]int `json:"counts"`
}

// SiteCount is the number of records checked at one testing site.
type SiteCount struct {
	Site    string  `json:"site"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// CleanReport accounts for the rows removed while cleaning.
type CleanReport struct {
	RowsIn                 int `json:"rows_in"`
	DroppedMissingFilename int `json:"dropped_missing_filename"`
	DroppedBadDate         int `json:"dropped_bad_date"`
	RowsOut                int `json:"rows_out"`
}

// Dashboard is everything the presentation layer needs for one render.
type Dashboard struct {
	SnapshotID  string          `json:"snapshot_id"`
	SourceID    string          `json:"source_id"`
	LoadedAt    time.Time       `json:"loaded_at"`
	Categories  []string        `json:"categories"`
	Frequencies []CategoryCount `json:"frequencies"`
	TimeSeries  []Bucket        `json:"time_series"`
	Sites       []SiteCount     `json:"sites"`
	Report      CleanReport     `json:"report"`
}

// SeriesFor returns the per-bucket counts of one category in bucket order.
func (d *Dashboard) SeriesFor(category string) []int {
	out := make([]int, len(d.TimeSeries))
	for i, b := range d.TimeSeries {
		out[i] = b.Counts[category]
	}
	return out
}

// BucketLabels returns the bucket end dates formatted as 2006-01-02.
func (d *Dashboard) BucketLabels() []string {
	out := make([]string, len(d.TimeSeries))
	for i, b := range d.TimeSeries {
		out[i] = b.End.Format("2006-01-02")
	}
	return out
}
