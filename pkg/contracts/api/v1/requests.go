// Package api contains the request and response contracts of the dashboard's
// JSON API. Version v1 represents the current stable API version.
package api

import (
	"time"

	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

// DashboardQuery holds the query parameters accepted by the dashboard
// endpoints.
type DashboardQuery struct {
	Refresh bool `json:"refresh" query:"refresh"`
}

// ExportRequest selects a download format.
type ExportRequest struct {
	Format string `json:"format" param:"format" validate:"required,oneof=xlsx csv-frequency csv-timeseries csv-sites"`
}

// DashboardResponse wraps a full dashboard.
type DashboardResponse struct {
	Status string            `json:"status"`
	Data   *domain.Dashboard `json:"data"`
}

// FrequencyResponse carries the bar chart series.
type FrequencyResponse struct {
	Status     string                 `json:"status"`
	SnapshotID string                 `json:"snapshot_id"`
	Data       []domain.CategoryCount `json:"data"`
	Count      int                    `json:"count"`
}

// TimeSeriesResponse carries the line chart series. Labels are bucket end
// dates and Series holds one value per label for every category.
type TimeSeriesResponse struct {
	Status     string           `json:"status"`
	SnapshotID string           `json:"snapshot_id"`
	Labels     []string         `json:"labels"`
	Series     map[string][]int `json:"series"`
	Buckets    []domain.Bucket  `json:"buckets"`
}

// SitesResponse carries the pie chart series.
type SitesResponse struct {
	Status     string             `json:"status"`
	SnapshotID string             `json:"snapshot_id"`
	Data       []domain.SiteCount `json:"data"`
	Count      int                `json:"count"`
}

// GroupingCategory is one category of the active grouping.
type GroupingCategory struct {
	Name       string   `json:"name"`
	Substances []string `json:"substances"`
}

// GroupingResponse describes the active drug grouping.
type GroupingResponse struct {
	Status     string             `json:"status"`
	Categories []GroupingCategory `json:"categories"`
	Count      int                `json:"count"`
}

// RefreshResponse acknowledges a cache invalidation.
type RefreshResponse struct {
	Status        string    `json:"status"`
	SourceID      string    `json:"source_id"`
	InvalidatedAt time.Time `json:"invalidated_at"`
}
