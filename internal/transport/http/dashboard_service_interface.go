package http

import (
	"context"
	"io"

	"github.com/SuperSnake427/DosecheckDashboard/internal/dataprocessing"
	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

// DashboardService defines the dashboard operations the handlers need
type DashboardService interface {
	Build(ctx context.Context, refresh bool) (*domain.Dashboard, error)
	Refresh()
	SourceID() string
	Grouping() dataprocessing.Grouping
}

// ExportService streams downloadable exports
type ExportService interface {
	Export(ctx context.Context, format string, out io.Writer) error
}
