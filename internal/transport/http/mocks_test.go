package http

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/SuperSnake427/DosecheckDashboard/internal/dataprocessing"
	"github.com/SuperSnake427/DosecheckDashboard/internal/services"
	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Build(ctx context.Context, refresh bool) (*domain.Dashboard, error) {
	args := m.Called(ctx, refresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dashboard), args.Error(1)
}

func (m *MockDashboardService) Refresh() {
	m.Called()
}

func (m *MockDashboardService) SourceID() string {
	return m.Called().String(0)
}

func (m *MockDashboardService) Grouping() dataprocessing.Grouping {
	return m.Called().Get(0).(dataprocessing.Grouping)
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, format string, out io.Writer) error {
	args := m.Called(ctx, format, out)
	if payload, ok := args.Get(0).(string); ok && payload != "" {
		_, _ = io.WriteString(out, payload)
	}
	return args.Error(1)
}

// MockHealthService is a mock implementation of HealthService
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
