package services

import (
	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
)

// Dashboard service errors
var (
	// ErrUnknownExportFormat matches the not-found error returned for an
	// export format that has no writer.
	ErrUnknownExportFormat = &apperrors.AppError{Type: apperrors.ErrTypeNotFound}
)
