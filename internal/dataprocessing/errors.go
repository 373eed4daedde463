package dataprocessing

import (
	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
)

// Sentinels for errors.Is. They match any AppError of the same type.
var (
	ErrConfiguration = &apperrors.AppError{Type: apperrors.ErrTypeConfig}
	ErrDataIntegrity = &apperrors.AppError{Type: apperrors.ErrTypeDataIntegrity}
)
