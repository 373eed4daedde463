package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
)

func newValidator() *FileValidator {
	return NewFileValidator(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestIsLocalSource(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"data/doses.csv", true},
		{"/tmp/doses.xlsx", true},
		{"https://docs.google.com/spreadsheets/d/e/x/pub?output=csv", false},
		{"HTTP://example.com/doses.csv", false},
		{"s3://bucket/doses.csv", false},
		{"sheets://abc123/Sheet1!A:Z", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLocalSource(tt.id))
		})
	}
}

func TestFileValidator_ValidateSource(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "csv file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "doses.csv")
				require.NoError(t, os.WriteFile(path, []byte("ID,filename\n1,a.png\n"), 0644))
				return path
			},
		},
		{
			name:      "remote source is not checked",
			setupFunc: func(t *testing.T) string { return "s3://bucket/missing.csv" },
		},
		{
			name:          "missing file",
			setupFunc:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.csv") },
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "empty file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "doses.csv")
				require.NoError(t, os.WriteFile(path, nil, 0644))
				return path
			},
			wantErr:       true,
			errorContains: "is empty",
		},
		{
			name:          "directory",
			setupFunc:     func(t *testing.T) string { return t.TempDir() },
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "~$doses.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("lock"), 0644))
				return path
			},
			wantErr:       true,
			errorContains: "lock file",
		},
		{
			name: "legacy xls",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "doses.xls")
				require.NoError(t, os.WriteFile(path, []byte("biff"), 0644))
				return path
			},
			wantErr:       true,
			errorContains: "not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newValidator().ValidateSource(tt.setupFunc(t))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := newValidator()

	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		require.NoError(t, v.ValidateOutputDirectory(dir))
		assert.DirExists(t, dir)
		assert.NoFileExists(t, filepath.Join(dir, ".write_test"))
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
		assert.Error(t, v.ValidateOutputDirectory(file))
	})
}
