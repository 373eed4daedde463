package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/SuperSnake427/DosecheckDashboard/internal/errors"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

const sampleCSV = "ID,filename,Date Checked,Site,Fentanyl,Heroin\n" +
	"1,a.csv,2023-01-05,North,TRUE,FALSE\n" +
	"2,,2023-02-01,South,FALSE,TRUE\n" +
	"3,\"c, quoted.csv\",3/4/2023,South,1,0\n"

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "filename", "Date Checked", "Site", "Fentanyl", "Heroin"}, tbl.Columns())
	require.Equal(t, 3, tbl.Len())

	tests := []struct {
		row    int
		column string
		want   table.Value
	}{
		{0, "ID", table.Number(1)},
		{0, "Fentanyl", table.Bool(true)},
		{0, "Date Checked", table.String("2023-01-05")},
		{1, "filename", table.Null()},
		{2, "filename", table.String("c, quoted.csv")},
		{2, "Fentanyl", table.Number(1)},
	}
	for _, tt := range tests {
		got, err := tbl.Cell(tt.row, tt.column)
		require.NoError(t, err)
		assert.True(t, tt.want.Equal(got), "row %d %s: got %v", tt.row, tt.column, got)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty document", ""},
		{"surplus field", "ID,filename\n1,a,extra\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadCSV_ByteOrderMark(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("\ufeffID,filename\n1,a\n"))
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn("ID"))
}

func TestCSVSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	src := &CSVSource{Path: path}
	assert.Equal(t, path, src.ID())

	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := &CSVSource{Path: filepath.Join(t.TempDir(), "absent.csv")}

	_, err := src.Load(context.Background())
	require.Error(t, err)
	typ, ok := apperrors.TypeOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrTypeLoad, typ)
}

func TestCSVSource_MalformedRowIsParsingError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID,filename\n1,a.png\n2,b.png,surplus\n"), 0644))

	_, err := (&CSVSource{Path: path}).Load(context.Background())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	assert.Equal(t, path, appErr.Context["source"])
	assert.Contains(t, err.Error(), "line 3")
}

func TestReadCSV_ShortRowsArePadded(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"trailing cells dropped", "ID,filename,Fentanyl,Heroin\n1,a.png,TRUE\n2,b.png\n", false},
		{"empty trailing fields", "ID,filename,Fentanyl,Heroin\n1,a.png,TRUE,,,\n2,b.png,,\n", false},
		{"extra non-empty field", "ID,filename,Fentanyl,Heroin\n1,a.png,TRUE,FALSE,extra\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadCSV(strings.NewReader(tt.doc))
			if tt.wantErr {
				typ, ok := apperrors.TypeOf(err)
				require.True(t, ok)
				assert.Equal(t, apperrors.ErrTypeParsing, typ)
				return
			}
			require.NoError(t, err)
			require.Equal(t, 2, tbl.Len())

			heroin, err := tbl.Cell(0, "Heroin")
			require.NoError(t, err)
			assert.True(t, heroin.IsNull())

			fent, err := tbl.Cell(1, "Fentanyl")
			require.NoError(t, err)
			assert.True(t, fent.IsNull())
		})
	}
}
