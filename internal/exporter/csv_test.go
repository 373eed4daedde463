package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuperSnake427/DosecheckDashboard/internal/config"
	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
	"github.com/SuperSnake427/DosecheckDashboard/pkg/contracts/domain"
)

// Setup test environment
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()
	writer := NewCSVWriter(&config.Paths{ExportsDir: filepath.Join(tempDir, "exports")})
	return writer, tempDir
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, utf8BOM)
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func sampleDashboard() *domain.Dashboard {
	q1 := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)
	q2 := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	return &domain.Dashboard{
		SnapshotID: "snap-1",
		SourceID:   "mem",
		Categories: []string{"Opioid", "Stimulant"},
		Frequencies: []domain.CategoryCount{
			{Category: "Opioid", Count: 3},
			{Category: "Stimulant", Count: 1},
		},
		TimeSeries: []domain.Bucket{
			{Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), End: q1, Counts: map[string]int{"Opioid": 2, "Stimulant": 1}},
			{Start: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), End: q2, Counts: map[string]int{"Opioid": 1}},
		},
		Sites: []domain.SiteCount{
			{Site: "Fixed", Count: 2, Percent: 2.0 / 3 * 100},
			{Site: "Festival, North", Count: 1, Percent: 1.0 / 3 * 100},
		},
	}
}

func groupedTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New("ID", "Filename", "Date", "Site", "Opioid", "Stimulant")
	require.NoError(t, err)
	day := time.Date(2023, 2, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tbl.AppendRow([]table.Value{
		table.Number(1), table.String("a.png"), table.Time(day), table.String("Fixed"), table.Bool(true), table.Bool(false),
	}))
	require.NoError(t, tbl.AppendRow([]table.Value{
		table.Number(2), table.String("b.png"), table.Time(day.AddDate(0, 3, 0)), table.Null(), table.Bool(false), table.Bool(true),
	}))
	return tbl
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "basic.csv",
			options: WriteOptions{
				Headers: []string{"Category", "Count"},
				Records: [][]string{{"Opioid", "3"}, {"Stimulant", "1"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Category,Count\nOpioid,3\nStimulant,1\n", string(content))
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"Site"},
				Records:   [][]string{{"Fixed"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				assert.Equal(t, "Site\nFixed\n", string(content[3:]))
			},
		},
		{
			name:     "write without headers",
			filePath: "no_headers.csv",
			options:  WriteOptions{Records: [][]string{{"a", "b"}}},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "a,b\n", string(content))
			},
		},
		{
			name:     "fields needing quotes",
			filePath: "nested/quoted.csv",
			options:  WriteOptions{Records: [][]string{{"Festival, North", `say "hi"`}}},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "\"Festival, North\",\"say \"\"hi\"\"\"\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(tempDir, "exports", tt.filePath), path)

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, _ := setupTestEnv(t)
	abs := filepath.Join(t.TempDir(), "out.csv")

	path, err := writer.WriteCSV(abs, WriteOptions{Headers: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, abs, path)
	assert.FileExists(t, abs)
}

func TestCSVWriter_WriteTableCSV(t *testing.T) {
	writer, _ := setupTestEnv(t)

	path, err := writer.WriteTableCSV("grouped.csv", groupedTable(t))
	require.NoError(t, err)

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Filename,Date,Site,Opioid,Stimulant", lines[0])
	assert.Equal(t, "1,a.png,2023-02-14,Fixed,true,false", lines[1])
	assert.Equal(t, "2,b.png,2023-05-14,,false,true", lines[2])
}

func TestStreamWriter(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	sw, err := writer.CreateStreamWriter("stream.csv", []string{"n"})
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		require.NoError(t, sw.WriteRecord([]string{formatInt(i)}))
	}
	require.NoError(t, sw.Close())

	lines := readLines(t, filepath.Join(tempDir, "exports", "stream.csv"))
	assert.Len(t, lines, 101)
	assert.Equal(t, "99", lines[100])
}
