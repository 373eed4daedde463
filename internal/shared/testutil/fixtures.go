package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// DoseCSV is a small results sheet in the published layout. Row 3 has no
// filename, so three rows survive cleaning.
const DoseCSV = `ID,filename,Date Checked,Site,Fentanyl,Heroin,Cocaine
1,a.png,2023-01-15,Fixed,TRUE,FALSE,FALSE
2,b.png,2023-02-20,Festival,FALSE,TRUE,TRUE
3,,2023-03-01,Fixed,TRUE,TRUE,TRUE
4,d.png,2023-05-02,Fixed,FALSE,FALSE,TRUE
`

// GroupingYAML folds DoseCSV's substances into two categories.
const GroupingYAML = `categories:
  - name: Opioid
    substances: [Fentanyl, Heroin]
  - name: Stimulant
    substances: [Cocaine]
`

// Fixture is a temp directory holding a dataset and a grouping file.
type Fixture struct {
	Dir      string
	Source   string
	Grouping string
}

// NewFixture writes csv as doses.csv and GroupingYAML as grouping.yaml
// into a fresh temp dir.
func NewFixture(t testing.TB, csv string) Fixture {
	t.Helper()
	dir := t.TempDir()
	return Fixture{
		Dir:      dir,
		Source:   WriteFile(t, dir, "doses.csv", csv),
		Grouping: WriteFile(t, dir, "grouping.yaml", GroupingYAML),
	}
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
