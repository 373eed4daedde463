package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/SuperSnake427/DosecheckDashboard/internal/table"
)

// HTTPSource downloads a CSV document, such as a published Google Sheets
// export.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) ID() string { return s.URL }

// Load fetches the document. Any non-200 response is a load error.
func (s *HTTPSource) Load(ctx context.Context) (*table.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, loadError(s.URL, err)
	}
	req.Header.Set("Accept", "text/csv, */*")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, loadError(s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, loadError(s.URL, fmt.Errorf("unexpected status %s", resp.Status))
	}

	t, err := ReadCSV(resp.Body)
	if err != nil {
		return nil, loadError(s.URL, err)
	}
	return t, nil
}
