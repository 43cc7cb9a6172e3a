package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/harrisonrobin/harvestboard/pkg/csvsheet"
)

// ErrFetch matches every FetchError via errors.Is.
var ErrFetch = errors.New("fetch failed")

// FetchError reports a failed read of the task sheet.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// HTTPSource reads the whole sheet as CSV with a single GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{URL: url, Client: client}
}

// Text fetches the raw CSV body.
func (s *HTTPSource) Text(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", &FetchError{URL: s.URL, Err: err}
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", &FetchError{URL: s.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", &FetchError{URL: s.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: s.URL, Err: err}
	}
	return string(body), nil
}

// Rows fetches and parses the sheet into rows of cells.
func (s *HTTPSource) Rows(ctx context.Context) ([][]string, error) {
	text, err := s.Text(ctx)
	if err != nil {
		return nil, err
	}
	return csvsheet.Parse(text)
}
