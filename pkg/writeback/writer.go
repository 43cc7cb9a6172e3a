package writeback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/harrisonrobin/harvestboard/pkg/model"
)

// ErrWrite matches every WriteError via errors.Is.
var ErrWrite = errors.New("write-back failed")

// WriteError reports a failed keyed update.
type WriteError struct {
	Key        string
	StatusCode int
	Err        error
}

func (e *WriteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("updating %s: unexpected status %d", e.Key, e.StatusCode)
	}
	return fmt.Sprintf("updating %s: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// HTTPWriter sends change sets as
//
//	PATCH <BaseURL>/<KeyColumn>/<key>?<column>=<value>&...
//
// Query keys must match the sheet's column headers exactly.
type HTTPWriter struct {
	BaseURL   string
	KeyColumn string
	Client    *http.Client
}

func NewHTTPWriter(baseURL, keyColumn string, client *http.Client) *HTTPWriter {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPWriter{BaseURL: baseURL, KeyColumn: keyColumn, Client: client}
}

// RequestURL builds the update URL for one change set.
func (w *HTTPWriter) RequestURL(key string, changes model.ChangeSet) string {
	q := url.Values{}
	for column, value := range changes {
		q.Set(column, value)
	}
	base := strings.TrimRight(w.BaseURL, "/")
	u := fmt.Sprintf("%s/%s/%s", base, url.PathEscape(w.KeyColumn), url.PathEscape(key))
	if len(q) == 0 {
		return u
	}
	// url.Values encodes spaces as '+'; the row API expects %20.
	return u + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

// Update applies changes to the row whose key column equals key.
func (w *HTTPWriter) Update(ctx context.Context, key string, changes model.ChangeSet) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, w.RequestURL(key, changes), nil)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &WriteError{Key: key, StatusCode: resp.StatusCode}
	}
	return nil
}
