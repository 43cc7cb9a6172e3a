package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harrisonrobin/harvestboard/pkg/csvsheet"
)

func TestRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("Crop,Quantity\nKale,3\n"))
	}))
	defer srv.Close()

	rows, err := NewHTTPSource(srv.URL, srv.Client()).Rows(context.Background())
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Kale" {
		t.Errorf("Expected header plus Kale row, got %#v", rows)
	}
}

func TestRowsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, srv.Client()).Rows(context.Background())
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("Expected ErrFetch, got %v", err)
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusNotFound {
		t.Errorf("Expected FetchError with status 404, got %v", err)
	}
}

func TestRowsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := NewHTTPSource(url, nil).Rows(context.Background()); !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch, got %v", err)
	}
}

func TestRowsEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("  \n"))
	}))
	defer srv.Close()

	if _, err := NewHTTPSource(srv.URL, srv.Client()).Rows(context.Background()); !errors.Is(err, csvsheet.ErrEmptySource) {
		t.Errorf("Expected ErrEmptySource, got %v", err)
	}
}
