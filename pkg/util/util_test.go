package util

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"7/4/2024", "2024-07-04"},
		{"12/31/2024", "2024-12-31"},
		{"07/04/2024", "2024-07-04"},
		{"2024-07-04", "2024-07-04"},
		{`"7/4/2024"`, "2024-07-04"},
		{"  7/4/2024\r", "2024-07-04"},
		{"", ""},
		{"   ", ""},
		{"July 4", "July 4"},
		{"7/4/24", "7/4/24"},
		{"123/4/2024", "123/4/2024"},
	}
	SetLogger(log.New(&bytes.Buffer{}, "", 0))
	defer SetLogger(nil)
	for _, c := range cases {
		got := NormalizeDate(c.in)
		if got != c.want {
			t.Errorf("NormalizeDate(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestNormalizeDateImpossibleDay(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(log.New(&buf, "", 0))
	defer SetLogger(nil)

	for _, in := range []string{"2/30/2024", "13/1/2024", "0/5/2024"} {
		if got := NormalizeDate(in); got != "" {
			t.Errorf("NormalizeDate(%q): expected empty, got %q", in, got)
		}
	}
	if !strings.Contains(buf.String(), "Warning: could not normalize date \"2/30/2024\"") {
		t.Errorf("Expected a warning on the injected logger, got %q", buf.String())
	}
	if got := NormalizeDate("2/29/2024"); got != "2024-02-29" {
		t.Errorf("Expected leap day to normalize, got %q", got)
	}
}

func TestNormalizeDateIsIdempotent(t *testing.T) {
	once := NormalizeDate("3/9/2025")
	if twice := NormalizeDate(once); twice != once {
		t.Errorf("Expected %q to be stable, got %q", once, twice)
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 7, 4, 23, 59, 0, 0, time.UTC)
	if got := Today(now); got != "2024-07-04" {
		t.Errorf("Expected 2024-07-04, got %s", got)
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		want float64
	}{
		{"3.5", true, 3.5},
		{"12", true, 12},
		{" 2 ", true, 2},
		{"0", false, 0},
		{"-2", false, 0},
		{"abc", false, 0},
		{"", false, 0},
		{"NaN", false, 0},
		{"1,200", true, 1200},
		{"12,345.5", true, 12345.5},
		{"1,2", false, 0},
	}
	for _, c := range cases {
		got, ok := ParseQuantity(c.in)
		if ok != c.ok {
			t.Errorf("ParseQuantity(%q): expected ok=%v, got %v", c.in, c.ok, ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParseQuantity(%q): expected %v, got %v", c.in, c.want, got)
		}
	}
}
