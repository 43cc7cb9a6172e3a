package util

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// DateLayout is the canonical harvest date form.
const DateLayout = "2006-01-02"

var (
	slashDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	groupedNumber  = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)
)

var logger atomic.Pointer[log.Logger]

// SetLogger routes normalization warnings to l instead of the standard logger.
func SetLogger(l *log.Logger) {
	logger.Store(l)
}

func warnf(format string, args ...interface{}) {
	if l := logger.Load(); l != nil {
		l.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// NormalizeDate rewrites M/D/YYYY or MM/DD/YYYY into YYYY-MM-DD. Anything else,
// including an already canonical date, is returned trimmed but otherwise
// unchanged. A slash date that names no calendar day, such as 2/30/2024,
// yields "" and a warning.
func NormalizeDate(s string) string {
	cleaned := strings.ReplaceAll(s, "\r", "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.Trim(cleaned, `"`)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return ""
	}

	matches := slashDateRegex.FindStringSubmatch(cleaned)
	if matches == nil {
		return cleaned
	}

	month, _ := strconv.Atoi(matches[1])
	day, _ := strconv.Atoi(matches[2])
	normalized := fmt.Sprintf("%s-%02d-%02d", matches[3], month, day)
	if _, err := time.Parse(DateLayout, normalized); err != nil {
		warnf("Warning: could not normalize date %q: %v", s, err)
		return ""
	}
	return normalized
}

// Today returns now's calendar date in canonical form.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// ParseQuantity parses a quantity cell. Thousands separators as a sheet
// displays them ("1,200") are accepted. ok is false for blank or non-numeric
// text and for values that are not strictly positive.
func ParseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if groupedNumber.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	q, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, false
	}
	return q, true
}
