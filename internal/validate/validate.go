package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/5w1tchy/oku-storefront/internal/backend"
)

var ErrInvalid = errors.New("invalid")

// RequireBounded trims and ensures length bounds.
func RequireBounded(name, s string, min, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < min || utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// ParseID parses a positive backend identifier from a path segment.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w id %q", ErrInvalid, raw)
	}
	return id, nil
}

// ClampPage parses a 1-based page number and a page size limited to allowed.
// Anything unparseable falls back to page 1 and defSize.
func ClampPage(pageRaw, sizeRaw string, defSize int, allowed []int) (int, int) {
	page := 1
	if v, err := strconv.Atoi(strings.TrimSpace(pageRaw)); err == nil && v >= 1 {
		page = v
	}
	size := defSize
	if v, err := strconv.Atoi(strings.TrimSpace(sizeRaw)); err == nil {
		for _, a := range allowed {
			if a == v {
				size = v
				break
			}
		}
	}
	return page, size
}

// ParseDay accepts YYYY-MM-DD and returns the normalized form.
func ParseDay(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return "", fmt.Errorf("%w date %q", ErrInvalid, raw)
	}
	return t.Format(time.DateOnly), nil
}

// StatsRange keeps only the bounds that are valid days.
func StatsRange(start, end string) backend.StatsRange {
	var r backend.StatsRange
	if d, err := ParseDay(start); err == nil {
		r.StartDate = d
	}
	if d, err := ParseDay(end); err == nil {
		r.EndDate = d
	}
	return r
}

// ParseBool is lenient: "true", "1", "on" are true.
func ParseBool(q string) bool {
	q = strings.TrimSpace(q)
	return strings.EqualFold(q, "true") || q == "1" || strings.EqualFold(q, "on")
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w clock %q", ErrInvalid, s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w clock %q", ErrInvalid, s)
	}
	return h, m, nil
}
