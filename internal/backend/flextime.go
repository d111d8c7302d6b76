package backend

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// FlexTime decodes the backend's two date shapes: ISO strings and
// [year, month, day, hour, minute, second, nanos] arrays. Bad input never
// fails the surrounding decode; it leaves Valid false.
type FlexTime struct {
	Time  time.Time
	Valid bool
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func (f *FlexTime) UnmarshalJSON(b []byte) error {
	*f = FlexTime{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '[':
		var parts []float64
		if err := json.Unmarshal(b, &parts); err != nil || len(parts) < 3 {
			return nil
		}
		*f = fromParts(parts)
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if t, ok := ParseTimeString(s); ok {
			*f = FlexTime{Time: t, Valid: true}
		}
	}
	return nil
}

func (f FlexTime) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Time.Format(time.RFC3339))
}

// Day renders the date part as YYYY-MM-DD, or "" when unset.
func (f FlexTime) Day() string {
	if !f.Valid {
		return ""
	}
	return f.Time.Format(time.DateOnly)
}

// ParseTimeString handles RFC3339 and zone-less ISO timestamps; the latter
// keep their wall clock in DisplayLocation.
func ParseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(DisplayLocation), true
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, DisplayLocation); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromParts(p []float64) FlexTime {
	get := func(i int) int {
		if i < len(p) {
			return int(p[i])
		}
		return 0
	}
	y, mo, d := get(0), get(1), get(2)
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return FlexTime{}
	}
	t := time.Date(y, time.Month(mo), d, get(3), get(4), get(5), get(6), DisplayLocation)
	return FlexTime{Time: t, Valid: true}
}

// DisplayLocation is the store's local time (Bishkek, UTC+6).
var DisplayLocation = loadDisplayLocation()

func loadDisplayLocation() *time.Location {
	if loc, err := time.LoadLocation("Asia/Bishkek"); err == nil {
		return loc
	}
	return time.FixedZone("+06", 6*60*60)
}
