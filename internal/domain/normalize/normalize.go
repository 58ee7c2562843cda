// Package normalize canonicalizes the textual date and time columns of the
// warehouse dimension and fact tables. Values that do not parse under any
// known source layout are kept verbatim; the tagged Outcome lets callers tell
// the two cases apart.
package normalize

import (
	"strings"
	"time"
)

// Canonical layouts emitted after a successful parse.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Outcome is the result of normalizing a single value. Parsed reports whether
// the input was recognized; when false, Canonical carries the original text
// unchanged.
type Outcome struct {
	Canonical string
	Parsed    bool
}

// Source layouts seen in raw warehouse exports. The canonical layout comes
// first so an already-normalized value round-trips to itself.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
}

var timeLayouts = []string{
	TimeLayout,
	"15:04",
	"3:04:05 PM",
}

var dateTimeLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04",
}

// Date normalizes a calendar date to YYYY-MM-DD.
func Date(raw string) Outcome {
	return normalize(raw, dateLayouts, DateLayout)
}

// Time normalizes a clock time to HH:MM:SS.
func Time(raw string) Outcome {
	return normalize(raw, timeLayouts, TimeLayout)
}

// DateTime normalizes a timestamp to "YYYY-MM-DD HH:MM:SS".
func DateTime(raw string) Outcome {
	return normalize(raw, dateTimeLayouts, DateTimeLayout)
}

func normalize(raw string, layouts []string, canonical string) Outcome {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Outcome{Canonical: raw}
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Outcome{Canonical: t.Format(canonical), Parsed: true}
		}
	}

	return Outcome{Canonical: raw}
}
