package plan

import (
	"fmt"
	"time"

	"github.com/hhgyloh/untisplan-go/internal/errors"
)

// wire dates are 8-digit YYYYMMDD codes, used both in outbound requests and
// in the date/nextDate fields of a payload.

// EncodeDate converts a calendar date into its wire code, derived from the
// UTC calendar date.
func EncodeDate(t time.Time) int {
	t = t.UTC()
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// DecodeWireDate parses a wire date field into a calendar date (UTC
// midnight). The raw value is entity-decoded first; the canonical format is
// four year digits, two month digits and two day digits with no separator,
// sliced at fixed offsets. Anything else is a Parsing error.
func DecodeWireDate(raw string) (time.Time, error) {
	decoded := DecodeText(raw)
	if len(decoded) != 8 {
		return time.Time{}, errors.NewParsingError("date", raw,
			fmt.Errorf("want 8 digits, got %d characters", len(decoded)))
	}

	iso := decoded[0:4] + "-" + decoded[4:6] + "-" + decoded[6:8]
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return time.Time{}, errors.NewParsingError("date", raw, err)
	}
	return t, nil
}

// DayStart truncates a date to UTC midnight, the canonical form used for
// plan dates and cache keys.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
