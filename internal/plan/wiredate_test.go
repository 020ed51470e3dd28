package plan

import (
	"errors"
	"strconv"
	"testing"
	"time"

	domerrors "github.com/hhgyloh/untisplan-go/internal/errors"
)

func TestEncodeDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{
			name: "plain date",
			date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			want: 20240115,
		},
		{
			name: "time of day is ignored",
			date: time.Date(2024, 12, 3, 23, 59, 59, 0, time.UTC),
			want: 20241203,
		},
		{
			name: "non-UTC zone converts to the UTC calendar date",
			date: time.Date(2024, 1, 15, 23, 30, 0, 0, time.FixedZone("CET-ish", -2*3600)),
			want: 20240116,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EncodeDate(tt.date); got != tt.want {
				t.Errorf("EncodeDate(%v) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestDecodeWireDate(t *testing.T) {
	t.Parallel()

	got, err := DecodeWireDate("20240115")
	if err != nil {
		t.Fatalf("DecodeWireDate() error = %v", err)
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DecodeWireDate(\"20240115\") = %v, want %v", got, want)
	}
}

func TestDecodeWireDateMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "2024", "2024011", "202401155", "2024-01-15", "abcdefgh"} {
		_, err := DecodeWireDate(raw)
		if err == nil {
			t.Errorf("DecodeWireDate(%q) should fail", raw)
			continue
		}
		var parseErr *domerrors.ParsingError
		if !errors.As(err, &parseErr) {
			t.Errorf("DecodeWireDate(%q) error = %T, want *ParsingError", raw, err)
		}
	}
}

func TestDateRoundTrip(t *testing.T) {
	t.Parallel()

	// Walk a year of dates across a leap boundary.
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		code := EncodeDate(day)
		decoded, err := DecodeWireDate(strconv.Itoa(code))
		if err != nil {
			t.Fatalf("round trip failed for %v: %v", day, err)
		}
		if !decoded.Equal(day) {
			t.Fatalf("round trip %v -> %d -> %v", day, code, decoded)
		}
		day = day.AddDate(0, 0, 1)
	}
}

func TestDayStart(t *testing.T) {
	t.Parallel()

	got := DayStart(time.Date(2024, 6, 1, 17, 45, 12, 99, time.UTC))
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DayStart() = %v, want %v", got, want)
	}
}
