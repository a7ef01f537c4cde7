// Package timeutil provides minute-resolution arithmetic on "HH:MM" time
// strings. All times are minutes since midnight within a single day; nothing
// here knows about dates or timezones.
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
)

const MinutesPerDay = 24 * 60

var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrInvalidRange      = errors.New("invalid time range")
)

func IsErrInvalidTimeFormat(err error) bool {
	return errors.Is(err, ErrInvalidTimeFormat)
}

func IsErrInvalidRange(err error) bool {
	return errors.Is(err, ErrInvalidRange)
}

var timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ToMinutes parses an "HH:MM" string into minutes since midnight.
func ToMinutes(t string) (int, error) {
	if !timeRe.MatchString(t) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, t)
	}
	var h, m int
	if _, err := fmt.Sscanf(t, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, t)
	}
	return h*60 + m, nil
}

// FromMinutes formats minutes since midnight as "HH:MM". The caller must
// pass a value in [0, MinutesPerDay).
func FromMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddMinutes returns t shifted forward by mins. The second return value is
// true when the result crosses midnight into the next day; the returned time
// is then wrapped within the 24-hour day and callers decide how to handle
// the overflow.
func AddMinutes(t string, mins int) (string, bool, error) {
	m, err := ToMinutes(t)
	if err != nil {
		return "", false, err
	}
	total := m + mins
	overflow := total >= MinutesPerDay || total < 0
	total = ((total % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return FromMinutes(total), overflow, nil
}

// Overlaps reports whether the half-open minute intervals [startA, endA) and
// [startB, endB) intersect. Touching endpoints do not overlap.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}

// RangesOverlap is Overlaps on "HH:MM" strings.
func RangesOverlap(startA, endA, startB, endB string) (bool, error) {
	sa, err := ToMinutes(startA)
	if err != nil {
		return false, err
	}
	ea, err := ToMinutes(endA)
	if err != nil {
		return false, err
	}
	sb, err := ToMinutes(startB)
	if err != nil {
		return false, err
	}
	eb, err := ToMinutes(endB)
	if err != nil {
		return false, err
	}
	return Overlaps(sa, ea, sb, eb), nil
}

// Duration returns end minus start in minutes. A non-positive span is an
// ErrInvalidRange.
func Duration(start, end string) (int, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return 0, err
	}
	if e <= s {
		return 0, fmt.Errorf("%w: %s >= %s", ErrInvalidRange, start, end)
	}
	return e - s, nil
}
