// Package timewindow converts wall-clock "HH:MM" strings into comparable
// minute-of-day integers and tests half-open interval overlap.
package timewindow

import "errors"

// ErrInvalidFormat is returned for anything that is not a strict
// 24-hour "HH:MM" string.
var ErrInvalidFormat = errors.New("invalid time format, expected HH:MM")

// MinutesPerDay is the exclusive upper bound of a minute-of-day value.
const MinutesPerDay = 24 * 60

// ToMinutes parses a strict 5-character "HH:MM" string and returns minutes
// since midnight (0-1439). Hours must be 00-23 and minutes 00-59; no
// whitespace, single-digit hours or seconds are accepted.
func ToMinutes(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, ErrInvalidFormat
	}

	for _, i := range [4]int{0, 1, 3, 4} {
		if hhmm[i] < '0' || hhmm[i] > '9' {
			return 0, ErrInvalidFormat
		}
	}

	hours := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	minutes := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')

	if hours > 23 || minutes > 59 {
		return 0, ErrInvalidFormat
	}

	return hours*60 + minutes, nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching intervals (aEnd == bStart) do not
// overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
