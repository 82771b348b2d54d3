/*
classify.go - Shift type classification

PURPOSE:
  Determines which statutory branch a shift falls into from its start
  timestamp, a short-day flag, and a holiday flag. The classification
  precedence is statutory and must not be reordered: a borderline shift
  (e.g. Friday night) lands in a different bucket if the checks swap.

PRECEDENCE (first match wins):
  1. Holiday flag          -> HOLIDAY
  2. Saturday              -> SHABBAT
  3. Friday, at/after the Sabbath-entry hour -> SHABBAT, else FRIDAY
  4. Night window (>=22:00 or <06:00)        -> NIGHT
  5. Short-day flag        -> SHORT_DAY
  6. Otherwise             -> REGULAR

SEE ALSO:
  - breakdown.go: Resolves the standard-hour threshold per type
*/
package payroll

import "time"

// Night window bounds. A shift starting at or after NightStartHour, or
// strictly before NightEndHour, classifies as a night shift.
const (
	NightStartHour = 22
	NightEndHour   = 6
)

// Classify resolves the shift type for a shift starting at start.
// Deterministic and total: every timestamp classifies to exactly one tag.
// The holiday and short-day flags are supplied by the caller (calendar
// lookup is an external concern).
func Classify(start time.Time, isShortDay, isHoliday bool, rules WorkRules) ShiftType {
	if isHoliday {
		return ShiftHoliday
	}
	switch start.Weekday() {
	case time.Saturday:
		return ShiftShabbat
	case time.Friday:
		if start.Hour() >= rules.ShabbatEntryHour {
			return ShiftShabbat
		}
		return ShiftFriday
	}
	if start.Hour() >= NightStartHour || start.Hour() < NightEndHour {
		return ShiftNight
	}
	if isShortDay {
		return ShiftShortDay
	}
	return ShiftRegular
}
