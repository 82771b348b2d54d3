/*
breakdown.go - Overtime breakdown engine

PURPOSE:
  Partitions a shift's minutes into regular vs. overtime buckets following
  the statutory per-day thresholds. Two mutually exclusive branches:

  WEEKDAY (REGULAR / SHORT_DAY / NIGHT / FRIDAY):
    regular   = min(total, standard)
    tier-1    = min(excess, firstTierCap)    paid at 125%
    tier-2    = excess beyond the cap        paid at 150%

  SABBATH/HOLIDAY:
    The daily standard is zero - every minute is potential overtime,
    reflecting the assumption that the weekly quota is already exhausted.
    tier base = min(total, firstTierCap)     paid at 175%
    tier-2    = remainder                    paid at 200%
    (The Sabbath base premium of 150% applies to the regular bucket in the
    aggregator; with a zero threshold that bucket stays empty here.)

ROUNDING:
  Rule thresholds are decimal hours (e.g. 8.6). They are converted to whole
  minutes with round-half-away-from-zero at this boundary only; bucket
  arithmetic is pure integer math afterwards. The rounded buckets may
  re-sum one minute away from the unrounded total. That drift is accepted
  and reported as-is rather than forced back into equality.

SEE ALSO:
  - classify.go: Produces the ShiftType consumed here
  - compute.go: Multiplies the buckets by their statutory rates
*/
package payroll

import "github.com/shopspring/decimal"

// hoursToMinutes converts a decimal-hour threshold to whole minutes,
// rounding half away from zero.
func hoursToMinutes(hours float64) int {
	return int(decimal.NewFromFloat(hours).Mul(decimal.NewFromInt(60)).Round(0).IntPart())
}

// standardMinutes resolves the statutory standard-day threshold, in
// minutes, for a shift type. Sabbath and holiday shifts have a zero
// threshold: the entire duration is overtime-rated.
func standardMinutes(shiftType ShiftType, rules WorkRules) int {
	switch shiftType {
	case ShiftShabbat, ShiftHoliday:
		return 0
	case ShiftNight:
		return hoursToMinutes(rules.NightShiftHours)
	case ShiftShortDay:
		return hoursToMinutes(rules.ShortDayHours)
	case ShiftFriday:
		if rules.WeekType == SixDayWeek {
			return hoursToMinutes(rules.FridayHours)
		}
		return hoursToMinutes(rules.ShortDayHours)
	default:
		return hoursToMinutes(rules.StandardDayHours)
	}
}

// ComputeBreakdown partitions totalMinutes into the six statutory buckets.
// Total function: negative or zero durations yield all-zero buckets, never
// an error. Tier-2 minutes cannot exist until tier-1 is fully saturated.
func ComputeBreakdown(totalMinutes int, shiftType ShiftType, rules WorkRules) OvertimeBreakdown {
	if totalMinutes <= 0 {
		return OvertimeBreakdown{}
	}

	b := OvertimeBreakdown{TotalMinutes: totalMinutes}
	firstTierCap := hoursToMinutes(rules.OvertimeFirstHours)

	if shiftType.IsShabbatRated() {
		b.ShabbatOvertime175Minutes = min(totalMinutes, firstTierCap)
		b.ShabbatOvertime200Minutes = totalMinutes - b.ShabbatOvertime175Minutes
		return b
	}

	standard := standardMinutes(shiftType, rules)
	b.RegularMinutes = min(totalMinutes, standard)

	excess := totalMinutes - b.RegularMinutes
	b.Overtime125Minutes = min(excess, firstTierCap)
	b.Overtime150Minutes = excess - b.Overtime125Minutes
	return b
}
