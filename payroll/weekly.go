/*
weekly.go - Weekly overtime reconciliation and period reduction

PURPOSE:
  Statutory law evaluates overtime both daily and weekly. The daily pass
  (breakdown.go / compute.go) already paid daily overtime; this second,
  independent pass re-examines one week of computed results against the
  weekly standard-hour cap.

THE POOL:
  Only the REGULAR buckets of each shift feed the weekly pool - minutes
  already paid as daily overtime are excluded, otherwise they would earn a
  premium twice.

INCREMENTAL PREMIUM:
  Hours beyond the weekly cap split into tier-1 (up to the first-tier hour
  cap) and tier-2. Each tier adds hours x rate x (multiplier - 1): only the
  additional premium on top of the 100% the daily computation already paid,
  never the full tier amount again.

WEEK BOUNDARY:
  Statutory weeks start Sunday 00:00 (Israeli work week). SplitWeeks groups
  a period's shifts by the Sunday that begins their week.

SEE ALSO:
  - compute.go: The daily pass whose results feed this one
*/
package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ComputeWeeklyPayroll runs the weekly reconciliation pass over one week's
// already-computed daily results. The hourly rate is supplied again because
// the incremental premium is computed from the nominal rate, not from any
// per-shift effective rate.
func ComputeWeeklyPayroll(shifts []ShiftPayrollResult, hourlyRate Money, rules WorkRules) WeeklyResult {
	result := WeeklyResult{}
	if len(shifts) > 0 {
		result.WeekStart = WeekStart(shifts[0].Start)
	}

	for _, s := range shifts {
		result.TotalDailyPay += s.TotalPay
		result.TotalRegularMinutes += s.Breakdown.RegularMinutes
	}

	capMinutes := hoursToMinutes(rules.WeeklyStandardHours)
	excess := result.TotalRegularMinutes - capMinutes
	if excess > 0 {
		firstTierCap := hoursToMinutes(rules.OvertimeFirstHours)
		tier1 := min(excess, firstTierCap)
		tier2 := excess - tier1

		result.WeeklyOvertime125Pay = incrementalPay(tier1, hourlyRate, rules.OvertimeFirstRate)
		result.WeeklyOvertime150Pay = incrementalPay(tier2, hourlyRate, rules.OvertimeSecondRate)
		result.WeeklyOvertimePay = result.WeeklyOvertime125Pay + result.WeeklyOvertime150Pay
	}

	result.TotalPay = result.TotalDailyPay + result.WeeklyOvertimePay
	return result
}

// incrementalPay is minutes x (rate/60) x (multiplier - 1), rounded half
// away from zero. The base 100% was already paid by the daily pass.
func incrementalPay(minutes int, hourlyRate Money, multiplier float64) Money {
	if minutes <= 0 {
		return 0
	}
	premium := decimal.NewFromFloat(multiplier).Sub(decimal.NewFromInt(1))
	pay := hourlyRate.Decimal().Div(sixty).Mul(decimal.NewFromInt(int64(minutes))).Mul(premium)
	return Money(pay.Round(0).IntPart())
}

// WeekStart returns the Sunday 00:00 (same location as t) beginning the
// statutory week containing t.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// SplitWeeks groups computed shifts by statutory week, ordered by week
// start. Shift order within a week is preserved.
func SplitWeeks(shifts []ShiftPayrollResult) [][]ShiftPayrollResult {
	byWeek := make(map[time.Time][]ShiftPayrollResult)
	for _, s := range shifts {
		ws := WeekStart(s.Start)
		byWeek[ws] = append(byWeek[ws], s)
	}

	starts := make([]time.Time, 0, len(byWeek))
	for ws := range byWeek {
		starts = append(starts, ws)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	weeks := make([][]ShiftPayrollResult, 0, len(starts))
	for _, ws := range starts {
		weeks = append(weeks, byWeek[ws])
	}
	return weeks
}

// ComputePeriodPayroll reduces a period's computed shifts into one summary:
// every bucket and pay field summed, plus the weekly reconciliation pass
// run per statutory week.
func ComputePeriodPayroll(shifts []ShiftPayrollResult, hourlyRate Money, rules WorkRules) PeriodSummary {
	summary := PeriodSummary{ShiftCount: len(shifts)}

	for _, s := range shifts {
		summary.Breakdown.TotalMinutes += s.Breakdown.TotalMinutes
		summary.Breakdown.RegularMinutes += s.Breakdown.RegularMinutes
		summary.Breakdown.Overtime125Minutes += s.Breakdown.Overtime125Minutes
		summary.Breakdown.Overtime150Minutes += s.Breakdown.Overtime150Minutes
		summary.Breakdown.ShabbatMinutes += s.Breakdown.ShabbatMinutes
		summary.Breakdown.ShabbatOvertime175Minutes += s.Breakdown.ShabbatOvertime175Minutes
		summary.Breakdown.ShabbatOvertime200Minutes += s.Breakdown.ShabbatOvertime200Minutes

		summary.BasePay += s.BasePay
		summary.HourlyBonusPay += s.HourlyBonusPay
		summary.OneTimeBonusPay += s.OneTimeBonusPay
		summary.TotalBonusPay += s.TotalBonusPay
		summary.TotalDailyPay += s.TotalPay
	}

	for _, week := range SplitWeeks(shifts) {
		wr := ComputeWeeklyPayroll(week, hourlyRate, rules)
		summary.Weeks = append(summary.Weeks, wr)
		summary.WeeklyOvertimePay += wr.WeeklyOvertimePay
	}

	summary.TotalPay = summary.TotalDailyPay + summary.WeeklyOvertimePay
	return summary
}
