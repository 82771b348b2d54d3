/*
compute.go - Per-shift payroll aggregation

PURPOSE:
  Multiplies each breakdown bucket by its statutory rate, sums to a base
  pay, layers active bonus pay on top, and emits the itemized result.

ROUNDING CONTRACT:
  The per-minute rate (hourlyRate / 60) is kept as a decimal intermediate
  and never pre-rounded. Each bucket's pay - and each hourly bonus - is
  rounded to the nearest minor unit (half away from zero) INDEPENDENTLY,
  then summed. Computing in aggregate and rounding once would change the
  itemized line amounts visible to the employee, so the itemization is the
  source of truth and the totals are sums of rounded lines.

MULTIPLIERS:
  regular           x1.00
  overtime tier-1   x OvertimeFirstRate          (125%)
  overtime tier-2   x OvertimeSecondRate         (150%)
  sabbath regular   x ShabbatRate                (150%, never 1.0)
  sabbath tier-1    x ShabbatOvertimeFirstRate   (175%)
  sabbath tier-2    x ShabbatOvertimeSecondRate  (200%)

DETERMINISM:
  Pure computation, no side effects; identical inputs always produce
  byte-identical results. Payroll must be reproducible for audit.

SEE ALSO:
  - breakdown.go: Produces the minute buckets consumed here
  - bonus.go: Validity-window filtering and bonus pay
  - weekly.go: Second, weekly-level overtime pass
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// ComputeInput carries everything one shift computation needs. Rules is
// read but never mutated; the engine performs no I/O.
type ComputeInput struct {
	Start time.Time
	End   time.Time

	HourlyRate Money
	Bonuses    []BonusInfo
	Rules      WorkRules

	// Classification inputs; ignored when TypeOverride is set.
	IsShortDay bool
	IsHoliday  bool

	// TypeOverride skips classification entirely when non-nil.
	TypeOverride *ShiftType
}

// DurationMinutes returns the shift length in whole minutes, floored, and
// never negative. Callers are responsible for rejecting open shifts (no
// end time) before building an input; a reversed interval degrades to a
// zero-pay result rather than an error.
func (in ComputeInput) DurationMinutes() int {
	minutes := int(in.End.Sub(in.Start).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// bucketPay computes one line item: minutes x (rate/60) x multiplier,
// rounded half away from zero to a whole minor unit.
func bucketPay(minutes int, hourlyRate Money, multiplier float64) Money {
	if minutes == 0 {
		return 0
	}
	perMinute := hourlyRate.Decimal().Div(sixty)
	pay := perMinute.Mul(decimal.NewFromInt(int64(minutes))).Mul(decimal.NewFromFloat(multiplier))
	return Money(pay.Round(0).IntPart())
}

// ComputeShiftPayroll converts one shift into its itemized pay. Total
// function: every structurally valid input produces a result, so a monthly
// batch run always completes with some auditable number.
func ComputeShiftPayroll(in ComputeInput) ShiftPayrollResult {
	shiftType := Classify(in.Start, in.IsShortDay, in.IsHoliday, in.Rules)
	if in.TypeOverride != nil {
		shiftType = *in.TypeOverride
	}

	breakdown := ComputeBreakdown(in.DurationMinutes(), shiftType, in.Rules)

	result := ShiftPayrollResult{
		Start:      in.Start,
		End:        in.End,
		ShiftType:  shiftType,
		Breakdown:  breakdown,
		HourlyRate: in.HourlyRate,

		RegularPay:     bucketPay(breakdown.RegularMinutes, in.HourlyRate, 1.0),
		Overtime125Pay: bucketPay(breakdown.Overtime125Minutes, in.HourlyRate, in.Rules.OvertimeFirstRate),
		Overtime150Pay: bucketPay(breakdown.Overtime150Minutes, in.HourlyRate, in.Rules.OvertimeSecondRate),

		// Sabbath-regular always carries the Sabbath premium, even with
		// zero overtime.
		ShabbatPay:    bucketPay(breakdown.ShabbatMinutes, in.HourlyRate, in.Rules.ShabbatRate),
		Shabbat175Pay: bucketPay(breakdown.ShabbatOvertime175Minutes, in.HourlyRate, in.Rules.ShabbatOvertimeFirstRate),
		Shabbat200Pay: bucketPay(breakdown.ShabbatOvertime200Minutes, in.HourlyRate, in.Rules.ShabbatOvertimeSecondRate),
	}

	result.BasePay = result.RegularPay + result.Overtime125Pay + result.Overtime150Pay +
		result.ShabbatPay + result.Shabbat175Pay + result.Shabbat200Pay

	active := ActiveBonuses(in.Bonuses, in.Start)
	result.HourlyBonusPay = HourlyBonusPay(active, breakdown.TotalMinutes)
	result.OneTimeBonusPay = OneTimeBonusPay(active)
	result.TotalBonusPay = result.HourlyBonusPay + result.OneTimeBonusPay
	result.TotalPay = result.BasePay + result.TotalBonusPay

	result.EffectiveHourlyRate = in.HourlyRate + hourlyBonusRateSum(active)
	return result
}
