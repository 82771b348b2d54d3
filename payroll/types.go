/*
Package payroll implements the shift payroll computation engine.

PURPOSE:
  Converts a raw clock-in/clock-out interval, a set of labor-law work rules,
  an hourly wage, and a set of time-bounded bonus entitlements into an
  itemized pay breakdown: regular pay, two tiers of weekday overtime, three
  tiers of Sabbath/holiday pay, hourly bonuses, and fixed bonuses.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: Integer amount in minor currency units (agorot)
  - WorkRules: Immutable statutory configuration for one computation
  - ShiftType: Closed day/time classification tag
  - OvertimeBreakdown: Minutes partitioned into statutory buckets
  - ShiftPayrollResult: The full itemized output for one shift
  - BonusInfo: A time-bounded bonus entitlement

DESIGN PRINCIPLES:
  1. Integer money: All stored amounts are integers in minor units
  2. Precision: decimal.Decimal for intermediates, rounded per line item
  3. Purity: Every computation is a total function of its inputs
  4. Auditability: Each line item rounds independently so itemized amounts
     always re-sum to the reported totals

USAGE:
  rules := payroll.DefaultRules()
  result := payroll.ComputeShiftPayroll(payroll.ComputeInput{
      Start:      start,
      End:        end,
      HourlyRate: 5000, // 50.00 per hour
      Rules:      rules,
  })

SEE ALSO:
  - classify.go: Shift type classification
  - breakdown.go: Overtime breakdown engine
  - compute.go: Per-shift payroll aggregation
  - weekly.go: Weekly overtime reconciliation
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Integer minor currency units
// =============================================================================

// Money is an amount in minor currency units (agorot for shekels).
// All monetary storage and arithmetic uses this integer type; floating
// intermediates exist only inside a computation and are rounded per line.
type Money int64

// Decimal returns the amount as a decimal for intermediate arithmetic.
func (m Money) Decimal() decimal.Decimal { return decimal.NewFromInt(int64(m)) }

// =============================================================================
// WORK RULES - Statutory configuration
// =============================================================================

// WorkWeekType selects between a five-day and a six-day statutory work week.
type WorkWeekType string

const (
	FiveDayWeek WorkWeekType = "five_day"
	SixDayWeek  WorkWeekType = "six_day"
)

// WorkRules holds the labor-law configuration for one payroll computation.
// Thresholds are expressed in decimal hours (e.g. 8.6) and converted to
// minutes only at the breakdown boundary. A WorkRules value is supplied per
// computation and never mutated mid-computation.
type WorkRules struct {
	WeekType WorkWeekType

	// Per-day standard-hour thresholds
	StandardDayHours float64 // full weekday (8.6 under a 5-day week, 8.0 under 6-day)
	ShortDayHours    float64 // declared short days (holiday eves)
	FridayHours      float64 // Friday under a 6-day week
	NightShiftHours  float64 // shifts inside the night window

	// Weekly cap for the second reconciliation pass
	WeeklyStandardHours float64

	// Weekday overtime: first OvertimeFirstHours beyond the daily standard
	// pay OvertimeFirstRate, everything beyond pays OvertimeSecondRate.
	OvertimeFirstRate  float64
	OvertimeSecondRate float64
	OvertimeFirstHours float64

	// Sabbath/holiday multipliers. ShabbatRate applies from minute zero;
	// the overtime tiers stack the weekday premiums on top of it.
	ShabbatRate               float64
	ShabbatOvertimeFirstRate  float64
	ShabbatOvertimeSecondRate float64

	// Sanity bound on a single shift. Not enforced by the engine itself;
	// callers may reject longer intervals before computing.
	MaxDailyHours float64

	// Friday shifts starting at or after this hour classify as SHABBAT.
	ShabbatEntryHour int
}

// DefaultRules returns the documented default configuration: a five-day
// Israeli work week with an 8.6-hour standard day, a 42-hour weekly cap,
// 125%/150% weekday overtime with a 2-hour first tier, and 150%/175%/200%
// Sabbath rates. Used as the fallback when no persisted rules exist.
func DefaultRules() WorkRules {
	return WorkRules{
		WeekType:                  FiveDayWeek,
		StandardDayHours:          8.6,
		ShortDayHours:             7.0,
		FridayHours:               7.0,
		NightShiftHours:           7.0,
		WeeklyStandardHours:       42.0,
		OvertimeFirstRate:         1.25,
		OvertimeSecondRate:        1.50,
		OvertimeFirstHours:        2.0,
		ShabbatRate:               1.50,
		ShabbatOvertimeFirstRate:  1.75,
		ShabbatOvertimeSecondRate: 2.00,
		MaxDailyHours:             14.0,
		ShabbatEntryHour:          18,
	}
}

// =============================================================================
// SHIFT TYPE - Closed classification tag
// =============================================================================

// ShiftType classifies a shift by its start timestamp's day-of-week,
// hour-of-day, and an externally supplied holiday flag. Exactly one tag per
// shift; the tag fully determines which statutory branch of the breakdown
// applies.
type ShiftType string

const (
	ShiftRegular  ShiftType = "regular"
	ShiftShortDay ShiftType = "short_day"
	ShiftNight    ShiftType = "night"
	ShiftFriday   ShiftType = "friday"
	ShiftShabbat  ShiftType = "shabbat"
	ShiftHoliday  ShiftType = "holiday"
)

// IsShabbatRated reports whether the shift pays on the Sabbath/holiday
// branch (every minute is potential overtime, Sabbath premiums apply).
func (st ShiftType) IsShabbatRated() bool {
	return st == ShiftShabbat || st == ShiftHoliday
}

// =============================================================================
// OVERTIME BREAKDOWN - Minutes partitioned into statutory buckets
// =============================================================================

// OvertimeBreakdown is the output of the breakdown stage: six non-negative
// minute counts plus the total. For any single shift exactly one of the
// weekday bucket set or the Sabbath bucket set is non-zero, never both.
// The six buckets re-sum to TotalMinutes within one minute of rounding
// drift from decimal-hour threshold conversion.
type OvertimeBreakdown struct {
	TotalMinutes int

	// Weekday branch
	RegularMinutes     int
	Overtime125Minutes int
	Overtime150Minutes int

	// Sabbath/holiday branch
	ShabbatMinutes            int
	ShabbatOvertime175Minutes int
	ShabbatOvertime200Minutes int
}

// BucketSum returns the sum of the six buckets. May differ from
// TotalMinutes by at most one minute of threshold rounding drift.
func (b OvertimeBreakdown) BucketSum() int {
	return b.RegularMinutes + b.Overtime125Minutes + b.Overtime150Minutes +
		b.ShabbatMinutes + b.ShabbatOvertime175Minutes + b.ShabbatOvertime200Minutes
}

// =============================================================================
// BONUS INFO - Time-bounded bonus entitlement
// =============================================================================

type BonusType string

const (
	BonusHourly  BonusType = "hourly"
	BonusOneTime BonusType = "one_time"
)

// BonusInfo is a bonus entitlement with a validity interval. HourlyAmount
// is set only for hourly bonuses, FixedAmount only for one-time bonuses.
type BonusInfo struct {
	ID           string
	Type         BonusType
	HourlyAmount Money // per hour, for BonusHourly
	FixedAmount  Money // per shift, for BonusOneTime
	ValidFrom    *time.Time
	ValidTo      *time.Time
	Description  string
}

// ActiveAt reports whether the bonus applies to a shift starting at t.
// Both bounds must be present and the interval is inclusive. A bonus with
// a missing bound cannot be evaluated and is excluded, never assumed
// permanent.
func (b BonusInfo) ActiveAt(t time.Time) bool {
	if b.ValidFrom == nil || b.ValidTo == nil {
		return false
	}
	return !t.Before(*b.ValidFrom) && !t.After(*b.ValidTo)
}

// =============================================================================
// SHIFT PAYROLL RESULT - Full itemized output
// =============================================================================

// ShiftPayrollResult is the itemized pay for a single shift. All fields are
// derived and immutable once produced; the six pay amounts mirror the six
// breakdown buckets and were each rounded independently.
type ShiftPayrollResult struct {
	Start time.Time
	End   time.Time

	ShiftType ShiftType
	Breakdown OvertimeBreakdown

	RegularPay     Money
	Overtime125Pay Money
	Overtime150Pay Money
	ShabbatPay     Money
	Shabbat175Pay  Money
	Shabbat200Pay  Money

	BasePay         Money // sum of the six bucket pays
	HourlyBonusPay  Money
	OneTimeBonusPay Money
	TotalBonusPay   Money
	TotalPay        Money

	// Informational rates, not used in the pay computation
	HourlyRate          Money
	EffectiveHourlyRate Money // HourlyRate plus active hourly bonus amounts
}

// =============================================================================
// AGGREGATED RESULTS
// =============================================================================

// WeeklyResult is the outcome of the weekly overtime reconciliation pass
// over one statutory week of already-computed daily results.
type WeeklyResult struct {
	WeekStart time.Time

	TotalRegularMinutes int // regular buckets only; daily overtime excluded

	TotalDailyPay        Money // payroll as if each day stood alone
	WeeklyOvertime125Pay Money // incremental first-tier premium
	WeeklyOvertime150Pay Money // incremental second-tier premium
	WeeklyOvertimePay    Money
	TotalPay             Money
}

// PeriodSummary is a pure reduction over a list of per-shift results plus
// the weekly reconciliation adjustments for each statutory week in the
// period.
type PeriodSummary struct {
	ShiftCount int
	Breakdown  OvertimeBreakdown

	BasePay         Money
	HourlyBonusPay  Money
	OneTimeBonusPay Money
	TotalBonusPay   Money

	TotalDailyPay     Money
	WeeklyOvertimePay Money
	TotalPay          Money

	Weeks []WeeklyResult
}
