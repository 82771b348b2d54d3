/*
bonus.go - Bonus entitlement filtering and bonus pay

PURPOSE:
  Filters bonus entitlements to those active on the shift date and computes
  the two itemized bonus lines. The engine does the filtering itself so
  bonus providers never need to pre-filter.

ACTIVATION:
  A bonus is active iff the shift's START time falls inside the bonus's
  [ValidFrom, ValidTo] interval, both bounds present and inclusive. An
  entitlement missing either bound is excluded defensively rather than
  treated as permanent.

ROUNDING:
  Each hourly bonus is rounded independently, then summed. One-time bonuses
  are already whole minor units and are paid in full once per shift
  regardless of duration.
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActiveBonuses returns the entitlements whose validity window contains
// the shift start. Order is preserved.
func ActiveBonuses(bonuses []BonusInfo, shiftStart time.Time) []BonusInfo {
	var active []BonusInfo
	for _, b := range bonuses {
		if b.ActiveAt(shiftStart) {
			active = append(active, b)
		}
	}
	return active
}

// HourlyBonusPay sums the per-bonus rounded pay of the active hourly
// bonuses: round(amountPerHour x durationMinutes/60) for each, half away
// from zero.
func HourlyBonusPay(active []BonusInfo, durationMinutes int) Money {
	if durationMinutes <= 0 {
		return 0
	}
	hours := decimal.NewFromInt(int64(durationMinutes)).Div(sixty)

	var total Money
	for _, b := range active {
		if b.Type != BonusHourly {
			continue
		}
		total += Money(b.HourlyAmount.Decimal().Mul(hours).Round(0).IntPart())
	}
	return total
}

// OneTimeBonusPay sums the fixed amounts of the active one-time bonuses.
func OneTimeBonusPay(active []BonusInfo) Money {
	var total Money
	for _, b := range active {
		if b.Type == BonusOneTime {
			total += b.FixedAmount
		}
	}
	return total
}

// hourlyBonusRateSum totals the per-hour amounts of the active hourly
// bonuses, for the informational effective rate.
func hourlyBonusRateSum(active []BonusInfo) Money {
	var total Money
	for _, b := range active {
		if b.Type == BonusHourly {
			total += b.HourlyAmount
		}
	}
	return total
}
