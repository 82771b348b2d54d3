/*
dto.go - Request/response data structures

PURPOSE:
  JSON shapes for the HTTP surface. Requests carry validator tags and are
  checked before any domain logic runs; responses expose the engine's raw
  integer minutes and minor units alongside formatted display strings, so
  clients can either render directly or do their own math on exact values.
*/
package api

import (
	"time"

	"github.com/shiftwise/payroll-engine/payroll"
	"github.com/shiftwise/payroll-engine/store/sqlite"
)

// =============================================================================
// REQUESTS
// =============================================================================

// CreateEmployeeRequest creates an employee with a base hourly rate in
// minor currency units.
type CreateEmployeeRequest struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name" validate:"required"`
	HourlyRate int64  `json:"hourly_rate" validate:"gte=0"`
}

// RateOverrideRequest sets a per-work-type hourly rate.
type RateOverrideRequest struct {
	WorkType   string `json:"work_type" validate:"required"`
	HourlyRate int64  `json:"hourly_rate" validate:"gte=0"`
}

// CreateShiftRequest records a clock-in/clock-out interval. End may be
// omitted for a still-open shift; open shifts have no computable pay.
type CreateShiftRequest struct {
	ID         string     `json:"id,omitempty"`
	EmployeeID string     `json:"employee_id" validate:"required"`
	Start      time.Time  `json:"start" validate:"required"`
	End        *time.Time `json:"end,omitempty"`
	WorkType   string     `json:"work_type,omitempty"`
	IsHoliday  bool       `json:"is_holiday,omitempty"`
	IsShortDay bool       `json:"is_short_day,omitempty"`
}

// CreateBonusRequest creates a bonus entitlement.
type CreateBonusRequest struct {
	ID           string     `json:"id,omitempty"`
	Type         string     `json:"type" validate:"required,oneof=hourly one_time"`
	HourlyAmount int64      `json:"hourly_amount,omitempty" validate:"gte=0"`
	FixedAmount  int64      `json:"fixed_amount,omitempty" validate:"gte=0"`
	ValidFrom    *time.Time `json:"valid_from,omitempty"`
	ValidTo      *time.Time `json:"valid_to,omitempty"`
	Description  string     `json:"description,omitempty"`
}

// PreviewRequest computes pay for a hypothetical shift without persisting
// anything.
type PreviewRequest struct {
	Start      time.Time            `json:"start" validate:"required"`
	End        time.Time            `json:"end" validate:"required"`
	HourlyRate int64                `json:"hourly_rate" validate:"gte=0"`
	IsHoliday  bool                 `json:"is_holiday,omitempty"`
	IsShortDay bool                 `json:"is_short_day,omitempty"`
	Bonuses    []CreateBonusRequest `json:"bonuses,omitempty"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HourlyRate int64  `json:"hourly_rate"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// ShiftDTO represents a shift in API responses.
type ShiftDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Start      string  `json:"start"`
	End        *string `json:"end,omitempty"`
	WorkType   string  `json:"work_type,omitempty"`
	IsHoliday  bool    `json:"is_holiday"`
	IsShortDay bool    `json:"is_short_day"`
}

// BonusDTO represents a bonus entitlement in API responses.
type BonusDTO struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	HourlyAmount int64   `json:"hourly_amount,omitempty"`
	FixedAmount  int64   `json:"fixed_amount,omitempty"`
	ValidFrom    *string `json:"valid_from,omitempty"`
	ValidTo      *string `json:"valid_to,omitempty"`
	Description  string  `json:"description,omitempty"`
}

// BreakdownDTO mirrors the six minute buckets plus the total.
type BreakdownDTO struct {
	TotalMinutes              int    `json:"total_minutes"`
	RegularMinutes            int    `json:"regular_minutes"`
	Overtime125Minutes        int    `json:"overtime_125_minutes"`
	Overtime150Minutes        int    `json:"overtime_150_minutes"`
	ShabbatMinutes            int    `json:"shabbat_minutes"`
	ShabbatOvertime175Minutes int    `json:"shabbat_overtime_175_minutes"`
	ShabbatOvertime200Minutes int    `json:"shabbat_overtime_200_minutes"`
	TotalClock                string `json:"total_clock"` // "H:MM"
}

// PayrollResultDTO is the itemized pay for one shift.
type PayrollResultDTO struct {
	ShiftType string       `json:"shift_type"`
	Breakdown BreakdownDTO `json:"breakdown"`

	RegularPay     int64 `json:"regular_pay"`
	Overtime125Pay int64 `json:"overtime_125_pay"`
	Overtime150Pay int64 `json:"overtime_150_pay"`
	ShabbatPay     int64 `json:"shabbat_pay"`
	Shabbat175Pay  int64 `json:"shabbat_175_pay"`
	Shabbat200Pay  int64 `json:"shabbat_200_pay"`

	BasePay         int64 `json:"base_pay"`
	HourlyBonusPay  int64 `json:"hourly_bonus_pay"`
	OneTimeBonusPay int64 `json:"one_time_bonus_pay"`
	TotalBonusPay   int64 `json:"total_bonus_pay"`
	TotalPay        int64 `json:"total_pay"`

	HourlyRate          int64 `json:"hourly_rate"`
	EffectiveHourlyRate int64 `json:"effective_hourly_rate"`

	TotalPayDisplay string `json:"total_pay_display"` // "430.00"
}

// WeeklyDTO is one statutory week's reconciliation outcome.
type WeeklyDTO struct {
	WeekStart            string `json:"week_start"`
	TotalRegularMinutes  int    `json:"total_regular_minutes"`
	TotalDailyPay        int64  `json:"total_daily_pay"`
	WeeklyOvertime125Pay int64  `json:"weekly_overtime_125_pay"`
	WeeklyOvertime150Pay int64  `json:"weekly_overtime_150_pay"`
	WeeklyOvertimePay    int64  `json:"weekly_overtime_pay"`
	TotalPay             int64  `json:"total_pay"`
}

// PeriodPayrollDTO is the reduction over a date range of shifts.
type PeriodPayrollDTO struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	ShiftCount int    `json:"shift_count"`

	Breakdown BreakdownDTO `json:"breakdown"`

	BasePay         int64 `json:"base_pay"`
	HourlyBonusPay  int64 `json:"hourly_bonus_pay"`
	OneTimeBonusPay int64 `json:"one_time_bonus_pay"`
	TotalBonusPay   int64 `json:"total_bonus_pay"`

	TotalDailyPay     int64 `json:"total_daily_pay"`
	WeeklyOvertimePay int64 `json:"weekly_overtime_pay"`
	TotalPay          int64 `json:"total_pay"`

	Weeks []WeeklyDTO `json:"weeks"`

	TotalPayDisplay string `json:"total_pay_display"`

	// Shifts skipped because they have no end time yet
	OpenShiftIDs []string `json:"open_shift_ids,omitempty"`
}

// ErrorResponse carries a human-readable error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(emp sqlite.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:         emp.ID,
		Name:       emp.Name,
		HourlyRate: int64(emp.HourlyRate),
		CreatedAt:  emp.CreatedAt.Format(time.RFC3339),
	}
}

func toShiftDTO(shift sqlite.Shift) ShiftDTO {
	dto := ShiftDTO{
		ID:         shift.ID,
		EmployeeID: shift.EmployeeID,
		Start:      shift.StartAt.Format(time.RFC3339),
		WorkType:   shift.WorkType,
		IsHoliday:  shift.IsHoliday,
		IsShortDay: shift.IsShortDay,
	}
	if shift.EndAt != nil {
		end := shift.EndAt.Format(time.RFC3339)
		dto.End = &end
	}
	return dto
}

func toBonusDTO(b sqlite.Bonus) BonusDTO {
	dto := BonusDTO{
		ID:           b.ID,
		Type:         string(b.Type),
		HourlyAmount: int64(b.HourlyAmount),
		FixedAmount:  int64(b.FixedAmount),
		Description:  b.Description,
	}
	if b.ValidFrom != nil {
		s := b.ValidFrom.Format(time.RFC3339)
		dto.ValidFrom = &s
	}
	if b.ValidTo != nil {
		s := b.ValidTo.Format(time.RFC3339)
		dto.ValidTo = &s
	}
	return dto
}

func toBreakdownDTO(b payroll.OvertimeBreakdown) BreakdownDTO {
	return BreakdownDTO{
		TotalMinutes:              b.TotalMinutes,
		RegularMinutes:            b.RegularMinutes,
		Overtime125Minutes:        b.Overtime125Minutes,
		Overtime150Minutes:        b.Overtime150Minutes,
		ShabbatMinutes:            b.ShabbatMinutes,
		ShabbatOvertime175Minutes: b.ShabbatOvertime175Minutes,
		ShabbatOvertime200Minutes: b.ShabbatOvertime200Minutes,
		TotalClock:                payroll.FormatMinutes(b.TotalMinutes),
	}
}

func toResultDTO(r payroll.ShiftPayrollResult) PayrollResultDTO {
	return PayrollResultDTO{
		ShiftType: string(r.ShiftType),
		Breakdown: toBreakdownDTO(r.Breakdown),

		RegularPay:     int64(r.RegularPay),
		Overtime125Pay: int64(r.Overtime125Pay),
		Overtime150Pay: int64(r.Overtime150Pay),
		ShabbatPay:     int64(r.ShabbatPay),
		Shabbat175Pay:  int64(r.Shabbat175Pay),
		Shabbat200Pay:  int64(r.Shabbat200Pay),

		BasePay:         int64(r.BasePay),
		HourlyBonusPay:  int64(r.HourlyBonusPay),
		OneTimeBonusPay: int64(r.OneTimeBonusPay),
		TotalBonusPay:   int64(r.TotalBonusPay),
		TotalPay:        int64(r.TotalPay),

		HourlyRate:          int64(r.HourlyRate),
		EffectiveHourlyRate: int64(r.EffectiveHourlyRate),

		TotalPayDisplay: payroll.FormatMoney(r.TotalPay),
	}
}

func toWeeklyDTO(w payroll.WeeklyResult) WeeklyDTO {
	return WeeklyDTO{
		WeekStart:            w.WeekStart.Format("2006-01-02"),
		TotalRegularMinutes:  w.TotalRegularMinutes,
		TotalDailyPay:        int64(w.TotalDailyPay),
		WeeklyOvertime125Pay: int64(w.WeeklyOvertime125Pay),
		WeeklyOvertime150Pay: int64(w.WeeklyOvertime150Pay),
		WeeklyOvertimePay:    int64(w.WeeklyOvertimePay),
		TotalPay:             int64(w.TotalPay),
	}
}

func (r CreateBonusRequest) toBonusInfo() payroll.BonusInfo {
	return payroll.BonusInfo{
		ID:           r.ID,
		Type:         payroll.BonusType(r.Type),
		HourlyAmount: payroll.Money(r.HourlyAmount),
		FixedAmount:  payroll.Money(r.FixedAmount),
		ValidFrom:    r.ValidFrom,
		ValidTo:      r.ValidTo,
		Description:  r.Description,
	}
}
