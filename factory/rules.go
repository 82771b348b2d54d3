/*
Package factory provides JSON to Go work-rules conversion.

PURPOSE:
  Converts JSON work-rules definitions into payroll.WorkRules values. This
  enables rules configuration without code changes - an administrator can
  adjust statutory thresholds in JSON, and the factory creates the proper
  Go struct with documented defaults filled in.

WHY JSON?
  - Non-developers can adjust thresholds when regulations change
  - Easy integration with an admin UI
  - Version control for rule definitions
  - Database storage of rule configs (one JSON row per organization)

JSON SCHEMA:
  {
    "week_type": "five_day",
    "standard_day_hours": 8.6,
    "short_day_hours": 7.0,
    "friday_hours": 7.0,
    "night_shift_hours": 7.0,
    "weekly_standard_hours": 42,
    "overtime_first_rate": 1.25,
    "overtime_second_rate": 1.5,
    "overtime_first_hours": 2,
    "shabbat_rate": 1.5,
    "shabbat_overtime_first_rate": 1.75,
    "shabbat_overtime_second_rate": 2.0,
    "max_daily_hours": 14,
    "shabbat_entry_hour": 18
  }

DEFAULTS:
  Every omitted or zero field falls back to payroll.DefaultRules(). An
  empty JSON object is therefore a valid, complete configuration.

USAGE:
  factory := NewRulesFactory()
  rules, err := factory.ParseRules(jsonStr)

SEE ALSO:
  - payroll/types.go: WorkRules definition and defaults
  - store/sqlite: Persists the JSON config per organization
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shiftwise/payroll-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RulesJSON is the JSON representation of a work-rules configuration.
// Pointer fields distinguish "omitted" from an explicit zero.
type RulesJSON struct {
	WeekType                  string   `json:"week_type,omitempty"`
	StandardDayHours          *float64 `json:"standard_day_hours,omitempty"`
	ShortDayHours             *float64 `json:"short_day_hours,omitempty"`
	FridayHours               *float64 `json:"friday_hours,omitempty"`
	NightShiftHours           *float64 `json:"night_shift_hours,omitempty"`
	WeeklyStandardHours       *float64 `json:"weekly_standard_hours,omitempty"`
	OvertimeFirstRate         *float64 `json:"overtime_first_rate,omitempty"`
	OvertimeSecondRate        *float64 `json:"overtime_second_rate,omitempty"`
	OvertimeFirstHours        *float64 `json:"overtime_first_hours,omitempty"`
	ShabbatRate               *float64 `json:"shabbat_rate,omitempty"`
	ShabbatOvertimeFirstRate  *float64 `json:"shabbat_overtime_first_rate,omitempty"`
	ShabbatOvertimeSecondRate *float64 `json:"shabbat_overtime_second_rate,omitempty"`
	MaxDailyHours             *float64 `json:"max_daily_hours,omitempty"`
	ShabbatEntryHour          *int     `json:"shabbat_entry_hour,omitempty"`
}

// =============================================================================
// RULES FACTORY
// =============================================================================

// RulesFactory converts JSON work-rules to Go structs and back.
type RulesFactory struct{}

// NewRulesFactory creates a new rules factory.
func NewRulesFactory() *RulesFactory {
	return &RulesFactory{}
}

// ParseRules parses a JSON string into a WorkRules value with defaults
// applied for every omitted field.
func (f *RulesFactory) ParseRules(jsonStr string) (payroll.WorkRules, error) {
	var rj RulesJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return payroll.WorkRules{}, fmt.Errorf("failed to parse rules JSON: %w", err)
	}
	return f.FromJSON(rj)
}

// FromJSON converts RulesJSON to WorkRules, falling back to the documented
// defaults for omitted fields.
func (f *RulesFactory) FromJSON(rj RulesJSON) (payroll.WorkRules, error) {
	rules := payroll.DefaultRules()

	switch rj.WeekType {
	case "":
		// keep default
	case string(payroll.FiveDayWeek):
		rules.WeekType = payroll.FiveDayWeek
	case string(payroll.SixDayWeek):
		rules.WeekType = payroll.SixDayWeek
	default:
		return payroll.WorkRules{}, fmt.Errorf("unknown week type %q", rj.WeekType)
	}

	setFloat(&rules.StandardDayHours, rj.StandardDayHours)
	setFloat(&rules.ShortDayHours, rj.ShortDayHours)
	setFloat(&rules.FridayHours, rj.FridayHours)
	setFloat(&rules.NightShiftHours, rj.NightShiftHours)
	setFloat(&rules.WeeklyStandardHours, rj.WeeklyStandardHours)
	setFloat(&rules.OvertimeFirstRate, rj.OvertimeFirstRate)
	setFloat(&rules.OvertimeSecondRate, rj.OvertimeSecondRate)
	setFloat(&rules.OvertimeFirstHours, rj.OvertimeFirstHours)
	setFloat(&rules.ShabbatRate, rj.ShabbatRate)
	setFloat(&rules.ShabbatOvertimeFirstRate, rj.ShabbatOvertimeFirstRate)
	setFloat(&rules.ShabbatOvertimeSecondRate, rj.ShabbatOvertimeSecondRate)
	setFloat(&rules.MaxDailyHours, rj.MaxDailyHours)
	if rj.ShabbatEntryHour != nil {
		if *rj.ShabbatEntryHour < 0 || *rj.ShabbatEntryHour > 23 {
			return payroll.WorkRules{}, fmt.Errorf("shabbat entry hour %d out of range", *rj.ShabbatEntryHour)
		}
		rules.ShabbatEntryHour = *rj.ShabbatEntryHour
	}

	return rules, nil
}

// ToJSON converts a WorkRules value to its JSON representation, fully
// populated so a stored config round-trips without relying on defaults.
func (f *RulesFactory) ToJSON(rules payroll.WorkRules) RulesJSON {
	return RulesJSON{
		WeekType:                  string(rules.WeekType),
		StandardDayHours:          &rules.StandardDayHours,
		ShortDayHours:             &rules.ShortDayHours,
		FridayHours:               &rules.FridayHours,
		NightShiftHours:           &rules.NightShiftHours,
		WeeklyStandardHours:       &rules.WeeklyStandardHours,
		OvertimeFirstRate:         &rules.OvertimeFirstRate,
		OvertimeSecondRate:        &rules.OvertimeSecondRate,
		OvertimeFirstHours:        &rules.OvertimeFirstHours,
		ShabbatRate:               &rules.ShabbatRate,
		ShabbatOvertimeFirstRate:  &rules.ShabbatOvertimeFirstRate,
		ShabbatOvertimeSecondRate: &rules.ShabbatOvertimeSecondRate,
		MaxDailyHours:             &rules.MaxDailyHours,
		ShabbatEntryHour:          &rules.ShabbatEntryHour,
	}
}

// MarshalRules serializes a WorkRules value for storage.
func (f *RulesFactory) MarshalRules(rules payroll.WorkRules) (string, error) {
	data, err := json.Marshal(f.ToJSON(rules))
	if err != nil {
		return "", fmt.Errorf("failed to marshal rules: %w", err)
	}
	return string(data), nil
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
