package payroll_test

import (
	"testing"
	"time"

	"github.com/shiftwise/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================
// Calendar anchors (2025): Jan 5 is a Sunday, Jan 10 a Friday, Jan 11 a
// Saturday. Weekly tests use the statutory week Sun Jan 5 - Sat Jan 11.

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// =============================================================================
// CLASSIFICATION PRECEDENCE
// =============================================================================

func TestClassify_PrecedenceOrder(t *testing.T) {
	rules := payroll.DefaultRules()

	tests := []struct {
		name       string
		start      time.Time
		isShortDay bool
		isHoliday  bool
		want       payroll.ShiftType
	}{
		{"weekday morning", at(2025, time.January, 6, 8, 0), false, false, payroll.ShiftRegular},
		{"short day flag", at(2025, time.January, 6, 8, 0), true, false, payroll.ShiftShortDay},
		{"holiday beats everything", at(2025, time.January, 11, 23, 0), true, true, payroll.ShiftHoliday},
		{"saturday", at(2025, time.January, 11, 9, 0), false, false, payroll.ShiftShabbat},
		{"friday before cutoff", at(2025, time.January, 10, 8, 0), false, false, payroll.ShiftFriday},
		{"friday at cutoff", at(2025, time.January, 10, 18, 0), false, false, payroll.ShiftShabbat},
		{"friday after cutoff", at(2025, time.January, 10, 20, 0), false, false, payroll.ShiftShabbat},
		{"late evening", at(2025, time.January, 6, 22, 0), false, false, payroll.ShiftNight},
		{"early morning", at(2025, time.January, 6, 5, 59), false, false, payroll.ShiftNight},
		{"six am is not night", at(2025, time.January, 6, 6, 0), false, false, payroll.ShiftRegular},
		{"night beats short day", at(2025, time.January, 6, 23, 0), true, false, payroll.ShiftNight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := payroll.Classify(tt.start, tt.isShortDay, tt.isHoliday, rules)
			if got != tt.want {
				t.Errorf("Classify(%s) = %s, want %s", tt.start, got, tt.want)
			}
		})
	}
}

func TestClassify_ConfigurableShabbatEntry(t *testing.T) {
	// GIVEN: Rules with an earlier Sabbath-entry hour (16:00)
	// WHEN: Classifying a Friday 17:00 shift
	// THEN: It reclassifies as SHABBAT

	rules := payroll.DefaultRules()
	rules.ShabbatEntryHour = 16

	got := payroll.Classify(at(2025, time.January, 10, 17, 0), false, false, rules)
	if got != payroll.ShiftShabbat {
		t.Errorf("expected shabbat at 17:00 with 16:00 entry, got %s", got)
	}
}

func TestClassify_IsTotal(t *testing.T) {
	// Every hour of every day of a full week classifies to exactly one of
	// the six tags. No error path exists.

	rules := payroll.DefaultRules()
	valid := map[payroll.ShiftType]bool{
		payroll.ShiftRegular: true, payroll.ShiftShortDay: true,
		payroll.ShiftNight: true, payroll.ShiftFriday: true,
		payroll.ShiftShabbat: true, payroll.ShiftHoliday: true,
	}

	for day := 5; day <= 11; day++ {
		for hour := 0; hour < 24; hour++ {
			got := payroll.Classify(at(2025, time.January, day, hour, 0), false, false, rules)
			if !valid[got] {
				t.Fatalf("day %d hour %d classified to unknown tag %q", day, hour, got)
			}
		}
	}
}
