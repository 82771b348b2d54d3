/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Employee creation and retrieval
- Shift recording and per-shift payroll
- Stateless preview computation
- Rules round trip over HTTP
- Error status mapping (404 / 400)
- Period payroll with the weekly reconciliation pass
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/shiftwise/payroll-engine/store/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	server := httptest.NewServer(NewRouter(NewHandler(store, log)))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp, raw
}

func decodeInto(t *testing.T, raw []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("Failed to decode response %q: %v", raw, err)
	}
}

func createEmployee(t *testing.T, server *httptest.Server, id string, rate int64) {
	t.Helper()
	resp, raw := doJSON(t, http.MethodPost, server.URL+"/api/employees", CreateEmployeeRequest{
		ID:         id,
		Name:       "Test Worker",
		HourlyRate: rate,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create employee: status %d, body %s", resp.StatusCode, raw)
	}
}

func TestCreateAndGetEmployee(t *testing.T) {
	server := newTestServer(t)

	// GIVEN: A created employee
	createEmployee(t, server, "emp-1", 5000)

	// WHEN: Fetching it back
	resp, raw := doJSON(t, http.MethodGet, server.URL+"/api/employees/emp-1", nil)

	// THEN: The stored fields round-trip
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}
	var emp EmployeeDTO
	decodeInto(t, raw, &emp)
	if emp.Name != "Test Worker" {
		t.Errorf("Expected name 'Test Worker', got %q", emp.Name)
	}
	if emp.HourlyRate != 5000 {
		t.Errorf("Expected rate 5000, got %d", emp.HourlyRate)
	}
}

func TestGetEmployee_NotFound(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/employees/nobody", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown employee, got %d", resp.StatusCode)
	}
}

func TestCreateEmployee_ValidationFailure(t *testing.T) {
	server := newTestServer(t)

	// Missing name
	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/employees", map[string]any{
		"hourly_rate": 5000,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing name, got %d", resp.StatusCode)
	}
}

func TestShiftPayroll_RegularWeekday(t *testing.T) {
	server := newTestServer(t)
	createEmployee(t, server, "emp-1", 5000)

	// GIVEN: A Monday shift of exactly the standard day (8.6h = 516 minutes)
	resp, raw := doJSON(t, http.MethodPost, server.URL+"/api/shifts", map[string]any{
		"id":          "shift-1",
		"employee_id": "emp-1",
		"start":       "2025-01-06T09:00:00Z",
		"end":         "2025-01-06T17:36:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create shift: status %d, body %s", resp.StatusCode, raw)
	}

	// WHEN: Computing its payroll
	resp, raw = doJSON(t, http.MethodGet, server.URL+"/api/shifts/shift-1/payroll", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}

	// THEN: All minutes are regular and pay is 516 * (5000/60) rounded
	var result PayrollResultDTO
	decodeInto(t, raw, &result)
	if result.ShiftType != "regular" {
		t.Errorf("Expected regular shift, got %s", result.ShiftType)
	}
	if result.Breakdown.RegularMinutes != 516 {
		t.Errorf("Expected 516 regular minutes, got %d", result.Breakdown.RegularMinutes)
	}
	if result.TotalPay != 43000 {
		t.Errorf("Expected total pay 43000, got %d", result.TotalPay)
	}
	if result.TotalPayDisplay != "430.00" {
		t.Errorf("Expected display '430.00', got %q", result.TotalPayDisplay)
	}
}

func TestShiftPayroll_OpenShiftRejected(t *testing.T) {
	server := newTestServer(t)
	createEmployee(t, server, "emp-1", 5000)

	// GIVEN: A shift with no end time
	resp, raw := doJSON(t, http.MethodPost, server.URL+"/api/shifts", map[string]any{
		"id":          "shift-open",
		"employee_id": "emp-1",
		"start":       "2025-01-06T09:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create open shift: status %d, body %s", resp.StatusCode, raw)
	}

	// THEN: Payroll for it is a client error, not a computation
	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/shifts/shift-open/payroll", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for open shift, got %d", resp.StatusCode)
	}
}

func TestCreateShift_UnknownEmployee(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/shifts", map[string]any{
		"employee_id": "ghost",
		"start":       "2025-01-06T09:00:00Z",
		"end":         "2025-01-06T17:00:00Z",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown employee, got %d", resp.StatusCode)
	}
}

func TestPreviewPayroll(t *testing.T) {
	server := newTestServer(t)

	// GIVEN: A hypothetical Monday shift of 10.6 hours at rate 5000
	resp, raw := doJSON(t, http.MethodPost, server.URL+"/api/compute/preview", map[string]any{
		"start":       "2025-01-06T08:00:00Z",
		"end":         "2025-01-06T18:36:00Z",
		"hourly_rate": 5000,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}

	// THEN: 516 regular + 120 at 125% with no storage involved
	var result PayrollResultDTO
	decodeInto(t, raw, &result)
	if result.Breakdown.RegularMinutes != 516 {
		t.Errorf("Expected 516 regular minutes, got %d", result.Breakdown.RegularMinutes)
	}
	if result.Breakdown.Overtime125Minutes != 120 {
		t.Errorf("Expected 120 minutes at 125%%, got %d", result.Breakdown.Overtime125Minutes)
	}
	if result.TotalPay != 55500 {
		t.Errorf("Expected total pay 55500, got %d", result.TotalPay)
	}
}

func TestPreview_ReversedInterval(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/compute/preview", map[string]any{
		"start":       "2025-01-06T18:00:00Z",
		"end":         "2025-01-06T09:00:00Z",
		"hourly_rate": 5000,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for reversed interval, got %d", resp.StatusCode)
	}
}

func TestRules_RoundTripOverHTTP(t *testing.T) {
	server := newTestServer(t)

	// GIVEN: Defaults are served before anything is stored
	resp, raw := doJSON(t, http.MethodGet, server.URL+"/api/rules", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}
	var rules map[string]any
	decodeInto(t, raw, &rules)
	if got := rules["standard_day_hours"]; got != 8.6 {
		t.Errorf("Expected default standard_day_hours 8.6, got %v", got)
	}

	// WHEN: Replacing the standard day
	resp, raw = doJSON(t, http.MethodPut, server.URL+"/api/rules", map[string]any{
		"standard_day_hours": 8.0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}

	// THEN: The stored value is served back, other fields keep defaults
	resp, raw = doJSON(t, http.MethodGet, server.URL+"/api/rules", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}
	decodeInto(t, raw, &rules)
	if got := rules["standard_day_hours"]; got != 8.0 {
		t.Errorf("Expected updated standard_day_hours 8.0, got %v", got)
	}
	if got := rules["weekly_standard_hours"]; got != 42.0 {
		t.Errorf("Expected default weekly_standard_hours 42, got %v", got)
	}
}

func TestRules_InvalidWeekType(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, server.URL+"/api/rules", map[string]any{
		"week_type": "FOUR_DAY",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid week type, got %d", resp.StatusCode)
	}
}

func TestEmployeePayroll_PeriodWithWeeklyOvertime(t *testing.T) {
	server := newTestServer(t)
	createEmployee(t, server, "emp-1", 5000)

	// GIVEN: Five 8-hour weekdays (Sun Jan 5 .. Thu Jan 9) plus a 4-hour
	// Sunday evening shift. Daily passes see no overtime; the weekly
	// pool reaches 44h against the 42h cap.
	days := []int{5, 6, 7, 8, 9}
	for i, day := range days {
		resp, raw := doJSON(t, http.MethodPost, server.URL+"/api/shifts", map[string]any{
			"id":          fmt.Sprintf("shift-%d", i),
			"employee_id": "emp-1",
			"start":       fmt.Sprintf("2025-01-%02dT09:00:00Z", day),
			"end":         fmt.Sprintf("2025-01-%02dT17:00:00Z", day),
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Failed to create shift %d: status %d, body %s", i, resp.StatusCode, raw)
		}
	}
	resp, raw := doJSON(t, http.MethodPost, server.URL+"/api/shifts", map[string]any{
		"id":          "shift-extra",
		"employee_id": "emp-1",
		"start":       "2025-01-05T18:00:00Z",
		"end":         "2025-01-05T22:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create extra shift: status %d, body %s", resp.StatusCode, raw)
	}

	// WHEN: Computing the period
	resp, raw = doJSON(t, http.MethodGet,
		server.URL+"/api/employees/emp-1/payroll?from=2025-01-05&to=2025-01-12", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}

	// THEN: 6 shifts, one week, and a weekly increment for 2h at +25%
	var period PeriodPayrollDTO
	decodeInto(t, raw, &period)
	if period.ShiftCount != 6 {
		t.Errorf("Expected 6 shifts, got %d", period.ShiftCount)
	}
	if len(period.Weeks) != 1 {
		t.Fatalf("Expected 1 week, got %d", len(period.Weeks))
	}
	if period.Weeks[0].TotalRegularMinutes != 2640 {
		t.Errorf("Expected 2640 pooled minutes, got %d", period.Weeks[0].TotalRegularMinutes)
	}
	// 120 minutes over the cap * (5000/60) * 0.25 = 2500, all first tier
	if period.Weeks[0].WeeklyOvertime125Pay != 2500 {
		t.Errorf("Expected first-tier weekly pay 2500, got %d", period.Weeks[0].WeeklyOvertime125Pay)
	}
	if period.WeeklyOvertimePay != 2500 {
		t.Errorf("Expected weekly overtime pay 2500, got %d", period.WeeklyOvertimePay)
	}
	if period.TotalPay != period.TotalDailyPay+period.WeeklyOvertimePay {
		t.Errorf("Total pay %d is not daily %d plus weekly %d",
			period.TotalPay, period.TotalDailyPay, period.WeeklyOvertimePay)
	}
}

func TestEmployeePayroll_SkipsOpenShifts(t *testing.T) {
	server := newTestServer(t)
	createEmployee(t, server, "emp-1", 5000)

	resp, raw := doJSON(t, http.MethodPost, server.URL+"/api/shifts", map[string]any{
		"id":          "shift-closed",
		"employee_id": "emp-1",
		"start":       "2025-01-06T09:00:00Z",
		"end":         "2025-01-06T17:36:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create shift: status %d, body %s", resp.StatusCode, raw)
	}
	resp, raw = doJSON(t, http.MethodPost, server.URL+"/api/shifts", map[string]any{
		"id":          "shift-open",
		"employee_id": "emp-1",
		"start":       "2025-01-07T09:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create open shift: status %d, body %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, http.MethodGet,
		server.URL+"/api/employees/emp-1/payroll?from=2025-01-05&to=2025-01-12", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}

	var period PeriodPayrollDTO
	decodeInto(t, raw, &period)
	if period.ShiftCount != 1 {
		t.Errorf("Expected 1 computed shift, got %d", period.ShiftCount)
	}
	if len(period.OpenShiftIDs) != 1 || period.OpenShiftIDs[0] != "shift-open" {
		t.Errorf("Expected open shift 'shift-open' reported, got %v", period.OpenShiftIDs)
	}
}

func TestBonusEndpoints(t *testing.T) {
	server := newTestServer(t)
	createEmployee(t, server, "emp-1", 5000)

	// GIVEN: An hourly bonus valid across January
	resp, raw := doJSON(t, http.MethodPost, server.URL+"/api/employees/emp-1/bonuses", map[string]any{
		"id":            "bonus-1",
		"type":          "hourly",
		"hourly_amount": 500,
		"valid_from":    "2025-01-01T00:00:00Z",
		"valid_to":      "2025-02-01T00:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create bonus: status %d, body %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, http.MethodGet, server.URL+"/api/employees/emp-1/bonuses", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}
	var bonuses []BonusDTO
	decodeInto(t, raw, &bonuses)
	if len(bonuses) != 1 {
		t.Fatalf("Expected 1 bonus, got %d", len(bonuses))
	}

	// WHEN: Computing a shift inside the window
	resp, raw = doJSON(t, http.MethodPost, server.URL+"/api/shifts", map[string]any{
		"id":          "shift-1",
		"employee_id": "emp-1",
		"start":       "2025-01-06T09:00:00Z",
		"end":         "2025-01-06T17:36:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create shift: status %d, body %s", resp.StatusCode, raw)
	}
	resp, raw = doJSON(t, http.MethodGet, server.URL+"/api/shifts/shift-1/payroll", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}

	// THEN: Base 43000 plus 516 minutes of bonus at 500/h = 4300
	var result PayrollResultDTO
	decodeInto(t, raw, &result)
	if result.HourlyBonusPay != 4300 {
		t.Errorf("Expected hourly bonus pay 4300, got %d", result.HourlyBonusPay)
	}
	if result.TotalPay != 47300 {
		t.Errorf("Expected total pay 47300, got %d", result.TotalPay)
	}
	if result.EffectiveHourlyRate != 5500 {
		t.Errorf("Expected effective rate 5500, got %d", result.EffectiveHourlyRate)
	}
}

func TestRateOverrideAffectsPayroll(t *testing.T) {
	server := newTestServer(t)
	createEmployee(t, server, "emp-1", 5000)

	// GIVEN: A higher rate for night work
	resp, raw := doJSON(t, http.MethodPost, server.URL+"/api/employees/emp-1/rates", map[string]any{
		"work_type":   "guard",
		"hourly_rate": 6000,
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, http.MethodPost, server.URL+"/api/shifts", map[string]any{
		"id":          "shift-1",
		"employee_id": "emp-1",
		"start":       "2025-01-06T09:00:00Z",
		"end":         "2025-01-06T17:36:00Z",
		"work_type":   "guard",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create shift: status %d, body %s", resp.StatusCode, raw)
	}

	// THEN: The override rate drives the computation (516 * 100 = 51600)
	resp, raw = doJSON(t, http.MethodGet, server.URL+"/api/shifts/shift-1/payroll", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, raw)
	}
	var result PayrollResultDTO
	decodeInto(t, raw, &result)
	if result.TotalPay != 51600 {
		t.Errorf("Expected total pay 51600, got %d", result.TotalPay)
	}
}

func TestDeleteShift(t *testing.T) {
	server := newTestServer(t)
	createEmployee(t, server, "emp-1", 5000)

	resp, raw := doJSON(t, http.MethodPost, server.URL+"/api/shifts", map[string]any{
		"id":          "shift-1",
		"employee_id": "emp-1",
		"start":       "2025-01-06T09:00:00Z",
		"end":         "2025-01-06T17:36:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create shift: status %d, body %s", resp.StatusCode, raw)
	}

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/shifts/shift-1", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/shifts/shift-1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", resp.StatusCode)
	}
}
