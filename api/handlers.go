/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the shift payroll computation engine via REST. Handles HTTP
  request/response, JSON serialization, input validation, and delegates
  all computation to the payroll package.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List employees
    POST   /api/employees                    Create employee
    GET    /api/employees/{id}               Get employee
    POST   /api/employees/{id}/rates         Set per-work-type rate override
    GET    /api/employees/{id}/bonuses       List bonus entitlements
    POST   /api/employees/{id}/bonuses       Create bonus entitlement
    GET    /api/employees/{id}/payroll       Period payroll (?from&to&work_type)

  Shifts:
    POST   /api/shifts                       Record a shift
    GET    /api/shifts/{id}                  Get shift
    DELETE /api/shifts/{id}                  Delete shift
    GET    /api/shifts/{id}/payroll          Itemized pay for one shift

  Rules:
    GET    /api/rules                        Work rules (?org, defaults apply)
    PUT    /api/rules                        Replace work rules

  Compute:
    POST   /api/compute/preview              Stateless pay for a hypothetical shift

REQUEST FLOW:
  1. Decode JSON
  2. Validate (go-playground/validator tags on the DTOs)
  3. Resolve inputs through the provider interfaces
  4. Call the engine
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, open shifts, reversed intervals
  - 404: Missing employee/shift/bonus
  - 500: Storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - payroll: The computation the handlers delegate to
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shiftwise/payroll-engine/factory"
	"github.com/shiftwise/payroll-engine/payroll"
	"github.com/shiftwise/payroll-engine/store/sqlite"
)

// DefaultOrg is the rules organization used when the request names none.
const DefaultOrg = "default"

// Handler holds all dependencies for HTTP handlers. The providers are the
// interfaces the engine is agnostic to; the store satisfies all three.
type Handler struct {
	Store *sqlite.Store

	Rules   payroll.RulesProvider
	Rates   payroll.RateResolver
	Bonuses payroll.BonusProvider

	Log      *logrus.Logger
	validate *validator.Validate
	rules    *factory.RulesFactory
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store *sqlite.Store, log *logrus.Logger) *Handler {
	return &Handler{
		Store:    store,
		Rules:    store,
		Rates:    store,
		Bonuses:  store,
		Log:      log,
		validate: validator.New(),
		rules:    factory.NewRulesFactory(),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	emp := sqlite.Employee{ID: req.ID, Name: req.Name, HourlyRate: payroll.Money(req.HourlyRate)}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.writeDomainError(w, err)
		return
	}

	saved, err := h.Store.GetEmployee(r.Context(), req.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toEmployeeDTO(*saved))
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = toEmployeeDTO(emp)
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

func (h *Handler) SetRateOverride(w http.ResponseWriter, r *http.Request) {
	var req RateOverrideRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	employeeID := chi.URLParam(r, "id")
	if _, err := h.Store.GetEmployee(r.Context(), employeeID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	if err := h.Store.SaveRateOverride(r.Context(), employeeID, req.WorkType, payroll.Money(req.HourlyRate)); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SHIFTS
// =============================================================================

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	if _, err := h.Store.GetEmployee(r.Context(), req.EmployeeID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	shift := sqlite.Shift{
		ID:         req.ID,
		EmployeeID: req.EmployeeID,
		StartAt:    req.Start,
		EndAt:      req.End,
		WorkType:   req.WorkType,
		IsHoliday:  req.IsHoliday,
		IsShortDay: req.IsShortDay,
	}
	if err := h.Store.SaveShift(r.Context(), shift); err != nil {
		h.writeDomainError(w, err)
		return
	}

	saved, err := h.Store.GetShift(r.Context(), req.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toShiftDTO(*saved))
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift, err := h.Store.GetShift(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toShiftDTO(*shift))
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteShift(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ShiftPayroll computes the itemized pay for one persisted shift.
func (h *Handler) ShiftPayroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shift, err := h.Store.GetShift(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if shift.EndAt == nil {
		h.writeDomainError(w, payroll.ErrOpenShift)
		return
	}

	rules, err := h.Rules.WorkRules(ctx, orgParam(r))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	rate, err := h.Rates.HourlyRate(ctx, shift.EmployeeID, shift.WorkType)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	bonuses, err := h.Bonuses.Bonuses(ctx, shift.EmployeeID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result := payroll.ComputeShiftPayroll(payroll.ComputeInput{
		Start:      shift.StartAt,
		End:        *shift.EndAt,
		HourlyRate: rate,
		Bonuses:    bonuses,
		Rules:      rules,
		IsShortDay: shift.IsShortDay,
		IsHoliday:  shift.IsHoliday,
	})
	h.writeJSON(w, http.StatusOK, toResultDTO(result))
}

// EmployeePayroll computes a period's payroll for an employee: the daily
// pass per shift plus the weekly reconciliation pass per statutory week.
// Open shifts in the range are skipped and reported, never computed.
func (h *Handler) EmployeePayroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := chi.URLParam(r, "id")

	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	if _, err := h.Store.GetEmployee(ctx, employeeID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	rules, err := h.Rules.WorkRules(ctx, orgParam(r))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	workType := r.URL.Query().Get("work_type")
	rate, err := h.Rates.HourlyRate(ctx, employeeID, workType)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	bonuses, err := h.Bonuses.Bonuses(ctx, employeeID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	shifts, err := h.Store.ListShifts(ctx, employeeID, from, to)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	var results []payroll.ShiftPayrollResult
	var openShiftIDs []string
	for _, shift := range shifts {
		if shift.EndAt == nil {
			openShiftIDs = append(openShiftIDs, shift.ID)
			continue
		}
		results = append(results, payroll.ComputeShiftPayroll(payroll.ComputeInput{
			Start:      shift.StartAt,
			End:        *shift.EndAt,
			HourlyRate: rate,
			Bonuses:    bonuses,
			Rules:      rules,
			IsShortDay: shift.IsShortDay,
			IsHoliday:  shift.IsHoliday,
		}))
	}

	summary := payroll.ComputePeriodPayroll(results, rate, rules)

	dto := PeriodPayrollDTO{
		EmployeeID: employeeID,
		From:       from.Format(time.RFC3339),
		To:         to.Format(time.RFC3339),
		ShiftCount: summary.ShiftCount,
		Breakdown:  toBreakdownDTO(summary.Breakdown),

		BasePay:         int64(summary.BasePay),
		HourlyBonusPay:  int64(summary.HourlyBonusPay),
		OneTimeBonusPay: int64(summary.OneTimeBonusPay),
		TotalBonusPay:   int64(summary.TotalBonusPay),

		TotalDailyPay:     int64(summary.TotalDailyPay),
		WeeklyOvertimePay: int64(summary.WeeklyOvertimePay),
		TotalPay:          int64(summary.TotalPay),

		TotalPayDisplay: payroll.FormatMoney(summary.TotalPay),
		OpenShiftIDs:    openShiftIDs,
	}
	for _, week := range summary.Weeks {
		dto.Weeks = append(dto.Weeks, toWeeklyDTO(week))
	}
	h.writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// BONUSES
// =============================================================================

func (h *Handler) CreateBonus(w http.ResponseWriter, r *http.Request) {
	var req CreateBonusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	employeeID := chi.URLParam(r, "id")
	if _, err := h.Store.GetEmployee(r.Context(), employeeID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	bonus := sqlite.Bonus{
		ID:           req.ID,
		EmployeeID:   employeeID,
		Type:         payroll.BonusType(req.Type),
		HourlyAmount: payroll.Money(req.HourlyAmount),
		FixedAmount:  payroll.Money(req.FixedAmount),
		ValidFrom:    req.ValidFrom,
		ValidTo:      req.ValidTo,
		Description:  req.Description,
	}
	if err := h.Store.SaveBonus(r.Context(), bonus); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toBonusDTO(bonus))
}

func (h *Handler) ListBonuses(w http.ResponseWriter, r *http.Request) {
	bonuses, err := h.Store.ListBonuses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]BonusDTO, len(bonuses))
	for i, b := range bonuses {
		dtos[i] = toBonusDTO(b)
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RULES
// =============================================================================

func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.Rules.WorkRules(r.Context(), orgParam(r))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.rules.ToJSON(rules))
}

func (h *Handler) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var body factory.RulesJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	rules, err := h.rules.FromJSON(body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Store.SaveRules(r.Context(), orgParam(r), rules); err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.rules.ToJSON(rules))
}

// =============================================================================
// PREVIEW
// =============================================================================

// PreviewPayroll computes pay for a hypothetical shift without touching
// storage. Useful for quoting "what would this shift pay" in a UI.
func (h *Handler) PreviewPayroll(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.End.Before(req.Start) {
		h.writeDomainError(w, payroll.ErrInvalidInterval)
		return
	}

	rules, err := h.Rules.WorkRules(r.Context(), orgParam(r))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	bonuses := make([]payroll.BonusInfo, len(req.Bonuses))
	for i, b := range req.Bonuses {
		bonuses[i] = b.toBonusInfo()
	}

	result := payroll.ComputeShiftPayroll(payroll.ComputeInput{
		Start:      req.Start,
		End:        req.End,
		HourlyRate: payroll.Money(req.HourlyRate),
		Bonuses:    bonuses,
		Rules:      rules,
		IsShortDay: req.IsShortDay,
		IsHoliday:  req.IsHoliday,
	})
	h.writeJSON(w, http.StatusOK, toResultDTO(result))
}

// =============================================================================
// HELPERS
// =============================================================================

func orgParam(r *http.Request) string {
	if org := r.URL.Query().Get("org"); org != "" {
		return org
	}
	return DefaultOrg
}

// parseRange reads the required from/to query parameters (RFC 3339 or
// plain dates).
func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, err := parseTimeParam(r.URL.Query().Get("from"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid 'from' parameter")
		return time.Time{}, time.Time{}, false
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid 'to' parameter")
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		h.writeError(w, http.StatusBadRequest, "'to' precedes 'from'")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseTimeParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.WithError(err).Error("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeDomainError maps domain errors to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case payroll.IsNotFound(err):
		h.writeError(w, http.StatusNotFound, err.Error())
	case payroll.IsClientError(err):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.Log.WithError(err).Error("internal error")
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
