/*
Package sqlite provides a SQLite-backed implementation of the payroll
provider interfaces.

PURPOSE:
  Persists the collaborators the computation engine treats as external:
  employees and their rates, clocked shifts, bonus entitlements, and the
  per-organization work-rules configuration. The engine itself never
  imports this package - it only sees plain values through the interfaces
  in payroll/providers.go.

INTERFACES IMPLEMENTED:
  payroll.RateResolver:  Per-work-type override else base hourly rate
  payroll.BonusProvider: Full unfiltered bonus list per employee
  payroll.RulesProvider: Stored JSON rules with DefaultRules fallback

KEY TABLES:
  employees:      Base hourly rate per employee
  rate_overrides: Per-work-type hourly rate overrides
  shifts:         Clock-in/clock-out records with day flags
  bonuses:        Time-bounded bonus entitlements
  work_rules:     One JSON config row per organization

TIME AND MONEY STORAGE:
  Timestamps are stored as RFC 3339 TEXT. All monetary columns are
  INTEGER minor currency units - currency never touches floating point
  on its way through the database.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  and crash recovery is cleaner.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll/providers.go: Interface definitions
  - factory/rules.go: JSON rules conversion used for the work_rules table
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shiftwise/payroll-engine/factory"
	"github.com/shiftwise/payroll-engine/payroll"
)

// Store implements the payroll provider interfaces using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.RulesFactory
}

// Compile-time interface checks
var (
	_ payroll.RateResolver  = (*Store)(nil)
	_ payroll.BonusProvider = (*Store)(nil)
	_ payroll.RulesProvider = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, factory: factory.NewRulesFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hourly_rate INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rate_overrides (
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		work_type TEXT NOT NULL,
		hourly_rate INTEGER NOT NULL,
		PRIMARY KEY (employee_id, work_type)
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		start_at TEXT NOT NULL,
		end_at TEXT,
		work_type TEXT,
		is_holiday INTEGER NOT NULL DEFAULT 0,
		is_short_day INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_employee_start
		ON shifts(employee_id, start_at);

	CREATE TABLE IF NOT EXISTS bonuses (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		bonus_type TEXT NOT NULL,
		hourly_amount INTEGER NOT NULL DEFAULT 0,
		fixed_amount INTEGER NOT NULL DEFAULT 0,
		valid_from TEXT,
		valid_to TEXT,
		description TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_bonuses_employee
		ON bonuses(employee_id);

	CREATE TABLE IF NOT EXISTS work_rules (
		org_id TEXT PRIMARY KEY,
		config_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORD TYPES
// =============================================================================

// Employee is a persisted employee with a base hourly rate in minor units.
type Employee struct {
	ID         string
	Name       string
	HourlyRate payroll.Money
	CreatedAt  time.Time
}

// Shift is a persisted clock-in/clock-out record. EndAt is nil while the
// shift is still open; open shifts have no computable pay.
type Shift struct {
	ID         string
	EmployeeID string
	StartAt    time.Time
	EndAt      *time.Time
	WorkType   string
	IsHoliday  bool
	IsShortDay bool
	CreatedAt  time.Time
}

// Bonus is a persisted bonus entitlement row.
type Bonus struct {
	ID           string
	EmployeeID   string
	Type         payroll.BonusType
	HourlyAmount payroll.Money
	FixedAmount  payroll.Money
	ValidFrom    *time.Time
	ValidTo      *time.Time
	Description  string
}

// Info converts the row to the engine's plain BonusInfo value.
func (b Bonus) Info() payroll.BonusInfo {
	return payroll.BonusInfo{
		ID:           b.ID,
		Type:         b.Type,
		HourlyAmount: b.HourlyAmount,
		FixedAmount:  b.FixedAmount,
		ValidFrom:    b.ValidFrom,
		ValidTo:      b.ValidTo,
		Description:  b.Description,
	}
}

// =============================================================================
// EMPLOYEES AND RATES
// =============================================================================

// SaveEmployee inserts or replaces an employee record.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.HourlyRate < 0 {
		return payroll.ErrNegativeRate
	}
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees (id, name, hourly_rate, created_at)
		VALUES (?, ?, ?, ?)`,
		emp.ID, emp.Name, int64(emp.HourlyRate), emp.CreatedAt.Format(time.RFC3339))
	return err
}

// GetEmployee fetches one employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, hourly_rate, created_at FROM employees WHERE id = ?`, id)

	var emp Employee
	var rate int64
	var createdAt string
	if err := row.Scan(&emp.ID, &emp.Name, &rate, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, payroll.ErrEmployeeNotFound
		}
		return nil, err
	}
	emp.HourlyRate = payroll.Money(rate)
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hourly_rate, created_at FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		var rate int64
		var createdAt string
		if err := rows.Scan(&emp.ID, &emp.Name, &rate, &createdAt); err != nil {
			return nil, err
		}
		emp.HourlyRate = payroll.Money(rate)
		emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// SaveRateOverride sets an employee's hourly rate for a specific work type.
func (s *Store) SaveRateOverride(ctx context.Context, employeeID, workType string, rate payroll.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rate < 0 {
		return payroll.ErrNegativeRate
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO rate_overrides (employee_id, work_type, hourly_rate)
		VALUES (?, ?, ?)`, employeeID, workType, int64(rate))
	return err
}

// HourlyRate implements payroll.RateResolver: the per-work-type override
// when one exists, else the employee's base rate.
func (s *Store) HourlyRate(ctx context.Context, employeeID, workType string) (payroll.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if workType != "" {
		var rate int64
		err := s.db.QueryRowContext(ctx, `
			SELECT hourly_rate FROM rate_overrides
			WHERE employee_id = ? AND work_type = ?`, employeeID, workType).Scan(&rate)
		switch err {
		case nil:
			return payroll.Money(rate), nil
		case sql.ErrNoRows:
			// fall through to base rate
		default:
			return 0, err
		}
	}

	var rate int64
	err := s.db.QueryRowContext(ctx, `
		SELECT hourly_rate FROM employees WHERE id = ?`, employeeID).Scan(&rate)
	if err == sql.ErrNoRows {
		return 0, payroll.ErrEmployeeNotFound
	}
	if err != nil {
		return 0, err
	}
	return payroll.Money(rate), nil
}

// =============================================================================
// SHIFTS
// =============================================================================

// SaveShift inserts or replaces a shift record. A shift whose end precedes
// its start is rejected; an open shift (nil end) is allowed.
func (s *Store) SaveShift(ctx context.Context, shift Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if shift.EndAt != nil && shift.EndAt.Before(shift.StartAt) {
		return payroll.ErrInvalidInterval
	}
	if shift.CreatedAt.IsZero() {
		shift.CreatedAt = time.Now().UTC()
	}

	var endAt any
	if shift.EndAt != nil {
		endAt = shift.EndAt.Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO shifts
			(id, employee_id, start_at, end_at, work_type, is_holiday, is_short_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		shift.ID, shift.EmployeeID, shift.StartAt.Format(time.RFC3339), endAt,
		shift.WorkType, boolToInt(shift.IsHoliday), boolToInt(shift.IsShortDay),
		shift.CreatedAt.Format(time.RFC3339))
	return err
}

// GetShift fetches one shift by ID.
func (s *Store) GetShift(ctx context.Context, id string) (*Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shifts, err := s.queryShifts(ctx, `
		SELECT id, employee_id, start_at, end_at, work_type, is_holiday, is_short_day, created_at
		FROM shifts WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return nil, payroll.ErrShiftNotFound
	}
	return &shifts[0], nil
}

// ListShifts returns an employee's shifts starting within [from, to),
// ordered by start time.
func (s *Store) ListShifts(ctx context.Context, employeeID string, from, to time.Time) ([]Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryShifts(ctx, `
		SELECT id, employee_id, start_at, end_at, work_type, is_holiday, is_short_day, created_at
		FROM shifts
		WHERE employee_id = ? AND start_at >= ? AND start_at < ?
		ORDER BY start_at`,
		employeeID, from.Format(time.RFC3339), to.Format(time.RFC3339))
}

// DeleteShift removes a shift by ID.
func (s *Store) DeleteShift(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payroll.ErrShiftNotFound
	}
	return nil
}

func (s *Store) queryShifts(ctx context.Context, query string, args ...any) ([]Shift, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []Shift
	for rows.Next() {
		var shift Shift
		var startAt, createdAt string
		var endAt sql.NullString
		var holiday, shortDay int
		if err := rows.Scan(&shift.ID, &shift.EmployeeID, &startAt, &endAt,
			&shift.WorkType, &holiday, &shortDay, &createdAt); err != nil {
			return nil, err
		}
		shift.StartAt, _ = time.Parse(time.RFC3339, startAt)
		if endAt.Valid {
			if t, err := time.Parse(time.RFC3339, endAt.String); err == nil {
				shift.EndAt = &t
			}
		}
		shift.IsHoliday = holiday != 0
		shift.IsShortDay = shortDay != 0
		shift.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

// =============================================================================
// BONUSES
// =============================================================================

// SaveBonus inserts or replaces a bonus entitlement.
func (s *Store) SaveBonus(ctx context.Context, bonus Bonus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var from, to any
	if bonus.ValidFrom != nil {
		from = bonus.ValidFrom.Format(time.RFC3339)
	}
	if bonus.ValidTo != nil {
		to = bonus.ValidTo.Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO bonuses
			(id, employee_id, bonus_type, hourly_amount, fixed_amount, valid_from, valid_to, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		bonus.ID, bonus.EmployeeID, string(bonus.Type),
		int64(bonus.HourlyAmount), int64(bonus.FixedAmount), from, to, bonus.Description)
	return err
}

// ListBonuses returns an employee's bonus rows.
func (s *Store) ListBonuses(ctx context.Context, employeeID string) ([]Bonus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, bonus_type, hourly_amount, fixed_amount, valid_from, valid_to, description
		FROM bonuses WHERE employee_id = ? ORDER BY valid_from`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bonuses []Bonus
	for rows.Next() {
		var b Bonus
		var hourly, fixed int64
		var from, to sql.NullString
		var bonusType string
		if err := rows.Scan(&b.ID, &b.EmployeeID, &bonusType, &hourly, &fixed, &from, &to, &b.Description); err != nil {
			return nil, err
		}
		b.Type = payroll.BonusType(bonusType)
		b.HourlyAmount = payroll.Money(hourly)
		b.FixedAmount = payroll.Money(fixed)
		b.ValidFrom = parseNullTime(from)
		b.ValidTo = parseNullTime(to)
		bonuses = append(bonuses, b)
	}
	return bonuses, rows.Err()
}

// DeleteBonus removes a bonus by ID.
func (s *Store) DeleteBonus(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM bonuses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return payroll.ErrBonusNotFound
	}
	return nil
}

// Bonuses implements payroll.BonusProvider: the full, unfiltered
// entitlement list. The engine performs the validity filtering itself.
func (s *Store) Bonuses(ctx context.Context, employeeID string) ([]payroll.BonusInfo, error) {
	rows, err := s.ListBonuses(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	infos := make([]payroll.BonusInfo, len(rows))
	for i, b := range rows {
		infos[i] = b.Info()
	}
	return infos, nil
}

// =============================================================================
// WORK RULES
// =============================================================================

// SaveRules persists an organization's work-rules configuration as JSON.
func (s *Store) SaveRules(ctx context.Context, orgID string, rules payroll.WorkRules) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	configJSON, err := s.factory.MarshalRules(rules)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO work_rules (org_id, config_json, updated_at)
		VALUES (?, ?, ?)`, orgID, configJSON, time.Now().UTC().Format(time.RFC3339))
	return err
}

// WorkRules implements payroll.RulesProvider. When the organization has no
// persisted rules it falls back to the documented defaults rather than
// failing - payroll must always be computable.
func (s *Store) WorkRules(ctx context.Context, orgID string) (payroll.WorkRules, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT config_json FROM work_rules WHERE org_id = ?`, orgID).Scan(&configJSON)
	if err == sql.ErrNoRows {
		return payroll.DefaultRules(), nil
	}
	if err != nil {
		return payroll.WorkRules{}, err
	}
	return s.factory.ParseRules(configJSON)
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all tables. Test and demo use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"bonuses", "rate_overrides", "shifts", "work_rules", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}
