/*
providers.go - External collaborator interfaces

PURPOSE:
  The engine consumes, and stays agnostic to the shape of, three external
  collaborators: a work-rules provider, an hourly-rate resolver, and a
  bonus provider. The engine itself performs the bonus validity filtering,
  so providers never pre-filter.

  These interfaces are implemented by store/sqlite for persisted data and
  by the static fallbacks below for tests and rule-less deployments.

SEE ALSO:
  - store/sqlite: Persisted implementations
  - errors.go: Sentinel errors providers return
*/
package payroll

import "context"

// RulesProvider returns the work-rules configuration for an organization,
// falling back to DefaultRules when none is persisted.
type RulesProvider interface {
	WorkRules(ctx context.Context, orgID string) (WorkRules, error)
}

// RateResolver returns an employee's integer hourly rate in minor units.
// How the rate is derived (per-work-type override vs. base rate) is the
// resolver's concern; the engine only ever sees one integer.
type RateResolver interface {
	HourlyRate(ctx context.Context, employeeID, workType string) (Money, error)
}

// BonusProvider returns the full list of bonus entitlements for an
// employee, unfiltered.
type BonusProvider interface {
	Bonuses(ctx context.Context, employeeID string) ([]BonusInfo, error)
}

// StaticRulesProvider serves one fixed WorkRules value. Useful in tests
// and single-tenant deployments with no persisted rules.
type StaticRulesProvider struct {
	Rules WorkRules
}

func (p StaticRulesProvider) WorkRules(ctx context.Context, orgID string) (WorkRules, error) {
	return p.Rules, nil
}

// DefaultRulesProvider always serves DefaultRules.
type DefaultRulesProvider struct{}

func (DefaultRulesProvider) WorkRules(ctx context.Context, orgID string) (WorkRules, error) {
	return DefaultRules(), nil
}
