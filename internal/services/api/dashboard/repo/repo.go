// Package repo provides postgres access for the dashboard extractors
// every method is one read statement and is safe to call concurrently on a pooled Queryer
package repo

import (
	"context"
	"time"

	"facilities/internal/core/kpi"
	"facilities/internal/modkit/repokit"
	"facilities/internal/platform/store"

	"github.com/google/uuid"
)

// Tables are the record stores the extractors read
var Tables = []string{
	"assets",
	"work_orders",
	"incidents",
	"hsse_audits",
	"fca_assessments",
	"maintenance_plans",
	"budgets",
	"sites",
}

// Repo is the read surface the dashboard extractors need
type Repo interface {
	AssetCounts(ctx context.Context, inService string, replFrom, replTo time.Time) (AssetCounts, error)
	AssetsByCategory(ctx context.Context) ([]Group, error)

	CountWorkOrders(ctx context.Context, statuses []string) (int64, error)
	WorkOrdersByStatus(ctx context.Context) ([]Group, error)
	WorkOrdersByPriority(ctx context.Context) ([]Group, error)
	MonthlyWorkOrders(ctx context.Context, from, to time.Time, tz string) ([]kpi.MonthBucket, error)

	CountIncidents(ctx context.Context, statuses []string) (int64, error)
	IncidentsByType(ctx context.Context) ([]Group, error)

	RiskItems(ctx context.Context) ([]kpi.RiskItem, error)
	CountSites(ctx context.Context) (int64, error)

	RecentAssessments(ctx context.Context, limit int) ([]AssessmentRow, error)
	RecentAudits(ctx context.Context, limit int) ([]AuditRow, error)

	CountMaintenanceDue(ctx context.Context, status string, from, to time.Time) (int64, error)
	BudgetsForYear(ctx context.Context, fiscalYear int) ([]BudgetRow, error)
}

// AssetCounts is read in one statement so InService never exceeds Total
type AssetCounts struct {
	Total           int64
	InService       int64
	NearReplacement int64
}

// Group is one key and its row count
type Group struct {
	Key   string
	Count int64
}

// AssessmentRow is a dated FCA assessment
type AssessmentRow struct {
	ID    uuid.UUID
	Title string
	Date  time.Time
	FCI   float64
}

// AuditRow is a dated HSSE audit
type AuditRow struct {
	ID    uuid.UUID
	Title string
	Date  time.Time
	Score float64
}

// BudgetRow is one budget record
type BudgetRow struct {
	ID         uuid.UUID
	Title      string
	FiscalYear int
	Budgeted   float64
	Actual     float64
	Variance   float64
}

type (
	// PG binds the repo to a pooled Queryer
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that binds the repo to a Queryer
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: repokit.RequireQueryer(q)} }

func (r *queries) AssetCounts(ctx context.Context, inService string, replFrom, replTo time.Time) (AssetCounts, error) {
	const sql = `
select
	count(*),
	count(*) filter (where status = $1),
	count(*) filter (where replacement_due_date between $2 and $3)
from assets
`
	var out AssetCounts
	err := r.q.QueryRow(ctx, sql, inService, replFrom, replTo).Scan(&out.Total, &out.InService, &out.NearReplacement)
	return out, err
}

func (r *queries) AssetsByCategory(ctx context.Context) ([]Group, error) {
	return r.groups(ctx, `
select coalesce(category, ''), count(*) as n
from assets
group by 1
order by n desc, 1 asc
`)
}

func (r *queries) CountWorkOrders(ctx context.Context, statuses []string) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `select count(*) from work_orders where status = any($1)`, statuses)
}

func (r *queries) WorkOrdersByStatus(ctx context.Context) ([]Group, error) {
	return r.groups(ctx, `
select coalesce(status, ''), count(*) as n
from work_orders
group by 1
order by n desc, 1 asc
`)
}

func (r *queries) WorkOrdersByPriority(ctx context.Context) ([]Group, error) {
	return r.groups(ctx, `
select coalesce(priority, ''), count(*) as n
from work_orders
group by 1
order by n desc, 1 asc
`)
}

func (r *queries) MonthlyWorkOrders(ctx context.Context, from, to time.Time, tz string) ([]kpi.MonthBucket, error) {
	// month is taken in the caller's zone so buckets line up with window.Month
	const sql = `
select
	extract(month from created_at at time zone $3)::int as m,
	count(*),
	coalesce(sum(coalesce(total_cost, 0)), 0)::float8
from work_orders
where created_at between $1 and $2
group by m
order by m asc
`
	return store.Many(ctx, r.q, func(row store.Row) (kpi.MonthBucket, error) {
		var b kpi.MonthBucket
		err := row.Scan(&b.Month, &b.Count, &b.TotalCost)
		return b, err
	}, sql, from, to, tz)
}

func (r *queries) CountIncidents(ctx context.Context, statuses []string) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `select count(*) from incidents where status = any($1)`, statuses)
}

func (r *queries) IncidentsByType(ctx context.Context) ([]Group, error) {
	return r.groups(ctx, `
select coalesce(type, ''), count(*) as n
from incidents
group by 1
order by n desc, 1 asc
`)
}

// RiskItems flattens every audit's risks array without filtering
// the high risk filter is applied by kpi.HighRiskIssues
func (r *queries) RiskItems(ctx context.Context) ([]kpi.RiskItem, error) {
	const sql = `
select coalesce(risk->>'riskLevel', ''), coalesce(risk->>'status', '')
from hsse_audits a
cross join lateral jsonb_array_elements(
	case when jsonb_typeof(a.risks) = 'array' then a.risks else '[]'::jsonb end
) as risk
`
	return store.Many(ctx, r.q, func(row store.Row) (kpi.RiskItem, error) {
		var it kpi.RiskItem
		err := row.Scan(&it.Level, &it.Status)
		return it, err
	}, sql)
}

func (r *queries) CountSites(ctx context.Context) (int64, error) {
	return store.Scalar[int64](ctx, r.q, `select count(*) from sites`)
}

func (r *queries) RecentAssessments(ctx context.Context, limit int) ([]AssessmentRow, error) {
	const sql = `
select id, coalesce(title, ''), assessment_date, coalesce(facility_condition_index, 0)::float8
from fca_assessments
where assessment_date is not null
order by assessment_date desc, id asc
limit $1
`
	return store.Many(ctx, r.q, func(row store.Row) (AssessmentRow, error) {
		var a AssessmentRow
		err := row.Scan(&a.ID, &a.Title, &a.Date, &a.FCI)
		return a, err
	}, sql, limit)
}

func (r *queries) RecentAudits(ctx context.Context, limit int) ([]AuditRow, error) {
	const sql = `
select id, coalesce(title, ''), audit_date, coalesce(compliance_score, 0)::float8
from hsse_audits
where audit_date is not null
order by audit_date desc, id asc
limit $1
`
	return store.Many(ctx, r.q, func(row store.Row) (AuditRow, error) {
		var a AuditRow
		err := row.Scan(&a.ID, &a.Title, &a.Date, &a.Score)
		return a, err
	}, sql, limit)
}

func (r *queries) CountMaintenanceDue(ctx context.Context, status string, from, to time.Time) (int64, error) {
	const sql = `
select count(*)
from maintenance_plans
where status = $1
and next_due_date between $2 and $3
`
	return store.Scalar[int64](ctx, r.q, sql, status, from, to)
}

func (r *queries) BudgetsForYear(ctx context.Context, fiscalYear int) ([]BudgetRow, error) {
	const sql = `
select
	id,
	coalesce(title, ''),
	fiscal_year,
	coalesce(total_budgeted, 0)::float8,
	coalesce(total_actual, 0)::float8,
	coalesce(total_variance, 0)::float8
from budgets
where fiscal_year = $1
order by title asc, id asc
`
	return store.Many(ctx, r.q, func(row store.Row) (BudgetRow, error) {
		var b BudgetRow
		err := row.Scan(&b.ID, &b.Title, &b.FiscalYear, &b.Budgeted, &b.Actual, &b.Variance)
		return b, err
	}, sql, fiscalYear)
}

func (r *queries) groups(ctx context.Context, sql string) ([]Group, error) {
	return store.Many(ctx, r.q, func(row store.Row) (Group, error) {
		var g Group
		err := row.Scan(&g.Key, &g.Count)
		return g, err
	}, sql)
}
