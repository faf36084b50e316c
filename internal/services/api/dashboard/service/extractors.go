package service

import (
	"context"

	"facilities/internal/core/kpi"
	"facilities/internal/core/window"
	"facilities/internal/services/api/dashboard/domain"
	"facilities/internal/services/api/dashboard/repo"
)

// results holds one slot per extractor
// each extractor writes only its own slot and the errgroup barrier publishes them
type results struct {
	assets           repo.AssetCounts
	assetsByCategory []repo.Group

	activeWorkOrders     int64
	workOrdersByStatus   []repo.Group
	workOrdersByPriority []repo.Group
	monthlyWorkOrders    []kpi.MonthBucket

	openIncidents   int64
	incidentsByType []repo.Group

	risks []kpi.RiskItem
	sites int64

	assessments []repo.AssessmentRow
	audits      []repo.AuditRow

	maintenanceDue int64
	budgets        []repo.BudgetRow
}

// extractor is one independent read against the record stores
type extractor struct {
	name string
	run  func(ctx context.Context, r repo.Repo, w window.Window, out *results) error
}

// ExtractorCount is how many reads one snapshot runs concurrently
var ExtractorCount = len(extractors(DefaultRecentLimit))

func extractors(recentLimit int) []extractor {
	return []extractor{
		{"asset_counts", func(ctx context.Context, r repo.Repo, w window.Window, out *results) (err error) {
			out.assets, err = r.AssetCounts(ctx, domain.AssetInService, w.Replacement.From, w.Replacement.To)
			return
		}},
		{"assets_by_category", func(ctx context.Context, r repo.Repo, _ window.Window, out *results) (err error) {
			out.assetsByCategory, err = r.AssetsByCategory(ctx)
			return
		}},
		{"active_work_orders", func(ctx context.Context, r repo.Repo, _ window.Window, out *results) (err error) {
			out.activeWorkOrders, err = r.CountWorkOrders(ctx, domain.ActiveWorkOrderStatuses)
			return
		}},
		{"work_orders_by_status", func(ctx context.Context, r repo.Repo, _ window.Window, out *results) (err error) {
			out.workOrdersByStatus, err = r.WorkOrdersByStatus(ctx)
			return
		}},
		{"work_orders_by_priority", func(ctx context.Context, r repo.Repo, _ window.Window, out *results) (err error) {
			out.workOrdersByPriority, err = r.WorkOrdersByPriority(ctx)
			return
		}},
		{"monthly_work_orders", func(ctx context.Context, r repo.Repo, w window.Window, out *results) (err error) {
			out.monthlyWorkOrders, err = r.MonthlyWorkOrders(ctx, w.StartOfYear, w.Now, w.Location())
			return
		}},
		{"open_incidents", func(ctx context.Context, r repo.Repo, _ window.Window, out *results) (err error) {
			out.openIncidents, err = r.CountIncidents(ctx, domain.OpenIncidentStatuses)
			return
		}},
		{"incidents_by_type", func(ctx context.Context, r repo.Repo, _ window.Window, out *results) (err error) {
			out.incidentsByType, err = r.IncidentsByType(ctx)
			return
		}},
		{"hsse_risks", func(ctx context.Context, r repo.Repo, _ window.Window, out *results) (err error) {
			out.risks, err = r.RiskItems(ctx)
			return
		}},
		{"sites", func(ctx context.Context, r repo.Repo, _ window.Window, out *results) (err error) {
			out.sites, err = r.CountSites(ctx)
			return
		}},
		{"recent_fca_assessments", func(ctx context.Context, r repo.Repo, _ window.Window, out *results) (err error) {
			out.assessments, err = r.RecentAssessments(ctx, recentLimit)
			return
		}},
		{"recent_hsse_audits", func(ctx context.Context, r repo.Repo, _ window.Window, out *results) (err error) {
			out.audits, err = r.RecentAudits(ctx, recentLimit)
			return
		}},
		{"maintenance_due", func(ctx context.Context, r repo.Repo, w window.Window, out *results) (err error) {
			out.maintenanceDue, err = r.CountMaintenanceDue(ctx, domain.MaintenanceActive, w.Maintenance.From, w.Maintenance.To)
			return
		}},
		{"budgets", func(ctx context.Context, r repo.Repo, w window.Window, out *results) (err error) {
			out.budgets, err = r.BudgetsForYear(ctx, w.FiscalYear)
			return
		}},
	}
}

// assemble runs the KPI calculator over joined results and builds the snapshot
func assemble(w window.Window, res *results, recentLimit int) domain.Snapshot {
	assessments := capped(res.assessments, recentLimit)
	audits := capped(res.audits, recentLimit)

	fcis := make([]float64, 0, len(assessments))
	recentFCA := make([]domain.FCAAssessment, 0, len(assessments))
	for _, a := range assessments {
		fcis = append(fcis, a.FCI)
		recentFCA = append(recentFCA, domain.FCAAssessment{
			ID:                     a.ID,
			Title:                  a.Title,
			AssessmentDate:         a.Date,
			FacilityConditionIndex: a.FCI,
		})
	}

	scores := make([]float64, 0, len(audits))
	recentAudits := make([]domain.HSSEAudit, 0, len(audits))
	for _, a := range audits {
		scores = append(scores, a.Score)
		recentAudits = append(recentAudits, domain.HSSEAudit{
			ID:              a.ID,
			Title:           a.Title,
			AuditDate:       a.Date,
			ComplianceScore: a.Score,
		})
	}

	lines := make([]kpi.BudgetLine, 0, len(res.budgets))
	budgets := make([]domain.Budget, 0, len(res.budgets))
	for _, b := range res.budgets {
		lines = append(lines, kpi.BudgetLine{Budgeted: b.Budgeted, Actual: b.Actual})
		budgets = append(budgets, domain.Budget{
			ID:            b.ID,
			Title:         b.Title,
			FiscalYear:    b.FiscalYear,
			TotalBudgeted: b.Budgeted,
			TotalActual:   b.Actual,
			TotalVariance: b.Variance,
		})
	}
	totals := kpi.Budget(lines)

	monthly := make([]domain.MonthlyGrouping, 0, len(res.monthlyWorkOrders))
	for _, b := range res.monthlyWorkOrders {
		monthly = append(monthly, domain.MonthlyGrouping{Key: b.Month, Count: b.Count, TotalCost: b.TotalCost})
	}

	inService := res.assets.InService
	if inService > res.assets.Total {
		inService = res.assets.Total
	}

	return domain.Snapshot{
		Summary: domain.Summary{
			TotalAssets:            res.assets.Total,
			AssetsInService:        inService,
			AssetsNearReplacement:  res.assets.NearReplacement,
			ActiveWorkOrders:       res.activeWorkOrders,
			OpenIncidents:          res.openIncidents,
			HighRiskIssues:         kpi.HighRiskIssues(res.risks),
			TotalSites:             res.sites,
			MaintenanceDue:         res.maintenanceDue,
			FacilityConditionIndex: kpi.FacilityConditionIndex(fcis),
			ComplianceScore:        kpi.ComplianceScore(scores),
			MonthlyMaintenanceCost: kpi.MonthlyMaintenanceCost(res.monthlyWorkOrders, w.Month),
			BudgetVariance:         totals.Variance,
			TotalBudgeted:          totals.Budgeted,
			TotalActual:            totals.Actual,
		},
		Charts: domain.Charts{
			AssetsByCategory:     groupings(res.assetsByCategory),
			WorkOrdersByStatus:   groupings(res.workOrdersByStatus),
			WorkOrdersByPriority: groupings(res.workOrdersByPriority),
			MonthlyWorkOrders:    monthly,
			IncidentsByType:      groupings(res.incidentsByType),
		},
		Recent: domain.Recent{
			FCAAssessments: recentFCA,
			HSSEAudits:     recentAudits,
			Budgets:        budgets,
		},
	}
}

func groupings(in []repo.Group) []domain.Grouping {
	out := make([]domain.Grouping, 0, len(in))
	for _, g := range in {
		out = append(out, domain.Grouping{Key: g.Key, Count: g.Count})
	}
	return out
}

// capped trims a recent list a repo returned past the limit
func capped[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
