// Package domain holds DTOs for the dashboard http and service contracts
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record status values the extractors filter on
const (
	AssetInService    = "in-service"
	MaintenanceActive = "active"
)

// ActiveWorkOrderStatuses are the work order statuses counted as active
var ActiveWorkOrderStatuses = []string{"open", "assigned", "in-progress"}

// OpenIncidentStatuses are the incident statuses counted as open
var OpenIncidentStatuses = []string{"reported", "investigating"}

// Snapshot is the full dashboard payload
// it is built per request and never stored
type Snapshot struct {
	Summary Summary `json:"summary"`
	Charts  Charts  `json:"charts"`
	Recent  Recent  `json:"recent"`
}

// Summary holds scalar counts and derived KPIs
type Summary struct {
	TotalAssets            int64   `json:"totalAssets" example:"10"`
	AssetsInService        int64   `json:"assetsInService" example:"7"`
	AssetsNearReplacement  int64   `json:"assetsNearReplacement" example:"2"`
	ActiveWorkOrders       int64   `json:"activeWorkOrders" example:"4"`
	OpenIncidents          int64   `json:"openIncidents" example:"1"`
	HighRiskIssues         int64   `json:"highRiskIssues" example:"3"`
	TotalSites             int64   `json:"totalSites" example:"2"`
	MaintenanceDue         int64   `json:"maintenanceDue" example:"5"`
	FacilityConditionIndex float64 `json:"facilityConditionIndex" example:"0.12"`
	ComplianceScore        float64 `json:"complianceScore" example:"90"`
	MonthlyMaintenanceCost float64 `json:"monthlyMaintenanceCost" example:"1250.5"`
	BudgetVariance         float64 `json:"budgetVariance" example:"10"`
	TotalBudgeted          float64 `json:"totalBudgeted" example:"150"`
	TotalActual            float64 `json:"totalActual" example:"140"`
}

// Grouping is one bar or pie slice
type Grouping struct {
	Key   string `json:"key" example:"hvac"`
	Count int64  `json:"count" example:"4"`
}

// MonthlyGrouping is one calendar month of work orders, Key is the month number 1..12
type MonthlyGrouping struct {
	Key       int     `json:"key" example:"10"`
	Count     int64   `json:"count" example:"12"`
	TotalCost float64 `json:"totalCost" example:"1250.5"`
}

// Charts holds the grouping arrays, never nil
type Charts struct {
	AssetsByCategory     []Grouping        `json:"assetsByCategory"`
	WorkOrdersByStatus   []Grouping        `json:"workOrdersByStatus"`
	WorkOrdersByPriority []Grouping        `json:"workOrdersByPriority"`
	MonthlyWorkOrders    []MonthlyGrouping `json:"monthlyWorkOrders"`
	IncidentsByType      []Grouping        `json:"incidentsByType"`
}

// FCAAssessment is a recent facility condition assessment
type FCAAssessment struct {
	ID                     uuid.UUID `json:"id" example:"6f1c1d2e-6a8b-4d7e-9d55-0c1f0c9a1b2c"`
	Title                  string    `json:"title" example:"Block A condition survey"`
	AssessmentDate         time.Time `json:"assessmentDate" example:"2026-10-01T00:00:00Z"`
	FacilityConditionIndex float64   `json:"facilityConditionIndex" example:"0.08"`
}

// HSSEAudit is a recent health, safety, security and environment audit
type HSSEAudit struct {
	ID              uuid.UUID `json:"id" example:"0b8f8a53-2d0e-4f0f-8d0a-7f3b2a9e4c11"`
	Title           string    `json:"title" example:"Quarterly site audit"`
	AuditDate       time.Time `json:"auditDate" example:"2026-09-30T00:00:00Z"`
	ComplianceScore float64   `json:"complianceScore" example:"92"`
}

// Budget is a budget record scoped to the current fiscal year
type Budget struct {
	ID            uuid.UUID `json:"id" example:"a7d3e1c2-5b4f-4a39-8c6e-1d2f3a4b5c6d"`
	Title         string    `json:"title" example:"FY26 maintenance"`
	FiscalYear    int       `json:"fiscalYear" example:"2026"`
	TotalBudgeted float64   `json:"totalBudgeted" example:"100"`
	TotalActual   float64   `json:"totalActual" example:"80"`
	TotalVariance float64   `json:"totalVariance" example:"20"`
}

// Recent holds the short record lists, never nil
type Recent struct {
	FCAAssessments []FCAAssessment `json:"fcaAssessments"`
	HSSEAudits     []HSSEAudit     `json:"hsseAudits"`
	Budgets        []Budget        `json:"budgets"`
}
