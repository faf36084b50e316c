// Package kpi derives dashboard indicators from raw extractor output.
// Every function accepts empty input and returns zero for it; none of them fail
package kpi

import (
	"math"
	"strings"
)

// Risk levels and statuses used by the HSSE high risk filter
const (
	RiskLevelHigh    = "High"
	RiskLevelExtreme = "Extreme"
	RiskCompleted    = "completed"
)

// RiskItem is one flattened risk entry from an HSSE audit
type RiskItem struct {
	Level  string
	Status string
}

// BudgetLine is the budgeted and actual amount of one budget record
type BudgetLine struct {
	Budgeted float64
	Actual   float64
}

// BudgetTotals sums a set of budget lines
// Variance is positive when under budget
type BudgetTotals struct {
	Budgeted float64
	Actual   float64
	Variance float64
}

// MonthBucket is the work order count and cost for one calendar month
type MonthBucket struct {
	Month     int
	Count     int64
	TotalCost float64
}

// FacilityConditionIndex averages assessment FCI values rounded to 2 decimals
func FacilityConditionIndex(fcis []float64) float64 {
	avg, ok := mean(fcis)
	if !ok || avg <= 0 {
		return 0
	}
	return math.Round(avg*100) / 100
}

// ComplianceScore averages audit scores rounded to the nearest integer, clamped to 0..100
func ComplianceScore(scores []float64) float64 {
	avg, ok := mean(scores)
	if !ok {
		return 0
	}
	return clamp(math.Round(avg), 0, 100)
}

// Budget sums budgeted and actual amounts; Variance is derived from the sums
func Budget(lines []BudgetLine) BudgetTotals {
	var out BudgetTotals
	for _, l := range lines {
		out.Budgeted += finite(l.Budgeted)
		out.Actual += finite(l.Actual)
	}
	out.Variance = out.Budgeted - out.Actual
	return out
}

// MonthlyMaintenanceCost returns the cost of the bucket for month, 0 when absent
func MonthlyMaintenanceCost(buckets []MonthBucket, month int) float64 {
	for _, b := range buckets {
		if b.Month == month {
			return finite(b.TotalCost)
		}
	}
	return 0
}

// HighRiskIssues counts High or Extreme risks that are not completed
// items are expected to be already flattened out of their parent audits
func HighRiskIssues(items []RiskItem) int64 {
	var n int64
	for _, it := range items {
		if isHighRisk(it.Level) && !strings.EqualFold(strings.TrimSpace(it.Status), RiskCompleted) {
			n++
		}
	}
	return n
}

func isHighRisk(level string) bool {
	switch strings.TrimSpace(level) {
	case RiskLevelHigh, RiskLevelExtreme:
		return true
	}
	return false
}

// mean skips NaN and Inf values; ok is false when nothing usable remains
func mean(xs []float64) (float64, bool) {
	var sum float64
	var n int
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
