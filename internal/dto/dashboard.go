package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
)

// OverviewResponse is the main dashboard payload.
type OverviewResponse struct {
	KPIs                   OverviewKPIs            `json:"kpis"`
	DepartmentDistribution []derived.NameValue     `json:"department_distribution"`
	RevenueByCategory      []derived.NameAmount    `json:"revenue_by_category"`
	Pipeline               []derived.PipelineStage `json:"pipeline"`
	OpenPipeline           derived.PipelineSummary `json:"open_pipeline"`
	Students               derived.StudentStats    `json:"students"`
	PaymentDistribution    []derived.NameValue     `json:"payment_distribution"`
	SourceDistribution     []derived.NameValue     `json:"source_distribution"`
	Financials             derived.FinancialSplit  `json:"financials"`
	GeneratedAt            time.Time               `json:"generated_at"`
}

// OverviewKPIs are the headline cards.
type OverviewKPIs struct {
	TotalEmployees   int             `json:"total_employees"`
	ActiveEmployees  int             `json:"active_employees"`
	OnLeaveEmployees int             `json:"on_leave_employees"`
	TotalCourses     int             `json:"total_courses"`
	ActiveCourses    int             `json:"active_courses"`
	AverageProgress  int64           `json:"average_progress"`
	CourseRevenue    int64           `json:"course_revenue"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	ForecastRevenue  decimal.Decimal `json:"forecast_revenue"`
	TotalLeads       int             `json:"total_leads"`
	TotalStudents    int             `json:"total_students"`
}

// StudentDashboardResponse backs the students tab.
type StudentDashboardResponse struct {
	Stats               derived.StudentStats `json:"stats"`
	PaymentDistribution []derived.NameValue  `json:"payment_distribution"`
	SourceDistribution  []derived.NameValue  `json:"source_distribution"`
	StatusDistribution  []derived.NameValue  `json:"status_distribution"`
}

// PipelineDashboardResponse backs the leads tab.
type PipelineDashboardResponse struct {
	Stages             []derived.PipelineStage `json:"stages"`
	Open               derived.PipelineSummary `json:"open"`
	SourceDistribution []derived.NameValue     `json:"source_distribution"`
	Won                int                     `json:"won"`
	Lost               int                     `json:"lost"`
}
