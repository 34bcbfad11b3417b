package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
	"github.com/noah-isme/aiws-admin-api/internal/dto"
	"github.com/noah-isme/aiws-admin-api/internal/models"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

// Dashboard cache keys. Every entity write clears dash:*.
const (
	dashboardOverviewKey = "dash:overview"
	dashboardStudentsKey = "dash:students"
	dashboardPipelineKey = "dash:pipeline"
)

type employeeLister interface {
	List(ctx context.Context, p models.Predicate) ([]models.Employee, error)
}

type courseLister interface {
	List(ctx context.Context, p models.Predicate) ([]models.Course, error)
}

type leadLister interface {
	List(ctx context.Context, p models.Predicate) ([]models.Lead, error)
}

type studentLister interface {
	List(ctx context.Context, p models.Predicate) ([]models.Student, error)
}

type financialLister interface {
	List(ctx context.Context, p models.Predicate) ([]models.FinancialPeriod, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Employees  employeeLister
	Courses    courseLister
	Leads      leadLister
	Students   studentLister
	Financials financialLister
	Cache      *CacheService
	Logger     *zap.Logger
	Config     DashboardServiceConfig
}

// DashboardService composes dashboard view-models from the entity store.
type DashboardService struct {
	employees  employeeLister
	courses    courseLister
	leads      leadLister
	students   studentLister
	financials financialLister
	cache      *CacheService
	logger     *zap.Logger
	now        func() time.Time
	cfg        DashboardServiceConfig
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		employees:  params.Employees,
		courses:    params.Courses,
		leads:      params.Leads,
		students:   params.Students,
		financials: params.Financials,
		cache:      params.Cache,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// Overview returns the overview payload and whether it came from cache.
func (s *DashboardService) Overview(ctx context.Context) (*dto.OverviewResponse, bool, error) {
	var cached dto.OverviewResponse
	if s.tryCache(ctx, dashboardOverviewKey, &cached) {
		return &cached, true, nil
	}

	employees, err := s.employees.List(ctx, models.Predicate{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employees")
	}
	courses, err := s.courses.List(ctx, models.Predicate{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	leads, err := s.leads.List(ctx, models.Predicate{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leads")
	}
	students, err := s.students.List(ctx, models.Predicate{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	periods, err := s.financials.List(ctx, models.Predicate{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load financial periods")
	}

	courseAmounts := make([]derived.CourseAmount, 0, len(courses))
	var courseRevenue int64
	activeCourses := 0
	for _, c := range courses {
		courseAmounts = append(courseAmounts, derived.CourseAmount{Category: c.Category, Status: c.Status, Progress: c.Progress, Revenue: c.Revenue})
		courseRevenue += c.Revenue
		if c.Status == models.CourseStatusActive {
			activeCourses++
		}
	}

	summaries := studentSummaries(students)
	stats := derived.StudentStatistics(summaries)
	split := derived.SplitFinancials(financialPeriods(periods))
	amounts := leadAmounts(leads)

	activeEmployees := len(derived.FilterRecords(employees, func(e models.Employee) bool { return e.Status == models.EmployeeStatusActive }))

	overview := &dto.OverviewResponse{
		KPIs: dto.OverviewKPIs{
			TotalEmployees:   len(employees),
			ActiveEmployees:  activeEmployees,
			OnLeaveEmployees: len(employees) - activeEmployees,
			TotalCourses:     len(courses),
			ActiveCourses:    activeCourses,
			AverageProgress:  derived.AverageProgress(courseAmounts),
			CourseRevenue:    courseRevenue,
			TotalRevenue:     derived.SumRevenue(split.Actual),
			ForecastRevenue:  derived.SumRevenue(split.Forecast),
			TotalLeads:       len(leads),
			TotalStudents:    stats.Total,
		},
		DepartmentDistribution: derived.GroupCountBy(employees, func(e models.Employee) string { return e.Department }),
		RevenueByCategory:      derived.RevenueByCategory(courseAmounts),
		Pipeline:               derived.AggregatePipelineByStage(amounts),
		OpenPipeline:           derived.OpenPipeline(amounts),
		Students:               stats,
		PaymentDistribution:    derived.PaymentDistribution(stats),
		SourceDistribution:     derived.SourceDistribution(summaries),
		Financials:             split,
		GeneratedAt:            s.now().UTC(),
	}
	s.persistCache(ctx, dashboardOverviewKey, overview)
	return overview, false, nil
}

// StudentStats returns the students tab payload and whether it came from cache.
func (s *DashboardService) StudentStats(ctx context.Context) (*dto.StudentDashboardResponse, bool, error) {
	var cached dto.StudentDashboardResponse
	if s.tryCache(ctx, dashboardStudentsKey, &cached) {
		return &cached, true, nil
	}

	students, err := s.students.List(ctx, models.Predicate{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	summaries := studentSummaries(students)
	stats := derived.StudentStatistics(summaries)
	statuses := derived.GroupCountBy(students, func(st models.Student) string { return st.StudentStatus })
	for i := range statuses {
		statuses[i].Name = derived.StudentStatusLabel(statuses[i].Key)
	}

	resp := &dto.StudentDashboardResponse{
		Stats:               stats,
		PaymentDistribution: derived.PaymentDistribution(stats),
		SourceDistribution:  derived.SourceDistribution(summaries),
		StatusDistribution:  statuses,
	}
	s.persistCache(ctx, dashboardStudentsKey, resp)
	return resp, false, nil
}

// Pipeline returns the sales funnel payload and whether it came from cache.
func (s *DashboardService) Pipeline(ctx context.Context) (*dto.PipelineDashboardResponse, bool, error) {
	var cached dto.PipelineDashboardResponse
	if s.tryCache(ctx, dashboardPipelineKey, &cached) {
		return &cached, true, nil
	}

	leads, err := s.leads.List(ctx, models.Predicate{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leads")
	}
	amounts := leadAmounts(leads)
	resp := &dto.PipelineDashboardResponse{
		Stages: derived.AggregatePipelineByStage(amounts),
		Open:   derived.OpenPipeline(amounts),
		SourceDistribution: derived.GroupCountBy(leads, func(l models.Lead) string {
			if l.Source == "" {
				return derived.OtherLabel
			}
			return l.Source
		}),
	}
	for _, l := range leads {
		switch l.Stage {
		case derived.StageClosedWon:
			resp.Won++
		case derived.StageClosedLost:
			resp.Lost++
		}
	}
	s.persistCache(ctx, dashboardPipelineKey, resp)
	return resp, false, nil
}

// tryCache degrades to a recompute when the cache errors.
func (s *DashboardService) tryCache(ctx context.Context, key string, dest interface{}) bool {
	if !s.cache.Enabled() {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value interface{}) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func leadAmounts(leads []models.Lead) []derived.LeadAmount {
	out := make([]derived.LeadAmount, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.Amount())
	}
	return out
}

func financialPeriods(periods []models.FinancialPeriod) []derived.Period {
	out := make([]derived.Period, 0, len(periods))
	for _, p := range periods {
		out = append(out, p.Period())
	}
	return out
}
