package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
	"github.com/noah-isme/aiws-admin-api/internal/models"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

// Financial list scopes.
const (
	FinancialScopeAll      = "all"
	FinancialScopeActual   = "actual"
	FinancialScopeForecast = "forecast"
)

type financialRepository interface {
	List(ctx context.Context, p models.Predicate) ([]models.FinancialPeriod, error)
	FindByID(ctx context.Context, id int64) (*models.FinancialPeriod, error)
	Create(ctx context.Context, period *models.FinancialPeriod) error
	Update(ctx context.Context, period *models.FinancialPeriod) error
	Delete(ctx context.Context, id int64) error
}

// FinancialPeriodRequest is the create and full-replace update payload.
// Profit defaults to revenue minus expenses when omitted.
type FinancialPeriodRequest struct {
	Month        string           `json:"month" validate:"required,max=20"`
	Revenue      decimal.Decimal  `json:"revenue"`
	Expenses     decimal.Decimal  `json:"expenses"`
	Profit       *decimal.Decimal `json:"profit"`
	CoursesCount derived.Number   `json:"courses_count" validate:"min=0"`
	IsForecast   bool             `json:"is_forecast"`
}

// FinancialService manages monthly revenue periods.
type FinancialService struct {
	repo      financialRepository
	validator *validator.Validate
	logger    *zap.Logger
	hooks     writeHooks
}

// NewFinancialService constructs the financial service.
func NewFinancialService(repo financialRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *FinancialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinancialService{repo: repo, validator: validate, logger: logger, hooks: newWriteHooks(cache, metrics, logger)}
}

// List returns periods in id order, optionally only actual or forecast rows.
func (s *FinancialService) List(ctx context.Context, scope string) ([]models.FinancialPeriod, error) {
	var p models.Predicate
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case "", FinancialScopeAll:
	case FinancialScopeActual:
		p = models.Eq("is_forecast", false)
	case FinancialScopeForecast:
		p = models.Eq("is_forecast", true)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "scope must be all, actual or forecast")
	}
	periods, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list financial periods")
	}
	return periods, nil
}

// Get returns a single period.
func (s *FinancialService) Get(ctx context.Context, id int64) (*models.FinancialPeriod, error) {
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "financial period not found", "failed to load financial period")
	}
	return period, nil
}

// Create stores a new period.
func (s *FinancialService) Create(ctx context.Context, req FinancialPeriodRequest) (*models.FinancialPeriod, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	period := &models.FinancialPeriod{}
	applyFinancialRequest(period, req)
	if err := s.repo.Create(ctx, period); err != nil {
		s.hooks.failed(EntityFinancial, "create", err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create financial period")
	}
	s.hooks.done(ctx, EntityFinancial, "create", period.ID)
	return period, nil
}

// Update replaces a period's figures.
func (s *FinancialService) Update(ctx context.Context, id int64, req FinancialPeriodRequest) (*models.FinancialPeriod, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "financial period not found", "failed to load financial period")
	}
	applyFinancialRequest(period, req)
	if err := s.repo.Update(ctx, period); err != nil {
		s.hooks.failed(EntityFinancial, "update", err)
		return nil, lookupError(err, "financial period not found", "failed to update financial period")
	}
	s.hooks.done(ctx, EntityFinancial, "update", period.ID)
	return period, nil
}

// Delete removes a period.
func (s *FinancialService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.hooks.failed(EntityFinancial, "delete", err)
		return lookupError(err, "financial period not found", "failed to delete financial period")
	}
	s.hooks.done(ctx, EntityFinancial, "delete", id)
	return nil
}

func (s *FinancialService) validateRequest(req FinancialPeriodRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid financial period payload")
	}
	if req.Revenue.IsNegative() || req.Expenses.IsNegative() {
		return appErrors.Clone(appErrors.ErrValidation, "revenue and expenses must not be negative")
	}
	return nil
}

func applyFinancialRequest(f *models.FinancialPeriod, req FinancialPeriodRequest) {
	f.Month = strings.TrimSpace(req.Month)
	f.Revenue = req.Revenue
	f.Expenses = req.Expenses
	if req.Profit != nil {
		f.Profit = *req.Profit
	} else {
		f.Profit = req.Revenue.Sub(req.Expenses)
	}
	f.CoursesCount = req.CoursesCount.Int64()
	f.IsForecast = req.IsForecast
}
