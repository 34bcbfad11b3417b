package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/aiws-admin-api/internal/models"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

// Entity names used in metrics, cache invalidation and audit resources.
const (
	EntityEmployees = "employees"
	EntityCourses   = "courses"
	EntityLeads     = "leads"
	EntityStudents  = "students"
	EntityPayments  = "payments"
	EntityFinancial = "financial_periods"
)

// wantFilter holds a list filter value; "" and "all" disable it.
func wantFilter(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != "all"
}

// firstPredicate pushes the first active filter down to the repository.
// Remaining filters are applied in memory by the caller.
func firstPredicate(candidates ...models.Predicate) models.Predicate {
	for _, p := range candidates {
		if p.IsZero() {
			continue
		}
		if s, ok := p.Value.(string); ok && !wantFilter(s) {
			continue
		}
		return p
	}
	return models.Predicate{}
}

// lookupError maps a repository read error to NOT_FOUND or INTERNAL_ERROR.
func lookupError(err error, notFound, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, action)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// writeHooks runs after a successful entity write.
type writeHooks struct {
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

func (h writeHooks) done(ctx context.Context, entity, operation string, id int64) {
	h.metrics.RecordEntityWrite(entity, operation)
	h.cache.InvalidateDashboard(ctx)
	h.logger.Info("entity written", zap.String("entity", entity), zap.String("operation", operation), zap.Int64("id", id))
}

// failed logs a store error before it is surfaced. No retry is attempted.
func (h writeHooks) failed(entity, operation string, err error) {
	h.logger.Error("entity write failed", zap.String("entity", entity), zap.String("operation", operation), zap.Error(err))
}

func newWriteHooks(cache *CacheService, metrics *MetricsService, logger *zap.Logger) writeHooks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return writeHooks{cache: cache, metrics: metrics, logger: logger}
}
