package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/aiws-admin-api/internal/models"
)

const financialColumns = `id, month, revenue, expenses, profit, courses_count, is_forecast, created_at, updated_at`

var financialFilterColumns = map[string]string{
	"is_forecast": "is_forecast",
}

// FinancialRepository manages monthly financial periods.
type FinancialRepository struct {
	db *sqlx.DB
}

// NewFinancialRepository constructs a FinancialRepository.
func NewFinancialRepository(db *sqlx.DB) *FinancialRepository {
	return &FinancialRepository{db: db}
}

// List returns periods ordered by id.
func (r *FinancialRepository) List(ctx context.Context, p models.Predicate) ([]models.FinancialPeriod, error) {
	where, args, err := equalityClause(p, financialFilterColumns)
	if err != nil {
		return nil, fmt.Errorf("list financial periods: %w", err)
	}
	query := fmt.Sprintf("SELECT %s FROM financial_periods%s ORDER BY id ASC", financialColumns, where)
	var periods []models.FinancialPeriod
	if err := r.db.SelectContext(ctx, &periods, query, args...); err != nil {
		return nil, fmt.Errorf("list financial periods: %w", err)
	}
	return periods, nil
}

// FindByID fetches a period by id.
func (r *FinancialRepository) FindByID(ctx context.Context, id int64) (*models.FinancialPeriod, error) {
	query := fmt.Sprintf("SELECT %s FROM financial_periods WHERE id = $1", financialColumns)
	var period models.FinancialPeriod
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find financial period: %w", err)
	}
	return &period, nil
}

// Create inserts a period and sets its id.
func (r *FinancialRepository) Create(ctx context.Context, period *models.FinancialPeriod) error {
	now := time.Now().UTC()
	period.CreatedAt = now
	period.UpdatedAt = now
	const query = `INSERT INTO financial_periods (month, revenue, expenses, profit, courses_count, is_forecast, created_at, updated_at)
        VALUES (:month, :revenue, :expenses, :profit, :courses_count, :is_forecast, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, period)
	if err != nil {
		return fmt.Errorf("create financial period: %w", err)
	}
	period.ID = id
	return nil
}

// Update replaces a period's figures.
func (r *FinancialRepository) Update(ctx context.Context, period *models.FinancialPeriod) error {
	period.UpdatedAt = time.Now().UTC()
	const query = `UPDATE financial_periods SET month = :month, revenue = :revenue, expenses = :expenses, profit = :profit,
        courses_count = :courses_count, is_forecast = :is_forecast, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, period)
	if err != nil {
		return fmt.Errorf("update financial period: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a period.
func (r *FinancialRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM financial_periods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete financial period: %w", err)
	}
	return expectAffected(res)
}
