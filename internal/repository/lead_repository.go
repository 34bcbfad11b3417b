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

const leadColumns = `id, company, contact, email, phone, value, stage, probability, source, notes, created_at, updated_at`

var leadFilterColumns = map[string]string{
	"stage":  "stage",
	"source": "source",
}

// LeadRepository manages persistence for sales leads.
type LeadRepository struct {
	db *sqlx.DB
}

// NewLeadRepository constructs a LeadRepository.
func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// List returns leads ordered by id.
func (r *LeadRepository) List(ctx context.Context, p models.Predicate) ([]models.Lead, error) {
	where, args, err := equalityClause(p, leadFilterColumns)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	query := fmt.Sprintf("SELECT %s FROM leads%s ORDER BY id ASC", leadColumns, where)
	var leads []models.Lead
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

// FindByID fetches a lead by id.
func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*models.Lead, error) {
	query := fmt.Sprintf("SELECT %s FROM leads WHERE id = $1", leadColumns)
	var lead models.Lead
	if err := r.db.GetContext(ctx, &lead, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return &lead, nil
}

// Create inserts a lead and sets its id.
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	const query = `INSERT INTO leads (company, contact, email, phone, value, stage, probability, source, notes, created_at, updated_at)
        VALUES (:company, :contact, :email, :phone, :value, :stage, :probability, :source, :notes, :created_at, :updated_at) RETURNING id`
	id, err := insertReturningID(ctx, r.db, query, lead)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	lead.ID = id
	return nil
}

// Update replaces the mutable fields of a lead.
func (r *LeadRepository) Update(ctx context.Context, lead *models.Lead) error {
	lead.UpdatedAt = time.Now().UTC()
	const query = `UPDATE leads SET company = :company, contact = :contact, email = :email, phone = :phone, value = :value,
        stage = :stage, probability = :probability, source = :source, notes = :notes, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, lead)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a lead.
func (r *LeadRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return expectAffected(res)
}
