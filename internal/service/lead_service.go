package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
	"github.com/noah-isme/aiws-admin-api/internal/models"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

type leadRepository interface {
	List(ctx context.Context, p models.Predicate) ([]models.Lead, error)
	FindByID(ctx context.Context, id int64) (*models.Lead, error)
	Create(ctx context.Context, lead *models.Lead) error
	Update(ctx context.Context, lead *models.Lead) error
	Delete(ctx context.Context, id int64) error
}

// LeadRequest is the create and full-replace update payload.
type LeadRequest struct {
	Company     string         `json:"company" validate:"required,max=255"`
	Contact     string         `json:"contact" validate:"max=255"`
	Email       string         `json:"email" validate:"omitempty,email"`
	Phone       string         `json:"phone" validate:"max=50"`
	Value       derived.Number `json:"value" validate:"min=0"`
	Stage       string         `json:"stage" validate:"omitempty,oneof=discovery qualification proposal negotiation closed-won closed-lost"`
	Probability derived.Number `json:"probability" validate:"min=0,max=100"`
	Source      string         `json:"source" validate:"max=100"`
	Notes       string         `json:"notes"`
}

// LeadService handles sales pipeline use-cases.
type LeadService struct {
	repo      leadRepository
	validator *validator.Validate
	logger    *zap.Logger
	hooks     writeHooks
}

// NewLeadService constructs the lead service.
func NewLeadService(repo leadRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LeadService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{repo: repo, validator: validate, logger: logger, hooks: newWriteHooks(cache, metrics, logger)}
}

// List returns leads ordered by id with their weighted values filled in.
func (s *LeadService) List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	leads, err := s.repo.List(ctx, firstPredicate(
		models.Eq("stage", filter.Stage),
		models.Eq("source", filter.Source),
	))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leads")
	}
	leads = derived.FilterRecords(leads, func(l models.Lead) bool {
		return derived.EqualsOrAll(filter.Stage, string(l.Stage)) &&
			derived.EqualsOrAll(filter.Source, l.Source) &&
			derived.MatchesSearch(filter.Search, l.Company, l.Contact, l.Phone, l.Email)
	})
	for i := range leads {
		withWeightedValue(&leads[i])
	}
	return leads, nil
}

// Get returns a single lead.
func (s *LeadService) Get(ctx context.Context, id int64) (*models.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "lead not found", "failed to load lead")
	}
	withWeightedValue(lead)
	return lead, nil
}

// Create stores a new lead. Stage defaults to discovery.
func (s *LeadService) Create(ctx context.Context, req LeadRequest) (*models.Lead, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid lead payload")
	}
	lead := &models.Lead{}
	applyLeadRequest(lead, req)
	if err := s.repo.Create(ctx, lead); err != nil {
		s.hooks.failed(EntityLeads, "create", err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lead")
	}
	s.hooks.done(ctx, EntityLeads, "create", lead.ID)
	withWeightedValue(lead)
	return lead, nil
}

// Update replaces a lead's fields.
func (s *LeadService) Update(ctx context.Context, id int64, req LeadRequest) (*models.Lead, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid lead payload")
	}
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "lead not found", "failed to load lead")
	}
	applyLeadRequest(lead, req)
	if err := s.repo.Update(ctx, lead); err != nil {
		s.hooks.failed(EntityLeads, "update", err)
		return nil, lookupError(err, "lead not found", "failed to update lead")
	}
	s.hooks.done(ctx, EntityLeads, "update", lead.ID)
	withWeightedValue(lead)
	return lead, nil
}

// Delete removes a lead.
func (s *LeadService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.hooks.failed(EntityLeads, "delete", err)
		return lookupError(err, "lead not found", "failed to delete lead")
	}
	s.hooks.done(ctx, EntityLeads, "delete", id)
	return nil
}

func withWeightedValue(l *models.Lead) {
	l.WeightedValue = derived.ComputeLeadWeightedValue(l.Value, l.Probability)
}

func applyLeadRequest(l *models.Lead, req LeadRequest) {
	l.Company = req.Company
	l.Contact = req.Contact
	l.Email = req.Email
	l.Phone = req.Phone
	l.Value = req.Value.Int64()
	l.Stage = derived.Stage(req.Stage)
	if l.Stage == "" {
		l.Stage = derived.StageDiscovery
	}
	l.Probability = req.Probability.Int64()
	l.Source = req.Source
	l.Notes = req.Notes
}
