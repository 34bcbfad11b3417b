package models

import (
	"time"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
)

// Lead is a sales opportunity.
type Lead struct {
	ID          int64         `db:"id" json:"id"`
	Company     string        `db:"company" json:"company"`
	Contact     string        `db:"contact" json:"contact"`
	Email       string        `db:"email" json:"email"`
	Phone       string        `db:"phone" json:"phone"`
	Value       int64         `db:"value" json:"value"`
	Stage       derived.Stage `db:"stage" json:"stage"`
	Probability int64         `db:"probability" json:"probability"`
	Source      string        `db:"source" json:"source"`
	Notes       string        `db:"notes" json:"notes"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`

	// WeightedValue is computed on read and never stored.
	WeightedValue float64 `db:"-" json:"weighted_value"`
}

// Amount projects the lead for pipeline rollups.
func (l Lead) Amount() derived.LeadAmount {
	return derived.LeadAmount{Stage: l.Stage, Value: l.Value, Probability: l.Probability}
}

// LeadFilter captures listing criteria.
type LeadFilter struct {
	Stage  string
	Source string
	Search string
}
