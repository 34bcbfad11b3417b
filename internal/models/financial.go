package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
)

// FinancialPeriod is one month of booked or forecast figures.
type FinancialPeriod struct {
	ID           int64           `db:"id" json:"id"`
	Month        string          `db:"month" json:"month"`
	Revenue      decimal.Decimal `db:"revenue" json:"revenue"`
	Expenses     decimal.Decimal `db:"expenses" json:"expenses"`
	Profit       decimal.Decimal `db:"profit" json:"profit"`
	CoursesCount int64           `db:"courses_count" json:"courses_count"`
	IsForecast   bool            `db:"is_forecast" json:"is_forecast"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// Period projects the row for financial rollups.
func (f FinancialPeriod) Period() derived.Period {
	return derived.Period{
		Month:        f.Month,
		Revenue:      f.Revenue,
		Expenses:     f.Expenses,
		Profit:       f.Profit,
		CoursesCount: f.CoursesCount,
		IsForecast:   f.IsForecast,
	}
}
