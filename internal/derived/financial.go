package derived

import "github.com/shopspring/decimal"

// Period is the slice of a financial period the rollups need.
type Period struct {
	Month        string          `json:"month"`
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     decimal.Decimal `json:"expenses"`
	Profit       decimal.Decimal `json:"profit"`
	CoursesCount int64           `json:"courses,omitempty"`
	IsForecast   bool            `json:"-"`
}

// FinancialSplit separates booked months from forecasts, each in input order.
type FinancialSplit struct {
	Actual   []Period `json:"actual"`
	Forecast []Period `json:"forecast"`
}

// SplitFinancials partitions periods by their forecast flag.
func SplitFinancials(periods []Period) FinancialSplit {
	return FinancialSplit{
		Actual:   FilterRecords(periods, func(p Period) bool { return !p.IsForecast }),
		Forecast: FilterRecords(periods, func(p Period) bool { return p.IsForecast }),
	}
}

// SumRevenue adds up revenue across periods. Empty input is zero.
func SumRevenue(periods []Period) decimal.Decimal {
	total := decimal.Zero
	for _, p := range periods {
		total = total.Add(p.Revenue)
	}
	return total
}
