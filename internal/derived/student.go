package derived

// PaymentStatus classifies how much of a student's fee has been paid.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial"
	PaymentUnpaid  PaymentStatus = "unpaid"
)

// StudentFees holds the fields derived from tuition, discount and paid amount.
type StudentFees struct {
	FinalFee        int64         `json:"final_fee"`
	RemainingAmount int64         `json:"remaining_amount"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
}

// ComputeStudentDerived recomputes final fee, balance and payment status.
//
// final_fee is not clamped: a discount above tuition yields a negative fee and
// balance, which classifies as paid.
// TODO: confirm with product whether final_fee should floor at zero.
func ComputeStudentDerived(tuition, discount, paid int64) StudentFees {
	finalFee := tuition - discount
	remaining := finalFee - paid

	status := PaymentUnpaid
	switch {
	case remaining <= 0:
		status = PaymentPaid
	case paid > 0:
		status = PaymentPartial
	}

	return StudentFees{FinalFee: finalFee, RemainingAmount: remaining, PaymentStatus: status}
}

// StudentAmounts is the slice of a student record the totals need.
type StudentAmounts struct {
	TuitionFee      int64
	FinalFee        int64
	PaidAmount      int64
	RemainingAmount int64
}

// StudentTotals sums money columns across students.
type StudentTotals struct {
	TotalTuition   int64 `json:"total_tuition"`
	TotalPaid      int64 `json:"total_paid"`
	TotalRemaining int64 `json:"total_remaining"`
}

// AggregateStudentTotals sums fees, payments and balances. A zero final fee
// falls back to the gross tuition.
func AggregateStudentTotals(students []StudentAmounts) StudentTotals {
	var totals StudentTotals
	for _, s := range students {
		fee := s.FinalFee
		if fee == 0 {
			fee = s.TuitionFee
		}
		totals.TotalTuition += fee
		totals.TotalPaid += s.PaidAmount
		totals.TotalRemaining += s.RemainingAmount
	}
	return totals
}

// StudentSummary is the per-student input of StudentStatistics.
type StudentSummary struct {
	StudentAmounts
	StudentStatus string
	PaymentStatus PaymentStatus
	Source        string
}

// StudentStats are the headline numbers of the students view.
type StudentStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Dropped   int `json:"dropped"`
	StudentTotals
	PaidFull int `json:"paid_full"`
	Partial  int `json:"partial"`
	Unpaid   int `json:"unpaid"`
}

// StudentStatistics counts students by state and sums their money columns.
func StudentStatistics(students []StudentSummary) StudentStats {
	amounts := make([]StudentAmounts, 0, len(students))
	stats := StudentStats{Total: len(students)}
	for _, s := range students {
		amounts = append(amounts, s.StudentAmounts)
		switch s.StudentStatus {
		case "active":
			stats.Active++
		case "completed":
			stats.Completed++
		case "dropped":
			stats.Dropped++
		}
		switch s.PaymentStatus {
		case PaymentPaid:
			stats.PaidFull++
		case PaymentPartial:
			stats.Partial++
		case PaymentUnpaid:
			stats.Unpaid++
		}
	}
	stats.StudentTotals = AggregateStudentTotals(amounts)
	return stats
}

// PaymentDistribution always returns paid, partial and unpaid in that order.
func PaymentDistribution(stats StudentStats) []NameValue {
	return []NameValue{
		{Name: PaymentStatusLabel(PaymentPaid), Key: string(PaymentPaid), Value: stats.PaidFull},
		{Name: PaymentStatusLabel(PaymentPartial), Key: string(PaymentPartial), Value: stats.Partial},
		{Name: PaymentStatusLabel(PaymentUnpaid), Key: string(PaymentUnpaid), Value: stats.Unpaid},
	}
}

// SourceDistribution tallies students per acquisition source in first-seen
// order. A blank source counts as "Khác".
func SourceDistribution(students []StudentSummary) []NameValue {
	counts := GroupCountBy(students, func(s StudentSummary) string {
		if s.Source == "" {
			return OtherLabel
		}
		return s.Source
	})
	for i := range counts {
		counts[i].Name = SourceLabel(counts[i].Key)
	}
	return counts
}
