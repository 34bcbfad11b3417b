package derived

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStudentDerivedScenarios(t *testing.T) {
	tests := []struct {
		name     string
		tuition  int64
		discount int64
		paid     int64
		want     StudentFees
	}{
		{"discounted and fully paid", 3_500_000, 500_000, 3_000_000, StudentFees{3_000_000, 0, PaymentPaid}},
		{"partially paid", 2_800_000, 0, 1_500_000, StudentFees{2_800_000, 1_300_000, PaymentPartial}},
		{"nothing paid", 2_000_000, 0, 0, StudentFees{2_000_000, 2_000_000, PaymentUnpaid}},
		{"overpaid", 1_000_000, 0, 1_200_000, StudentFees{1_000_000, -200_000, PaymentPaid}},
		{"free course", 0, 0, 0, StudentFees{0, 0, PaymentPaid}},
		// Discount above tuition is not clamped and classifies as paid.
		// Kept as-is until product decides whether final_fee floors at zero.
		{"discount exceeds tuition", 1_000_000, 2_000_000, 0, StudentFees{-1_000_000, -1_000_000, PaymentPaid}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeStudentDerived(tc.tuition, tc.discount, tc.paid))
		})
	}
}

func TestComputeStudentDerivedProperties(t *testing.T) {
	values := []int64{0, 1, 250_000, 1_000_000, 2_800_000, 3_500_000}
	for _, tuition := range values {
		for _, discount := range values {
			for _, paid := range values {
				got := ComputeStudentDerived(tuition, discount, paid)
				assert.Equal(t, tuition-discount, got.FinalFee)
				assert.Equal(t, tuition-discount-paid, got.RemainingAmount)

				switch {
				case tuition-discount-paid <= 0:
					assert.Equal(t, PaymentPaid, got.PaymentStatus)
				case paid > 0:
					assert.Equal(t, PaymentPartial, got.PaymentStatus)
				default:
					assert.Equal(t, PaymentUnpaid, got.PaymentStatus)
				}

				assert.Equal(t, got, ComputeStudentDerived(tuition, discount, paid), "must be deterministic")
			}
		}
	}
}

func TestAggregateStudentTotals(t *testing.T) {
	assert.Equal(t, StudentTotals{}, AggregateStudentTotals(nil))
	assert.Equal(t, StudentTotals{}, AggregateStudentTotals([]StudentAmounts{}))

	got := AggregateStudentTotals([]StudentAmounts{
		{TuitionFee: 3_500_000, FinalFee: 3_000_000, PaidAmount: 3_000_000, RemainingAmount: 0},
		{TuitionFee: 2_800_000, FinalFee: 0, PaidAmount: 1_500_000, RemainingAmount: 1_300_000},
	})

	assert.Equal(t, int64(5_800_000), got.TotalTuition, "zero final fee falls back to tuition")
	assert.Equal(t, int64(4_500_000), got.TotalPaid)
	assert.Equal(t, int64(1_300_000), got.TotalRemaining)
}

func TestStudentStatisticsAndDistributions(t *testing.T) {
	students := []StudentSummary{
		{StudentAmounts: StudentAmounts{TuitionFee: 100, FinalFee: 100, PaidAmount: 100}, StudentStatus: "active", PaymentStatus: PaymentPaid, Source: "Facebook"},
		{StudentAmounts: StudentAmounts{TuitionFee: 200, FinalFee: 200, PaidAmount: 50, RemainingAmount: 150}, StudentStatus: "completed", PaymentStatus: PaymentPartial, Source: ""},
		{StudentAmounts: StudentAmounts{TuitionFee: 300, FinalFee: 300, RemainingAmount: 300}, StudentStatus: "dropped", PaymentStatus: PaymentUnpaid, Source: "Referral"},
		{StudentAmounts: StudentAmounts{TuitionFee: 400, FinalFee: 400, RemainingAmount: 400}, StudentStatus: "active", PaymentStatus: PaymentUnpaid, Source: "Facebook"},
	}

	stats := StudentStatistics(students)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 1, stats.PaidFull)
	assert.Equal(t, 1, stats.Partial)
	assert.Equal(t, 2, stats.Unpaid)
	assert.Equal(t, int64(1000), stats.TotalTuition)
	assert.Equal(t, int64(150), stats.TotalPaid)
	assert.Equal(t, int64(850), stats.TotalRemaining)

	assert.Equal(t, []NameValue{
		{Name: "Đã đóng đủ", Key: "paid", Value: 1},
		{Name: "Đóng 1 phần", Key: "partial", Value: 1},
		{Name: "Chưa đóng", Key: "unpaid", Value: 2},
	}, PaymentDistribution(stats))

	assert.Equal(t, []NameValue{
		{Name: "Facebook", Key: "Facebook", Value: 2},
		{Name: "Khác", Key: "Khác", Value: 1},
		{Name: "Giới thiệu", Key: "Referral", Value: 1},
	}, SourceDistribution(students))
}

func TestSourceDistributionKeepsBlankAndOtherApart(t *testing.T) {
	students := []StudentSummary{
		{Source: ""},
		{Source: "Other"},
		{Source: ""},
	}

	dist := SourceDistribution(students)
	assert.Equal(t, []NameValue{
		{Name: OtherLabel, Key: OtherLabel, Value: 2},
		{Name: OtherLabel, Key: "Other", Value: 1},
	}, dist)
}

func TestPaymentDistributionEmpty(t *testing.T) {
	dist := PaymentDistribution(StudentStatistics(nil))
	assert.Len(t, dist, 3)
	for _, d := range dist {
		assert.Zero(t, d.Value)
	}
}
