package derived

import "math"

// CourseAmount is the slice of a course the dashboard rollups need.
type CourseAmount struct {
	Category string
	Status   string
	Progress int64
	Revenue  int64
}

// AverageProgress is the rounded mean progress of active courses, 0 when none are active.
func AverageProgress(courses []CourseAmount) int64 {
	active := FilterRecords(courses, func(c CourseAmount) bool { return c.Status == "active" })
	if len(active) == 0 {
		return 0
	}
	var sum int64
	for _, c := range active {
		sum += c.Progress
	}
	return int64(math.Floor(float64(sum)/float64(len(active)) + 0.5))
}

// RevenueByCategory sums course revenue per category, in millions, first-seen order.
func RevenueByCategory(courses []CourseAmount) []NameAmount {
	sums := GroupSumBy(courses,
		func(c CourseAmount) string { return c.Category },
		func(c CourseAmount) int64 { return c.Revenue },
	)
	for i := range sums {
		sums[i].Value /= 1_000_000
	}
	return sums
}
