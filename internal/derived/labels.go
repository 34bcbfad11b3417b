package derived

// OtherLabel is shown for a missing or "Other" source.
const OtherLabel = "Khác"

var stageLabels = map[Stage]string{
	StageDiscovery:     "Khám phá",
	StageQualification: "Đánh giá",
	StageProposal:      "Đề xuất",
	StageNegotiation:   "Đàm phán",
	StageClosedWon:     "Thành công",
	StageClosedLost:    "Thất bại",
}

var paymentStatusLabels = map[PaymentStatus]string{
	PaymentPaid:    "Đã đóng đủ",
	PaymentPartial: "Đóng 1 phần",
	PaymentUnpaid:  "Chưa đóng",
}

var studentStatusLabels = map[string]string{
	"active":      "Đang học",
	"completed":   "Hoàn thành",
	"dropped":     "Nghỉ học",
	"paused":      "Tạm dừng",
	"transferred": "Chuyển lớp",
}

var employeeStatusLabels = map[string]string{
	"active":   "Đang làm",
	"on-leave": "Nghỉ phép",
}

var courseStatusLabels = map[string]string{
	"upcoming":  "Sắp tới",
	"active":    "Đang diễn ra",
	"completed": "Hoàn thành",
}

var sourceLabels = map[string]string{
	"Referral": "Giới thiệu",
	"Event":    "Sự kiện",
	"Google":   "Google Ads",
	"Other":    OtherLabel,
}

// StageLabel returns the Vietnamese name of a pipeline stage.
func StageLabel(s Stage) string { return lookup(stageLabels, s, string(s)) }

// PaymentStatusLabel returns the Vietnamese name of a payment status.
func PaymentStatusLabel(s PaymentStatus) string { return lookup(paymentStatusLabels, s, string(s)) }

// StudentStatusLabel returns the Vietnamese name of a student status, or s when unknown.
func StudentStatusLabel(s string) string { return lookup(studentStatusLabels, s, s) }

// EmployeeStatusLabel returns the Vietnamese name of an employee status, or s when unknown.
func EmployeeStatusLabel(s string) string { return lookup(employeeStatusLabels, s, s) }

// CourseStatusLabel returns the Vietnamese name of a course status, or s when unknown.
func CourseStatusLabel(s string) string { return lookup(courseStatusLabels, s, s) }

// SourceLabel returns the display name of a lead or student source, or s when unknown.
func SourceLabel(s string) string { return lookup(sourceLabels, s, s) }

func lookup[K comparable](labels map[K]string, key K, fallback string) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return fallback
}
