package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/aiws-admin-api/internal/derived"
	"github.com/noah-isme/aiws-admin-api/internal/models"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
	"github.com/noah-isme/aiws-admin-api/pkg/export"
)

// Export formats.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
)

const singleSheetName = "Data"

var exportContentTypes = map[string]string{
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatPDF:  "application/pdf",
}

// file name labels per exportable entity
var exportLabels = map[string]string{
	EntityEmployees: "NhanSu",
	EntityCourses:   "KhoaHoc",
	EntityLeads:     "Leads",
	EntityStudents:  "HocVien",
}

const exportAllLabel = "BaoCaoTongHop"

type xlsxRenderer interface {
	Render(sheets ...export.Dataset) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	FilePrefix string
}

// ExportFile is a rendered download.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Employees employeeLister
	Courses   courseLister
	Leads     leadLister
	Students  studentLister
	XLSX      xlsxRenderer
	CSV       csvRenderer
	PDF       pdfRenderer
	Metrics   *MetricsService
	Logger    *zap.Logger
	Config    ExportConfig
}

// ExportService renders entity tables into spreadsheet downloads.
type ExportService struct {
	employees employeeLister
	courses   courseLister
	leads     leadLister
	students  studentLister
	xlsx      xlsxRenderer
	csv       csvRenderer
	pdf       pdfRenderer
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if strings.TrimSpace(cfg.FilePrefix) == "" {
		cfg.FilePrefix = "AIWS"
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ExportService{
		employees: params.Employees,
		courses:   params.Courses,
		leads:     params.Leads,
		students:  params.Students,
		xlsx:      params.XLSX,
		csv:       params.CSV,
		pdf:       params.PDF,
		metrics:   params.Metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
	if svc.xlsx == nil {
		svc.xlsx = export.NewXLSXExporter()
	}
	if svc.csv == nil {
		svc.csv = export.NewCSVExporter()
	}
	if svc.pdf == nil {
		svc.pdf = export.NewPDFExporter()
	}
	return svc
}

// Export renders one entity table. An empty format means xlsx.
func (s *ExportService) Export(ctx context.Context, entity, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatXLSX
	}
	if _, ok := exportContentTypes[format]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be xlsx, csv or pdf")
	}
	label, ok := exportLabels[entity]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export entity %q", entity))
	}

	var (
		data  export.Dataset
		title string
		err   error
	)
	switch entity {
	case EntityEmployees:
		data, err = s.employeeDataset(ctx, false)
		title = "Nhân sự"
	case EntityCourses:
		data, err = s.courseDataset(ctx, false)
		title = "Khóa học"
	case EntityLeads:
		data, err = s.leadDataset(ctx, false)
		title = "Leads"
	case EntityStudents:
		data, err = s.studentDataset(ctx, false)
		title = "Học viên"
	}
	if err != nil {
		return nil, err
	}
	data.Name = singleSheetName

	var payload []byte
	switch format {
	case ExportFormatXLSX:
		payload, err = s.xlsx.Render(data)
	case ExportFormatCSV:
		payload, err = s.csv.Render(data)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(data, title)
	}
	if err != nil {
		s.logger.Error("export render failed", zap.String("entity", entity), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.metrics.RecordExport(entity, format)
	return &ExportFile{
		FileName:    s.fileName(label, format),
		ContentType: exportContentTypes[format],
		Content:     payload,
	}, nil
}

// ExportAll renders the combined workbook with one sheet per entity.
func (s *ExportService) ExportAll(ctx context.Context) (*ExportFile, error) {
	employees, err := s.employeeDataset(ctx, true)
	if err != nil {
		return nil, err
	}
	courses, err := s.courseDataset(ctx, true)
	if err != nil {
		return nil, err
	}
	students, err := s.studentDataset(ctx, true)
	if err != nil {
		return nil, err
	}
	leads, err := s.leadDataset(ctx, true)
	if err != nil {
		return nil, err
	}
	employees.Name = "Nhân sự"
	courses.Name = "Khóa học"
	students.Name = "Học viên"
	leads.Name = "Leads"

	payload, err := s.xlsx.Render(employees, courses, students, leads)
	if err != nil {
		s.logger.Error("export render failed", zap.String("entity", "all"), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.metrics.RecordExport("all", ExportFormatXLSX)
	return &ExportFile{
		FileName:    s.fileName(exportAllLabel, ExportFormatXLSX),
		ContentType: exportContentTypes[ExportFormatXLSX],
		Content:     payload,
	}, nil
}

func (s *ExportService) fileName(label, format string) string {
	return fmt.Sprintf("%s_%s_%s.%s", s.cfg.FilePrefix, label, s.now().UTC().Format(models.DateLayout), format)
}

// The combined workbook uses shorter column sets than single exports.

func (s *ExportService) employeeDataset(ctx context.Context, summary bool) (export.Dataset, error) {
	employees, err := s.employees.List(ctx, models.Predicate{})
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employees")
	}
	if summary {
		data := export.Dataset{Headers: []string{"Họ tên", "Chức vụ", "Phòng ban", "Trạng thái", "Workload (%)", "Performance (%)", "Lương (VNĐ)"}}
		for _, e := range employees {
			data.AddRow(e.Name, e.Role, e.Department, derived.EmployeeStatusLabel(e.Status), e.Workload, e.Performance, e.Salary)
		}
		return data, nil
	}
	data := export.Dataset{Headers: []string{"Họ tên", "Chức vụ", "Phòng ban", "Trạng thái", "Workload (%)", "Số khóa dạy", "Performance (%)", "Lương (VNĐ)"}}
	for _, e := range employees {
		data.AddRow(e.Name, e.Role, e.Department, derived.EmployeeStatusLabel(e.Status), e.Workload, e.Courses, e.Performance, e.Salary)
	}
	return data, nil
}

func (s *ExportService) courseDataset(ctx context.Context, summary bool) (export.Dataset, error) {
	courses, err := s.courses.List(ctx, models.Predicate{})
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	if summary {
		data := export.Dataset{Headers: []string{"Tên khóa học", "Giảng viên", "Số học viên", "Tiến độ (%)", "Doanh thu (VNĐ)", "Danh mục"}}
		for _, c := range courses {
			data.AddRow(c.Name, c.Instructor, c.Students, c.Progress, c.Revenue, c.Category)
		}
		return data, nil
	}
	data := export.Dataset{Headers: []string{"Tên khóa học", "Giảng viên", "Số học viên", "Tiến độ (%)", "Trạng thái", "Doanh thu (VNĐ)", "Ngày bắt đầu", "Ngày kết thúc", "Danh mục"}}
	for _, c := range courses {
		data.AddRow(c.Name, c.Instructor, c.Students, c.Progress, derived.CourseStatusLabel(c.Status), c.Revenue, c.StartDate, c.EndDate, c.Category)
	}
	return data, nil
}

func (s *ExportService) leadDataset(ctx context.Context, summary bool) (export.Dataset, error) {
	leads, err := s.leads.List(ctx, models.Predicate{})
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leads")
	}
	if summary {
		data := export.Dataset{Headers: []string{"Công ty", "Người liên hệ", "Email", "Giá trị (VNĐ)", "Giai đoạn", "Xác suất (%)"}}
		for _, l := range leads {
			data.AddRow(l.Company, l.Contact, l.Email, l.Value, derived.StageLabel(l.Stage), l.Probability)
		}
		return data, nil
	}
	data := export.Dataset{Headers: []string{"Công ty", "Người liên hệ", "Email", "Điện thoại", "Giá trị (VNĐ)", "Giai đoạn", "Xác suất (%)", "Giá trị kỳ vọng (VNĐ)", "Nguồn", "Ghi chú"}}
	for _, l := range leads {
		data.AddRow(l.Company, l.Contact, l.Email, l.Phone, l.Value, derived.StageLabel(l.Stage), l.Probability,
			derived.ComputeLeadWeightedValue(l.Value, l.Probability), l.Source, l.Notes)
	}
	return data, nil
}

func (s *ExportService) studentDataset(ctx context.Context, summary bool) (export.Dataset, error) {
	students, err := s.students.List(ctx, models.Predicate{})
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	if summary {
		data := export.Dataset{Headers: []string{"Họ tên", "SĐT", "Email", "Khóa học", "Học phí", "Đã đóng", "Còn lại", "Trạng thái TT", "Nguồn"}}
		for _, st := range students {
			data.AddRow(st.FullName, st.Phone, st.Email, st.CourseName, st.TuitionFee, st.PaidAmount, st.RemainingAmount, string(st.PaymentStatus), st.Source)
		}
		return data, nil
	}
	data := export.Dataset{Headers: []string{
		"Họ tên", "Số điện thoại", "Email", "Khóa học", "Ngày đăng ký", "Học phí gốc", "Giảm giá", "Phải đóng",
		"Đã đóng", "Còn lại", "Trạng thái TT", "Trạng thái học", "Nguồn", "Người giới thiệu", "Ghi chú",
	}}
	for _, st := range students {
		data.AddRow(st.FullName, st.Phone, st.Email, st.CourseName, st.EnrollmentDate, st.TuitionFee, st.DiscountAmount, st.FinalFee,
			st.PaidAmount, st.RemainingAmount, derived.PaymentStatusLabel(st.PaymentStatus), derived.StudentStatusLabel(st.StudentStatus),
			st.Source, st.ReferralBy, st.Notes)
	}
	return data, nil
}
