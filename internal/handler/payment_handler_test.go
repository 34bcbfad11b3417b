package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aiws-admin-api/internal/models"
	"github.com/noah-isme/aiws-admin-api/internal/service"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

type fakePaymentService struct {
	lastStudent int64
	lastPayment int64
	lastReq     service.PaymentRequest
	err         error
}

func (f *fakePaymentService) ListByStudent(_ context.Context, studentID int64) ([]models.PaymentRecord, error) {
	f.lastStudent = studentID
	if f.err != nil {
		return nil, f.err
	}
	return []models.PaymentRecord{{ID: 1, StudentID: studentID, Amount: 1000}}, nil
}

func (f *fakePaymentService) Record(_ context.Context, studentID int64, req service.PaymentRequest) (*service.PaymentResult, error) {
	f.lastStudent = studentID
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &service.PaymentResult{
		Payment: models.PaymentRecord{ID: 5, StudentID: studentID, Amount: req.Amount.Int64()},
		Student: &models.Student{ID: studentID, PaidAmount: req.Amount.Int64()},
	}, nil
}

func (f *fakePaymentService) Delete(_ context.Context, paymentID int64) (*models.Student, error) {
	f.lastPayment = paymentID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Student{ID: 2}, nil
}

func paymentRouter(svc *fakePaymentService) *gin.Engine {
	h := NewPaymentHandler(svc)
	r := gin.New()
	r.GET("/students/:id/payments", h.List)
	r.POST("/students/:id/payments", h.Record)
	r.DELETE("/payments/:id", h.Delete)
	return r
}

func TestPaymentHandlerList(t *testing.T) {
	svc := &fakePaymentService{}
	rec := perform(paymentRouter(svc), http.MethodGet, "/students/8/payments", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(8), svc.lastStudent)
	assert.EqualValues(t, 1, decodeEnvelope(t, rec).Meta["total"])
}

func TestPaymentHandlerRecord(t *testing.T) {
	svc := &fakePaymentService{}
	rec := perform(paymentRouter(svc), http.MethodPost, "/students/8/payments", `{"amount":"2000000","payment_date":"2024-03-01","payment_method":"transfer"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 2000000, svc.lastReq.Amount)
	assert.Equal(t, "2024-03-01", svc.lastReq.PaymentDate.String())

	var result service.PaymentResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
	assert.Equal(t, int64(5), result.Payment.ID)
	assert.Equal(t, int64(2000000), result.Student.PaidAmount)
}

func TestPaymentHandlerRecordMissingStudent(t *testing.T) {
	svc := &fakePaymentService{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")}
	rec := perform(paymentRouter(svc), http.MethodPost, "/students/8/payments", `{"amount":10}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentHandlerDelete(t *testing.T) {
	svc := &fakePaymentService{}
	rec := perform(paymentRouter(svc), http.MethodDelete, "/payments/11", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(11), svc.lastPayment)
}

type fakeFinancialService struct {
	lastScope string
	lastReq   service.FinancialPeriodRequest
	listErr   error
}

func (f *fakeFinancialService) List(_ context.Context, scope string) ([]models.FinancialPeriod, error) {
	f.lastScope = scope
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []models.FinancialPeriod{{ID: 1, Month: "T1"}}, nil
}

func (f *fakeFinancialService) Get(_ context.Context, id int64) (*models.FinancialPeriod, error) {
	return &models.FinancialPeriod{ID: id}, nil
}

func (f *fakeFinancialService) Create(_ context.Context, req service.FinancialPeriodRequest) (*models.FinancialPeriod, error) {
	f.lastReq = req
	return &models.FinancialPeriod{ID: 2, Month: req.Month, Revenue: req.Revenue}, nil
}

func (f *fakeFinancialService) Update(_ context.Context, id int64, req service.FinancialPeriodRequest) (*models.FinancialPeriod, error) {
	return &models.FinancialPeriod{ID: id, Month: req.Month}, nil
}

func (f *fakeFinancialService) Delete(context.Context, int64) error { return nil }

func TestFinancialHandlerListScope(t *testing.T) {
	svc := &fakeFinancialService{}
	h := NewFinancialHandler(svc)
	r := gin.New()
	r.GET("/financial-periods", h.List)

	rec := perform(r, http.MethodGet, "/financial-periods?scope=forecast", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "forecast", svc.lastScope)

	svc.listErr = appErrors.Clone(appErrors.ErrValidation, "invalid scope")
	rec = perform(r, http.MethodGet, "/financial-periods?scope=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinancialHandlerCreateDecodesDecimals(t *testing.T) {
	svc := &fakeFinancialService{}
	h := NewFinancialHandler(svc)
	r := gin.New()
	r.POST("/financial-periods", h.Create)

	rec := perform(r, http.MethodPost, "/financial-periods", `{"month":"T2","revenue":"125000000.50","expenses":80000000}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "T2", svc.lastReq.Month)
	assert.Equal(t, "125000000.5", svc.lastReq.Revenue.String())
	assert.Equal(t, "80000000", svc.lastReq.Expenses.String())
	assert.Nil(t, svc.lastReq.Profit)
}
