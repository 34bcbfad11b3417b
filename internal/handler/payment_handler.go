package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aiws-admin-api/internal/models"
	"github.com/noah-isme/aiws-admin-api/internal/service"
	"github.com/noah-isme/aiws-admin-api/pkg/response"
)

type paymentService interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.PaymentRecord, error)
	Record(ctx context.Context, studentID int64, req service.PaymentRequest) (*service.PaymentResult, error)
	Delete(ctx context.Context, paymentID int64) (*models.Student, error)
}

// PaymentHandler exposes tuition payment endpoints.
type PaymentHandler struct {
	payments paymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List godoc
// @Summary List payments of a student
// @Tags Payments
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	studentID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	payments, err := h.payments.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, payments, response.Total(len(payments)))
}

// Record godoc
// @Summary Record a payment
// @Description Adds the amount to the student's paid total and recomputes payment status atomically
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.PaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	studentID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	result, err := h.payments.Record(c.Request.Context(), studentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Delete godoc
// @Summary Delete a payment
// @Description Reverts the amount from the student's paid total and returns the updated student
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	paymentID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.payments.Delete(c.Request.Context(), paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}
