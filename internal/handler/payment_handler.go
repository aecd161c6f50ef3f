package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"faktura/internal/port"
	"faktura/internal/service"
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest is the body for recording a payment.
type RecordPaymentRequest struct {
	InvoiceID int64           `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Currency  string          `json:"currency"`
	Date      string          `json:"date"`
	Method    string          `json:"method"`
	Notes     string          `json:"notes"`
}

// Record handles POST /api/v1/payments
// @Summary Record a payment
// @Description Record a payment against an invoice; the payment sum never exceeds the invoice amount
// @Tags payments
// @Accept json
// @Produce json
// @Param request body RecordPaymentRequest true "Payment details"
// @Success 201 {object} APIResponse{data=domain.Payment} "Payment recorded"
// @Failure 400 {object} APIResponse "Validation error or overpayment"
// @Failure 404 {object} APIResponse "Invoice not found"
// @Router /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	input := service.RecordPaymentInput{
		InvoiceID: req.InvoiceID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Method:    req.Method,
		Notes:     req.Notes,
	}
	if req.Date != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		input.Date = &t
	}

	payment, err := h.paymentService.Record(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, payment)
}

// List handles GET /api/v1/payments
// @Summary List payments
// @Tags payments
// @Produce json
// @Param invoice_id query int false "Filter by invoice"
// @Param client_id query int false "Filter by client"
// @Success 200 {object} APIResponse{data=[]domain.Payment} "Payments, newest first"
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var filter port.PaymentFilter
	if raw := c.Query("invoice_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice_id")
			return
		}
		filter.InvoiceID = id
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid client_id")
			return
		}
		filter.ClientID = id
	}

	payments, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payments)
}

// GetByID handles GET /api/v1/payments/:id
// @Summary Get payment by ID
// @Tags payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} APIResponse{data=domain.Payment} "Payment details"
// @Failure 404 {object} APIResponse "Payment not found"
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "invalid payment ID")
	if !ok {
		return
	}

	payment, err := h.paymentService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payment)
}

// Delete handles DELETE /api/v1/payments/:id
// @Summary Delete a payment
// @Tags payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} APIResponse "Payment deleted"
// @Failure 404 {object} APIResponse "Payment not found"
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "invalid payment ID")
	if !ok {
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "payment deleted"})
}
