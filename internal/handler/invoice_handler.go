package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"faktura/internal/csvexport"
	"faktura/internal/domain"
	"faktura/internal/port"
	"faktura/internal/service"
)

// InvoiceHandler handles invoice endpoints.
type InvoiceHandler struct {
	invoiceService  service.InvoiceService
	clientService   service.ClientService
	dispatchService service.DispatchService
	renderer        port.DocumentRenderer
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(
	invoiceService service.InvoiceService,
	clientService service.ClientService,
	dispatchService service.DispatchService,
	renderer port.DocumentRenderer,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		clientService:   clientService,
		dispatchService: dispatchService,
		renderer:        renderer,
	}
}

// CreateInvoiceRequest is the body for creating an invoice.
type CreateInvoiceRequest struct {
	ClientID    int64           `json:"client_id" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
	IssueDate   string          `json:"issue_date"`
	DueDate     string          `json:"due_date"`
	WorkDates   string          `json:"work_dates"`
}

// UpdateInvoiceRequest is the body for a partial invoice update.
type UpdateInvoiceRequest struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency"`
	WorkDates   *string          `json:"work_dates"`
	Status      *string          `json:"status"`
}

// SendInvoiceRequest is the body for dispatching an invoice by email.
type SendInvoiceRequest struct {
	AdditionalRecipients []string `json:"additional_recipients"`
	Subject              string   `json:"subject"`
	Body                 string   `json:"body"`
}

// Create handles POST /api/v1/invoices
// @Summary Create an invoice
// @Description Create a draft invoice; the invoice number is assigned automatically
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} APIResponse{data=domain.Invoice} "Invoice created"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 404 {object} APIResponse "Client not found"
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	input := service.CreateInvoiceInput{
		ClientID:    req.ClientID,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		WorkDates:   req.WorkDates,
	}
	if req.IssueDate != "" {
		t, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "issue_date must be YYYY-MM-DD")
			return
		}
		input.IssueDate = &t
	}
	if req.DueDate != "" {
		t, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "due_date must be YYYY-MM-DD")
			return
		}
		input.DueDate = &t
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, invoice)
}

// List handles GET /api/v1/invoices
// @Summary List invoices
// @Description List ledger-annotated invoices, newest first
// @Tags invoices
// @Produce json
// @Param status query string false "Filter by status (draft, sent, paid)"
// @Param client_id query int false "Filter by client"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(50)
// @Success 200 {object} APIResponse{data=[]domain.InvoiceWithLedger} "Invoices"
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, ok := parseInvoiceFilter(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListWithLedger(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, invoices, PagMeta{Total: len(invoices), Offset: filter.Offset, Limit: filter.Limit})
}

// GetByID handles GET /api/v1/invoices/:id
// @Summary Get invoice by ID
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} APIResponse{data=domain.InvoiceWithLedger} "Invoice with ledger figures"
// @Failure 404 {object} APIResponse "Invoice not found"
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "invalid invoice ID")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetWithLedger(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, invoice)
}

// Update handles PUT /api/v1/invoices/:id
// @Summary Update an invoice
// @Description Apply a partial update; at least one field is required
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param request body UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} APIResponse{data=domain.Invoice} "Invoice updated"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 404 {object} APIResponse "Invoice not found"
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "invalid invoice ID")
	if !ok {
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	update := port.InvoiceUpdate{
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		WorkDates:   req.WorkDates,
	}
	if req.Status != nil {
		status := domain.InvoiceStatus(*req.Status)
		update.Status = &status
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), id, update)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, invoice)
}

// Delete handles DELETE /api/v1/invoices/:id
// @Summary Delete an invoice
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} APIResponse "Invoice deleted"
// @Failure 404 {object} APIResponse "Invoice not found"
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "invalid invoice ID")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "invoice deleted"})
}

// MarkPaid handles POST /api/v1/invoices/:id/mark-paid
// @Summary Mark an invoice paid
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} APIResponse "Invoice marked paid"
// @Failure 404 {object} APIResponse "Invoice not found"
// @Router /invoices/{id}/mark-paid [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, ok := parseID(c, "invalid invoice ID")
	if !ok {
		return
	}

	if err := h.invoiceService.MarkPaid(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "invoice marked paid"})
}

// Preview handles GET /api/v1/invoices/:id/preview
// @Summary Preview the invoice document
// @Description Render the invoice as PDF (or HTML when no PDF engine is available); ?download=true forces attachment
// @Tags invoices
// @Produce application/pdf
// @Param id path int true "Invoice ID"
// @Param download query bool false "Force download"
// @Success 200 {file} file "Rendered document"
// @Failure 404 {object} APIResponse "Invoice not found"
// @Router /invoices/{id}/preview [get]
func (h *InvoiceHandler) Preview(c *gin.Context) {
	id, ok := parseID(c, "invalid invoice ID")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.renderer.Render(c.Request.Context(), &invoice.Invoice, &invoice.Client)
	if err != nil {
		HandleError(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// Send handles POST /api/v1/invoices/:id/send
// @Summary Email an invoice
// @Description Render the invoice and email it to the client plus the fixed copy recipients
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param request body SendInvoiceRequest false "Send overrides"
// @Success 200 {object} APIResponse{data=service.DispatchResult} "Per-recipient results"
// @Failure 404 {object} APIResponse "Invoice not found"
// @Router /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := parseID(c, "invalid invoice ID")
	if !ok {
		return
	}

	var req SendInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}

	result, err := h.dispatchService.SendInvoice(c.Request.Context(), service.SendInvoiceInput{
		InvoiceID:            id,
		AdditionalRecipients: req.AdditionalRecipients,
		CustomSubject:        req.Subject,
		CustomBody:           req.Body,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// EmailLogs handles GET /api/v1/invoices/:id/emails
// @Summary List email delivery attempts for an invoice
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} APIResponse{data=[]domain.EmailLog} "Delivery log, newest first"
// @Failure 404 {object} APIResponse "Invoice not found"
// @Router /invoices/{id}/emails [get]
func (h *InvoiceHandler) EmailLogs(c *gin.Context) {
	id, ok := parseID(c, "invalid invoice ID")
	if !ok {
		return
	}

	logs, err := h.dispatchService.EmailLogs(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, logs)
}

// Export handles GET /api/v1/invoices/export
// @Summary Export the invoice ledger as CSV
// @Tags invoices
// @Produce text/csv
// @Param status query string false "Filter by status"
// @Param client_id query int false "Filter by client"
// @Success 200 {file} file "CSV export"
// @Router /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	filter, ok := parseInvoiceFilter(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListWithLedger(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	names := make(map[int64]string, len(clients))
	for _, cl := range clients {
		names[cl.ID] = cl.Name
	}

	filename := csvexport.BuildFilename("invoices")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteInvoices(invoices, names); err != nil {
		return
	}
	w.Flush()
}

func parseInvoiceFilter(c *gin.Context) (port.InvoiceFilter, bool) {
	var filter port.InvoiceFilter

	if status := c.Query("status"); status != "" {
		s := domain.InvoiceStatus(status)
		if !domain.ValidInvoiceStatuses[s] {
			RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "invalid invoice status; allowed: draft, sent, paid")
			return filter, false
		}
		filter.Status = s
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid client_id")
			return filter, false
		}
		filter.ClientID = id
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	filter.Offset = offset
	filter.Limit = limit
	return filter, true
}
