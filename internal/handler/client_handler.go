package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"faktura/internal/domain"
	"faktura/internal/service"
)

// ClientHandler handles client directory endpoints.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Create handles POST /api/v1/clients
// @Summary Create a client
// @Tags clients
// @Accept json
// @Produce json
// @Param request body service.CreateClientInput true "Client details"
// @Success 201 {object} APIResponse{data=domain.Client} "Client created"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 409 {object} APIResponse "Name already exists"
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var input service.CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, client)
}

// List handles GET /api/v1/clients
// @Summary List clients
// @Tags clients
// @Produce json
// @Success 200 {object} APIResponse{data=[]domain.Client} "Clients sorted by name"
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, clients)
}

// GetByID handles GET /api/v1/clients/:id
// @Summary Get client by ID
// @Tags clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} APIResponse{data=domain.Client} "Client details"
// @Failure 404 {object} APIResponse "Client not found"
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "invalid client ID")
	if !ok {
		return
	}

	client, err := h.clientService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, client)
}

// Update handles PUT /api/v1/clients/:id
// @Summary Update a client
// @Tags clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body service.CreateClientInput true "Fields to update"
// @Success 200 {object} APIResponse{data=domain.Client} "Client updated"
// @Failure 404 {object} APIResponse "Client not found"
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "invalid client ID")
	if !ok {
		return
	}

	var input service.CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	client := &domain.Client{
		ID:            id,
		Name:          input.Name,
		Address:       input.Address,
		CompanyID:     input.CompanyID,
		Email:         input.Email,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
	}
	if err := h.clientService.Update(c.Request.Context(), client); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, client)
}

// Delete handles DELETE /api/v1/clients/:id
// @Summary Delete a client
// @Description Delete a client without invoices
// @Tags clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} APIResponse "Client deleted"
// @Failure 404 {object} APIResponse "Client not found"
// @Failure 409 {object} APIResponse "Client has invoices"
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "invalid client ID")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "client deleted"})
}

// parseID parses the :id path parameter, writing a 400 response on failure.
func parseID(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", msg)
		return 0, false
	}
	return id, true
}
