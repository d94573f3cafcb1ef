package handler

import (
	"errors"
	"net/http"
	"strconv"

	domainerr "github.com/datatide/relstore/internal/domain/error"
	coreport "github.com/datatide/relstore/internal/domain/port/core"
	"github.com/datatide/relstore/internal/domain/usecase/customer"
	"github.com/datatide/relstore/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// CustomerHandler exposes the customer workflows over HTTP
type CustomerHandler struct {
	service *customer.Service
	logger  coreport.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(service *customer.Service, logger coreport.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger,
	}
}

// Register handles POST /customers
func (h *CustomerHandler) Register(c *gin.Context) {
	var req dto.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeValidationFailed,
			Message: "invalid request body",
		})
		return
	}

	created, err := h.service.Register(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromCustomer(created))
}

// Get handles GET /customers/:customerId
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCustomer(found))
}

// List handles GET /customers?withOrders=true
func (h *CustomerHandler) List(c *gin.Context) {
	withOrders := c.Query("withOrders") == "true"

	customers, err := h.service.ListActive(c.Request.Context(), withOrders)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCustomers(customers))
}

// UpdateEmail handles PUT /customers/:customerId/email
func (h *CustomerHandler) UpdateEmail(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeValidationFailed,
			Message: "invalid request body",
		})
		return
	}

	updated, err := h.service.UpdateEmail(c.Request.Context(), id, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCustomer(updated))
}

// Remove handles DELETE /customers/:customerId
func (h *CustomerHandler) Remove(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseID reads the customerId path parameter
func (h *CustomerHandler) parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("customerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.CodeValidationFailed,
			Message: "customer id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

// respondError maps a domain error onto an HTTP status and error body
func (h *CustomerHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainerr.ErrNotFound):
		status = http.StatusNotFound
	case domainerr.IsValidationError(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domainerr.ErrTransactionAlreadyOpen),
		errors.Is(err, domainerr.ErrNoActiveTransaction):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", map[string]any{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	})
}
