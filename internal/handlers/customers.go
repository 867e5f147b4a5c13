package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clientdesk/clientdesk/internal/services"
	"github.com/clientdesk/clientdesk/pkg/response"
)

// CustomerHandler exposes the customer CRUD and stats endpoints.
type CustomerHandler struct {
	customers *services.CustomerService
}

func NewCustomerHandler(customers *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type createCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

type updateCustomerRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=120"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

// GET /api/customers
func (h *CustomerHandler) List(c *gin.Context) {
	customers, source, err := h.customers.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithSource(c, http.StatusOK, customers, string(source))
}

// GET /api/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, source, err := h.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithSource(c, http.StatusOK, customer, string(source))
}

// GET /api/customers/stats
func (h *CustomerHandler) Stats(c *gin.Context) {
	stats, source, err := h.customers.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithSource(c, http.StatusOK, stats, string(source))
}

// POST /api/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), services.CreateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, customer)
}

// PUT /api/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	var req updateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), c.Param("id"), services.UpdateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, customer)
}

// DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "customer deleted"})
}
