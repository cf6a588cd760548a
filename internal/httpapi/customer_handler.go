package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"storefront-api/internal/customer"
	"storefront-api/internal/validation"
)

type CustomerHandler struct {
	customers customer.Service
	validate  *validatorv10.Validate
}

func NewCustomerHandler(customers customer.Service, v *validatorv10.Validate) *CustomerHandler {
	return &CustomerHandler{customers: customers, validate: v}
}

func (h *CustomerHandler) List(c *gin.Context) {
	out, err := h.customers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if out == nil {
		out = []customer.Customer{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerCreateRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	cust := &customer.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	}
	if err := h.customers.Create(c.Request.Context(), cust); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

// Update serves both PUT and PATCH. Absent fields are left untouched either
// way, matching the partial-update semantics of the repository layer.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req customerUpdateRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	out, err := h.customers.Update(c.Request.Context(), id, customer.UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		IsActive:  req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
