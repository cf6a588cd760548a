package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"storefront-api/internal/order"
	"storefront-api/internal/validation"
)

type OrderHandler struct {
	orders   order.Service
	validate *validatorv10.Validate
}

func NewOrderHandler(orders order.Service, v *validatorv10.Validate) *OrderHandler {
	return &OrderHandler{orders: orders, validate: v}
}

func (h *OrderHandler) List(c *gin.Context) {
	out, err := h.orders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if out == nil {
		out = []order.Order{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req orderCreateRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	out, err := h.orders.Create(c.Request.Context(), req.CustomerID, toItemInputs(req.Items))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req orderUpdateRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	params := order.UpdateParams{
		CustomerID: req.CustomerID,
		Status:     req.Status,
	}
	if req.Items != nil {
		items := toItemInputs(*req.Items)
		params.Items = &items
	}

	out, err := h.orders.Update(c.Request.Context(), id, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) AddItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req orderItemRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	item, err := h.orders.AddItem(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *OrderHandler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}

	var req orderItemUpdateRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	item, err := h.orders.UpdateItem(c.Request.Context(), id, itemID, order.ItemUpdateParams{
		Quantity:     req.Quantity,
		PriceAtOrder: req.PriceAtOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *OrderHandler) DeleteItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}

	if err := h.orders.DeleteItem(c.Request.Context(), id, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
