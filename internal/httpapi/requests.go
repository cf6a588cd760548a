package httpapi

import (
	"github.com/shopspring/decimal"

	"storefront-api/internal/order"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type customerCreateRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Address   string `json:"address" validate:"omitempty,max=255"`
	City      string `json:"city" validate:"omitempty,max=100"`
	Country   string `json:"country" validate:"omitempty,max=100"`
}

type customerUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	Country   *string `json:"country" validate:"omitempty,max=100"`
	IsActive  *bool   `json:"is_active"`
}

type productCreateRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

type productUpdateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	IsActive    *bool            `json:"is_active"`
}

type increaseStockRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

type orderItemRequest struct {
	ProductID    int64            `json:"product_id" validate:"required,gt=0"`
	Quantity     int              `json:"quantity" validate:"required,gt=0"`
	PriceAtOrder *decimal.Decimal `json:"price_at_order"`
}

func (r orderItemRequest) toInput() order.ItemInput {
	return order.ItemInput{
		ProductID:    r.ProductID,
		Quantity:     r.Quantity,
		PriceAtOrder: r.PriceAtOrder,
	}
}

type orderCreateRequest struct {
	CustomerID int64              `json:"customer_id" validate:"required,gt=0"`
	Items      []orderItemRequest `json:"items" validate:"omitempty,dive"`
}

type orderUpdateRequest struct {
	CustomerID *int64              `json:"customer_id" validate:"omitempty,gt=0"`
	Status     *order.Status       `json:"status"`
	Items      *[]orderItemRequest `json:"items" validate:"omitempty,dive"`
}

type orderItemUpdateRequest struct {
	Quantity     *int             `json:"quantity" validate:"omitempty,gt=0"`
	PriceAtOrder *decimal.Decimal `json:"price_at_order"`
}

func toItemInputs(reqs []orderItemRequest) []order.ItemInput {
	items := make([]order.ItemInput, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, r.toInput())
	}
	return items
}
