package order

import (
	"context"

	"go.uber.org/zap"

	"storefront-api/internal/logger"
)

type Service interface {
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	Create(ctx context.Context, customerID int64, items []ItemInput) (*Order, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Order, error)
	Delete(ctx context.Context, id int64) error

	AddItem(ctx context.Context, orderID int64, in ItemInput) (*OrderItem, error)
	UpdateItem(ctx context.Context, orderID, itemID int64, params ItemUpdateParams) (*OrderItem, error)
	DeleteItem(ctx context.Context, orderID, itemID int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, customerID int64, items []ItemInput) (*Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	o, err := s.repo.Create(ctx, customerID, items)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create order",
			zap.Int64("customer_id", customerID),
			zap.Error(err),
		)
		return nil, err
	}
	return o, nil
}

func (s *service) Update(ctx context.Context, id int64, params UpdateParams) (*Order, error) {
	if params.Status != nil && !params.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if params.Items != nil {
		if err := validateItems(*params.Items); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, params)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) AddItem(ctx context.Context, orderID int64, in ItemInput) (*OrderItem, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.repo.AddItem(ctx, orderID, in)
}

func (s *service) UpdateItem(ctx context.Context, orderID, itemID int64, params ItemUpdateParams) (*OrderItem, error) {
	if params.Quantity != nil && *params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.repo.UpdateItem(ctx, orderID, itemID, params)
}

func (s *service) DeleteItem(ctx context.Context, orderID, itemID int64) error {
	return s.repo.DeleteItem(ctx, orderID, itemID)
}

// validateItems rejects non-positive quantities before anything touches
// the store.
func validateItems(items []ItemInput) error {
	for _, in := range items {
		if in.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}
