package product

import (
	"context"

	"go.uber.org/zap"

	"storefront-api/internal/logger"
)

type Service interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id int64, params UpdateParams) (*Product, error)
	Delete(ctx context.Context, id int64) error
	MarkSoldOut(ctx context.Context, id int64) (*Product, error)
	IncreaseStock(ctx context.Context, id int64, amount int) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, p *Product) error {
	log := logger.FromCtx(ctx)

	if p.Stock < 0 {
		return ErrNegativeStock
	}

	// Products born without stock start inactive.
	p.IsActive = p.Stock > 0

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.String("name", p.Name), zap.Error(err))
		return err
	}

	log.Info("product created",
		zap.Int64("product_id", p.ID),
		zap.Int("stock", p.Stock),
		zap.Bool("is_active", p.IsActive),
	)
	return nil
}

// Update applies the stock/activity correlation: a transition to zero stock
// deactivates the product, a transition out of zero re-activates it. The
// transition wins over an explicit is_active value in the same request.
func (s *service) Update(ctx context.Context, id int64, params UpdateParams) (*Product, error) {
	if params.Stock != nil {
		if *params.Stock < 0 {
			return nil, ErrNegativeStock
		}

		old, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if old.Stock > 0 && *params.Stock == 0 {
			inactive := false
			params.IsActive = &inactive
		} else if old.Stock == 0 && *params.Stock > 0 {
			active := true
			params.IsActive = &active
		}
	}

	return s.repo.Update(ctx, id, params)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) MarkSoldOut(ctx context.Context, id int64) (*Product, error) {
	log := logger.FromCtx(ctx)

	p, err := s.repo.MarkSoldOut(ctx, id)
	if err != nil {
		log.Warn("mark sold out rejected", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	log.Info("product marked sold out", zap.Int64("product_id", id))
	return p, nil
}

func (s *service) IncreaseStock(ctx context.Context, id int64, amount int) (*Product, error) {
	if amount <= 0 {
		return nil, ErrNegativeStock
	}
	return s.repo.IncreaseStock(ctx, id, amount)
}
