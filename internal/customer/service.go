package customer

import (
	"context"

	"go.uber.org/zap"

	"storefront-api/internal/logger"
)

type Service interface {
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, id int64, params UpdateParams) (*Customer, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, c *Customer) error {
	log := logger.FromCtx(ctx)

	c.IsActive = true
	if err := s.repo.Create(ctx, c); err != nil {
		log.Error("failed to create customer", zap.String("email", c.Email), zap.Error(err))
		return err
	}

	log.Info("customer created", zap.Int64("customer_id", c.ID))
	return nil
}

func (s *service) Update(ctx context.Context, id int64, params UpdateParams) (*Customer, error) {
	return s.repo.Update(ctx, id, params)
}

// Delete refuses to remove a customer that still owns pending orders.
// The check itself lives in the repository, inside the delete transaction.
func (s *service) Delete(ctx context.Context, id int64) error {
	log := logger.FromCtx(ctx)

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Warn("customer delete rejected", zap.Int64("customer_id", id), zap.Error(err))
		return err
	}

	log.Info("customer deleted", zap.Int64("customer_id", id))
	return nil
}
