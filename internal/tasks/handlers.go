package tasks

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"storefront-api/internal/customer"
	"storefront-api/internal/logger"
)

// ExportActiveCustomers builds the active-customer export and emits it
// as a JSON log record.
func ExportActiveCustomers(repo customer.Repository) HandlerFunc {
	return func(ctx context.Context, job Job) error {
		log := logger.FromCtx(ctx)

		rows, err := repo.ListActive(ctx)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(rows)
		if err != nil {
			return err
		}

		log.Info("active customer export completed",
			zap.String("job_id", job.ID.String()),
			zap.Int("customer_count", len(rows)),
			zap.ByteString("export", payload),
		)
		return nil
	}
}

// Greeting logs a hello for the named customer.
func Greeting() HandlerFunc {
	return func(ctx context.Context, job Job) error {
		name := job.Args["name"]
		if name == "" {
			name = "there"
		}

		logger.FromCtx(ctx).Info("greeting delivered",
			zap.String("job_id", job.ID.String()),
			zap.String("name", name),
		)
		return nil
	}
}
