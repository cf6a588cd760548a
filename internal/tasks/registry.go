package tasks

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront-api/internal/logger"
	"storefront-api/internal/metrics"
)

// Job names known to the worker. Handlers are registered under these keys.
const (
	JobExportActiveCustomers = "customers.export_active"
	JobGreeting              = "customers.greeting"
)

var ErrUnknownJob = errors.New("no handler registered for job")

type HandlerFunc func(ctx context.Context, job Job) error

// Registry maps job names to handlers. Registration happens at startup,
// before the worker loop runs, so no locking is needed.
type Registry struct {
	handlers map[string]HandlerFunc
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]HandlerFunc)}
}

func (r *Registry) Register(name string, fn HandlerFunc) {
	r.handlers[name] = fn
}

// Dispatch runs the handler registered for the job, recording the outcome.
func (r *Registry) Dispatch(ctx context.Context, job Job) error {
	log := logger.FromCtx(ctx).With(
		zap.String("job_id", job.ID.String()),
		zap.String("job_name", job.Name),
	)

	fn, ok := r.handlers[job.Name]
	if !ok {
		metrics.JobsFailed.Inc()
		log.Warn("dropping job with no registered handler")
		return fmt.Errorf("%w: %s", ErrUnknownJob, job.Name)
	}

	if err := fn(ctx, job); err != nil {
		metrics.JobsFailed.Inc()
		log.Error("job failed", zap.Error(err))
		return err
	}

	metrics.JobsProcessed.Inc()
	log.Info("job processed")
	return nil
}
