package batch

import (
	"context"
	"fmt"
	"log/slog"

	"customer-registry/internal/domain/customer"
	"customer-registry/internal/infrastructure/monitoring"
)

// RegistryStatsJob periodically refreshes the registry size gauge so the
// customers_total metric stays close to the relation without instrumenting
// every mutation path.
type RegistryStatsJob struct {
	service customer.RegistryService
	logger  *slog.Logger
}

func NewRegistryStatsJob(service customer.RegistryService, logger *slog.Logger) *RegistryStatsJob {
	if service == nil {
		panic("registry service cannot be nil")
	}
	return &RegistryStatsJob{
		service: service,
		logger:  logger.With("component", "RegistryStatsJob"),
	}
}

func (j *RegistryStatsJob) Run(ctx context.Context) error {
	customers, err := j.service.ListCustomers(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to count customers for stats", slog.Any("error", err))
		return fmt.Errorf("failed to refresh registry stats: %w", err)
	}

	monitoring.SetCustomersTotal(float64(len(customers)))
	j.logger.InfoContext(ctx, "Refreshed registry stats", slog.Int("customers", len(customers)))
	return nil
}
