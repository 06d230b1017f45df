package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"customer-registry/internal/event"
	"customer-registry/internal/infrastructure/monitoring"
	"customer-registry/internal/pkg/apperrors"
)

type RegistryService interface {
	ListCustomers(ctx context.Context) ([]*Customer, error)
	CreateCustomer(ctx context.Context, name, phone string) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ RegistryService = (*registryService)(nil)

type registryService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewRegistryService(repo CustomerRepository, eventPublisher event.EventPublisher, logger *slog.Logger) RegistryService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewRegistryService, using default stderr handler")
	}

	if eventPublisher == nil {
		eventPublisher = event.NewNoopEventPublisher(logger)
		logger.Warn("Warning: No event publisher provided to NewRegistryService, using no-op publisher")
	}

	return &registryService{
		repo:   repo,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "registryService")),
	}
}

func newCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID: cust.ID,
		Name:       cust.Name,
		Phone:      cust.Phone,
	}
}

// ensureSchema runs before every operation; the relation is created on demand
// so a fresh database needs no migration step.
func (s *registryService) ensureSchema(ctx context.Context) error {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to ensure customers relation exists", slog.Any("error", err))
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func (s *registryService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list all customers")

	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *registryService) CreateCustomer(ctx context.Context, name, phone string) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		s.logger.WarnContext(ctx, "Validation failed: name is empty")
		return nil, apperrors.NewValidationError("name", "name and phone required")
	}
	if phone == "" {
		s.logger.WarnContext(ctx, "Validation failed: phone is empty", slog.String("name", name))
		return nil, apperrors.NewValidationError("phone", "name and phone required")
	}

	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	cust := NewCustomer(name, phone)

	if err := s.repo.Insert(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to insert new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	createdEvent := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(cust),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
		s.logger.ErrorContext(ctx, "Customer created, but failed to publish creation event", slog.Any("error", pubErr))
	}
	monitoring.RecordCustomerCreated()

	s.logger.InfoContext(ctx, "Successfully created new customer", slog.Int64("customerID", cust.ID))
	return cust, nil
}

func (s *registryService) DeleteCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to delete customer", slog.Int64("customerID", customerID))

	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository", slog.Int64("customerID", customerID))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	deletedEvent := event.CustomerDeletedEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(deleted),
	}
	if pubErr := s.pub.PublishCustomerDeleted(ctx, deletedEvent); pubErr != nil {
		s.logger.ErrorContext(ctx, "Customer deleted, but failed to publish deletion event", slog.Any("error", pubErr))
	}
	monitoring.RecordCustomerDeleted()

	s.logger.InfoContext(ctx, "Successfully deleted customer", slog.Int64("customerID", customerID))
	return deleted, nil
}
