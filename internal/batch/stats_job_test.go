package batch_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"customer-registry/internal/batch"
	"customer-registry/internal/domain/customer"
	"customer-registry/internal/infrastructure/monitoring"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRegistryService struct {
	mock.Mock
}

func (_m *mockRegistryService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *mockRegistryService) CreateCustomer(ctx context.Context, name, phone string) (*customer.Customer, error) {
	ret := _m.Called(ctx, name, phone)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *mockRegistryService) DeleteCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func TestRegistryStatsJobRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(mockRegistryService)
		mockService.On("ListCustomers", mock.Anything).Return([]*customer.Customer{
			{ID: 2, Name: "Bea", Phone: "222"},
			{ID: 1, Name: "Ana", Phone: "111"},
		}, nil).Once()

		job := batch.NewRegistryStatsJob(mockService, logger)
		err := job.Run(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, float64(2), testutil.ToFloat64(monitoring.Registry.CustomersTotal))
		mockService.AssertExpectations(t)
	})

	t.Run("Error - Service Failure", func(t *testing.T) {
		mockService := new(mockRegistryService)
		mockService.On("ListCustomers", mock.Anything).Return(nil, errors.New("db down")).Once()

		job := batch.NewRegistryStatsJob(mockService, logger)
		err := job.Run(context.Background())

		assert.Error(t, err)
	})
}
