package customer_test

import (
	"testing"

	"customer-registry/internal/domain/customer"

	"github.com/stretchr/testify/assert"
)

func TestNewCustomer(t *testing.T) {
	name := "Ana Pereira"
	phone := "+254700111222"

	cust := customer.NewCustomer(name, phone)

	assert.NotNil(t, cust, "NewCustomer should return a non-nil customer")
	assert.Equal(t, name, cust.Name, "Customer name should match input")
	assert.Equal(t, phone, cust.Phone, "Customer phone should match input")
	assert.Equal(t, int64(0), cust.ID, "ID should be initialized to 0 until persisted")
}
