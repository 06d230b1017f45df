package dto

import (
	"fmt"
	"strings"

	"customer-registry/internal/domain/customer"
)

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("name and phone required")
	}
	return nil
}

type DeleteCustomerRequest struct {
	// Pointer so an absent id can be told apart from id 0.
	ID *int64 `json:"id"`
}

func (r *DeleteCustomerRequest) Validate() error {
	if r.ID == nil {
		return fmt.Errorf("id required")
	}
	if *r.ID <= 0 {
		return fmt.Errorf("id must be a positive number")
	}
	return nil
}

type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		ID:    cust.ID,
		Name:  cust.Name,
		Phone: cust.Phone,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, len(customers))
	for i, cust := range customers {
		resp[i] = NewCustomerResponse(cust)
	}
	return resp
}

type DeleteCustomerResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
