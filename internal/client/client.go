package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"customer-registry/internal/api/handler/dto"
	"customer-registry/internal/domain/customer"
)

var (
	// ErrConfigMissing marks the server-side "DATABASE_URL is not set"
	// condition so callers can render setup guidance instead of a generic
	// error.
	ErrConfigMissing = errors.New("server database is not configured")

	ErrNotFound = errors.New("customer not found")
)

// APIError carries the structured error payload the registry returns.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("registry error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("registry error (status %d): %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) List(ctx context.Context) ([]customer.Customer, error) {
	resp, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var customers []customer.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customers); err != nil {
		return nil, fmt.Errorf("failed to decode customer list: %w", err)
	}
	return customers, nil
}

func (c *Client) Create(ctx context.Context, name, phone string) (*customer.Customer, error) {
	resp, err := c.do(ctx, http.MethodPost, dto.CreateCustomerRequest{Name: name, Phone: phone})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}

	var created customer.Customer
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created customer: %w", err)
	}
	return &created, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (*dto.DeleteCustomerResponse, error) {
	resp, err := c.do(ctx, http.MethodDelete, dto.DeleteCustomerRequest{ID: &id})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var deleted dto.DeleteCustomerResponse
	if err := json.NewDecoder(resp.Body).Decode(&deleted); err != nil {
		return nil, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return &deleted, nil
}

func (c *Client) do(ctx context.Context, method string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/customers", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// decodeError maps a structured error payload to sentinels; a non-JSON body
// falls back to a generic message, nothing else is swallowed.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: "request failed"}

	var payload dto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error.Message != "" {
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
	}

	switch {
	case apiErr.Code == "CONFIG_MISSING" || strings.Contains(apiErr.Message, "DATABASE_URL"):
		return fmt.Errorf("%w: %w", ErrConfigMissing, apiErr)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
	default:
		return apiErr
	}
}
