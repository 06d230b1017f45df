package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"customer-registry/internal/api/handler/dto"
	"customer-registry/internal/domain/customer"
	"customer-registry/internal/pkg/apperrors"
)

type CustomerHandler struct {
	service      customer.RegistryService
	dbConfigured bool
	logger       *slog.Logger
}

func NewCustomerHandler(s customer.RegistryService, dbConfigured bool, l *slog.Logger) *CustomerHandler {
	if l == nil {
		panic("logger cannot be nil")
	}
	if s == nil && dbConfigured {
		panic("registry service cannot be nil when the database is configured")
	}
	return &CustomerHandler{
		service:      s,
		dbConfigured: dbConfigured,
		logger:       l.With("component", "CustomerHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return apperrors.ErrMissingBody
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.ErrMissingBody
		}
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, code, message, field := http.StatusInternalServerError, "INTERNAL", err.Error(), ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrConfiguration):
		code = "CONFIG_MISSING"
		if errors.As(err, &appErr) {
			code, message = appErr.Code, appErr.Message
		}
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, customer.ErrNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "not found"
	case errors.Is(err, apperrors.ErrMissingBody):
		status, code, message = http.StatusBadRequest, "MISSING_BODY", "missing body"
	case errors.As(err, &validationError):
		status, code, message, field = http.StatusBadRequest, "VALIDATION", validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, code, message = http.StatusBadRequest, "VALIDATION", err.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

// checkConfigured guards every method: when DATABASE_URL is absent the handler
// answers with a configuration error before any storage access.
func (h *CustomerHandler) checkConfigured(w http.ResponseWriter, r *http.Request) bool {
	if h.dbConfigured {
		return true
	}
	h.logger.ErrorContext(r.Context(), "Rejecting request, database is not configured")
	respondError(w, apperrors.NewConfigurationError("DATABASE_URL"))
	return false
}

// ListCustomers handles GET /customers
// @Summary List customers
// @Description Retrieves all customers, newest first.
// @Tags Customers
// @Produce json
// @Success 200 {array} dto.CustomerResponse "List of customers"
// @Failure 500 {object} dto.ErrorResponse "Storage or configuration error"
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	if !h.checkConfigured(w, r) {
		return
	}

	h.logger.DebugContext(r.Context(), "Received list customers request")

	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customers listed successfully", slog.Int("count", len(customers)))
	respondJSON(w, http.StatusOK, dto.NewCustomerListResponse(customers))
}

// CreateCustomer handles POST /customers
// @Summary Create a new customer
// @Description Creates a new customer record with name and phone.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer creation request"
// @Success 201 {object} dto.CustomerResponse "Customer successfully created"
// @Failure 400 {object} dto.ErrorResponse "Missing body or empty name/phone"
// @Failure 500 {object} dto.ErrorResponse "Storage or configuration error"
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	if !h.checkConfigured(w, r) {
		return
	}

	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Validation failed: name or phone is empty")
		respondError(w, apperrors.NewValidationError("", err.Error()))
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), req.Name, req.Phone)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.Int64("customerID", created.ID))
	respondJSON(w, http.StatusCreated, dto.NewCustomerResponse(created))
}

// DeleteCustomer handles DELETE /customers
// @Summary Delete a customer
// @Description Deletes the customer identified by the id in the request body.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.DeleteCustomerRequest true "Customer deletion request"
// @Success 200 {object} dto.DeleteCustomerResponse "Customer successfully deleted"
// @Failure 400 {object} dto.ErrorResponse "Missing body or id"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Storage or configuration error"
// @Router /customers [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if !h.checkConfigured(w, r) {
		return
	}

	h.logger.DebugContext(r.Context(), "Received delete customer request")

	var req dto.DeleteCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Validation failed: id missing or invalid")
		respondError(w, apperrors.NewValidationError("id", err.Error()))
		return
	}

	deleted, err := h.service.DeleteCustomer(r.Context(), *req.ID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) && !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to delete customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer deleted successfully", slog.Int64("customerID", deleted.ID))
	respondJSON(w, http.StatusOK, dto.DeleteCustomerResponse{
		Message: "customer deleted",
		ID:      deleted.ID,
	})
}
