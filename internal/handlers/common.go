package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/auth"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/middleware"
	"github.com/Tayyab-RIT/Campus-Connect-Backend/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	UserID string            `json:"user_id,omitempty"`
}

// Response is the success envelope
type Response struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requestError is a malformed or invalid request body
type requestError struct {
	message string
	fields  map[string]string
}

func (e *requestError) Error() string {
	return e.message
}

// decodeJSON reads the request body into dst and validates it
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &requestError{message: fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit)}
		case errors.Is(err, io.EOF):
			return &requestError{message: "Request body is required"}
		default:
			return &requestError{message: "Invalid request body"}
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &requestError{message: "Invalid request body"}
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return &requestError{message: "Validation failed", fields: fields}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "datetime":
		return "must match the format " + fe.Param()
	default:
		return "is invalid"
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// statusFor maps an error to its HTTP status code
func statusFor(err error) int {
	var (
		reqErr *requestError
		regErr *services.RegistrationError
	)
	switch {
	case errors.As(err, &reqErr), errors.As(err, &regErr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		// invalid input, conflicts and upstream failures
		return http.StatusBadRequest
	}
}

// respondServiceError logs err and sends it with the matching status code
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)

	event := log.Warn()
	if status == http.StatusBadRequest && !isClientError(err) {
		event = log.Error()
	}
	if userID := middleware.GetUserID(r.Context()); userID != "" {
		event = event.Str("user_id", userID)
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg(msg)

	body := ErrorResponse{Error: err.Error()}

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		body.Fields = reqErr.fields
	}
	var regErr *services.RegistrationError
	if errors.As(err, &regErr) {
		body.UserID = regErr.UserID
	}

	respondJSON(w, status, body)
}

// isClientError reports whether err is the caller's fault rather than a failing dependency
func isClientError(err error) bool {
	var reqErr *requestError
	var perr *auth.ProviderError
	return errors.As(err, &reqErr) ||
		(errors.As(err, &perr) && perr.StatusCode < http.StatusInternalServerError) ||
		errors.Is(err, services.ErrInvalidInput) ||
		errors.Is(err, services.ErrConflict) ||
		errors.Is(err, services.ErrCapacityExceeded)
}
