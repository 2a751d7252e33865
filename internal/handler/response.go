// Package handler provides HTTP handlers for the eKYC services.
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"ekyc/internal/middleware"
	"ekyc/pkg/errors"
	"ekyc/pkg/logger"
	"ekyc/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 2 << 20

func respondJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondOK(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{Success: false, Message: message})
}

// respondServiceError maps a typed service error onto its HTTP status.
// Untyped errors are logged and reported as a generic 500.
func respondServiceError(w http.ResponseWriter, log logger.Logger, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		fields := map[string]interface{}{
			"error":  err,
			"path":   r.URL.Path,
			"method": r.Method,
		}
		if id, ok := middleware.RequestIDFromContext(r.Context()); ok {
			fields["request_id"] = id
		}
		log.Error("request failed", fields)
	}
	respondError(w, status, errors.MessageOf(err))
}

// decodeAndValidate parses a JSON body into req and runs struct validation.
// It writes the error response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, val *validator.Validator, req interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		if err == io.EOF {
			respondError(w, http.StatusBadRequest, "Request body is required")
			return false
		}
		respondError(w, http.StatusBadRequest, "Invalid request body format")
		return false
	}

	if errs := val.ValidateStructured(req); errs != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "Validation failed",
			Errors:  errs,
		})
		return false
	}
	return true
}

// currentUser returns the authenticated caller, writing 401 when absent.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized: missing user context")
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses the named route variable, writing 400 when malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// paging reads limit and offset query parameters; bad values fall back to 0.
func paging(r *http.Request) (limit, offset int) {
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
