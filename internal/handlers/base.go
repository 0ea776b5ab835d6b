// Package handlers contains the chi HTTP handlers. Every response is wrapped
// in the API envelope and domain errors are mapped to HTTP statuses by kind.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/auth/middleware"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// apiVersion is the revision constant carried on every envelope
const apiVersion = "v1"

// envelope is the wire shape of every API response
type envelope struct {
	OK         bool               `json:"ok"`
	Data       any                `json:"data,omitempty"`
	Error      *errorBody         `json:"error,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Version    string             `json:"version"`
}

type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

// BaseHandler provides envelope serialization shared by all handlers
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON writes a success envelope
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	h.write(w, status, &envelope{OK: true, Data: data, Version: apiVersion})
}

// RespondPage writes a success envelope with pagination metadata
func (h *BaseHandler) RespondPage(w http.ResponseWriter, status int, data any, pagination *models.Pagination) {
	h.write(w, status, &envelope{OK: true, Data: data, Pagination: pagination, Version: apiVersion})
}

// RespondError maps a domain error to its HTTP status and writes an error
// envelope. Internal detail is logged, never sent to the client.
func (h *BaseHandler) RespondError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	if appErr.Kind == apperr.KindInternal {
		h.Logger.Error("request failed", zap.Error(err))
	}

	h.write(w, apperr.HTTPStatus(appErr.Kind), &envelope{
		OK: false,
		Error: &errorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Fields:  appErr.Fields,
		},
		Version: apiVersion,
	})
}

func (h *BaseHandler) write(w http.ResponseWriter, status int, body *envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
	}
}

// Identity pulls the authenticated user's id and role from the request
// context. A missing identity means the route was wired without the auth
// middleware; the request is rejected and false is returned.
func (h *BaseHandler) Identity(w http.ResponseWriter, r *http.Request) (int, models.Role, bool) {
	userID, okID := middleware.GetUserID(r.Context())
	role, okRole := middleware.GetRole(r.Context())
	if !okID || !okRole {
		h.Logger.Error("user identity not found in context")
		h.RespondError(w, apperr.Unauthorized("UNAUTHORIZED", "authentication required"))
		return 0, "", false
	}
	return userID, role, true
}

// DecodeJSON decodes the request body into dst, rejecting malformed JSON as a
// validation error
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("INVALID_JSON", "request body is not valid JSON")
	}
	return nil
}

// URLParamInt parses an integer route parameter
func URLParamInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || value <= 0 {
		return 0, apperr.Validation("INVALID_ID", "invalid "+name+" parameter")
	}
	return value, nil
}

// QueryInt parses an integer query parameter, returning the fallback when the
// parameter is absent or malformed
func QueryInt(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return value
}
