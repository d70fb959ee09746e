// Package web holds the request decoding, error mapping and authentication
// shared by the API handlers.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/auth"
	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/importer"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/notify"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err as a JSON error body with the status StatusOf picks.
// Internal errors are logged and hidden from the client.
func Error(w http.ResponseWriter, err error) {
	status := StatusOf(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		msg = "internal error"
	}

	resp := errorResponse{Error: msg}

	var invalid *InvalidRequestError
	if errors.As(err, &invalid) {
		resp.Error = invalid.Msg
		resp.Fields = invalid.Fields
	}

	JSON(w, status, resp)
}

// StatusOf maps domain errors to HTTP status codes.
func StatusOf(err error) int {
	var invalid *InvalidRequestError

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, member.ErrNotFound),
		errors.Is(err, fund.ErrNotFound),
		errors.Is(err, agent.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, notify.ErrNothingPending):
		return http.StatusConflict
	case errors.Is(err, member.ErrInvalidAmount),
		errors.Is(err, fund.ErrInvalidAmount),
		errors.Is(err, fund.ErrInvalidType),
		errors.Is(err, fund.ErrInvalidStatus),
		errors.Is(err, fund.ErrMissingStatus),
		errors.Is(err, notify.ErrNoRecipient),
		errors.Is(err, notify.ErrEmptyMessage),
		errors.Is(err, notify.ErrUnknownChannel),
		errors.Is(err, importer.ErrNoHeader),
		errors.Is(err, importer.ErrUnknownKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type dispatchResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// DispatchError reports a failed notification. Provider failures are
// answered with 502 Bad Gateway, bad input with its usual status.
func DispatchError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("notification dispatch failed", "error", err)
		status = http.StatusBadGateway
	}

	JSON(w, status, dispatchResponse{Error: err.Error()})
}
