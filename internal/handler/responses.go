package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/ashfall/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

var encodeBuffers = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// respondJSON encodes payload before touching the response, so an encoding
// failure still produces a clean 500.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := encodeBuffers.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		encodeBuffers.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgRecipeNotFoundError = "Recipe not found"
	ErrMsgRecipeUnknownError  = "Recipe is not known"
	ErrMsgNotReversibleError  = "That item cannot be disassembled"
	ErrMsgMissingComponentErr = "Missing components"
	ErrMsgCraftNotFoundError  = "Craft not found"
	ErrMsgInsufficientItemErr = "Not enough items"
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// messages users can act upon
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrRecipeNotFound):
		return http.StatusNotFound, ErrMsgRecipeNotFoundError
	case errors.Is(err, domain.ErrCraftNotFound):
		return http.StatusNotFound, ErrMsgCraftNotFoundError
	case errors.Is(err, domain.ErrRecipeUnknown):
		return http.StatusForbidden, ErrMsgRecipeUnknownError
	case errors.Is(err, domain.ErrRecipeNotReversible):
		return http.StatusBadRequest, ErrMsgNotReversibleError
	case errors.Is(err, domain.ErrMissingComponents):
		return http.StatusConflict, ErrMsgMissingComponentErr
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return http.StatusBadRequest, ErrMsgInsufficientItemErr
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidBatch):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError maps err and writes it
func respondServiceError(w http.ResponseWriter, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	respondError(w, status, msg)
}
