// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// MaxBodyBytes bounds the size of accepted request bodies.
const MaxBodyBytes = 1 << 20

// ServerErrorMessage is returned for every unexpected failure.
const ServerErrorMessage = "Server error"

// ErrorBody is the body of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is the body of responses that only carry a message.
type MessageBody struct {
	Message string `json:"message"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Response encode error", zap.Error(err))
	}
}

// WriteError writes an error body with the given status code.
func WriteError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	WriteJSON(w, logger, status, ErrorBody{Error: message})
}

// DecodeJSON decodes a bounded JSON request body into v.
func DecodeJSON(w http.ResponseWriter, req *http.Request, v any) error {
	body := http.MaxBytesReader(w, req.Body, MaxBodyBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request payload: %w", err)
	}
	return nil
}

// CauseMessage returns the message of err without the "<sentinel>: " prefix
// added when err wraps sentinel with fmt.Errorf("%w: ...").
func CauseMessage(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
