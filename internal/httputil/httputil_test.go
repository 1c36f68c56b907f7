package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, zap.NewNop(), http.StatusNotFound, "Movie not found")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Movie not found"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Rating int `json:"rating"`
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":4}`))
	require.NoError(t, DecodeJSON(rec, req, &v))
	assert.Equal(t, 4, v.Rating)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.EqualError(t, DecodeJSON(rec, req, &v), "request body is empty")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":"x"}`))
	assert.Error(t, DecodeJSON(rec, req, &v))
}

func TestCauseMessage(t *testing.T) {
	errInvalid := errors.New("validation failed")
	assert.Equal(t, "title is required", CauseMessage(fmt.Errorf("%w: title is required", errInvalid), errInvalid))
	assert.Equal(t, "other", CauseMessage(errors.New("other"), errInvalid))
}
