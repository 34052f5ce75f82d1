package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmansoor/watchdex/internal/apperror"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "validation error",
			err:        apperror.ValidationFailed("title", "title is required"),
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
		},
		{
			name:       "auth failure",
			err:        apperror.AuthFailed(),
			wantStatus: http.StatusUnauthorized,
			wantType:   "unauthorized",
		},
		{
			name:       "not found",
			err:        apperror.NotFound("user", 42),
			wantStatus: http.StatusNotFound,
			wantType:   "not_found",
		},
		{
			name:       "conflict",
			err:        apperror.Conflict("watchlist item", "already saved"),
			wantStatus: http.StatusConflict,
			wantType:   "conflict",
		},
		{
			name:       "upstream failure",
			err:        apperror.Upstream("tmdb", errors.New("connection refused")),
			wantStatus: http.StatusBadGateway,
			wantType:   "upstream_error",
		},
		{
			name:       "wrapped error keeps its mapping",
			err:        fmt.Errorf("adding item: %w", apperror.Conflict("watchlist item", "already saved")),
			wantStatus: http.StatusConflict,
			wantType:   "conflict",
		},
		{
			name:       "unknown error becomes generic 500",
			err:        errors.New("sql: database is locked"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantType, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.NotContains(t, rr.Body.String(), "10.0.0.5")
}
