package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"villa/shared/failure"
	"villa/transport/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody map[string]any
	}{
		{
			name:     "failure",
			err:      failure.DateConflict("2025-07-12"),
			wantCode: http.StatusConflict,
			wantBody: map[string]any{
				"error": "selected dates are not available, 2025-07-12 is already booked",
				"code":  "date_conflict",
			},
		},
		{
			name:     "wrapped failure",
			err:      fmt.Errorf("create: %w", failure.NotFound("booking not found")),
			wantCode: http.StatusNotFound,
			wantBody: map[string]any{"error": "booking not found", "code": "not_found"},
		},
		{
			name:     "plain error is hidden",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: map[string]any{"error": "internal server error", "code": "internal_error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, decode(t, rec))
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "b1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]any{"data": map[string]any{"id": "b1"}}, decode(t, rec))
}

func TestWithCalendar(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithCalendar(rec, "bookings.ics", "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bookings.ics")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}

func TestWithRequestLimitExceeded(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithRequestLimitExceeded(rec)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, map[string]any{"message": "REQUEST LIMIT EXCEEDED"}, decode(t, rec))
}
