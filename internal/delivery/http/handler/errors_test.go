package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"belezure-api/internal/service"
	"belezure-api/internal/usecase"
	"belezure-api/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUsecaseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &usecase.ValidationError{Fields: map[string]string{"Name": "Name is required"}}, http.StatusBadRequest},
		{"wrapped invalid slot", fmt.Errorf("%w: %q", usecase.ErrInvalidSlot, "9h"), http.StatusBadRequest},
		{"past date", usecase.ErrDateInPast, http.StatusBadRequest},
		{"image type", service.ErrImageTypeNotAllowed, http.StatusBadRequest},
		{"credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"revoked", usecase.ErrTokenRevoked, http.StatusUnauthorized},
		{"client only", usecase.ErrClientOnly, http.StatusForbidden},
		{"not owned", usecase.ErrBookingNotOwned, http.StatusForbidden},
		{"provider missing", usecase.ErrProviderNotFound, http.StatusNotFound},
		{"email taken", usecase.ErrEmailAlreadyExists, http.StatusConflict},
		{"version conflict", usecase.ErrVersionConflict, http.StatusConflict},
		{"wrapped slot booked", fmt.Errorf("%w: 10:00", usecase.ErrSlotBooked), http.StatusConflict},
		{"transient", usecase.ErrTransient, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"deadline not mapped here", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeUsecaseError(rec, tt.err, "fallback")

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
		})
	}
}

func TestWriteUsecaseError_Details(t *testing.T) {
	rec := httptest.NewRecorder()
	writeUsecaseError(rec, &usecase.ValidationError{Fields: map[string]string{"CPF": "CPF must be a valid CPF"}}, "fallback")

	var body struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CPF must be a valid CPF", body.Error["CPF"])

	rec = httptest.NewRecorder()
	writeUsecaseError(rec, usecase.ErrTransient, "fallback")
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	writeUsecaseError(rec, errors.New("boom"), "Failed to do it")
	assert.Contains(t, rec.Body.String(), "Failed to do it")
	assert.NotContains(t, rec.Body.String(), "boom")
}
