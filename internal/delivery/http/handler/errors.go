package handler

import (
	"errors"
	"net/http"

	"belezure-api/internal/service"
	"belezure-api/internal/usecase"
	"belezure-api/pkg/response"
)

// retryAfterSeconds is sent with 503 responses for transient failures
const retryAfterSeconds = 2

// writeUsecaseError maps usecase errors to HTTP responses.
// Anything unrecognized is logged by the usecase and reported as fallback.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		response.ValidationError(w, validationErr.Fields)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrInvalidSlot),
		errors.Is(err, usecase.ErrDuplicateSlot),
		errors.Is(err, usecase.ErrSlotIndexOutOfRange),
		errors.Is(err, usecase.ErrDateInPast),
		errors.Is(err, service.ErrImageEmpty),
		errors.Is(err, service.ErrImageTooLarge),
		errors.Is(err, service.ErrImageTypeNotAllowed):
		response.BadRequest(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrClientOnly),
		errors.Is(err, usecase.ErrBookingNotOwned):
		response.Forbidden(w, err.Error())

	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrProviderNotFound),
		errors.Is(err, usecase.ErrServiceNotFound),
		errors.Is(err, usecase.ErrCategoryNotFound),
		errors.Is(err, usecase.ErrBookingNotFound):
		response.NotFound(w, err.Error())

	case errors.Is(err, usecase.ErrEmailAlreadyExists),
		errors.Is(err, usecase.ErrVersionConflict),
		errors.Is(err, usecase.ErrSlotBooked),
		errors.Is(err, usecase.ErrSlotAlreadyTaken),
		errors.Is(err, usecase.ErrBookingAlreadyCancelled):
		response.Conflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrTransient):
		response.ServiceUnavailable(w, err.Error(), retryAfterSeconds)

	default:
		response.InternalServerError(w, fallback)
	}
}
