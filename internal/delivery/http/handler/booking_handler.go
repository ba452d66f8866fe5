package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/usecase"
	"belezure-api/pkg/response"
	"belezure-api/pkg/session"
	"belezure-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// SlotAlreadyTakenCode tells the client to pick again from available_slots
const SlotAlreadyTakenCode = "SLOT_ALREADY_TAKEN"

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	bookings, err := h.bookingUsecase.ListMyBookings(r.Context(), sess)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved successfully", bookings)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), sess, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrSlotAlreadyTaken) {
			h.slotTaken(w, r, &req)
			return
		}
		writeUsecaseError(w, err, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

// slotTaken answers 409 with the slots still open so the client can retry at once
func (h *BookingHandler) slotTaken(w http.ResponseWriter, r *http.Request, req *dto.CreateBookingRequest) {
	available := []string{}
	if options, err := h.bookingUsecase.GetBookingOptions(r.Context(), req.ProviderID, req.Date); err == nil {
		available = options.Slots
	}

	response.Conflict(w, "Slot already taken", dto.SlotTakenResponse{
		Code:           SlotAlreadyTakenCode,
		AvailableSlots: available,
	})
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := h.bookingUsecase.CancelBooking(r.Context(), sess, bookingID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to cancel booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", booking)
}
