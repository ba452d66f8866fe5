package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/usecase"
	"belezure-api/pkg/response"
	"belezure-api/pkg/session"
	"belezure-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	bookingUsecase      usecase.BookingUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		bookingUsecase:      bookingUsecase,
		validator:           validator,
	}
}

// GetBookingOptions is the public view of a provider's day: open slots only
func (h *AvailabilityHandler) GetBookingOptions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid provider ID", nil)
		return
	}

	options, err := h.bookingUsecase.GetBookingOptions(r.Context(), providerID, r.URL.Query().Get("date"))
	if err != nil {
		writeUsecaseError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", options)
}

// GetMyAvailability is the provider dashboard view: slots, bookings and version
func (h *AvailabilityHandler) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	availability, err := h.availabilityUsecase.GetAvailability(r.Context(), sess.UserID, r.URL.Query().Get("date"))
	if err != nil {
		writeUsecaseError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *AvailabilityHandler) SetSlots(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.SetSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availability, err := h.availabilityUsecase.SetSlots(r.Context(), sess.UserID, mux.Vars(r)["date"], &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability updated successfully", availability)
}

func (h *AvailabilityHandler) RenameSlot(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid slot index", nil)
		return
	}

	var req dto.RenameSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availability, err := h.availabilityUsecase.RenameSlot(r.Context(), sess.UserID, vars["date"], index, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update slot")
		return
	}

	response.Success(w, http.StatusOK, "Slot updated successfully", availability)
}
