package handler

import (
	"encoding/json"
	"net/http"

	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/usecase"
	"belezure-api/pkg/response"
	"belezure-api/pkg/session"
	"belezure-api/pkg/validator"
)

type ServiceHandler struct {
	serviceUsecase usecase.ServiceUsecase
	validator      *validator.CustomValidator
}

func NewServiceHandler(serviceUsecase usecase.ServiceUsecase, validator *validator.CustomValidator) *ServiceHandler {
	return &ServiceHandler{
		serviceUsecase: serviceUsecase,
		validator:      validator,
	}
}

// Create handles service creation from the provider dashboard
// @Summary Create a new service
// @Tags Provider
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceRequest true "Create Service Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /provider/services [post]
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	svc, err := h.serviceUsecase.Create(r.Context(), sess.UserID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create service")
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", svc)
}

// ListMine lists the provider's own services, inactive ones included
// @Summary List my services
// @Tags Provider
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /provider/services [get]
func (h *ServiceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	services, err := h.serviceUsecase.ListByProvider(r.Context(), sess.UserID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}
