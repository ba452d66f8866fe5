package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/domain/entity"
	"belezure-api/internal/usecase"
	"belezure-api/pkg/response"
	"belezure-api/pkg/session"
	"belezure-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
	validator      *validator.CustomValidator
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase, validator *validator.CustomValidator) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
		validator:      validator,
	}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUsecase.ListCategories(r.Context())
	if err != nil {
		writeUsecaseError(w, err, "Failed to get categories")
		return
	}

	response.Success(w, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	categoryID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid category ID", nil)
		return
	}

	category, err := h.catalogUsecase.GetCategory(r.Context(), categoryID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get category")
		return
	}

	response.Success(w, http.StatusOK, "Category retrieved successfully", category)
}

// ListServices handles the catalog listing
// @Param category_id query int false "Category ID"
// @Param provider_id query string false "Provider ID"
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	filter := &entity.ServiceFilter{}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		categoryID, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid category ID", nil)
			return
		}
		filter.CategoryID = &categoryID
	}

	if raw := r.URL.Query().Get("provider_id"); raw != "" {
		providerID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid provider ID", nil)
			return
		}
		filter.ProviderID = &providerID
	}

	services, err := h.catalogUsecase.ListServices(r.Context(), filter)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid service ID", nil)
		return
	}

	svc, err := h.catalogUsecase.GetService(r.Context(), serviceID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get service")
		return
	}

	response.Success(w, http.StatusOK, "Service retrieved successfully", svc)
}

func (h *CatalogHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid provider ID", nil)
		return
	}

	page, err := h.catalogUsecase.GetProviderProfile(r.Context(), providerID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get provider")
		return
	}

	response.Success(w, http.StatusOK, "Provider retrieved successfully", page)
}

func (h *CatalogHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	vars := mux.Vars(r)
	providerID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid provider ID", nil)
		return
	}

	var req dto.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.catalogUsecase.CreateReview(r.Context(), sess, providerID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create review")
		return
	}

	response.Success(w, http.StatusCreated, "Review created successfully", review)
}
