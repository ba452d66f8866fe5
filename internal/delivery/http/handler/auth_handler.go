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

type AuthHandler struct {
	authUsecase         usecase.AuthUsecase
	registrationUsecase usecase.RegistrationUsecase
	validator           *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, registrationUsecase usecase.RegistrationUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase:         authUsecase,
		registrationUsecase: registrationUsecase,
		validator:           validator,
	}
}

// ValidatePersonal checks step one of registration without creating anything
// @Summary Validate registration step one
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.PersonalDataRequest true "Personal data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/register/validate [post]
func (h *AuthHandler) ValidatePersonal(w http.ResponseWriter, r *http.Request) {
	var req dto.PersonalDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.registrationUsecase.ValidatePersonal(r.Context(), &req); err != nil {
		writeUsecaseError(w, err, "Failed to validate personal data")
		return
	}

	response.Success(w, http.StatusOK, "Personal data is valid", nil)
}

// Register handles two-step registration submitted as one request
// @Summary Register a client or provider
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	user, err := h.registrationUsecase.Register(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to register user")
		return
	}

	response.Success(w, http.StatusCreated, "User registered successfully", user)
}

// Login handles user login
// @Summary Login user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to login")
		return
	}

	response.Success(w, http.StatusOK, "Login successful", tokens)
}

// Logout handles user logout
// @Summary Logout user
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	// Refresh token in the body is optional
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.authUsecase.Logout(r.Context(), sess.UserID, sess.TokenID, req.RefreshToken); err != nil {
		writeUsecaseError(w, err, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to refresh token")
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
}

// GetCurrentUser handles getting current user info
// @Summary Get current user
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), sess.UserID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get user info")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}
