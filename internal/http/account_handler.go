package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type AccountHandler struct {
	accounts AccountService
	validate *validator.Validate
}

func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		validate: validator.New(),
	}
}

type SignupRequestDTO struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginRequestDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequestDTO struct {
	Email            string `json:"email" validate:"required,email"`
	PreviousPassword string `json:"previousPassword" validate:"required"`
	NewPassword      string `json:"newPassword" validate:"required"`
}

func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "fullName, email and password are required")
		return
	}

	if _, err := h.accounts.Signup(r.Context(), req.FullName, req.Email, req.Password); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "email and password are required")
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"fullName": result.FullName,
		"email":    result.Email,
		"token":    result.Token,
	})
}

func (h *AccountHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "username and password are required")
		return
	}

	token, err := h.accounts.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
	})
}

func (h *AccountHandler) ForgetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "email, previousPassword and newPassword are required")
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req.Email, req.PreviousPassword, req.NewPassword); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	if err := h.accounts.Logout(r.Context(), claims.Role, claims.Subject); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
