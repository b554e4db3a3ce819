package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"libroteca/internal/auth"
	"libroteca/internal/entity"
	"libroteca/internal/usecase"
)

type AuthHandler struct {
	repo   usecase.AccountRepository
	hasher *auth.Hasher
}

func NewAuthHandler(repo usecase.AccountRepository, hasher *auth.Hasher) *AuthHandler {
	return &AuthHandler{repo: repo, hasher: hasher}
}

type credentialsReq struct {
	Username string `json:"username" validate:"required,min=6"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates a new account. Username uniqueness is an existence
// check before the insert, not a storage-level constraint. The stored
// hash never appears in the response body.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if fieldErrors := ValidateStruct(req); len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: "validation error", Errors: fieldErrors})
		return
	}

	_, err := h.repo.GetByUsername(r.Context(), req.Username)
	if err == nil {
		JSONMessage(w, http.StatusBadRequest, "user already exists")
		return
	}
	if !errors.Is(err, usecase.ErrNotFound) {
		JSONMessage(w, http.StatusInternalServerError, "could not register user")
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		JSONMessage(w, http.StatusInternalServerError, "could not register user")
		return
	}

	account := &entity.Account{Username: req.Username, Password: hashed}
	if err := h.repo.Create(r.Context(), account); err != nil {
		JSONMessage(w, http.StatusInternalServerError, "could not register user")
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// Login verifies the supplied credentials against the stored hash.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if fieldErrors := ValidateStruct(req); len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: "validation error", Errors: fieldErrors})
		return
	}

	account, err := h.repo.GetByUsername(r.Context(), req.Username)
	if errors.Is(err, usecase.ErrNotFound) {
		JSONMessage(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		JSONMessage(w, http.StatusInternalServerError, "could not log in")
		return
	}

	if !auth.VerifyPassword(account.Password, req.Password) {
		JSONMessage(w, http.StatusUnauthorized, "incorrect password")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Message: "login successful", User: account})
}

// Logout is an accepted-but-inert endpoint kept for client
// compatibility.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Protected is an accepted-but-inert endpoint kept for client
// compatibility.
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
