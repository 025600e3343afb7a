package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/boardcamp/internal/auth"
	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/model"
	"github.com/erazemk/boardcamp/internal/store"
	"github.com/erazemk/boardcamp/internal/validate"
)

// AuthHandler handles staff authentication endpoints.
type AuthHandler struct {
	DB        *db.Conn
	JWTSecret string
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "log in")
		return
	}

	staff, err := store.GetStaffByUsername(r.Context(), h.DB, req.Username)
	if err != nil {
		writeError(w, r, err, "log in")
		return
	}
	if staff == nil || !auth.CheckPassword(staff.PasswordHash, req.Password) {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, staff.ID, staff.Username)
	if err != nil {
		writeError(w, r, err, "generate token")
		return
	}

	slog.Info("staff logged in", "user", staff.Username)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token})
}

// Logout handles POST /auth/logout. The token stays revoked until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		writeError(w, r, err, "log out")
		return
	}

	slog.Info("staff logged out", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ChangePassword handles PUT /auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "change password")
		return
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		writeError(w, r, validate.Field("newPassword", fmt.Sprintf("min=%d", model.MinPasswordLength)), "change password")
		return
	}

	staff, err := store.GetStaff(r.Context(), h.DB, claims.StaffID)
	if err != nil {
		writeError(w, r, err, "change password")
		return
	}
	if staff == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if !auth.CheckPassword(staff.PasswordHash, req.CurrentPassword) {
		jsonError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, r, err, "change password")
		return
	}

	if err := store.UpdateStaffPassword(r.Context(), h.DB, staff.ID, hash); err != nil {
		writeError(w, r, err, "change password")
		return
	}

	slog.Info("staff changed own password", "user", staff.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}
