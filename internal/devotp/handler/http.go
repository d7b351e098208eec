// Package handler serves the dev-only OTP mailbox over HTTP.
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"clearn/backend/internal/devotp"
	"clearn/backend/internal/platform/httpjson"
)

const devOTPNote = "DEV MODE ONLY"

type otpResponse struct {
	OK    bool   `json:"ok"`
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Note  string `json:"note"`
}

// Handler reads codes from a devotp.Store. Only registered when dev OTP is enabled and not production.
type Handler struct {
	store devotp.Store
}

// New returns a dev OTP handler backed by store.
func New(store devotp.Store) *Handler {
	return &Handler{store: store}
}

// Register mounts GET /dev/signup/otp.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dev/signup/otp", h.handleGetOTP)
}

// handleGetOTP returns the latest code for ?email=. 400 when email is missing, 404 if missing or expired.
func (h *Handler) handleGetOTP(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		httpjson.Fail(w, http.StatusBadRequest, "email is required")
		return
	}
	otp, ok := h.store.Get(r.Context(), email)
	if !ok {
		httpjson.Fail(w, http.StatusNotFound, "OTP not found or expired")
		return
	}
	httpjson.Write(w, http.StatusOK, otpResponse{
		OK:    true,
		Email: strings.ToLower(email),
		OTP:   otp,
		Note:  devOTPNote,
	})
}
