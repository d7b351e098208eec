// Package handler serves the signup and login JSON endpoints.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"clearn/backend/internal/platform/httpjson"
	"clearn/backend/internal/server/middleware"
	"clearn/backend/internal/signup"
	"clearn/backend/internal/signup/domain"
)

//go:generate mockgen -source=http.go -destination=mocks/mock_service.go -package=mocks Service

// Service is the signup flow the handler drives. *signup.Service implements it.
type Service interface {
	RequestOTP(ctx context.Context, req signup.SignupRequest) (*signup.Result, error)
	ResendOTP(ctx context.Context, email string) (*signup.Result, error)
	VerifyOTP(ctx context.Context, email, code string) (*signup.Result, error)
	Login(ctx context.Context, email, password string) (*signup.LoginResult, error)
	Profile(ctx context.Context, email string) (*domain.ConfirmedUser, error)
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	DevOTP  string `json:"devOtp,omitempty"`
}

type loginResponse struct {
	OK         bool   `json:"ok"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo"`
}

type profileResponse struct {
	OK           bool      `json:"ok"`
	ID           string    `json:"id"`
	FullName     string    `json:"fullname"`
	Email        string    `json:"email"`
	PresentSkill string    `json:"presentSkillCareer"`
	School       string    `json:"school"`
	Country      string    `json:"country"`
	PhoneNumber  string    `json:"phoneNumber"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Handler maps HTTP requests onto the signup Service.
type Handler struct {
	svc          Service
	tokens       middleware.TokenValidator
	secureCookie bool
	logger       *zerolog.Logger
}

// New returns a signup handler. tokens guards GET /me; secureCookie marks the session cookie Secure.
func New(svc Service, tokens middleware.TokenValidator, secureCookie bool, logger *zerolog.Logger) *Handler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handler{svc: svc, tokens: tokens, secureCookie: secureCookie, logger: logger}
}

// Register mounts the signup, login and profile routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/signup/request-otp", h.handleRequestOTP)
	r.Post("/signup/resend-otp", h.handleResendOTP)
	r.Post("/signup/verify-otp", h.handleVerifyOTP)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.With(middleware.RequireSession(h.tokens)).Get("/me", h.handleMe)
}

func (h *Handler) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req signup.SignupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, signup.MsgInvalidBody)
		return
	}
	res, err := h.svc.RequestOTP(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, otpResponse{OK: true, Message: res.Message, DevOTP: res.DevOTP})
}

func (h *Handler) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, signup.MsgInvalidBody)
		return
	}
	res, err := h.svc.ResendOTP(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, otpResponse{OK: true, Message: res.Message, DevOTP: res.DevOTP})
}

func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, signup.MsgInvalidBody)
		return
	}
	res, err := h.svc.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.OK(w, res.Message)
}

// handleLogin returns the redirect target and sets the session cookie. The token itself only
// travels in the HttpOnly cookie.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Fail(w, http.StatusBadRequest, signup.MsgInvalidBody)
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpjson.Write(w, http.StatusOK, loginResponse{
		OK:         true,
		Message:    res.Message,
		RedirectTo: res.RedirectTo,
	})
}

// handleLogout clears the session cookie. Tokens are stateless and stay valid until they expire.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpjson.OK(w, "Logged out.")
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.GetEmail(r.Context())
	u, err := h.svc.Profile(r.Context(), email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, profileResponse{
		OK:           true,
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		PresentSkill: u.PresentSkill,
		School:       u.School,
		Country:      u.Country,
		PhoneNumber:  u.PhoneNumber,
		CreatedAt:    u.CreatedAt,
	})
}

// writeError maps a signup.Error onto its status and message. Anything else is a 500 with a
// generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var e *signup.Error
	if !errors.As(err, &e) {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("unhandled signup error")
		httpjson.Fail(w, http.StatusInternalServerError, signup.MsgInternal)
		return
	}
	status := e.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Str("kind", e.Kind.String()).Msg("signup request failed")
	}
	httpjson.Fail(w, status, e.Message)
}
