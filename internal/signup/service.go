package signup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"clearn/backend/internal/audit"
	auditdomain "clearn/backend/internal/audit/domain"
	"clearn/backend/internal/devotp"
	"clearn/backend/internal/metrics"
	"clearn/backend/internal/mfa"
	"clearn/backend/internal/notify"
	"clearn/backend/internal/signup/domain"
	"clearn/backend/internal/telemetry"
)

// DashboardPath is where the client goes after a successful login.
const DashboardPath = "/dashboard"

const (
	otpSubject  = "Your CLearn verification code"
	eventSource = "signup_service"
)

// PasswordHasher hashes new passwords and verifies login attempts. security.Hasher implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) bool
}

// SessionIssuer signs a session token for a confirmed user. security.SessionTokens implements it.
type SessionIssuer interface {
	Issue(userID, email string) (token string, expiresAt time.Time, err error)
}

// Result is the outcome of a request or resend. DevOTP is only set when delivery failed and the
// development fallback is enabled.
type Result struct {
	Message string
	DevOTP  string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Message    string
	RedirectTo string
	UserID     string
	Token      string
	ExpiresAt  time.Time
}

// Options carries the optional collaborators of a Service. Nil fields disable the concern.
type Options struct {
	// DevFallback returns the code to the caller when email delivery fails. Never enabled in production.
	DevFallback bool
	// DevOTPs keeps the last code per email for GET /dev/signup/otp when DevFallback is set.
	DevOTPs devotp.Store
	Metrics *metrics.Metrics
	Emitter telemetry.EventEmitter
	Audit   audit.AuditLogger
	Logger  *zerolog.Logger
}

// Service runs the email-OTP signup flow and password login.
type Service struct {
	store   *CredentialStore
	hasher  PasswordHasher
	sender  notify.Sender
	tokens  SessionIssuer
	opts    Options
	logger  *zerolog.Logger
	newCode func() (string, error)
	nowFunc func() time.Time
}

// NewService returns a Service with the given dependencies.
func NewService(store *CredentialStore, hasher PasswordHasher, sender notify.Sender, tokens SessionIssuer, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{
		store:   store,
		hasher:  hasher,
		sender:  sender,
		tokens:  tokens,
		opts:    opts,
		logger:  logger,
		newCode: mfa.GenerateOTP,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// RequestOTP validates a signup form, stores it as a pending signup with a fresh code and emails
// the code. Resubmitting for an email that is still pending replaces the earlier attempt.
func (s *Service) RequestOTP(ctx context.Context, req SignupRequest) (*Result, error) {
	if err := ValidateSignup(req); err != nil {
		s.opts.Metrics.IncOTPRequest("invalid")
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, s.internal("hash password", err)
	}
	code, err := s.newCode()
	if err != nil {
		return nil, s.internal("generate otp", err)
	}
	profile := domain.Profile{
		FullName:     req.FullName,
		Email:        req.Email,
		PresentSkill: req.PresentSkill,
		School:       req.School,
		Country:      req.Country,
		PhoneNumber:  req.PhoneNumber,
	}
	pending := domain.NewPendingSignup(profile, hash, code, s.nowFunc())

	reason, err := s.store.InsertPendingUnique(ctx, pending, req.Password)
	if err != nil {
		return nil, s.internal("insert pending signup", err)
	}
	if reason != ReasonNone {
		s.opts.Metrics.IncOTPRequest("conflict")
		return nil, newError(KindConflict, reason.Message(), nil)
	}

	s.audit(ctx, pending.Email, auditdomain.ActionSignupRequested, "")
	s.emit(telemetry.EventOTPRequested, pending.Email, nil)
	return s.deliver(ctx, pending, MsgOTPSent)
}

// ResendOTP issues a new code for a pending signup and restarts its expiry.
func (s *Service) ResendOTP(ctx context.Context, email string) (*Result, error) {
	if strings.TrimSpace(email) == "" {
		return nil, newError(KindValidation, MsgEmailRequired, nil)
	}
	code, err := s.newCode()
	if err != nil {
		return nil, s.internal("generate otp", err)
	}
	pending, err := s.store.ReissuePending(ctx, email, code, s.nowFunc())
	if err != nil {
		if errors.Is(err, ErrPendingNotFound) {
			s.opts.Metrics.IncOTPRequest("not_found")
			return nil, newError(KindNotFound, MsgNoPending, err)
		}
		return nil, s.internal("reissue pending signup", err)
	}

	s.audit(ctx, pending.Email, auditdomain.ActionOTPResent, "")
	s.emit(telemetry.EventOTPResent, pending.Email, nil)
	return s.deliver(ctx, pending, MsgOTPResent)
}

// deliver emails the pending code. The pending record is kept when delivery fails so the
// caller can resend.
func (s *Service) deliver(ctx context.Context, p *domain.PendingSignup, okMessage string) (*Result, error) {
	if s.opts.DevFallback && s.opts.DevOTPs != nil {
		s.opts.DevOTPs.Put(ctx, p.Email, p.OTPCode, p.ExpiresAt)
	}

	err := s.sender.Send(ctx, p.Email, otpSubject, otpBody(p))
	if err == nil {
		s.opts.Metrics.IncEmailDelivery("sent")
		s.opts.Metrics.IncOTPRequest("sent")
		return &Result{Message: okMessage}, nil
	}

	result := "failed"
	if errors.Is(err, notify.ErrNotConfigured) {
		result = "not_configured"
	}
	s.opts.Metrics.IncEmailDelivery(result)
	s.emit(telemetry.EventDeliveryError, p.Email, map[string]string{"result": result})
	s.logger.Warn().Err(err).Str("email", p.Email).Bool("dev_fallback", s.opts.DevFallback).Msg("otp email not delivered")

	if s.opts.DevFallback {
		s.opts.Metrics.IncOTPRequest("dev_fallback")
		return &Result{Message: MsgOTPSentDev, DevOTP: p.OTPCode}, nil
	}
	s.opts.Metrics.IncOTPRequest("delivery_failed")
	return nil, newError(KindDelivery, MsgDeliveryFailed, err)
}

func otpBody(p *domain.PendingSignup) string {
	return fmt.Sprintf("Hello %s,\n\nYour CLearn verification code is: %s\n\nIt expires in %d minutes. If you did not sign up, ignore this email.\n",
		p.FullName, p.OTPCode, int(domain.OTPTTL/time.Minute))
}

// VerifyOTP checks code against the pending signup for email. Malformed codes are rejected before
// any store access. An expired signup is purged; a wrong code leaves it in place for another try.
// On success the signup becomes a confirmed user.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*Result, error) {
	if strings.TrimSpace(email) == "" {
		return nil, newError(KindValidation, MsgEmailRequired, nil)
	}
	code, ok := mfa.NormalizeOTP(code)
	if !ok {
		s.opts.Metrics.IncOTPVerification("malformed")
		return nil, newError(KindValidation, MsgOTPFormat, nil)
	}

	user, err := s.store.VerifyAndPromote(ctx, email, s.nowFunc(), func(stored string) bool {
		return mfa.OTPEqual(code, stored)
	})
	switch {
	case errors.Is(err, ErrPendingNotFound):
		s.opts.Metrics.IncOTPVerification("not_found")
		return nil, newError(KindNotFound, MsgNoPending, err)
	case errors.Is(err, ErrPendingExpired):
		s.opts.Metrics.IncOTPVerification("expired")
		s.forgetDevOTP(ctx, email)
		s.emit(telemetry.EventOTPExpired, domain.NormalizeEmail(email), nil)
		return nil, newError(KindExpired, MsgOTPExpired, err)
	case errors.Is(err, ErrCodeMismatch):
		s.opts.Metrics.IncOTPVerification("invalid")
		s.emit(telemetry.EventOTPRejected, domain.NormalizeEmail(email), nil)
		return nil, newError(KindValidation, MsgInvalidOTP, err)
	case err != nil:
		return nil, s.internal("verify otp", err)
	}

	s.opts.Metrics.IncOTPVerification("verified")
	s.forgetDevOTP(ctx, user.Email)
	s.audit(ctx, user.Email, auditdomain.ActionSignupVerified, "user_id="+user.ID)
	s.emit(telemetry.EventOTPVerified, user.Email, map[string]string{"user_id": user.ID})
	return &Result{Message: MsgVerified}, nil
}

func (s *Service) forgetDevOTP(ctx context.Context, email string) {
	if s.opts.DevOTPs != nil {
		s.opts.DevOTPs.Delete(ctx, email)
	}
}

// Login checks email and password against the confirmed users and issues a session token.
// Unknown emails and wrong passwords get the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, newError(KindValidation, MsgLoginRequired, nil)
	}

	user, err := s.store.GetUser(ctx, email)
	if err != nil {
		return nil, s.internal("get user", err)
	}
	if user == nil || !s.hasher.Matches(user.PasswordHash, password) {
		s.opts.Metrics.IncLogin("failure")
		s.audit(ctx, email, auditdomain.ActionLoginFailure, "")
		s.emit(telemetry.EventLoginFailure, email, nil)
		return nil, newError(KindAuth, MsgBadCredentials, nil)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, s.internal("issue session token", err)
	}
	s.opts.Metrics.IncLogin("success")
	s.audit(ctx, user.Email, auditdomain.ActionLoginSuccess, "user_id="+user.ID)
	s.emit(telemetry.EventLoginSuccess, user.Email, map[string]string{"user_id": user.ID})
	return &LoginResult{
		Message:    MsgLoggedIn,
		RedirectTo: DashboardPath,
		UserID:     user.ID,
		Token:      token,
		ExpiresAt:  expiresAt,
	}, nil
}

// Profile returns the confirmed user for email.
func (s *Service) Profile(ctx context.Context, email string) (*domain.ConfirmedUser, error) {
	user, err := s.store.GetUser(ctx, email)
	if err != nil {
		return nil, s.internal("get user", err)
	}
	if user == nil {
		return nil, newError(KindNotFound, MsgNoAccount, nil)
	}
	return user, nil
}

func (s *Service) audit(ctx context.Context, email, action, metadata string) {
	if s.opts.Audit != nil {
		s.opts.Audit.LogEvent(ctx, email, action, metadata)
	}
}

func (s *Service) emit(eventType, email string, attrs map[string]string) {
	telemetry.EmitAsync(s.opts.Emitter, telemetry.Event{
		Type:       eventType,
		Email:      email,
		Source:     eventSource,
		Attributes: attrs,
		CreatedAt:  s.nowFunc(),
	})
}

func (s *Service) internal(op string, err error) error {
	s.logger.Error().Err(err).Str("op", op).Msg("signup: internal error")
	return newError(KindInternal, MsgInternal, fmt.Errorf("%s: %w", op, err))
}
