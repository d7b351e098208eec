package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clearn/backend/internal/audit/domain"
	auditrepo "clearn/backend/internal/audit/repository"
)

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event. LogEvent is best-effort: failures are logged and
// do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userEmail, action, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
	logger      *zerolog.Logger
	now         func() time.Time
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor, logger *zerolog.Logger) *Logger {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Logger{repo: repo, ipExtractor: ipExtractor, logger: logger, now: time.Now}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, userEmail, action, metadata string) {
	if l == nil || l.repo == nil {
		return
	}
	ip := ""
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	if ip == "" {
		ip = "unknown"
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserEmail: userEmail,
		Action:    action,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: l.now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.logger.Error().Err(err).Str("action", action).Str("user_email", userEmail).Msg("audit: failed to log event")
	}
}
