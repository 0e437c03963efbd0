package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-cms-auth/internal/types"
)

// ResetNotifier delivers password reset tokens out of band.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, account *types.Account, token string, expiresAt time.Time) error
}

var _ ResetNotifier = (*LogNotifier)(nil)

// LogNotifier records reset dispatches in the log instead of sending mail.
// The token itself is never logged.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, account *types.Account, _ string, expiresAt time.Time) error {
	n.logger.InfoContext(ctx, "Password reset requested",
		slog.Int64("accountID", account.ID),
		slog.String("email", account.Email),
		slog.Time("expiresAt", expiresAt),
	)
	return nil
}
