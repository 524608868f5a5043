// Package job runs periodic maintenance next to the HTTP server.
package job

import (
	"context"
	"errors"
	"fmt"

	"travel-agency/internal/data/repository"

	"go.uber.org/zap"
)

// Cleanup removes expired sessions and one-time passwords.
type Cleanup struct {
	sessions repository.SessionRepository
	otps     repository.OTPRepository
	log      *zap.Logger
}

func NewCleanup(repo *repository.Repository, log *zap.Logger) *Cleanup {
	return &Cleanup{
		sessions: repo.Session,
		otps:     repo.OTP,
		log:      log.With(zap.String("job", "cleanup")),
	}
}

func (c *Cleanup) Name() string { return "cleanup" }

// Run tries both deletions even when the first one fails.
func (c *Cleanup) Run(ctx context.Context) error {
	var errs []error

	sessions, err := c.sessions.CleanExpiredSessions(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("clean sessions: %w", err))
	}

	otps, err := c.otps.DeleteExpired(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("clean otps: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	c.log.Info("Expired credentials removed",
		zap.Int64("sessions", sessions),
		zap.Int64("otps", otps),
	)
	return nil
}
