// Package auth implements the admin login and password reset flow on top of
// a store.Directory and per-client session storage.
//
// A reset takes three calls: InitiatePasswordReset mints a ticket and returns
// its token, VerifySecurityAnswer checks the account's security answer, and
// ResetPassword redeems the token for a new password. Every call waits a fixed
// latency first so the flow behaves like a remote identity service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"movemate-admin/internal/metrics"
	"movemate-admin/internal/model"
	"movemate-admin/internal/secret"
	"movemate-admin/internal/session"
	"movemate-admin/internal/store"
)

const (
	DefaultLatency  = time.Second
	DefaultResetTTL = 30 * time.Minute
)

type Options struct {
	// Latency is waited before every flow operation. Zero disables it.
	Latency time.Duration
	// ResetTTL is how long a reset ticket stays valid.
	ResetTTL time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

type Controller struct {
	dir      store.Directory
	latency  time.Duration
	resetTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewController(dir store.Directory, opts Options) *Controller {
	c := &Controller{
		dir:      dir,
		latency:  opts.Latency,
		resetTTL: opts.ResetTTL,
		now:      opts.Now,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
	if c.resetTTL <= 0 {
		c.resetTTL = DefaultResetTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// ResetRequest is the result of a successful InitiatePasswordReset. The
// token is handed back to the caller to carry to the next step.
type ResetRequest struct {
	Token            string    `json:"token"`
	SecurityQuestion string    `json:"security_question"`
	ExpiresAt        time.Time `json:"expires_at"`
	Message          string    `json:"message"`
}

// Open restores the session persisted in durable. A stored id that no
// longer resolves to a user is discarded.
func (c *Controller) Open(ctx context.Context, durable session.Storage) (*Session, error) {
	s := &Session{c: c, storage: durable, state: StateLoggedOut}

	id, err := durable.Get(ctx, session.KeyUserID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	u, err := c.dir.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("resolve session user: %w", err)
		}
		c.logger.Warn("discarding unknown session user", "user_id", id)
		if err := durable.Clear(ctx, session.KeyUserID); err != nil {
			return nil, fmt.Errorf("clear session: %w", err)
		}
		return s, nil
	}

	s.user = u
	s.state = StateLoggedIn
	return s, nil
}

// SecurityQuestion returns the question shown on the security step.
func (c *Controller) SecurityQuestion(ctx context.Context, email string) (string, error) {
	u, err := c.dir.FindByEmail(ctx, secret.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNoAccount
		}
		return "", err
	}
	if !u.HasSecurityQuestion() {
		return "", ErrNoSecurityQuestion
	}
	return u.SecurityQuestion, nil
}

// CheckResetToken reports ErrInvalidToken unless token names an unexpired
// ticket held by the account with the given email.
func (c *Controller) CheckResetToken(ctx context.Context, email, token string) error {
	u, err := c.dir.FindByResetToken(ctx, secret.HashToken(token), c.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("find by reset token: %w", err)
	}
	if u.Email != secret.NormalizeEmail(email) {
		c.logger.Warn("reset token presented for another account", "user_id", u.ID)
		return ErrInvalidToken
	}
	return nil
}

func (c *Controller) wait(ctx context.Context) error {
	if c.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Controller) login(ctx context.Context, email, password string) (*model.AdminUser, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	u, err := c.dir.FindByCredentials(ctx, secret.NormalizeEmail(email), password)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.metrics.Login(false)
			c.logger.Info("admin login rejected", "email", secret.NormalizeEmail(email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find by credentials: %w", err)
	}

	at := c.now().UTC()
	if err := c.dir.RecordLogin(ctx, u.ID, at); err != nil {
		c.logger.Warn("record login failed", "user_id", u.ID, "error", err)
	} else {
		u.LastLoginAt = &at
	}

	c.metrics.Login(true)
	c.logger.Info("admin logged in", "user_id", u.ID, "role", string(u.Role))
	return u, nil
}

func (c *Controller) initiatePasswordReset(ctx context.Context, email string) (*ResetRequest, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	u, err := c.dir.FindByEmail(ctx, secret.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.metrics.ResetStep(metrics.StepRequest, false)
			return nil, ErrNoAccount
		}
		return nil, fmt.Errorf("find by email: %w", err)
	}
	if !u.HasSecurityQuestion() {
		c.metrics.ResetStep(metrics.StepRequest, false)
		return nil, ErrNoSecurityQuestion
	}

	token, err := secret.NewToken()
	if err != nil {
		return nil, fmt.Errorf("generate reset token: %w", err)
	}
	ticket := model.ResetTicket{
		TokenHash: secret.HashToken(token),
		ExpiresAt: c.now().Add(c.resetTTL).UTC(),
	}
	if err := c.dir.SetResetTicket(ctx, u.ID, ticket); err != nil {
		return nil, fmt.Errorf("store reset ticket: %w", err)
	}

	c.metrics.ResetStep(metrics.StepRequest, true)
	c.logger.Info("password reset requested", "user_id", u.ID, "expires_at", ticket.ExpiresAt)
	return &ResetRequest{
		Token:            token,
		SecurityQuestion: u.SecurityQuestion,
		ExpiresAt:        ticket.ExpiresAt,
		Message:          MsgResetRequested,
	}, nil
}

func (c *Controller) verifySecurityAnswer(ctx context.Context, email, answer string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}

	u, err := c.dir.FindByEmail(ctx, secret.NormalizeEmail(email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("find by email: %w", err)
	}
	if u == nil || !u.HasSecurityQuestion() || !secret.CheckAnswer(u.SecurityAnswerHash, answer) {
		c.metrics.ResetStep(metrics.StepVerify, false)
		return ErrIncorrectAnswer
	}

	c.metrics.ResetStep(metrics.StepVerify, true)
	return nil
}

func (c *Controller) resetPassword(ctx context.Context, token, newPassword string) error {
	if ve := ValidatePassword(newPassword); ve != nil {
		return ve
	}
	if err := c.wait(ctx); err != nil {
		return err
	}

	hash, err := secret.HashPassword(newPassword)
	if err != nil {
		return err
	}

	u, err := c.dir.ConsumeResetTicket(ctx, secret.HashToken(token), c.now(), hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.metrics.ResetStep(metrics.StepReset, false)
			return ErrInvalidToken
		}
		return fmt.Errorf("consume reset ticket: %w", err)
	}

	c.metrics.ResetStep(metrics.StepReset, true)
	c.logger.Info("password reset completed", "user_id", u.ID)
	return nil
}
