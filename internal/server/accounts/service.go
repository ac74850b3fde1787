// Package accounts contains the credential-issuance and recovery core:
// account creation, credential verification, session-token issuance, and
// the OTP password-recovery flow.
package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/datalyst-app/authd/internal/common"
	"github.com/datalyst-app/authd/internal/cryptox"
	"github.com/datalyst-app/authd/internal/logging"
	"github.com/datalyst-app/authd/internal/otp"
	"github.com/datalyst-app/authd/internal/server/auth"
	"github.com/datalyst-app/authd/internal/server/config"
	"github.com/datalyst-app/authd/internal/server/mail"
)

// Service implements the four auth operations against a Repository and a
// mail.Sender. All dependencies are fixed at construction and safe for
// concurrent use.
type Service struct {
	repo                  Repository
	sender                mail.Sender
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	storeTimeout          time.Duration
	mailTimeout           time.Duration
}

func NewService(repo Repository, sender mail.Sender, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:                  repo,
		sender:                sender,
		logger:                logger.With("module", "accounts"),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		storeTimeout:          cfg.StoreTimeout,
		mailTimeout:           cfg.MailTimeout,
	}
}

// storeCtx bounds a repository call. Repository and mail calls never block
// past their configured timeout.
func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// SignUp creates an account with a freshly hashed credential. The password
// is hashed before any write, so a hashing failure leaves no record behind;
// duplicate emails are rejected by the store's unique constraint.
func (s *Service) SignUp(ctx context.Context, email, firstName, lastName, password string) (string, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return "", common.ErrorInternal
	}

	account := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	if _, err := s.repo.Create(storeCtx, account); err != nil {
		if errors.Is(err, common.ErrorAccountExists) {
			return "", common.ErrorAccountExists
		}
		s.logger.Error(ctx, "account insert failed", "error", err)
		return "", common.ErrorUnavailable
	}

	s.logger.Info(ctx, "account created", "email", email)
	return "User signed up successfully", nil
}

// SignIn verifies the credentials and issues a signed session token. An
// unknown email and a wrong password produce the same error, so responses
// do not reveal whether an account exists.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	account, err := s.repo.GetByEmail(storeCtx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return "", common.ErrorUnavailable
	}

	ok, err := cryptox.VerifyPassword(account.PasswordHash, password)
	if err != nil {
		s.logger.Error(ctx, "stored hash unreadable", "email", email, "error", err)
		return "", common.ErrorInternal
	}
	if !ok {
		return "", common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(account.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err)
		return "", common.ErrorInternal
	}

	return token, nil
}

// RequestRecovery generates a fresh recovery code, persists it (replacing
// any pending code), and mails it to the account. Mail delivery is best
// effort: the code is already persisted, so a failed send is logged and the
// operation still succeeds.
func (s *Service) RequestRecovery(ctx context.Context, email string) (string, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	if _, err := s.repo.GetByEmail(storeCtx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return "", common.ErrorUnavailable
	}

	code, err := otp.Generate(otp.CodeLength)
	if err != nil {
		s.logger.Error(ctx, "otp generation failed", "error", err)
		return "", common.ErrorInternal
	}

	writeCtx, cancelWrite := s.storeCtx(ctx)
	defer cancelWrite()

	if err := s.repo.SetRecoveryCode(writeCtx, email, code); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		s.logger.Error(ctx, "recovery code persist failed", "error", err)
		return "", common.ErrorUnavailable
	}

	subject, body := mail.RecoveryMessage(code)

	mailCtx := ctx
	if s.mailTimeout > 0 {
		var cancelMail context.CancelFunc
		mailCtx, cancelMail = context.WithTimeout(ctx, s.mailTimeout)
		defer cancelMail()
	}

	if err := s.sender.Send(mailCtx, email, subject, body); err != nil {
		s.logger.Warn(ctx, "recovery email delivery failed", "email", email, "error", err)
	} else {
		s.logger.Info(ctx, "recovery email sent", "email", email)
	}

	return "Password reset email sent", nil
}

// ConfirmRecovery exchanges a pending recovery code for a new credential.
// The repository write is conditional on the stored code still matching, so
// a code is consumed exactly once and a stale code cannot be confirmed.
func (s *Service) ConfirmRecovery(ctx context.Context, email, code, newPassword string) (string, error) {
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return "", common.ErrorInternal
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.repo.ResetPassword(storeCtx, email, code, hash); err != nil {
		if errors.Is(err, common.ErrorInvalidRecoveryCode) {
			return "", common.ErrorInvalidRecoveryCode
		}
		s.logger.Error(ctx, "password reset failed", "error", err)
		return "", common.ErrorUnavailable
	}

	s.logger.Info(ctx, "password reset", "email", email)
	return "Password reset successfully", nil
}

// GetProfile returns the account for an authenticated subject.
func (s *Service) GetProfile(ctx context.Context, email string) (*Account, error) {
	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	account, err := s.repo.GetByEmail(storeCtx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrorUnavailable
	}

	return account, nil
}
