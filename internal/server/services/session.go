// Package services contains server-side business logic. This file implements
// SessionService, which handles registration, login, credential verification,
// and profile updates for the session authority.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dkarpov/reelmark/internal/common"
	"github.com/dkarpov/reelmark/internal/logging"
	"github.com/dkarpov/reelmark/internal/server/auth"
	"github.com/dkarpov/reelmark/internal/server/config"
	"github.com/dkarpov/reelmark/internal/server/models"
	"github.com/dkarpov/reelmark/internal/server/ratelimit"
	"github.com/dkarpov/reelmark/internal/server/repositories/users"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// dummyHash is a bcrypt hash compared against when the email is unknown, so
// login timing does not reveal whether an account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// ProfilePatch describes a partial profile update. Empty fields are left
// unchanged. Setting NewPassword requires the correct CurrentPassword.
type ProfilePatch struct {
	UserName        string
	Email           string
	CurrentPassword string
	NewPassword     string
}

// SessionService provides the session authority operations:
//   - Register: create a user and issue a credential
//   - Login: verify email/password and issue a credential
//   - Verify: validate a credential and resolve its user
//   - UpdateProfile: patch username/email/password
type SessionService struct {
	users         users.Repository
	limiter       *ratelimit.LoginLimiter
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

// NewSessionService constructs a SessionService using the users repository,
// an optional login limiter (nil disables throttling), and server config.
func NewSessionService(repo users.Repository, limiter *ratelimit.LoginLimiter, cfg *config.Config, logger logging.Logger) *SessionService {
	return &SessionService{
		users:         repo,
		limiter:       limiter,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		logger:        logger.With("module", "session_service"),
	}
}

// Register creates a new user and returns it along with a fresh credential.
// A duplicate email yields common.ErrEmailTaken, broken input
// common.ErrValidation.
func (s *SessionService) Register(ctx context.Context, userName, email, password string) (*models.User, string, error) {
	if err := validateRegistration(userName, email, password); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user, err := s.users.Create(ctx, &models.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, "", common.ErrEmailTaken
		}
		s.logger.Error(ctx, "user creation failed", "error", err)
		return nil, "", common.ErrorInternal
	}

	token, err := s.issueCredential(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies the email/password pair and returns the user with a fresh
// credential. Unknown email and wrong password both yield
// common.ErrInvalidCredentials with identical timing characteristics.
func (s *SessionService) Login(ctx context.Context, email, password, sourceIP string) (*models.User, string, error) {
	if err := s.limiter.Allow(ctx, email, sourceIP); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same bcrypt work as a real comparison
			auth.CheckPassword(dummyHash, password)
			return nil, "", common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, "", common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", common.ErrInvalidCredentials
	}

	s.limiter.Reset(ctx, email)

	token, err := s.issueCredential(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Verify validates a credential's signature and expiry and resolves the
// subject user. A valid signature over a since-deleted user still fails.
func (s *SessionService) Verify(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	return user, nil
}

// UpdateProfile applies a partial update to the user record. Changing the
// password requires the correct current password; changing the email to one
// owned by another user yields common.ErrEmailTaken.
func (s *SessionService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if patch.NewPassword != "" {
		if !auth.CheckPassword(user.PasswordHash, patch.CurrentPassword) {
			return nil, common.ErrInvalidCredentials
		}
		if len(patch.NewPassword) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", common.ErrValidation)
		}
		hash, err := auth.HashPassword(patch.NewPassword)
		if err != nil {
			return nil, common.ErrorInternal
		}
		user.PasswordHash = hash
	}

	if patch.UserName != "" {
		if len(patch.UserName) < 3 {
			return nil, fmt.Errorf("%w: username must be at least 3 characters", common.ErrValidation)
		}
		user.UserName = patch.UserName
	}

	if patch.Email != "" && patch.Email != user.Email {
		if !emailRe.MatchString(patch.Email) {
			return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
		}
		user.Email = patch.Email
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ErrEmailTaken
		}
		s.logger.Error(ctx, "user update failed", "error", err)
		return nil, common.ErrorInternal
	}

	return updated, nil
}

func (s *SessionService) issueCredential(user *models.User) (string, error) {
	token, err := auth.GenerateToken(user.ID, user.UserName, user.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

func validateRegistration(userName, email, password string) error {
	if len(userName) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters", common.ErrValidation)
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", common.ErrValidation)
	}
	return nil
}
