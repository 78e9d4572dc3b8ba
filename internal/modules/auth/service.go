package auth

import (
	"context"
	"errors"
	"time"

	"hotelfront/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

// Service authenticates staff accounts.
type Service struct {
	users   UserRepository
	jwt     tokenIssuer
	now     func() time.Time
	loggerf func(format string, args ...interface{})
}

func NewService(users UserRepository, jwt tokenIssuer, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{users: users, jwt: jwt, now: time.Now, loggerf: loggerf}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		attempts, recErr := s.users.RecordFailedLogin(ctx, user.ID, maxFailedLoginAttempts, now.Add(lockoutDuration))
		if recErr != nil {
			return nil, recErr
		}
		s.loggerf("level=warn msg=login failed user_id=%d attempts=%d", user.ID, attempts)
		if attempts >= maxFailedLoginAttempts {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.users.ResetFailedLogins(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Name, string(user.Role))
	if err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=login user_id=%d role=%s", user.ID, user.Role)
	return &LoginResponse{
		User:        toPublic(user),
		AccessToken: token,
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
	}, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*UserPublic, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	pub := toPublic(user)
	return &pub, nil
}
