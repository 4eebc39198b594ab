package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffdesk/identity-api/internal/api/metrics"
	"github.com/staffdesk/identity-api/internal/core/domain"
	"github.com/staffdesk/identity-api/internal/core/ports"
)

type authService struct {
	users     ports.UserStore
	presence  ports.Presence
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewAuthService returns an AuthService issuing HS256 session tokens.
func NewAuthService(
	users ports.UserStore,
	presence ports.Presence,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) ports.AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		users:     users,
		presence:  presence,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates an account, grants its initial roles and opens a session.
// The founding grant (first-ever registrant receives usr, adm and Sa) is
// decided inside the store's critical section, not here.
func (s *authService) Register(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, roles, err := s.users.RegisterUser(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user, roles)
	if err != nil {
		return nil, err
	}

	s.presence.MarkOnline(user.Username)
	metrics.RegistrationsTotal.Inc()
	s.log.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Strs("roles", roles).
		Msg("user registered")

	return &domain.Session{Token: token, User: *user, Roles: roles}, nil
}

// Login verifies credentials and the account's active flag, then opens a
// session. A deactivated account never receives a token.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_password").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		return nil, domain.ErrAccountDisabled
	}

	roles, err := s.users.RolesOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(user, roles)
	if err != nil {
		return nil, err
	}

	s.presence.MarkOnline(user.Username)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user logged in")

	return &domain.Session{Token: token, User: *user, Roles: roles}, nil
}

// Logout drops the username from the presence set. Idempotent: logging out an
// absent session is a no-op, not an error.
func (s *authService) Logout(_ context.Context, username string) error {
	s.presence.MarkOffline(username)
	return nil
}

func (s *authService) issueToken(user *domain.User, roles []string) (string, error) {
	claims := jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"roles":    roles,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
