package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
	"github.com/staffboard/todo-system/internal/pkg/metrics"
	"github.com/staffboard/todo-system/internal/pkg/token"
)

// dummyHash is compared against when the username is unknown so that both
// failure paths pay the same bcrypt cost.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)

// AuthService issues tokens and registers credentials.
type AuthService struct {
	repo   ports.UserRepository
	signer *token.Signer
	now    func() time.Time
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, signer *token.Signer, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, signer: signer, now: time.Now, log: log}
}

// Register stores a new credential record. The role defaults to Employee.
// The username pre-check only yields an early answer; concurrent inserts are
// settled by the store's unique indexes.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" || in.Password == "" || in.Email == "" {
		return fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}

	role := domain.RoleEmployee
	if in.Role != "" {
		r, err := domain.ParseRole(in.Role)
		if err != nil {
			return err
		}
		role = r
	}

	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if _, err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrDuplicateEmail) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return err
		}
		return fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("username", user.Username).Str("role", role.String()).Msg("user registered")
	return nil
}

// Login verifies credentials and issues a signed token. Unknown usernames and
// wrong passwords return the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.TokenResult, error) {
	if username == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRole) {
			s.log.Warn().Err(err).Str("username", username).Msg("stored user has an unknown role")
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	signed, expires, err := s.signer.Issue(user, s.now())
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues(user.Role.String()).Inc()

	return &ports.TokenResult{
		Token:      signed,
		Expiration: expires,
		Username:   user.Username,
		Role:       user.Role,
	}, nil
}
