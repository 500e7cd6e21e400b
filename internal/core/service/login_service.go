package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
	"github.com/staffboard/todo-system/internal/pkg/metrics"
	"github.com/staffboard/todo-system/internal/pkg/token"
)

// LoginService turns credentials into a local session by asking the remote
// issuer for a token and validating it locally with the shared key.
type LoginService struct {
	issuer ports.TokenIssuer
	key    []byte
	now    func() time.Time
	log    zerolog.Logger
}

func NewLoginService(issuer ports.TokenIssuer, key []byte, log zerolog.Logger) *LoginService {
	return &LoginService{issuer: issuer, key: key, now: time.Now, log: log}
}

// Login returns the session to establish, or one of domain.ErrServiceUnavailable,
// domain.ErrInvalidCredentials or domain.ErrInternal.
func (s *LoginService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	res, err := s.issuer.Login(ctx, username, password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrIssuerUnreachable):
		s.log.Warn().Err(err).Str("username", username).Msg("token issuer unreachable")
		metrics.SessionLoginsTotal.WithLabelValues("unavailable").Inc()
		return nil, domain.ErrServiceUnavailable
	case errors.Is(err, domain.ErrIssuerRejected):
		metrics.SessionLoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	default:
		s.log.Error().Err(err).Str("username", username).Msg("login via token issuer failed")
		metrics.SessionLoginsTotal.WithLabelValues("error").Inc()
		return nil, domain.ErrInternal
	}

	if res == nil || res.Token == "" {
		metrics.SessionLoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	claims, err := token.ValidateAt(res.Token, s.key, s.now())
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("issuer token failed local validation")
		metrics.SessionLoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	metrics.SessionLoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", claims.Subject).Str("role", claims.Role.String()).Msg("session established")

	return &domain.Session{
		Username:  claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
