package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenService issues and verifies HS256 identity tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger
}

// NewTokenService creates a TokenService. It fails when the secret is empty.
func NewTokenService(secret, issuer string, ttl time.Duration, log *zap.Logger) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}, nil
}

// Issue signs a token asserting subjectID, valid for the configured lifetime.
func (s *TokenService) Issue(subjectID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Verify checks signature, issuer and expiry and returns the subject.
// Every failure is reported as ErrUnauthenticated.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		s.log.Debug("Token verification failed", zap.Error(err))
		return "", ErrUnauthenticated
	}
	if claims.Subject == "" {
		s.log.Debug("Token has no subject")
		return "", ErrUnauthenticated
	}
	return claims.Subject, nil
}
