package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-digest/internal/config"
	"quiz-digest/internal/domain"
	"quiz-digest/internal/dto"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityService verifies bearer tokens issued by the identity provider.
type IdentityService interface {
	VerifyToken(ctx context.Context, tokenString string) (*dto.IdentityClaims, error)
	// IssueToken signs a token for userID. Used for local development and tests.
	IssueToken(userID string, ttl time.Duration) (string, error)
}

type identityService struct {
	secret []byte
	cfg    config.AuthConfig
	parser *jwt.Parser
}

func NewIdentityService(cfg config.AuthConfig) (IdentityService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &identityService{
		secret: []byte(cfg.JWTSecret),
		cfg:    cfg,
		parser: jwt.NewParser(opts...),
	}, nil
}

// VerifyToken implements IdentityService
func (s *identityService) VerifyToken(ctx context.Context, tokenString string) (*dto.IdentityClaims, error) {
	claims := &dto.IdentityClaims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		unauthorized := domain.NewUnauthorizedError("Invalid or expired token")
		unauthorized.Cause = err
		return nil, unauthorized
	}
	if !token.Valid {
		return nil, domain.NewUnauthorizedError("Invalid or expired token")
	}
	if claims.UserID() == "" {
		return nil, domain.NewUnauthorizedError("Token has no subject")
	}
	return claims, nil
}

// IssueToken implements IdentityService
func (s *identityService) IssueToken(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user ID is required")
	}
	now := time.Now()
	claims := dto.IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if s.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.cfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
