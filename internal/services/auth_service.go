package services

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type authServiceImpl struct {
	logger        zerolog.Logger
	jwtSigningKey []byte
	jwtIssuer     string
	jwtAudience   string
}

// NewAuthService verifies tokens minted by the identity provider. Empty
// issuer or audience disables the corresponding claim check.
func NewAuthService(
	logger zerolog.Logger,
	jwtSigningKey []byte,
	jwtIssuer string,
	jwtAudience string,
) AuthService {
	return &authServiceImpl{
		logger:        logger,
		jwtSigningKey: jwtSigningKey,
		jwtIssuer:     jwtIssuer,
		jwtAudience:   jwtAudience,
	}
}

func (s *authServiceImpl) VerifyAccessToken(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if s.jwtIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.jwtIssuer))
	}
	if s.jwtAudience != "" {
		opts = append(opts, jwt.WithAudience(s.jwtAudience))
	}

	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug().
				Err(err).
				Msg("token is expired")
			return "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}

		s.logger.Debug().
			Err(err).
			Msg("failed to parse token")
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		s.logger.Debug().
			Msg("token has no subject")
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
