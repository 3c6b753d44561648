package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/orderdesk/pkg/config"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintAccessToken issues a signed JWT. Tokens are normally issued by the login service; this is used by
// tooling and tests.
func MintAccessToken(cfg config.JWTConfig, now time.Time, ttl time.Duration, payload AccessTokenPayload) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("jwt ttl must be positive")
	}
	if strings.TrimSpace(payload.Username) == "" {
		return "", fmt.Errorf("username is required")
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid role %q", payload.Role)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := AccessTokenClaims{
		Username: payload.Username,
		Role:     payload.Role,
		Branch:   payload.Branch,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   payload.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates the JWT string and returns typed claims. Signatures are verified only when a
// secret is configured; expiry is always enforced.
func ParseAccessToken(cfg config.JWTConfig, tokenString string, now time.Time) (*AccessTokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, pkgerrors.Unauthenticated("missing access token")
	}

	claims := &AccessTokenClaims{}
	if cfg.Verifies() {
		opts := []jwt.ParserOption{
			jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
			jwt.WithTimeFunc(func() time.Time { return now }),
		}
		if cfg.Issuer != "" {
			opts = append(opts, jwt.WithIssuer(cfg.Issuer))
		}
		_, err := jwt.ParseWithClaims(
			tokenString,
			claims,
			func(token *jwt.Token) (interface{}, error) {
				if token.Method != jwtSigningMethod {
					return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
				}
				return []byte(cfg.Secret), nil
			},
			opts...,
		)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, err, "invalid access token")
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, err, "malformed access token")
		}
		if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
			return nil, pkgerrors.Unauthenticated("access token expired")
		}
	}

	if strings.TrimSpace(claims.Username) == "" {
		return nil, pkgerrors.Unauthenticated("access token has no username")
	}
	if !claims.Role.IsValid() {
		return nil, pkgerrors.Unauthenticated(fmt.Sprintf("access token carries unknown role %q", claims.Role))
	}
	return claims, nil
}
