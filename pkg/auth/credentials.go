package auth

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/orderdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
)

// Credentials is the read-only identity handed over by the login service.
type Credentials struct {
	Token     string
	TokenID   string
	Username  string
	Role      enums.Role
	Branch    string
	ExpiresAt time.Time
}

// Source yields the credentials for the caller. Missing or expired credentials are Unauthenticated.
type Source interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// FromClaims builds credentials from a validated token.
func FromClaims(token string, claims *AccessTokenClaims) Credentials {
	creds := Credentials{
		Token:    token,
		Username: claims.Username,
		Role:     claims.Role,
		Branch:   claims.Branch,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		creds.ExpiresAt = claims.ExpiresAt.Time
	}
	return creds
}

func (c Credentials) expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type credentialsKey struct{}

// WithCredentials stores credentials on the request context.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFromContext returns the credentials stored by WithCredentials.
func CredentialsFromContext(ctx context.Context) (Credentials, bool) {
	if ctx == nil {
		return Credentials{}, false
	}
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok
}

// ContextSource reads the credentials placed on the context by the auth middleware.
type ContextSource struct {
	Now func() time.Time
}

func (s ContextSource) Credentials(ctx context.Context) (Credentials, error) {
	creds, ok := CredentialsFromContext(ctx)
	if !ok || creds.Token == "" || creds.Username == "" {
		return Credentials{}, pkgerrors.Unauthenticated("no credentials on request")
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if creds.expired(now()) {
		return Credentials{}, pkgerrors.Unauthenticated("access token expired")
	}
	return creds, nil
}

// StaticSource holds one set of credentials, replaced on login and cleared on logout.
type StaticSource struct {
	mu    sync.RWMutex
	creds *Credentials
	now   func() time.Time
}

func NewStaticSource(creds Credentials) *StaticSource {
	s := &StaticSource{now: time.Now}
	s.Set(creds)
	return s
}

func (s *StaticSource) Set(creds Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = &creds
}

func (s *StaticSource) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
}

func (s *StaticSource) Credentials(context.Context) (Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil || s.creds.Token == "" || s.creds.Username == "" {
		return Credentials{}, pkgerrors.Unauthenticated("not signed in")
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	if s.creds.expired(now()) {
		return Credentials{}, pkgerrors.Unauthenticated("access token expired")
	}
	return *s.creds, nil
}
