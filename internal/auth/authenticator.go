package auth

import (
	"errors"
	"net/http"
	"strings"

	"bookstore/bookstore-api/internal/apperr"
)

const SessionCookieName = "bookstore.sid"

// ErrNoCredentials is returned by a strategy when the request carries no
// credential of its kind, so a Chain can try the next one.
var ErrNoCredentials = errors.New("no credentials")

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (Identity, error)
}

type SessionValidator interface {
	ValidateSession(sessionID string) (Session, error)
}

type TokenVerifier interface {
	VerifyToken(token string) (Claims, error)
}

type SessionAuthenticator struct {
	Sessions SessionValidator
}

func (a SessionAuthenticator) Authenticate(r *http.Request) (Identity, error) {
	id := SessionIDFromRequest(r)
	if id == "" {
		return Identity{}, ErrNoCredentials
	}
	sess, err := a.Sessions.ValidateSession(id)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		Username:  sess.Username,
		Role:      sess.Role,
		Method:    MethodSession,
		SessionID: sess.ID,
		LoginTime: sess.LoginTime,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

type TokenAuthenticator struct {
	Tokens TokenVerifier
}

func (a TokenAuthenticator) Authenticate(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, ErrNoCredentials
	}
	token, err := ExtractBearerToken(header)
	if err != nil {
		return Identity{}, apperr.Auth("Access denied. No token provided.")
	}
	claims, err := a.Tokens.VerifyToken(token)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{Username: claims.Username, Role: claims.Role, Method: MethodToken}
	if claims.IssuedAt != nil {
		id.LoginTime = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Chain tries each strategy in order; the first one that finds a
// credential decides the outcome.
type Chain []Authenticator

func (c Chain) Authenticate(r *http.Request) (Identity, error) {
	for _, a := range c {
		id, err := a.Authenticate(r)
		if errors.Is(err, ErrNoCredentials) {
			continue
		}
		return id, err
	}
	return Identity{}, apperr.Auth("Authentication required. Please login.")
}

func SessionIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

func ExtractBearerToken(authHeader string) (string, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
