package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bookstore/bookstore-api/internal/apperr"
)

const minPasswordLength = 6

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// Same message for unknown user and wrong password.
const invalidCredentialsMessage = "Invalid username or password"

type Service struct {
	users      UserStore
	sessions   SessionStore
	tokens     *TokenIssuer
	sessionTTL time.Duration
	cost       int
	nowFunc    func() time.Time
}

type ServiceConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
	SessionTTL  time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

func NewService(users UserStore, sessions SessionStore, cfg ServiceConfig) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session TTL must be > 0")
	}
	tokens, err := NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be within [%d,%d]", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &Service{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: cfg.SessionTTL,
		cost:       cost,
		nowFunc:    time.Now,
	}, nil
}

// ValidUsername reports whether username fits the account naming rule.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func (s *Service) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (s *Service) VerifyPassword(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}

func (s *Service) Register(username, password, email string) (Registration, error) {
	if username == "" || password == "" {
		return Registration{}, apperr.Validation("Username and password are required")
	}
	if _, err := s.users.Get(username); err == nil {
		return Registration{}, apperr.Conflict("Username already exists. Please choose a different username.")
	}
	if len(password) < minPasswordLength {
		return Registration{}, apperr.Validation("Password must be at least %d characters long", minPasswordLength)
	}
	if !ValidUsername(username) {
		return Registration{}, apperr.Validation("Username must be 3-20 characters long and contain only letters, numbers, and underscores")
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return Registration{}, err
	}
	u := User{
		Username:     username,
		PasswordHash: hash,
		Role:         RoleUser,
		Email:        email,
		RegisteredAt: s.nowFunc().UTC(),
	}
	if err := s.users.Create(u); err != nil {
		if errors.Is(err, ErrUserExists) {
			return Registration{}, apperr.Conflict("Username already exists. Please choose a different username.")
		}
		return Registration{}, fmt.Errorf("store user: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(u.Username, u.Role)
	if err != nil {
		return Registration{}, err
	}
	return Registration{Profile: u.Profile(), Token: token, TokenExpiresAt: expiresAt}, nil
}

// Login checks credentials, opens a session and issues a bearer token.
// The session and the token are independent credentials.
func (s *Service) Login(username, password string) (LoginResult, error) {
	if username == "" || password == "" {
		return LoginResult{}, apperr.Validation("Username and password are required")
	}
	u, err := s.users.Get(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, apperr.Auth(invalidCredentialsMessage)
		}
		return LoginResult{}, fmt.Errorf("get user: %w", err)
	}
	if !s.VerifyPassword(password, u.PasswordHash) {
		return LoginResult{}, apperr.Auth(invalidCredentialsMessage)
	}

	token, tokenExpiresAt, err := s.tokens.Issue(u.Username, u.Role)
	if err != nil {
		return LoginResult{}, err
	}

	now := s.nowFunc().UTC()
	session := Session{
		ID:        uuid.NewString(),
		Username:  u.Username,
		Role:      u.Role,
		LoginTime: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(session); err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	u, err = s.users.TouchLogin(u.Username, now)
	if err != nil {
		return LoginResult{}, fmt.Errorf("update last login: %w", err)
	}

	return LoginResult{
		Profile:        u.Profile(),
		Token:          token,
		TokenExpiresAt: tokenExpiresAt,
		Session:        session,
	}, nil
}

// Logout destroys the session and reports whether one existed. Unknown
// or empty IDs are not an error.
func (s *Service) Logout(sessionID string) bool {
	if sessionID == "" {
		return false
	}
	return s.sessions.Delete(sessionID)
}

func (s *Service) ValidateSession(sessionID string) (Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return Session{}, apperr.Auth("Authentication required. Please login.")
	}
	if s.nowFunc().After(session.ExpiresAt) {
		s.sessions.Delete(sessionID)
		return Session{}, apperr.Auth("Session expired. Please login again.")
	}
	return session, nil
}

func (s *Service) VerifyToken(token string) (Claims, error) {
	return s.tokens.Parse(token)
}

// UsernameAvailable reports whether username is free to register.
func (s *Service) UsernameAvailable(username string) bool {
	_, err := s.users.Get(username)
	return errors.Is(err, ErrUserNotFound)
}

func (s *Service) Profile(username string) (Profile, error) {
	u, err := s.users.Get(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Profile{}, apperr.NotFound("User not found: %s", username)
		}
		return Profile{}, fmt.Errorf("get user: %w", err)
	}
	return u.Profile(), nil
}

func (s *Service) Stats() Stats {
	users := s.users.List()
	st := Stats{TotalUsers: len(users), Usernames: make([]string, 0, len(users))}
	for _, u := range users {
		if u.Role == RoleAdmin {
			st.AdminUsers++
		}
		st.Usernames = append(st.Usernames, u.Username)
	}
	st.RegularUsers = st.TotalUsers - st.AdminUsers
	return st
}

// AuthorizeOwnership allows a review mutation only when the acting user
// is the review's author.
func AuthorizeOwnership(acting, target string) error {
	if acting == "" || acting != target {
		return apperr.Forbidden("Access denied. You can only modify your own reviews.")
	}
	return nil
}
