package auth

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	MethodSession = "session"
	MethodToken   = "token"
)

type User struct {
	Username     string
	PasswordHash string
	Role         string
	Email        string
	RegisteredAt time.Time
	LastLogin    time.Time
}

// Profile is the public view of a User.
type Profile struct {
	Username     string     `json:"username"`
	Role         string     `json:"role"`
	Email        *string    `json:"email"`
	RegisteredAt *time.Time `json:"registeredAt,omitempty"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

func (u User) Profile() Profile {
	p := Profile{Username: u.Username, Role: u.Role}
	if u.Email != "" {
		email := u.Email
		p.Email = &email
	}
	if !u.RegisteredAt.IsZero() {
		at := u.RegisteredAt
		p.RegisteredAt = &at
	}
	if !u.LastLogin.IsZero() {
		at := u.LastLogin
		p.LastLogin = &at
	}
	return p
}

type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	LoginTime time.Time `json:"loginTime"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Identity is the caller as resolved by any authentication strategy.
type Identity struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Method    string    `json:"method"`
	SessionID string    `json:"sessionId,omitempty"`
	LoginTime time.Time `json:"loginTime,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type Registration struct {
	Profile        Profile
	Token          string
	TokenExpiresAt time.Time
}

type LoginResult struct {
	Profile        Profile
	Token          string
	TokenExpiresAt time.Time
	Session        Session
}

type Stats struct {
	TotalUsers   int      `json:"totalUsers"`
	AdminUsers   int      `json:"adminUsers"`
	RegularUsers int      `json:"regularUsers"`
	Usernames    []string `json:"usernames"`
}
