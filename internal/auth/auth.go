// Package auth signs users in to the inventory dashboard.
//
// The only implementation is simulated: any well-formed email logs in and the
// role is derived from the address. Accounts created with SignUp are kept in
// memory for the lifetime of the process, with bcrypt password hashes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrMissingPassword = errors.New("password is required")
	ErrMissingName     = errors.New("name is required")
	ErrInvalidRole     = errors.New("role must be USER or ADMIN")
	ErrEmailTaken      = errors.New("an account with this email already exists")
)

var reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole parses a role name, ignoring case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// User is a signed-in dashboard user.
type User struct {
	ID     string
	Name   string
	Email  string
	Role   Role
	Avatar string
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Authenticator verifies credentials and returns the signed-in user.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, name, email, password string, role Role) (*User, error)
}

type account struct {
	user *User
	hash []byte
}

// SimulatedAuthenticator stands in for a real credential service.
type SimulatedAuthenticator struct {
	mu       sync.RWMutex
	accounts map[string]account // keyed by lower-case email
	cost     int
}

// NewSimulatedAuthenticator creates an authenticator with an empty account registry.
func NewSimulatedAuthenticator() *SimulatedAuthenticator {
	return &SimulatedAuthenticator{
		accounts: make(map[string]account),
		cost:     bcrypt.DefaultCost,
	}
}

// Login signs a user in. Registered accounts must present the password they
// signed up with. Any other well-formed email is accepted: the name is the
// local part of the address and the role is ADMIN when the address contains
// "admin".
func (a *SimulatedAuthenticator) Login(ctx context.Context, email, password string) (*User, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}

	a.mu.RLock()
	acc, ok := a.accounts[strings.ToLower(email)]
	a.mu.RUnlock()

	if ok {
		if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
			log.Info().Str("email", email).Msg("login rejected")
			return nil, ErrBadCredentials
		}
		u := *acc.user
		return &u, nil
	}

	role := RoleUser
	if strings.Contains(email, "admin") {
		role = RoleAdmin
	}
	localPart, _, _ := strings.Cut(email, "@")
	return newUser(localPart, email, role), nil
}

// SignUp registers an account with the given name and role.
func (a *SimulatedAuthenticator) SignUp(ctx context.Context, name, email, password string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}
	if role != RoleUser && role != RoleAdmin {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	key := strings.ToLower(email)
	if _, exists := a.accounts[key]; exists {
		return nil, ErrEmailTaken
	}
	u := newUser(name, email, role)
	a.accounts[key] = account{user: u, hash: hash}
	log.Info().Str("email", email).Str("role", string(role)).Msg("account registered")

	copied := *u
	return &copied, nil
}

func validateCredentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if len(email) > 254 || !reEmail.MatchString(email) {
		return "", ErrInvalidEmail
	}
	if password == "" {
		return "", ErrMissingPassword
	}
	return email, nil
}

func newUser(name, email string, role Role) *User {
	return &User{
		ID:     randomID(),
		Name:   name,
		Email:  email,
		Role:   role,
		Avatar: "https://picsum.photos/seed/" + url.PathEscape(email) + "/100",
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomID() string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}
