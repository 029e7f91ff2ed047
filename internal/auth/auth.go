// Package auth checks the single administrator credential and keeps the
// signed-in session in two storage keys next to the record partitions.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/temple/internal/recordstore"
	"github.com/mesh-intelligence/temple/pkg/types"
)

// Built-in credentials used when none are configured.
const (
	DefaultUsername = "admin"
	defaultPassword = "admin123"
)

// Config holds the administrator credential. An empty PasswordHash falls
// back to the built-in default password.
type Config struct {
	Username     string
	PasswordHash string
}

// Service performs login and logout against a record store.
type Service struct {
	store    *recordstore.Store
	username string
	hash     []byte
	log      zerolog.Logger
	now      func() time.Time
}

// New returns a Service for cfg. A configured hash must be a bcrypt hash.
func New(store *recordstore.Store, cfg Config, logger zerolog.Logger) (*Service, error) {
	s := &Service{
		store:    store,
		username: cfg.Username,
		log:      logger.With().Str("component", "auth").Logger(),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
	if s.username == "" {
		s.username = DefaultUsername
	}

	if cfg.PasswordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hashing default password: %w", err)
		}
		s.hash = hash
		s.log.Warn().
			Str("username", s.username).
			Msg("No admin password hash configured; using the built-in default password")
		return s, nil
	}

	if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidPasswordHash, err)
	}
	s.hash = []byte(cfg.PasswordHash)
	return s, nil
}

// HashPassword returns a bcrypt hash of password suitable for the
// admin_password_hash setting. cost 0 means bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Login checks the credentials and, on success, stores a fresh token and
// the current user. Failure returns types.ErrInvalidCredentials and leaves
// any existing session in place.
func (s *Service) Login(username, password string) (types.Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.hash, []byte(password))
	if !userOK || passErr != nil {
		s.log.Warn().Str("username", username).Msg("Login failed")
		return types.Session{}, types.ErrInvalidCredentials
	}

	session := types.Session{
		Token: uuid.NewString(),
		User: types.User{
			Username:   s.username,
			Role:       types.RoleAdmin,
			LoggedInAt: s.now(),
		},
	}
	if err := s.store.WriteValue(types.AuthTokenKey, session.Token); err != nil {
		return types.Session{}, fmt.Errorf("storing token: %w", err)
	}
	if err := s.store.WriteValue(types.CurrentUserKey, session.User); err != nil {
		return types.Session{}, fmt.Errorf("storing current user: %w", err)
	}
	s.log.Info().Str("username", s.username).Msg("Logged in")
	return session, nil
}

// Logout removes the stored token and user. Logging out without a session
// is not an error.
func (s *Service) Logout() error {
	return errors.Join(
		s.store.Remove(types.AuthTokenKey),
		s.store.Remove(types.CurrentUserKey),
	)
}

// Session returns the stored session, or types.ErrNotLoggedIn.
func (s *Service) Session() (types.Session, error) {
	var session types.Session
	found, err := s.store.ReadValue(types.AuthTokenKey, &session.Token)
	if err != nil {
		return types.Session{}, err
	}
	if !found || session.Token == "" {
		return types.Session{}, types.ErrNotLoggedIn
	}
	found, err = s.store.ReadValue(types.CurrentUserKey, &session.User)
	if err != nil {
		return types.Session{}, err
	}
	if !found {
		return types.Session{}, types.ErrNotLoggedIn
	}
	return session, nil
}

// CurrentUser returns the signed-in user, or types.ErrNotLoggedIn.
func (s *Service) CurrentUser() (types.User, error) {
	session, err := s.Session()
	return session.User, err
}
