package main

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fuelcheck/models"
)

// AuthService orchestrates registration, login, password change and token
// regeneration against an injected UserStore. It holds no mutable state
// beyond the read-only signing secret, so it is safe for concurrent use.
type AuthService struct {
	store  UserStore
	secret []byte
	log    *slog.Logger
}

func NewAuthService(store UserStore, secret []byte, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{store: store, secret: secret, log: log}
}

// Register creates a new active account with a fresh session marker. When a
// user with the same email already exists (including a lost insert race) it
// returns ErrDuplicateEmail and exactly one record survives.
func (a *AuthService) Register(fullName, email, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	marker, err := newSessionMarker()
	if err != nil {
		return nil, err
	}
	defaults := &models.User{
		ID:            uuid.NewString(),
		FullName:      fullName,
		Email:         email,
		PasswordHash:  hash,
		IsActive:      true,
		SessionMarker: marker,
	}
	user, created, err := a.store.GetOrCreate(email, defaults)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrDuplicateEmail
	}
	a.log.Debug("user registered", "email", email)
	return user, nil
}

// Login verifies credentials and issues a token embedding the user's current
// session marker. Logging in does not revoke other sessions.
func (a *AuthService) Login(email, password string) (string, error) {
	user, err := a.store.FindByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrNotFound
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	token, err := CreateToken(user, a.secret)
	if err != nil {
		return "", err
	}
	a.log.Debug("user logged in", "email", email)
	return token, nil
}

// ChangePassword re-verifies the current password before persisting the new
// hash. The session marker is deliberately left untouched, so outstanding
// tokens remain valid after the change.
func (a *AuthService) ChangePassword(email, currentPassword, newPassword string) error {
	user, err := a.store.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil || !VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	ok, err := a.store.Update(user.ID, map[string]any{"password_hash": hash})
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	a.log.Debug("password changed", "email", email)
	return nil
}

// RegenerateToken rotates the user's session marker, invalidating every
// previously issued token, and returns a fresh token carrying the new marker.
// Concurrent rotations converge last-write-wins on the stored marker.
func (a *AuthService) RegenerateToken(user *models.User) (string, error) {
	marker, err := newSessionMarker()
	if err != nil {
		return "", err
	}
	ok, err := a.store.Update(user.ID, map[string]any{"session_marker": marker})
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}
	u := *user
	u.SessionMarker = marker
	a.log.Debug("session marker rotated", "user_id", user.ID)
	return CreateToken(&u, a.secret)
}

// Authorize validates a raw Authorization header value and returns the live
// user record, so callers observe up-to-date state rather than token claims.
// It performs exactly one store lookup and never caches: marker rotation and
// deactivation must be observed on the very next request.
func (a *AuthService) Authorize(authorization string) (*models.User, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return nil, ErrMissingAuthHeader
	}
	claims, err := ParseToken(strings.TrimPrefix(authorization, "Bearer "), a.secret)
	if err != nil {
		return nil, err
	}
	user, err := a.store.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if user.SessionMarker != claims.SessionMarker {
		return nil, ErrStaleToken
	}
	return user, nil
}
