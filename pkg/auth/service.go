package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/Legolasan/legolasan-in/pkg/apperrors"
	"github.com/Legolasan/legolasan-in/pkg/config"
)

// AuthService verifies admin credentials and manages session tokens.
// It is consumed by the login handler and by Middleware; handlers never
// touch JWTs or bcrypt directly.
type AuthService interface {
	// Login verifies credentials and returns claims for a new session.
	Login(email, password string) (*SessionClaims, error)
	// IssueToken signs the claims into a compact session token.
	IssueToken(claims *SessionClaims) (string, error)
	// ValidateRequest extracts and validates the session from the request.
	ValidateRequest(r *http.Request) (*SessionClaims, error)
	// Store returns the cookie session store for writing sessions.
	Store() *sessions.CookieStore
}

type authService struct {
	cfg   *config.AuthConfig
	store *sessions.CookieStore
	key   []byte
	ttl   time.Duration

	now func() time.Time
}

// NewAuthService creates an AuthService backed by the given config and
// session store. The session secret doubles as the JWT signing key.
func NewAuthService(cfg *config.AuthConfig, store *sessions.CookieStore) AuthService {
	return &authService{
		cfg:   cfg,
		store: store,
		key:   []byte(cfg.SessionSecret),
		ttl:   time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		now:   time.Now,
	}
}

// Login verifies the email and password against the configured admin
// account. Failures are uniformly ErrUnauthorized so responses cannot
// distinguish a wrong email from a wrong password.
func (s *authService) Login(email, password string) (*SessionClaims, error) {
	if s.cfg.AdminEmail == "" || email != s.cfg.AdminEmail {
		return nil, apperrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	now := s.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
		Name:  s.cfg.AdminName,
		Role:  "admin",
	}
	return claims, nil
}

// IssueToken signs the claims with HS256.
func (s *authService) IssueToken(claims *SessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ValidateRequest reads the session cookie and validates the embedded token.
func (s *authService) ValidateRequest(r *http.Request) (*SessionClaims, error) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	raw, ok := session.Values[SessionKeyToken].(string)
	if !ok || raw == "" {
		return nil, apperrors.ErrUnauthorized
	}

	return s.parseToken(raw)
}

func (s *authService) parseToken(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

func (s *authService) Store() *sessions.CookieStore {
	return s.store
}

var _ AuthService = (*authService)(nil)
