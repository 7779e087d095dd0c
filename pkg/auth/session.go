package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// SessionName is the name of the admin session cookie.
const SessionName = "legolasan-session"

// SessionKeyToken is the session value key holding the signed claims token.
const SessionKeyToken = "token"

// NewSessionStore initializes the cookie-based session store for the admin
// dashboard.
//
// The secret parameter is used to sign session cookies. It can be any
// passphrase - it will be SHA-256 hashed to derive a 32-byte key.
// The secret must be consistent across server restarts.
//
// Security settings:
// - HttpOnly: true (inaccessible to JavaScript)
// - Secure: derived from the base URL scheme
// - SameSite: Strict (prevents CSRF)
func NewSessionStore(secret string, secure bool, maxAgeSeconds int) *sessions.CookieStore {
	// Hash the secret to get a consistent 32-byte key
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
	return store
}
