package web

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/Olprog59/go-contenthub/internal/service/auth"
)

// Cookie names / Noms des cookies
const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
	csrfTokenCookie    = "csrf_token"
	csrfHeader         = "X-CSRF-Token"
)

// generateCSRFToken creates a random token for the double submit cookie pattern:
// it is sent in a cookie and must come back in the X-CSRF-Token header.
func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// sha256hex computes SHA-256 hash of string / Calcule le hash SHA-256 d'une chaîne
func sha256hex(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

func (h *Handler) cookie(name, value string, maxAge time.Duration, httpOnly bool) *http.Cookie {
	conf := h.container.Config.Auth
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     conf.CookiePath,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: httpOnly,
		Secure:   conf.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Domain:   conf.CookieDomain,
	}
	if maxAge < 0 {
		c.MaxAge = -1
	}
	return c
}

// setAuthCookies sets access and refresh token cookies / Définit les cookies d'accès et de rafraîchissement
func (h *Handler) setAuthCookies(w http.ResponseWriter, pair *auth.TokenPair) {
	conf := h.container.Config.Auth
	http.SetCookie(w, h.cookie(accessTokenCookie, pair.AccessToken, conf.AccessTokenDuration, true))
	http.SetCookie(w, h.cookie(refreshTokenCookie, pair.RefreshToken, conf.RefreshTokenDuration, true))
}

// rotateCSRFToken sets a fresh CSRF cookie readable by scripts and returns it.
func (h *Handler) rotateCSRFToken(w http.ResponseWriter) (string, error) {
	token, err := generateCSRFToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, h.cookie(csrfTokenCookie, token, h.container.Config.Auth.RefreshTokenDuration, false))
	return token, nil
}

// csrfToken reuses the request's CSRF cookie or issues one / Réutilise ou émet le cookie CSRF
func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(csrfTokenCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return h.rotateCSRFToken(w)
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, h.cookie(accessTokenCookie, "", -1, true))
	http.SetCookie(w, h.cookie(refreshTokenCookie, "", -1, true))
	http.SetCookie(w, h.cookie(csrfTokenCookie, "", -1, false))
}

// clientHashes returns the hashed client IP and User-Agent a refresh token is bound to.
func (h *Handler) clientHashes(r *http.Request) (ipHash, uaHash string) {
	ip := getIPWithTrustedProxies(r, h.container.Config.Security.TrustedProxies)
	return sha256hex(ip), sha256hex(r.Header.Get("User-Agent"))
}
