package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	visitorTTL      = 3 * time.Minute
	cleanupInterval = 5 * time.Minute
	retryAfterSecs  = 60
)

// RateLimiter keeps one token bucket per visitor key (IP hash or user id).
// Idle visitors are dropped by a background sweep until ctx is done.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	cancel   context.CancelFunc
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per visitor.
// Crée un limiteur de rps requêtes par seconde et par visiteur.
func NewRateLimiter(ctx context.Context, rps float64, burst int) *RateLimiter {
	ctx, cancel := context.WithCancel(ctx)
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(rps),
		burst:    burst,
		cancel:   cancel,
	}
	go rl.cleanupVisitors(ctx)
	return rl
}

// Stop ends the cleanup goroutine / Arrête la goroutine de nettoyage
func (rl *RateLimiter) Stop() {
	rl.cancel()
}

// Allow consumes one token for key / Consomme un jeton pour key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()

	return v.limiter.Allow()
}

// Len returns the number of tracked visitors
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, key)
		}
	}
}

func (rl *RateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.sweep(now)
		case <-ctx.Done():
			return
		}
	}
}

// getIPWithTrustedProxies returns the client IP. Proxy headers are only read
// when RemoteAddr is one of trustedProxies; X-Forwarded-For wins over X-Real-IP.
func getIPWithTrustedProxies(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if !slices.Contains(trustedProxies, remoteIP) {
		return remoteIP
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if clientIP := strings.TrimSpace(first); net.ParseIP(clientIP) != nil {
			return clientIP
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(realIP) != nil {
		return realIP
	}

	return remoteIP
}

// hashIP keeps raw addresses out of the limiter maps / Évite de stocker les IP brutes
func hashIP(ip string) string {
	return sha256hex(ip)
}

// limit builds a middleware drawing from limiter with the key chosen by keyFn.
func (mw *Middleware) limit(limiter func() *RateLimiter, keyFn func(*http.Request) (key, endpoint string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.conf.RateLimiter.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			key, endpoint := keyFn(r)
			if !limiter().Allow(key) {
				mw.metrics.RecordRateLimitHit(endpoint)
				LoggerFromContext(r.Context(), mw.log).Warn("rate limit exceeded", "endpoint", endpoint, "path", r.URL.Path)
				sendRateLimitError(w, "Too many requests. Please try again later.", retryAfterSecs)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (mw *Middleware) ipKey(endpoint string) func(*http.Request) (string, string) {
	return func(r *http.Request) (string, string) {
		return hashIP(getIPWithTrustedProxies(r, mw.conf.Security.TrustedProxies)), endpoint
	}
}

// RateLimit applies the global per-IP limit / Applique la limite globale par IP
func (mw *Middleware) RateLimit(next http.Handler) http.Handler {
	return mw.limit(func() *RateLimiter { return mw.globalLimiter }, mw.ipKey("global"))(next)
}

// RateLimitStrict applies the tighter per-IP limit of the auth endpoints.
// Applique la limite stricte des endpoints d'authentification.
func (mw *Middleware) RateLimitStrict(next http.Handler) http.Handler {
	return mw.limit(func() *RateLimiter { return mw.strictLimiter }, mw.ipKey("strict"))(next)
}

// RateLimitByUser keys on the user id, or the IP for anonymous requests.
// Applique une limite de taux par utilisateur.
func (mw *Middleware) RateLimitByUser(next http.Handler) http.Handler {
	byIP := mw.ipKey("user_ip")
	return mw.limit(func() *RateLimiter { return mw.userLimiter }, func(r *http.Request) (string, string) {
		if userID, ok := UserIDFromContext(r.Context()); ok {
			return fmt.Sprintf("user_%d", userID), "user_authenticated"
		}
		return byIP(r)
	})(next)
}

// RateLimitErrorResponse is the body of a 429 response / Corps d'une réponse 429
type RateLimitErrorResponse struct {
	Error      string    `json:"error"`
	Message    string    `json:"message"`
	Code       int       `json:"code"`
	RetryAfter int       `json:"retry_after_seconds"`
	Timestamp  time.Time `json:"timestamp"`
}

func sendRateLimitError(w http.ResponseWriter, message string, retryAfter int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(RateLimitErrorResponse{
		Error:      "rate_limit_exceeded",
		Message:    message,
		Code:       http.StatusTooManyRequests,
		RetryAfter: retryAfter,
		Timestamp:  time.Now().UTC(),
	})
}
