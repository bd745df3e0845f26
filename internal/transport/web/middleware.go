package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/metrics"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/service/auth"
)

const (
	bearerPrefix    = "Bearer "
	RequestIDHeader = "X-Request-ID"
	requestTimeout  = 30 * time.Second
)

// Middleware holds middleware configuration and dependencies / Contient la configuration middleware
type Middleware struct {
	conf          *config.Config
	globalLimiter *RateLimiter
	strictLimiter *RateLimiter
	userLimiter   *RateLimiter
	metrics       *metrics.Metrics
	userRepo      ports.UserRepository
	log           *slog.Logger
}

// NewMiddleware creates middleware with rate limiters / Crée le middleware avec limiteurs
func NewMiddleware(ctx context.Context, conf *config.Config, metrics *metrics.Metrics, userRepo ports.UserRepository) *Middleware {
	mw := &Middleware{
		conf:     conf,
		metrics:  metrics,
		userRepo: userRepo,
		log:      logging.Module("web"),
	}

	if conf.RateLimiter.Enabled {
		mw.globalLimiter = NewRateLimiter(ctx, conf.RateLimiter.RPS, conf.RateLimiter.Burst)

		strictRPS := conf.RateLimiter.RPS
		strictBurst := conf.RateLimiter.Burst
		if conf.IsProduction() {
			strictRPS = strictRPS / 2
			if strictBurst > 2 {
				strictBurst = strictBurst / 2
			}
		}
		mw.strictLimiter = NewRateLimiter(ctx, strictRPS, strictBurst)
		mw.userLimiter = NewRateLimiter(ctx, conf.RateLimiter.RPS*2, conf.RateLimiter.Burst*2)
	}

	return mw
}

// statusRecorder wraps ResponseWriter to capture status / Encapsule ResponseWriter pour capturer le statut
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// RequestID tags the request and its logger with an id / Marque la requête et son logger avec un ID
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
		ctx = context.WithValue(ctx, LoggerContextKey, m.log.With("request_id", requestID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logging logs HTTP requests and prevents token leaks / Enregistre les requêtes et prévient les fuites
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := LoggerFromContext(r.Context(), m.log)

		if strings.Contains(r.URL.RawQuery, "access_token=") ||
			strings.Contains(r.URL.RawQuery, bearerPrefix) {
			logger.Error("token leak detected", "path", r.URL.Path, "ip", r.RemoteAddr)
			ErrorResponse(w, "forbidden", http.StatusForbidden)
			return
		}

		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"htmx", IsHTMXRequest(r),
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// MetricsMiddleware tracks HTTP request metrics by route pattern / Suit les métriques HTTP par route
func (m *Middleware) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.metrics.IncrementActiveConnections()
		defer m.metrics.DecrementActiveConnections()

		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		// the mux sets Pattern on the request it routed
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		m.metrics.RecordHTTPRequest(r.Method, path, rw.statusCode)
		m.metrics.RecordHTTPDuration(r.Method, path, time.Since(start))
	})
}

// Timeout bounds the handler run time / Limite la durée d'exécution du handler
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, `{"error":"request timeout"}`)
	}
}

// tokenFromRequest reads the access token cookie, then the Authorization header.
func tokenFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	authorization := r.Header.Get("Authorization")
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(authorization, bearerPrefix), true
}

func (m *Middleware) authenticate(r *http.Request) (*http.Request, error) {
	tokenStr, ok := tokenFromRequest(r)
	if !ok {
		return nil, auth.ErrInvalidToken
	}

	claims, err := auth.ValidateJWT(tokenStr, m.conf.Auth.JWTSecret)
	if err != nil {
		m.metrics.RecordInvalidToken()
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
	ctx = context.WithValue(ctx, UserIDContextKey, userID)
	return r.WithContext(ctx), nil
}

// Auth validates JWT tokens / Valide les tokens JWT
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed, err := m.authenticate(r)
		if err != nil {
			ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, authed)
	})
}

// OptionalAuth attaches the user when a valid token is present and never rejects.
// Attache l'utilisateur si un token valide est présent.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := tokenFromRequest(r); ok {
			if authed, err := m.authenticate(r); err == nil {
				r = authed
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Cors handles CORS headers / Gère les en-têtes CORS
func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range m.conf.Cors.AllowedOrigins {
			if allowed == "*" || allowed == origin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-CSRF-Token, HX-Request, HX-Target, HX-Trigger, HX-Current-URL")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// contentSecurityPolicy allows the Tailwind and HTMX CDNs. Inline scripts stay
// allowed because the template helpers emit inline module scripts.
func (m *Middleware) contentSecurityPolicy() string {
	csp := "default-src 'self'; frame-ancestors 'none'; object-src 'none'" +
		"; script-src 'self' 'unsafe-inline' cdn.tailwindcss.com unpkg.com" +
		"; style-src 'self' 'unsafe-inline'" +
		"; img-src 'self' data:; font-src 'self'; connect-src 'self'"
	if m.conf.IsProduction() {
		csp += "; upgrade-insecure-requests"
	}
	return csp
}

// SecurityHeaders adds security headers / Ajoute les en-têtes de sécurité
func (m *Middleware) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", m.contentSecurityPolicy())
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")

		// HTTPS only in production
		if m.conf.IsProduction() {
			w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		}

		next.ServeHTTP(w, r)
	})
}

// CSRF checks the double submit cookie / Vérifie le double envoi du cookie CSRF
func (m *Middleware) CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context(), m.log)

		cookie, err := r.Cookie(csrfTokenCookie)
		if err != nil {
			m.metrics.RecordCSRFFailure()
			logger.Warn("missing csrf_token cookie", "path", r.URL.Path)
			ErrorResponse(w, "Forbidden", http.StatusForbidden)
			return
		}

		headerToken := r.Header.Get(csrfHeader)
		if cookie.Value == "" || headerToken == "" || cookie.Value != headerToken {
			m.metrics.RecordCSRFFailure()
			logger.Warn("CSRF token mismatch", "cookie_len", len(cookie.Value), "header_len", len(headerToken))
			ErrorResponse(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePermission checks user permission / Vérifie la permission de l'utilisateur
func (m *Middleware) RequirePermission(permission domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := LoggerFromContext(r.Context(), m.log)

			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				logger.Error("RequirePermission: user id missing from context, Auth not applied?")
				ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed, err := m.userRepo.UserHasPermission(r.Context(), userID, permission)
			if err != nil {
				logger.Error("failed to check user permission", "user_id", userID, "permission", permission, "err", err)
				ErrorResponse(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				m.metrics.RecordPermissionDenial(permission.String())
				logger.Warn("permission denied",
					"user_id", userID,
					"permission", permission,
					"path", r.URL.Path,
					"method", r.Method,
				)
				ErrorResponse(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
