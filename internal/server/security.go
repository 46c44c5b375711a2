package server

import (
	"net/http"
	"strings"

	"github.com/agbru/renewcalc/internal/config"
)

// SecurityConfig holds the security settings applied to every endpoint.
type SecurityConfig struct {
	// EnableCORS enables Cross-Origin Resource Sharing headers.
	EnableCORS bool
	// AllowedOrigins lists the origins permitted for CORS. "*" allows any.
	AllowedOrigins []string
	// AllowedMethods lists the HTTP methods advertised for CORS.
	AllowedMethods []string
	// MaxBodyBytes caps the size of a JSON request body.
	MaxBodyBytes int64
}

// DefaultSecurityConfig returns the security settings used when nothing is
// configured.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		MaxBodyBytes:   1 << 20,
	}
}

// SecurityConfigFrom derives the security settings from the server
// configuration. A comma-separated AllowedOrigin narrows CORS to those
// origins.
func SecurityConfigFrom(cfg config.ServerConfig) SecurityConfig {
	sc := DefaultSecurityConfig()
	if cfg.MaxBodyBytes > 0 {
		sc.MaxBodyBytes = cfg.MaxBodyBytes
	}
	if origins := splitOrigins(cfg.AllowedOrigin); len(origins) > 0 {
		sc.AllowedOrigins = origins
	}
	return sc
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SecurityMiddleware sets the security headers, answers CORS preflight
// requests and otherwise calls next.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin, ok := allowedOrigin(config.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				h.Set("Access-Control-Max-Age", "86400")
				if origin != "*" {
					h.Add("Vary", "Origin")
				}
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// allowedOrigin returns the value of Access-Control-Allow-Origin for a
// request origin.
func allowedOrigin(allowed []string, origin string) (string, bool) {
	for _, a := range allowed {
		if a == "*" {
			return "*", true
		}
		if origin != "" && a == origin {
			return origin, true
		}
	}
	return "", false
}
