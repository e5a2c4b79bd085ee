package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy describes which browser origins may call the public endpoints.
// An origin entry may be "*", an exact origin, or a subdomain wildcard such as
// "https://*.example.com".
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

type compiledCORS struct {
	any         bool
	exact       map[string]struct{}
	suffixes    []originSuffix
	credentials bool
	methods     string
	headers     string
	maxAge      string
}

type originSuffix struct {
	scheme string
	suffix string
}

func compileCORS(cfg CORSPolicy) compiledCORS {
	c := compiledCORS{
		exact:       map[string]struct{}{},
		credentials: cfg.AllowCredentials,
		methods:     strings.Join(trimmed(cfg.AllowedMethods), ", "),
		headers:     strings.Join(trimmed(cfg.AllowedHeaders), ", "),
	}
	if secs := int(cfg.MaxAge.Seconds()); secs > 0 {
		c.maxAge = strconv.Itoa(secs)
	}
	for _, o := range trimmed(cfg.AllowedOrigins) {
		o = strings.ToLower(strings.TrimSuffix(o, "/"))
		switch {
		case o == "*":
			c.any = true
		case strings.Contains(o, "://*."):
			scheme, host, _ := strings.Cut(o, "://*")
			c.suffixes = append(c.suffixes, originSuffix{scheme: scheme + "://", suffix: host})
		default:
			c.exact[o] = struct{}{}
		}
	}
	return c
}

func (c compiledCORS) empty() bool {
	return !c.any && len(c.exact) == 0 && len(c.suffixes) == 0
}

// allow returns the Access-Control-Allow-Origin value for origin.
func (c compiledCORS) allow(origin string) (string, bool) {
	o := strings.ToLower(origin)
	if _, ok := c.exact[o]; ok {
		return origin, true
	}
	for _, s := range c.suffixes {
		if strings.HasPrefix(o, s.scheme) && strings.HasSuffix(o, s.suffix) && len(o) > len(s.scheme)+len(s.suffix) {
			return origin, true
		}
	}
	if c.any {
		// A literal "*" is not valid alongside credentials.
		if c.credentials {
			return origin, true
		}
		return "*", true
	}
	return "", false
}

// WithCORS is a no-op when no origins are configured.
func WithCORS(cfg CORSPolicy) Middleware {
	policy := compileCORS(cfg)
	if policy.empty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowOrigin, ok := policy.allow(origin)
			if origin == "" || !ok {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowOrigin)
			h.Add("Vary", "Origin")
			if policy.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)

			if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
				next.ServeHTTP(w, r)
				return
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			if policy.methods != "" {
				h.Set("Access-Control-Allow-Methods", policy.methods)
			}
			if policy.headers != "" {
				h.Set("Access-Control-Allow-Headers", policy.headers)
			}
			if policy.maxAge != "" {
				h.Set("Access-Control-Max-Age", policy.maxAge)
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
