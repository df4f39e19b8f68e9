package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// wildcardOrigin matches origins of the form scheme://<one-label>.suffix,
// e.g. https://*.voicehealth.pages.dev matching per-deployment preview URLs.
type wildcardOrigin struct {
	scheme string
	suffix string
}

// parseWildcardOrigin parses a wildcard pattern like "https://*.example.com".
// Returns nil if the pattern is not a valid single-label wildcard.
func parseWildcardOrigin(pattern string) *wildcardOrigin {
	var scheme string
	switch {
	case strings.HasPrefix(pattern, "https://"):
		scheme = "https://"
	case strings.HasPrefix(pattern, "http://"):
		scheme = "http://"
	default:
		return nil
	}

	rest := strings.TrimPrefix(pattern, scheme)
	if !strings.HasPrefix(rest, "*.") {
		return nil
	}
	suffix := rest[1:] // keep the leading dot
	host := suffix[1:]
	if host == "" || strings.Contains(host, "*") {
		return nil
	}
	// Require at least two labels after the wildcard so bare TLDs like
	// "https://*.com" are rejected.
	if strings.Count(host, ".") < 1 {
		return nil
	}
	return &wildcardOrigin{scheme: scheme, suffix: suffix}
}

// matches reports whether the origin is this wildcard's scheme plus exactly
// one label followed by the suffix.
func (w *wildcardOrigin) matches(origin string) bool {
	if !strings.HasPrefix(origin, w.scheme) {
		return false
	}
	host := strings.TrimPrefix(origin, w.scheme)
	if !strings.HasSuffix(host, w.suffix) {
		return false
	}
	label := strings.TrimSuffix(host, w.suffix)
	if label == "" || strings.Contains(label, ".") || strings.Contains(label, "/") {
		return false
	}
	return true
}

// CORS middleware to handle cross-origin requests.
// Reads CORS_ALLOWED_ORIGINS (comma-separated, exact origins or single-label
// wildcards like https://*.example.com). If not set, all origins are allowed.
func CORS() gin.HandlerFunc {
	allowedOriginsStr := os.Getenv("CORS_ALLOWED_ORIGINS")
	allowAll := allowedOriginsStr == ""

	var exact []string
	var wildcards []*wildcardOrigin
	if !allowAll {
		for _, origin := range strings.Split(allowedOriginsStr, ",") {
			origin = strings.TrimSpace(origin)
			if w := parseWildcardOrigin(origin); w != nil {
				wildcards = append(wildcards, w)
			} else if origin != "" {
				exact = append(exact, origin)
			}
		}
	}

	originAllowed := func(origin string) bool {
		for _, allowed := range exact {
			if origin == allowed {
				return true
			}
		}
		for _, w := range wildcards {
			if w.matches(origin) {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if originAllowed(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		} else if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(403)
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
