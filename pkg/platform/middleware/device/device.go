// Package device derives a human-readable device summary from the User-Agent
// and exposes it to audit emission via the request context.
package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"pandora/pkg/requestcontext"
)

// Middleware parses the User-Agent captured by the metadata middleware and
// stores a device summary for the audit trail. Register it after
// metadata.Middleware.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ua := requestcontext.UserAgent(ctx); ua != "" {
			ctx = requestcontext.WithDeviceSummary(ctx, Summarize(ua))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Summarize extracts a display name from a User-Agent string.
// Returns format: "Browser on OS" (e.g., "Chrome on macOS", "Safari on iOS").
func Summarize(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
