// Package requestcontext propagates request-scoped correlation metadata.
// Handlers set the values once; services and audit emission read them back
// without threading extra parameters through every call.
package requestcontext

import "context"

type (
	contextKeyRequestID     struct{}
	contextKeyClientIP      struct{}
	contextKeyUserAgent     struct{}
	contextKeyDeviceSummary struct{}
)

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

// RequestID returns the request ID from the context, or "" when absent
// (background workers, tests).
func RequestID(ctx context.Context) string {
	return stringValue(ctx, contextKeyRequestID{})
}

// WithClientMetadata stores the client IP and User-Agent.
func WithClientMetadata(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, ip)
	return context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
}

// ClientIP returns the client IP from the context, or "" when absent.
func ClientIP(ctx context.Context) string {
	return stringValue(ctx, contextKeyClientIP{})
}

// UserAgent returns the raw User-Agent from the context, or "" when absent.
func UserAgent(ctx context.Context) string {
	return stringValue(ctx, contextKeyUserAgent{})
}

// WithDeviceSummary stores the parsed device summary used in audit details.
func WithDeviceSummary(ctx context.Context, summary string) context.Context {
	return context.WithValue(ctx, contextKeyDeviceSummary{}, summary)
}

// DeviceSummary returns the device summary from the context, or "" when absent.
func DeviceSummary(ctx context.Context) string {
	return stringValue(ctx, contextKeyDeviceSummary{})
}

func stringValue(ctx context.Context, key any) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
