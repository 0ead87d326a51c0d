package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	subjectKey     contextKey = "subject"
	requestIDKey   contextKey = "requestID"
	accessEntryKey contextKey = "accessEntry"
)

// accessEntry collects values set deeper in the chain for the access log,
// which only sees its own copy of the request.
type accessEntry struct {
	subject string
}

// SubjectFrom returns the credential subject set by AuthMiddleware.
func SubjectFrom(r *http.Request) string {
	if v, ok := r.Context().Value(subjectKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithSubject returns a new context carrying the authenticated subject.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	if entry, ok := ctx.Value(accessEntryKey).(*accessEntry); ok {
		entry.subject = subject
	}
	return context.WithValue(ctx, subjectKey, subject)
}

// RequestIDFrom returns the request id set by RequestIDMiddleware.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
