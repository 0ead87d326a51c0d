package httpx

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-Id"

// RequestIDMiddleware tags every request with an id and attaches a
// request-scoped logger, retrievable with zerolog.Ctx.
func RequestIDMiddleware(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" || len(requestID) > 128 {
				requestID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, requestID)
			reqLog := log.With().Str("request_id", requestID).Logger()
			ctx := ContextWithRequestID(r.Context(), requestID)
			ctx = reqLog.WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
