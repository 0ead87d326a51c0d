package httpx

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Authenticator checks an Authorization header value and returns the
// credential subject.
type Authenticator interface {
	Authenticate(authorization string) (string, error)
}

// AuthMiddleware rejects requests without a valid bearer credential.
// Every rejection is a 401; the reason only reaches the log.
func AuthMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := authn.Authenticate(r.Header.Get("Authorization"))
			if err != nil {
				zerolog.Ctx(r.Context()).Info().Err(err).Str("path", r.URL.Path).Msg("credential rejected")
				w.Header().Set("WWW-Authenticate", `Bearer realm="booklist"`)
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired credential", nil)
				return
			}

			ctx := ContextWithSubject(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
