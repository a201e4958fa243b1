package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"staywise/internal/auth/service"
	apperrors "staywise/pkg/errors"
	httputil "staywise/pkg/http"
	"staywise/pkg/logger"
	"staywise/pkg/model"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the identity resolved by Authenticate, if any.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}

// Authenticate resolves the Authorization bearer token to an identity and
// stores it in the request context. Requests without a valid token are
// rejected with 401.
func Authenticate(auth service.AuthService, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token := extractBearerToken(r)
			if token == "" {
				writeAuthError(w, log, apperrors.Unauthorized("Access denied. No token provided."))
				return
			}

			identity, _, err := auth.Resolve(r.Context(), token)
			if err != nil {
				writeAuthError(w, log, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, *identity)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// RequireAdmin rejects requests whose resolved identity is not an
// administrator. Must run after Authenticate.
func RequireAdmin(log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				writeAuthError(w, log, apperrors.Unauthorized("Access denied. No token provided."))
				return
			}
			if !identity.IsAdmin() {
				writeAuthError(w, log, apperrors.Forbidden("Admin access required"))
				return
			}
			next(w, r, ps)
		}
	}
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	return strings.TrimPrefix(authorization, "Bearer ")
}

func writeAuthError(w http.ResponseWriter, log *logger.Logger, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		log.Error("failed to write auth error response", "error", writeErr)
	}
}
