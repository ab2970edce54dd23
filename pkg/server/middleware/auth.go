package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/auth"
	"github.com/infraflow-ai/infraflow/pkg/identity"
)

// Verifier checks a bearer token and returns its claims.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticator is middleware that requires a valid bearer token
type Authenticator struct {
	Verifier Verifier
	// TrustedProxy decides whether a peer's X-Forwarded-For is honoured.
	TrustedProxy func(ip string) bool
}

func NewAuthenticator(v Verifier, trustedProxy func(ip string) bool) *Authenticator {
	return &Authenticator{Verifier: v, TrustedProxy: trustedProxy}
}

// Middleware verifies "Authorization: Bearer <jwt>" and stores the caller's
// identity.Identity in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := identity.ClientIP(r, a.TrustedProxy)

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			a.reject(w, r, ip, "Authorization missing or malformed")
			return
		}

		claims, err := a.Verifier.Verify(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token expired"
			}
			a.reject(w, r, ip, msg)
			return
		}

		id := identity.FromClaims(claims).
			WithRemoteIP(ip).
			WithUserAgent(r.UserAgent())
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, ip net.IP, msg string) {
	actor := audit.Actor{UserAgent: r.UserAgent()}
	if ip != nil {
		actor.ClientIP = ip.String()
	}
	audit.Log(r.Context(), audit.AuthEvent{
		Actor:        actor,
		Method:       "bearer",
		ErrorMessage: msg,
	})
	w.Header().Set("WWW-Authenticate", `Bearer realm="infraflow"`)
	writeError(w, http.StatusUnauthorized, msg)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
