package identity

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/auth"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	// Token claims
	UserID       string
	Email        string
	Name         string
	Organization string
	Role         string
	IssuedAt     time.Time
	ExpiresAt    time.Time

	// Request context
	RemoteIP  net.IP
	UserAgent string
}

// FromClaims creates an Identity from verified token claims.
func FromClaims(c *auth.Claims) *Identity {
	id := &Identity{
		UserID:       c.Subject,
		Email:        c.Email,
		Name:         c.Name,
		Organization: c.Organization,
		Role:         c.Role,
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

func (i *Identity) WithUserAgent(ua string) *Identity {
	i.UserAgent = ua
	return i
}

func (i *Identity) IsAdmin() bool {
	return i.Role == auth.RoleAdmin
}

// CanModify reports whether the caller may change a record created by
// createdBy. Admins may change anything; others only what they created.
func (i *Identity) CanModify(createdBy *string) bool {
	if i.IsAdmin() {
		return true
	}
	return createdBy != nil && *createdBy == i.UserID
}

// Actor describes the caller for audit events.
func (i *Identity) Actor() audit.Actor {
	a := audit.Actor{UserID: i.UserID, UserAgent: i.UserAgent}
	if i.RemoteIP != nil {
		a.ClientIP = i.RemoteIP.String()
	}
	return a
}

// ClientIP returns the request's peer address, or the first X-Forwarded-For
// entry when the peer is a trusted proxy.
func ClientIP(r *http.Request, trusted func(ip string) bool) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if trusted != nil && trusted(host) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if ip := net.ParseIP(first); ip != nil {
				return ip
			}
		}
	}
	return net.ParseIP(host)
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
