// Package identity carries the authenticated caller through a request.
//
// An Identity combines verified token claims (user id, email, role) with
// request details (client IP, user agent) and answers the ownership rule:
// admins may modify any project, other users only the projects they created.
//
//	id := identity.FromClaims(claims).
//		WithRemoteIP(identity.ClientIP(r, cfg.IsTrustedProxy))
//	ctx = identity.Set(ctx, id)
//
//	id, ok := identity.Get(ctx)
package identity
