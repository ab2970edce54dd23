// Package audit records security and business events.
//
// Every event is written to DefaultLogger as an RFC5424 syslog line and,
// when a Store is set, persisted as a row in audit_log. Events cover record
// changes, authentication, analysis runs and document uploads.
//
//	audit.Log(ctx, audit.RecordEvent{
//		Actor:    audit.Actor{UserID: id.UserID, ClientIP: id.RemoteIP},
//		Table:    "projects",
//		RecordID: p.ID.String(),
//		Action:   audit.ActionInsert,
//		New:      p,
//	})
//
// Logging is on by default; SetEnabled(false) turns Log into a no-op.
package audit
