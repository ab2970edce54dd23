package audit

import (
	"fmt"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// AuthEvent is a token issue or a rejected bearer token.
type AuthEvent struct {
	Actor
	Method       string
	Success      bool
	ErrorMessage string
}

func (e AuthEvent) MessageID() string {
	return "authn"
}

func (e AuthEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with %s", userOrSystem(e.UserID), e.Method)
	}
	msg := fmt.Sprintf("%s failed to authenticate with %s", userOrSystem(e.UserID), e.Method)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor:  {"user": userOrSystem(e.UserID), "method": e.Method},
		SDIDAction: {"result": successLabel(e.Success)},
		SDIDClient: e.Actor.structuredData(),
	}
}

func (e AuthEvent) Entry() model.AuditLog {
	action := "AUTHENTICATE"
	if !e.Success {
		action = "AUTHENTICATE_FAILED"
	}
	entry := e.Actor.entry("auth", userOrSystem(e.UserID), action)
	meta := map[string]any{"method": e.Method}
	if e.ErrorMessage != "" {
		meta["error"] = e.ErrorMessage
	}
	entry.Metadata = metadata(meta)
	return entry
}
