package audit

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	logger.hostname = "app-1"
	logger.pid = 42
	logger.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	logger.Log(AuthEvent{
		Actor:   Actor{UserID: "user-1", ClientIP: "192.168.1.1"},
		Method:  "token",
		Success: true,
	})

	want := `<86>1 2025-03-01T12:00:00.000Z app-1 infraflow 42 authn ` +
		`[action@32473 result="success"][actor@32473 method="token" user="user-1"][client@32473 ip="192.168.1.1"] ` +
		"user-1 successfully authenticated with token\n"
	if got := buf.String(); got != want {
		t.Errorf("Log() =\n%q\nwant\n%q", got, want)
	}
}

func TestRecordEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   RecordEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name:    "insert",
			event:   RecordEvent{Actor: Actor{UserID: "u1"}, Table: "projects", RecordID: "p1", Action: ActionInsert},
			wantMsg: "u1 created projects/p1",
			wantSev: SeverityInfo,
		},
		{
			name:    "delete",
			event:   RecordEvent{Actor: Actor{UserID: "u1"}, Table: "projects", RecordID: "p1", Action: ActionDelete},
			wantMsg: "u1 deleted projects/p1",
			wantSev: SeverityNotice,
		},
		{
			name:    "system update",
			event:   RecordEvent{Table: "documents", RecordID: "d1", Action: ActionUpdate},
			wantMsg: "system updated documents/d1",
			wantSev: SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Message(); got != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.event.Severity(); got != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", got, tt.wantSev)
			}
			if got := tt.event.Facility(); got != FacilityLocal0 {
				t.Errorf("Facility() = %v, want %v", got, FacilityLocal0)
			}
		})
	}
}

func TestRecordEventEntry(t *testing.T) {
	event := RecordEvent{
		Actor:    Actor{UserID: "u1", ClientIP: "10.0.0.1", UserAgent: "curl/8"},
		Table:    "projects",
		RecordID: "p1",
		Action:   ActionUpdate,
		Old:      map[string]any{"status": "draft"},
		New:      map[string]any{"status": "active"},
	}

	entry := event.Entry()
	if entry.Table != "projects" || entry.RecordID != "p1" || entry.Action != ActionUpdate {
		t.Errorf("Entry() = %+v", entry)
	}
	if entry.ChangedBy == nil || *entry.ChangedBy != "u1" {
		t.Errorf("ChangedBy = %v, want u1", entry.ChangedBy)
	}
	if entry.UserAgent == nil || *entry.UserAgent != "curl/8" {
		t.Errorf("UserAgent = %v, want curl/8", entry.UserAgent)
	}
	if string(entry.OldData) != `{"status":"draft"}` {
		t.Errorf("OldData = %s", entry.OldData)
	}
	if string(entry.NewData) != `{"status":"active"}` {
		t.Errorf("NewData = %s", entry.NewData)
	}
	if entry.ChangedAt.IsZero() {
		t.Error("ChangedAt not set")
	}
}

func TestAuthEvent(t *testing.T) {
	failed := AuthEvent{
		Actor:        Actor{ClientIP: "10.0.0.1"},
		Method:       "bearer",
		ErrorMessage: "token expired",
	}
	if got, want := failed.Message(), "system failed to authenticate with bearer: token expired"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
	if failed.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want warning", failed.Severity())
	}
	if failed.Facility() != FacilityAuthPriv {
		t.Errorf("Facility() = %v, want %v", failed.Facility(), FacilityAuthPriv)
	}

	entry := failed.Entry()
	if entry.Action != "AUTHENTICATE_FAILED" {
		t.Errorf("Action = %q", entry.Action)
	}
	if entry.ChangedBy != nil {
		t.Errorf("ChangedBy = %v, want nil", *entry.ChangedBy)
	}
	if !strings.Contains(string(entry.Metadata), `"error":"token expired"`) {
		t.Errorf("Metadata = %s", entry.Metadata)
	}
}

func TestAnalysisEvent(t *testing.T) {
	event := AnalysisEvent{
		Actor:     Actor{UserID: "u1"},
		Kind:      AnalysisFinancialModel,
		ProjectID: "p1",
		RecordID:  "m1",
		Success:   true,
		Summary:   map[string]any{"npv": 12.5},
	}

	if got, want := event.Message(), "u1 ran financial_models for project p1"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
	sd := event.StructuredData()
	if sd[SDIDAnalysis]["kind"] != AnalysisFinancialModel || sd[SDIDAnalysis]["project"] != "p1" {
		t.Errorf("StructuredData() = %v", sd)
	}

	entry := event.Entry()
	if entry.Table != AnalysisFinancialModel || entry.RecordID != "m1" || entry.Action != "ANALYZE" {
		t.Errorf("Entry() = %+v", entry)
	}
	if string(entry.NewData) != `{"npv":12.5}` {
		t.Errorf("NewData = %s", entry.NewData)
	}

	event.RecordID = ""
	if got := event.Entry().RecordID; got != "p1" {
		t.Errorf("RecordID fallback = %q, want p1", got)
	}
}

func TestUploadEvent(t *testing.T) {
	ok := UploadEvent{
		Actor:      Actor{UserID: "u1"},
		ProjectID:  "p1",
		DocumentID: "d1",
		FileName:   "model.xlsx",
		Size:       2048,
		Success:    true,
	}
	if got, want := ok.Message(), "u1 uploaded model.xlsx (2.0 KiB) to project p1"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}

	rejected := UploadEvent{FileName: "virus.exe", ProjectID: "p1", ErrorMessage: "file type not allowed"}
	if got, want := rejected.Message(), "system failed to upload virus.exe to project p1: file type not allowed"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
	if got := rejected.Entry().RecordID; got != "virus.exe" {
		t.Errorf("RecordID = %q, want file name", got)
	}
}

func TestStructuredData(t *testing.T) {
	sd := map[string]map[string]string{
		"b@1": {"z": "1", "a": "2"},
		"a@1": {"k": "v"},
	}
	if got, want := formatStructuredData(sd), `[a@1 k="v"][b@1 a="2" z="1"]`; got != want {
		t.Errorf("formatStructuredData() = %q, want %q", got, want)
	}
	if got := formatStructuredData(nil); got != "" {
		t.Errorf("formatStructuredData(nil) = %q, want empty", got)
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeSDValue(tt.input); got != tt.want {
				t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAuditToggle(t *testing.T) {
	var buf bytes.Buffer
	original := DefaultLogger
	DefaultLogger = NewLogger()
	DefaultLogger.SetWriter(&buf)
	defer func() {
		DefaultLogger = original
		SetEnabled(true)
	}()

	event := RecordEvent{Table: "projects", RecordID: "p1", Action: ActionInsert}

	SetEnabled(false)
	Log(context.Background(), event)
	if buf.Len() != 0 {
		t.Errorf("expected no output while disabled, got %q", buf.String())
	}

	SetEnabled(true)
	Log(context.Background(), event)
	if !strings.Contains(buf.String(), "system created projects/p1") {
		t.Errorf("expected event in output, got %q", buf.String())
	}
}

func TestLogPersistsToDefaultStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	original := DefaultLogger
	DefaultLogger = NewLogger()
	DefaultLogger.SetWriter(&bytes.Buffer{})
	SetStore(NewStoreWithDB(db))
	defer func() {
		DefaultLogger = original
		SetStore(nil)
	}()

	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(sqlmock.AnyArg(), "documents", "d1", "UPLOAD", "u1", sqlmock.AnyArg(),
			nil, nil, sqlmock.AnyArg(), nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	Log(context.Background(), UploadEvent{
		Actor:      Actor{UserID: "u1"},
		ProjectID:  "p1",
		DocumentID: "d1",
		FileName:   "a.pdf",
		Success:    true,
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

var _ Event = RecordEvent{}
var _ Event = AuthEvent{}
var _ Event = AnalysisEvent{}
var _ Event = UploadEvent{}
