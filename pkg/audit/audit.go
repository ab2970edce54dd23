package audit

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/infraflow-ai/infraflow/pkg/logging"
	"github.com/infraflow-ai/infraflow/pkg/model"
)

// Structured data IDs (RFC5424). 32473 is the documentation PEN from RFC 5612.
const (
	PEN          = 32473
	SDIDActor    = "actor@32473"
	SDIDRecord   = "record@32473"
	SDIDAction   = "action@32473"
	SDIDClient   = "client@32473"
	SDIDAnalysis = "analysis@32473"
)

// Syslog facilities
const (
	FacilityAuthPriv = 10 // LOG_AUTHPRIV
	FacilityLocal0   = 16 // application events
)

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// Event is an auditable action. Entry is the audit_log row it persists as.
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
	Entry() model.AuditLog
}

// Logger writes events in RFC5424 syslog format
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	hostname string
	appName  string
	pid      int
	now      func() time.Time
}

func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   os.Stdout,
		hostname: hostname,
		appName:  "infraflow",
		pid:      os.Getpid(),
		now:      time.Now,
	}
}

func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	l.writer = w
	l.mu.Unlock()
}

// Log writes <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG.
func (l *Logger) Log(event Event) {
	pri := event.Facility()*8 + int(event.Severity())
	timestamp := l.now().UTC().Format("2006-01-02T15:04:05.000Z")

	sd := formatStructuredData(event.StructuredData())
	if sd == "" {
		sd = "-"
	}
	hostname := l.hostname
	if hostname == "" {
		hostname = "-"
	}

	line := fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s\n",
		pri,
		timestamp,
		hostname,
		l.appName,
		l.pid,
		event.MessageID(),
		sd,
		event.Message(),
	)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write([]byte(line))
}

// formatStructuredData renders [sdid k="v" ...][sdid2 ...] with ids and
// params in sorted order so lines are stable.
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	ids := make([]string, 0, len(sd))
	for id := range sd {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		params := sd[id]
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("[" + id)
		for _, k := range keys {
			b.WriteString(" " + k + "=" + escapeSDValue(params[k]))
		}
		b.WriteString("]")
	}
	return b.String()
}

// escapeSDValue quotes a param value, escaping per RFC5424 section 6.3.3.
func escapeSDValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "]", "\\]")
	return "\"" + value + "\""
}

var DefaultLogger = NewLogger()

var (
	mu           sync.RWMutex
	enabled      = true
	defaultStore *Store
)

func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled toggles Log. The server wires this to the audit_enabled setting.
func SetEnabled(on bool) {
	mu.Lock()
	enabled = on
	mu.Unlock()
}

// SetStore sets where Log persists events. A nil store only writes syslog lines.
func SetStore(s *Store) {
	mu.Lock()
	defaultStore = s
	mu.Unlock()
}

// DefaultStore returns the store set by SetStore.
func DefaultStore() *Store {
	mu.RLock()
	defer mu.RUnlock()
	return defaultStore
}

// Log writes event to the default logger and persists it when a store is set.
// Persistence failures are logged and never returned to the caller.
func Log(ctx context.Context, event Event) {
	if !IsEnabled() {
		return
	}
	DefaultLogger.Log(event)

	store := DefaultStore()
	if store == nil {
		return
	}
	if err := store.Save(ctx, event); err != nil {
		log := logging.Component("audit")
		log.Error().Err(err).Str("msgid", event.MessageID()).Msg("failed to save audit event")
	}
}
