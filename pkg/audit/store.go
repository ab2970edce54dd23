package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

const insertEntry = `
		INSERT INTO audit_log (id, table_name, record_id, action, changed_by, changed_at, old_data, new_data, metadata, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

const selectEntries = `SELECT id, table_name, record_id, action, changed_by, changed_at, old_data, new_data, metadata, ip_address, user_agent FROM audit_log`

// Store persists events to the audit_log table.
type Store struct {
	db *sql.DB
}

// NewStore opens a postgres connection for the store.
func NewStore(dbURL string) (*Store, error) {
	if dbURL == "" {
		return nil, nil
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an existing connection, such as the one behind the
// application's gorm handle.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save inserts event's audit_log entry.
func (s *Store) Save(ctx context.Context, event Event) error {
	if s.db == nil {
		return nil
	}
	return s.Insert(ctx, event.Entry())
}

// Insert writes a prepared entry.
func (s *Store) Insert(ctx context.Context, e model.AuditLog) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, insertEntry,
		e.ID.String(),
		e.Table,
		e.RecordID,
		e.Action,
		e.ChangedBy,
		e.ChangedAt,
		nullJSON(e.OldData),
		nullJSON(e.NewData),
		nullJSON(e.Metadata),
		e.IPAddress,
		e.UserAgent,
	)
	return err
}

// Query narrows List. Zero fields match everything; Limit defaults to 100.
type Query struct {
	Table    string
	RecordID string
	Limit    int
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, q Query) ([]model.AuditLog, error) {
	if s.db == nil {
		return nil, nil
	}

	var (
		where []string
		args  []any
	)
	if q.Table != "" {
		args = append(args, q.Table)
		where = append(where, fmt.Sprintf("table_name = $%d", len(args)))
	}
	if q.RecordID != "" {
		args = append(args, q.RecordID)
		where = append(where, fmt.Sprintf("record_id = $%d", len(args)))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	query := selectEntries
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY changed_at DESC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AuditLog
	for rows.Next() {
		var (
			e                model.AuditLog
			id               string
			oldData, newData []byte
			meta             []byte
		)
		if err := rows.Scan(&id, &e.Table, &e.RecordID, &e.Action, &e.ChangedBy, &e.ChangedAt,
			&oldData, &newData, &meta, &e.IPAddress, &e.UserAgent); err != nil {
			return nil, err
		}
		e.OldData, e.NewData, e.Metadata = oldData, newData, meta
		if err := e.ID.Scan(id); err != nil {
			return nil, fmt.Errorf("audit entry id %q: %w", id, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
