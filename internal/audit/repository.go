// Package audit records every dispatched command in the audit_logs table
// and serves the command history.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidEntry is returned when an entry lacks a required field.
var ErrInvalidEntry = errors.New("audit: invalid entry")

// Sources of a command.
const (
	SourceAPI     = "api"
	SourceMQTT    = "mqtt"
	SourceConsole = "console"
)

// Entry is one dispatched command.
type Entry struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Path    string `json:"path"`
	Device  string `json:"device,omitempty"`
	Command string `json:"command,omitempty"`
	Value   string `json:"value,omitempty"`
	Admin   bool   `json:"admin"`
	UserID  string `json:"user_id,omitempty"`
	// Code is the numeric return code, Result its text form.
	Code      int            `json:"code"`
	Result    string         `json:"result"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Filter controls which entries List returns.
type Filter struct {
	Device string // optional
	Source string // optional
	// FailedOnly restricts the result to entries whose code is not OK (1).
	FailedOnly bool
	Limit      int // default 50, max 200
	Offset     int
}

// ListResult contains a page of entries.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Repository defines the audit log operations.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// timestampLayout has a fixed width so created_at sorts as text.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

const (
	defaultLimit = 50
	maxLimit     = 200
	codeOK       = 1
)

// SQLiteRepository stores entries in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new audit log repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts an entry. ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, entry *Entry) error {
	if entry.Source == "" || entry.Result == "" {
		return fmt.Errorf("%w: source and result are required", ErrInvalidEntry)
	}
	if entry.ID == "" {
		entry.ID = "aud-" + uuid.NewString()[:8]
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var details *string
	if len(entry.Details) > 0 {
		b, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshalling audit details: %w", err)
		}
		s := string(b)
		details = &s
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, source, path, device, command, value, admin, user_id, code, result, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Source, entry.Path,
		nullableString(entry.Device), nullableString(entry.Command), nullableString(entry.Value),
		entry.Admin, nullableString(entry.UserID),
		entry.Code, entry.Result, details,
		entry.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting audit log: %w", err)
	}
	return nil
}

// nullableString returns nil for empty strings so the column stays NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns entries matching the filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any
	if filter.Device != "" {
		conditions = append(conditions, "device = ?")
		args = append(args, filter.Device)
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.FailedOnly {
		conditions = append(conditions, "code != ?")
		args = append(args, codeOK)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM audit_logs " + where //nolint:gosec // WHERE built from parameterised conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting audit logs: %w", err)
	}

	query := "SELECT id, source, path, device, command, value, admin, user_id, code, result, details, created_at " + //nolint:gosec // WHERE built from parameterised conditions
		"FROM audit_logs " + where + " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit logs: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit logs: %w", err)
	}

	return &ListResult{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e                                     Entry
		device, command, value, user, details sql.NullString
		createdAt                             string
	)
	if err := rows.Scan(&e.ID, &e.Source, &e.Path, &device, &command, &value,
		&e.Admin, &user, &e.Code, &e.Result, &details, &createdAt); err != nil {
		return Entry{}, fmt.Errorf("scanning audit log: %w", err)
	}

	e.Device = device.String
	e.Command = command.String
	e.Value = value.String
	e.UserID = user.String

	if details.Valid && details.String != "" {
		var m map[string]any
		if json.Unmarshal([]byte(details.String), &m) == nil {
			e.Details = m
		}
	}

	t, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing audit log timestamp %q: %w", createdAt, err)
	}
	e.CreatedAt = t
	return e, nil
}
