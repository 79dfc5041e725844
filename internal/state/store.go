// Package state persists menu history: command invocations and context
// switches. History is advisory; the menu pipeline works fully without a
// store attached.
package state

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Invocation is one recorded command dispatch.
type Invocation struct {
	ID      string
	App     string
	Command string
	At      time.Time
	Error   string
}

// Switch is one recorded context switch attempt.
type Switch struct {
	ID    string
	From  string
	To    string
	At    time.Time
	OK    bool
	Error string
}

// Store is a SQLite-backed history store.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (or creates) the store at path and runs pending migrations.
// Use ":memory:" for an in-memory store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordInvocation stores one command dispatch. runErr may be nil.
func (s *Store) RecordInvocation(app, cmd string, runErr error) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
	}

	s.logger.Debug("recording invocation", slog.String("app", app), slog.String("command", cmd))

	_, err := s.db.Exec(
		`INSERT INTO invocations (id, app, command, at, error) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), app, cmd, time.Now().UTC(), errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to record invocation: %w", err)
	}
	return nil
}

// RecordSwitch stores one context switch attempt.
func (s *Store) RecordSwitch(from, to string, switchErr error) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	ok := switchErr == nil
	errMsg := ""
	if switchErr != nil {
		errMsg = switchErr.Error()
	}

	_, err := s.db.Exec(
		`INSERT INTO switches (id, from_ctx, to_ctx, at, ok, error) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), from, to, time.Now().UTC(), ok, errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to record switch: %w", err)
	}
	return nil
}

// RecentInvocations returns the latest invocations, newest first.
func (s *Store) RecentInvocations(limit int) ([]Invocation, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, app, command, at, error FROM invocations ORDER BY at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query invocations: %w", err)
	}
	defer rows.Close()

	var out []Invocation
	for rows.Next() {
		var inv Invocation
		if err := rows.Scan(&inv.ID, &inv.App, &inv.Command, &inv.At, &inv.Error); err != nil {
			return nil, fmt.Errorf("failed to scan invocation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// RecentSwitches returns the latest context switches, newest first.
func (s *Store) RecentSwitches(limit int) ([]Switch, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, from_ctx, to_ctx, at, ok, error FROM switches ORDER BY at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query switches: %w", err)
	}
	defer rows.Close()

	var out []Switch
	for rows.Next() {
		var sw Switch
		if err := rows.Scan(&sw.ID, &sw.From, &sw.To, &sw.At, &sw.OK, &sw.Error); err != nil {
			return nil, fmt.Errorf("failed to scan switch: %w", err)
		}
		out = append(out, sw)
	}
	return out, rows.Err()
}
