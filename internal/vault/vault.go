// Package vault stores the session ticket: cached in memory, persisted to
// sqlite so a session survives process restarts. Storage writes are
// best-effort; a Store built without a database keeps the ticket for the
// process lifetime only.
package vault

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"
)

const ticketKey = "session_ticket"

// Store holds the current session ticket. Safe for concurrent use.
// Absence of a ticket is a normal state, not an error; no method fails.
type Store struct {
	mu         sync.Mutex
	db         *sql.DB
	passphrase string
	ticket     string
	loaded     bool
}

// New creates a Store backed by db. db may be nil for memory-only operation.
// A non-empty passphrase seals the ticket at rest.
func New(db *sql.DB, passphrase string) *Store {
	return &Store{db: db, passphrase: passphrase}
}

// Ticket returns the current session ticket, or "" when no session exists.
// The durable copy is read once on first access, then served from memory.
func (s *Store) Ticket() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.ticket = s.load()
		s.loaded = true
	}
	return s.ticket
}

// SetTicket replaces the ticket in memory and persists it.
func (s *Store) SetTicket(ticket string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticket = ticket
	s.loaded = true
	s.persist(ticket)
}

// Clear removes the ticket from memory and durable storage.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticket = ""
	s.loaded = true
	if s.db == nil {
		return
	}
	if _, err := s.db.Exec(`DELETE FROM vault WHERE key = ?`, ticketKey); err != nil {
		slog.Warn("vault clear failed", "error", err)
	}
}

func (s *Store) load() string {
	if s.db == nil {
		return ""
	}

	var value []byte
	var sealed bool
	err := s.db.QueryRow(`SELECT value, sealed FROM vault WHERE key = ?`, ticketKey).
		Scan(&value, &sealed)
	if err == sql.ErrNoRows {
		return ""
	}
	if err != nil {
		slog.Warn("vault read failed", "error", err)
		return ""
	}

	if sealed {
		if s.passphrase == "" {
			slog.Warn("stored ticket is sealed but no passphrase is configured")
			return ""
		}
		plain, err := Open(value, s.passphrase)
		if err != nil {
			// Treat an unsealable ticket as no session.
			slog.Warn("vault unseal failed", "error", err)
			return ""
		}
		return string(plain)
	}
	return string(value)
}

func (s *Store) persist(ticket string) {
	if s.db == nil {
		return
	}

	value := []byte(ticket)
	sealed := false
	if s.passphrase != "" {
		blob, err := Seal(value, s.passphrase)
		if err != nil {
			slog.Warn("vault seal failed, storing unsealed", "error", err)
		} else {
			value = blob
			sealed = true
		}
	}

	_, err := s.db.Exec(
		`INSERT INTO vault (key, value, sealed, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, sealed = excluded.sealed, updated_at = excluded.updated_at`,
		ticketKey, value, sealed, time.Now().UTC(),
	)
	if err != nil {
		slog.Warn("vault write failed", "error", err)
	}
}
