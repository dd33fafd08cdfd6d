package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Roles a Turn can carry. The first turn of every history is RoleSystem.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message in a conversation history. Immutable once
// appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var (
	// ErrPersistenceUnavailable reports a failed durable write. The in-memory
	// append that preceded it is kept.
	ErrPersistenceUnavailable = errors.New("conversation persistence unavailable")

	// ErrCorruptRecord reports a stored transcript that no longer decodes.
	ErrCorruptRecord = errors.New("corrupt conversation record")
)

// Store keeps the authoritative per-user dialogue in memory and mirrors the
// full serialized history into SQLite whenever an assistant turn completes.
// Keyword-routed turns only ever touch memory.
//
// Access is safe across users; appends for the same user are serialized by a
// per-user mutex. The mutex is held only across in-memory mutation and
// snapshot copies, never across network or database calls.
type Store struct {
	db       *sql.DB
	preamble string

	mu    sync.Mutex
	users map[int64]*userState
}

type userState struct {
	mu    sync.Mutex
	turns []Turn
}

// New creates a Store persisting into db. preamble is the system persona
// seeded as the first turn of every history.
func New(db *sql.DB, preamble string) *Store {
	return &Store{
		db:       db,
		preamble: preamble,
		users:    make(map[int64]*userState),
	}
}

func (s *Store) state(userID int64) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.users[userID]
	if !ok {
		st = &userState{turns: []Turn{{Role: RoleSystem, Content: s.preamble}}}
		s.users[userID] = st
	}
	return st
}

// Ensure returns a snapshot of the user's in-memory history, creating a new
// history seeded with exactly one system turn if none exists. Never fails.
func (s *Store) Ensure(userID int64) []Turn {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return copyTurns(st.turns)
}

// AppendUser appends a user turn to the in-memory history, creating the
// history first if absent. No durable write happens here.
func (s *Store) AppendUser(userID int64, text string) {
	st := s.state(userID)
	st.mu.Lock()
	st.turns = append(st.turns, Turn{Role: RoleUser, Content: text})
	st.mu.Unlock()
}

// AppendAssistantAndPersist appends an assistant turn to the in-memory
// history, then upserts the full serialized history under userID. A persist
// failure is returned as ErrPersistenceUnavailable; the in-memory append is
// never rolled back, so the session keeps its context either way.
func (s *Store) AppendAssistantAndPersist(userID int64, text string) error {
	st := s.state(userID)
	st.mu.Lock()
	st.turns = append(st.turns, Turn{Role: RoleAssistant, Content: text})
	snapshot := copyTurns(st.turns)
	st.mu.Unlock()

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: marshal transcript for user %d: %v", ErrPersistenceUnavailable, userID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO conversations (user_id, transcript, updated_at)
		VALUES (?, ?, unixepoch())
		ON CONFLICT(user_id) DO UPDATE SET
			transcript = excluded.transcript,
			updated_at = excluded.updated_at
	`, userID, string(payload))
	if err != nil {
		return fmt.Errorf("%w: upsert for user %d: %v", ErrPersistenceUnavailable, userID, err)
	}
	return nil
}

// Reset discards the in-memory history for userID and reseeds it with the
// system preamble only. The durable record is left untouched until the next
// AppendAssistantAndPersist.
func (s *Store) Reset(userID int64) {
	st := s.state(userID)
	st.mu.Lock()
	st.turns = []Turn{{Role: RoleSystem, Content: s.preamble}}
	st.mu.Unlock()
}

// Record is one persisted transcript. Err is set on records whose stored
// transcript no longer decodes; Turns is nil for those.
type Record struct {
	UserID int64
	Turns  []Turn
	Err    error
}

// DumpAll reads every durable record and deserializes it. Corrupt records
// come back with Err set rather than failing the whole dump. In-memory state
// is not touched.
func (s *Store) DumpAll() ([]Record, error) {
	rows, err := s.db.Query(`SELECT user_id, transcript FROM conversations ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("read conversations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var raw string
		if err := rows.Scan(&rec.UserID, &raw); err != nil {
			return records, fmt.Errorf("scan conversation row: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &rec.Turns); err != nil {
			rec.Turns = nil
			rec.Err = fmt.Errorf("%w: user %d: %v", ErrCorruptRecord, rec.UserID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func copyTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
