package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const testPreamble = "You are a friendly and engaging assistant."

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`CREATE TABLE conversations (
		user_id INTEGER PRIMARY KEY,
		transcript TEXT NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (unixepoch())
	)`)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEnsure_SeedsSystemTurn(t *testing.T) {
	s := New(setupTestDB(t), testPreamble)

	history := s.Ensure(42)
	if len(history) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(history))
	}
	if history[0].Role != RoleSystem {
		t.Errorf("expected system role, got %q", history[0].Role)
	}
	if history[0].Content != testPreamble {
		t.Errorf("unexpected preamble: %q", history[0].Content)
	}
}

func TestEnsure_Idempotent(t *testing.T) {
	s := New(setupTestDB(t), testPreamble)

	s.AppendUser(42, "hello")
	history := s.Ensure(42)
	if len(history) != 2 {
		t.Fatalf("expected 2 turns after ensure, got %d", len(history))
	}
}

func TestAppend_OrderMatchesCallOrder(t *testing.T) {
	s := New(setupTestDB(t), testPreamble)

	s.AppendUser(1, "first")
	if err := s.AppendAssistantAndPersist(1, "second"); err != nil {
		t.Fatal(err)
	}
	s.AppendUser(1, "third")
	s.AppendUser(1, "fourth")

	history := s.Ensure(1)
	want := []Turn{
		{Role: RoleSystem, Content: testPreamble},
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "second"},
		{Role: RoleUser, Content: "third"},
		{Role: RoleUser, Content: "fourth"},
	}
	if !reflect.DeepEqual(history, want) {
		t.Errorf("unexpected history:\n got %+v\nwant %+v", history, want)
	}
}

func TestAppendUser_NoDurableWrite(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, testPreamble)

	s.AppendUser(1, "tell me a joke")

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected no persisted records, got %d", count)
	}
}

func TestAppendAssistantAndPersist_DumpMatchesMemory(t *testing.T) {
	s := New(setupTestDB(t), testPreamble)

	s.AppendUser(7, "how are you")
	if err := s.AppendAssistantAndPersist(7, "doing great!"); err != nil {
		t.Fatal(err)
	}

	records, err := s.DumpAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].UserID != 7 {
		t.Errorf("unexpected user id %d", records[0].UserID)
	}
	if !reflect.DeepEqual(records[0].Turns, s.Ensure(7)) {
		t.Errorf("persisted transcript diverges from memory:\n got %+v\nwant %+v", records[0].Turns, s.Ensure(7))
	}
}

func TestAppendAssistantAndPersist_UpsertReplacesRecord(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, testPreamble)

	s.AppendUser(7, "q1")
	if err := s.AppendAssistantAndPersist(7, "a1"); err != nil {
		t.Fatal(err)
	}
	s.AppendUser(7, "q2")
	if err := s.AppendAssistantAndPersist(7, "a2"); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM conversations WHERE user_id = 7`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected a single upserted row, got %d", count)
	}

	records, err := s.DumpAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records[0].Turns) != 5 {
		t.Errorf("expected 5 turns in replaced record, got %d", len(records[0].Turns))
	}
}

func TestAppendAssistantAndPersist_FailureKeepsMemory(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, testPreamble)

	s.AppendUser(3, "hello")
	db.Close()

	err := s.AppendAssistantAndPersist(3, "hi there")
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if !errors.Is(err, ErrPersistenceUnavailable) {
		t.Fatalf("expected ErrPersistenceUnavailable, got %v", err)
	}

	history := s.Ensure(3)
	if len(history) != 3 {
		t.Fatalf("expected 3 turns retained in memory, got %d", len(history))
	}
	if history[2].Role != RoleAssistant || history[2].Content != "hi there" {
		t.Errorf("assistant turn missing after failed persist: %+v", history[2])
	}
}

func TestReset_ReseedsPreambleOnly(t *testing.T) {
	s := New(setupTestDB(t), testPreamble)

	s.AppendUser(5, "a")
	if err := s.AppendAssistantAndPersist(5, "b"); err != nil {
		t.Fatal(err)
	}

	s.Reset(5)

	history := s.Ensure(5)
	if len(history) != 1 {
		t.Fatalf("expected 1 turn after reset, got %d", len(history))
	}
	if history[0].Role != RoleSystem {
		t.Errorf("expected system role after reset, got %q", history[0].Role)
	}

	// Durable record is untouched by reset.
	records, err := s.DumpAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || len(records[0].Turns) != 3 {
		t.Errorf("expected prior durable record to survive reset, got %+v", records)
	}
}

func TestDumpAll_SkipsCorruptRecord(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, testPreamble)

	s.AppendUser(1, "q")
	if err := s.AppendAssistantAndPersist(1, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO conversations (user_id, transcript) VALUES (2, 'not json')`); err != nil {
		t.Fatal(err)
	}

	records, err := s.DumpAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Err != nil {
		t.Errorf("expected healthy record for user 1, got %v", records[0].Err)
	}
	if !errors.Is(records[1].Err, ErrCorruptRecord) {
		t.Errorf("expected ErrCorruptRecord for user 2, got %v", records[1].Err)
	}
	if records[1].Turns != nil {
		t.Errorf("expected nil turns for corrupt record, got %+v", records[1].Turns)
	}
}

func TestDumpAll_DoesNotTouchMemory(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, testPreamble)

	transcript, _ := json.Marshal([]Turn{{Role: RoleSystem, Content: "other preamble"}})
	if _, err := db.Exec(`INSERT INTO conversations (user_id, transcript) VALUES (9, ?)`, string(transcript)); err != nil {
		t.Fatal(err)
	}

	if _, err := s.DumpAll(); err != nil {
		t.Fatal(err)
	}

	// User 9 still gets a fresh seeded history, not the durable one.
	history := s.Ensure(9)
	if len(history) != 1 || history[0].Content != testPreamble {
		t.Errorf("DumpAll leaked durable state into memory: %+v", history)
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := New(setupTestDB(t), testPreamble)

	const users = 8
	const perUser = 25

	var wg sync.WaitGroup
	for u := int64(0); u < users; u++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			for i := 0; i < perUser; i++ {
				s.AppendUser(userID, fmt.Sprintf("msg %d", i))
			}
		}(u)
	}
	wg.Wait()

	for u := int64(0); u < users; u++ {
		history := s.Ensure(u)
		if len(history) != perUser+1 {
			t.Errorf("user %d: expected %d turns, got %d", u, perUser+1, len(history))
		}
	}
}

func TestEnsure_ReturnsCopy(t *testing.T) {
	s := New(setupTestDB(t), testPreamble)

	history := s.Ensure(1)
	history[0].Content = "mutated"

	fresh := s.Ensure(1)
	if fresh[0].Content != testPreamble {
		t.Error("Ensure exposed internal turn slice")
	}
}
