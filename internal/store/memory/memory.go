// Package memory is the default store backend: in-process maps seeded
// from and best-effort persisted to two flat JSON documents, data/users.json
// and data/finance.json.
package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"finpal/internal/core"
)

const (
	usersFile   = "users.json"
	financeFile = "finance.json"
)

type Store struct {
	mu      sync.Mutex
	dir     string // empty disables persistence
	users   map[string]core.User
	finance map[string]core.FinancialRecord
}

// New returns an empty store with no file persistence, for tests.
func New() *Store {
	return &Store{
		users:   make(map[string]core.User),
		finance: make(map[string]core.FinancialRecord),
	}
}

// NewFromFiles loads users and finance records from dir, creating the
// directory and a demo user when nothing exists yet. Load failures fall
// back to empty maps; the store always comes up.
func NewFromFiles(dir string) *Store {
	s := New()
	s.dir = dir

	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Warn("Failed to create data directory, persistence disabled", "dir", dir, "error", err)
		s.dir = ""
		return s
	}

	readJSON(filepath.Join(dir, usersFile), &s.users)
	readJSON(filepath.Join(dir, financeFile), &s.finance)

	if len(s.users) == 0 {
		s.seedDemoUser()
		s.persistLocked()
	}
	return s
}

// seedDemoUser mirrors the starter documents the service ships with.
func (s *Store) seedDemoUser() {
	const demoPhone = "9823533097"
	s.users[demoPhone] = core.User{Phone: demoPhone, Name: "Demo User", Password: "demo123"}
	s.finance[demoPhone] = core.FinancialRecord{
		BankBalance: core.Int64(850000),
		MutualFunds: core.Int64(600000),
		Stocks:      core.Int64(400000),
		Loan:        core.Int64(300000),
		CreditScore: core.Int64(820),
	}
}

func (s *Store) GetUser(_ context.Context, phone string) (core.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[phone]
	return u, ok, nil
}

func (s *Store) PutUser(_ context.Context, u core.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Phone] = u
	s.persistLocked()
	return nil
}

func (s *Store) GetRecord(_ context.Context, phone string) (core.FinancialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Unknown phone yields the zero record with every field absent.
	return s.finance[phone], nil
}

func (s *Store) PutRecord(_ context.Context, phone string, r core.FinancialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finance[phone] = r
	s.persistLocked()
	return nil
}

func (s *Store) MergeRecord(_ context.Context, phone string, updates core.FinancialRecord) (core.FinancialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := s.finance[phone].Merge(updates)
	s.finance[phone] = merged
	s.persistLocked()
	return merged, nil
}

// persistLocked writes both documents back to disk. Persistence is best
// effort: a write failure is logged and the in-memory state stays live.
func (s *Store) persistLocked() {
	if s.dir == "" {
		return
	}
	writeJSON(filepath.Join(s.dir, usersFile), s.users)
	writeJSON(filepath.Join(s.dir, financeFile), s.finance)
}

func readJSON(path string, dst any) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read store file", "path", path, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("Failed to parse store file, starting empty", "path", path, "error", err)
	}
}

func writeJSON(path string, src any) {
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		slog.Warn("Failed to marshal store file", "path", path, "error", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		slog.Warn("Failed to write store file", "path", path, "error", err)
	}
}
