package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Record is one answered question.
type Record struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Store owns the in-memory history and its backing JSON file. Mutation is
// mutex-guarded so concurrent asks cannot lose each other's records.
type Store struct {
	path    string
	mu      sync.RWMutex
	records []Record
}

// Open loads the persisted history. A missing file means an empty history.
// A file that exists but does not decode is an error; the caller treats it
// as fatal.
func Open(path string) (*Store, error) {
	s := &Store{path: path, records: []Record{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("decode history file %s: %w", path, err)
	}
	return s, nil
}

// Append adds a record and rewrites the whole file. The full rewrite is a
// deliberate simplicity choice; history stays small.
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	return s.saveUnlocked()
}

// Snapshot returns a copy of the history in insertion order.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

func (s *Store) saveUnlocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}
