package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const stateFileName = "selections.json"

// Selection stores the sidebar selection for a single document
type Selection struct {
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SelectionStore manages persistent sidebar selections
type SelectionStore struct {
	path string
	data map[string]Selection
	mu   sync.RWMutex
}

// NewSelectionStore creates or loads state from XDG_STATE_HOME/pantry/
func NewSelectionStore() (*SelectionStore, error) {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &SelectionStore{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]Selection),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = make(map[string]Selection)
	}
	return store, nil
}

// Dir returns XDG_STATE_HOME/pantry or ~/.local/state/pantry
func Dir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "pantry")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "pantry")
}

// DocumentKey identifies a document by a hash of its absolute path
func DocumentKey(filename string) (string, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(hash[:16]), nil
}

// GetSelection returns the saved recipe title for a document, or "" if none
func (s *SelectionStore) GetSelection(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key].Title
}

// SetSelection saves the selected recipe title for a document
func (s *SelectionStore) SetSelection(key, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.data[key]; ok && cur.Title == title {
		return nil
	}
	s.data[key] = Selection{Title: title, UpdatedAt: time.Now().UTC()}
	return s.save()
}

// Clear removes the saved selection for a document
func (s *SelectionStore) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.save()
}

func (s *SelectionStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *SelectionStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
