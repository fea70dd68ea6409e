// Package prefs persists per-user UI preferences (favorites, remembered
// import strategies) in a flat JSON file, the way the web client kept them
// in localStorage. A missing or corrupt file degrades to empty preferences.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

type (
	prefsData struct {
		Favorites  map[string]bool   `json:"favorites"`  // "kind:id" -> true
		Strategies map[string]string `json:"strategies"` // import row key -> strategy
	}

	Store struct {
		mu   sync.Mutex
		path string
		data prefsData
	}
)

// Open loads the store at path, creating parent directories on first Save.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: prefsData{
			Favorites:  make(map[string]bool),
			Strategies: make(map[string]string),
		},
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "prefs: reading store")
	}
	var data prefsData
	if err := json.Unmarshal(raw, &data); err != nil {
		// corrupt file: start over rather than lock the user out
		return s, nil
	}
	if data.Favorites != nil {
		s.data.Favorites = data.Favorites
	}
	if data.Strategies != nil {
		s.data.Strategies = data.Strategies
	}
	return s, nil
}

// FavoriteKey builds the "kind:id" key under which favorites are stored.
func FavoriteKey(kind string, id int) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// ToggleFavorite flips an entity's favorite flag and reports the new state.
func (s *Store) ToggleFavorite(kind string, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := FavoriteKey(kind, id)
	if s.data.Favorites[key] {
		delete(s.data.Favorites, key)
	} else {
		s.data.Favorites[key] = true
	}
	return s.data.Favorites[key], s.save()
}

func (s *Store) IsFavorite(kind string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Favorites[FavoriteKey(kind, id)]
}

// Favorites returns all favorite keys, sorted for stable display.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.data.Favorites))
	for key := range s.data.Favorites {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Strategy returns the remembered import strategy for a row, if any.
func (s *Store) Strategy(rowKey string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	strat, ok := s.data.Strategies[rowKey]
	return strat, ok
}

func (s *Store) SetStrategy(rowKey, strategy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Strategies[rowKey] = strategy
	return s.save()
}

// save must be called with the lock held.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "prefs: creating store dir")
	}
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "prefs: encoding store")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "prefs: writing store")
	}
	return nil
}
