package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ToggleFavorite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	s, err := Open(path)
	require.NoError(t, err)

	on, err := s.ToggleFavorite("subject", 42)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.IsFavorite("subject", 42))

	off, err := s.ToggleFavorite("subject", 42)
	require.NoError(t, err)
	assert.False(t, off)
	assert.False(t, s.IsFavorite("subject", 42))
}

func TestStore_FavoritesSorted(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)

	for _, fav := range []struct {
		kind string
		id   int
	}{{"subject", 9}, {"university", 1}, {"faculty", 3}} {
		_, err := s.ToggleFavorite(fav.kind, fav.id)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"faculty:3", "subject:9", "university:1"}, s.Favorites())
}

func TestStore_Strategies(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prefs.json"))
	require.NoError(t, err)

	_, ok := s.Strategy("university:MIT")
	assert.False(t, ok)

	require.NoError(t, s.SetStrategy("university:MIT", "merge"))
	strat, ok := s.Strategy("university:MIT")
	assert.True(t, ok)
	assert.Equal(t, "merge", strat)
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.ToggleFavorite("lecture", 7)
	require.NoError(t, err)
	require.NoError(t, s1.SetStrategy("user:ada@mit.edu", "skip"))

	s2, err := Open(path)
	require.NoError(t, err)
	assert.True(t, s2.IsFavorite("lecture", 7))
	strat, ok := s2.Strategy("user:ada@mit.edu")
	assert.True(t, ok)
	assert.Equal(t, "skip", strat)
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, s.Favorites())

	// and it is usable from there
	on, err := s.ToggleFavorite("subject", 1)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nope", "prefs.json"))
	require.NoError(t, err)
	assert.Empty(t, s.Favorites())
}
