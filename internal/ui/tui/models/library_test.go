package models

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PizzaHomicide/koma/internal/library"
)

func newLoadedLibrary(t *testing.T) *LibraryModel {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"alpha.mp4", "bird_song.mkv", "cat.mov", "cat_proxy.mp4", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	m := NewLibraryModel(dir, library.Options{
		Extensions:  []string{".mp4", ".mkv", ".mov"},
		ProxySuffix: "_proxy",
	})
	m.Resize(80, 30)

	msg := m.Init()()
	require.IsType(t, LibraryLoadedMsg{}, msg)
	m.Update(msg)
	return m
}

func TestLibraryModel(t *testing.T) {
	key := func(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }
	runes := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

	t.Run("ListsScannedMedia", func(t *testing.T) {
		m := newLoadedLibrary(t)
		require.Len(t, m.filtered, 3)

		item, ok := m.Selected()
		require.True(t, ok)
		assert.Equal(t, "alpha.mp4", item.Name)
		assert.Contains(t, m.View(), "bird_song.mkv")
	})

	t.Run("OpenSelected", func(t *testing.T) {
		m := newLoadedLibrary(t)
		m.Update(runes("j"))
		m.Update(runes("j"))
		m.Update(runes("j"))

		_, cmd := m.Update(key(tea.KeyEnter))
		require.NotNil(t, cmd)
		msg, ok := cmd().(MediaSelectedMsg)
		require.True(t, ok)
		assert.Equal(t, "cat.mov", msg.Item.Name)
		assert.True(t, msg.Item.HasProxy())
	})

	t.Run("FilterAsYouType", func(t *testing.T) {
		m := newLoadedLibrary(t)
		m.Update(runes("/"))
		require.True(t, m.searchMode)

		m.Update(runes("bird"))
		require.Len(t, m.filtered, 1)
		assert.Equal(t, "bird_song.mkv", m.filtered[0].Name)

		m.Update(key(tea.KeyEnter))
		assert.False(t, m.searchMode)
		assert.Len(t, m.filtered, 1)

		m.Update(runes("/"))
		m.Update(key(tea.KeyEsc))
		assert.Len(t, m.filtered, 3)
	})

	t.Run("EmptyFilterResultHasNoSelection", func(t *testing.T) {
		m := newLoadedLibrary(t)
		m.Update(runes("/"))
		m.Update(runes("zzzz"))
		_, ok := m.Selected()
		assert.False(t, ok)
		assert.Contains(t, m.View(), "No media matches your filter")
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		m := NewLibraryModel(filepath.Join(t.TempDir(), "missing"), library.Options{})
		m.Resize(80, 30)
		msg := m.Init()()
		require.IsType(t, LibraryErrorMsg{}, msg)

		m.Update(msg)
		assert.Contains(t, m.View(), "failed to read library")
	})
}
