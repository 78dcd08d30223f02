package models

import (
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PizzaHomicide/koma/internal/config"
	"github.com/PizzaHomicide/koma/internal/library"
	"github.com/PizzaHomicide/koma/internal/scrub"
)

type fakeSession struct {
	mu     sync.Mutex
	closed int
	done   chan struct{}
}

func newFakeSession() *fakeSession {
	return &fakeSession{done: make(chan struct{})}
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeSession) Done() <-chan struct{} {
	return s.done
}

func (s *fakeSession) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func newTestApp(t *testing.T, libraryDir string, open Opener) AppModel {
	t.Helper()
	ctrl := scrub.NewController(scrub.Options{FPS: 25})
	t.Cleanup(ctrl.Close)

	cfg := &config.Config{
		Scrub:   config.ScrubConfig{Volume: 1, VolumeStep: 0.05},
		Library: config.LibraryConfig{Dir: libraryDir, ProxySuffix: "_proxy", Extensions: []string{".mp4"}},
	}
	m := NewAppModel(cfg, ctrl, open, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(AppModel)
}

func step(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(AppModel)
	require.True(t, ok)
	return app, cmd
}

func TestAppStateMessages(t *testing.T) {
	m := newTestApp(t, "", nil)

	m, _ = step(t, m, StateMsg{State: scrub.State{Version: 5, CurrentFrame: 50}})
	assert.Equal(t, 50, m.scrubModel.state.CurrentFrame)

	m, _ = step(t, m, StateMsg{State: scrub.State{Version: 3, CurrentFrame: 30}})
	assert.Equal(t, 50, m.scrubModel.state.CurrentFrame, "older snapshot must be dropped")
	assert.Equal(t, uint64(5), m.lastVersion)

	m, _ = step(t, m, StateMsg{State: scrub.State{Version: 6, CurrentFrame: 60}})
	assert.Equal(t, 60, m.scrubModel.state.CurrentFrame)
}

func TestAppOpenMedia(t *testing.T) {
	item := library.Item{Name: "clip.mp4", Path: "/media/clip.mp4"}

	t.Run("OpenedSessionShowsScrubView", func(t *testing.T) {
		session := newFakeSession()
		var opened []library.Item
		m := newTestApp(t, "", func(it library.Item) (Session, error) {
			opened = append(opened, it)
			return session, nil
		})

		m, cmd := step(t, m, MediaSelectedMsg{Item: item})
		assert.Equal(t, ViewLoading, m.activeView)
		assert.NotNil(t, cmd)

		msg := m.openCmd(item)()
		require.IsType(t, SessionOpenedMsg{}, msg)
		assert.Equal(t, []library.Item{item}, opened)

		m, cmd = step(t, m, msg)
		assert.Equal(t, ViewScrub, m.activeView)
		assert.Equal(t, item, m.scrubModel.item)
		require.NotNil(t, cmd)

		close(session.done)
		assert.Equal(t, SessionEndedMsg{Session: session}, cmd())
	})

	t.Run("OpenFailureWithoutLibraryQuits", func(t *testing.T) {
		boom := errors.New("mpv not found")
		m := newTestApp(t, "", func(library.Item) (Session, error) { return nil, boom })
		m.initial = &item

		msg := m.openCmd(item)()
		require.IsType(t, SessionErrorMsg{}, msg)

		m, cmd := step(t, m, msg)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
		assert.ErrorIs(t, m.Err(), boom)
	})

	t.Run("OpenFailureReturnsToLibrary", func(t *testing.T) {
		m := newTestApp(t, t.TempDir(), nil)
		m, _ = step(t, m, SessionErrorMsg{Item: item, Error: errors.New("mpv not found")})
		assert.Equal(t, ViewLibrary, m.activeView)
		assert.NoError(t, m.Err())
		assert.Contains(t, m.View(), "mpv not found")
	})
}

func TestAppSessionEnd(t *testing.T) {
	item := library.Item{Name: "clip.mp4", Path: "/media/clip.mp4"}

	t.Run("StaleSessionIgnored", func(t *testing.T) {
		current, stale := newFakeSession(), newFakeSession()
		m := newTestApp(t, t.TempDir(), nil)
		m, _ = step(t, m, SessionOpenedMsg{Item: item, Session: current})

		m, cmd := step(t, m, SessionEndedMsg{Session: stale})
		assert.Nil(t, cmd)
		assert.Equal(t, ViewScrub, m.activeView)
		assert.Zero(t, current.closeCount())
	})

	t.Run("EndedSessionReturnsToLibrary", func(t *testing.T) {
		session := newFakeSession()
		m := newTestApp(t, t.TempDir(), nil)
		m, _ = step(t, m, SessionOpenedMsg{Item: item, Session: session})

		m, cmd := step(t, m, SessionEndedMsg{Session: session})
		assert.Equal(t, ViewLibrary, m.activeView)
		assert.Nil(t, m.session)
		assert.Zero(t, session.closeCount(), "players are stopped off the update loop")
		require.NotNil(t, cmd)

		msg := cmd()
		assert.Equal(t, SessionClosedMsg{Quit: false}, msg)
		assert.Equal(t, 1, session.closeCount())

		_, cmd = step(t, m, msg)
		assert.NotNil(t, cmd, "the library is scanned again")
	})

	t.Run("CloseMediaWithoutLibraryQuits", func(t *testing.T) {
		session := newFakeSession()
		m := newTestApp(t, "", nil)
		m, _ = step(t, m, SessionOpenedMsg{Item: item, Session: session})

		m, cmd := step(t, m, CloseMediaMsg{})
		require.NotNil(t, cmd)
		assert.Zero(t, session.closeCount())

		msg := cmd()
		assert.Equal(t, SessionClosedMsg{Quit: true}, msg)
		assert.Equal(t, 1, session.closeCount())

		_, cmd = step(t, m, msg)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	})
}

func TestAppSelectWhileClosing(t *testing.T) {
	first := library.Item{Name: "a.mp4", Path: "/media/a.mp4"}
	next := library.Item{Name: "b.mp4", Path: "/media/b.mp4"}
	session := newFakeSession()

	m := newTestApp(t, t.TempDir(), nil)
	m, _ = step(t, m, SessionOpenedMsg{Item: first, Session: session})
	m, closeCmd := step(t, m, CloseMediaMsg{})

	m, cmd := step(t, m, MediaSelectedMsg{Item: next})
	assert.Nil(t, cmd)
	assert.Equal(t, ViewLibrary, m.activeView, "opening waits for the previous players to stop")

	m, cmd = step(t, m, closeCmd())
	require.NotNil(t, cmd)
	assert.Equal(t, MediaSelectedMsg{Item: next}, cmd())
	assert.False(t, m.closing)
	assert.Nil(t, m.queued)
}

func TestAppHelpModal(t *testing.T) {
	m := newTestApp(t, "", nil)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlH})
	assert.Equal(t, ModalHelp, m.activeModal)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModalNone, m.activeModal)
}
