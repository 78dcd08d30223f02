package models

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PizzaHomicide/koma/internal/config"
	"github.com/PizzaHomicide/koma/internal/library"
	"github.com/PizzaHomicide/koma/internal/log"
	"github.com/PizzaHomicide/koma/internal/scrub"
)

// Session is an opened media as seen by the UI
type Session interface {
	Close() error
	Done() <-chan struct{}
}

// Opener starts the players for an item and attaches them to the controller
type Opener func(item library.Item) (Session, error)

// AppModel is the main application model that coordinates all child models.  It is the high level wrapper.
type AppModel struct {
	config        *config.Config
	ctrl          *scrub.Controller
	open          Opener
	activeView    View  // Track the current active 'main view'
	activeModal   Modal // Track the current active 'modal overlay' if any
	width, height int

	// Models used for various views
	libraryModel *LibraryModel
	loadingModel *LoadingModel
	scrubModel   *ScrubModel
	helpModel    *HelpModel

	session     Session
	closing     bool          // a closed session's players are still stopping
	queued      *library.Item // selected while closing, opened once closed
	initial     *library.Item
	lastVersion uint64
	err         error
}

// NewAppModel creates the application model.  When initial is not nil it is opened straight away, otherwise the
// library picker is shown.
func NewAppModel(cfg *config.Config, ctrl *scrub.Controller, open Opener, initial *library.Item) AppModel {
	opts := library.Options{
		Extensions:  cfg.Library.Extensions,
		ProxySuffix: cfg.Library.ProxySuffix,
	}
	return AppModel{
		config:       cfg,
		ctrl:         ctrl,
		open:         open,
		activeView:   ViewLibrary,
		activeModal:  ModalNone,
		libraryModel: NewLibraryModel(cfg.Library.Dir, opts),
		loadingModel: NewLoadingModel(),
		scrubModel:   NewScrubModel(ctrl, cfg.Scrub.VolumeStep),
		helpModel:    NewHelpModel(),
		initial:      initial,
	}
}

func (m AppModel) Init() tea.Cmd {
	log.Info("Initialising koma TUI")

	if m.initial != nil {
		return func() tea.Msg { return MediaSelectedMsg{Item: *m.initial} }
	}
	return m.libraryModel.Init()
}

// Err returns the error that ended the program, if any
func (m AppModel) Err() error {
	return m.err
}

// Shutdown closes the open media and remembers the volume for the next start
func (m AppModel) Shutdown() {
	if m.session != nil {
		if err := m.session.Close(); err != nil {
			log.Warn("Failed to close media", "error", err)
		}
	}

	volume := m.ctrl.Snapshot().Volume
	if volume == m.config.Scrub.Volume || m.ctrl.Snapshot().Muted {
		return
	}
	err := config.UpdateConfig(func(conf *config.Config) {
		conf.Scrub.Volume = volume
	})
	if err != nil {
		log.Warn("Error saving volume to config", "error", err)
	}
}

// Update handles messages and updates the models as appropriate
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			log.Info("Quit command received.  Shutting down...")
			return m, tea.Quit
		case "ctrl+h":
			log.Debug("Help requested", "active_view", m.activeView)
			// Disable/toggle modal if one already active
			if m.activeModal != ModalNone {
				m.activeModal = ModalNone
			} else {
				m.helpModel.SetContext(m.activeView)
				m.activeModal = ModalHelp
			}
			return m, nil
		case "esc":
			if m.activeModal != ModalNone {
				m.activeModal = ModalNone
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		log.Debug("Window size changed", "old_width", m.width, "new_width", msg.Width, "old_height", m.height, "new_height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height

		// Propagate new window size to all views so they are aware and can render correctly
		m.libraryModel.Resize(msg.Width, msg.Height)
		m.loadingModel.Resize(msg.Width, msg.Height)
		m.scrubModel.Resize(msg.Width, msg.Height)
		m.helpModel.Resize(msg.Width, msg.Height)
		return m, nil

	case StateMsg:
		// Snapshots are delivered from other goroutines and may overtake each other
		if msg.State.Version < m.lastVersion {
			log.Trace("Dropping stale state", "version", msg.State.Version, "last", m.lastVersion)
			return m, nil
		}
		m.lastVersion = msg.State.Version
		m.scrubModel.SetState(msg.State)
		return m, nil

	case spinner.TickMsg:
		if m.activeView == ViewLoading {
			return m.delegate(m.loadingModel, msg)
		}
		return m, nil

	case MediaSelectedMsg:
		if m.closing {
			// Closing detaches the controller, which must not happen to the next session
			item := msg.Item
			m.queued = &item
			return m, nil
		}
		log.Info("Opening media", "path", msg.Item.Path, "proxy", msg.Item.Proxy)
		m.activeView = ViewLoading
		m.activeModal = ModalNone
		info := "Waiting for mpv"
		if msg.Item.HasProxy() {
			info = "Waiting for mpv and the proxy player"
		}
		return m, tea.Batch(
			m.loadingModel.Start("Opening "+filepath.Base(msg.Item.Path), info),
			m.openCmd(msg.Item),
		)

	case SessionOpenedMsg:
		m.session = msg.Session
		m.activeView = ViewScrub
		m.scrubModel.SetItem(msg.Item)
		m.scrubModel.SetState(m.ctrl.Snapshot())
		m.ctrl.OnActivity()
		return m, waitForSessionEnd(msg.Session)

	case SessionErrorMsg:
		log.Error("Failed to open media", "path", msg.Item.Path, "error", msg.Error)
		if m.initial != nil && m.config.Library.Dir == "" {
			m.err = msg.Error
			return m, tea.Quit
		}
		m.libraryModel.SetError(msg.Error)
		m.activeView = ViewLibrary
		return m, m.libraryModel.Init()

	case SessionEndedMsg:
		if msg.Session != m.session {
			return m, nil
		}
		log.Info("Player closed")
		return m.closeMedia()

	case CloseMediaMsg:
		return m.closeMedia()

	case SessionClosedMsg:
		m.closing = false
		if msg.Quit {
			return m, tea.Quit
		}
		if m.queued != nil {
			item := *m.queued
			m.queued = nil
			return m, func() tea.Msg { return MediaSelectedMsg{Item: item} }
		}
		return m, m.libraryModel.Init()
	}

	// Prioritise delegating messages to a modal if one is active
	if m.activeModal == ModalHelp {
		return m.delegate(m.helpModel, msg)
	}

	// Delegate message processing to the active view
	switch m.activeView {
	case ViewLibrary:
		return m.delegate(m.libraryModel, msg)
	case ViewScrub:
		return m.delegate(m.scrubModel, msg)
	}

	return m, nil
}

// delegate passes a message to a child model.  Child models are pointers so their updates are kept.
func (m AppModel) delegate(child Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := child.Update(msg)
	return m, cmd
}

func (m AppModel) openCmd(item library.Item) tea.Cmd {
	open := m.open
	return func() tea.Msg {
		start := time.Now()
		session, err := open(item)
		if err != nil {
			return SessionErrorMsg{Item: item, Error: err}
		}
		log.Debug("Media opened", "path", item.Path, "elapsed", time.Since(start))
		return SessionOpenedMsg{Item: item, Session: session}
	}
}

// closeMedia closes the open session off the update loop, then returns to the library or quits when there is no
// library to return to
func (m AppModel) closeMedia() (tea.Model, tea.Cmd) {
	session := m.session
	m.session = nil

	m.closing = true
	quit := m.config.Library.Dir == ""
	if !quit {
		m.activeView = ViewLibrary
	}
	return m, closeSessionCmd(session, quit)
}

// closeSessionCmd stops the players, which can take a couple of seconds when mpv is slow to quit
func closeSessionCmd(s Session, quit bool) tea.Cmd {
	return func() tea.Msg {
		if s != nil {
			if err := s.Close(); err != nil {
				log.Warn("Failed to close media", "error", err)
			}
		}
		return SessionClosedMsg{Quit: quit}
	}
}

func waitForSessionEnd(s Session) tea.Cmd {
	return func() tea.Msg {
		<-s.Done()
		return SessionEndedMsg{Session: s}
	}
}

func (m AppModel) View() string {
	if m.activeModal == ModalHelp {
		return m.helpModel.View()
	}

	switch m.activeView {
	case ViewLibrary:
		return m.libraryModel.View()
	case ViewLoading:
		return m.loadingModel.View()
	case ViewScrub:
		return m.scrubModel.View()
	default:
		return "Unknown view\nPress ctrl+c to quit."
	}
}
