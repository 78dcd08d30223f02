package models

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PizzaHomicide/koma/internal/library"
	"github.com/PizzaHomicide/koma/internal/log"
	"github.com/PizzaHomicide/koma/internal/ui/tui/components"
	kb "github.com/PizzaHomicide/koma/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/koma/internal/ui/tui/styles"
	"github.com/PizzaHomicide/koma/internal/ui/tui/util"
)

// LibraryModel lists the media files of the library directory and lets the user pick one
type LibraryModel struct {
	width, height  int
	dir            string
	opts           library.Options
	items          []library.Item
	filtered       []library.Item
	cursor         int
	searchInput    textinput.Model
	searchMode     bool
	viewportOffset int // For scrolling
	loaded         bool
	err            error
}

// NewLibraryModel creates a picker over dir
func NewLibraryModel(dir string, opts library.Options) *LibraryModel {
	input := textinput.New()
	input.Placeholder = "Filter media..."
	input.Width = 30

	return &LibraryModel{
		dir:         dir,
		opts:        opts,
		searchInput: input,
	}
}

func (m *LibraryModel) ViewType() View {
	return ViewLibrary
}

// Init scans the library directory
func (m *LibraryModel) Init() tea.Cmd {
	return m.scan()
}

func (m *LibraryModel) scan() tea.Cmd {
	dir, opts := m.dir, m.opts
	return func() tea.Msg {
		if dir == "" {
			return LibraryErrorMsg{Error: fmt.Errorf("no media given and no library directory configured")}
		}
		items, err := library.Scan(dir, opts)
		if err != nil {
			return LibraryErrorMsg{Error: err}
		}
		return LibraryLoadedMsg{Items: items}
	}
}

// SetError shows an error above the list, e.g. when opening the selected media failed
func (m *LibraryModel) SetError(err error) {
	m.err = err
}

// Selected returns the item under the cursor
func (m *LibraryModel) Selected() (library.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return library.Item{}, false
	}
	return m.filtered[m.cursor], true
}

func (m *LibraryModel) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LibraryLoadedMsg:
		log.Info("Library loaded", "dir", m.dir, "items", len(msg.Items))
		m.items = msg.Items
		m.loaded = true
		m.err = nil
		m.applyFilter()
		return m, nil
	case LibraryErrorMsg:
		log.Warn("Failed to load library", "dir", m.dir, "error", msg.Error)
		m.loaded = true
		m.err = msg.Error
		return m, nil
	case tea.KeyMsg:
		if m.searchMode {
			return m, m.handleSearchModeKeyMsg(msg)
		}
		return m, m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *LibraryModel) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch kb.GetActionByKey(msg, kb.ContextLibrary) {
	case kb.ActionOpenMedia:
		item, ok := m.Selected()
		if !ok {
			return nil
		}
		return func() tea.Msg { return MediaSelectedMsg{Item: item} }
	case kb.ActionEnableSearch:
		m.searchMode = true
		m.searchInput.Focus()
	case kb.ActionRescanLibrary:
		m.loaded = false
		return m.scan()
	case kb.ActionQuit:
		return tea.Quit
	case kb.ActionMoveDown:
		m.moveCursor(1)
	case kb.ActionMoveUp:
		m.moveCursor(-1)
	case kb.ActionPageDown:
		m.moveCursor(m.listHeight())
	case kb.ActionPageUp:
		m.moveCursor(-m.listHeight())
	case kb.ActionMoveTop:
		m.moveCursor(-len(m.filtered))
	case kb.ActionMoveBottom:
		m.moveCursor(len(m.filtered))
	}
	return nil
}

func (m *LibraryModel) handleSearchModeKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch kb.GetActionByKey(msg, kb.ContextSearchMode) {
	case kb.ActionBack:
		// Cancels search, clearing the filter
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.applyFilter()
		return nil
	case kb.ActionSearchComplete:
		m.searchMode = false
		m.searchInput.Blur()
		m.applyFilter()
		return nil
	}

	// Let the text input model handle other keys
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Apply filters as we type
	m.applyFilter()

	return cmd
}

func (m *LibraryModel) applyFilter() {
	m.filtered = library.Filter(m.items, m.searchInput.Value())
	m.moveCursor(0)
}

func (m *LibraryModel) moveCursor(delta int) {
	m.cursor = max(0, min(len(m.filtered)-1, m.cursor+delta))

	visible := m.listHeight()
	if m.cursor < m.viewportOffset {
		m.viewportOffset = m.cursor
	}
	if m.cursor >= m.viewportOffset+visible {
		m.viewportOffset = m.cursor - visible + 1
	}
	m.viewportOffset = max(0, min(m.viewportOffset, len(m.filtered)-visible))
}

// listHeight is the number of rows available for items
func (m *LibraryModel) listHeight() int {
	return max(1, m.height-10) // Header, footer, search prompt and box borders
}

func (m *LibraryModel) View() string {
	header := styles.Header(m.width, "koma - "+util.TruncateString(m.dir, max(10, m.width-10)))

	var content string
	switch {
	case m.err != nil:
		content = styles.CenteredText(m.width, styles.Error.Render(m.err.Error()))
		if len(m.items) > 0 {
			content = lipgloss.JoinVertical(lipgloss.Left, content, m.renderList())
		}
	case !m.loaded:
		content = styles.CenteredText(m.width, styles.Info.Render("Scanning library..."))
	default:
		content = m.renderList()
	}

	if m.searchMode || m.searchInput.Value() != "" {
		searchPrompt := styles.Title.Render("Filter: ") + m.searchInput.View()
		content = lipgloss.JoinVertical(lipgloss.Left, searchPrompt, content)
	}

	footer := components.KeyBindingsBar(m.width, kb.ContextLibrary,
		kb.ActionMoveUp, kb.ActionMoveDown, kb.ActionOpenMedia, kb.ActionEnableSearch, kb.ActionRescanLibrary,
		kb.ActionQuit)

	return fmt.Sprintf("%s\n\n%s\n\n%s", header, content, footer)
}

func (m *LibraryModel) renderList() string {
	if len(m.filtered) == 0 {
		if m.searchInput.Value() != "" {
			return styles.CenteredText(m.width, "No media matches your filter")
		}
		return styles.CenteredText(m.width, "No media found")
	}

	start := m.viewportOffset
	end := min(len(m.filtered), start+m.listHeight())

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7D56F4")).
		Width(m.width-4).
		Padding(0, 1)

	normalStyle := lipgloss.NewStyle().
		Width(m.width-4).
		Padding(0, 1)

	nameWidth := max(10, m.width-20)
	var b strings.Builder
	for i := start; i < end; i++ {
		item := m.filtered[i]
		proxy := ""
		if item.HasProxy() {
			proxy = "proxy"
		}
		line := util.PadRight(item.Name, nameWidth) + " " + proxy

		if i == m.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.filtered) > end-start {
		b.WriteString(styles.CenteredText(m.width-4, fmt.Sprintf("Showing %d-%d of %d", start+1, end, len(m.filtered))))
	}

	return styles.ContentBox(m.width-2, b.String(), 0)
}

func (m *LibraryModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.moveCursor(0)
}
