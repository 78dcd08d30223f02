package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	kb "github.com/PizzaHomicide/koma/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/koma/internal/ui/tui/styles"
)

// HelpModel displays contextual help with scrolling
type HelpModel struct {
	width, height int
	context       View
	viewport      viewport.Model
}

// NewHelpModel creates a new help model
func NewHelpModel() *HelpModel {
	return &HelpModel{
		context:  ViewLibrary,
		viewport: viewport.New(0, 0),
	}
}

func (m *HelpModel) ViewType() View {
	return ViewHelp
}

// SetContext switches the help to the given view's bindings
func (m *HelpModel) SetContext(context View) {
	m.context = context
	m.updateContent()
}

func (m *HelpModel) Init() tea.Cmd {
	return nil
}

func (m *HelpModel) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
	case tea.KeyMsg:
		switch kb.GetActionByKey(msg, kb.ContextHelp) {
		case kb.ActionMoveUp, kb.ActionMoveDown, kb.ActionPageUp, kb.ActionPageDown:
			m.viewport, cmd = m.viewport.Update(msg)
		case kb.ActionMoveTop:
			m.viewport.GotoTop()
		case kb.ActionMoveBottom:
			m.viewport.GotoBottom()
		}
	}
	return m, cmd
}

func (m *HelpModel) Resize(width, height int) {
	m.width = width
	m.height = height

	m.viewport.Width = max(1, width-4)    // Account for borders
	m.viewport.Height = max(1, height-10) // Account for header, footer, spacing

	m.updateContent()
}

func (m *HelpModel) updateContent() {
	m.viewport.SetContent(m.generateHelpContent())
	m.viewport.GotoTop()
}

func (m *HelpModel) View() string {
	header := styles.Header(m.width, "Help: "+m.contextTitle())

	scrollText := "↑/↓: Scroll • PgUp/PgDn: Page scroll • Home/End: Goto top/bottom • ESC: Return"
	footer := styles.CenteredText(m.width, styles.Info.Render(scrollText))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		styles.ContentBox(m.width-2, m.viewport.View(), 1),
		"",
		footer,
	)
}

func (m *HelpModel) contextTitle() string {
	switch m.context {
	case ViewScrub:
		return "Scrubbing"
	case ViewLibrary:
		return "Library"
	default:
		return "General"
	}
}

func keyText(binding kb.Binding) string {
	text := kb.DisplayKey(binding.KeyMap.Primary)
	if s := binding.KeyMap.Secondary; s != "" && s != text {
		text += " or " + s
	}
	return text
}

// formatKeybindingSection formats a section of keybindings with aligned colons
func formatKeybindingSection(title string, bindings []kb.Binding, skipActions map[kb.Action]bool) string {
	if len(bindings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n\n")

	maxKeyWidth := 0
	for _, binding := range bindings {
		if !skipActions[binding.Action] {
			maxKeyWidth = max(maxKeyWidth, utf8.RuneCountInString(keyText(binding)))
		}
	}

	for _, binding := range bindings {
		if skipActions[binding.Action] {
			continue
		}
		text := keyText(binding)
		padding := strings.Repeat(" ", maxKeyWidth-utf8.RuneCountInString(text))
		b.WriteString(fmt.Sprintf("• %s%s : %s\n", lipgloss.NewStyle().Bold(true).Render(text), padding,
			binding.KeyMap.Help))
	}

	return b.String()
}

func (m *HelpModel) generateHelpContent() string {
	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

	b.WriteString(titleStyle.Render(m.contextTitle()))
	b.WriteString("\n\n")
	b.WriteString(m.contextDescription())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Keybindings"))
	b.WriteString("\n\n")
	b.WriteString(formatKeybindingSection("Global commands:", kb.ContextBindings[kb.ContextGlobal], nil))

	var contextName kb.ContextName
	switch m.context {
	case ViewScrub:
		contextName = kb.ContextScrub
	case ViewLibrary:
		contextName = kb.ContextLibrary
	}

	if contextName != "" {
		b.WriteString("\n")
		b.WriteString(formatKeybindingSection(m.contextTitle()+" commands:", kb.ContextBindings[contextName], nil))
	}

	switch m.context {
	case ViewScrub:
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Mouse"))
		b.WriteString("\n\n")
		b.WriteString("• Click or drag on the seek track to scrub.  Playback pauses while dragging and resumes on release.\n")
		b.WriteString("• Click the picture area to play or pause.\n")
		b.WriteString("• Scroll to change the volume.\n")
	case ViewLibrary:
		b.WriteString("\n")
		b.WriteString(formatKeybindingSection("When filtering:", kb.ContextBindings[kb.ContextSearchMode], nil))
	}

	return b.String()
}

func (m *HelpModel) contextDescription() string {
	switch m.context {
	case ViewScrub:
		return "The scrub view controls the mpv window showing the media, frame by frame.\n\n" +
			"The seek track shows the buffered span, the played span and a cursor one frame wide. " +
			"When a proxy is present it is shown while dragging so the picture keeps up with the pointer, " +
			"and the full resolution media is shown again once the drag ends. " +
			"While mpv is fullscreen the controls hide after a short period without input."
	case ViewLibrary:
		return "The library lists the media files of the library directory.\n\n" +
			"Files ending with the proxy suffix are not listed on their own. They are opened alongside the media " +
			"sharing their name and shown while scrubbing."
	default:
		return "koma is a frame accurate media scrubber driving mpv."
	}
}
