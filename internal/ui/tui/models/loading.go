package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PizzaHomicide/koma/internal/ui/tui/styles"
)

// LoadingModel shows a spinner while the players start and connect
type LoadingModel struct {
	width, height int
	message       string
	contextInfo   string // Optional additional context
	started       time.Time
	spinner       spinner.Model
}

// NewLoadingModel creates a new loading model with the required message
func NewLoadingModel() *LoadingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	return &LoadingModel{spinner: s}
}

// Start sets the messages shown and returns the command that starts the spinner
func (m *LoadingModel) Start(message, contextInfo string) tea.Cmd {
	m.message = message
	m.contextInfo = contextInfo
	m.started = time.Now()
	return m.spinner.Tick
}

func (m *LoadingModel) ViewType() View {
	return ViewLoading
}

func (m *LoadingModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *LoadingModel) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *LoadingModel) View() string {
	contentWidth := min(m.width-20, 80)
	if contentWidth < 40 {
		contentWidth = min(m.width-4, 40)
	}

	centerStyle := lipgloss.NewStyle().
		Width(contentWidth - 6). // Account for padding
		Align(lipgloss.Center)

	var b strings.Builder
	primaryRow := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D86FF")).Bold(true).Render(m.spinner.View()) +
		" " + lipgloss.NewStyle().Bold(true).Render(m.message)
	b.WriteString(centerStyle.Render(primaryRow))

	if m.contextInfo != "" {
		b.WriteString("\n\n")
		b.WriteString(centerStyle.Foreground(lipgloss.Color("#AAAAAA")).Italic(true).Render(m.contextInfo))
	}

	// mpv can take a while to open its window on a cold start
	if elapsed := time.Since(m.started); !m.started.IsZero() && elapsed >= 2*time.Second {
		b.WriteString("\n\n")
		b.WriteString(centerStyle.Foreground(lipgloss.Color("#666666")).Render(
			fmt.Sprintf("%ds", int(elapsed.Seconds()))))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#9D86FF")).
		Padding(2, 3).
		Width(contentWidth).
		Render(b.String())

	return styles.CenteredView(m.width, m.height, box)
}

func (m *LoadingModel) Resize(width, height int) {
	m.width = width
	m.height = height
}
