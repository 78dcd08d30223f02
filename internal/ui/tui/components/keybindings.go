package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	kb "github.com/PizzaHomicide/koma/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/koma/internal/ui/tui/styles"
)

// keyStyle is used to highlight keyboard shortcuts in UI
var keyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#7D56F4")).
	Bold(true)

// KeyBindingsBar creates a styled footer showing the keys for the given actions of a context
// width: The width of the screen to center the bar
// actions: The actions to show, in order.  Actions without a binding in the context are skipped.
func KeyBindingsBar(width int, context kb.ContextName, actions ...kb.Action) string {
	bindings := kb.ContextBindings[context]

	var parts []string
	for _, action := range actions {
		key := kb.GetActionKey(action, bindings)
		if key == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", keyStyle.Render(kb.DisplayKey(key)), shortHelp(action)))
	}

	keyBar := styles.Info.Render(strings.Join(parts, " • "))
	return styles.CenteredText(width, keyBar)
}

func shortHelp(action kb.Action) string {
	return strings.ReplaceAll(string(action), "_", " ")
}
