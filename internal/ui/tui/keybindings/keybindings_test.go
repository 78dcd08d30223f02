package keybindings

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNoDuplicateKeyBindings(t *testing.T) {
	// Check each context individually
	for contextName, bindings := range ContextBindings {
		t.Run(fmt.Sprintf("Context_%s", contextName), func(t *testing.T) {
			keyToAction := make(map[string]Action)

			for _, binding := range bindings {
				for _, key := range []string{binding.KeyMap.Primary, binding.KeyMap.Secondary} {
					if key == "" {
						continue
					}
					if existingAction, exists := keyToAction[key]; exists {
						t.Errorf("Duplicate key binding '%s' in context '%s': "+
							"first assigned to action '%s', then to '%s'",
							key, contextName, existingAction, binding.Action)
						continue
					}
					keyToAction[key] = binding.Action
				}
			}
		})
	}
}

func TestGetActionByKey(t *testing.T) {
	tests := []struct {
		name    string
		msg     tea.KeyMsg
		context ContextName
		want    Action
	}{
		{"Space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, ContextScrub, ActionTogglePlay},
		{"ArrowLeft", tea.KeyMsg{Type: tea.KeyLeft}, ContextScrub, ActionPrevFrame},
		{"ShiftRight", tea.KeyMsg{Type: tea.KeyShiftRight}, ContextScrub, ActionSeekFwdSecond},
		{"SecondaryKey", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'='}}, ContextScrub, ActionVolumeUp},
		{"LibraryEnter", tea.KeyMsg{Type: tea.KeyEnter}, ContextLibrary, ActionOpenMedia},
		{"Unbound", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, ContextScrub, ""},
		{"UnknownContext", tea.KeyMsg{Type: tea.KeyEnter}, ContextName("nope"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetActionByKey(tt.msg, tt.context))
		})
	}
}

func TestDisplayKey(t *testing.T) {
	assert.Equal(t, "space", DisplayKey(" "))
	assert.Equal(t, "f", DisplayKey("f"))
}
