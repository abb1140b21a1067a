package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/slidedeck/internal/presenter"
)

var keyNames = map[string]presenter.Key{
	"right":  {Name: presenter.KeyArrowRight},
	"l":      {Name: presenter.KeyArrowRight},
	"left":   {Name: presenter.KeyArrowLeft},
	"h":      {Name: presenter.KeyArrowLeft},
	" ":      {Name: presenter.KeySpace},
	"pgdown": {Name: presenter.KeyPageDown},
	"pgup":   {Name: presenter.KeyPageUp},
	"home":   {Name: presenter.KeyHome},
	"end":    {Name: presenter.KeyEnd},
	"esc":    {Name: presenter.KeyEscape},
	"ctrl+f": {Name: "f", Ctrl: true},
	"alt+f":  {Name: "f", Meta: true},
}

// presenterKey translates a terminal key press to the presenter key
// contract.
func presenterKey(msg tea.KeyMsg) (presenter.Key, bool) {
	k, ok := keyNames[msg.String()]
	return k, ok
}
