package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func newHelpModel() help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	h.Styles.ShortDesc = Styles.Hint
	h.Styles.ShortSeparator = Styles.Hint
	return h
}

// RenderKeybindHelp renders the transient leader menu shown after SPC.
func RenderKeybindHelp(h *KeyHandler) string {
	if h == nil || !h.LeaderWaiting {
		return ""
	}
	bindings := h.Registry.Bindings(h.Prefix())
	if len(bindings) == 0 {
		return ""
	}
	bindings = append(bindings, key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1)
	hm := newHelpModel()
	return box.Render(Styles.Muted.Render(h.Prefix()) + " " + hm.ShortHelpView(bindings))
}

// RenderShortcutBar renders the always-visible single-key hints.
func RenderShortcutBar(reg *KeybindRegistry, width int) string {
	hm := newHelpModel()
	hm.Width = width
	return hm.ShortHelpView(reg.Bindings(""))
}
