package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModal asks for confirmation before an irreversible action.
// Enter or y confirms; Esc or n cancels.
type ConfirmModal struct {
	Title     string
	Label     string
	OnConfirm func() tea.Msg
}

var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a confirmation modal.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{Title: title, Label: label, OnConfirm: onConfirm}
}

// NewCloseConfirmModal gates quitting the application.
func NewCloseConfirmModal() *ConfirmModal {
	return NewConfirmModal(
		"Close imgstrip?",
		"The current composite is not saved between sessions.",
		func() tea.Msg { return tea.Quit() },
	)
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "n":
			return m, dismissModal
		case "enter", "y":
			if m.OnConfirm != nil {
				return m, m.OnConfirm
			}
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := Styles.TitleWarning.Render(m.Title) + "\n\n"
	content += m.Label
	content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	return Styles.BoxDanger.Render(content)
}

func dismissModal() tea.Msg {
	return DismissModalMsg{}
}
