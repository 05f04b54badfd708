package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"imgstrip/internal/sequence"
)

// InputModal collects one line of text. Submit validates the value and
// returns the message to send; a non-nil error keeps the modal open.
type InputModal struct {
	Title  string
	Submit func(value string) (tea.Msg, error)
	input  textinput.Model
	err    error
}

var _ View = (*InputModal)(nil)

// NewInputModal creates a focused single-line input.
func NewInputModal(title, placeholder, value string, submit func(string) (tea.Msg, error)) *InputModal {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 60
	ti.SetValue(value)
	ti.Focus()
	return &InputModal{Title: title, Submit: submit, input: ti}
}

// NewOpenFileModal asks for an image path for the given slot, or for a new
// slot when slot is 0.
func NewOpenFileModal(slot sequence.ID) *InputModal {
	title := "Image for a new slot"
	if slot != 0 {
		title = fmt.Sprintf("Image for slot %d", slot)
	}
	return NewInputModal(
		title,
		"path/to/image.png",
		"",
		func(v string) (tea.Msg, error) {
			path := strings.TrimSpace(v)
			if path == "" {
				return nil, fmt.Errorf("enter a file path")
			}
			return LoadFileMsg{Slot: slot, Path: expandHome(path)}, nil
		},
	)
}

// NewGapModal asks for a non-negative gap in pixels.
func NewGapModal(current int) *InputModal {
	return NewInputModal(
		"Gap (pixels)",
		"10",
		strconv.Itoa(current),
		func(v string) (tea.Msg, error) {
			gap, err := parseGap(v)
			if err != nil {
				return nil, err
			}
			return SetGapMsg{Gap: gap}, nil
		},
	)
}

func parseGap(v string) (int, error) {
	gap, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("gap must be a whole number")
	}
	if gap < 0 {
		return 0, fmt.Errorf("gap must be non-negative")
	}
	return gap, nil
}

// Init implements View.
func (m *InputModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *InputModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, dismissModal
		case "enter":
			out, err := m.Submit(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			return m, func() tea.Msg { return ModalResultMsg{Msg: out} }
		}
	}
	m.err = nil
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Value returns the current input text.
func (m *InputModal) Value() string {
	return m.input.Value()
}

// Err returns the last validation error.
func (m *InputModal) Err() error {
	return m.err
}

// View implements View.
func (m *InputModal) View() string {
	content := Styles.Title.Render(m.Title) + "\n\n"
	content += m.input.View()
	if m.err != nil {
		content += "\n" + Styles.Error.Render(m.err.Error())
	}
	content += "\n\n" + Styles.Hint.Render("Enter: ok  Esc: cancel")
	return Styles.Box.Render(content)
}
