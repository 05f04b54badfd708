package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", "quit", tea.Quit)
	reg.Bind("SPC q", "quit", tea.Quit)

	if reg.Lookup("q") == nil {
		t.Error("expected q to be bound")
	}
	if reg.Lookup("space q") == nil {
		t.Error("expected space q to normalize to SPC q")
	}
	if reg.Lookup("unknown") != nil {
		t.Error("expected unknown to be unbound")
	}
	if !reg.HasPrefix("SPC") {
		t.Error("expected SPC to be a prefix")
	}
}

func TestKeybindRegistry_BindingsSkipUndescribed(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("j", "", tea.Quit)
	reg.Bind("e", "export", tea.Quit)
	reg.Bind("a", "add", tea.Quit)
	reg.Bind("SPC e", "Export", tea.Quit)

	got := reg.Bindings("")
	if len(got) != 2 {
		t.Fatalf("expected 2 single-key bindings, got %d", len(got))
	}
	if got[0].Help().Key != "a" || got[1].Help().Key != "e" {
		t.Errorf("expected sorted [a e], got [%s %s]", got[0].Help().Key, got[1].Help().Key)
	}

	leader := reg.Bindings("SPC")
	if len(leader) != 1 || leader[0].Help().Desc != "Export" {
		t.Errorf("unexpected leader bindings: %+v", leader)
	}
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	var executed bool
	reg.Bind("SPC x", "x", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg(" "))
	if !consumed || cmd != nil {
		t.Errorf("space: consumed=%v cmd=%v", consumed, cmd)
	}
	if !h.LeaderWaiting || h.Prefix() != "SPC" {
		t.Errorf("expected leader waiting with prefix SPC, got %v %q", h.LeaderWaiting, h.Prefix())
	}

	consumed, cmd = h.Handle(keyMsg("x"))
	if !consumed || cmd == nil {
		t.Fatalf("x: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("leader should not be waiting after completing sequence")
	}
	cmd()
	if !executed {
		t.Error("expected command to execute")
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", "x", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	consumed, cmd := h.Handle(keyMsg("esc"))
	if !consumed || cmd != nil {
		t.Errorf("esc: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
}

func TestKeyHandler_UnknownLeaderSequenceResets(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", "x", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "))
	consumed, cmd := h.Handle(keyMsg("z"))
	if !consumed || cmd != nil {
		t.Errorf("z: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("unknown sequence should leave leader mode")
	}
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", "quit", tea.Quit)
	h := NewKeyHandler(reg)

	if consumed, _ := h.Handle(keyMsg("w")); consumed {
		t.Error("unbound w should not be consumed")
	}
}

// keyMsg creates a tea.KeyMsg whose String() is s.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ", "SPC":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
