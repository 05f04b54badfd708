package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps key sequences to commands.
// Sequences use spacemacs-style notation: "SPC e" is space then e.
// Single keys use tea's names: "j", "J", "+", "esc", "ctrl+c", "enter".
type KeybindRegistry struct {
	bindings     map[string]tea.Cmd
	descriptions map[string]string
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
	}
}

// Bind registers seq, overwriting any existing binding.
func (r *KeybindRegistry) Bind(seq, desc string, cmd tea.Cmd) {
	n := normalizeSeq(seq)
	r.bindings[n] = cmd
	if desc != "" {
		r.descriptions[n] = desc
	}
}

// Lookup returns the command for seq, or nil.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.bindings[normalizeSeq(seq)]
}

// HasPrefix reports whether a longer binding continues seq.
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	prefix := normalizeSeq(seq) + " "
	for k := range r.bindings {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// Bindings returns help entries for described sequences one key past prefix,
// sorted by key. With an empty prefix it lists single-key bindings.
func (r *KeybindRegistry) Bindings(prefix string) []key.Binding {
	p := ""
	if prefix != "" {
		p = normalizeSeq(prefix) + " "
	}
	var keys []string
	for seq, cmd := range r.bindings {
		if cmd == nil || r.descriptions[seq] == "" || !strings.HasPrefix(seq, p) {
			continue
		}
		rest := strings.TrimPrefix(seq, p)
		if strings.Contains(rest, " ") {
			continue
		}
		keys = append(keys, seq)
	}
	sort.Strings(keys)

	out := make([]key.Binding, 0, len(keys))
	for _, seq := range keys {
		k := strings.TrimPrefix(seq, p)
		out = append(out, key.NewBinding(key.WithKeys(k), key.WithHelp(k, r.descriptions[seq])))
	}
	return out
}

// normalizeSeq converts tea key strings to our canonical format.
func normalizeSeq(seq string) string {
	if seq == " " {
		return "SPC"
	}
	parts := strings.Fields(seq)
	for i, p := range parts {
		if p == "space" {
			parts[i] = "SPC"
		}
	}
	return strings.Join(parts, " ")
}

// KeyHandler tracks leader-key state and dispatches to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderWaiting bool
	Buffer        []string // sequence typed since the leader key
}

// NewKeyHandler creates a handler with SPC as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Handle processes a key. consumed reports whether views should not see it.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	s := keyToSeqPart(msg.String())

	if s == "esc" {
		if h.LeaderWaiting {
			h.reset()
			return true, nil
		}
		return false, nil
	}

	if s == "SPC" && !h.LeaderWaiting {
		h.LeaderWaiting = true
		h.Buffer = []string{"SPC"}
		return true, nil
	}

	if h.LeaderWaiting {
		h.Buffer = append(h.Buffer, s)
		seq := strings.Join(h.Buffer, " ")
		if c := h.Registry.Lookup(seq); c != nil {
			h.reset()
			return true, c
		}
		if !h.Registry.HasPrefix(seq) {
			h.reset()
		}
		return true, nil
	}

	if c := h.Registry.Lookup(s); c != nil {
		return true, c
	}
	return false, nil
}

// Prefix returns the pending leader sequence, e.g. "SPC".
func (h *KeyHandler) Prefix() string {
	return strings.Join(h.Buffer, " ")
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}
