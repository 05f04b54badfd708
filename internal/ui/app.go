package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"imgstrip/internal/composite"
	"imgstrip/internal/config"
	"imgstrip/internal/imageio"
	"imgstrip/internal/layout"
	"imgstrip/internal/sequence"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// initialSlots is how many empty slots a session starts with when no
	// files are given.
	initialSlots = 2
)

// Options configures NewAppModel.
type Options struct {
	Config *config.Config
	// Paths are loaded into slots, in order, when the program starts.
	Paths []string
}

// AppModel is the root model. All fields are owned by the update loop.
type AppModel struct {
	Store       *sequence.Store
	Orientation layout.Orientation
	Gap         int

	// Selected is the index of the highlighted slot.
	Selected int

	// Grabbed is the slot picked up for a drop, or 0.
	Grabbed sequence.ID

	Preview       composite.Preview
	PreviewParams layout.Params
	Exporter      *composite.Exporter
	Decoder       *imageio.Decoder

	Overlays   OverlayStack
	KeyHandler *KeyHandler

	Status    string
	StatusErr bool
	Exporting bool

	spinner spinner.Model
	pending []tea.Cmd
	renders int
	width   int
	height  int
}

var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root model from opts.
func NewAppModel(opts Options) *AppModel {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status

	m := &AppModel{
		Store:         sequence.NewStore(),
		Orientation:   cfg.InitialOrientation(),
		Gap:           max(cfg.Gap, 0),
		PreviewParams: cfg.PreviewParams(),
		Exporter: &composite.Exporter{
			Params:      cfg.ExportParams(),
			Dir:         cfg.ExportDir,
			FileName:    config.ExportFileName,
			Compression: composite.CompressionLevel(cfg.Compression),
		},
		Decoder:    imageio.NewDecoder(),
		KeyHandler: NewKeyHandler(newRegistry()),
		spinner:    s,
	}

	for _, p := range opts.Paths {
		id := m.Store.AddSlot()
		m.pending = append(m.pending, m.startLoad(id, p))
	}
	if len(opts.Paths) == 0 {
		for range initialSlots {
			m.Store.AddSlot()
		}
	}
	m.refresh()
	return m
}

func newRegistry() *KeybindRegistry {
	reg := NewKeybindRegistry()
	send := func(msg tea.Msg) tea.Cmd { return func() tea.Msg { return msg } }

	reg.Bind("a", "add slot", send(AddSlotMsg{}))
	reg.Bind("o", "open file", send(ShowOpenFileMsg{}))
	reg.Bind("enter", "", send(ShowOpenFileMsg{}))
	reg.Bind("x", "remove", send(removeSelectedMsg{}))
	reg.Bind("d", "", send(removeSelectedMsg{}))
	reg.Bind("m", "grab/drop", send(grabSelectedMsg{}))
	reg.Bind("J", "move down", send(moveSelectedMsg{delta: 1}))
	reg.Bind("K", "move up", send(moveSelectedMsg{delta: -1}))
	reg.Bind("j", "", send(selectMsg{delta: 1}))
	reg.Bind("down", "", send(selectMsg{delta: 1}))
	reg.Bind("k", "", send(selectMsg{delta: -1}))
	reg.Bind("up", "", send(selectMsg{delta: -1}))
	reg.Bind("t", "orientation", send(ToggleOrientationMsg{}))
	reg.Bind("+", "gap+", send(adjustGapMsg{delta: 1}))
	reg.Bind("=", "", send(adjustGapMsg{delta: 1}))
	reg.Bind("-", "gap-", send(adjustGapMsg{delta: -1}))
	reg.Bind("g", "set gap", send(ShowGapInputMsg{}))
	reg.Bind("e", "export", send(ExportMsg{}))
	reg.Bind("q", "close", send(ShowCloseMsg{}))
	reg.Bind("ctrl+c", "", send(ShowCloseMsg{}))

	reg.Bind("SPC a", "Add slot", send(AddSlotMsg{}))
	reg.Bind("SPC o", "Open file", send(ShowOpenFileMsg{}))
	reg.Bind("SPC x", "Remove slot", send(removeSelectedMsg{}))
	reg.Bind("SPC t", "Toggle orientation", send(ToggleOrientationMsg{}))
	reg.Bind("SPC g", "Set gap", send(ShowGapInputMsg{}))
	reg.Bind("SPC e", "Export PNG", send(ExportMsg{}))
	reg.Bind("SPC q", "Close", send(ShowCloseMsg{}))
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	cmds := a.pending
	a.pending = nil
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return a, a.update(msg)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	return a.view()
}

func (m *AppModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return nil
	case spinner.TickMsg:
		if !m.Exporting {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		if m.Overlays.Len() > 0 {
			cmd, _ := m.Overlays.UpdateTop(msg)
			return cmd
		}
		_, cmd := m.KeyHandler.Handle(msg)
		return cmd
	case DismissModalMsg:
		m.Overlays.Pop()
		return nil
	case ModalResultMsg:
		m.Overlays.Pop()
		return m.update(msg.Msg)

	case AddSlotMsg:
		id := m.Store.AddSlot()
		m.Selected = m.Store.Len() - 1
		var cmd tea.Cmd
		if msg.Path != "" {
			cmd = m.startLoad(id, msg.Path)
		}
		m.refresh()
		return cmd
	case ShowOpenFileMsg:
		slot, _ := m.selectedSlot()
		return m.push(NewOpenFileModal(slot))
	case LoadFileMsg:
		if msg.Slot == 0 {
			return m.update(AddSlotMsg{Path: msg.Path})
		}
		return m.startLoad(msg.Slot, msg.Path)
	case ImageLoadedMsg:
		m.applyLoaded(msg)
		return nil
	case RemoveSlotMsg:
		m.Store.RemoveSlot(msg.Slot)
		if m.Grabbed == msg.Slot {
			m.Grabbed = 0
		}
		m.clampSelection()
		m.refresh()
		return nil
	case ReorderMsg:
		m.Store.Reorder(msg.Slot, msg.TargetIndex)
		m.follow(msg.Slot)
		m.refresh()
		return nil
	case DropMsg:
		m.Store.MoveOnto(msg.Slot, msg.Target)
		m.follow(msg.Slot)
		m.refresh()
		return nil
	case ToggleOrientationMsg:
		m.Orientation = m.Orientation.Toggle()
		m.refresh()
		return nil
	case SetGapMsg:
		m.Gap = max(msg.Gap, 0)
		m.refresh()
		return nil
	case ShowGapInputMsg:
		return m.push(NewGapModal(m.Gap))
	case ExportMsg:
		return m.startExport()
	case ExportDoneMsg:
		m.Exporting = false
		switch {
		case errors.Is(msg.Err, composite.ErrEmptyComposite):
			m.setStatus("Nothing to export")
		case msg.Err != nil:
			m.setError(fmt.Sprintf("Export failed: %v", msg.Err))
		default:
			m.setStatus("Exported " + msg.Path)
		}
		return nil
	case ShowCloseMsg:
		return m.push(NewCloseConfirmModal())

	case selectMsg:
		m.Selected += msg.delta
		m.clampSelection()
		return nil
	case removeSelectedMsg:
		if slot, ok := m.selectedSlot(); ok {
			return m.update(RemoveSlotMsg{Slot: slot})
		}
		return nil
	case moveSelectedMsg:
		slot, ok := m.selectedSlot()
		if !ok {
			return nil
		}
		target := m.Selected - 1
		if msg.delta > 0 {
			// Before the slot after next, i.e. one step down.
			target = m.Selected + 2
		}
		if target < 0 {
			return nil
		}
		return m.update(ReorderMsg{Slot: slot, TargetIndex: target})
	case grabSelectedMsg:
		slot, ok := m.selectedSlot()
		if !ok {
			return nil
		}
		if m.Grabbed == 0 {
			m.Grabbed = slot
			m.setStatus(fmt.Sprintf("Holding slot %d: select a target and press m", slot))
			return nil
		}
		src := m.Grabbed
		m.Grabbed = 0
		m.setStatus("")
		return m.update(DropMsg{Slot: src, Target: slot})
	case adjustGapMsg:
		return m.update(SetGapMsg{Gap: m.Gap + msg.delta})
	}
	return nil
}

// refresh recomputes the layout and re-renders the preview. Every mutation of
// the sequence or the settings ends with exactly one call.
func (m *AppModel) refresh() {
	m.Preview = composite.RenderPreview(context.Background(), m.Store.LoadedImages(), m.settings(), m.PreviewParams)
	m.renders++
}

func (m *AppModel) settings() composite.Settings {
	return composite.Settings{Orientation: m.Orientation, Gap: m.Gap}
}

func (m *AppModel) startLoad(slot sequence.ID, path string) tea.Cmd {
	m.setStatus("Loading " + filepath.Base(path) + "…")
	return decodeCmd(m.Decoder, slot, path)
}

func (m *AppModel) applyLoaded(msg ImageLoadedMsg) {
	if msg.Err != nil {
		if m.Store.Index(msg.Slot) >= 0 {
			m.setError(fmt.Sprintf("Slot %d: %v", msg.Slot, msg.Err))
		}
		return
	}
	err := m.Store.SetImage(msg.Slot, msg.Image, msg.Path)
	switch {
	case errors.Is(err, sequence.ErrInvalidSlot):
		slog.Debug("dropping decode for removed slot", "slot", msg.Slot, "path", msg.Path)
	case errors.Is(err, sequence.ErrDegenerateImage):
		m.setError(fmt.Sprintf("Slot %d: %s has no pixels", msg.Slot, filepath.Base(msg.Path)))
	case err == nil:
		m.setStatus("Loaded " + filepath.Base(msg.Path))
		m.refresh()
	}
}

func (m *AppModel) startExport() tea.Cmd {
	if m.Exporting {
		return nil
	}
	imgs := m.Store.LoadedImages()
	if len(imgs) == 0 {
		m.setStatus("Nothing to export")
		return nil
	}
	m.Exporting = true
	m.setStatus("Exporting " + m.Exporter.Path())
	return tea.Batch(exportCmd(m.Exporter, imgs, m.settings()), m.spinner.Tick)
}

func (m *AppModel) push(v View) tea.Cmd {
	m.Overlays.Push(v)
	return v.Init()
}

func (m *AppModel) selectedSlot() (sequence.ID, bool) {
	slots := m.Store.Slots()
	if m.Selected < 0 || m.Selected >= len(slots) {
		return 0, false
	}
	return slots[m.Selected].ID, true
}

// follow keeps the selection on slot after it moved.
func (m *AppModel) follow(slot sequence.ID) {
	if i := m.Store.Index(slot); i >= 0 {
		m.Selected = i
	}
}

func (m *AppModel) clampSelection() {
	m.Selected = min(m.Selected, m.Store.Len()-1)
	m.Selected = max(m.Selected, 0)
}

func (m *AppModel) setStatus(s string) {
	m.Status, m.StatusErr = s, false
}

func (m *AppModel) setError(s string) {
	m.Status, m.StatusErr = s, true
}

func (m *AppModel) view() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	var b strings.Builder
	b.WriteString(m.headerView() + "\n\n")
	if top, ok := m.Overlays.Peek(); ok {
		b.WriteString(top.View())
		return b.String()
	}

	b.WriteString(m.slotsView() + "\n")

	used := m.Store.Len() + 8
	b.WriteString(m.previewView(width-2, max(height-used, 4)) + "\n")

	if m.Status != "" {
		line := Styles.Status.Render(m.Status)
		if m.StatusErr {
			line = Styles.Error.Render(m.Status)
		}
		if m.Exporting {
			line = m.spinner.View() + " " + line
		}
		b.WriteString(line + "\n")
	}
	if help := RenderKeybindHelp(m.KeyHandler); help != "" {
		b.WriteString(help)
	} else {
		b.WriteString(RenderShortcutBar(m.KeyHandler.Registry, width))
	}
	return b.String()
}

func (m *AppModel) headerView() string {
	loaded := len(m.Store.LoadedImages())
	meta := fmt.Sprintf("%s · gap %dpx · %d/%d loaded", m.Orientation, m.Gap, loaded, m.Store.Len())
	return Styles.Title.Render("imgstrip") + "  " + Styles.Muted.Render(meta)
}

func (m *AppModel) slotsView() string {
	slots := m.Store.Slots()
	if len(slots) == 0 {
		return Styles.Empty.Render("No slots. Press a to add one.")
	}
	lines := make([]string, len(slots))
	for i, sl := range slots {
		label := Styles.Empty.Render("awaiting upload")
		if sl.Loaded() {
			sz := sl.Image.Bounds().Size()
			label = fmt.Sprintf("%s  %d×%d", filepath.Base(sl.Source), sz.X, sz.Y)
		}
		line := fmt.Sprintf("%d. [%d] %s", i+1, sl.ID, label)
		switch {
		case sl.ID == m.Grabbed:
			line = Styles.Grabbed.Render("✥ " + line)
		case i == m.Selected:
			line = Styles.Selected.Render("> " + line)
		default:
			line = Styles.Normal.Render("  " + line)
		}
		lines[i] = line
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *AppModel) previewView(maxCols, maxRows int) string {
	if m.Preview.Empty {
		return Styles.Preview.Render(Styles.Empty.Render("Nothing to preview yet. Load an image with o."))
	}
	size := m.Preview.Surface.Bounds().Size()
	caption := Styles.Muted.Render(fmt.Sprintf("preview %d×%d (scale %.2f)", size.X, size.Y, m.Preview.Layout.Scale))
	body := RenderSurface(m.Preview.Surface, maxCols-2, maxRows-2)
	return Styles.Preview.Render(body) + "\n" + caption
}
