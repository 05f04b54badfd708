package ui

import (
	"image"

	"imgstrip/internal/sequence"
)

// AddSlotMsg appends an empty slot. With Path set, decoding starts at once.
type AddSlotMsg struct {
	Path string
}

// ShowOpenFileMsg opens the path prompt for the selected slot.
type ShowOpenFileMsg struct{}

// LoadFileMsg starts decoding Path into Slot. A zero Slot adds a new slot.
type LoadFileMsg struct {
	Slot sequence.ID
	Path string
}

// ImageLoadedMsg reports a finished decode. It may arrive after the slot was
// removed, in which case it is dropped.
type ImageLoadedMsg struct {
	Slot  sequence.ID
	Path  string
	Image image.Image
	Err   error
}

// RemoveSlotMsg deletes a slot and its image.
type RemoveSlotMsg struct {
	Slot sequence.ID
}

// ReorderMsg moves Slot to immediately before the slot at TargetIndex.
type ReorderMsg struct {
	Slot        sequence.ID
	TargetIndex int
}

// DropMsg drops Slot onto Target, as a drag-and-drop gesture would.
type DropMsg struct {
	Slot   sequence.ID
	Target sequence.ID
}

// ToggleOrientationMsg flips between horizontal and vertical strips.
type ToggleOrientationMsg struct{}

// SetGapMsg sets the gap in pixels. Negative values are clamped to zero.
type SetGapMsg struct {
	Gap int
}

// ShowGapInputMsg opens the gap prompt.
type ShowGapInputMsg struct{}

// ExportMsg starts a full-resolution export.
type ExportMsg struct{}

// ExportDoneMsg reports the export outcome. Path is empty when nothing was
// exported.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ShowCloseMsg opens the close confirmation.
type ShowCloseMsg struct{}

// DismissModalMsg closes the top modal.
type DismissModalMsg struct{}

// ModalResultMsg closes the top modal and then delivers Msg.
type ModalResultMsg struct {
	Msg any
}

// Selection-relative intents produced by keybinds. The app resolves them
// against the current selection.
type (
	selectMsg         struct{ delta int }
	removeSelectedMsg struct{}
	moveSelectedMsg   struct{ delta int }
	grabSelectedMsg   struct{}
	adjustGapMsg      struct{ delta int }
)
