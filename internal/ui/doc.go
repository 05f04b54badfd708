// Package ui is the Bubble Tea front end of imgstrip.
//
// The AppModel owns all mutable state: the slot sequence, orientation, gap,
// selection and the preview surface. Every user action arrives as a message,
// is applied to the sequence, and is followed by one refresh that recomputes
// the layout and re-renders the preview. Decoding and export run as tea.Cmds
// and report back with ImageLoadedMsg and ExportDoneMsg.
//
// Modals (file path, gap, close confirmation) live on an OverlayStack and
// receive key input before the main view.
package ui
