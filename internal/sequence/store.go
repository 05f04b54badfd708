// Package sequence holds the ordered list of image slots the user is
// composing. Slots are the only mutable state behind a composite: layout and
// rendering read them through LoadedImages.
package sequence

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidSlot is returned when a mutation names a slot id that no
	// longer exists (for example a decode that finished after removal).
	ErrInvalidSlot = errors.New("sequence: invalid slot")
	// ErrDegenerateImage is returned when an image has a zero width or height.
	ErrDegenerateImage = errors.New("sequence: degenerate image")
)

// ID identifies a slot. IDs start at 1 and are never reused within a Store.
type ID int

// Slot is an ordered placeholder that may hold a decoded image.
type Slot struct {
	ID     ID
	Image  image.Image // nil until a decode completes
	Source string      // path the image was decoded from
}

// Loaded reports whether the slot holds an image.
func (s Slot) Loaded() bool {
	return s.Image != nil
}

// Store is the ordered sequence of slots. It is not safe for concurrent use;
// the UI update loop owns it.
type Store struct {
	slots  []*Slot
	nextID ID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// AddSlot appends a new empty slot and returns its id.
func (s *Store) AddSlot() ID {
	id := s.nextID
	s.nextID++
	s.slots = append(s.slots, &Slot{ID: id})
	return id
}

// RemoveSlot deletes the slot with the given id. Unknown ids are ignored.
func (s *Store) RemoveSlot(id ID) {
	i := s.Index(id)
	if i < 0 {
		return
	}
	s.slots = append(s.slots[:i], s.slots[i+1:]...)
}

// SetImage attaches img to the slot, replacing any previous image.
func (s *Store) SetImage(id ID, img image.Image, source string) error {
	i := s.Index(id)
	if i < 0 {
		return fmt.Errorf("set image on slot %d: %w", id, ErrInvalidSlot)
	}
	if img == nil || img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return fmt.Errorf("set image on slot %d: %w", id, ErrDegenerateImage)
	}
	s.slots[i].Image = img
	s.slots[i].Source = source
	return nil
}

// Reorder moves the slot to immediately before the slot currently at
// targetIndex, or to the end when targetIndex is past the end. Moving a slot
// onto its own position, or an unknown id, is a no-op.
func (s *Store) Reorder(id ID, targetIndex int) {
	from := s.Index(id)
	if from < 0 {
		return
	}
	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex < len(s.slots) && s.slots[targetIndex].ID == id {
		return
	}

	moved := s.slots[from]
	rest := make([]*Slot, 0, len(s.slots))
	var anchor *Slot
	if targetIndex < len(s.slots) {
		anchor = s.slots[targetIndex]
	}
	for _, sl := range s.slots {
		if sl.ID == id {
			continue
		}
		if sl == anchor {
			rest = append(rest, moved)
		}
		rest = append(rest, sl)
	}
	if anchor == nil {
		rest = append(rest, moved)
	}
	s.slots = rest
}

// MoveOnto applies a drop of src onto dst: a slot dragged forward lands after
// dst, a slot dragged backward lands before it. Dropping onto itself does
// nothing.
func (s *Store) MoveOnto(src, dst ID) {
	from, to := s.Index(src), s.Index(dst)
	if from < 0 || to < 0 || from == to {
		return
	}
	if from < to {
		s.Reorder(src, to+1)
		return
	}
	s.Reorder(src, to)
}

// LoadedImages returns the images of loaded slots in store order.
func (s *Store) LoadedImages() []image.Image {
	out := make([]image.Image, 0, len(s.slots))
	for _, sl := range s.slots {
		if sl.Loaded() {
			out = append(out, sl.Image)
		}
	}
	return out
}

// Slots returns a snapshot of the slots in order.
func (s *Store) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	for i, sl := range s.slots {
		out[i] = *sl
	}
	return out
}

// Len returns the number of slots, loaded or not.
func (s *Store) Len() int {
	return len(s.slots)
}

// Index returns the position of the slot with id, or -1.
func (s *Store) Index(id ID) int {
	for i, sl := range s.slots {
		if sl.ID == id {
			return i
		}
	}
	return -1
}
