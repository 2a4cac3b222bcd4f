// Package layout derives the visible slot grid from occupancy. It has no
// state of its own; renderers call it on every state event.
package layout

import "streamhub/internal/app/domain/hub"

// VisibleCount is the number of slot cards the grid shows: the highest
// occupied slot number, clamped to at least 1 so an empty board still shows
// slot 1. Slots above the count are not rendered at all.
func VisibleCount(slots hub.SlotMap) int {
	if highest := slots.HighestOccupied(); highest > 0 {
		return highest
	}
	return 1
}

// IsFocusTarget reports whether a slot is visually emphasized: only in focus
// mode, and only for the active or hovered slot.
func IsFocusTarget(st hub.State, slot int) bool {
	if !st.FocusMode {
		return false
	}
	return slot == st.ActiveSlot || (st.HoverSlot != 0 && slot == st.HoverSlot)
}

// Hidden reports whether a slot is excluded from the grid entirely.
func Hidden(slots hub.SlotMap, slot int) bool {
	return slot > VisibleCount(slots)
}
