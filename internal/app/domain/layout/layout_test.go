package layout_test

import (
	"testing"

	"streamhub/internal/app/domain/hub"
	"streamhub/internal/app/domain/layout"
)

func TestVisibleCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		slots hub.SlotMap
		want  int
	}{
		{"empty board shows one", hub.SlotMap{}, 1},
		{"single in slot 1", hub.SlotMap{"a"}, 1},
		{"contiguous pair", hub.SlotMap{"a", "b"}, 2},
		{"gap counts up to highest", hub.SlotMap{"a", "", "c"}, 3},
		{"only slot 4", hub.SlotMap{"", "", "", "d"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := layout.VisibleCount(tt.slots); got != tt.want {
				t.Fatalf("VisibleCount(%v) = %d, want %d", tt.slots, got, tt.want)
			}
		})
	}
}

func TestHidden(t *testing.T) {
	t.Parallel()

	slots := hub.SlotMap{"a", "b"}
	for slot, want := range map[int]bool{1: false, 2: false, 3: true, 4: true} {
		if got := layout.Hidden(slots, slot); got != want {
			t.Fatalf("Hidden(slot %d) = %v, want %v", slot, got, want)
		}
	}
}

func TestIsFocusTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		st   hub.State
		slot int
		want bool
	}{
		{"focus off", hub.State{ActiveSlot: 1}, 1, false},
		{"active slot in focus", hub.State{FocusMode: true, ActiveSlot: 2}, 2, true},
		{"other slot in focus", hub.State{FocusMode: true, ActiveSlot: 2}, 1, false},
		{"hovered slot in focus", hub.State{FocusMode: true, ActiveSlot: 2, HoverSlot: 3}, 3, true},
		{"hover zero never targets slot zero", hub.State{FocusMode: true, ActiveSlot: 2}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := layout.IsFocusTarget(tt.st, tt.slot); got != tt.want {
				t.Fatalf("IsFocusTarget(slot %d) = %v, want %v", tt.slot, got, tt.want)
			}
		})
	}
}
