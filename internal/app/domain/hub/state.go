package hub

import (
	"encoding/json"
)

const (
	DockLeft  = "left"
	DockRight = "right"
)

const (
	SourceFallback = "fallback"
	SourceLive     = "live"
	SourceError    = "error"
)

// SlotMap holds the four fixed viewing slots. Index 0 is slot 1; an empty
// string means the slot is empty. The JSON form is {"1": id|null, ...} to
// match what the renderers persist and exchange.
type SlotMap [4]string

func validSlot(slot int) bool { return slot >= 1 && slot <= 4 }

func (m SlotMap) Get(slot int) string {
	if !validSlot(slot) {
		return ""
	}
	return m[slot-1]
}

func (m *SlotMap) set(slot int, id string) {
	if validSlot(slot) {
		m[slot-1] = id
	}
}

// OccupiedCount reports how many slots hold a stream id.
func (m SlotMap) OccupiedCount() int {
	n := 0
	for _, id := range m {
		if id != "" {
			n++
		}
	}
	return n
}

// HighestOccupied returns the highest slot number holding content, or 0 when
// every slot is empty.
func (m SlotMap) HighestOccupied() int {
	for slot := 4; slot >= 1; slot-- {
		if m[slot-1] != "" {
			return slot
		}
	}
	return 0
}

// LowestOccupied returns the lowest occupied slot number, or 0 when none.
func (m SlotMap) LowestOccupied() int {
	for slot := 1; slot <= 4; slot++ {
		if m[slot-1] != "" {
			return slot
		}
	}
	return 0
}

func (m SlotMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, 4)
	for i, id := range m {
		if id == "" {
			out[slotKey(i+1)] = nil
			continue
		}
		v := id
		out[slotKey(i+1)] = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON is tolerant: a non-object errors (callers then ignore the
// field entirely), while per-slot garbage just leaves that slot empty.
func (m *SlotMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var next SlotMap
	for slot := 1; slot <= 4; slot++ {
		var id *string
		if json.Unmarshal(raw[slotKey(slot)], &id) == nil && id != nil {
			next[slot-1] = *id
		}
	}
	*m = next
	return nil
}

func slotKey(slot int) string {
	return string(rune('0' + slot))
}

// MultiviewContext carries the category context deep links hand to the
// directory population logic; it never touches slot state directly.
type MultiviewContext struct {
	CategoryID   string `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	Platform     string `json:"platform"`
}

// State is the full view state snapshot. Filter fields reset each session;
// the subset in Persisted survives reloads.
type State struct {
	Dock                 string           `json:"dock"`
	Query                string           `json:"q"`
	Sort                 string           `json:"sort"`
	Language             string           `json:"language"`
	Platform             string           `json:"platform"`
	AgeTier              string           `json:"age"`
	FocusMode            bool             `json:"focusMode"`
	HoverSlot            int              `json:"hoverSlot,omitempty"` // 0 = none, transient
	TargetSlot           int              `json:"targetSlot"`
	ActiveSlot           int              `json:"activeSlot"`
	Slots                SlotMap          `json:"slots"`
	FollowedFilter       bool             `json:"followedFilter"`
	CategoriesTagFilters []string         `json:"categoriesTagFilters"`
	CategoriesSort       string           `json:"categoriesSort"`
	RoutePath            string           `json:"routePath"`
	Multiview            MultiviewContext `json:"multiviewContext"`
}

// Persisted is the durable subset of State, written as one blob under the
// streamHubState key.
type Persisted struct {
	Dock                 string   `json:"dock"`
	FocusMode            bool     `json:"focusMode"`
	Slots                SlotMap  `json:"slots"`
	TargetSlot           int      `json:"targetSlot"`
	ActiveSlot           int      `json:"activeSlot"`
	FollowedFilter       bool     `json:"followedFilter"`
	CategoriesTagFilters []string `json:"categoriesTagFilters"`
	CategoriesSort       string   `json:"categoriesSort"`
}

func defaultState() State {
	return State{
		Dock:           DockLeft,
		Sort:           "online_desc",
		TargetSlot:     1,
		ActiveSlot:     1,
		CategoriesSort: "viewer_desc",
		RoutePath:      "/",
		Multiview:      MultiviewContext{Platform: "twitch"},
	}
}
