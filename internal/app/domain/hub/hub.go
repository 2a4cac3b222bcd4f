package hub

import (
	"sync"

	"streamhub/internal/app/domain/stream"
)

// Publisher receives the canonical state event after every mutation. The
// bridge fans it out to whatever renderers are attached. Both methods run
// while the hub lock is held, so they must not block and must not call back
// into the hub.
type Publisher interface {
	PublishState(st State)
	PublishCatalog(items []stream.Item, source string)
}

// Store persists the durable subset of the state. Both methods are
// best-effort; Load reports whether anything usable was found.
type Store interface {
	Save(p Persisted)
	Load() (Persisted, bool)
}

type Options struct {
	// CouplePolicy decides whether SetActiveSlot drags the target pointer
	// along ("always", legacy click semantics) or leaves it be ("buttons",
	// where only explicit slot-selector input couples the two).
	CouplePolicy string

	// PlatformFilterEnabled gates the directory's platform predicate.
	PlatformFilterEnabled bool
}

// Hub owns the view state and the stream catalog. Every mutation happens
// under one mutex, runs the slot invariants, persists the durable subset and
// publishes one canonical event, so any number of UI adapters can attach
// without observing half-applied state.
type Hub struct {
	mu sync.Mutex

	st       State
	streams  []stream.Item
	source   string
	lastErr  string
	followed map[string]struct{}

	// monotonically increasing refresh sequence per resource; stale
	// completions are discarded instead of overwriting fresher data
	seq map[string]uint64

	opts  Options
	pub   Publisher
	store Store
}

func New(opts Options, store Store, pub Publisher) *Hub {
	if opts.CouplePolicy == "" {
		opts.CouplePolicy = "always"
	}

	h := &Hub{
		st:       defaultState(),
		streams:  stream.Fallback(),
		source:   SourceFallback,
		followed: make(map[string]struct{}),
		seq:      make(map[string]uint64),
		opts:     opts,
		pub:      pub,
		store:    store,
	}

	h.hydrate()
	return h
}

// hydrate restores the persisted subset before the first render. A blob whose
// slots are all empty must not restore pointers to a slot that was never
// filled, so both reset to 1 in that case.
func (h *Hub) hydrate() {
	if h.store == nil {
		return
	}

	p, ok := h.store.Load()
	if !ok {
		return
	}

	if p.Dock == DockLeft || p.Dock == DockRight {
		h.st.Dock = p.Dock
	}
	h.st.FocusMode = p.FocusMode
	h.st.Slots = p.Slots
	if validSlot(p.TargetSlot) {
		h.st.TargetSlot = p.TargetSlot
	}
	if validSlot(p.ActiveSlot) {
		h.st.ActiveSlot = p.ActiveSlot
	}
	h.st.FollowedFilter = p.FollowedFilter
	if p.CategoriesTagFilters != nil {
		h.st.CategoriesTagFilters = p.CategoriesTagFilters
	}
	if p.CategoriesSort == "viewer_asc" || p.CategoriesSort == "viewer_desc" {
		h.st.CategoriesSort = p.CategoriesSort
	}

	if h.st.Slots.OccupiedCount() == 0 {
		h.st.TargetSlot = 1
		h.st.ActiveSlot = 1
	}
	h.enforceInvariantsLocked()
}

// State returns a snapshot; mutating it does not touch the hub.
func (h *Hub) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Hub) snapshotLocked() State {
	st := h.st
	st.CategoriesTagFilters = append([]string(nil), h.st.CategoriesTagFilters...)
	return st
}

// Streams returns the current catalog together with its source marker and the
// last fetch error, if any.
func (h *Hub) Streams() (items []stream.Item, source, lastErr string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]stream.Item(nil), h.streams...), h.source, h.lastErr
}

// StreamByID looks a catalog entry up by its stable id.
func (h *Hub) StreamByID(id string) (stream.Item, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.streams {
		if h.streams[i].ID == id {
			return h.streams[i], true
		}
	}
	return stream.Item{}, false
}

// Followed returns the followed-channel id set for the directory engine.
func (h *Hub) Followed() map[string]struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]struct{}, len(h.followed))
	for id := range h.followed {
		out[id] = struct{}{}
	}
	return out
}

// SetFollowed replaces the followed-channel id set.
func (h *Hub) SetFollowed(ids []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.followed = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		h.followed[id] = struct{}{}
	}
}

// BeginRefresh tags a new in-flight refresh of the named resource and
// returns its sequence number. A completion is applied only while its number
// is still the latest issued one for that resource.
func (h *Hub) BeginRefresh(resource string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq[resource]++
	return h.seq[resource]
}

// ReplaceCatalog swaps the stream catalog in, unless a newer refresh has been
// issued since seq was taken. Slots referencing ids absent from the new
// catalog are pruned so no slot keeps pointing at a ghost stream.
func (h *Hub) ReplaceCatalog(seq uint64, items []stream.Item, source, fetchErr string) bool {
	h.mu.Lock()
	if h.seq["catalog"] != seq {
		h.mu.Unlock()
		return false
	}

	h.streams = append([]stream.Item(nil), items...)
	h.source = source
	h.lastErr = fetchErr

	known := make(map[string]struct{}, len(items))
	for i := range items {
		known[items[i].ID] = struct{}{}
	}
	h.pruneLocked(known)
	h.enforceInvariantsLocked()

	st := h.snapshotLocked()
	if h.pub != nil {
		h.pub.PublishCatalog(append([]stream.Item(nil), h.streams...), source)
		h.pub.PublishState(st)
	}
	h.persist(st)
	h.mu.Unlock()
	return true
}

// pruneLocked clears slots whose stream id vanished from the known set, then
// re-homes target/active pointers that now reference an empty slot to the
// lowest occupied slot (or 1 when nothing is occupied).
func (h *Hub) pruneLocked(known map[string]struct{}) {
	for slot := 1; slot <= 4; slot++ {
		id := h.st.Slots.Get(slot)
		if id == "" {
			continue
		}
		if _, ok := known[id]; !ok {
			h.st.Slots.set(slot, "")
		}
	}

	fallback := h.st.Slots.LowestOccupied()
	if fallback == 0 {
		fallback = 1
	}
	if h.st.Slots.Get(h.st.TargetSlot) == "" {
		h.st.TargetSlot = fallback
	}
	if h.st.Slots.Get(h.st.ActiveSlot) == "" {
		h.st.ActiveSlot = fallback
	}
}

// enforceInvariantsLocked re-checks the cross-field invariants after any slot
// mutation: pointers stay in [1,4], focus mode cannot survive with fewer than
// two occupied slots, and hover is meaningless outside focus mode.
func (h *Hub) enforceInvariantsLocked() {
	if !validSlot(h.st.TargetSlot) {
		h.st.TargetSlot = 1
	}
	if !validSlot(h.st.ActiveSlot) {
		h.st.ActiveSlot = 1
	}
	if h.st.FocusMode && h.st.Slots.OccupiedCount() < 2 {
		h.st.FocusMode = false
	}
	if !h.st.FocusMode {
		h.st.HoverSlot = 0
	}
}

// mutate runs fn under the lock, re-checks invariants, publishes and
// persists before releasing it, so snapshots reach the bridge and the disk
// in mutation order. All state machine operations funnel through here.
func (h *Hub) mutate(fn func(st *State)) State {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn(&h.st)
	h.enforceInvariantsLocked()
	st := h.snapshotLocked()

	if h.pub != nil {
		h.pub.PublishState(st)
	}
	h.persist(st)
	return st
}

// persist writes the durable subset synchronously while the caller still
// holds the hub lock; an older snapshot can never land on disk after a newer
// one. Storage failures are the store's problem and never fail a mutation.
func (h *Hub) persist(st State) {
	if h.store == nil {
		return
	}
	h.store.Save(Persisted{
		Dock:                 st.Dock,
		FocusMode:            st.FocusMode,
		Slots:                st.Slots,
		TargetSlot:           st.TargetSlot,
		ActiveSlot:           st.ActiveSlot,
		FollowedFilter:       st.FollowedFilter,
		CategoriesTagFilters: st.CategoriesTagFilters,
		CategoriesSort:       st.CategoriesSort,
	})
}

// AssignToTarget writes the stream id into the current target slot and makes
// that slot active. Gating non-live streams is the caller's job; the machine
// itself accepts any id.
func (h *Hub) AssignToTarget(streamID string) State {
	return h.mutate(func(st *State) {
		st.Slots.set(st.TargetSlot, streamID)
		st.ActiveSlot = st.TargetSlot
	})
}

// AssignToNextEmpty fills the first empty slot in order 1..4; once all four
// are full it overwrites slot 4 rather than cycling back to slot 1.
func (h *Hub) AssignToNextEmpty(streamID string) State {
	return h.mutate(func(st *State) {
		slot := 4
		for s := 1; s <= 4; s++ {
			if st.Slots.Get(s) == "" {
				slot = s
				break
			}
		}
		st.Slots.set(slot, streamID)
		st.ActiveSlot = slot
		st.TargetSlot = slot
	})
}

// AssignToSlot writes the stream id into an explicit slot, last write wins.
func (h *Hub) AssignToSlot(slot int, streamID string) State {
	return h.mutate(func(st *State) {
		if !validSlot(slot) {
			return
		}
		st.Slots.set(slot, streamID)
		st.ActiveSlot = slot
		st.TargetSlot = slot
	})
}

// ClearSlot empties a slot; pointers move only through the pruning rule.
func (h *Hub) ClearSlot(slot int) State {
	return h.mutate(func(st *State) {
		st.Slots.set(slot, "")
	})
}

// SetTargetSlot is a pure pointer update from a plain input surface.
func (h *Hub) SetTargetSlot(slot int) State {
	return h.mutate(func(st *State) {
		if validSlot(slot) {
			st.TargetSlot = slot
		}
	})
}

// SelectSlot is the explicit slot-selector path (toolbar buttons, number
// keys): it always couples target and active.
func (h *Hub) SelectSlot(slot int) State {
	return h.mutate(func(st *State) {
		if validSlot(slot) {
			st.TargetSlot = slot
			st.ActiveSlot = slot
		}
	})
}

// SetActiveSlot is the plain slot-body click path. Whether it drags the
// target pointer along depends on the configured couple policy.
func (h *Hub) SetActiveSlot(slot int) State {
	return h.mutate(func(st *State) {
		if !validSlot(slot) {
			return
		}
		st.ActiveSlot = slot
		if h.opts.CouplePolicy == "always" {
			st.TargetSlot = slot
		}
	})
}

// SetHoverSlot updates the transient hover pointer; ignored outside focus
// mode. Pass 0 to clear.
func (h *Hub) SetHoverSlot(slot int) State {
	return h.mutate(func(st *State) {
		if !st.FocusMode {
			return
		}
		if slot == 0 || validSlot(slot) {
			st.HoverSlot = slot
		}
	})
}

// SetFocusMode flips focus mode; turning it off clears hover, and the
// invariant pass immediately re-disables it below two occupied slots.
func (h *Hub) SetFocusMode(on bool) State {
	return h.mutate(func(st *State) {
		st.FocusMode = on
		if !on {
			st.HoverSlot = 0
		}
	})
}

func (h *Hub) ToggleFocusMode() State {
	return h.mutate(func(st *State) {
		st.FocusMode = !st.FocusMode
		if !st.FocusMode {
			st.HoverSlot = 0
		}
	})
}

func (h *Hub) SetDock(side string) State {
	return h.mutate(func(st *State) {
		if side == DockRight {
			st.Dock = DockRight
		} else {
			st.Dock = DockLeft
		}
	})
}

func (h *Hub) SetRoutePath(path string) State {
	return h.mutate(func(st *State) {
		if path == "" {
			path = "/"
		}
		st.RoutePath = path
	})
}

// SetFilters replaces the session filter fields (not persisted).
func (h *Hub) SetFilters(query, sortKey, language, platform, ageTier string) State {
	return h.mutate(func(st *State) {
		st.Query = query
		st.Sort = sortKey
		st.Language = language
		st.Platform = platform
		st.AgeTier = ageTier
	})
}

func (h *Hub) SetFollowedFilter(on bool) State {
	return h.mutate(func(st *State) {
		st.FollowedFilter = on
	})
}

func (h *Hub) ToggleCategoriesTagFilter(tagID string) State {
	return h.mutate(func(st *State) {
		for i, id := range st.CategoriesTagFilters {
			if id == tagID {
				st.CategoriesTagFilters = append(st.CategoriesTagFilters[:i], st.CategoriesTagFilters[i+1:]...)
				return
			}
		}
		st.CategoriesTagFilters = append(st.CategoriesTagFilters, tagID)
	})
}

func (h *Hub) ClearCategoriesTagFilters() State {
	return h.mutate(func(st *State) {
		st.CategoriesTagFilters = nil
	})
}

func (h *Hub) SetCategoriesSort(sortKey string) State {
	return h.mutate(func(st *State) {
		if sortKey == "viewer_asc" {
			st.CategoriesSort = "viewer_asc"
		} else {
			st.CategoriesSort = "viewer_desc"
		}
	})
}

// PlatformFilterEnabled exposes the feature flag to the directory handlers.
func (h *Hub) PlatformFilterEnabled() bool {
	return h.opts.PlatformFilterEnabled
}
