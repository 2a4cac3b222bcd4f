package hub

import (
	"net/url"
)

// SeedResult reports what a deep link actually changed.
type SeedResult struct {
	SeededSlot  bool
	SetContext  bool
	AuthError   string
	AuthErrDesc string
}

// SeedFromQuery applies deep-link query parameters on navigation, before the
// slot grid is first rendered. A known seed id forces slot 1 and both
// pointers regardless of persisted state; categoryId/categoryName only set
// the multiview context. Re-invoking with the same query is idempotent, and
// callers gate it to navigation, never to renders, so a seed cannot clobber a
// slot the user changed afterwards.
func (h *Hub) SeedFromQuery(query url.Values) SeedResult {
	var res SeedResult

	res.AuthError = query.Get("auth_error")
	res.AuthErrDesc = query.Get("auth_error_description")

	seed := query.Get("seed")
	categoryID := query.Get("categoryId")
	categoryName := query.Get("categoryName")
	platform := query.Get("platform")
	if platform == "" {
		platform = "twitch"
	}

	if seed != "" {
		if _, ok := h.StreamByID(seed); ok {
			h.mutate(func(st *State) {
				st.Slots.set(1, seed)
				st.TargetSlot = 1
				st.ActiveSlot = 1
			})
			res.SeededSlot = true
		}
	}

	if categoryID != "" || categoryName != "" {
		h.mutate(func(st *State) {
			st.Multiview = MultiviewContext{
				CategoryID:   categoryID,
				CategoryName: categoryName,
				Platform:     platform,
			}
		})
		res.SetContext = true
	}

	return res
}
