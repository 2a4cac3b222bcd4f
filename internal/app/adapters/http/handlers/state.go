package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"streamhub/internal/app/adapters/metrics"
	"streamhub/internal/app/domain/directory"
	"streamhub/internal/app/domain/embed"
	"streamhub/internal/app/domain/hub"
	"streamhub/internal/app/domain/layout"
)

// StateHandler returns the full snapshot plus the raw catalog, the renderer
// bootstrap payload.
func (h *Handlers) StateHandler(c *gin.Context) {
	items, source, lastErr := h.deps.Hub.Streams()
	c.JSON(http.StatusOK, gin.H{
		"state":     h.deps.Hub.State(),
		"catalog":   items,
		"source":    source,
		"lastError": lastErr,
	})
}

// DirectoryHandler applies the current filter set to the catalog server-side
// so both renderers show an identical list.
func (h *Handlers) DirectoryHandler(c *gin.Context) {
	st := h.deps.Hub.State()
	items, source, lastErr := h.deps.Hub.Streams()

	filtered := directory.Apply(items, directory.Filters{
		Query:                 st.Query,
		Sort:                  st.Sort,
		Language:              st.Language,
		Platform:              st.Platform,
		AgeTier:               st.AgeTier,
		FollowedOnly:          st.FollowedFilter,
		Followed:              h.deps.Hub.Followed(),
		PlatformFilterEnabled: h.deps.Hub.PlatformFilterEnabled(),
	})

	c.JSON(http.StatusOK, gin.H{
		"data":      filtered,
		"total":     len(items),
		"source":    source,
		"lastError": lastErr,
	})
}

type assignRequest struct {
	StreamID string `json:"streamId" binding:"required"`
	Mode     string `json:"mode"` // "target" (default), "next", "slot"
	Slot     int    `json:"slot"`
}

// AssignHandler routes the three assignment paths. Offline and unknown
// streams are rejected here; the slot machine itself accepts any id.
func (h *Handlers) AssignHandler(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, ok := h.deps.Hub.StreamByID(req.StreamID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown stream id"})
		return
	}
	if !item.IsLive {
		c.JSON(http.StatusConflict, gin.H{"error": "stream is offline"})
		return
	}

	var st hub.State
	switch req.Mode {
	case "next":
		st = h.deps.Hub.AssignToNextEmpty(req.StreamID)
	case "slot":
		st = h.deps.Hub.AssignToSlot(req.Slot, req.StreamID)
	default:
		req.Mode = "target"
		st = h.deps.Hub.AssignToTarget(req.StreamID)
	}

	metrics.SlotAssignments.WithLabelValues(req.Mode).Inc()
	c.JSON(http.StatusOK, gin.H{"state": st})
}

type slotRequest struct {
	Slot int `json:"slot"`
}

func (h *Handlers) bindSlot(c *gin.Context) (int, bool) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return req.Slot, true
}

func (h *Handlers) ClearSlotHandler(c *gin.Context) {
	if slot, ok := h.bindSlot(c); ok {
		c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.ClearSlot(slot)})
	}
}

func (h *Handlers) TargetSlotHandler(c *gin.Context) {
	if slot, ok := h.bindSlot(c); ok {
		c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.SetTargetSlot(slot)})
	}
}

func (h *Handlers) SelectSlotHandler(c *gin.Context) {
	if slot, ok := h.bindSlot(c); ok {
		c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.SelectSlot(slot)})
	}
}

func (h *Handlers) ActiveSlotHandler(c *gin.Context) {
	if slot, ok := h.bindSlot(c); ok {
		c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.SetActiveSlot(slot)})
	}
}

func (h *Handlers) HoverSlotHandler(c *gin.Context) {
	if slot, ok := h.bindSlot(c); ok {
		c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.SetHoverSlot(slot)})
	}
}

type focusRequest struct {
	On *bool `json:"on"`
}

// FocusHandler sets focus mode when "on" is present and toggles otherwise.
func (h *Handlers) FocusHandler(c *gin.Context) {
	var req focusRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var st hub.State
	if req.On != nil {
		st = h.deps.Hub.SetFocusMode(*req.On)
	} else {
		st = h.deps.Hub.ToggleFocusMode()
	}
	c.JSON(http.StatusOK, gin.H{"state": st})
}

type dockRequest struct {
	Side string `json:"side" binding:"required"`
}

func (h *Handlers) DockHandler(c *gin.Context) {
	var req dockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.SetDock(req.Side)})
}

type filtersRequest struct {
	Query    string `json:"q"`
	Sort     string `json:"sort"`
	Language string `json:"language"`
	Platform string `json:"platform"`
	AgeTier  string `json:"age"`
}

func (h *Handlers) FiltersHandler(c *gin.Context) {
	var req filtersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st := h.deps.Hub.SetFilters(req.Query, req.Sort, req.Language, req.Platform, req.AgeTier)
	c.JSON(http.StatusOK, gin.H{"state": st})
}

type onRequest struct {
	On bool `json:"on"`
}

func (h *Handlers) FollowedFilterHandler(c *gin.Context) {
	var req onRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.SetFollowedFilter(req.On)})
}

type tagRequest struct {
	TagID string `json:"tagId" binding:"required"`
}

func (h *Handlers) ToggleTagFilterHandler(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.ToggleCategoriesTagFilter(req.TagID)})
}

func (h *Handlers) ClearTagFiltersHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.ClearCategoriesTagFilters()})
}

type categoriesSortRequest struct {
	Sort string `json:"sort" binding:"required"`
}

func (h *Handlers) CategoriesSortHandler(c *gin.Context) {
	var req categoriesSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.SetCategoriesSort(req.Sort)})
}

type navigateRequest struct {
	Path  string `json:"path" binding:"required"`
	Query string `json:"query"` // raw query string of the destination URL
}

// NavigateHandler records a route change and applies deep-link params once,
// on navigation. Renders never re-trigger seeding.
func (h *Handlers) NavigateHandler(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.deps.Hub.SetRoutePath(req.Path)

	var seed hub.SeedResult
	if req.Query != "" {
		if values, err := url.ParseQuery(req.Query); err == nil {
			seed = h.deps.Hub.SeedFromQuery(values)
		}
	}

	c.JSON(http.StatusOK, gin.H{"state": h.deps.Hub.State(), "seed": seed})
}

type slotView struct {
	Slot        int    `json:"slot"`
	StreamID    string `json:"streamId,omitempty"`
	EmbedURL    string `json:"embedUrl,omitempty"`
	Offline     bool   `json:"offline,omitempty"`
	Hidden      bool   `json:"hidden"`
	FocusTarget bool   `json:"focusTarget"`
}

func (h *Handlers) slotViewFor(st hub.State, slot int) slotView {
	v := slotView{
		Slot:        slot,
		StreamID:    st.Slots.Get(slot),
		Hidden:      layout.Hidden(st.Slots, slot),
		FocusTarget: layout.IsFocusTarget(st, slot),
	}

	if v.StreamID == "" {
		return v
	}
	if item, ok := h.deps.Hub.StreamByID(v.StreamID); ok {
		u, err := embed.BuildURL(item, embed.Options{
			IsActive:   slot == st.ActiveSlot,
			FocusMode:  st.FocusMode,
			ParentHost: h.manager.Get().App.PublicHost,
		})
		switch err {
		case nil:
			v.EmbedURL = u
		case embed.ErrOffline:
			v.Offline = true
		}
	}
	return v
}

// LayoutHandler derives the full slot grid: per-slot embed URLs with the
// single-audible-slot rule already applied, plus visibility flags.
func (h *Handlers) LayoutHandler(c *gin.Context) {
	st := h.deps.Hub.State()

	views := make([]slotView, 0, 4)
	for slot := 1; slot <= 4; slot++ {
		views = append(views, h.slotViewFor(st, slot))
	}

	c.JSON(http.StatusOK, gin.H{
		"visibleCount": layout.VisibleCount(st.Slots),
		"focusMode":    st.FocusMode,
		"slots":        views,
	})
}

// EmbedHandler resolves the embed URL for a single slot.
func (h *Handlers) EmbedHandler(c *gin.Context) {
	slot, err := strconv.Atoi(c.Query("slot"))
	if err != nil || slot < 1 || slot > 4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot must be 1-4"})
		return
	}
	c.JSON(http.StatusOK, h.slotViewFor(h.deps.Hub.State(), slot))
}

// ViewHandler backs the renderer routes. Hitting a route records it and
// applies any deep-link query once, then responds with the bootstrap payload.
func (h *Handlers) ViewHandler(c *gin.Context) {
	h.deps.Hub.SetRoutePath(c.Request.URL.Path)
	seed := h.deps.Hub.SeedFromQuery(c.Request.URL.Query())

	items, source, lastErr := h.deps.Hub.Streams()
	c.JSON(http.StatusOK, gin.H{
		"state":     h.deps.Hub.State(),
		"catalog":   items,
		"source":    source,
		"lastError": lastErr,
		"seed":      seed,
	})
}

// WSHandler attaches a renderer to the event bridge.
func (h *Handlers) WSHandler(c *gin.Context) {
	items, source, _ := h.deps.Hub.Streams()
	h.deps.Bridge.HandleWS(c.Writer, c.Request, h.deps.Hub.State(), items, source)
}
