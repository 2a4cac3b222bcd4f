package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"streamhub/internal/app/adapters/metrics"
	"streamhub/internal/app/adapters/platform/trovo"
	"streamhub/internal/app/adapters/platform/twitch/api"
	"streamhub/internal/app/domain/taxonomy"
)

// providerError maps upstream failures onto proxy status codes and counts
// them per provider.
func (h *Handlers) providerError(c *gin.Context, provider string, err error) {
	metrics.ProviderErrors.WithLabelValues(provider).Inc()
	h.log.Warn("Provider call failed", slog.String("provider", provider), slog.Any("error", err))

	status := http.StatusBadGateway
	switch {
	case errors.Is(err, api.ErrGameNotFound), errors.Is(err, api.ErrNotFound), errors.Is(err, trovo.ErrCategoryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, api.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, api.ErrRateLimited):
		status = http.StatusTooManyRequests
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func clampQueryInt(c *gin.Context, key string, def, min, max int) int {
	n, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		n = def
	}
	if n < min {
		n = min
	}
	if n > max {
		n = max
	}
	return n
}

func (h *Handlers) TwitchStreamsHandler(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query param: name"})
		return
	}

	first := clampQueryInt(c, "first", 10, 1, 100)

	items, err := h.deps.Twitch.StreamsByGame(c.Request.Context(), name, first)
	if err != nil {
		h.providerError(c, "twitch", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *Handlers) TrovoStreamsHandler(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query param: name"})
		return
	}

	first := clampQueryInt(c, "first", 10, 1, 100)

	items, err := h.deps.Trovo.StreamsByGame(c.Request.Context(), name, first)
	if err != nil {
		h.providerError(c, "trovo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// CategoriesHandler lists top categories decorated with curated tags.
func (h *Handlers) CategoriesHandler(c *gin.Context) {
	first := clampQueryInt(c, "first", 10, 3, 20)

	categories, err := h.deps.Twitch.Categories(c.Request.Context(), first)
	if err != nil {
		h.providerError(c, "twitch", err)
		return
	}

	enriched, meta := taxonomy.Apply(categories, h.deps.Taxonomy)
	c.JSON(http.StatusOK, gin.H{"data": enriched, "taxonomy": meta})
}
