package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"
)

// StatusHandler reports process health for the dashboard footer.
func (h *Handlers) StatusHandler(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	percent, _ := cpu.Percent(0, false)
	if len(percent) == 0 {
		percent = append(percent, 0)
	}

	items, source, lastErr := h.deps.Hub.Streams()

	c.JSON(http.StatusOK, gin.H{
		"uptime":      time.Since(h.started).Truncate(time.Second).String(),
		"cpuPercent":  fmt.Sprintf("%.2f", percent[0]),
		"memoryMB":    m.Sys / 1024 / 1024,
		"catalogSize": len(items),
		"source":      source,
		"lastError":   lastErr,
	})
}

// RefreshHandler forces one catalog refresh cycle, admin only.
func (h *Handlers) RefreshHandler(c *gin.Context) {
	if h.deps.RefreshNow == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh loop is not running"})
		return
	}
	h.deps.RefreshNow()
	c.JSON(http.StatusAccepted, gin.H{"ok": true})
}
