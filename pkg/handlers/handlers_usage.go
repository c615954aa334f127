package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arnavshah/tower-roster-api/pkg/store"
	"github.com/gin-gonic/gin"
)

// GetRun returns a stored distribution
func (h *Handler) GetRun(c *gin.Context) {
	run, err := h.Store.GetRun(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	if err != nil {
		h.fail(c, "Could not fetch run", err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetUsage returns daily distribution statistics
func (h *Handler) GetUsage(c *gin.Context) {
	days := 30
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive number"})
			return
		}
		days = n
	}

	usage, err := h.Store.RunStats(c.Request.Context(), days)
	if err != nil {
		h.fail(c, "Could not fetch usage details", err)
		return
	}

	// Calculate totals
	var totalRuns, totalPlayers, totalGroups int64
	for _, u := range usage {
		totalRuns += int64(u.RunCount)
		totalPlayers += int64(u.TotalPlayers)
		totalGroups += int64(u.TotalGroups)
	}

	c.JSON(http.StatusOK, gin.H{
		"usage_history": usage,
		"totals": gin.H{
			"runs":    totalRuns,
			"players": totalPlayers,
			"groups":  totalGroups,
		},
	})
}
