package handlers

import (
	"net/http"

	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/normalize"
	"github.com/arnavshah/tower-roster-api/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// ValidateRoster checks a posted roster without storing or allocating it
func (h *Handler) ValidateRoster(c *gin.Context) {
	var input models.DistributeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if len(input.Players) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one player is required",
		})
		return
	}

	issues := normalize.CheckRoster(input.Players, h.Policy.MinCaptainPower)
	if len(issues) > 0 {
		c.JSON(http.StatusOK, gin.H{"valid": false, "issues": issues})
		return
	}

	players := normalize.Players(input.Players)
	sched := scheduler.NewScheduler(players, h.Policy)
	shifts := make(map[models.Shift]int)
	captains := 0
	for _, p := range players {
		shifts[p.Shift]++
		if sched.Eligible(p) {
			captains++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"player_count":      len(players),
			"shift_1":           shifts[models.ShiftFirst],
			"shift_2":           shifts[models.ShiftSecond],
			"undecided":         shifts[models.ShiftUndecided],
			"eligible_captains": captains,
		},
	})
}
