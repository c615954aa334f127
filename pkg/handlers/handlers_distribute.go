package handlers

import (
	"net/http"

	"github.com/arnavshah/tower-roster-api/pkg/metrics"
	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/report"
	"github.com/arnavshah/tower-roster-api/pkg/scheduler"
	"github.com/arnavshah/tower-roster-api/pkg/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Distribute allocates the stored roster
func (h *Handler) Distribute(c *gin.Context) {
	roster, err := h.Store.Snapshot(c.Request.Context())
	if err != nil {
		h.fail(c, "Could not load roster", err)
		return
	}
	h.respond(c, "store", roster)
}

// DistributeJSON allocates a roster posted in the request body without
// touching the stored roster
func (h *Handler) DistributeJSON(c *gin.Context) {
	var input models.DistributeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, "json", input.Players)
}

// DistributeCSV allocates an uploaded roster CSV
func (h *Handler) DistributeCSV(c *gin.Context) {
	file, err := c.FormFile("roster_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roster_file is required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		h.fail(c, "Failed to open roster file", err)
		return
	}
	defer f.Close()

	rows, err := store.ReadCSV(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, "csv", store.Participants(rows))
}

// respond runs the engine, records the run and writes the result
func (h *Handler) respond(c *gin.Context, source string, roster []models.Participant) {
	dist := scheduler.Distribute(roster, h.Policy)
	text := report.Format(dist)
	metrics.RecordDistribution(source, dist)

	run, err := h.Store.RecordRun(c.Request.Context(), source, dist, text)
	if err != nil {
		h.fail(c, "Could not record distribution", err)
		return
	}
	h.Log.Info("distribution generated",
		zap.String("run_id", run.ID),
		zap.String("source", source),
		zap.Int("players", dist.Players),
		zap.Int("groups", run.Groups),
		zap.Int("insufficient_shifts", run.InsufficientShifts),
	)

	shifts := dist.Shifts
	if shifts == nil {
		shifts = []models.ShiftPlan{}
	}
	c.JSON(http.StatusOK, models.DistributeResponse{
		RunID:  run.ID,
		Report: text,
		Chunks: report.Chunk(text, h.ChunkLimit),
		Shifts: shifts,
	})
}
