package handlers

import (
	"errors"
	"net/http"

	"github.com/arnavshah/tower-roster-api/pkg/metrics"
	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/normalize"
	"github.com/arnavshah/tower-roster-api/pkg/scheduler"
	"github.com/arnavshah/tower-roster-api/pkg/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the info route
const Version = "1.0.0"

// Handler contains dependencies for the route handlers
type Handler struct {
	Store      *store.Store
	Log        *zap.Logger
	Policy     scheduler.Policy
	ChunkLimit int
}

// Info describes the service
func (h *Handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Tower Roster API",
		"version": Version,
	})
}

// Health reports whether the database answers
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.Store.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.Log.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterPlayer validates and stores a registration, replacing any earlier
// one under the same nickname
func (h *Handler) RegisterPlayer(c *gin.Context) {
	var input models.Participant
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := normalize.Validate(input, h.Policy.MinCaptainPower); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid registration",
			"fields": fieldMessages(err),
		})
		return
	}

	rec, err := h.Store.Register(c.Request.Context(), input)
	if err != nil {
		h.fail(c, "Could not store registration", err)
		return
	}
	metrics.RecordRegistrations("api", 1)
	h.Log.Info("player registered", zap.String("nickname", rec.Nickname), zap.String("alliance", rec.Alliance))

	c.JSON(http.StatusCreated, rec)
}

// ListPlayers returns the full roster in registration order
func (h *Handler) ListPlayers(c *gin.Context) {
	recs, err := h.Store.List(c.Request.Context())
	if err != nil {
		h.fail(c, "Could not list players", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(recs), "players": recs})
}

// PlayerSummary returns the short roster listing with alliance counts
func (h *Handler) PlayerSummary(c *gin.Context) {
	sum, err := h.Store.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, "Could not summarize players", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// GetPlayer returns one registration
func (h *Handler) GetPlayer(c *gin.Context) {
	rec, err := h.Store.Get(c.Request.Context(), c.Param("nickname"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdatePlayer edits one field of a registration
func (h *Handler) UpdatePlayer(c *gin.Context) {
	var req models.FieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.Store.Update(c.Request.Context(), c.Param("nickname"), req.Field, req.Value)
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.Log.Info("player updated", zap.String("nickname", rec.Nickname), zap.String("field", req.Field))
	c.JSON(http.StatusOK, rec)
}

// DeletePlayer removes a registration
func (h *Handler) DeletePlayer(c *gin.Context) {
	nickname := c.Param("nickname")
	if err := h.Store.Delete(c.Request.Context(), nickname); err != nil {
		h.storeError(c, err)
		return
	}
	h.Log.Info("player deleted", zap.String("nickname", nickname))
	c.JSON(http.StatusOK, gin.H{"message": "Player deleted"})
}

// ResetPlayers clears the roster
func (h *Handler) ResetPlayers(c *gin.Context) {
	n, err := h.Store.Reset(c.Request.Context())
	if err != nil {
		h.fail(c, "Could not reset roster", err)
		return
	}
	h.Log.Info("roster reset", zap.Int64("removed", n))
	c.JSON(http.StatusOK, gin.H{"message": "Roster cleared", "removed": n})
}

// ImportPlayers registers new players from an uploaded roster CSV
func (h *Handler) ImportPlayers(c *gin.Context) {
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

	result, err := h.Store.ImportCSV(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "added": result.Added})
		return
	}
	metrics.RecordRegistrations("import", result.Added)
	metrics.RecordImportSkipped(len(result.Skipped))
	h.Log.Info("roster imported", zap.Int("added", result.Added), zap.Int("skipped", len(result.Skipped)))

	c.JSON(http.StatusOK, result)
}

// storeError maps store failures to status codes
func (h *Handler) storeError(c *gin.Context, err error) {
	var fe *normalize.FieldError
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Nickname already registered"})
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Error()})
	default:
		h.fail(c, "Store request failed", err)
	}
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	h.Log.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func fieldMessages(err error) map[string]string {
	out := make(map[string]string)
	for _, fe := range normalize.FieldErrors(err) {
		out[fe.Field] = fe.Message
	}
	return out
}
