package handlers

import (
	"github.com/arnavshah/tower-roster-api/pkg/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with request logging and every route
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinLogger(h.Log), gin.Recovery())
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts the API on r
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Info)
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		players := api.Group("/players")
		players.POST("", h.RegisterPlayer)
		players.GET("", h.ListPlayers)
		players.DELETE("", h.ResetPlayers)
		players.GET("/summary", h.PlayerSummary)
		players.POST("/import", h.ImportPlayers)
		players.GET("/:nickname", h.GetPlayer)
		players.PATCH("/:nickname", h.UpdatePlayer)
		players.DELETE("/:nickname", h.DeletePlayer)

		api.POST("/distribute", h.Distribute)
		api.POST("/distribute/json", h.DistributeJSON)
		api.POST("/distribute/csv", h.DistributeCSV)
		api.POST("/validate", h.ValidateRoster)

		api.GET("/runs/:id", h.GetRun)
		api.GET("/usage", h.GetUsage)
	}
}
