package main

import (
	"log"

	"github.com/arnavshah/tower-roster-api/pkg/config"
	"github.com/arnavshah/tower-roster-api/pkg/database"
	"github.com/arnavshah/tower-roster-api/pkg/handlers"
	"github.com/arnavshah/tower-roster-api/pkg/logging"
	"github.com/arnavshah/tower-roster-api/pkg/metrics"
	"github.com/arnavshah/tower-roster-api/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		logger.Fatal("could not open database", zap.Error(err))
	}
	metrics.Register(prometheus.DefaultRegisterer)

	h := &handlers.Handler{
		Store:      store.New(db, cfg.Policy.MinCaptainPower),
		Log:        logger,
		Policy:     cfg.Policy,
		ChunkLimit: cfg.ChunkLimit,
	}
	r := handlers.NewRouter(h)

	logger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.Int64("min_captain_power", cfg.Policy.MinCaptainPower),
		zap.Bool("capacity_includes_captain", cfg.Policy.CapacityIncludesCaptain),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("could not run server", zap.Error(err))
	}
}
