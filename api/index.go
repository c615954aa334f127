package handler

import (
	"log"
	"net/http"

	"github.com/arnavshah/tower-roster-api/pkg/config"
	"github.com/arnavshah/tower-roster-api/pkg/database"
	"github.com/arnavshah/tower-roster-api/pkg/handlers"
	"github.com/arnavshah/tower-roster-api/pkg/logging"
	"github.com/arnavshah/tower-roster-api/pkg/metrics"
	"github.com/arnavshah/tower-roster-api/pkg/store"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not create logger: %v", err)
	}

	// Serverless instances have no writable working directory
	if cfg.DatabaseURL == "" && cfg.DataPath == "roster.db" {
		cfg.DataPath = "/tmp/roster.db"
	}
	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	metrics.Register(prometheus.DefaultRegisterer)

	gin.SetMode(gin.ReleaseMode)
	r = handlers.NewRouter(&handlers.Handler{
		Store:      store.New(db, cfg.Policy.MinCaptainPower),
		Log:        logger,
		Policy:     cfg.Policy,
		ChunkLimit: cfg.ChunkLimit,
	})
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
