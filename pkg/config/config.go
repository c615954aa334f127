package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/arnavshah/tower-roster-api/pkg/report"
	"github.com/arnavshah/tower-roster-api/pkg/scheduler"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPaths are the .env locations tried, in order, from the working directory
var EnvPaths = []string{".env", "../.env", "../../.env"}

// Config is the runtime configuration of the server and CLI
type Config struct {
	Port        string
	GinMode     string
	DatabaseURL string
	DataPath    string
	PolicyFile  string
	LogLevel    string
	ChunkLimit  int
	Policy      scheduler.Policy
}

// PolicyFile is the YAML document holding allocation rules
type PolicyFile struct {
	scheduler.Policy `yaml:",inline"`
	ChunkLimit       int `yaml:"chunk_limit"`
}

// LoadEnv loads the first .env file found, if any
func LoadEnv() {
	for _, p := range EnvPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads the configuration from the environment and the optional policy file
func Load() (Config, error) {
	cfg := Config{
		Port:        getenv("PORT", "8000"),
		GinMode:     os.Getenv("GIN_MODE"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DataPath:    getenv("DATA_PATH", "roster.db"),
		PolicyFile:  os.Getenv("POLICY_FILE"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		ChunkLimit:  report.DefaultChunkLimit,
		Policy:      scheduler.DefaultPolicy(),
	}

	if cfg.PolicyFile != "" {
		pf, err := LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Policy = pf.Policy
		cfg.ChunkLimit = pf.ChunkLimit
	}

	if v := os.Getenv("MIN_CAPTAIN_POWER"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return Config{}, errors.New("invalid MIN_CAPTAIN_POWER env variable")
		}
		cfg.Policy.MinCaptainPower = n
	}
	if v := os.Getenv("CHUNK_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, errors.New("invalid CHUNK_LIMIT env variable")
		}
		cfg.ChunkLimit = n
	}

	return cfg, nil
}

// LoadPolicy reads a YAML policy file. Keys left out keep their defaults.
func LoadPolicy(path string) (PolicyFile, error) {
	pf := PolicyFile{
		Policy:     scheduler.DefaultPolicy(),
		ChunkLimit: report.DefaultChunkLimit,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return PolicyFile{}, fmt.Errorf("config: read policy %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return PolicyFile{}, fmt.Errorf("config: parse policy %s: %w", path, err)
	}
	if pf.MinCaptainPower < 0 {
		return PolicyFile{}, fmt.Errorf("config: policy %s: min_captain_power must not be negative", path)
	}
	if pf.ChunkLimit <= 0 {
		pf.ChunkLimit = report.DefaultChunkLimit
	}
	return pf, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
