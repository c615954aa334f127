package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arnavshah/tower-roster-api/pkg/config"
	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/report"
	"github.com/arnavshah/tower-roster-api/pkg/scheduler"
	"github.com/arnavshah/tower-roster-api/pkg/store"
	"go.uber.org/zap"
)

// loadRoster reads a roster from a CSV file or a JSON file holding either a
// bare array of players or an object with a "players" array
func loadRoster(path string) ([]models.Participant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rows, err := store.ReadCSV(f)
		if err != nil {
			return nil, err
		}
		return store.Participants(rows), nil
	}

	var raw json.RawMessage
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode roster %s: %w", path, err)
	}
	var players []models.Participant
	if err := json.Unmarshal(raw, &players); err == nil {
		return players, nil
	}
	var input models.DistributeInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("decode roster %s: %w", path, err)
	}
	return input.Players, nil
}

// loadPolicy returns the policy file settings, or the defaults without one
func loadPolicy(path string) (config.PolicyFile, error) {
	if path == "" {
		return config.PolicyFile{
			Policy:     scheduler.DefaultPolicy(),
			ChunkLimit: report.DefaultChunkLimit,
		}, nil
	}
	pf, err := config.LoadPolicy(path)
	if err != nil {
		return config.PolicyFile{}, err
	}
	logger.Debug("policy loaded",
		zap.String("path", path),
		zap.Int64("min_captain_power", pf.MinCaptainPower),
		zap.Bool("capacity_includes_captain", pf.CapacityIncludesCaptain),
	)
	return pf, nil
}
