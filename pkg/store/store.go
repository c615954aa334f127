package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/arnavshah/tower-roster-api/pkg/database"
	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/normalize"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when no player has the requested nickname
	ErrNotFound = errors.New("store: player not found")
	// ErrDuplicate is returned when a rename collides with another player
	ErrDuplicate = errors.New("store: nickname already registered")
)

// Store persists the roster. Registrations keep their arrival order, which
// is the snapshot order the allocation engine relies on.
type Store struct {
	DB              *gorm.DB
	MinCaptainPower int64
}

// New creates a store over an open database
func New(db *gorm.DB, minCaptainPower int64) *Store {
	return &Store{DB: db, MinCaptainPower: minCaptainPower}
}

// Register stores a participant, replacing any earlier registration with the
// same nickname. The new record moves to the end of the roster.
func (s *Store) Register(ctx context.Context, p models.Participant) (database.PlayerRecord, error) {
	rec := database.NewPlayerRecord(p)
	if rec.NickKey == "" {
		return database.PlayerRecord{}, &normalize.FieldError{Field: normalize.FieldNickname, Message: "is required"}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("nick_key = ?", rec.NickKey).Delete(&database.PlayerRecord{}).Error; err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return database.PlayerRecord{}, fmt.Errorf("store: register %s: %w", rec.Nickname, err)
	}
	return rec, nil
}

// Get returns the player registered under nickname
func (s *Store) Get(ctx context.Context, nickname string) (database.PlayerRecord, error) {
	var rec database.PlayerRecord
	err := s.DB.WithContext(ctx).Where("nick_key = ?", normalize.Key(nickname)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.PlayerRecord{}, ErrNotFound
	}
	if err != nil {
		return database.PlayerRecord{}, fmt.Errorf("store: get %s: %w", nickname, err)
	}
	return rec, nil
}

// List returns all players in registration order
func (s *Store) List(ctx context.Context) ([]database.PlayerRecord, error) {
	var recs []database.PlayerRecord
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return recs, nil
}

// Snapshot returns the roster as the allocation engine consumes it
func (s *Store) Snapshot(ctx context.Context) ([]models.Participant, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	roster := make([]models.Participant, 0, len(recs))
	for _, r := range recs {
		roster = append(roster, r.Participant())
	}
	return roster, nil
}

// Update changes one field of a player in place, keeping its roster position
func (s *Store) Update(ctx context.Context, nickname, field, value string) (database.PlayerRecord, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	value = strings.TrimSpace(value)

	var rec database.PlayerRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("nick_key = ?", normalize.Key(nickname)).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		captain := normalize.YesNo(rec.Captain)
		if field == normalize.FieldCaptain {
			captain = normalize.YesNo(value)
		}
		if err := normalize.ValidateField(field, value, captain, s.MinCaptainPower); err != nil {
			return err
		}

		updates := map[string]any{field: canonical(field, value)}
		if field == normalize.FieldNickname {
			key := normalize.Key(value)
			var count int64
			if err := tx.Model(&database.PlayerRecord{}).Where("nick_key = ? AND id <> ?", key, rec.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicate
			}
			updates["nick_key"] = key
		}

		if err := tx.Model(&rec).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&rec, rec.ID).Error
	})
	if err != nil {
		return database.PlayerRecord{}, err
	}
	return rec, nil
}

// Delete removes a player
func (s *Store) Delete(ctx context.Context, nickname string) error {
	res := s.DB.WithContext(ctx).Where("nick_key = ?", normalize.Key(nickname)).Delete(&database.PlayerRecord{})
	if res.Error != nil {
		return fmt.Errorf("store: delete %s: %w", nickname, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset removes every player and returns how many were removed
func (s *Store) Reset(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&database.PlayerRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("store: reset: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// AllianceCount is the number of players registered under one alliance tag
type AllianceCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Summary is the short roster listing
type Summary struct {
	Total     int             `json:"total"`
	Players   []string        `json:"players"`
	Alliances []AllianceCount `json:"alliances"`
}

// Summary lists nicknames with alliance tags and counts per alliance,
// largest alliance first
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Total: len(recs), Players: make([]string, 0, len(recs))}
	counts := make(map[string]int)
	for _, r := range recs {
		sum.Players = append(sum.Players, fmt.Sprintf("%s | %s", r.Nickname, r.Alliance))
		counts[strings.ToUpper(r.Alliance)]++
	}
	for tag, n := range counts {
		sum.Alliances = append(sum.Alliances, AllianceCount{Tag: tag, Count: n})
	}
	sort.Slice(sum.Alliances, func(i, j int) bool {
		if sum.Alliances[i].Count != sum.Alliances[j].Count {
			return sum.Alliances[i].Count > sum.Alliances[j].Count
		}
		return sum.Alliances[i].Tag < sum.Alliances[j].Tag
	})
	return sum, nil
}

// RecordRun stores a distribution snapshot and bumps today's run statistics
func (s *Store) RecordRun(ctx context.Context, source string, dist models.Distribution, text string) (database.DistributionRun, error) {
	run := database.DistributionRun{
		ID:      uuid.NewString(),
		Source:  source,
		Players: dist.Players,
		Report:  text,
	}
	for _, plan := range dist.Shifts {
		run.Groups += len(plan.Groups)
		if plan.Insufficient {
			run.InsufficientShifts++
		}
	}

	today := time.Now().Format("2006-01-02")
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"run_count":     gorm.Expr("run_count + ?", 1),
				"total_players": gorm.Expr("total_players + ?", run.Players),
				"total_groups":  gorm.Expr("total_groups + ?", run.Groups),
			}),
		}).Create(&database.RunStats{
			Date:         today,
			RunCount:     1,
			TotalPlayers: run.Players,
			TotalGroups:  run.Groups,
		}).Error
	})
	if err != nil {
		return database.DistributionRun{}, fmt.Errorf("store: record run: %w", err)
	}
	return run, nil
}

// GetRun returns a stored distribution snapshot
func (s *Store) GetRun(ctx context.Context, id string) (database.DistributionRun, error) {
	var run database.DistributionRun
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.DistributionRun{}, ErrNotFound
	}
	if err != nil {
		return database.DistributionRun{}, fmt.Errorf("store: get run %s: %w", id, err)
	}
	return run, nil
}

// RunStats returns daily run statistics, most recent day first
func (s *Store) RunStats(ctx context.Context, days int) ([]database.RunStats, error) {
	if days <= 0 {
		days = 30
	}
	var stats []database.RunStats
	if err := s.DB.WithContext(ctx).Order("date desc").Limit(days).Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("store: run stats: %w", err)
	}
	return stats, nil
}

// canonical stores values in the same shape registration does
func canonical(field, value string) string {
	switch field {
	case normalize.FieldTier:
		return strings.ReplaceAll(strings.ToUpper(value), "Т", "T")
	case normalize.FieldShift, normalize.FieldCaptain:
		return strings.ToLower(value)
	default:
		return value
	}
}
