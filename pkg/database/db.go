package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/normalize"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// PlayerRecord represents the players table. Fields are stored as typed by
// the participant; the engine normalizes them on every run.
type PlayerRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	NickKey       string    `gorm:"uniqueIndex;not null" json:"-"`
	Nickname      string    `gorm:"not null" json:"nickname"`
	Alliance      string    `json:"alliance"`
	TroopType     string    `json:"troop_type"`
	TroopSize     string    `json:"troop_size"`
	Tier          string    `json:"tier"`
	GroupCapacity string    `json:"group_capacity"`
	Shift         string    `json:"shift"`
	Captain       string    `json:"captain"`
	TruePower     string    `json:"true_power"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DistributionRun represents the distribution_runs table
type DistributionRun struct {
	ID                 string    `gorm:"primaryKey" json:"id"`
	Source             string    `gorm:"not null" json:"source"`
	Players            int       `json:"players"`
	Groups             int       `json:"groups"`
	InsufficientShifts int       `json:"insufficient_shifts"`
	Report             string    `gorm:"type:text" json:"report"`
	CreatedAt          time.Time `json:"created_at"`
}

// RunStats represents the run_stats table, one row per day
type RunStats struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Date         string `gorm:"uniqueIndex;not null" json:"date"`
	RunCount     int    `gorm:"default:0" json:"run_count"`
	TotalPlayers int    `gorm:"default:0" json:"total_players"`
	TotalGroups  int    `gorm:"default:0" json:"total_groups"`
}

// InitDB opens postgres when databaseURL is set, sqlite at dataPath otherwise,
// and migrates the schema
func InitDB(databaseURL, dataPath string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if databaseURL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  databaseURL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		if dataPath == "" {
			dataPath = "roster.db"
		}
		db, err = gorm.Open(sqlite.Open(dataPath), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&PlayerRecord{}, &DistributionRun{}, &RunStats{}); err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}

// NewPlayerRecord builds a row from a registration
func NewPlayerRecord(p models.Participant) PlayerRecord {
	return PlayerRecord{
		NickKey:       normalize.Key(p.Nickname),
		Nickname:      strings.TrimSpace(p.Nickname),
		Alliance:      strings.TrimSpace(p.Alliance),
		TroopType:     p.TroopType.String(),
		TroopSize:     p.TroopSize.String(),
		Tier:          strings.ReplaceAll(strings.ToUpper(p.Tier.String()), "Т", "T"),
		GroupCapacity: p.GroupCapacity.String(),
		Shift:         strings.ToLower(p.Shift.String()),
		Captain:       strings.ToLower(p.Captain.String()),
		TruePower:     p.TruePower.String(),
	}
}

// Participant converts the row back into a registration
func (r PlayerRecord) Participant() models.Participant {
	return models.Participant{
		Nickname:      r.Nickname,
		Alliance:      r.Alliance,
		TroopType:     models.Field(r.TroopType),
		TroopSize:     models.Field(r.TroopSize),
		Tier:          models.Field(r.Tier),
		GroupCapacity: models.Field(r.GroupCapacity),
		Shift:         models.Field(r.Shift),
		Captain:       models.Field(r.Captain),
		TruePower:     models.Field(r.TruePower),
	}
}
