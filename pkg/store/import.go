package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/normalize"
)

// Row is one roster line read from a CSV file
type Row struct {
	Line        int
	Participant models.Participant
}

// SkippedRow explains why an import row was not registered
type SkippedRow struct {
	Line     int    `json:"line"`
	Nickname string `json:"nickname,omitempty"`
	Reason   string `json:"reason"`
}

// ImportResult summarizes a roster import
type ImportResult struct {
	Added   int          `json:"added"`
	Skipped []SkippedRow `json:"skipped"`
}

// ReadCSV parses a roster CSV. The header row names the record fields;
// unknown columns are ignored and missing ones read as blank.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read csv header: %w", err)
	}
	cols := make(map[string]int)
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols[normalize.FieldNickname]; !ok {
		return nil, errors.New("store: csv header has no nickname column")
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		get := func(field string) string {
			i, ok := cols[field]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		rows = append(rows, Row{
			Line: line,
			Participant: models.Participant{
				Nickname:      get(normalize.FieldNickname),
				Alliance:      get(normalize.FieldAlliance),
				TroopType:     models.Field(get(normalize.FieldTroopType)),
				TroopSize:     models.Field(get(normalize.FieldTroopSize)),
				Tier:          models.Field(get(normalize.FieldTier)),
				GroupCapacity: models.Field(get(normalize.FieldGroupCapacity)),
				Shift:         models.Field(get(normalize.FieldShift)),
				Captain:       models.Field(get(normalize.FieldCaptain)),
				TruePower:     models.Field(get(normalize.FieldTruePower)),
			},
		})
	}
	return rows, nil
}

// Participants returns the records of the rows, in file order
func Participants(rows []Row) []models.Participant {
	out := make([]models.Participant, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Participant)
	}
	return out
}

// ImportCSV registers new players from a roster CSV. Rows without a
// nickname, with a nickname already on the roster, or with blank required
// fields are skipped.
func (s *Store) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	rows, err := ReadCSV(r)
	if err != nil {
		return ImportResult{}, err
	}

	existing, err := s.List(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	known := make(map[string]bool, len(existing))
	for _, rec := range existing {
		known[rec.NickKey] = true
	}

	result := ImportResult{Skipped: []SkippedRow{}}
	for _, row := range rows {
		p := row.Participant
		key := normalize.Key(p.Nickname)
		switch {
		case key == "":
			result.Skipped = append(result.Skipped, SkippedRow{Line: row.Line, Reason: "empty nickname"})
			continue
		case known[key]:
			result.Skipped = append(result.Skipped, SkippedRow{Line: row.Line, Nickname: p.Nickname, Reason: "already registered"})
			continue
		}
		if missing := normalize.MissingFields(p); len(missing) > 0 {
			result.Skipped = append(result.Skipped, SkippedRow{
				Line:     row.Line,
				Nickname: p.Nickname,
				Reason:   "missing fields: " + strings.Join(missing, ", "),
			})
			continue
		}

		if _, err := s.Register(ctx, p); err != nil {
			return result, err
		}
		known[key] = true
		result.Added++
	}
	return result, nil
}
