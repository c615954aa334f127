// Package normalize turns free-form roster fields into canonical values.
// Nothing in this package fails: malformed input degrades to the zero value.
package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arnavshah/tower-roster-api/pkg/models"
	"golang.org/x/text/cases"
)

var tierPattern = regexp.MustCompile(`T(\d+)`)

var shiftSynonyms = map[string]models.Shift{
	"1":     models.ShiftFirst,
	"2":     models.ShiftSecond,
	"both":  models.ShiftUndecided,
	"any":   models.ShiftUndecided,
	"обе":   models.ShiftUndecided,
	"beide": models.ShiftUndecided,
}

var troopSynonyms = []struct {
	troop models.TroopType
	names []string
}{
	{models.TroopBiker, []string{"biker", "байкер"}},
	{models.TroopFighter, []string{"fighter", "боец", "kämpfer", "kaempfer"}},
	{models.TroopShooter, []string{"shooter", "стрелок", "schütze", "schuetze"}},
}

var yesWords = map[string]bool{
	"yes":  true,
	"y":    true,
	"да":   true,
	"ja":   true,
	"true": true,
	"1":    true,
}

// Number strips every non-digit and parses what is left. Thousands
// separators of any style disappear; so do decimal points.
func Number(raw string) int64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Tier extracts the ordinal from labels like "T12" or the Cyrillic "т12"
func Tier(raw string) int {
	label := strings.ReplaceAll(strings.ToUpper(raw), "Т", "T")
	m := tierPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Shift maps a declared shift to its bucket. Values that are not recognized
// are treated as undecided so the balancer still places the player.
func Shift(raw string) models.Shift {
	s, _ := ParseShift(raw)
	return s
}

// ParseShift is Shift that also reports whether the value was recognized
func ParseShift(raw string) (models.Shift, bool) {
	s, ok := shiftSynonyms[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return models.ShiftUndecided, false
	}
	return s, true
}

// TroopType matches any known troop name contained in the value
func TroopType(raw string) models.TroopType {
	value := strings.ToLower(raw)
	for _, t := range troopSynonyms {
		for _, name := range t.names {
			if strings.Contains(value, name) {
				return t.troop
			}
		}
	}
	return models.TroopUnknown
}

// YesNo reports whether the value is an affirmative answer
func YesNo(raw string) bool {
	return yesWords[strings.ToLower(strings.TrimSpace(raw))]
}

// Key returns the case-insensitive identity of a nickname
func Key(nickname string) string {
	return cases.Fold().String(strings.TrimSpace(nickname))
}

// Player normalizes a raw participant record
func Player(p models.Participant) models.Player {
	return models.Player{
		Nickname:      strings.TrimSpace(p.Nickname),
		Alliance:      strings.TrimSpace(p.Alliance),
		TroopType:     TroopType(p.TroopType.String()),
		TroopSize:     Number(p.TroopSize.String()),
		Tier:          Tier(p.Tier.String()),
		GroupCapacity: Number(p.GroupCapacity.String()),
		Shift:         Shift(p.Shift.String()),
		Captain:       YesNo(p.Captain.String()),
		TruePower:     Number(p.TruePower.String()),
	}
}

// Players normalizes a roster snapshot, keeping its order
func Players(roster []models.Participant) []models.Player {
	out := make([]models.Player, 0, len(roster))
	for _, p := range roster {
		out = append(out, Player(p))
	}
	return out
}
