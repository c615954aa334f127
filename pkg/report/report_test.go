package report

import (
	"strings"
	"testing"

	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEmptyRoster(t *testing.T) {
	assert.Equal(t, EmptyRoster, Format(models.Distribution{}))
}

func TestGroupBlock(t *testing.T) {
	g := models.Group{
		Kind:      models.GroupHub,
		TroopType: models.TroopBiker,
		Captain:   models.Player{Nickname: "Ann", Alliance: "ABC", GroupCapacity: 2_500_000},
		Capacity:  2_500_000,
		Members: []models.Member{
			{Nickname: "Bob", Alliance: "XYZ", Contributed: 1_200_000, Declared: 1_200_000},
			{Nickname: "Cid", Alliance: "XYZ", Contributed: 300_000, Declared: 450_000, Partial: true},
		},
	}

	want := "Hub (biker)\n" +
		"Captain: Ann [ABC] capacity: 2,500,000\n" +
		"Bob [XYZ] contributes 1,200,000 of 1,200,000\n" +
		"Cid [XYZ] contributes 300,000 of 450,000 (partial)"
	assert.Equal(t, want, GroupBlock(g))
}

func TestGroupTitles(t *testing.T) {
	tests := []struct {
		group models.Group
		want  string
	}{
		{models.Group{Kind: models.GroupHub}, "Hub (unknown)"},
		{models.Group{Kind: models.GroupTower, TroopType: models.TroopShooter}, "Tower shooter"},
		{models.Group{Kind: models.GroupMixed}, "Tower mixed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, groupTitle(tt.group))
	}
}

func TestFormatShifts(t *testing.T) {
	dist := models.Distribution{
		Players: 8,
		Shifts: []models.ShiftPlan{
			{
				Shift:   models.ShiftFirst,
				Players: 5,
				Groups: []models.Group{
					{Kind: models.GroupMixed, Captain: models.Player{Nickname: "Eve", Alliance: "QQQ", GroupCapacity: 1000}},
				},
			},
			{Shift: models.ShiftSecond, Players: 3, Candidates: 3, Insufficient: true},
		},
	}

	blocks := strings.Split(Format(dist), BlockSeparator)
	require.Len(t, blocks, 4)
	assert.Equal(t, "Shift 1\nPlayers: 5", blocks[0])
	assert.Equal(t, "Tower mixed\nCaptain: Eve [QQQ] capacity: 1,000", blocks[1])
	assert.Equal(t, "Shift 2\nPlayers: 3", blocks[2])
	assert.Equal(t, "Insufficient captains: need 5, found 3. No groups formed for this shift.", blocks[3])
}
