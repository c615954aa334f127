// Package report renders a distribution as the text operators post to chat.
package report

import (
	"fmt"
	"strings"

	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/dustin/go-humanize"
)

// EmptyRoster is the whole report for a roster without participants
const EmptyRoster = "Distribution: no participants registered."

// BlockSeparator separates report blocks
const BlockSeparator = "\n\n"

// Format renders every shift of a distribution. Blocks are separated by a
// blank line so the presentation layer can chunk between them.
func Format(dist models.Distribution) string {
	if dist.Players == 0 || len(dist.Shifts) == 0 {
		return EmptyRoster
	}

	var blocks []string
	for _, plan := range dist.Shifts {
		blocks = append(blocks, ShiftBlocks(plan)...)
	}
	return strings.Join(blocks, BlockSeparator)
}

// ShiftBlocks renders the header and group blocks of one shift
func ShiftBlocks(plan models.ShiftPlan) []string {
	header := fmt.Sprintf("Shift %d\nPlayers: %d", plan.Shift, plan.Players)
	if plan.Insufficient {
		marker := fmt.Sprintf("Insufficient captains: need %d, found %d. No groups formed for this shift.",
			models.CaptainsPerShift, plan.Candidates)
		return []string{header, marker}
	}

	blocks := []string{header}
	for _, g := range plan.Groups {
		blocks = append(blocks, GroupBlock(g))
	}
	return blocks
}

// GroupBlock renders a group title, its captain and members
func GroupBlock(g models.Group) string {
	lines := []string{
		groupTitle(g),
		fmt.Sprintf("Captain: %s [%s] capacity: %s", g.Captain.Nickname, g.Captain.Alliance, humanize.Comma(g.Captain.GroupCapacity)),
	}
	for _, m := range g.Members {
		line := fmt.Sprintf("%s [%s] contributes %s of %s", m.Nickname, m.Alliance, humanize.Comma(m.Contributed), humanize.Comma(m.Declared))
		if m.Partial {
			line += " (partial)"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func groupTitle(g models.Group) string {
	switch g.Kind {
	case models.GroupHub:
		return fmt.Sprintf("Hub (%s)", troopLabel(g.TroopType))
	case models.GroupMixed:
		return "Tower mixed"
	default:
		return "Tower " + troopLabel(g.TroopType)
	}
}

func troopLabel(t models.TroopType) string {
	if t == models.TroopUnknown {
		return "unknown"
	}
	return string(t)
}
