package scheduler

import (
	"cmp"
	"slices"

	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/normalize"
)

// AssignGroups fills the hub, the typed towers and the mixed tower in that
// order. captains must hold CaptainsPerShift players in group order.
func (s *Scheduler) AssignGroups(roster []models.Player, captains []models.Player) []models.Group {
	taken := make(map[string]bool, len(roster))
	for _, c := range captains {
		taken[normalize.Key(c.Nickname)] = true
	}

	hub := captains[0]
	groups := []models.Group{
		s.FillGroup(models.GroupHub, hub.TroopType, hub, roster, taken),
	}
	for i, troop := range models.TowerOrder {
		groups = append(groups, s.FillGroup(models.GroupTower, troop, captains[1+i], roster, taken))
	}
	mixed := captains[len(models.TowerOrder)+1]
	groups = append(groups, s.FillGroup(models.GroupMixed, models.TroopUnknown, mixed, roster, taken))

	return groups
}

// Capacity returns the room a captain offers to members
func (s *Scheduler) Capacity(captain models.Player) int64 {
	capacity := captain.GroupCapacity
	if s.Policy.CapacityIncludesCaptain {
		capacity -= captain.TroopSize
	}
	if capacity < 0 {
		return 0
	}
	return capacity
}

// FillGroup greedily fills a captain's group from the players not yet taken.
// Hub and typed towers only accept the given troop type; the mixed tower
// accepts anyone. The last member may be cut to the space left, and is
// consumed either way.
func (s *Scheduler) FillGroup(kind models.GroupKind, troop models.TroopType, captain models.Player, roster []models.Player, taken map[string]bool) models.Group {
	group := models.Group{
		Kind:     kind,
		Captain:  captain,
		Capacity: s.Capacity(captain),
		Members:  []models.Member{},
	}
	if kind != models.GroupMixed {
		group.TroopType = troop
	}

	var candidates []models.Player
	for _, p := range roster {
		if taken[normalize.Key(p.Nickname)] {
			continue
		}
		if kind != models.GroupMixed && p.TroopType != troop {
			continue
		}
		candidates = append(candidates, p)
	}
	slices.SortStableFunc(candidates, compareMembers)

	for _, p := range candidates {
		spaceLeft := group.Capacity - group.Used
		if spaceLeft <= 0 {
			break
		}
		key := normalize.Key(p.Nickname)
		if taken[key] {
			continue
		}

		amount := p.TroopSize
		partial := false
		if amount > spaceLeft {
			amount = spaceLeft
			partial = true
		}

		group.Members = append(group.Members, models.Member{
			Nickname:    p.Nickname,
			Alliance:    p.Alliance,
			Contributed: amount,
			Declared:    p.TroopSize,
			Partial:     partial,
		})
		group.Used += amount
		taken[key] = true
	}
	return group
}

// compareMembers orders by tier, then troop size, both descending
func compareMembers(a, b models.Player) int {
	return cmp.Or(
		cmp.Compare(b.Tier, a.Tier),
		cmp.Compare(b.TroopSize, a.TroopSize),
	)
}
