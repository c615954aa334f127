package scheduler

import (
	"cmp"
	"slices"

	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/normalize"
)

// CaptainSelection is the outcome of captain selection for one shift
type CaptainSelection struct {
	// Captains in group order: hub, typed towers, mixed tower
	Captains   []models.Player
	Candidates int
	Relaxed    bool
}

// Eligible checks if a player volunteered and is strong enough to lead a group
func (s *Scheduler) Eligible(p models.Player) bool {
	return p.Captain && p.TruePower >= s.Policy.MinCaptainPower
}

// SelectCaptains picks CaptainsPerShift distinct captains from a shift
// roster. When too few players are eligible the whole roster competes.
func (s *Scheduler) SelectCaptains(roster []models.Player) CaptainSelection {
	var eligible []models.Player
	for _, p := range roster {
		if s.Eligible(p) {
			eligible = append(eligible, p)
		}
	}

	var sel CaptainSelection
	pool := eligible
	if countDistinct(eligible) < models.CaptainsPerShift {
		pool = roster
		sel.Relaxed = true
	}
	sel.Candidates = countDistinct(pool)

	ranked := slices.Clone(pool)
	slices.SortStableFunc(ranked, compareCaptains)

	seen := make(map[string]bool)
	for _, p := range ranked {
		if len(sel.Captains) == models.CaptainsPerShift {
			break
		}
		key := normalize.Key(p.Nickname)
		if seen[key] {
			continue
		}
		seen[key] = true
		sel.Captains = append(sel.Captains, p)
	}
	return sel
}

// compareCaptains orders by true power, then tier, then group capacity, all descending
func compareCaptains(a, b models.Player) int {
	return cmp.Or(
		cmp.Compare(b.TruePower, a.TruePower),
		cmp.Compare(b.Tier, a.Tier),
		cmp.Compare(b.GroupCapacity, a.GroupCapacity),
	)
}

func countDistinct(players []models.Player) int {
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		seen[normalize.Key(p.Nickname)] = true
	}
	return len(seen)
}
