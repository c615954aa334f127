package scheduler

import (
	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/normalize"
	"github.com/arnavshah/tower-roster-api/pkg/report"
)

// DefaultMinCaptainPower is the true power a volunteer needs to be preferred as captain
const DefaultMinCaptainPower int64 = 300_000_000

// Policy holds the tunable allocation rules
type Policy struct {
	MinCaptainPower int64 `yaml:"min_captain_power"`
	// CapacityIncludesCaptain deducts the captain's own troops from the
	// declared group capacity.
	CapacityIncludesCaptain bool `yaml:"capacity_includes_captain"`
}

// DefaultPolicy returns the rules used when no policy file is configured
func DefaultPolicy() Policy {
	return Policy{MinCaptainPower: DefaultMinCaptainPower}
}

// Scheduler allocates a normalized roster snapshot into hubs and towers
type Scheduler struct {
	Players []models.Player
	Policy  Policy
}

// NewScheduler creates a new scheduler instance
func NewScheduler(players []models.Player, policy Policy) *Scheduler {
	return &Scheduler{
		Players: players,
		Policy:  policy,
	}
}

// Distribute balances the roster across both shifts and forms the groups of each
func (s *Scheduler) Distribute() models.Distribution {
	dist := models.Distribution{Players: len(s.Players)}
	if len(s.Players) == 0 {
		return dist
	}

	shifts := s.BalanceShifts(s.GroupByShift())
	for _, shift := range []models.Shift{models.ShiftFirst, models.ShiftSecond} {
		dist.Shifts = append(dist.Shifts, s.AllocateShift(shift, shifts[shift]))
	}
	return dist
}

// AllocateShift selects captains for one shift and fills their groups
func (s *Scheduler) AllocateShift(shift models.Shift, roster []models.Player) models.ShiftPlan {
	plan := models.ShiftPlan{Shift: shift, Players: len(roster)}

	selection := s.SelectCaptains(roster)
	plan.Candidates = selection.Candidates
	plan.Relaxed = selection.Relaxed
	if len(selection.Captains) < models.CaptainsPerShift {
		plan.Insufficient = true
		return plan
	}

	plan.Groups = s.AssignGroups(roster, selection.Captains)
	plan.FillScore = CalculateFillScore(plan.Groups)
	plan.Unassigned = unassigned(roster, plan.Groups)
	return plan
}

// CalculateFillScore returns the percentage (0-100) of total group capacity
// that was filled. A shift without any capacity scores 0.
func CalculateFillScore(groups []models.Group) float64 {
	var capacity, used int64
	for _, g := range groups {
		capacity += g.Capacity
		used += g.Used
	}
	if capacity <= 0 {
		return 0
	}
	return float64(used) / float64(capacity) * 100.0
}

func unassigned(roster []models.Player, groups []models.Group) []string {
	placed := make(map[string]bool)
	for _, g := range groups {
		placed[normalize.Key(g.Captain.Nickname)] = true
		for _, m := range g.Members {
			placed[normalize.Key(m.Nickname)] = true
		}
	}
	var out []string
	for _, p := range roster {
		if !placed[normalize.Key(p.Nickname)] {
			out = append(out, p.Nickname)
		}
	}
	return out
}

// Distribute normalizes a raw roster snapshot and allocates it
func Distribute(roster []models.Participant, policy Policy) models.Distribution {
	return NewScheduler(normalize.Players(roster), policy).Distribute()
}

// GenerateDistribution renders the allocation of a roster snapshot as text
func GenerateDistribution(roster []models.Participant, policy Policy) string {
	return report.Format(Distribute(roster, policy))
}
