package scheduler

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/arnavshah/tower-roster-api/pkg/models"
	"github.com/arnavshah/tower-roster-api/pkg/normalize"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(nick string, troop models.TroopType, tier int, size, capacity, power int64, captain bool) models.Player {
	return models.Player{
		Nickname:      nick,
		Alliance:      "ABC",
		TroopType:     troop,
		TroopSize:     size,
		Tier:          tier,
		GroupCapacity: capacity,
		Shift:         models.ShiftFirst,
		Captain:       captain,
		TruePower:     power,
	}
}

func nicknames(players []models.Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.Nickname)
	}
	return out
}

func memberNames(g models.Group) []string {
	out := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		out = append(out, m.Nickname)
	}
	return out
}

func TestBalanceShifts(t *testing.T) {
	mk := func(nick string, shift models.Shift) models.Player {
		return models.Player{Nickname: nick, Shift: shift}
	}
	s := NewScheduler([]models.Player{
		mk("a", models.ShiftFirst),
		mk("u1", models.ShiftUndecided),
		mk("b", models.ShiftFirst),
		mk("u2", models.ShiftUndecided),
		mk("u3", models.ShiftUndecided),
		mk("u4", models.ShiftUndecided),
	}, DefaultPolicy())

	shifts := s.BalanceShifts(s.GroupByShift())

	assert.Equal(t, []string{"a", "b", "u3"}, nicknames(shifts[models.ShiftFirst]))
	assert.Equal(t, []string{"u1", "u2", "u4"}, nicknames(shifts[models.ShiftSecond]))
	assert.NotContains(t, shifts, models.ShiftUndecided)
}

func TestBalanceShifts_TiesGoToFirst(t *testing.T) {
	s := NewScheduler([]models.Player{
		{Nickname: "u1"}, {Nickname: "u2"}, {Nickname: "u3"},
	}, DefaultPolicy())

	shifts := s.BalanceShifts(s.GroupByShift())

	assert.Equal(t, []string{"u1", "u3"}, nicknames(shifts[models.ShiftFirst]))
	assert.Equal(t, []string{"u2"}, nicknames(shifts[models.ShiftSecond]))
}

func TestSelectCaptains_RankingAndTies(t *testing.T) {
	roster := []models.Player{
		player("low", models.TroopBiker, 10, 0, 1_000_000, 310_000_000, true),
		player("tierA", models.TroopBiker, 12, 0, 1_000_000, 500_000_000, true),
		player("tierB", models.TroopBiker, 13, 0, 1_000_000, 500_000_000, true),
		player("capA", models.TroopBiker, 13, 0, 2_000_000, 500_000_000, true),
		player("top", models.TroopBiker, 10, 0, 1_000_000, 900_000_000, true),
		player("tieFirst", models.TroopBiker, 10, 0, 1_000_000, 310_000_000, true),
		player("weak", models.TroopBiker, 13, 0, 9_000_000, 100_000_000, true),
		player("unwilling", models.TroopBiker, 13, 0, 9_000_000, 990_000_000, false),
	}
	s := NewScheduler(roster, DefaultPolicy())

	sel := s.SelectCaptains(roster)

	assert.False(t, sel.Relaxed)
	assert.Equal(t, 6, sel.Candidates)
	assert.Equal(t, []string{"top", "capA", "tierB", "tierA", "low"}, nicknames(sel.Captains))
}

func TestSelectCaptains_DeduplicatesNicknames(t *testing.T) {
	roster := []models.Player{
		player("Ann", models.TroopBiker, 13, 0, 1, 900_000_000, true),
		player("ann", models.TroopBiker, 13, 0, 1, 800_000_000, true),
		player("b", models.TroopBiker, 13, 0, 1, 700_000_000, true),
		player("c", models.TroopBiker, 13, 0, 1, 600_000_000, true),
		player("d", models.TroopBiker, 13, 0, 1, 500_000_000, true),
		player("e", models.TroopBiker, 13, 0, 1, 400_000_000, true),
	}
	s := NewScheduler(roster, DefaultPolicy())

	sel := s.SelectCaptains(roster)

	assert.Equal(t, []string{"Ann", "b", "c", "d", "e"}, nicknames(sel.Captains))
}

func TestSelectCaptains_Relaxation(t *testing.T) {
	var roster []models.Player
	for i := 0; i < 7; i++ {
		roster = append(roster, player(fmt.Sprintf("p%d", i), models.TroopFighter, 10+i%3, 100_000, 1_000_000, int64(i)*1_000_000, false))
	}
	s := NewScheduler(roster, DefaultPolicy())

	sel := s.SelectCaptains(roster)

	assert.True(t, sel.Relaxed)
	assert.Equal(t, 7, sel.Candidates)
	assert.Equal(t, []string{"p6", "p5", "p4", "p3", "p2"}, nicknames(sel.Captains))
}

func TestSelectCaptains_RelaxesWhenTooFewEligible(t *testing.T) {
	roster := []models.Player{
		player("e1", models.TroopFighter, 10, 0, 1, 400_000_000, true),
		player("e2", models.TroopFighter, 10, 0, 1, 350_000_000, true),
		player("big", models.TroopFighter, 10, 0, 1, 950_000_000, false),
		player("n1", models.TroopFighter, 10, 0, 1, 10, false),
		player("n2", models.TroopFighter, 10, 0, 1, 20, false),
	}
	s := NewScheduler(roster, DefaultPolicy())

	sel := s.SelectCaptains(roster)

	assert.True(t, sel.Relaxed)
	assert.Equal(t, []string{"big", "e1", "e2", "n2", "n1"}, nicknames(sel.Captains))
}

func TestAllocateShift_InsufficientCaptains(t *testing.T) {
	roster := []models.Player{
		player("a", models.TroopFighter, 10, 0, 1, 400_000_000, true),
		player("b", models.TroopFighter, 10, 0, 1, 400_000_000, true),
		player("c", models.TroopFighter, 10, 0, 1, 400_000_000, true),
	}
	s := NewScheduler(roster, DefaultPolicy())

	plan := s.AllocateShift(models.ShiftFirst, roster)

	assert.True(t, plan.Insufficient)
	assert.Equal(t, 3, plan.Candidates)
	assert.Empty(t, plan.Groups)
}

func TestFillGroup_PartialFill(t *testing.T) {
	captain := player("cap", models.TroopShooter, 13, 100_000, 500_000, 500_000_000, true)
	roster := []models.Player{
		captain,
		player("first", models.TroopShooter, 12, 300_000, 0, 0, false),
		player("second", models.TroopShooter, 11, 400_000, 0, 0, false),
		player("third", models.TroopShooter, 10, 100_000, 0, 0, false),
	}
	s := NewScheduler(roster, DefaultPolicy())
	taken := map[string]bool{normalize.Key("cap"): true}

	g := s.FillGroup(models.GroupTower, models.TroopShooter, captain, roster, taken)

	require.Len(t, g.Members, 2)
	assert.Equal(t, models.Member{Nickname: "first", Alliance: "ABC", Contributed: 300_000, Declared: 300_000}, g.Members[0])
	assert.Equal(t, models.Member{Nickname: "second", Alliance: "ABC", Contributed: 200_000, Declared: 400_000, Partial: true}, g.Members[1])
	assert.Equal(t, int64(500_000), g.Used)
	assert.True(t, taken[normalize.Key("second")])
	assert.False(t, taken[normalize.Key("third")])
}

func TestFillGroup_CapacityIncludesCaptain(t *testing.T) {
	captain := player("cap", models.TroopShooter, 13, 200_000, 500_000, 500_000_000, true)
	roster := []models.Player{
		captain,
		player("m", models.TroopShooter, 12, 400_000, 0, 0, false),
	}
	s := NewScheduler(roster, Policy{MinCaptainPower: DefaultMinCaptainPower, CapacityIncludesCaptain: true})
	taken := map[string]bool{normalize.Key("cap"): true}

	g := s.FillGroup(models.GroupTower, models.TroopShooter, captain, roster, taken)

	assert.Equal(t, int64(300_000), g.Capacity)
	require.Len(t, g.Members, 1)
	assert.Equal(t, int64(300_000), g.Members[0].Contributed)
	assert.True(t, g.Members[0].Partial)
}

func TestFillGroup_ZeroCapacity(t *testing.T) {
	captain := player("cap", models.TroopShooter, 13, 0, 0, 500_000_000, true)
	roster := []models.Player{captain, player("m", models.TroopShooter, 12, 0, 0, 0, false)}
	s := NewScheduler(roster, DefaultPolicy())

	g := s.FillGroup(models.GroupMixed, models.TroopUnknown, captain, roster, map[string]bool{"cap": true})

	assert.Empty(t, g.Members)
	assert.Zero(t, g.Used)
}

func twelvePlayerRoster() []models.Player {
	return []models.Player{
		player("A", models.TroopFighter, 12, 500_000, 1_500_000, 900_000_000, true),
		player("S", models.TroopShooter, 13, 600_000, 2_000_000, 800_000_000, true),
		player("B", models.TroopBiker, 12, 500_000, 1_000_000, 700_000_000, true),
		player("F", models.TroopFighter, 11, 500_000, 1_000_000, 600_000_000, true),
		player("M", models.TroopBiker, 11, 500_000, 1_200_000, 500_000_000, true),
		player("E6", models.TroopShooter, 10, 350_000, 900_000, 400_000_000, true),
		player("s1", models.TroopShooter, 12, 600_000, 0, 0, false),
		player("s2", models.TroopShooter, 13, 500_000, 0, 0, false),
		player("s3", models.TroopShooter, 12, 700_000, 0, 0, false),
		player("f1", models.TroopFighter, 12, 400_000, 0, 0, false),
		player("b1", models.TroopBiker, 10, 300_000, 0, 0, false),
		player("x1", models.TroopShooter, 11, 450_000, 0, 0, false),
	}
}

func TestDistribute_TwelvePlayerExample(t *testing.T) {
	dist := NewScheduler(twelvePlayerRoster(), DefaultPolicy()).Distribute()

	require.Len(t, dist.Shifts, 2)
	plan := dist.Shifts[0]
	require.False(t, plan.Insufficient)
	require.Len(t, plan.Groups, 5)

	hub, shooter, biker, fighter, mixed := plan.Groups[0], plan.Groups[1], plan.Groups[2], plan.Groups[3], plan.Groups[4]

	assert.Equal(t, "A", hub.Captain.Nickname)
	assert.Equal(t, models.TroopFighter, hub.TroopType)
	assert.Equal(t, []string{"f1"}, memberNames(hub))

	assert.Equal(t, "S", shooter.Captain.Nickname)
	assert.Equal(t, models.TroopShooter, shooter.TroopType)
	assert.Equal(t, []string{"s2", "s3", "s1", "x1"}, memberNames(shooter))
	assert.Equal(t, int64(2_000_000), shooter.Used)
	assert.Equal(t, int64(200_000), shooter.Members[3].Contributed)
	assert.True(t, shooter.Members[3].Partial)

	assert.Equal(t, "B", biker.Captain.Nickname)
	assert.Equal(t, []string{"b1"}, memberNames(biker))

	assert.Equal(t, "F", fighter.Captain.Nickname)
	assert.Empty(t, fighter.Members)

	assert.Equal(t, "M", mixed.Captain.Nickname)
	assert.Equal(t, []string{"E6"}, memberNames(mixed))
	assert.Empty(t, plan.Unassigned)

	// shift 2 is empty
	assert.True(t, dist.Shifts[1].Insufficient)
	assert.Zero(t, dist.Shifts[1].Candidates)
}

func randomRoster(r *rand.Rand, n int) []models.Participant {
	troops := []string{"biker", "fighter", "shooter", "байкер", "tank"}
	shifts := []string{"1", "2", "both", "обе", "beide"}
	captain := []string{"yes", "no", "да", "nein"}
	roster := make([]models.Participant, 0, n)
	for i := 0; i < n; i++ {
		roster = append(roster, models.Participant{
			Nickname:      fmt.Sprintf("player%03d", i),
			Alliance:      []string{"ABC", "XYZ", "QQQ"}[r.Intn(3)],
			TroopType:     models.Field(troops[r.Intn(len(troops))]),
			TroopSize:     models.Field(fmt.Sprintf("%d", r.Intn(700_000))),
			Tier:          models.Field(fmt.Sprintf("T%d", 9+r.Intn(5))),
			GroupCapacity: models.Field(fmt.Sprintf("%d", r.Intn(3_500_000))),
			Shift:         models.Field(shifts[r.Intn(len(shifts))]),
			Captain:       models.Field(captain[r.Intn(len(captain))]),
			TruePower:     models.Field(fmt.Sprintf("%d", r.Intn(900_000_000))),
		})
	}
	return roster
}

func TestDistribute_Invariants(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		roster := randomRoster(r, r.Intn(80))
		dist := Distribute(roster, DefaultPolicy())

		if len(roster) == 0 {
			assert.Empty(t, dist.Shifts)
			continue
		}
		require.Len(t, dist.Shifts, 2)

		total := 0
		for _, plan := range dist.Shifts {
			total += plan.Players
			seen := make(map[string]int)
			for _, g := range plan.Groups {
				seen[g.Captain.Nickname]++
				var sum int64
				for _, m := range g.Members {
					seen[m.Nickname]++
					sum += m.Contributed
					assert.LessOrEqual(t, m.Contributed, m.Declared)
				}
				assert.LessOrEqual(t, sum, g.Capacity, "group of %s over capacity", g.Captain.Nickname)
				assert.Equal(t, sum, g.Used)
			}
			for nick, n := range seen {
				assert.Equal(t, 1, n, "%s placed %d times in shift %d", nick, n, plan.Shift)
			}
		}
		assert.Equal(t, len(roster), total, "shift partition must keep every participant")
	}
}

func TestDistribute_BalanceBound(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 30; round++ {
		roster := randomRoster(r, 1+r.Intn(60))
		first, second := 0, 0
		for _, p := range roster {
			switch normalize.Shift(p.Shift.String()) {
			case models.ShiftFirst:
				first++
			case models.ShiftSecond:
				second++
			}
		}
		preexisting := first - second
		if preexisting < 0 {
			preexisting = -preexisting
		}

		dist := Distribute(roster, DefaultPolicy())
		diff := dist.Shifts[0].Players - dist.Shifts[1].Players
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, 1+preexisting)
	}
}

func TestGenerateDistribution_Deterministic(t *testing.T) {
	roster := randomRoster(rand.New(rand.NewSource(3)), 40)

	first := GenerateDistribution(roster, DefaultPolicy())
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, GenerateDistribution(roster, DefaultPolicy())); diff != "" {
			t.Fatalf("report changed between runs (-first +again):\n%s", diff)
		}
	}
}

func TestGenerateDistribution_DoesNotMutateRoster(t *testing.T) {
	roster := randomRoster(rand.New(rand.NewSource(5)), 25)
	snapshot := append([]models.Participant(nil), roster...)

	_ = GenerateDistribution(roster, DefaultPolicy())

	assert.Equal(t, snapshot, roster)
}

func TestGenerateDistribution_EmptyRoster(t *testing.T) {
	out := GenerateDistribution(nil, DefaultPolicy())
	assert.Contains(t, out, "no participants")
}

func TestGenerateDistribution_InsufficientShiftMarker(t *testing.T) {
	var roster []models.Participant
	for i := 0; i < 3; i++ {
		roster = append(roster, models.Participant{
			Nickname: fmt.Sprintf("p%d", i), Alliance: "ABC", TroopType: "biker",
			TroopSize: "300000", Tier: "T11", GroupCapacity: "1000000",
			Shift: "2", Captain: "yes", TruePower: "400000000",
		})
	}

	out := GenerateDistribution(roster, DefaultPolicy())

	blocks := strings.Split(out, "\n\n")
	require.Len(t, blocks, 4)
	assert.True(t, strings.HasPrefix(blocks[0], "Shift 1"))
	assert.Contains(t, blocks[1], "Insufficient captains")
	assert.True(t, strings.HasPrefix(blocks[2], "Shift 2"))
	assert.Contains(t, blocks[3], "found 3")
	assert.NotContains(t, out, "Captain:")
}
