package scheduler

import "github.com/arnavshah/tower-roster-api/pkg/models"

// GroupByShift returns players bucketed by their declared shift, keeping roster order
func (s *Scheduler) GroupByShift() map[models.Shift][]models.Player {
	buckets := map[models.Shift][]models.Player{
		models.ShiftFirst:     nil,
		models.ShiftSecond:    nil,
		models.ShiftUndecided: nil,
	}
	for _, p := range s.Players {
		buckets[p.Shift] = append(buckets[p.Shift], p)
	}
	return buckets
}

// BalanceShifts places every undecided player into the currently smaller
// shift, preferring shift 1 on ties
func (s *Scheduler) BalanceShifts(buckets map[models.Shift][]models.Player) map[models.Shift][]models.Player {
	first := append([]models.Player(nil), buckets[models.ShiftFirst]...)
	second := append([]models.Player(nil), buckets[models.ShiftSecond]...)

	for _, p := range buckets[models.ShiftUndecided] {
		if len(first) <= len(second) {
			first = append(first, p)
		} else {
			second = append(second, p)
		}
	}

	return map[models.Shift][]models.Player{
		models.ShiftFirst:  first,
		models.ShiftSecond: second,
	}
}
