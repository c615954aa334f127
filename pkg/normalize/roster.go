package normalize

import (
	"errors"

	"github.com/arnavshah/tower-roster-api/pkg/models"
)

// RosterIssue lists the problems found with one record of a roster
type RosterIssue struct {
	Index    int      `json:"index"`
	Nickname string   `json:"nickname"`
	Problems []string `json:"problems"`
}

// FieldErrors unpacks the field errors held by err, which may be joined
func FieldErrors(err error) []*FieldError {
	if err == nil {
		return nil
	}
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	var out []*FieldError
	for _, e := range errs {
		var fe *FieldError
		if errors.As(e, &fe) {
			out = append(out, fe)
		}
	}
	return out
}

// CheckRoster validates every record of a roster and reports repeated
// nicknames. Records without problems are left out of the result.
func CheckRoster(roster []models.Participant, minPower int64) []RosterIssue {
	var issues []RosterIssue
	seen := make(map[string]bool, len(roster))
	for i, p := range roster {
		var problems []string
		for _, fe := range FieldErrors(Validate(p, minPower)) {
			problems = append(problems, fe.Error())
		}
		if key := Key(p.Nickname); key != "" {
			if seen[key] {
				problems = append(problems, "nickname: duplicate of an earlier record")
			}
			seen[key] = true
		}
		if len(problems) > 0 {
			issues = append(issues, RosterIssue{Index: i, Nickname: p.Nickname, Problems: problems})
		}
	}
	return issues
}
