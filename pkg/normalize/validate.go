package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/arnavshah/tower-roster-api/pkg/models"
)

// Field names as they appear in roster records
const (
	FieldNickname      = "nickname"
	FieldAlliance      = "alliance"
	FieldTroopType     = "troop_type"
	FieldTroopSize     = "troop_size"
	FieldTier          = "tier"
	FieldGroupCapacity = "group_capacity"
	FieldShift         = "shift"
	FieldCaptain       = "captain"
	FieldTruePower     = "true_power"
)

// RequiredFields lists the fields every imported row must carry
var RequiredFields = []string{
	FieldNickname, FieldAlliance, FieldTroopType,
	FieldTroopSize, FieldTier, FieldGroupCapacity,
	FieldShift, FieldCaptain, FieldTruePower,
}

const (
	minTier        = 10
	maxTier        = 13
	minTroopDigits = 6
)

var alliancePattern = regexp.MustCompile(`^[A-Za-z0-9]{3}$`)

var noWords = map[string]bool{
	"no":    true,
	"n":     true,
	"нет":   true,
	"nein":  true,
	"false": true,
	"0":     true,
}

// FieldError describes a rejected registration value
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateField checks a single registration value. captain tells whether
// the owner of the value volunteers as captain, which gates true_power.
func ValidateField(field, value string, captain bool, minPower int64) error {
	value = strings.TrimSpace(value)
	switch field {
	case FieldNickname:
		if value == "" {
			return &FieldError{field, "is required"}
		}
	case FieldAlliance:
		if !alliancePattern.MatchString(value) {
			return &FieldError{field, "must be 3 latin letters or digits"}
		}
	case FieldTroopType:
		if TroopType(value) == models.TroopUnknown {
			return &FieldError{field, "must be biker, fighter or shooter"}
		}
	case FieldTroopSize, FieldGroupCapacity:
		if digits(value) < minTroopDigits {
			return &FieldError{field, fmt.Sprintf("must be a number with at least %d digits", minTroopDigits)}
		}
	case FieldTier:
		if t := Tier(value); t < minTier || t > maxTier {
			return &FieldError{field, fmt.Sprintf("must be between T%d and T%d", minTier, maxTier)}
		}
	case FieldShift:
		if _, ok := ParseShift(value); !ok {
			return &FieldError{field, "must be 1, 2 or both"}
		}
	case FieldCaptain:
		v := strings.ToLower(value)
		if !yesWords[v] && !noWords[v] {
			return &FieldError{field, "must be yes or no"}
		}
	case FieldTruePower:
		if captain && Number(value) < minPower {
			return &FieldError{field, fmt.Sprintf("captains need at least %d true power", minPower)}
		}
	default:
		return &FieldError{field, "unknown field"}
	}
	return nil
}

// Validate checks a full registration record and joins every problem found
func Validate(p models.Participant, minPower int64) error {
	captain := YesNo(p.Captain.String())
	values := Values(p)
	var errs []error
	for _, field := range RequiredFields {
		if err := ValidateField(field, values[field], captain, minPower); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MissingFields returns the required fields that are blank
func MissingFields(p models.Participant) []string {
	values := Values(p)
	var missing []string
	for _, field := range RequiredFields {
		if values[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Values returns the trimmed record fields keyed by field name
func Values(p models.Participant) map[string]string {
	return map[string]string{
		FieldNickname:      strings.TrimSpace(p.Nickname),
		FieldAlliance:      strings.TrimSpace(p.Alliance),
		FieldTroopType:     p.TroopType.String(),
		FieldTroopSize:     p.TroopSize.String(),
		FieldTier:          p.Tier.String(),
		FieldGroupCapacity: p.GroupCapacity.String(),
		FieldShift:         p.Shift.String(),
		FieldCaptain:       p.Captain.String(),
		FieldTruePower:     p.TruePower.String(),
	}
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
