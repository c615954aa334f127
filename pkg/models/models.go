package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Field is a raw roster value as the operator typed it. It accepts JSON
// strings, numbers and booleans so spreadsheet exports can be posted as-is.
type Field string

// UnmarshalJSON decodes strings verbatim and keeps the literal text of any
// other scalar
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	*f = Field(data)
	return nil
}

// String returns the trimmed value
func (f Field) String() string {
	return strings.TrimSpace(string(f))
}

// Participant is a registration record as supplied by the roster store
type Participant struct {
	Nickname      string `json:"nickname" binding:"required"`
	Alliance      string `json:"alliance" binding:"required"`
	TroopType     Field  `json:"troop_type" binding:"required"`
	TroopSize     Field  `json:"troop_size" binding:"required"`
	Tier          Field  `json:"tier" binding:"required"`
	GroupCapacity Field  `json:"group_capacity" binding:"required"`
	Shift         Field  `json:"shift" binding:"required"`
	Captain       Field  `json:"captain" binding:"required"`
	TruePower     Field  `json:"true_power"`
}

// TroopType is the unit class a player fields
type TroopType string

const (
	TroopUnknown TroopType = ""
	TroopBiker   TroopType = "biker"
	TroopFighter TroopType = "fighter"
	TroopShooter TroopType = "shooter"
)

// TowerOrder is the fixed order in which typed towers are staffed
var TowerOrder = []TroopType{TroopShooter, TroopBiker, TroopFighter}

// CaptainsPerShift is the number of groups formed per shift: the hub, one
// tower per troop type and the mixed tower.
var CaptainsPerShift = 2 + len(TowerOrder)

// Shift is the declared event shift. ShiftUndecided players are balanced
// into shift 1 or 2 before allocation.
type Shift int

const (
	ShiftUndecided Shift = 0
	ShiftFirst     Shift = 1
	ShiftSecond    Shift = 2
)

// Player is a normalized participant
type Player struct {
	Nickname      string    `json:"nickname"`
	Alliance      string    `json:"alliance"`
	TroopType     TroopType `json:"troop_type"`
	TroopSize     int64     `json:"troop_size"`
	Tier          int       `json:"tier"`
	GroupCapacity int64     `json:"group_capacity"`
	Shift         Shift     `json:"shift"`
	Captain       bool      `json:"captain"`
	TruePower     int64     `json:"true_power"`
}

// GroupKind distinguishes the hub from typed and mixed towers
type GroupKind string

const (
	GroupHub   GroupKind = "hub"
	GroupTower GroupKind = "tower"
	GroupMixed GroupKind = "mixed"
)

// Member is a player placed into a group
type Member struct {
	Nickname    string `json:"nickname"`
	Alliance    string `json:"alliance"`
	Contributed int64  `json:"contributed"`
	Declared    int64  `json:"declared"`
	Partial     bool   `json:"partial,omitempty"`
}

// Group is one hub or tower led by a captain
type Group struct {
	Kind      GroupKind `json:"kind"`
	TroopType TroopType `json:"troop_type,omitempty"`
	Captain   Player    `json:"captain"`
	Capacity  int64     `json:"capacity"`
	Used      int64     `json:"used"`
	Members   []Member  `json:"members"`
}

// ShiftPlan is the allocation of a single shift
type ShiftPlan struct {
	Shift        Shift    `json:"shift"`
	Players      int      `json:"players"`
	Candidates   int      `json:"candidates"`
	Relaxed      bool     `json:"relaxed"`
	Insufficient bool     `json:"insufficient_captains"`
	Groups       []Group  `json:"groups,omitempty"`
	FillScore    float64  `json:"fill_score"`
	Unassigned   []string `json:"unassigned,omitempty"`
}

// Distribution is the full engine result for a roster snapshot
type Distribution struct {
	Players int         `json:"players"`
	Shifts  []ShiftPlan `json:"shifts"`
}

// DistributeInput is the data structure for the stateless distribution endpoint
type DistributeInput struct {
	Players []Participant `json:"players"`
}

// DistributeResponse is the data structure for the distribution result
type DistributeResponse struct {
	RunID  string      `json:"run_id,omitempty"`
	Report string      `json:"report"`
	Chunks []string    `json:"chunks"`
	Shifts []ShiftPlan `json:"shifts"`
}

// FieldUpdate edits a single field of a stored participant
type FieldUpdate struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}
