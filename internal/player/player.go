// Package player holds the player record shared by every layer and the
// residual classifier that labels each record once at load time.
package player

import (
	"fmt"
	"strings"
)

// Role selects which dataset and threshold table apply to a record.
type Role int

const (
	FieldPlayer Role = iota
	Goalkeeper
)

// Roles lists the selectable roles in display order. The first entry is the
// default selection.
var Roles = []Role{FieldPlayer, Goalkeeper}

// GoalkeeperPosition is the single position class goalkeepers are reduced to.
const GoalkeeperPosition = "Goalkeeper"

func (r Role) String() string {
	switch r {
	case Goalkeeper:
		return "Goalkeepers"
	default:
		return "Field players"
	}
}

// Key returns the value used in query strings and config.
func (r Role) Key() string {
	if r == Goalkeeper {
		return "gk"
	}
	return "fp"
}

// ParseRole resolves a role from its key or display name. Unknown or empty
// input falls back to FieldPlayer.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gk", "goalkeeper", "goalkeepers":
		return Goalkeeper
	default:
		return FieldPlayer
	}
}

// Record is one row of a role table.
type Record struct {
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	Overall        int     `json:"overall"`
	Position       string  `json:"main_position"`
	Continent      string  `json:"continent"`
	ActualValue    float64 `json:"actual_market_value"`
	PredictedValue float64 `json:"predicted_market_value"`
	Difference     float64 `json:"difference"`
	Role           Role    `json:"-"`
	Label          Label   `json:"-"`
}

func (r Record) String() string {
	return fmt.Sprintf("%s (%d, %s, %d)", r.Name, r.Age, r.Position, r.Overall)
}

func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.Key() + `"`), nil
}
