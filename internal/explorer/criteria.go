// Package explorer narrows a classified player table down to the rows the
// explorer page plots. Every call recomputes from the immutable source; no
// derived state survives between calls.
package explorer

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"value-scout/internal/player"
)

// Declared widget bounds. Inputs outside them are clamped.
var (
	AgeBounds    = Range{Min: 18, Max: 40}
	RatingBounds = Range{Min: 45, Max: 99}
)

// DefaultPositions is the initial position selection for field players.
var DefaultPositions = []string{"Centre Back", "Defensive Midfield", "Striker"}

// Query parameter names shared by the page form, the plot routes and the API.
const (
	ParamRole      = "role"
	ParamAgeMin    = "age_min"
	ParamAgeMax    = "age_max"
	ParamRatingMin = "rating_min"
	ParamRatingMax = "rating_max"
	ParamPosition  = "position"
	ParamName      = "name"
)

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v int) bool { return r.Min <= v && v <= r.Max }

// Clamp orders the range and limits both ends to bounds.
func (r Range) Clamp(bounds Range) Range {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	r.Min = min(max(r.Min, bounds.Min), bounds.Max)
	r.Max = min(max(r.Max, bounds.Min), bounds.Max)
	return r
}

// Criteria is one widget state. It is rebuilt on every interaction.
type Criteria struct {
	Role      player.Role `json:"role"`
	Age       Range       `json:"age"`
	Rating    Range       `json:"rating"`
	Positions []string    `json:"positions"`
	Name      string      `json:"name"`
}

// DefaultCriteria returns the initial widget state. The default positions
// are restricted to those present in available, in available's order.
func DefaultCriteria(available []string) Criteria {
	positions := make([]string, 0, len(DefaultPositions))
	for _, p := range available {
		if slices.Contains(DefaultPositions, p) {
			positions = append(positions, p)
		}
	}

	return Criteria{
		Role:      player.FieldPlayer,
		Age:       AgeBounds,
		Rating:    RatingBounds,
		Positions: positions,
	}
}

// Normalize clamps both ranges to their declared bounds.
func (c Criteria) Normalize() Criteria {
	c.Age = c.Age.Clamp(AgeBounds)
	c.Rating = c.Rating.Clamp(RatingBounds)
	return c
}

// ParseCriteria builds criteria from form or query values. Absent or
// malformed fields keep their default. Positions are only taken from the
// request when the position parameter is present; an explicit empty
// selection is sent as a single empty value.
func ParseCriteria(q url.Values, available []string) Criteria {
	c := DefaultCriteria(available)

	if q.Has(ParamRole) {
		c.Role = player.ParseRole(q.Get(ParamRole))
	}
	c.Age.Min = intParam(q, ParamAgeMin, c.Age.Min)
	c.Age.Max = intParam(q, ParamAgeMax, c.Age.Max)
	c.Rating.Min = intParam(q, ParamRatingMin, c.Rating.Min)
	c.Rating.Max = intParam(q, ParamRatingMax, c.Rating.Max)

	if q.Has(ParamPosition) {
		c.Positions = []string{}
		for _, p := range q[ParamPosition] {
			if p = strings.TrimSpace(p); p != "" && !slices.Contains(c.Positions, p) {
				c.Positions = append(c.Positions, p)
			}
		}
	}

	c.Name = q.Get(ParamName)

	return c.Normalize()
}

// Values encodes c so that ParseCriteria(c.Values(), ...) yields c again.
func (c Criteria) Values() url.Values {
	q := url.Values{}
	q.Set(ParamRole, c.Role.Key())
	q.Set(ParamAgeMin, strconv.Itoa(c.Age.Min))
	q.Set(ParamAgeMax, strconv.Itoa(c.Age.Max))
	q.Set(ParamRatingMin, strconv.Itoa(c.Rating.Min))
	q.Set(ParamRatingMax, strconv.Itoa(c.Rating.Max))

	if len(c.Positions) == 0 {
		q.Set(ParamPosition, "")
	}
	for _, p := range c.Positions {
		q.Add(ParamPosition, p)
	}

	if c.Name != "" {
		q.Set(ParamName, c.Name)
	}
	return q
}

func intParam(q url.Values, key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return fallback
	}
	return v
}
