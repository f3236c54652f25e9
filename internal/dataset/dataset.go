// Package dataset loads the field player and goalkeeper tables, either from
// the CSV exports of the valuation model or from a SQLite snapshot, and
// classifies every record once.
package dataset

import (
	"errors"
	"fmt"
	"slices"

	"value-scout/internal/player"
)

// ErrMissingColumn is returned when a source table lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// legacyGoalkeeperPosition is how the scraped source spells goalkeepers.
const legacyGoalkeeperPosition = "Torwart"

// Dataset is the classified pair of role tables. It is never modified after
// New returns, so it can be shared by concurrent requests without locking.
type Dataset struct {
	field      []player.Record
	goalkeeper []player.Record
	positions  []string
}

// New classifies both tables and returns the immutable dataset. The inputs
// are copied.
func New(field, goalkeepers []player.Record) *Dataset {
	gk := player.ClassifyAll(goalkeepers, player.Goalkeeper)
	for i := range gk {
		if gk[i].Position == legacyGoalkeeperPosition {
			gk[i].Position = player.GoalkeeperPosition
		}
	}

	fp := player.ClassifyAll(field, player.FieldPlayer)

	var positions []string
	for _, r := range fp {
		if !slices.Contains(positions, r.Position) {
			positions = append(positions, r.Position)
		}
	}

	return &Dataset{field: fp, goalkeeper: gk, positions: positions}
}

// Records returns the table for role. Callers must not modify it.
func (d *Dataset) Records(role player.Role) []player.Record {
	if role == player.Goalkeeper {
		return d.goalkeeper
	}
	return d.field
}

// Positions returns the distinct field player positions in first-seen order.
func (d *Dataset) Positions() []string {
	return slices.Clone(d.positions)
}

func (d *Dataset) String() string {
	return fmt.Sprintf("dataset(field=%d, goalkeepers=%d, positions=%d)",
		len(d.field), len(d.goalkeeper), len(d.positions))
}
