package player

import "math"

// bucket is one step of an ordered threshold table: a difference at or above
// Min maps to Label.
type bucket struct {
	Min   float64
	Label Label
}

// thresholds holds one table per role, highest bucket first. The final entry
// of each table is the open-ended catch-all below the previous bound.
var thresholds = map[Role][]bucket{
	FieldPlayer: {
		{5_000_000, HighlyUndervalued},
		{1_000_000, Undervalued},
		{-1_000_000, SimilarValuation},
		{-4_000_000, Overvalued},
		{math.Inf(-1), HighlyOvervalued},
	},
	Goalkeeper: {
		{2_500_000, HighlyUndervalued},
		{700_000, Undervalued},
		{-700_000, SimilarValuation},
		{-1_500_000, Overvalued},
		{math.Inf(-1), HighlyOvervalued},
	},
}

// Classify maps a residual (predicted minus actual market value) to its
// valuation label using the role's threshold table. Unknown roles use the
// field player table. NaN lands in the catch-all bucket.
func Classify(difference float64, role Role) Label {
	table, ok := thresholds[role]
	if !ok {
		table = thresholds[FieldPlayer]
	}
	for _, b := range table[:len(table)-1] {
		if difference >= b.Min {
			return b.Label
		}
	}
	return table[len(table)-1].Label
}

// ClassifyAll returns a copy of records with Role and Label set.
func ClassifyAll(records []Record, role Role) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.Role = role
		r.Label = Classify(r.Difference, role)
		out[i] = r
	}
	return out
}
