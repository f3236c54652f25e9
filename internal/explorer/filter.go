package explorer

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"value-scout/internal/player"
)

// Row is the read-only projection handed to the renderers.
type Row struct {
	Name           string       `json:"name"`
	Age            int          `json:"age"`
	Overall        int          `json:"overall"`
	Position       string       `json:"main_position"`
	Continent      string       `json:"continent"`
	ActualValue    float64      `json:"actual_market_value"`
	PredictedValue float64      `json:"predicted_market_value"`
	Difference     float64      `json:"difference"`
	Label          player.Label `json:"valuation"`
}

// predicate keeps a record when it returns true.
type predicate func(player.Record) bool

// Filter applies c to records and projects the survivors. The result is
// never nil; an empty selection is a valid outcome.
func Filter(records []player.Record, c Criteria) []Row {
	preds := predicates(c)
	title := cases.Title(language.Und)

	rows := make([]Row, 0)
next:
	for _, r := range records {
		for _, keep := range preds {
			if !keep(r) {
				continue next
			}
		}
		rows = append(rows, project(r, title))
	}
	return rows
}

func predicates(c Criteria) []predicate {
	preds := []predicate{
		func(r player.Record) bool { return r.Role == c.Role },
		func(r player.Record) bool { return c.Age.Contains(r.Age) },
		func(r player.Record) bool { return c.Rating.Contains(r.Overall) },
	}

	if c.Role == player.Goalkeeper {
		preds = append(preds, func(r player.Record) bool { return r.Position == player.GoalkeeperPosition })
	} else {
		allowed := slices.Clone(c.Positions)
		preds = append(preds, func(r player.Record) bool { return slices.Contains(allowed, r.Position) })
	}

	// Literal case-folded substring match; the query is never a pattern.
	fold := cases.Fold()
	if q := fold.String(strings.TrimSpace(c.Name)); q != "" {
		preds = append(preds, func(r player.Record) bool { return strings.Contains(fold.String(r.Name), q) })
	}

	return preds
}

func project(r player.Record, title cases.Caser) Row {
	return Row{
		Name:           title.String(strings.ToLower(r.Name)),
		Age:            r.Age,
		Overall:        r.Overall,
		Position:       r.Position,
		Continent:      r.Continent,
		ActualValue:    r.ActualValue,
		PredictedValue: r.PredictedValue,
		Difference:     r.Difference,
		Label:          r.Label,
	}
}

// Summary counts rows per label, in legend order.
type Summary []LabelCount

// LabelCount is one legend entry.
type LabelCount struct {
	Label player.Label `json:"label"`
	Key   string       `json:"key"`
	Color string       `json:"color"`
	Count int          `json:"count"`
}

// Summarize counts rows per label. Every label is present, including those
// with no rows.
func Summarize(rows []Row) Summary {
	counts := make(map[player.Label]int, len(player.Labels))
	for _, r := range rows {
		counts[r.Label]++
	}

	s := make(Summary, 0, len(player.Labels))
	for _, l := range player.Labels {
		s = append(s, LabelCount{Label: l, Key: l.Key(), Color: l.Color(), Count: counts[l]})
	}
	return s
}
