package templates

import "value-scout/internal/explorer"

// ExplorerPageData is everything the explorer page renders for one request.
type ExplorerPageData struct {
	Criteria  explorer.Criteria
	Positions []string
	Legend    []LegendEntry
	Rows      []RowView
	// PlotURL and PNGURL point at the image routes with the same selection.
	PlotURL string
	PNGURL  string
}

// LegendEntry is one toggleable valuation group.
type LegendEntry struct {
	Key    string
	Text   string
	Color  string
	Count  int
	Hidden bool
}

// RowView is a table row with its values preformatted.
type RowView struct {
	Name       string
	Age        int
	Overall    int
	Position   string
	Continent  string
	Actual     string
	Predicted  string
	Difference string
	Label      string
	Color      string
	Tooltip    string
}
