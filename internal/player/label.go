package player

import (
	"encoding/json"
	"fmt"
)

// Label is the ordinal valuation category derived from a record's residual.
// Lower values mean the model predicts a higher value than the market.
type Label int

const (
	HighlyUndervalued Label = iota
	Undervalued
	SimilarValuation
	Overvalued
	HighlyOvervalued
)

// Labels lists every label in legend order.
var Labels = []Label{HighlyUndervalued, Undervalued, SimilarValuation, Overvalued, HighlyOvervalued}

var labelInfo = [...]struct {
	text  string
	key   string
	color string
}{
	HighlyUndervalued: {"Highly Undervalued by FIFA20", "highly_undervalued", "#2E8B57"},
	Undervalued:       {"Undervalued by FIFA20", "undervalued", "#9ACD32"},
	SimilarValuation:  {"Similar Valuation", "similar", "#6495ED"},
	Overvalued:        {"Overvalued by FIFA20", "overvalued", "#FF7F50"},
	HighlyOvervalued:  {"Highly Overvalued by FIFA20", "highly_overvalued", "#800000"},
}

func (l Label) valid() bool { return l >= HighlyUndervalued && l <= HighlyOvervalued }

func (l Label) String() string {
	if !l.valid() {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelInfo[l].text
}

// Key is the stable identifier used in query strings and JSON.
func (l Label) Key() string {
	if !l.valid() {
		return ""
	}
	return labelInfo[l].key
}

// Color is the legend color as a hex string.
func (l Label) Color() string {
	if !l.valid() {
		return "#000000"
	}
	return labelInfo[l].color
}

// ParseLabel looks a label up by key.
func ParseLabel(key string) (Label, bool) {
	for _, l := range Labels {
		if labelInfo[l].key == key {
			return l, true
		}
	}
	return 0, false
}

func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}
