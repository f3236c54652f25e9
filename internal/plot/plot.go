// Package plot turns filtered explorer rows into a scatter chart of actual
// versus predicted market value, one legend group per valuation label.
package plot

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"value-scout/internal/explorer"
	"value-scout/internal/player"
)

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case PNG, SVG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported plot format %q", s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Options configures a scatter.
type Options struct {
	Width, Height int
	// AxisMax is the upper bound of both axes.
	AxisMax float64
	// Hidden legend groups are left out of the plot and the legend.
	Hidden map[player.Label]bool
}

// dotRadius gives markers 8px across, the dashboard's circle size.
const dotRadius = 4

// DefaultOptions matches the dashboard's original figure.
func DefaultOptions() Options {
	return Options{Width: 900, Height: 500, AxisMax: 26_000_000}
}

// Scatter builds the chart for rows. It always has at least one series so
// that an empty selection renders as bare axes.
func Scatter(rows []explorer.Row, opts Options) chart.Chart {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.AxisMax <= 0 {
		opts.AxisMax = def.AxisMax
	}

	var series []chart.Series
	for _, g := range visibleGroups(rows, opts.Hidden) {
		col := drawing.ColorFromHex(strings.TrimPrefix(g.label.Color(), "#"))
		s := chart.ContinuousSeries{
			Name: g.label.String(),
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				StrokeColor: col,
				DotWidth:    dotRadius,
				DotColor:    col,
			},
		}
		for _, r := range g.rows {
			s.XValues = append(s.XValues, r.ActualValue)
			s.YValues = append(s.YValues, r.PredictedValue)
		}
		series = append(series, s)
	}
	visible := len(series) > 0
	if !visible {
		// go-chart refuses to render without a visible series, so the
		// placeholder stays visible but has neither stroke nor dots.
		series = append(series, chart.ContinuousSeries{
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    chart.Disabled,
			},
			XValues: []float64{0, opts.AxisMax},
			YValues: []float64{0, opts.AxisMax},
		})
	}

	ch := chart.Chart{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           "Actual market value in €",
			Range:          &chart.ContinuousRange{Min: 0, Max: opts.AxisMax},
			ValueFormatter: Money,
		},
		YAxis: chart.YAxis{
			Name:           "Predicted market value in €",
			Range:          &chart.ContinuousRange{Min: 0, Max: opts.AxisMax},
			ValueFormatter: Money,
		},
		Series: series,
	}
	if visible {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	return ch
}

// Render writes the scatter for rows to w. SVG output carries a <title>
// per point so browsers show the hover tooltip.
func Render(w io.Writer, rows []explorer.Row, opts Options, format Format) error {
	ch := Scatter(rows, opts)

	if format != SVG {
		if err := ch.Render(chart.PNG, w); err != nil {
			return fmt.Errorf("rendering %s scatter: %w", format, err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return fmt.Errorf("rendering %s scatter: %w", format, err)
	}

	var points []explorer.Row
	for _, g := range visibleGroups(rows, opts.Hidden) {
		points = append(points, g.rows...)
	}
	_, err := w.Write(titleCircles(buf.Bytes(), points))
	return err
}

type group struct {
	label player.Label
	rows  []explorer.Row
}

// visibleGroups returns the non-empty, non-hidden label groups in legend
// order. Series and their dots are drawn in exactly this order.
func visibleGroups(rows []explorer.Row, hidden map[player.Label]bool) []group {
	var out []group
	for _, l := range player.Labels {
		if hidden[l] {
			continue
		}
		g := group{label: l}
		for _, r := range rows {
			if r.Label == l {
				g.rows = append(g.rows, r)
			}
		}
		if len(g.rows) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// titleCircles turns the i-th self-closing <circle/> into one holding the
// tooltip of points[i].
func titleCircles(svg []byte, points []explorer.Row) []byte {
	var out bytes.Buffer
	rest := svg
	for _, r := range points {
		i := bytes.Index(rest, []byte("<circle "))
		if i < 0 {
			break
		}
		j := bytes.Index(rest[i:], []byte("/>"))
		if j < 0 {
			break
		}
		out.Write(rest[:i+j])
		out.WriteString("><title>")
		out.WriteString(html.EscapeString(TooltipText(r)))
		out.WriteString("</title></circle>")
		rest = rest[i+j+2:]
	}
	out.Write(rest)
	return out.Bytes()
}

// Money formats a value with thousands separators and no decimals, like
// the "0,0" numeral format. It accepts the value types go-chart passes to
// axis formatters.
func Money(v interface{}) string {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return fmt.Sprint(v)
	}
	return humanize.Comma(int64(math.Round(f)))
}

// TooltipField is one line of a point's hover text.
type TooltipField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Tooltip returns the hover fields for a plotted row.
func Tooltip(r explorer.Row) []TooltipField {
	return []TooltipField{
		{"Name", r.Name},
		{"Age", fmt.Sprint(r.Age)},
		{"Main Position", r.Position},
		{"FIFA-Rating", fmt.Sprint(r.Overall)},
		{"Transfermarkt MV", Money(r.ActualValue)},
		{"Predicted MV", Money(r.PredictedValue)},
	}
}

// TooltipText joins the tooltip fields into one line per field.
func TooltipText(r explorer.Row) string {
	var sb strings.Builder
	for i, f := range Tooltip(r) {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if i == 0 {
			sb.WriteString(f.Value)
			continue
		}
		sb.WriteString(f.Label + ": " + f.Value)
	}
	return sb.String()
}
