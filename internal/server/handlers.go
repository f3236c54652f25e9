package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"value-scout/internal/explorer"
	"value-scout/internal/logging"
	"value-scout/internal/player"
	"value-scout/internal/plot"
	"value-scout/templates"
)

// ParamHide lists legend groups to leave out of the plot.
const ParamHide = "hide"

type apiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PlayersResponse is the payload of /api/players.
type PlayersResponse struct {
	Criteria explorer.Criteria `json:"criteria"`
	Count    int               `json:"count"`
	Summary  explorer.Summary  `json:"summary"`
	Rows     []PlayerRow       `json:"rows"`
}

// PlayerRow is a result row with its hover tooltip.
type PlayerRow struct {
	explorer.Row
	Tooltip []plot.TooltipField `json:"tooltip"`
}

// selection runs the filter pipeline for the request's query.
func (s *Server) selection(q url.Values) (explorer.Criteria, []explorer.Row) {
	c := explorer.ParseCriteria(q, s.data.Positions())
	return c, explorer.Filter(s.data.Records(c.Role), c)
}

func hiddenLabels(q url.Values) map[player.Label]bool {
	hidden := make(map[player.Label]bool)
	for _, key := range q[ParamHide] {
		if l, ok := player.ParseLabel(key); ok {
			hidden[l] = true
		}
	}
	return hidden
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, rows := s.selection(q)
	hidden := hiddenLabels(q)

	plotQuery := c.Values()
	for _, l := range player.Labels {
		if hidden[l] {
			plotQuery.Add(ParamHide, l.Key())
		}
	}

	data := templates.ExplorerPageData{
		Criteria:  c,
		Positions: s.data.Positions(),
		PlotURL:   "/plot.svg?" + plotQuery.Encode(),
		PNGURL:    "/plot.png?" + plotQuery.Encode(),
		Rows:      make([]templates.RowView, 0, len(rows)),
	}
	for _, lc := range explorer.Summarize(rows) {
		data.Legend = append(data.Legend, templates.LegendEntry{
			Key:    lc.Key,
			Text:   lc.Label.String(),
			Color:  lc.Color,
			Count:  lc.Count,
			Hidden: hidden[lc.Label],
		})
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, templates.RowView{
			Name:       row.Name,
			Age:        row.Age,
			Overall:    row.Overall,
			Position:   row.Position,
			Continent:  row.Continent,
			Actual:     plot.Money(row.ActualValue),
			Predicted:  plot.Money(row.PredictedValue),
			Difference: plot.Money(row.Difference),
			Label:      row.Label.String(),
			Color:      row.Label.Color(),
			Tooltip:    plot.TooltipText(row),
		})
	}

	templ.Handler(templates.Explorer(data)).ServeHTTP(w, r)
}

func (s *Server) plotHandler(w http.ResponseWriter, r *http.Request) {
	format, err := plot.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	_, rows := s.selection(q)

	opts := plot.DefaultOptions()
	opts.Hidden = hiddenLabels(q)

	var buf bytes.Buffer
	if err := plot.Render(&buf, rows, opts, format); err != nil {
		logging.FromContext(r.Context()).Error("plot render failed", slog.Any("error", err))
		http.Error(w, "Plot rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (s *Server) playersHandler(w http.ResponseWriter, r *http.Request) {
	c, rows := s.selection(r.URL.Query())

	resp := PlayersResponse{
		Criteria: c,
		Count:    len(rows),
		Summary:  explorer.Summarize(rows),
		Rows:     make([]PlayerRow, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, PlayerRow{Row: row, Tooltip: plot.Tooltip(row)})
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) positionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.data.Positions())
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Code: 0, Message: "ok", Data: data}); err != nil {
		logging.FromContext(r.Context()).Warn("writing response", slog.Any("error", err))
	}
}
