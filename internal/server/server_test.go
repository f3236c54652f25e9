package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"value-scout/internal/dataset"
	"value-scout/internal/player"
)

func testDataset() *dataset.Dataset {
	return dataset.New(
		[]player.Record{
			{Name: "virgil van dijk", Age: 28, Overall: 90, Position: "Centre Back", Continent: "Europe", ActualValue: 20_000_000, PredictedValue: 22_000_000, Difference: 2_000_000},
			{Name: "erling braut haaland", Age: 19, Overall: 80, Position: "Striker", Continent: "Europe", ActualValue: 4_500_000, PredictedValue: 12_000_000, Difference: 7_500_000},
			{Name: "lionel messi", Age: 32, Overall: 94, Position: "Right Winger", Continent: "South America", ActualValue: 25_000_000, PredictedValue: 19_000_000, Difference: -6_000_000},
		},
		[]player.Record{
			{Name: "jan oblak", Age: 26, Overall: 91, Position: "Torwart", Continent: "Europe", ActualValue: 20_000_000, PredictedValue: 17_000_000, Difference: -3_000_000},
		},
	)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(testDataset(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

type playersEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Count   int `json:"count"`
		Summary []struct {
			Key   string `json:"key"`
			Count int    `json:"count"`
		} `json:"summary"`
		Rows []struct {
			Name      string `json:"name"`
			Position  string `json:"main_position"`
			Valuation string `json:"valuation"`
			Tooltip   []struct {
				Label string `json:"label"`
				Value string `json:"value"`
			} `json:"tooltip"`
		} `json:"rows"`
		Criteria struct {
			Role      string   `json:"role"`
			Positions []string `json:"positions"`
		} `json:"criteria"`
	} `json:"data"`
}

func getPlayers(t *testing.T, s *Server, q url.Values) playersEnvelope {
	t.Helper()

	rec := get(t, s, "/api/players?"+q.Encode())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env playersEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return env
}

func TestPlayers_Defaults(t *testing.T) {
	env := getPlayers(t, newTestServer(t), url.Values{})

	assert.Equal(t, 2, env.Data.Count)
	require.Len(t, env.Data.Rows, 2)
	assert.Equal(t, "Virgil Van Dijk", env.Data.Rows[0].Name)
	assert.Equal(t, "Undervalued by FIFA20", env.Data.Rows[0].Valuation)
	assert.Equal(t, "Erling Braut Haaland", env.Data.Rows[1].Name)
	assert.Equal(t, "fp", env.Data.Criteria.Role)
	assert.Equal(t, []string{"Centre Back", "Striker"}, env.Data.Criteria.Positions)

	require.Len(t, env.Data.Rows[0].Tooltip, 6)
	assert.Equal(t, "20,000,000", env.Data.Rows[0].Tooltip[4].Value)
	assert.Len(t, env.Data.Summary, len(player.Labels))
}

func TestPlayers_Goalkeepers(t *testing.T) {
	env := getPlayers(t, newTestServer(t), url.Values{"role": {"gk"}, "position": {"Striker"}})

	require.Equal(t, 1, env.Data.Count)
	assert.Equal(t, "Jan Oblak", env.Data.Rows[0].Name)
	assert.Equal(t, "Goalkeeper", env.Data.Rows[0].Position)
	assert.Equal(t, "Highly Overvalued by FIFA20", env.Data.Rows[0].Valuation)
}

func TestPlayers_EmptyResultIsOK(t *testing.T) {
	env := getPlayers(t, newTestServer(t), url.Values{"name": {"nobody"}})

	assert.Equal(t, 0, env.Data.Count)
	assert.NotNil(t, env.Data.Rows)
	assert.Empty(t, env.Data.Rows)
}

func TestPlayers_NameSearch(t *testing.T) {
	s := newTestServer(t)
	q := url.Values{"position": {"Right Winger"}}

	var counts []int
	for _, name := range []string{" MESSI ", "messi", "Messi"} {
		q.Set("name", name)
		counts = append(counts, getPlayers(t, s, q).Data.Count)
	}
	assert.Equal(t, []int{1, 1, 1}, counts)
}

func TestPositions(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/positions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"code":0,"message":"ok","data":["Centre Back","Striker","Right Winger"]}`, rec.Body.String())
}

func TestHome(t *testing.T) {
	rec := get(t, newTestServer(t), "/?hide=undervalued&name=van")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "FIFA Dashboard")
	assert.Contains(t, body, "Virgil Van Dijk")
	assert.NotContains(t, body, "Erling Braut Haaland")
	assert.Contains(t, body, `title="Virgil Van Dijk`)
	assert.Contains(t, body, `data="/plot.svg?`)
	assert.Contains(t, body, `href="/plot.png?`)
	assert.Contains(t, body, "hide=undervalued")
	assert.Contains(t, body, `value="undervalued" checked`)
	assert.Contains(t, body, `<input type="radio" name="role" value="fp" checked>`)
	assert.Contains(t, body, `<input type="radio" name="role" value="gk">`)
	assert.Contains(t, body, `<option value="Right Winger">`)
	assert.Contains(t, body, `<option value="Centre Back" selected>`)
}

func TestHome_EscapesQuery(t *testing.T) {
	rec := get(t, newTestServer(t), "/?name="+url.QueryEscape(`"><script>`))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, `"><script>`)
	assert.Contains(t, body, `value="&#34;&gt;&lt;script&gt;"`)
	assert.Contains(t, body, `id="no-results"`)
}

func TestHome_LegendMarksHiddenGroups(t *testing.T) {
	rec := get(t, newTestServer(t), "/?hide=highly_undervalued")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, " data-hidden>"))
	assert.Contains(t, body, `fill="#2E8B57"`)
}

func TestPlot(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/plot.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = get(t, s, "/plot.svg?name=nobody")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestPlot_EmptySelectionsRender(t *testing.T) {
	s := newTestServer(t)

	hideAll := url.Values{}
	for _, l := range player.Labels {
		hideAll.Add(ParamHide, l.Key())
	}

	for _, target := range []string{
		"/plot.png?name=zzz",
		"/plot.png?position=",
		"/plot.png?" + hideAll.Encode(),
		"/plot.svg?" + hideAll.Encode(),
	} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.NotEmpty(t, rec.Body.Bytes(), target)
	}
}

func TestPlot_SVGHasPointTooltips(t *testing.T) {
	rec := get(t, newTestServer(t), "/plot.svg")
	require.Equal(t, http.StatusOK, rec.Code)

	// Defaults select van Dijk and Haaland.
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "<title>"))
	assert.Contains(t, rec.Body.String(), "<title>Virgil Van Dijk\n")

	rec = get(t, s, "/plot.gif")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/healthz")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	s := New(testDataset(), slog.New(slog.NewJSONHandler(&buf, nil)))

	get(t, s, "/plot.gif")
	assert.Contains(t, buf.String(), `"path":"/plot.gif"`)
	assert.Contains(t, buf.String(), `"status":404`)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/", "/plot.png", "/api/players", "/api/positions", "/healthz"} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, target)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer(t).Serve(ctx, ln, time.Second) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
