package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"value-scout/internal/player"
)

func fixture() []player.Record {
	fp := player.ClassifyAll([]player.Record{
		{Name: "lionel andrés messi cuccittini", Age: 32, Overall: 94, Position: "Right Winger", Continent: "South America", ActualValue: 140_000_000, PredictedValue: 120_000_000, Difference: -20_000_000},
		{Name: "virgil van dijk", Age: 28, Overall: 90, Position: "Centre Back", Continent: "Europe", ActualValue: 80_000_000, PredictedValue: 82_000_000, Difference: 2_000_000},
		{Name: "sergio busquets burgos", Age: 31, Overall: 89, Position: "Defensive Midfield", Continent: "Europe", ActualValue: 25_000_000, PredictedValue: 24_500_000, Difference: -500_000},
		{Name: "erling braut haaland", Age: 19, Overall: 80, Position: "Striker", Continent: "Europe", ActualValue: 45_000_000, PredictedValue: 52_000_000, Difference: 7_000_000},
		{Name: "kwame (k)* mensah", Age: 40, Overall: 45, Position: "Striker", Continent: "Africa", ActualValue: 100_000, PredictedValue: 90_000, Difference: -10_000},
	}, player.FieldPlayer)

	gk := player.ClassifyAll([]player.Record{
		{Name: "jan oblak", Age: 26, Overall: 91, Position: "Goalkeeper", Continent: "Europe", ActualValue: 100_000_000, PredictedValue: 90_000_000, Difference: -10_000_000},
		{Name: "marc-andré ter stegen", Age: 27, Overall: 90, Position: "Goalkeeper", Continent: "Europe", ActualValue: 90_000_000, PredictedValue: 90_500_000, Difference: 500_000},
	}, player.Goalkeeper)

	return append(fp, gk...)
}

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestFilter_DefaultCriteria(t *testing.T) {
	c := DefaultCriteria([]string{"Right Winger", "Centre Back", "Defensive Midfield", "Striker"})
	rows := Filter(fixture(), c)

	assert.Equal(t, []string{
		"Virgil Van Dijk",
		"Sergio Busquets Burgos",
		"Erling Braut Haaland",
		"Kwame (K)* Mensah",
	}, names(rows))
}

func TestFilter_Projection(t *testing.T) {
	c := DefaultCriteria(DefaultPositions)
	c.Name = "haaland"

	rows := Filter(fixture(), c)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "Erling Braut Haaland", r.Name)
	assert.Equal(t, 19, r.Age)
	assert.Equal(t, 80, r.Overall)
	assert.Equal(t, "Striker", r.Position)
	assert.Equal(t, "Europe", r.Continent)
	assert.InDelta(t, 45_000_000, r.ActualValue, 0)
	assert.InDelta(t, 52_000_000, r.PredictedValue, 0)
	assert.InDelta(t, 7_000_000, r.Difference, 0)
	assert.Equal(t, player.HighlyUndervalued, r.Label)
}

func TestFilter_DoesNotMutateSource(t *testing.T) {
	src := fixture()
	before := append([]player.Record(nil), src...)

	c := DefaultCriteria(DefaultPositions)
	_ = Filter(src, c)

	assert.Equal(t, before, src)
}

func TestFilter_Idempotent(t *testing.T) {
	c := DefaultCriteria(DefaultPositions)
	c.Age = Range{Min: 20, Max: 35}
	c.Name = "o"

	first := Filter(fixture(), c)
	second := Filter(fixture(), c)
	assert.Equal(t, first, second)
}

func TestFilter_NameCaseAndWhitespace(t *testing.T) {
	c := DefaultCriteria(nil)
	c.Positions = []string{"Right Winger"}

	var results [][]Row
	for _, q := range []string{" MESSI ", "messi", "Messi"} {
		c.Name = q
		results = append(results, Filter(fixture(), c))
	}

	require.Len(t, results[0], 1)
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, results[0], results[2])
}

func TestFilter_NameIsCaseFolded(t *testing.T) {
	recs := player.ClassifyAll([]player.Record{
		{Name: "kevin großkreutz", Age: 31, Overall: 70, Position: "Right Back"},
		{Name: "jérôme boateng", Age: 31, Overall: 82, Position: "Centre Back"},
	}, player.FieldPlayer)

	c := DefaultCriteria(nil)
	c.Positions = []string{"Right Back", "Centre Back"}

	for _, q := range []string{"GROSSKREUTZ", "grosskreutz", "Großkreutz", "ROß"} {
		c.Name = q
		rows := Filter(recs, c)
		require.Len(t, rows, 1, "query %q", q)
		assert.Equal(t, 31, rows[0].Age)
		assert.Equal(t, "Right Back", rows[0].Position)
	}

	c.Name = "JÉRÔME"
	assert.Len(t, Filter(recs, c), 1)
}

func TestFilter_NameIsLiteral(t *testing.T) {
	c := DefaultCriteria(DefaultPositions)

	c.Name = "(K)*"
	assert.Equal(t, []string{"Kwame (K)* Mensah"}, names(Filter(fixture(), c)))

	c.Name = ".*"
	assert.Empty(t, Filter(fixture(), c))

	c.Name = "["
	assert.Empty(t, Filter(fixture(), c))
}

func TestFilter_BlankNameDoesNotFilter(t *testing.T) {
	c := DefaultCriteria(DefaultPositions)
	all := Filter(fixture(), c)

	c.Name = "   "
	assert.Equal(t, all, Filter(fixture(), c))
}

func TestFilter_GoalkeepersIgnorePositions(t *testing.T) {
	c := DefaultCriteria(nil)
	c.Role = player.Goalkeeper
	c.Positions = []string{"Striker"}

	rows := Filter(fixture(), c)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, player.GoalkeeperPosition, r.Position)
	}

	c.Positions = nil
	assert.Len(t, Filter(fixture(), c), 2)
}

func TestFilter_GoalkeeperRoleRequiresGoalkeeperPosition(t *testing.T) {
	recs := player.ClassifyAll([]player.Record{
		{Name: "stray", Age: 25, Overall: 70, Position: "Torwart"},
	}, player.Goalkeeper)

	c := DefaultCriteria(nil)
	c.Role = player.Goalkeeper
	assert.Empty(t, Filter(recs, c))
}

func TestFilter_EmptyPositionsYieldsEmpty(t *testing.T) {
	c := DefaultCriteria(DefaultPositions)
	c.Positions = []string{}

	rows := Filter(fixture(), c)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestFilter_InclusiveRanges(t *testing.T) {
	c := DefaultCriteria(DefaultPositions)
	c.Age = Range{Min: 19, Max: 19}
	assert.Equal(t, []string{"Erling Braut Haaland"}, names(Filter(fixture(), c)))

	c = DefaultCriteria(DefaultPositions)
	c.Rating = Range{Min: 45, Max: 45}
	assert.Equal(t, []string{"Kwame (K)* Mensah"}, names(Filter(fixture(), c)))

	c = DefaultCriteria(DefaultPositions)
	c.Rating = Range{Min: 90, Max: 99}
	assert.Equal(t, []string{"Virgil Van Dijk"}, names(Filter(fixture(), c)))
}

func TestFilter_EmptyInput(t *testing.T) {
	rows := Filter(nil, DefaultCriteria(nil))
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSummarize(t *testing.T) {
	c := DefaultCriteria(nil)
	c.Positions = []string{"Right Winger", "Centre Back", "Defensive Midfield", "Striker"}
	s := Summarize(Filter(fixture(), c))

	require.Len(t, s, len(player.Labels))
	counts := map[player.Label]int{}
	for i, lc := range s {
		assert.Equal(t, player.Labels[i], lc.Label)
		counts[lc.Label] = lc.Count
	}
	assert.Equal(t, 1, counts[player.HighlyUndervalued])
	assert.Equal(t, 1, counts[player.Undervalued])
	assert.Equal(t, 2, counts[player.SimilarValuation])
	assert.Equal(t, 0, counts[player.Overvalued])
	assert.Equal(t, 1, counts[player.HighlyOvervalued])
}
