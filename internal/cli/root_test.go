package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sigsyaml "sigs.k8s.io/yaml"

	"value-scout/internal/player"
)

// executeCommand runs the CLI with the given args and captures both
// stdout and stderr.
func executeCommand(args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()

	return outBuf.String(), errBuf.String(), err
}

const fieldCSV = `,long_name,player_age,overall,main_position,geographical_continent,actual_market_value,predicted_market_value,difference
0,virgil van dijk,28,90,Centre Back,Europe,80000000,82000000,2000000
1,erling braut haaland,19,80,Striker,Europe,45000000,52000000,7000000
2,lionel andrés messi cuccittini,32,94,Right Winger,South America,95000000,80000000,-15000000
3,sergio busquets burgos,31,89,Defensive Midfield,Europe,25000000,24500000,-500000
`

const goalkeeperCSV = `,long_name,player_age,overall,main_position,geographical_continent,actual_market_value,predicted_market_value,difference
0,jan oblak,26,91,Torwart,Europe,100000000,90000000,-10000000
1,alisson ramses becker,27,89,Goalkeeper,South America,72000000,73000000,1000000
`

// fixtures writes both CSV exports and returns the data source flags.
func fixtures(t *testing.T) []string {
	t.Helper()

	dir := t.TempDir()
	fp := filepath.Join(dir, "fp.csv")
	gk := filepath.Join(dir, "gk.csv")
	require.NoError(t, os.WriteFile(fp, []byte(fieldCSV), 0o600))
	require.NoError(t, os.WriteFile(gk, []byte(goalkeeperCSV), 0o600))

	return []string{"--field-csv", fp, "--goalkeeper-csv", gk}
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.Code)
}

// ---------------------------------------------------------------------------
// Root
// ---------------------------------------------------------------------------

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	require.NoError(t, err)

	for _, sub := range []string{"serve", "query", "seed", "version"} {
		assert.Contains(t, stdout, sub, "help should mention %q subcommand", sub)
	}

	for _, flag := range []string{"--config", "--log-level", "--log-format", "--quiet", "--field-csv", "--goalkeeper-csv", "--sqlite"} {
		assert.Contains(t, stdout, flag, "help should mention %q flag", flag)
	}
}

func TestRootCommand_UnknownFlag(t *testing.T) {
	_, stderr, err := executeCommand("--nonexistent")
	require.Error(t, err)
	requireExitCode(t, err, 2)
	assert.Empty(t, stderr)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, _, err := executeCommand("--config", "/nonexistent/path.yaml", "query")
	require.Error(t, err)
	requireExitCode(t, err, 2)
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	args := append(fixtures(t), "--log-level", "verbose", "query")
	_, _, err := executeCommand(args...)
	require.Error(t, err)
	requireExitCode(t, err, 2)
}

func TestExitError(t *testing.T) {
	e := &ExitError{Code: 3}
	assert.Equal(t, "exit code 3", e.Error())
	assert.Nil(t, e.Unwrap())
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCommand("version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "value-scout "))
}

func TestVersionCommand_JSON(t *testing.T) {
	stdout, _, err := executeCommand("version", "--json")
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Contains(t, out, "version")
}

// ---------------------------------------------------------------------------
// query
// ---------------------------------------------------------------------------

func TestQueryCommand_DefaultsTable(t *testing.T) {
	args := append(fixtures(t), "query")
	stdout, _, err := executeCommand(args...)
	require.NoError(t, err)

	// Default positions are Centre Back, Defensive Midfield and Striker.
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "Virgil Van Dijk")
	assert.Contains(t, stdout, "Erling Braut Haaland")
	assert.Contains(t, stdout, "80,000,000")
	assert.NotContains(t, stdout, "Messi")
	assert.Contains(t, stdout, "3 players")
}

func TestQueryCommand_JSON(t *testing.T) {
	args := append(fixtures(t), "query", "--name", "MESSI", "--position", "Right Winger", "--format", "json")
	stdout, _, err := executeCommand(args...)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Lionel Andrés Messi Cuccittini", rows[0]["name"])
	assert.Equal(t, player.HighlyOvervalued.String(), rows[0]["valuation"])
}

func TestQueryCommand_Goalkeepers(t *testing.T) {
	// Position selection does not apply to goalkeepers.
	args := append(fixtures(t), "query", "--role", "gk", "--position", "Striker", "-o", "json")
	stdout, _, err := executeCommand(args...)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.Equal(t, player.GoalkeeperPosition, r["main_position"])
	}
}

func TestQueryCommand_EmptyResult(t *testing.T) {
	args := append(fixtures(t), "query", "--age-min", "39", "--format", "json")
	stdout, _, err := executeCommand(args...)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
}

func TestQueryCommand_CSV(t *testing.T) {
	args := append(fixtures(t), "query", "--rating-min", "85", "--format", "csv")
	stdout, _, err := executeCommand(args...)
	require.NoError(t, err)

	recs, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "name", recs[0][0])
	assert.Equal(t, "Virgil Van Dijk", recs[1][0])
	assert.Equal(t, "Undervalued by FIFA20", recs[1][8])
	assert.Equal(t, "Sergio Busquets Burgos", recs[2][0])
}

func TestQueryCommand_YAML(t *testing.T) {
	args := append(fixtures(t), "query", "--name", "van dijk", "--format", "yaml")
	stdout, _, err := executeCommand(args...)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, sigsyaml.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Virgil Van Dijk", rows[0]["name"])
}

func TestQueryCommand_InvalidFormat(t *testing.T) {
	args := append(fixtures(t), "query", "--format", "xml")
	_, _, err := executeCommand(args...)
	require.Error(t, err)
	requireExitCode(t, err, 2)
}

func TestQueryCommand_NoDataSource(t *testing.T) {
	_, _, err := executeCommand("query")
	require.Error(t, err)
	requireExitCode(t, err, 2)
}

func TestQueryCommand_MissingFile(t *testing.T) {
	_, _, err := executeCommand("query", "--field-csv", "/nonexistent/fp.csv", "--goalkeeper-csv", "/nonexistent/gk.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading field players")

	var exitErr *ExitError
	assert.NotErrorAs(t, err, &exitErr)
}

// ---------------------------------------------------------------------------
// seed
// ---------------------------------------------------------------------------

func TestSeedThenQuerySQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "players.db")

	args := append(fixtures(t), "seed", "--out", db)
	stdout, _, err := executeCommand(args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "4 field players, 2 goalkeepers")

	stdout, _, err = executeCommand("--sqlite", db, "query", "--role", "gk", "--format", "json")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Jan Oblak", rows[0]["name"])
	assert.Equal(t, player.HighlyOvervalued.String(), rows[0]["valuation"])
}

func TestSeedCommand_RequiresOut(t *testing.T) {
	args := append(fixtures(t), "seed")
	_, _, err := executeCommand(args...)
	require.Error(t, err)
	requireExitCode(t, err, 2)
}

func TestSeedCommand_RequiresCSV(t *testing.T) {
	_, _, err := executeCommand("seed", "--out", filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
	requireExitCode(t, err, 2)
}
