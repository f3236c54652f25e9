package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	_ "github.com/glebarez/go-sqlite"

	"value-scout/internal/player"
)

// Snapshot table names, one per role.
var tables = map[player.Role]string{
	player.FieldPlayer: "field_players",
	player.Goalkeeper:  "goalkeepers",
}

const schema = `
    CREATE TABLE IF NOT EXISTS %s (
      id INTEGER PRIMARY KEY AUTOINCREMENT,
      long_name TEXT NOT NULL,
      player_age INTEGER NOT NULL,
      overall INTEGER NOT NULL,
      main_position TEXT NOT NULL,
      geographical_continent TEXT NOT NULL DEFAULT '',
      actual_market_value REAL NOT NULL,
      predicted_market_value REAL NOT NULL,
      difference REAL NOT NULL,
      created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );`

// readOnlyDSN opens path as an SQLite URI in read-only mode, so a missing
// snapshot fails instead of being created empty.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}

func openDB(ctx context.Context, path string, readOnly bool) (*sql.DB, error) {
	dsn := path
	if readOnly {
		var err error
		if dsn, err = readOnlyDSN(path); err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return db, nil
}

// LoadSQLite reads both tables from a snapshot written by Seed.
func LoadSQLite(ctx context.Context, path string) (*Dataset, error) {
	db, err := openDB(ctx, path, true)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	field, err := queryTable(ctx, db, tables[player.FieldPlayer])
	if err != nil {
		return nil, fmt.Errorf("loading field players: %w", err)
	}

	gk, err := queryTable(ctx, db, tables[player.Goalkeeper])
	if err != nil {
		return nil, fmt.Errorf("loading goalkeepers: %w", err)
	}

	return New(field, gk), nil
}

func queryTable(ctx context.Context, db *sql.DB, table string) ([]player.Record, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
        SELECT long_name, player_age, overall, main_position, geographical_continent,
               actual_market_value, predicted_market_value, difference
        FROM %s
        ORDER BY id`, table))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var recs []player.Record
	for rows.Next() {
		var r player.Record
		if err := rows.Scan(
			&r.Name,
			&r.Age,
			&r.Overall,
			&r.Position,
			&r.Continent,
			&r.ActualValue,
			&r.PredictedValue,
			&r.Difference,
		); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", table, err)
	}
	return recs, nil
}

// Seed writes ds into the snapshot at path, replacing any rows already
// there. It runs in a single transaction.
func Seed(ctx context.Context, path string, ds *Dataset) error {
	db, err := openDB(ctx, path, false)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	for _, role := range player.Roles {
		table := tables[role]
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(schema, table)); err != nil {
			return fmt.Errorf("creating %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}

		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
            INSERT INTO %s (long_name, player_age, overall, main_position, geographical_continent,
                            actual_market_value, predicted_market_value, difference)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, table))
		if err != nil {
			return fmt.Errorf("preparing %s insert: %w", table, err)
		}

		for _, r := range ds.Records(role) {
			if _, err := stmt.ExecContext(ctx,
				r.Name, r.Age, r.Overall, r.Position, r.Continent,
				r.ActualValue, r.PredictedValue, r.Difference,
			); err != nil {
				stmt.Close()
				return fmt.Errorf("inserting %s into %s: %w", r.Name, table, err)
			}
		}
		stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
