package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"value-scout/internal/player"
)

// Column names of the model export.
const (
	colName       = "long_name"
	colAge        = "player_age"
	colOverall    = "overall"
	colPosition   = "main_position"
	colContinent  = "geographical_continent"
	colActual     = "actual_market_value"
	colPredicted  = "predicted_market_value"
	colDifference = "difference"
)

var requiredColumns = []string{colName, colAge, colOverall, colPosition, colContinent, colActual, colPredicted}

// LoadCSV reads both tables from CSV files. Any failure aborts the load.
func LoadCSV(fieldPath, goalkeeperPath string) (*Dataset, error) {
	field, err := readCSVFile(fieldPath)
	if err != nil {
		return nil, fmt.Errorf("loading field players: %w", err)
	}

	gk, err := readCSVFile(goalkeeperPath)
	if err != nil {
		return nil, fmt.Errorf("loading goalkeepers: %w", err)
	}

	return New(field, gk), nil
}

func readCSVFile(path string) ([]player.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ReadCSV parses one role table. A leading unnamed index column is ignored.
// When the difference column is absent it is derived as predicted - actual.
func ReadCSV(r io.Reader) ([]player.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}
	diffCol, hasDiff := idx[colDifference]

	var recs []player.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		p := rowParser{row: row, idx: idx, line: line}
		rec := player.Record{
			Name:           p.str(colName),
			Age:            p.int(colAge),
			Overall:        p.int(colOverall),
			Position:       p.str(colPosition),
			Continent:      p.str(colContinent),
			ActualValue:    p.float(colActual),
			PredictedValue: p.float(colPredicted),
		}
		if hasDiff {
			rec.Difference = p.floatAt(colDifference, diffCol)
		} else {
			rec.Difference = rec.PredictedValue - rec.ActualValue
		}
		if p.err != nil {
			return nil, p.err
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

// rowParser keeps the first conversion error of a row.
type rowParser struct {
	row  []string
	idx  map[string]int
	line int
	err  error
}

func (p *rowParser) str(col string) string {
	return strings.TrimSpace(p.row[p.idx[col]])
}

func (p *rowParser) int(col string) int {
	s := p.str(col)
	v, err := strconv.Atoi(s)
	if err != nil {
		// Integer columns sometimes come out of pandas as "27.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			p.fail(col, s)
			return 0
		}
		v = int(f)
	}
	return v
}

func (p *rowParser) float(col string) float64 {
	return p.floatAt(col, p.idx[col])
}

func (p *rowParser) floatAt(col string, i int) float64 {
	s := strings.TrimSpace(p.row[i])
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(col, s)
		return 0
	}
	return v
}

func (p *rowParser) fail(col, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("line %d: column %q: invalid number %q", p.line, col, value)
	}
}
