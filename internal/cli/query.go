package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"value-scout/internal/config"
	"value-scout/internal/explorer"
	"value-scout/internal/plot"
)

// queryFlags maps command flags onto the explorer's query parameters.
var queryFlags = []struct {
	flag, param, usage string
}{
	{"role", explorer.ParamRole, "fp (field players) or gk (goalkeepers)"},
	{"age-min", explorer.ParamAgeMin, "minimum age (18-40)"},
	{"age-max", explorer.ParamAgeMax, "maximum age (18-40)"},
	{"rating-min", explorer.ParamRatingMin, "minimum overall rating (45-99)"},
	{"rating-max", explorer.ParamRatingMax, "maximum overall rating (45-99)"},
	{"name", explorer.ParamName, "case-insensitive name substring"},
}

func newQueryCommand() *cobra.Command {
	var (
		positions []string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter the dataset once and print the rows",
		Long: `Query runs the same filter as the explorer page and prints the
resulting rows. Omitted filters keep the page defaults.`,
		Example: `  value-scout query --field-csv fp.csv --goalkeeper-csv gk.csv --name messi --position "Right Winger"
  value-scout query --sqlite players.db --role gk --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case "table", "csv", "json", "yaml":
			default:
				return &ExitError{Code: 2, Err: fmt.Errorf("invalid format %q: must be one of table, csv, json, yaml", format)}
			}

			ctx := cmd.Context()
			ds, err := loadDataset(ctx, config.FromContext(ctx))
			if err != nil {
				return err
			}

			q := url.Values{}
			for _, qf := range queryFlags {
				if cmd.Flags().Changed(qf.flag) {
					v, _ := cmd.Flags().GetString(qf.flag)
					q.Set(qf.param, v)
				}
			}
			if cmd.Flags().Changed("position") {
				q[explorer.ParamPosition] = append([]string{""}, positions...)
			}

			c := explorer.ParseCriteria(q, ds.Positions())
			rows := explorer.Filter(ds.Records(c.Role), c)

			return writeRows(cmd.OutOrStdout(), rows, format)
		},
	}

	f := cmd.Flags()
	for _, qf := range queryFlags {
		f.String(qf.flag, "", qf.usage)
	}
	f.StringArrayVar(&positions, "position", nil, "allowed field player position (repeatable)")
	f.StringVarP(&format, "format", "o", "table", "output format: table, csv, json, yaml")

	return cmd
}

func writeRows(w io.Writer, rows []explorer.Row, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		b, err := sigsyaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("marshaling rows: %w", err)
		}
		_, err = w.Write(b)
		return err
	case "csv":
		return writeCSV(w, rows)
	default:
		return writeTable(w, rows)
	}
}

var rowHeader = []string{"name", "age", "overall", "main_position", "continent", "actual_market_value", "predicted_market_value", "difference", "valuation"}

func writeCSV(w io.Writer, rows []explorer.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rowHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Name,
			strconv.Itoa(r.Age),
			strconv.Itoa(r.Overall),
			r.Position,
			r.Continent,
			strconv.FormatFloat(r.ActualValue, 'f', -1, 64),
			strconv.FormatFloat(r.PredictedValue, 'f', -1, 64),
			strconv.FormatFloat(r.Difference, 'f', -1, 64),
			r.Label.String(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeTable(w io.Writer, rows []explorer.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tAGE\tRATING\tPOSITION\tACTUAL\tPREDICTED\tVALUATION")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			r.Name, r.Age, r.Overall, r.Position,
			plot.Money(r.ActualValue), plot.Money(r.PredictedValue), r.Label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d players\n", len(rows))
	return err
}
