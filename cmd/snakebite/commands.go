package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"snakebite-dashboard/internal/api"
	"snakebite-dashboard/internal/model"
	"snakebite-dashboard/internal/pipeline"
	"snakebite-dashboard/pkg/utils"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return api.Serve(cmd.Context(), a.cfg)
		},
	}
}

func (a *app) newImportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import cases from a CSV or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			fmtName := pipeline.Format(strings.ToLower(format))
			if format == "" {
				fmtName = pipeline.FormatCSV
				if strings.EqualFold(filepath.Ext(path), ".json") {
					fmtName = pipeline.FormatJSON
				}
			}
			if fmtName != pipeline.FormatCSV && fmtName != pipeline.FormatJSON {
				return fmt.Errorf("invalid --format %q: want csv or json", format)
			}

			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := pipeline.NewImporter(db, a.cfg.BatchSize).ImportFormat(cmd.Context(), f, fmtName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Imported %d rows in %d batches (%d rejected, %d skipped) [%s]\n",
				result.Inserted, result.Batches, result.Rejected, result.Skipped, result.ImportID)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Input format: csv or json (default: by file extension)")
	return cmd
}

// tableOptions are the search and sort flags shared by list and export.
type tableOptions struct {
	query string
	sort  string
	desc  bool
}

func (o *tableOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.query, "query", "q", "", "Case-insensitive search across all columns")
	cmd.Flags().StringVar(&o.sort, "sort", "", "Column key to sort by, e.g. Date or Snake_Type")
	cmd.Flags().BoolVar(&o.desc, "desc", false, "Sort descending")
}

func (o *tableOptions) apply(cases []model.CaseRecord) ([]model.CaseRecord, error) {
	cases = pipeline.FilterCases(cases, o.query)
	if o.sort == "" {
		return cases, nil
	}
	if err := pipeline.SortCases(cases, o.sort, o.desc); err != nil {
		return nil, err
	}
	return cases, nil
}

func (a *app) newExportCmd() *cobra.Command {
	var (
		opts tableOptions
		out  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cases to a dated CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			cases, err := db.ListCases(cmd.Context())
			if err != nil {
				return err
			}
			if cases, err = opts.apply(cases); err != nil {
				return err
			}

			if out == "-" {
				return pipeline.WriteCSV(cmd.OutOrStdout(), cases)
			}
			if out == "" {
				om := utils.NewOutputManager(a.cfg.ExportDir)
				if out, err = om.GetOutputFilePath("snakebite", time.Now()); err != nil {
					return err
				}
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := pipeline.WriteCSV(f, cases); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📄 Exported %d cases to %s\n", len(cases), out)
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, '-' for stdout (default: dated file in export_dir)")
	return cmd
}

func (a *app) newChartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chart [date|month|quarter]",
		Short: "Print chart points for a granularity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			group, ok := model.ParseGranularity(name)
			if !ok {
				return fmt.Errorf("unknown chart group %q", name)
			}

			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			var (
				events []model.DateEvent
				rows   []model.MonthlyAggregate
			)
			if group == model.GranularityDaily {
				events, err = db.CaseDates(cmd.Context())
			} else {
				rows, err = db.MonthlyAggregates(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printChart(cmd.OutOrStdout(), pipeline.ChartSeries(group, events, rows))
		},
	}
}

func printChart(w io.Writer, points []model.ChartPoint) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tCOUNT\tCUMULATIVE")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", p.Label(), p.Count(), p.Cumulative())
	}
	return tw.Flush()
}

func (a *app) newListCmd() *cobra.Command {
	var (
		opts  tableOptions
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print cases as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			cases, err := db.ListCases(cmd.Context())
			if err != nil {
				return err
			}
			if cases, err = opts.apply(cases); err != nil {
				return err
			}
			if limit > 0 && len(cases) > limit {
				cases = cases[:limit]
			}
			return printCases(cmd.OutOrStdout(), cases)
		},
	}
	opts.bind(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to print (0 for all)")
	return cmd
}

func printCases(w io.Writer, cases []model.CaseRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSEX\tAGE\tSNAKE TYPE\tSAV\tOUTCOME")
	for _, c := range cases {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			pipeline.FormatDateForDisplay(c.Date),
			orDash(c.Sex),
			orDash(c.Age),
			orDash(c.SnakeType),
			utils.FormatNumber(c.SAVVolume),
			orDash(c.Outcome),
		)
	}
	return tw.Flush()
}

func orDash[T any](p *T) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}
