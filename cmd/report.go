package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/learning-progress-tracker/internal/app"
	"github.com/aliskhannn/learning-progress-tracker/internal/export"
)

var (
	reportSession string
	reportFrom    string
	reportTo      string
	reportXLSX    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the per-day progress of a session over a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		svc := app.NewServices(rt.cfg, rt.store, rt.logger)

		to := reportTo
		if to == "" {
			to = svc.Calendar.Today()
		}
		from := reportFrom
		if from == "" {
			from = to
		}

		report, err := svc.Reports.PeriodReport(ctx, reportSession, from, to)
		if err != nil {
			return err
		}

		if reportXLSX != "" {
			f, err := os.Create(reportXLSX)
			if err != nil {
				return fmt.Errorf("create %s: %w", reportXLSX, err)
			}
			defer f.Close()

			if err := export.WritePeriodReport(f, report); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d days to %s\n", report.TotalDays, reportXLSX)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tCONTENT\tTERMS\tQUIZ\tCORRECT\tTOTAL")
		for _, d := range report.PeriodData {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d%%\t%d\t%d\n", d.Date, d.ContentCount, d.TermCount, d.QuizScore, d.QuizCorrect, d.QuizTotal)
		}
		t := report.Totals()
		fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d%%\t%d\t%d\n", t.ContentCount, t.TermCount, t.QuizScore, t.QuizCorrect, t.QuizTotal)
		return w.Flush()
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportSession, "session", "", "session id")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first date, YYYY-MM-DD (default: --to)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last date, YYYY-MM-DD (default: today)")
	reportCmd.Flags().StringVar(&reportXLSX, "xlsx", "", "write the report to this Excel file instead of stdout")
	_ = reportCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(reportCmd)
}
