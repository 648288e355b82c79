package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/learning-progress-tracker/internal/app"
	"github.com/aliskhannn/learning-progress-tracker/internal/service"
)

var reconcileAll bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute cached stats and report sessions whose cache drifted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		svc := app.NewServices(rt.cfg, rt.store, rt.logger)
		reconciler := svc.Reconcile
		if reconcileAll {
			reconciler = service.NewReconcileService(rt.store.Sessions, rt.store.Transactor, svc.Stats, "", 0, rt.logger)
		}

		summary, err := reconciler.RunOnce(ctx)
		if err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "scanned %d sessions, corrected %d, failed %d\n",
			summary.Scanned, summary.Drifted, summary.Failed)
		if summary.Failed > 0 {
			return fmt.Errorf("%d sessions failed to reconcile", summary.Failed)
		}
		return nil
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileAll, "all", false, "rescan every session instead of the lookback window")
	rootCmd.AddCommand(reconcileCmd)
}
