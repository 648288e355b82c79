package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		if err := rt.store.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		rt.logger.Info("schema applied", zap.String("driver", rt.cfg.DB.Driver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
