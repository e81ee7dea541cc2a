package main

import (
	"fmt"

	"github.com/healthtrack/backend/config"
	"github.com/healthtrack/backend/logging"
	"github.com/healthtrack/backend/services"
	"github.com/spf13/cobra"
)

var invalidateUserID uint

// invalidateCmd drops a user's cached dashboard, e.g. after a manual data fix.
var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop a user's cached dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if invalidateUserID == 0 {
			return fmt.Errorf("--user is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return err
		}
		store, closeStore, err := config.NewCacheStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		services.NewCacheInvalidator(store, log, nil, nil).InvalidateDashboard(cmd.Context(), invalidateUserID)
		fmt.Fprintf(cmd.OutOrStdout(), "Invalidated dashboard for user %d\n", invalidateUserID)
		return nil
	},
}

func init() {
	invalidateCmd.Flags().UintVar(&invalidateUserID, "user", 0, "User id")
	rootCmd.AddCommand(invalidateCmd)
}
