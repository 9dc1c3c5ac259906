package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/kaleidoid/internal/config"
	"github.com/kozaktomas/kaleidoid/internal/database"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old recognition sessions",
	Long: `Deletes recognition sessions older than the retention window.
Run periodically (e.g. from cron) to keep the session log bounded.

Example:
  kaleidoid cleanup --days 90`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().Int("days", 90, "Delete sessions older than this many days")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	days := mustGetInt(cmd, "days")
	if days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	cfg := config.Load()
	if err := connectStorage(cfg, false); err != nil {
		return err
	}

	ctx := context.Background()
	sessions, err := database.GetSessionWriter(ctx)
	if err != nil {
		return err
	}

	removed, err := sessions.CleanupSessions(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to clean up sessions: %w", err)
	}

	fmt.Printf("Removed %d session(s) older than %d day(s)\n", removed, days)
	return nil
}
