package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/kaleidoid/internal/config"
	"github.com/kozaktomas/kaleidoid/internal/database"
)

var thresholdCmd = &cobra.Command{
	Use:   "threshold [value]",
	Short: "Show or set the recognition threshold",
	Long: `Without an argument, prints the active recognition threshold.
With a value in (0, 1], persists it as the new threshold.

A face only matches when its similarity score reaches the threshold;
lower values accept weaker matches, higher values reject more.

Examples:
  kaleidoid threshold
  kaleidoid threshold 0.8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runThreshold,
}

func init() {
	rootCmd.AddCommand(thresholdCmd)
}

func runThreshold(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := connectStorage(cfg, false); err != nil {
		return err
	}

	ctx := context.Background()
	settings, err := database.GetSettingsStore(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		threshold := database.GetFloatSetting(ctx, settings,
			database.SettingRecognitionThreshold, cfg.Recognition.Threshold)
		fmt.Printf("Recognition threshold: %g\n", threshold)
		return nil
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid threshold %q", args[0])
	}
	if value <= 0 || value > 1 {
		return fmt.Errorf("threshold must be in (0, 1], got %g", value)
	}

	if err := database.SetFloatSetting(ctx, settings, database.SettingRecognitionThreshold, value); err != nil {
		return fmt.Errorf("failed to save threshold: %w", err)
	}
	fmt.Printf("Recognition threshold set to %g\n", value)
	return nil
}
