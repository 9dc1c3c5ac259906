package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/kaleidoid/internal/config"
	"github.com/kozaktomas/kaleidoid/internal/database"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage and recognition statistics",
	Long: `Prints counts of people, photos and vectors, plus per-person
recognition session stats over the last days.

Example:
  kaleidoid stats --days 30`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int("days", 7, "Session stats window in days")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := connectStorage(cfg, false); err != nil {
		return err
	}

	ctx := context.Background()
	people, err := database.GetPersonWriter(ctx)
	if err != nil {
		return err
	}
	photos, err := database.GetPhotoWriter(ctx)
	if err != nil {
		return err
	}
	sessions, err := database.GetSessionWriter(ctx)
	if err != nil {
		return err
	}

	peopleCount, err := people.CountPeople(ctx)
	if err != nil {
		return fmt.Errorf("failed to count people: %w", err)
	}
	photoCount, err := photos.CountPhotos(ctx)
	if err != nil {
		return fmt.Errorf("failed to count photos: %w", err)
	}
	vectorCount, err := photos.CountVectors(ctx)
	if err != nil {
		return fmt.Errorf("failed to count vectors: %w", err)
	}
	sessionCount, err := sessions.CountSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to count sessions: %w", err)
	}

	fmt.Printf("People:   %d\n", peopleCount)
	fmt.Printf("Photos:   %d (%d with vectors)\n", photoCount, vectorCount)
	fmt.Printf("Sessions: %d\n", sessionCount)

	days := mustGetInt(cmd, "days")
	stats, err := sessions.SessionStats(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to get session stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Printf("\nNo recognitions in the last %d day(s)\n", days)
		return nil
	}

	fmt.Printf("\nRecognitions in the last %d day(s):\n", days)
	for _, s := range stats {
		fmt.Printf("  %-30s %4d match(es), avg score %.3f, last seen %s\n",
			s.DisplayName, s.Sessions, s.AvgScore, s.LastSeen.Format("2006-01-02 15:04"))
	}
	return nil
}
