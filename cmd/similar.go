package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/kaleidoid/internal/config"
)

var similarCmd = &cobra.Command{
	Use:   "similar [image-file]",
	Short: "Find enrolled faces similar to an image",
	Long: `Extracts a feature vector from the primary face in the image and
lists the nearest enrolled faces by cosine distance. Unlike recognize
this applies no threshold; it always returns the closest candidates.

Example:
  kaleidoid similar visitor.jpg --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)

	similarCmd.Flags().Int("limit", 10, "Number of neighbors to return")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}

	cfg := config.Load()
	if err := connectStorage(cfg, false); err != nil {
		return err
	}

	ctx := context.Background()
	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	vec := engine.Pipeline.ExtractPrimary(ctx, img)
	if vec == nil {
		return fmt.Errorf("no usable face found in %s", args[0])
	}

	neighbors, err := engine.Neighbors.Search(vec, mustGetInt(cmd, "limit"))
	if err != nil {
		return fmt.Errorf("neighbor search failed: %w", err)
	}
	if len(neighbors) == 0 {
		fmt.Println("No enrolled faces to compare against")
		return nil
	}

	for i, n := range neighbors {
		fmt.Printf("%2d. %-30s photo %d, distance %.4f\n",
			i+1, n.Entry.DisplayName, n.Entry.PhotoID, n.Distance)
	}
	return nil
}
