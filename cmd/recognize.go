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

var recognizeCmd = &cobra.Command{
	Use:   "recognize [image-file]",
	Short: "Recognize faces in an image",
	Long: `Runs a single image through the recognition pipeline and prints
one line per detected face.

Example:
  kaleidoid recognize frame.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)
}

func runRecognize(cmd *cobra.Command, args []string) error {
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

	outcomes, err := engine.Pipeline.RecognizeAll(ctx, img)
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}

	if len(outcomes) == 0 {
		fmt.Println("No faces detected")
		return nil
	}

	for i, o := range outcomes {
		if o.Matched {
			fmt.Printf("Face %d at (%d,%d) %dx%d: %s (score %.3f)\n",
				i+1, o.X, o.Y, o.Width, o.Height, o.DisplayName, o.Score)
		} else {
			fmt.Printf("Face %d at (%d,%d) %dx%d: unknown (best score %.3f)\n",
				i+1, o.X, o.Y, o.Width, o.Height, o.Score)
		}
	}
	return nil
}
