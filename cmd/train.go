package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/kaleidoid/internal/config"
	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/facevec"
	"github.com/kozaktomas/kaleidoid/internal/recognizer"
	"github.com/kozaktomas/kaleidoid/internal/vision"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Extract feature vectors for stored photos",
	Long: `Runs face detection and feature extraction over stored photos and
writes the vectors back to the database.

By default only photos without a vector are processed, so the command
can be stopped and resumed. Use --force to re-extract everything, for
example after changing the detection service.

Examples:
  # Extract vectors for photos that don't have one yet
  kaleidoid train

  # Re-extract all vectors with 3 workers
  kaleidoid train --force --concurrency 3`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().Bool("force", false, "Re-extract vectors for photos that already have one")
	trainCmd.Flags().Int("concurrency", 5, "Number of parallel workers")
}

func runTrain(cmd *cobra.Command, args []string) error {
	force := mustGetBool(cmd, "force")
	concurrency := mustGetInt(cmd, "concurrency")
	if concurrency < 1 {
		concurrency = 1
	}

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

	detector := vision.NewProvider(cfg.Vision.URL, cfg.Vision.MinConfidence)
	pipeline, err := recognizer.NewPipeline(detector, recognizer.NewGallery(), cfg.Recognition.Threshold)
	if err != nil {
		return err
	}

	list, err := people.ListPeople(ctx)
	if err != nil {
		return fmt.Errorf("failed to list people: %w", err)
	}

	var pending []int64
	total := 0
	for _, person := range list {
		personPhotos, err := photos.ListPhotos(ctx, person.ID)
		if err != nil {
			return fmt.Errorf("failed to list photos for person %d: %w", person.ID, err)
		}
		for _, photo := range personPhotos {
			total++
			if force || !photo.HasVector {
				pending = append(pending, photo.ID)
			}
		}
	}

	if len(pending) == 0 {
		fmt.Println("All photos already have vectors!")
		return nil
	}
	fmt.Printf("Photos to process: %d (of %d total)\n\n", len(pending), total)

	bar := progressbar.NewOptions(len(pending),
		progressbar.OptionSetDescription("Extracting vectors"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var successCount, noFaceCount, errorCount int
	var mu sync.Mutex

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, photoID := range pending {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer bar.Add(1)

			data, err := photos.GetPhotoData(ctx, id)
			if err != nil || len(data) == 0 {
				mu.Lock()
				errorCount++
				mu.Unlock()
				return
			}

			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				mu.Lock()
				errorCount++
				mu.Unlock()
				return
			}

			vec := pipeline.ExtractPrimary(ctx, img)
			if vec == nil {
				mu.Lock()
				noFaceCount++
				mu.Unlock()
				return
			}

			if err := photos.SaveVector(ctx, id, facevec.Encode(vec)); err != nil {
				mu.Lock()
				errorCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			successCount++
			mu.Unlock()
		}(photoID)
	}

	wg.Wait()
	fmt.Println()

	fmt.Printf("\nCompleted: %d vector(s) extracted, %d without a face, %d error(s)\n",
		successCount, noFaceCount, errorCount)

	vectors, err := photos.CountVectors(ctx)
	if err == nil {
		fmt.Printf("Total vectors in database: %d\n", vectors)
	}
	return nil
}
