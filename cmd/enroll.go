package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/kaleidoid/internal/config"
	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/facevec"
	"github.com/kozaktomas/kaleidoid/internal/recognizer"
	"github.com/kozaktomas/kaleidoid/internal/vision"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll [person-id] [image-file...]",
	Short: "Enroll photos for a person",
	Long: `Stores one or more photos for a person and extracts their feature
vectors through the face detection service. Photos without a detectable
face are stored anyway and can be picked up later by the train command.

Examples:
  # Enroll a single photo
  kaleidoid enroll 42 face.jpg

  # Enroll several photos, marking the first as primary
  kaleidoid enroll 42 front.jpg side.jpg --primary`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().Bool("primary", false, "Mark the first photo as the person's primary photo")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	personID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid person ID %q", args[0])
	}
	files := args[1:]

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

	person, err := people.GetPerson(ctx, personID)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("person %d not found", personID)
	}
	if err != nil {
		return fmt.Errorf("failed to get person: %w", err)
	}

	detector := vision.NewProvider(cfg.Vision.URL, cfg.Vision.MinConfidence)
	pipeline, err := recognizer.NewPipeline(detector, recognizer.NewGallery(), cfg.Recognition.Threshold)
	if err != nil {
		return err
	}

	// Per-file failures are logged and skipped so one bad file does not
	// abort a batch.
	enrolled := 0
	for i, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("%s: skipped, %v\n", file, err)
			continue
		}
		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			fmt.Printf("%s: skipped, not a readable image (%v)\n", file, err)
			continue
		}

		isPrimary := i == 0 && mustGetBool(cmd, "primary")
		photoID, err := photos.AddPhoto(ctx, personID, data, format, isPrimary)
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", file, err)
		}

		vec := pipeline.ExtractPrimary(ctx, img)
		if vec == nil {
			fmt.Printf("%s: stored as photo %d, no usable face found\n", file, photoID)
			continue
		}
		if err := photos.SaveVector(ctx, photoID, facevec.Encode(vec)); err != nil {
			return fmt.Errorf("failed to save vector for photo %d: %w", photoID, err)
		}
		enrolled++
		fmt.Printf("%s: enrolled as photo %d\n", file, photoID)
	}

	fmt.Printf("\n%s: %d of %d photo(s) enrolled with a face vector\n",
		person.DisplayName(), enrolled, len(files))
	return nil
}
