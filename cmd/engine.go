package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/kaleidoid/internal/config"
	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/database/mock"
	"github.com/kozaktomas/kaleidoid/internal/database/postgres"
	"github.com/kozaktomas/kaleidoid/internal/recognizer"
	"github.com/kozaktomas/kaleidoid/internal/vision"
	"github.com/kozaktomas/kaleidoid/internal/web/handlers"
)

// connectStorage initializes the storage backend. With useMock set the
// engine runs against an in-memory store, useful for trying things out
// without a database.
func connectStorage(cfg *config.Config, useMock bool) error {
	if useMock {
		mock.Register(mock.NewStore())
		fmt.Println("Using in-memory storage (data is not persisted)")
		return nil
	}

	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required (or use --mock)")
	}

	fmt.Println("Connecting to PostgreSQL...")
	if err := postgres.Initialize(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	return nil
}

// galleryStore combines the person and photo repositories into the
// narrow store the pipeline loads its gallery from.
type galleryStore struct {
	database.PersonReader
	database.PhotoWriter
}

// buildEngine assembles the shared recognition engine: repositories,
// detection provider, pipeline with the persisted threshold, the
// gallery loaded from storage and the neighbor index built over it.
func buildEngine(ctx context.Context, cfg *config.Config) (*handlers.Engine, error) {
	people, err := database.GetPersonWriter(ctx)
	if err != nil {
		return nil, err
	}
	photos, err := database.GetPhotoWriter(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := database.GetSessionWriter(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := database.GetSettingsStore(ctx)
	if err != nil {
		return nil, err
	}

	// Values stored through the API win over config.
	threshold := database.GetFloatSetting(ctx, settings,
		database.SettingRecognitionThreshold, cfg.Recognition.Threshold)
	minConfidence := database.GetFloatSetting(ctx, settings,
		database.SettingMinDetectionConfidence, cfg.Vision.MinConfidence)

	detector := vision.NewProvider(cfg.Vision.URL, minConfidence)
	pipeline, err := recognizer.NewPipeline(detector, recognizer.NewGallery(), threshold)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline: %w", err)
	}

	loaded, err := pipeline.LoadGallery(ctx, galleryStore{people, photos})
	if err != nil {
		return nil, fmt.Errorf("loading gallery: %w", err)
	}
	fmt.Printf("Gallery loaded with %d face(s)\n", loaded)

	neighbors := recognizer.NewNeighborIndex()
	neighbors.Build(pipeline.Gallery().Entries())

	return &handlers.Engine{
		Pipeline:  pipeline,
		Neighbors: neighbors,
		People:    people,
		Photos:    photos,
		Sessions:  sessions,
		Settings:  settings,
		CameraID:  cfg.Recognition.CameraID,
	}, nil
}
