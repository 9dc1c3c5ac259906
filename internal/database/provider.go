package database

import (
	"context"
	"fmt"
	"strconv"
)

var (
	personWriter  func() PersonWriter
	photoWriter   func() PhotoWriter
	sessionWriter func() SessionWriter
	settingsStore func() SettingsStore
	initialized   bool
)

// RegisterBackend registers the storage backend constructors.
// Called by the concrete backend package (postgres or mock) to avoid
// import cycles.
func RegisterBackend(
	people func() PersonWriter,
	photos func() PhotoWriter,
	sessions func() SessionWriter,
	settings func() SettingsStore,
) {
	personWriter = people
	photoWriter = photos
	sessionWriter = sessions
	settingsStore = settings
	initialized = true
}

// IsInitialized returns whether a storage backend has been registered.
func IsInitialized() bool {
	return initialized
}

// GetPersonWriter returns the registered person repository.
func GetPersonWriter(ctx context.Context) (PersonWriter, error) {
	if !initialized || personWriter == nil {
		return nil, fmt.Errorf("storage backend not initialized")
	}
	return personWriter(), nil
}

// GetPhotoWriter returns the registered photo repository.
func GetPhotoWriter(ctx context.Context) (PhotoWriter, error) {
	if !initialized || photoWriter == nil {
		return nil, fmt.Errorf("storage backend not initialized")
	}
	return photoWriter(), nil
}

// GetSessionWriter returns the registered session repository.
func GetSessionWriter(ctx context.Context) (SessionWriter, error) {
	if !initialized || sessionWriter == nil {
		return nil, fmt.Errorf("storage backend not initialized")
	}
	return sessionWriter(), nil
}

// GetSettingsStore returns the registered settings repository.
func GetSettingsStore(ctx context.Context) (SettingsStore, error) {
	if !initialized || settingsStore == nil {
		return nil, fmt.Errorf("storage backend not initialized")
	}
	return settingsStore(), nil
}

// GetFloatSetting reads a setting and parses it as a float, falling back
// to the default when the key is unset or does not parse.
func GetFloatSetting(ctx context.Context, store SettingsStore, key string, defaultVal float64) float64 {
	s, err := store.GetSetting(ctx, key)
	if err != nil {
		return defaultVal
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return defaultVal
}

// SetFloatSetting stores a float setting.
func SetFloatSetting(ctx context.Context, store SettingsStore, key string, v float64) error {
	return store.SetSetting(ctx, key, strconv.FormatFloat(v, 'g', -1, 64))
}
