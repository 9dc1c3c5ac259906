package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Vision      VisionConfig
	Database    DatabaseConfig
	PhotoPrism  PhotoPrismConfig
	Recognition RecognitionConfig
	Web         WebConfig
}

type VisionConfig struct {
	URL           string  // face detection service URL (defaults to http://localhost:8000)
	MinConfidence float64 // detections below this confidence are discarded
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type PhotoPrismConfig struct {
	DatabaseURL string // MariaDB DSN for direct database access (e.g., photoprism:photoprism@tcp(mariadb:3306)/photoprism)
}

type RecognitionConfig struct {
	Threshold float64 // minimum similarity score for a positive match
	CameraID  string  // camera identifier recorded with recognition sessions
}

type WebConfig struct {
	Port int // HTTP listen port (default 8080)
}

// defaultsFile mirrors the structure of defaults.yaml.
type defaultsFile struct {
	Recognition struct {
		Threshold              float64 `yaml:"threshold"`
		MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	} `yaml:"recognition"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float in (0, 1].
// Returns the default value if the env var is unset, empty, or out of range.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f <= 1 {
		return f
	}
	return defaultVal
}

func Load() *Config {
	var def defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &def); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Vision: VisionConfig{
			URL:           os.Getenv("VISION_URL"),
			MinConfidence: envFloat("VISION_MIN_CONFIDENCE", def.Recognition.MinDetectionConfidence),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		PhotoPrism: PhotoPrismConfig{
			DatabaseURL: os.Getenv("PHOTOPRISM_DATABASE_URL"),
		},
		Recognition: RecognitionConfig{
			Threshold: envFloat("RECOGNITION_THRESHOLD", def.Recognition.Threshold),
			CameraID:  os.Getenv("CAMERA_ID"),
		},
		Web: WebConfig{
			Port: envInt("PORT", 8080),
		},
	}
}
