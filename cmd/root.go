package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kaleidoid",
	Short: "A face identity matching engine",
	Long: `KaleidoID matches faces captured by a camera against a gallery of
enrolled people. It talks to an external face detection service, stores
people, photos and feature vectors in PostgreSQL, and serves a REST API
for enrollment and recognition.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
