package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/kaleidoid/internal/config"
	"github.com/kozaktomas/kaleidoid/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recognition API server",
	Long: `Start the KaleidoID web server.
The server exposes a REST API for managing people, enrolling photos,
recognizing faces in uploaded frames and querying similar faces.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Bool("mock", false, "Run against in-memory storage instead of PostgreSQL")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if err := connectStorage(cfg, mustGetBool(cmd, "mock")); err != nil {
		return err
	}

	ctx := context.Background()
	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	port := mustGetInt(cmd, "port")
	if port == 0 {
		port = cfg.Web.Port
	}
	host := mustGetString(cmd, "host")

	server := web.NewServer(engine, port, host)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting KaleidoID API on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
