package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dhammakb/application/pipeline"
	"dhammakb/infrastructure/config"
	"dhammakb/infrastructure/di"
	"dhammakb/infrastructure/essays"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "dhammakb",
		Short: "Knowledge graph of Buddhist teachings",
		Long: `dhammakb builds and serves a read-only knowledge graph of Buddhist
lists and dhammas. Seed the graph from the source spreadsheet, validate its
integrity, then serve the navigation API.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(essaysCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initContainer(ctx context.Context) (*di.Container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize container: %w", err)
	}
	return container, nil
}

func seedCmd() *cobra.Command {
	var spreadsheet string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Rebuild the graph from the source spreadsheet",
		Long: `Parses the spreadsheet, infers relationships, and rebuilds the graph
from scratch. The run is destructive and idempotent: existing data is
dropped and re-seeding the same spreadsheet yields the same graph.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := initContainer(ctx)
			if err != nil {
				return err
			}
			defer container.Logger.Sync()

			path := spreadsheet
			if path == "" {
				path = container.Config.SpreadsheetPath
			}
			return container.Runner.Run(ctx, path)
		},
	}
	cmd.Flags().StringVar(&spreadsheet, "spreadsheet", "", "path to the source spreadsheet (defaults to SPREADSHEET_PATH)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Run integrity checks against the seeded graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := initContainer(ctx)
			if err != nil {
				return err
			}
			defer container.Logger.Sync()

			report, err := container.Validator.Run(ctx)
			if err != nil {
				return err
			}
			for _, check := range report.Checks {
				status := "PASS"
				if !check.Passed {
					status = "FAIL"
				}
				if check.Detail != "" {
					fmt.Printf("%-28s %s  %s\n", check.Name, status, check.Detail)
				} else {
					fmt.Printf("%-28s %s\n", check.Name, status)
				}
			}
			if !report.Passed {
				return fmt.Errorf("integrity validation failed")
			}
			fmt.Println("All integrity checks passed")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the navigation API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			container, err := initContainer(ctx)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:         container.Config.ServerAddress,
				Handler:      container.Handler,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				container.Logger.Info("Starting server",
					zap.String("address", container.Config.ServerAddress),
					zap.String("environment", container.Config.Environment),
				)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					container.Logger.Fatal("Server failed to start", zap.Error(err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan

			container.Logger.Info("Shutting down server...")

			shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				container.Logger.Error("Server shutdown error", zap.Error(err))
			}

			if err := container.Logger.Sync(); err != nil {
				log.Printf("Failed to sync logger: %v", err)
			}
			log.Println("Server stopped")
			return nil
		},
	}
}

func essaysCmd() *cobra.Command {
	var force, dryRun bool
	var spreadsheet string

	cmd := &cobra.Command{
		Use:   "essays",
		Short: "Generate beginner-friendly essays for each dhamma",
		Long: `Reads the spreadsheet to identify all dhammas, then generates a short
essay for each one. Essays are saved as one markdown file per slug and
attached to dhammas on the next seed run. Dhammas that already have essay
files are skipped unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := initContainer(ctx)
			if err != nil {
				return err
			}
			defer container.Logger.Sync()

			path := spreadsheet
			if path == "" {
				path = container.Config.SpreadsheetPath
			}
			wb, err := pipeline.LoadWorkbook(path)
			if err != nil {
				return err
			}
			set, err := pipeline.BuildDrafts(wb, container.Logger)
			if err != nil {
				return err
			}
			return container.EssayGenerator.Run(ctx, set, essays.GeneratorOptions{
				Force:  force,
				DryRun: dryRun,
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "regenerate essays that already exist")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be generated without calling the API")
	cmd.Flags().StringVar(&spreadsheet, "spreadsheet", "", "path to the source spreadsheet (defaults to SPREADSHEET_PATH)")
	return cmd
}
