package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-advisor/internal/dataset"
	"github.com/jonathan/course-advisor/internal/db"
	"github.com/jonathan/course-advisor/internal/schemas"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and optionally seed it from a dataset file",
	RunE:  runMigrate,
}

var migrateSeed string

func init() {
	migrateCmd.Flags().StringVar(&migrateSeed, "seed", "", "Dataset file whose contents replace all catalog, offering and directory rows")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}

	// Read the seed before touching the database so a bad file changes nothing
	var seed *db.SeedData
	if migrateSeed != "" {
		if seed, err = readSeed(migrateSeed); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")

	if seed == nil {
		return nil
	}
	stats, err := database.Seed(ctx, *seed)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(),
		"Seeded %d departments, %d courses, %d offerings (%d instructor listings), %d professors\n",
		stats.Departments, stats.Courses, stats.Offerings, stats.Instructors, stats.Professors)
	return nil
}

// readSeed validates and decodes a dataset file into seed rows.
func readSeed(path string) (*db.SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	if err := schemas.ValidateDataset(data); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}

	var doc dataset.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	return &db.SeedData{
		Departments: doc.Departments,
		Offerings:   doc.Offerings,
		Professors:  doc.Professors,
	}, nil
}
