// Package main provides the advisor CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Course Advisor instructor recommendation service",
	Long: "Course Advisor recommends instructors for the courses a student can still take, " +
		"ranking them by how well their reviews match the student's preferences.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Persistent data source and logging flags
var (
	configPath  string
	datasetPath string
	databaseURL string
	redisURL    string
	logLevel    string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to JSON config file")
	pf.StringVar(&datasetPath, "dataset", "", "Path to a dataset JSON file (overrides ADVISOR_DATASET)")
	pf.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (overrides DATABASE_URL)")
	pf.StringVar(&redisURL, "redis-url", "", "Redis URL for the offering cache (overrides REDIS_URL)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
