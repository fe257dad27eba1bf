package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-advisor/internal/config"
)

const fixturePath = "../../testdata/dataset.json"

// executeCommand runs the CLI in-process with a clean environment and returns stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	for _, key := range []string{
		config.EnvPort, config.EnvDatabaseURL, config.EnvRedisURL, config.EnvDataset,
		config.EnvCacheTTL, config.EnvLogDevelopment, config.EnvBreakerFailures, config.EnvBreakerTimeout,
	} {
		t.Setenv(key, "")
	}
	t.Setenv(config.EnvLogLevel, "error")

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default; cobra keeps values between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
