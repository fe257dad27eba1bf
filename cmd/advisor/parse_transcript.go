package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-advisor/internal/transcript"
)

var parseTranscriptCmd = &cobra.Command{
	Use:   "parse-transcript <file>",
	Short: "Extract completed course codes from a plain-text transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runParseTranscript,
}

var (
	parseTranscriptDepartment string
	parseTranscriptJSON       bool
)

func init() {
	parseTranscriptCmd.Flags().StringVarP(&parseTranscriptDepartment, "department", "d", "", "Keep only codes of this department")
	parseTranscriptCmd.Flags().BoolVar(&parseTranscriptJSON, "json", false, "Print the codes as a JSON array")
	rootCmd.AddCommand(parseTranscriptCmd)
}

func runParseTranscript(cmd *cobra.Command, args []string) error {
	courses, err := transcript.ExtractFile(args[0], transcript.Options{Department: parseTranscriptDepartment})
	if err != nil {
		return err
	}

	if parseTranscriptJSON {
		return writeJSON(cmd.OutOrStdout(), courses)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Found %d courses\n", len(courses))
	if len(courses) > 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(courses, "\n"))
	}
	return nil
}
