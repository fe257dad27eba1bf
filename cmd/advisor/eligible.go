package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-advisor/internal/observability"
)

var eligibleCmd = &cobra.Command{
	Use:   "eligible",
	Short: "List the courses a student has not completed",
	RunE:  runEligible,
}

var (
	eligibleDepartment string
	eligibleCompleted  string
	eligibleTranscript string
	eligibleJSON       bool
)

func init() {
	eligibleCmd.Flags().StringVarP(&eligibleDepartment, "department", "d", "", "Department code (required)")
	eligibleCmd.Flags().StringVarP(&eligibleCompleted, "completed", "c", "", "Comma-separated completed course codes")
	eligibleCmd.Flags().StringVarP(&eligibleTranscript, "transcript", "t", "", "Plain-text transcript to read completed courses from")
	eligibleCmd.Flags().BoolVar(&eligibleJSON, "json", false, "Print the course list as JSON")

	if err := eligibleCmd.MarkFlagRequired("department"); err != nil {
		panic(fmt.Sprintf("failed to mark department flag as required: %v", err))
	}

	rootCmd.AddCommand(eligibleCmd)
}

func runEligible(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	completed, err := completedCourses(eligibleCompleted, eligibleTranscript)
	if err != nil {
		return err
	}

	courses, err := a.engine().Eligible(cmd.Context(), eligibleDepartment, completed)
	if err != nil {
		return err
	}

	if eligibleJSON {
		return writeJSON(cmd.OutOrStdout(), courses.Entries())
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintEligible(eligibleDepartment, courses)
	return nil
}
