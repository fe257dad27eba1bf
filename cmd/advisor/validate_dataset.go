package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-advisor/internal/schemas"
)

var validateDatasetCmd = &cobra.Command{
	Use:   "validate-dataset <file>",
	Short: "Validate a dataset file against the dataset JSON Schema",
	Long:  "Checks a dataset file against the embedded dataset schema, or against --schema when given.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateDataset,
}

var validateDatasetSchema string

func init() {
	validateDatasetCmd.Flags().StringVar(&validateDatasetSchema, "schema", "", "Path to an alternative JSON Schema file")
	rootCmd.AddCommand(validateDatasetCmd)
}

func runValidateDataset(cmd *cobra.Command, args []string) error {
	var err error
	if validateDatasetSchema != "" {
		err = schemas.ValidateJSON(validateDatasetSchema, args[0])
	} else {
		err = schemas.ValidateDatasetFile(args[0])
	}

	out := cmd.OutOrStdout()
	var verr *schemas.ValidationError
	switch {
	case err == nil:
		_, _ = fmt.Fprintf(out, "Validation passed: %s\n", args[0])
		return nil
	case errors.As(err, &verr):
		_, _ = fmt.Fprintf(out, "Validation failed: %s\n", args[0])
		for _, fe := range verr.Errors {
			_, _ = fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("dataset has %d schema violations", len(verr.Errors))
	default:
		return err
	}
}
