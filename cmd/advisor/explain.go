package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/course-advisor/internal/observability"
	"github.com/jonathan/course-advisor/internal/scoring"
)

var explainCmd = &cobra.Command{
	Use:   "explain <instructor name>",
	Short: "Break a match score down into the rules that produced it",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

var (
	explainPrefs string
	explainJSON  bool
)

func init() {
	explainCmd.Flags().StringVarP(&explainPrefs, "prefs", "p", "", `Preferences JSON, e.g. '{"extraCredit": true}'`)
	explainCmd.Flags().BoolVar(&explainJSON, "json", false, "Print the breakdown as JSON")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.engine().Resolver().Resolve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	breakdown := scoring.Explain(res.Professor, parsePreferences(explainPrefs, a.logger))

	if explainJSON {
		return writeJSON(cmd.OutOrStdout(), breakdown)
	}

	p := observability.NewPrinter(cmd.OutOrStdout())
	p.PrintResolution(args[0], res)
	name := args[0]
	if res.Found() {
		name = res.Professor.Name
	}
	p.PrintBreakdown(name, breakdown)
	return nil
}
