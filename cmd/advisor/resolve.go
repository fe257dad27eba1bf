package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/course-advisor/internal/observability"
	"github.com/jonathan/course-advisor/internal/server"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <instructor name>",
	Short: "Show which directory entry an instructor name resolves to",
	Long: "Resolves a raw instructor name the way recommendations do: exact match, then " +
		`"Last, First" swapped, then last-name substring.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

var resolveJSON bool

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the resolution as JSON")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.engine().Resolver().Resolve(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if resolveJSON {
		return writeJSON(cmd.OutOrStdout(), server.ResolveResponse{
			Name:      args[0],
			Tier:      res.Tier.String(),
			Professor: res.Professor,
		})
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintResolution(args[0], res)
	return nil
}
