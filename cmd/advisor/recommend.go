package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/course-advisor/internal/observability"
	"github.com/jonathan/course-advisor/internal/recommend"
	"github.com/jonathan/course-advisor/internal/types"
)

// batchConcurrency bounds how many students a batch evaluates at once.
const batchConcurrency = 4

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend instructors for the courses a student can still take",
	Long: "Lists every course of a department the student has not completed, with the " +
		"instructors who taught it ranked by how well they match the student's preferences.",
	RunE: runRecommend,
}

var (
	recommendDepartment string
	recommendCompleted  string
	recommendTranscript string
	recommendPrefs      string
	recommendJSON       bool
	recommendBatch      string
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendDepartment, "department", "d", "", "Department code, e.g. CE")
	recommendCmd.Flags().StringVarP(&recommendCompleted, "completed", "c", "", "Comma-separated completed course codes")
	recommendCmd.Flags().StringVarP(&recommendTranscript, "transcript", "t", "", "Plain-text transcript to read completed courses from")
	recommendCmd.Flags().StringVarP(&recommendPrefs, "prefs", "p", "", `Preferences JSON, e.g. '{"caring": true}'`)
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Print the JSON response instead of a summary")
	recommendCmd.Flags().StringVar(&recommendBatch, "batch", "", "JSON file holding an array of requests to evaluate together")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	if recommendBatch == "" && recommendDepartment == "" {
		return fmt.Errorf("--department is required")
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if recommendBatch != "" {
		return runBatch(cmd.Context(), cmd.OutOrStdout(), a)
	}

	completed, err := completedCourses(recommendCompleted, recommendTranscript)
	if err != nil {
		return err
	}
	prefs := parsePreferences(recommendPrefs, a.logger)

	recs, err := a.engine().GetRecommendations(cmd.Context(), recommendDepartment, completed, prefs)
	if err != nil {
		return fmt.Errorf("failed to get recommendations: %w", err)
	}

	if recommendJSON {
		return writeJSON(cmd.OutOrStdout(), newResponse(recommendDepartment, completed, recs))
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRecommendations(recommendDepartment, completed, recs)
	return nil
}

// BatchResult is one entry of the recommend --batch output, in input order.
type BatchResult struct {
	*types.RecommendationResponse
	Error string `json:"error,omitempty"`
}

// runBatch evaluates every request in the batch file concurrently. Request-level
// errors are reported per entry; an unavailable source aborts the whole batch.
func runBatch(ctx context.Context, out io.Writer, a *app) error {
	data, err := os.ReadFile(recommendBatch)
	if err != nil {
		return fmt.Errorf("failed to read batch file %s: %w", recommendBatch, err)
	}
	var requests []types.RecommendationRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return fmt.Errorf("failed to parse batch file %s: %w", recommendBatch, err)
	}

	engine := a.engine()
	results := make([]BatchResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, req := range requests {
		g.Go(func() error {
			resp, err := evaluate(gctx, engine, req, a.logger)
			if errors.Is(err, types.ErrUnavailable) {
				return fmt.Errorf("request %d: %w", i, err)
			}
			if err != nil {
				results[i] = BatchResult{Error: err.Error()}
				return nil
			}
			results[i] = BatchResult{RecommendationResponse: resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return writeJSON(out, results)
}

// evaluate runs one batch request the way the HTTP endpoint would.
func evaluate(ctx context.Context, engine *recommend.Engine, req types.RecommendationRequest, logger *zap.Logger) (*types.RecommendationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	completed, err := types.ParseCompletedCourses(req.CompletedCourses)
	if err != nil {
		logger.Warn("ignoring malformed completed courses", zap.String("department", req.Department), zap.Error(err))
	}
	prefs, err := types.ParsePreferences(req.Preferences)
	if err != nil {
		logger.Warn("ignoring malformed preferences", zap.String("department", req.Department), zap.Error(err))
	}

	recs, err := engine.GetRecommendations(ctx, req.Department, completed, prefs)
	if err != nil {
		return nil, err
	}
	return newResponse(req.Department, completed, recs), nil
}

func newResponse(department string, completed []string, recs []types.CourseRecommendation) *types.RecommendationResponse {
	return &types.RecommendationResponse{
		Success:          true,
		RequestID:        uuid.New().String(),
		Department:       department,
		CompletedCourses: completed,
		Recommendations:  recs,
		TotalEligible:    len(recs),
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}
