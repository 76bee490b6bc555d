package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/sponsor-finder/internal/agent"
	"github.com/jonathan/sponsor-finder/internal/observability"
	"github.com/jonathan/sponsor-finder/internal/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one or more businesses as sponsors for a club",
	Long: "Run the sponsor evaluation agent for each --business against the club profile in --club-file. " +
		"Businesses are evaluated independently and concurrently; one failure does not stop the others.",
	RunE: runEvaluate,
}

var (
	evaluateBusinesses  []string
	evaluateClubFile    string
	evaluateLanguage    string
	evaluateConcurrency int
	evaluateJSON        bool
)

func init() {
	evaluateCmd.Flags().StringArrayVarP(&evaluateBusinesses, "business", "b", nil, "Business name or website URL (repeatable)")
	evaluateCmd.Flags().StringVarP(&evaluateClubFile, "club-file", "c", "", "Path to club profile JSON")
	evaluateCmd.Flags().StringVar(&evaluateLanguage, "lang", "en", "Language of log messages and summary (en, fr, de)")
	evaluateCmd.Flags().IntVar(&evaluateConcurrency, "concurrency", 2, "Maximum evaluations running at once")
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "Print results as JSON")
	evaluateCmd.Flags().Int("max-steps", 6, "Controller step budget per evaluation")
	_ = settings.BindPFlag("max_steps", evaluateCmd.Flags().Lookup("max-steps"))

	_ = evaluateCmd.MarkFlagRequired("business")
	_ = evaluateCmd.MarkFlagRequired("club-file")
	rootCmd.AddCommand(evaluateCmd)
}

// outcome is the result of one evaluation in a batch.
type outcome struct {
	Business string                  `json:"business"`
	Result   *types.EvaluationResult `json:"result,omitempty"`
	Error    string                  `json:"error,omitempty"`
	Logs     []types.WorkflowLog     `json:"logs,omitempty"`

	err error
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	club, err := readClubProfile(evaluateClubFile)
	if err != nil {
		return err
	}
	requests, err := buildRequests(evaluateBusinesses, club, evaluateLanguage)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := loadApp(ctx, requireController)
	if err != nil {
		return err
	}
	defer a.Close()

	outcomes := evaluateAll(ctx, a.controller, requests, evaluateConcurrency)

	if evaluateJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcomes); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
	} else {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		for _, o := range outcomes {
			if o.err != nil {
				printer.PrintFailure(o.Business, o.err, o.Logs)
				continue
			}
			printer.PrintLogs(o.Result.Logs)
			printer.PrintEvaluation(o.Result)
		}
	}

	return batchError(outcomes)
}

// readClubProfile loads and validates a club profile JSON file.
func readClubProfile(path string) (types.ClubProfile, error) {
	var club types.ClubProfile
	content, err := os.ReadFile(path)
	if err != nil {
		return club, fmt.Errorf("failed to read club file: %w", err)
	}
	if err := json.Unmarshal(content, &club); err != nil {
		return club, fmt.Errorf("failed to parse club file: %w", err)
	}
	return club, nil
}

// buildRequests validates one request per business.
func buildRequests(businesses []string, club types.ClubProfile, language string) ([]agent.Request, error) {
	requests := make([]agent.Request, 0, len(businesses))
	for _, name := range businesses {
		req := types.EvaluateRequest{BusinessName: name, ClubProfile: &club, Language: language}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("invalid evaluation for %q: %w", name, err)
		}
		requests = append(requests, agent.Request{
			BusinessName: req.BusinessName,
			ClubProfile:  *req.ClubProfile,
			Language:     types.ParseLanguage(req.Language),
		})
	}
	return requests, nil
}

// evaluateAll runs the requests with at most concurrency in flight. Outcomes
// keep the order of requests.
func evaluateAll(ctx context.Context, controller *agent.Controller, requests []agent.Request, concurrency int) []outcome {
	outcomes := make([]outcome, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, concurrency))
	for i, req := range requests {
		g.Go(func() error {
			o := outcome{Business: req.BusinessName}
			result, err := controller.Evaluate(ctx, req)
			if err != nil {
				o.err = err
				o.Error = err.Error()
				var runErr *agent.RunError
				if errors.As(err, &runErr) {
					o.Logs = runErr.Logs
				}
			} else {
				o.Result = result
			}
			outcomes[i] = o
			// Runs are independent; a failure must not cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func batchError(outcomes []outcome) error {
	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d evaluations failed", failed, len(outcomes))
}
