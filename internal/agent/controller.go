// Package agent drives an LLM controller through a fixed action vocabulary
// until a sponsor evaluation (business info, profile and fit) is complete.
// The controller's choices are untrusted: every decision is schema-checked
// and passed through the override rule, the repetition guard and the action
// preconditions before anything is dispatched.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/sponsor-finder/internal/business"
	"github.com/jonathan/sponsor-finder/internal/config"
	"github.com/jonathan/sponsor-finder/internal/llm"
	"github.com/jonathan/sponsor-finder/internal/metrics"
	"github.com/jonathan/sponsor-finder/internal/profile"
	"github.com/jonathan/sponsor-finder/internal/prompts"
	"github.com/jonathan/sponsor-finder/internal/schemas"
	"github.com/jonathan/sponsor-finder/internal/scoring"
	"github.com/jonathan/sponsor-finder/internal/types"
)

// Step budget bounds.
const (
	DefaultMaxSteps = 6
	MinSteps        = 1
	MaxSteps        = 20
)

// Fixed parts of the sponsor projection.
const (
	illustrativeBudget = "$25k - $75k"
	defaultMatchReason = "Values and audience alignment"
)

var campaignIdeas = []string{
	"Community experience days",
	"Content storytelling series",
	"Co-branded training clinics",
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

var (
	decisionSchema    = llm.EnumObject("action", actionNames())
	decisionValidator = mustCompile(decisionSchema)
)

func mustCompile(schema *llm.Schema) *schemas.Schema {
	doc, err := schema.JSON()
	if err != nil {
		panic(fmt.Sprintf("failed to encode decision schema: %v", err))
	}
	compiled, err := schemas.Compile(doc)
	if err != nil {
		panic(fmt.Sprintf("failed to compile decision schema: %v", err))
	}
	return compiled
}

// Completer is the structured-completion capability the controller needs.
// llm.Client implementations satisfy it.
type Completer interface {
	GenerateStructured(ctx context.Context, prompt string, tier llm.ModelTier, schema *llm.Schema) (string, error)
}

// Request is the input of one evaluation.
type Request struct {
	BusinessName string
	ClubProfile  types.ClubProfile
	Language     types.Language
}

// Controller runs sponsor evaluations. It holds no per-run state and is
// safe for concurrent use.
type Controller struct {
	completer Completer
	source    business.Source
	maxSteps  int
	tier      llm.ModelTier
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
	observer  Observer
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxSteps sets the step budget. Values outside [MinSteps, MaxSteps] are clamped.
func WithMaxSteps(steps int) Option {
	return func(c *Controller) { c.maxSteps = min(MaxSteps, max(MinSteps, steps)) }
}

// WithModelTier sets the model tier used for decisions.
func WithModelTier(tier llm.ModelTier) Option {
	return func(c *Controller) { c.tier = tier }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithClock sets the time source used for log timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator sets the generator for log entry and run IDs.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithObserver registers a callback for every log change. It is called on
// the goroutine running Evaluate.
func WithObserver(observer Observer) Option {
	return func(c *Controller) { c.observer = observer }
}

// New creates a Controller. A nil completer is accepted; Evaluate then
// fails with a configuration error.
func New(completer Completer, source business.Source, opts ...Option) *Controller {
	c := &Controller{
		completer: completer,
		source:    source,
		maxSteps:  DefaultMaxSteps,
		tier:      llm.TierStandard,
		logger:    zap.NewNop(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// With returns a copy of the controller with extra options applied.
func (c *Controller) With(opts ...Option) *Controller {
	clone := *c
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// MaxSteps returns the step budget.
func (c *Controller) MaxSteps() int {
	return c.maxSteps
}

// run is the per-evaluation working set.
type run struct {
	req   Request
	lang  string
	state *State
	log   *Log
}

func (r *run) msg(key string, data map[string]string) string {
	return prompts.Message(r.lang, key, data)
}

// Evaluate runs one evaluation. Every failure is returned as a *RunError
// carrying the log accumulated so far.
func (c *Controller) Evaluate(ctx context.Context, req Request) (*types.EvaluationResult, error) {
	if c.completer == nil {
		return nil, c.failed(&RunError{Logs: []types.WorkflowLog{}, Err: config.Missing("gemini_api_key", "GEMINI_API_KEY")})
	}

	r := &run{
		req:   req,
		lang:  string(req.Language),
		state: &State{BusinessName: strings.TrimSpace(req.BusinessName)},
		log:   newLog(c.now, c.newID, c.observer),
	}
	if r.lang == "" {
		r.lang = string(types.LanguageEnglish)
	}

	r.log.Append(r.msg("log.reasoning", nil), types.LogSuccess)

	if business.LooksLikeURL(r.state.BusinessName) {
		normalized, err := business.NormalizeURL(r.state.BusinessName)
		if err == nil {
			r.state.UserURL = normalized
			r.state.KnownWebsite = normalized
		}
	}
	if r.state.UserURL == "" {
		if err := c.source.SearchReady(); err != nil {
			return nil, c.failed(&RunError{Logs: r.log.Entries(), Err: err})
		}
	}

	if err := c.loop(ctx, r); err != nil {
		r.log.FailPending()
		r.log.Append(fmt.Sprintf("%s: %s", r.msg("log.failure_prefix", nil), err.Error()), types.LogError)
		return nil, c.failed(&RunError{Logs: r.log.Entries(), Err: err})
	}

	result := c.finalize(r)
	metrics.EvaluationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.logger.Info("evaluation completed",
		zap.String("run_id", result.RunID),
		zap.String("business", result.TrackingPayload.Sponsor.Name),
		zap.Int("score", result.Fit.Score),
		zap.Strings("actions", actionNamesOf(r.state.ActionsTaken)))
	return result, nil
}

func (c *Controller) failed(err *RunError) error {
	metrics.EvaluationsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
	metrics.EvaluationFailures.WithLabelValues(errorKind(err.Err)).Inc()
	c.logger.Warn("evaluation failed", zap.Error(err.Err), zap.Int("log_entries", len(err.Logs)))
	return err
}

func (c *Controller) loop(ctx context.Context, r *run) error {
	state := r.state
	for step := 0; step < c.maxSteps; step++ {
		thinkingID := r.log.Append(r.msg("log.thinking", nil), types.LogPending)

		action, err := c.decide(ctx, r)
		if err != nil {
			return err
		}
		r.log.Update(thinkingID, types.LogSuccess)

		overridden := false
		if state.UserURL != "" && state.BusinessInfo == nil && !state.ExtractionUsed && action != ActionExtractFromURL {
			action = ActionExtractFromURL
			overridden = true
		}
		metrics.ActionsTotal.WithLabelValues(string(action), strconv.FormatBool(overridden)).Inc()
		c.logger.Debug("controller decision",
			zap.Int("step", step+1),
			zap.String("action", string(action)),
			zap.Bool("overridden", overridden))

		label := r.msg("action."+string(action), nil)
		r.log.Append(r.msg("log.decision", map[string]string{"Action": label}), types.LogSuccess)

		if action == ActionDone {
			if missing := state.Missing(); len(missing) > 0 {
				return &IncompleteWorkflowError{Missing: missing}
			}
			return nil
		}

		if state.Taken(action) {
			return &RepeatedActionError{Action: action}
		}
		state.ActionsTaken = append(state.ActionsTaken, action)

		if err := c.dispatch(ctx, r, action); err != nil {
			return err
		}
	}

	if !state.Complete() {
		return &WorkflowExhaustedError{Steps: c.maxSteps}
	}
	return nil
}

// decide performs the single LLM round-trip of an iteration and validates
// the answer against the action schema.
func (c *Controller) decide(ctx context.Context, r *run) (Action, error) {
	start := time.Now()
	raw, err := c.completer.GenerateStructured(ctx, buildPrompt(r.state, r.req.ClubProfile), c.tier, decisionSchema)
	metrics.DecisionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", &DecisionError{Message: "completion failed", Cause: err}
	}

	raw = llm.CleanJSONBlock(raw)
	if err := decisionValidator.ValidateString(raw); err != nil {
		return "", &DecisionError{Raw: raw, Message: "response does not match the action schema", Cause: err}
	}

	var decision struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		return "", &DecisionError{Raw: raw, Message: "malformed JSON", Cause: err}
	}
	action, err := ParseAction(decision.Action)
	if err != nil {
		return "", &DecisionError{Raw: raw, Message: "unknown action", Cause: err}
	}
	return action, nil
}

func (c *Controller) dispatch(ctx context.Context, r *run, action Action) error {
	state := r.state
	switch action {
	case ActionExtractFromURL:
		if !state.ExtractionEligible() {
			return &PreconditionError{Action: action, Reason: "no known website, or business info already gathered"}
		}
		pendingID := r.log.Append(r.msg("log.extract", nil), types.LogPending)
		start := time.Now()
		info, err := c.source.ExtractFromURL(ctx, state.KnownWebsite)
		metrics.ObserveTool(string(action), start, err)
		if err != nil {
			return err
		}
		r.log.Update(pendingID, types.LogSuccess)
		r.log.Append(r.msg("log.extract_done", nil), types.LogSuccess)

		state.BusinessInfo = info
		if info.Website != "" {
			state.KnownWebsite = info.Website
		}
		state.ExtractionUsed = true

	case ActionSearch:
		if !state.SearchEligible() {
			return &PreconditionError{Action: action, Reason: "search is not available once a URL was given or business info exists"}
		}
		query := strings.TrimSpace(fmt.Sprintf("%s official site %s", state.BusinessName, r.req.ClubProfile.Location))
		pendingID := r.log.Append(r.msg("log.search", nil), types.LogPending)
		start := time.Now()
		info, err := c.source.SearchBusinessInfo(ctx, query)
		metrics.ObserveTool(string(action), start, err)
		if err != nil {
			return err
		}
		r.log.Update(pendingID, types.LogSuccess)

		state.BusinessInfo = info
		if info.Website != "" {
			state.KnownWebsite = info.Website
		}
		state.SearchUsed = true

	case ActionProfile:
		if state.BusinessInfo == nil {
			return &PreconditionError{Action: action, Reason: "business info is not available"}
		}
		pendingID := r.log.Append(r.msg("log.profile", nil), types.LogPending)
		start := time.Now()
		result := profile.Extract(displayName(state), *state.BusinessInfo)
		metrics.ObserveTool(string(action), start, nil)
		r.log.Update(pendingID, types.LogSuccess)
		state.Profile = &result

	case ActionScore:
		if state.Profile == nil {
			return &PreconditionError{Action: action, Reason: "business profile is not available"}
		}
		pendingID := r.log.Append(r.msg("log.fit", nil), types.LogPending)
		start := time.Now()
		fit := scoring.ScoreFit(*state.Profile, r.req.ClubProfile)
		metrics.ObserveTool(string(action), start, nil)
		r.log.Update(pendingID, types.LogSuccess)
		state.Fit = &fit

	default:
		return &PreconditionError{Action: action, Reason: "not a dispatchable action"}
	}
	return nil
}

// finalize packages a completed run.
func (c *Controller) finalize(r *run) *types.EvaluationResult {
	state := r.state
	info, prof, fit := *state.BusinessInfo, *state.Profile, *state.Fit
	name := displayName(state)

	matchReason := defaultMatchReason
	if len(fit.FitReasons) > 0 {
		matchReason = fit.FitReasons[0]
	}
	description := info.Description
	if description == "" {
		description = prof.Services
	}

	sponsor := types.Sponsor{
		Name:              name,
		Industry:          prof.Industry,
		Description:       description,
		TargetAudience:    prof.Audience,
		SponsorshipBudget: illustrativeBudget,
		ContactInfo: types.ContactInfo{
			Website: info.Website,
			Email:   contactEmail(name),
		},
		MatchReason:   matchReason,
		CampaignIdeas: append([]string(nil), campaignIdeas...),
	}

	r.log.Append(r.msg("log.summary", nil), types.LogSuccess)
	summary := r.msg("summary", map[string]string{
		"Business": name,
		"Score":    strconv.Itoa(fit.Score),
		"Type":     string(fit.SuggestedSponsorshipType),
	})

	tags := make([]string, 0, 2)
	for _, tag := range []string{prof.Industry, string(fit.SuggestedSponsorshipType)} {
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return &types.EvaluationResult{
		RunID:        c.newID(),
		Logs:         r.log.Entries(),
		BusinessInfo: info,
		Profile:      prof,
		Fit:          fit,
		FinalSummary: summary,
		TrackingPayload: types.TrackingPayload{
			Sponsor:     sponsor,
			Score:       fit.Score,
			Notes:       strings.Join(fit.FitReasons, " "),
			GeneratedAt: c.now(),
			Tags:        tags,
		},
	}
}

// displayName prefers the resolved business name over the raw input.
func displayName(state *State) string {
	if state.BusinessInfo != nil {
		if name := strings.TrimSpace(state.BusinessInfo.Name); name != "" {
			return name
		}
	}
	return state.BusinessName
}

func contactEmail(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "")
	if slug == "" {
		return ""
	}
	return fmt.Sprintf("partnerships@%s.com", slug)
}

func actionNamesOf(actions []Action) []string {
	names := make([]string, len(actions))
	for i, action := range actions {
		names[i] = string(action)
	}
	return names
}
