package llm

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ddqcheck/internal/finding"
)

// Refiner defaults.
const (
	DefaultMaxItems    = 30
	DefaultConcurrency = 4
	DefaultRetries     = 3
	DefaultRetryDelay  = 500 * time.Millisecond
	DefaultTimeout     = 60 * time.Second
)

// Options configures a Refiner.
type Options struct {
	// Enabled gates every model call. A disabled refiner returns its input.
	Enabled     bool
	Provider    Provider
	Model       string
	MaxItems    int
	Concurrency int
	// Retries is the number of attempts per item, the first call included.
	Retries    int
	RetryDelay time.Duration
	Timeout    time.Duration
	Cache      Cache
	Logger     *zap.Logger
}

// Refiner asks a model to re-assess flagged findings.
type Refiner struct {
	enabled     bool
	provider    Provider
	model       string
	maxItems    int
	concurrency int
	retries     uint
	retryDelay  time.Duration
	timeout     time.Duration
	cache       Cache
	logger      *zap.Logger
}

// NewRefiner validates options and fills defaults.
func NewRefiner(opts Options) (*Refiner, error) {
	if opts.Enabled && opts.Provider == nil {
		return nil, fmt.Errorf("llm refiner enabled without a provider")
	}
	r := &Refiner{
		enabled:     opts.Enabled,
		provider:    opts.Provider,
		model:       strings.TrimSpace(opts.Model),
		maxItems:    opts.MaxItems,
		concurrency: opts.Concurrency,
		retryDelay:  opts.RetryDelay,
		timeout:     opts.Timeout,
		cache:       opts.Cache,
		logger:      opts.Logger,
	}
	if r.model == "" {
		name := ""
		if r.provider != nil {
			name = r.provider.Name()
		}
		r.model = DefaultModel(name)
	}
	if r.maxItems <= 0 {
		r.maxItems = DefaultMaxItems
	}
	if r.concurrency <= 0 {
		r.concurrency = DefaultConcurrency
	}
	r.retries = DefaultRetries
	if opts.Retries > 0 {
		r.retries = uint(opts.Retries)
	}
	if r.retryDelay <= 0 {
		r.retryDelay = DefaultRetryDelay
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r, nil
}

// Disabled returns a refiner that never calls a model.
func Disabled() *Refiner {
	r, _ := NewRefiner(Options{})
	return r
}

// Enabled reports whether the refiner calls a model.
func (r *Refiner) Enabled() bool { return r.enabled }

// Model returns the model name recorded in refined details.
func (r *Refiner) Model() string { return r.model }

// Eligible reports whether a finding is sent to the model.
func Eligible(f finding.Finding) bool {
	if f.Status == finding.StatusNeedsEvidence {
		return false
	}
	if value, ok := f.Detail("reference_detected"); ok && truthy(value) {
		return false
	}
	return true
}

// Refine returns a copy of flagged with up to MaxItems eligible findings replaced
// by their refined form. The output always has the input's length and order.
// Item failures keep the original finding and are returned aggregated.
func (r *Refiner) Refine(ctx context.Context, flagged []finding.Finding) ([]finding.Finding, error) {
	out := slices.Clone(flagged)
	if !r.enabled || len(out) == 0 {
		return out, nil
	}
	limit := min(len(out), r.maxItems)
	errs := make([]error, limit)

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i := 0; i < limit; i++ {
		if !Eligible(out[i]) {
			continue
		}
		g.Go(func() error {
			out[i], errs[i] = r.refineOne(ctx, out[i])
			return nil
		})
	}
	_ = g.Wait()

	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return out, result.ErrorOrNil()
}

func (r *Refiner) refineOne(ctx context.Context, f finding.Finding) (finding.Finding, error) {
	user, err := BuildPrompt(f)
	if err != nil {
		return f, fmt.Errorf("build prompt for %s row %d: %w", f.Sheet, f.RowIdx, err)
	}
	req := Request{Model: r.model, System: SystemPrompt, User: user}

	content, err := r.complete(ctx, req)
	if err != nil {
		r.logger.Warn("llm refinement failed",
			zap.String("sheet", f.Sheet), zap.Int("row_idx", f.RowIdx), zap.Error(err))
		return f.WithDetails(finding.Details{"llm_error": err.Error(), "llm_model": r.model}),
			fmt.Errorf("refine %s row %d: %w", f.Sheet, f.RowIdx, err)
	}
	return Apply(f, content, r.model), nil
}

// complete consults the cache, then the provider with retries.
func (r *Refiner) complete(ctx context.Context, req Request) (string, error) {
	key := CacheKey(req)
	if r.cache != nil {
		value, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn("llm cache read failed", zap.Error(err))
		} else if ok {
			r.logger.Debug("llm cache hit", zap.String("key", key))
			return value, nil
		}
	}

	var content string
	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			reply, err := r.provider.Complete(attemptCtx, req)
			if err != nil {
				return err
			}
			content = reply
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.retries),
		retry.Delay(r.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.logger.Debug("retrying llm call", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return "", err
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, key, content); err != nil {
			r.logger.Warn("llm cache write failed", zap.Error(err))
		}
	}
	return content, nil
}

// Apply merges a model reply into a finding. A reply that does not parse keeps
// the status and reason and records the raw text.
func Apply(f finding.Finding, content, model string) finding.Finding {
	content = strings.TrimSpace(content)
	resp, err := ParseResponse(content)
	if err != nil {
		return f.WithDetails(finding.Details{"llm_raw": content, "llm": true, "llm_model": model})
	}
	status := f.Status
	if resp.Status != "" {
		status = finding.Status(resp.Status)
	}
	reason := f.Reason
	if resp.Reason != "" {
		reason = resp.Reason
	}
	return f.WithRefinement(status, reason, finding.Details{
		"missing_points":   resp.MissingPoints,
		"customer_request": resp.CustomerRequest,
		"llm":              true,
		"llm_model":        model,
	})
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}
