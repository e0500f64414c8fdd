// Package dispatch wires the registry, extraction and parsing layers into a
// single entry point: given a verifier name, raw input text and a request
// config, it builds a pipeline, runs it end to end, and returns results and
// scores. It also exposes an async job-tracking surface for long-running
// verifications, and a Backend abstraction so the same VerifyInput/VerifyOutput
// shape can be served either in-process or over HTTP.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/verify/extract"
	"github.com/steveyegge/argcheck/internal/verify/registry"
	"github.com/steveyegge/argcheck/internal/verify/scoring"
)

// DefaultTimeout bounds how long a single VerifySync call may run before it
// fails with a TimeoutError, absent an explicit WithTimeout option.
const DefaultTimeout = 30 * time.Second

// DefaultMaxConcurrency bounds how many verifications may run at once,
// absent an explicit WithMaxConcurrency option.
const DefaultMaxConcurrency = 8

// VerifyInput is everything one verification call needs.
type VerifyInput struct {
	Verifier string         `json:"verifier"`
	Inputs   string         `json:"inputs"`
	Source   string         `json:"source,omitempty"`
	Config   map[string]any `json:"config,omitempty"`
}

// VerifyOutput is the result of running one verification to completion.
type VerifyOutput struct {
	RequestID        string           `json:"request_id"`
	Verifier         string           `json:"verifier"`
	Valid            bool             `json:"valid"`
	Results          []verify.Result  `json:"results"`
	Scores           []scoring.Result `json:"scores,omitempty"`
	ExecutedHandlers []string         `json:"executed_handlers"`
}

// Service is the local verification backend: it resolves a named verifier
// out of a registry, builds its pipeline against the request's filters and
// config, and runs it against freshly extracted and parsed inputs.
type Service struct {
	registry  *registry.Registry
	logger    *slog.Logger
	sem       *semaphore.Weighted
	timeout   time.Duration
	jobsStore *jobStore
}

// Option configures a Service at construction time.
type Option func(*Service)

// WithMaxConcurrency bounds the number of verifications the Service runs at
// once; excess callers block in VerifySync until a slot frees up.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) { s.sem = semaphore.NewWeighted(int64(n)) }
}

// WithTimeout overrides the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// NewService builds a Service around reg. logger defaults to slog.Default.
func NewService(reg *registry.Registry, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		registry:  reg,
		logger:    logger,
		sem:       semaphore.NewWeighted(DefaultMaxConcurrency),
		timeout:   DefaultTimeout,
		jobsStore: newJobStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the underlying registry, for listing/describing verifiers.
func (s *Service) Registry() *registry.Registry { return s.registry }

// VerifySync builds and runs one verification to completion, blocking until
// it finishes, fails validation, or exceeds the service's timeout.
func (s *Service) VerifySync(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	builder, err := s.registry.Get(in.Verifier)
	if err != nil {
		return nil, err
	}
	info := builder.Info()

	filters, rawRest, err := splitConfig(in.Config)
	if err != nil {
		return nil, &verify.InvalidConfigError{Message: err.Error()}
	}
	if bad := filters.Validate(info.AllowedFilterRoles); len(bad) > 0 {
		return nil, &verify.InvalidFilterError{
			Message:      fmt.Sprintf("verifier %q does not accept filter roles %v", in.Verifier, bad),
			InvalidRoles: bad,
		}
	}
	if bad := builder.ValidateConfig(rawRest); len(bad) > 0 {
		return nil, &verify.InvalidConfigError{
			Message:        fmt.Sprintf("verifier %q does not accept config keys %v", in.Verifier, bad),
			InvalidOptions: bad,
		}
	}

	built, err := builder.Build(s.logger, registry.BuildOptions{Filters: filters, Raw: rawRest})
	if err != nil {
		return nil, fmt.Errorf("building pipeline for verifier %q: %w", in.Verifier, err)
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for a worker slot for verifier %q: %w", in.Verifier, err)
	}
	defer s.sem.Release(1)

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cfg := verify.DefaultConfig()
	cfg.Raw = rawRest
	req := verify.NewRequest(in.Inputs, in.Source, cfg)
	req.VerificationData = extract.Extract(in.Inputs)

	type outcome struct {
		req    *verify.Request
		scores []scoring.Result
	}
	requestID := req.RequestID
	started := time.Now()

	done := make(chan outcome, 1)
	go func() {
		processed := verify.NewParseHandler(s.logger).Process(req)
		processed = built.Pipeline.Process(processed)
		composite := &scoring.Composite{CompositeHandler: built.Pipeline, Scorers: built.Scorers}
		done <- outcome{req: processed, scores: composite.Score(processed)}
	}()

	select {
	case <-runCtx.Done():
		s.logger.Warn("verification timed out",
			"request_id", requestID, "verifier", in.Verifier, "elapsed", time.Since(started))
		return nil, &verify.TimeoutError{RequestID: requestID, Timeout: s.timeout.String()}
	case out := <-done:
		valid := out.req.IsValid()
		s.logger.Info("verification complete",
			"request_id", requestID, "verifier", in.Verifier, "elapsed", time.Since(started), "is_valid", valid)
		return &VerifyOutput{
			RequestID:        out.req.RequestID,
			Verifier:         in.Verifier,
			Valid:            valid,
			Results:          out.req.Results,
			Scores:           out.scores,
			ExecutedHandlers: out.req.ExecutedHandlers,
		}, nil
	}
}
