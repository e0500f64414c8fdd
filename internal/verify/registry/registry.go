// Package registry implements the verifier registry and builder pattern: a
// fixed set of named builders, each declaring its input types, allowed
// filter roles, config options and scorer set, and each capable of
// assembling a ready-to-run handler pipeline plus scorers from a request's
// filters and config.
package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/verify/scoring"
)

// ConfigOption describes one recognized config key for a verifier.
type ConfigOption struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "bool", "string", "int"
	Default     any    `json:"default"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

// Info is the API-facing description of a registered verifier.
type Info struct {
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	InputTypes          []string       `json:"input_types"`
	AllowedFilterRoles  []string       `json:"allowed_filter_roles"`
	ConfigOptions       []ConfigOption `json:"config_options,omitempty"`
	IsCoherenceVerifier bool           `json:"is_coherence_verifier,omitempty"`
}

// BuildOptions carries the resolved request-level inputs a Builder needs:
// parsed role filters, and the verifier-specific options drawn from the
// request's config map after "filters" has been popped out.
type BuildOptions struct {
	Filters verify.RoleFilters
	Raw     map[string]any
}

// Built is what a Builder.Build call returns: the assembled pipeline plus
// its scorers, ready to run against a fresh *verify.Request.
type Built struct {
	Pipeline *verify.CompositeHandler
	Scorers  []scoring.Scorer
}

// Builder is the per-verifier assembly interface.
type Builder interface {
	Info() Info
	Build(logger *slog.Logger, opts BuildOptions) (*Built, error)
	ValidateFilters(roles []string) []string
	ValidateConfig(config map[string]any) []string
}

// BaseBuilder implements the option-validation bookkeeping shared by every
// concrete Builder, mirroring AbstractVerifierBuilder's validate_filters /
// validate_config.
type BaseBuilder struct {
	InfoValue Info
}

func (b BaseBuilder) Info() Info { return b.InfoValue }

func (b BaseBuilder) ValidateFilters(roles []string) []string {
	allowed := map[string]bool{}
	for _, r := range b.InfoValue.AllowedFilterRoles {
		allowed[r] = true
	}
	var invalid []string
	for _, r := range roles {
		if !allowed[r] {
			invalid = append(invalid, r)
		}
	}
	return invalid
}

func (b BaseBuilder) ValidateConfig(config map[string]any) []string {
	valid := map[string]bool{"filters": true}
	for _, opt := range b.InfoValue.ConfigOptions {
		valid[opt.Name] = true
	}
	var invalid []string
	for k := range config {
		if !valid[k] {
			invalid = append(invalid, k)
		}
	}
	return invalid
}

// enabledScorerOption synthesizes the "enable_<scorer_id>" config option
// every builder auto-adds for each of its scorer classes.
func enabledScorerOption(scorerID string) ConfigOption {
	return ConfigOption{
		Name: "enable_" + scorerID,
		Type: "bool",
		Default: false,
		Description: "Enable scoring of " + scorerID,
	}
}

func scorerEnabled(raw map[string]any, scorerID string) bool {
	v, ok := raw["enable_"+scorerID]
	if !ok {
		return false // matches the declared Default of enabledScorerOption
	}
	b, _ := v.(bool)
	return b
}

// Registry is a read-only-after-construction map of verifier name ->
// Builder, matching the sync.RWMutex-guarded registry shape used for
// named-component registries throughout this module.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{builders: map[string]Builder{}}
}

// Register adds a builder under name. Returns an error if name is already
// registered; registration happens once at startup.
func (r *Registry) Register(name string, b Builder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.builders[name]; exists {
		return fmt.Errorf("verifier %q already registered", name)
	}
	r.builders[name] = b
	return nil
}

// Get returns the builder registered under name, or a VerifierNotFoundError.
func (r *Registry) Get(name string) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, exists := r.builders[name]
	if !exists {
		return nil, &verify.VerifierNotFoundError{Name: name, Available: r.namesLocked()}
	}
	return b, nil
}

// Names lists every registered verifier name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	out := make([]string, 0, len(r.builders))
	for name := range r.builders {
		out = append(out, name)
	}
	return out
}

// Info returns the VerifierInfo for name, or a VerifierNotFoundError.
func (r *Registry) Info(name string) (Info, error) {
	b, err := r.Get(name)
	if err != nil {
		return Info{}, err
	}
	return b.Info(), nil
}

// Grouped returns every builder's Info grouped into core/coherence/content_check
// categories, per GET /api/v1/verifiers.
func (r *Registry) Grouped() (core, coherence, contentCheck []Info) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, b := range r.builders {
		info := b.Info()
		switch {
		case len(name) >= 4 && name[:4] == "has_":
			contentCheck = append(contentCheck, info)
		case info.IsCoherenceVerifier:
			coherence = append(coherence, info)
		default:
			core = append(core, info)
		}
	}
	return
}
