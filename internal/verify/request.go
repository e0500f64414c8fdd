// Package verify holds the request/result data model and handler framework
// shared by every check family (arganno, argmap, infreco, logreco,
// coherence) and by the registry and dispatch layers built on top of it.
package verify

import "github.com/google/uuid"

// DType classifies a PrimaryData's parsed artifact kind.
type DType string

const (
	DTypeArgdown DType = "argdown"
	DTypeXML DType = "xml"
)

// PrimaryData is one extracted artifact: a fenced code block (or, in the
// no-fences fallback case, the whole input) together with its metadata and,
// once a parser handler has run, its typed artifact.
type PrimaryData struct {
	ID          string
	Dtype       DType
	CodeSnippet string
	Metadata    map[string]string

	// Data holds the parsed artifact: *argdown.Graph for DTypeArgdown,
	// *xmlanno.Document for DTypeXML. Nil until a parser handler succeeds.
	Data any
}

// Result is one executed check's outcome.
type Result struct {
	VerifierID                 string         `json:"verifier_id"`
	VerificationDataReferences []string       `json:"verification_data_references,omitempty"`
	IsValid                    bool           `json:"is_valid"`
	Message                    string         `json:"message,omitempty"`
	Details                    map[string]any `json:"details,omitempty"`
}

// Config carries the resolved, per-verifier options for one request. Unknown
// keys are rejected by the registry before a pipeline is built, so by the
// time a Request is constructed Config only ever holds recognized options.
type Config struct {
	FromKey             string
	FormalizationKey    string
	DeclarationsKey     string
	N                   int
	EnabledScorers      map[string]bool
	LegalArgumentLabels []string
	LegalRefRecoLabels  []string
	Raw                 map[string]any
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		FromKey: "from",
		FormalizationKey: "formalization",
		DeclarationsKey: "declarations",
		EnabledScorers: map[string]bool{},
	}
}

// Request is the single mutable state object threaded through a handler
// pipeline. A fresh Request is created by the dispatch service for every
// call to VerifySync/VerifyAsync.
type Request struct {
	RequestID string

	Inputs string
	Source string

	VerificationData []*PrimaryData
	Results          []Result
	Artifacts        map[string]any
	Config           Config

	ContinueProcessing bool
	ExecutedHandlers   []string

	executedSet map[string]bool
}

// NewRequest constructs a fresh Request ready to be handed to a pipeline.
func NewRequest(inputs, source string, cfg Config) *Request {
	return &Request{
		RequestID: uuid.NewString(),
		Inputs: inputs,
		Source: source,
		Config: cfg,
		Artifacts: map[string]any{},
		ContinueProcessing: true,
		executedSet: map[string]bool{},
	}
}

// MarkExecuted records that handler name ran, enforcing the "at most once"
// invariant . Returns false if name was already recorded.
func (r *Request) MarkExecuted(name string) bool {
	if r.executedSet == nil {
		r.executedSet = map[string]bool{}
	}
	if r.executedSet[name] {
		return false
	}
	r.executedSet[name] = true
	r.ExecutedHandlers = append(r.ExecutedHandlers, name)
	return true
}

// AddResult appends a Result to the request.
func (r *Request) AddResult(res Result) {
	r.Results = append(r.Results, res)
}

// IsValid reports whether every recorded result is valid (invariant).
func (r *Request) IsValid() bool {
	for _, res := range r.Results {
		if !res.IsValid {
			return false
		}
	}
	return true
}

// Merge folds other's results, artifacts, verification data and executed
// handlers into r, ANDing ContinueProcessing; on an artifact key present in
// both, other's value wins. Ported from VerificationRequest.merge_results in
// the Python original. The builders in this module assemble a single
// pipeline per verifier and do not call it.
func (r *Request) Merge(other *Request) {
	r.ContinueProcessing = r.ContinueProcessing && other.ContinueProcessing
	r.Results = append(r.Results, other.Results...)
	if r.Artifacts == nil {
		r.Artifacts = map[string]any{}
	}
	for k, v := range other.Artifacts {
		r.Artifacts[k] = v
	}
	r.VerificationData = append(r.VerificationData, other.VerificationData...)
	for _, h := range other.ExecutedHandlers {
		r.MarkExecuted(h)
	}
}
