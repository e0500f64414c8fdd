// Package scoring implements the virtue-scoring layer: side-effect
// free evaluators that run only on requests where every check already
// passed, producing a numeric score plus diagnostic details alongside the
// pass/fail Results.
package scoring

import (
	"strings"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/xmlanno"
)

// Result is one scorer's output.
type Result struct {
	ScorerID              string         `json:"scorer_id"`
	ScoringDataReferences []string       `json:"scoring_data_references,omitempty"`
	Message               string         `json:"message,omitempty"`
	Score                 float64        `json:"score"`
	Details               map[string]any `json:"details,omitempty"`
}

// Scorer evaluates an already-valid Request and produces a Result.
type Scorer interface {
	ID() string
	Score(req *verify.Request) Result
}

// Context bundles the lookup helpers every concrete scorer needs to locate
// its inputs within a finished Request, mirroring BaseScorer's
// get_argdown/get_xml_soup/get_formalizations convenience methods.
type Context struct {
	Filters map[string]verify.VDFilter
}

func (c Context) filterFor(roles []string) verify.VDFilter {
	return func(vd *verify.PrimaryData) bool {
		for _, role := range roles {
			if f, ok := c.Filters[role]; ok && !f(vd) {
				return false
			}
		}
		return true
	}
}

// Argdown returns the last argdown PrimaryData that passes the filter of
// every role in roles that has one configured (the verifier's own
// applicable scope, default argmap/infreco/logreco) and its parsed graph.
func (c Context) Argdown(req *verify.Request, roles ...string) (*verify.PrimaryData, *argdown.Graph) {
	if len(roles) == 0 {
		roles = []string{"argmap", "infreco", "logreco"}
	}
	filter := c.filterFor(roles)
	var found *verify.PrimaryData
	for _, vd := range req.VerificationData {
		if vd.Dtype != verify.DTypeArgdown || vd.Data == nil || !filter(vd) {
			continue
		}
		found = vd
	}
	if found == nil {
		return nil, nil
	}
	g, _ := found.Data.(*argdown.Graph)
	return found, g
}

// XML returns the last xml PrimaryData matching the "arganno" role and its
// parsed document.
func (c Context) XML(req *verify.Request) (*verify.PrimaryData, *xmlanno.Document) {
	filter := c.filterFor([]string{"arganno"})
	var found *verify.PrimaryData
	for _, vd := range req.VerificationData {
		if vd.Dtype != verify.DTypeXML || vd.Data == nil || !filter(vd) {
			continue
		}
		found = vd
	}
	if found == nil {
		return nil, nil
	}
	doc, _ := found.Data.(*xmlanno.Document)
	return found, doc
}

// Formalizations recovers the all_expressions/all_declarations maps stashed
// by LogReco.WellFormedFormulasHandler in its Result.Details, keyed by
// argument label, since scorers that need formalization text can't re-parse
// the source's inline data format themselves.
func (c Context) Formalizations(req *verify.Request, roles ...string) (map[string]map[string]string, map[string]map[string]string) {
	vd, _ := c.Argdown(req, roles...)
	if vd == nil {
		return nil, nil
	}
	for _, res := range req.Results {
		if !strings.Contains(res.VerifierID, "WellFormedFormulasHandler") {
			continue
		}
		if len(res.VerificationDataReferences) != 1 || res.VerificationDataReferences[0] != vd.ID {
			continue
		}
		exprs, _ := res.Details["all_expressions"].(map[string]map[string]string)
		decls, _ := res.Details["all_declarations"].(map[string]map[string]string)
		return exprs, decls
	}
	return nil, nil
}

// Composite wraps a CompositeHandler's verification pipeline with a set of
// scorers run only when the finished Request is valid.
type Composite struct {
	*verify.CompositeHandler
	Scorers []Scorer
}

// Score runs every scorer over req if and only if req.IsValid(); mirrors
// ScorerCompositeHandler.score.
func (c *Composite) Score(req *verify.Request) []Result {
	if !req.IsValid() {
		return nil
	}
	out := make([]Result, 0, len(c.Scorers))
	for _, s := range c.Scorers {
		out = append(out, s.Score(req))
	}
	return out
}
