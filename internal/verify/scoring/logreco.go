package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/steveyegge/argcheck/internal/verify"
)

// PredicateLogicScorer scores the proportion of formalizations that go
// beyond a single bare propositional variable, i.e. actually use a
// connective, rewarding non-trivial formalizations. This is the propositional-
// connective analogue of the source's predicate-vs-propositional-variable
// check, since this module's formula language has no quantifiers (see
// DESIGN.md).
type PredicateLogicScorer struct {
	Name string
	Ctx  Context
	Role string
}

func (s *PredicateLogicScorer) ID() string { return "logreco_predicate_logic_scorer" }

func (s *PredicateLogicScorer) Score(req *verify.Request) Result {
	id := s.Name + "." + s.ID()
	exprs, _ := s.Ctx.Formalizations(req, s.Role)
	total, bare := 0, 0
	for _, byProp := range exprs {
		for _, expr := range byProp {
			total++
			if !hasConnective(expr) {
				bare++
			}
		}
	}
	if total == 0 {
		return Result{ScorerID: id, Message: "No logical expressions found; cannot compute predicate logic score.", Score: 0}
	}
	score := 1 - float64(bare)/float64(total)
	return Result{
		ScorerID: id,
		Message:  fmt.Sprintf("Found %d out of %d expressions using only a bare propositional variable.", bare, total),
		Score:    score,
		Details:  map[string]any{"bare_variable_expressions": bare, "total_expressions": total},
	}
}

func hasConnective(expr string) bool {
	for _, tok := range strings.Fields(expr) {
		switch strings.ToUpper(tok) {
		case "AND", "OR", "NOT", "IMPLIES", "&", "|", "!", "->":
			return true
		}
	}
	return false
}

// TrivialityScorer penalizes inferences whose conclusion is merely the
// conjunction of all of its referenced premises joined by AND, since that
// pattern proves nothing was actually deduced.
type TrivialityScorer struct {
	Name    string
	Ctx     Context
	Role    string
	FromKey string
}

func (s *TrivialityScorer) ID() string { return "logreco_triviality_scorer" }

func (s *TrivialityScorer) Score(req *verify.Request) Result {
	id := s.Name + "." + s.ID()
	vd, g := s.Ctx.Argdown(req, s.Role)
	exprs, _ := s.Ctx.Formalizations(req, s.Role)
	if g == nil || len(g.Arguments) == 0 || exprs == nil {
		return Result{ScorerID: id, Message: "No formalizations or argument found; cannot compute triviality score.", Score: 0}
	}
	arg := g.Arguments[0]
	argExprs := exprs[arg.Label]
	if argExprs == nil {
		return Result{ScorerID: id, Message: "No formalizations found for the first argument; cannot compute triviality score.", Score: 0}
	}

	trivialCount, checked := 0, 0
	for _, c := range arg.PCS {
		if !c.IsConclusion {
			continue
		}
		concExpr, ok := argExprs[c.Label]
		if !ok {
			continue
		}
		refs, has := c.InferenceData[s.FromKey]
		var labels []string
		switch v := refs.(type) {
		case []string:
			labels = v
		case string:
			labels = []string{v}
		}
		if !has || len(labels) == 0 {
			continue
		}
		var premiseParts []string
		for _, lbl := range labels {
			if e, ok := argExprs[lbl]; ok {
				premiseParts = append(premiseParts, strings.TrimSpace(e))
			}
		}
		checked++
		if isConjunctionJoin(concExpr, premiseParts) {
			trivialCount++
		}
	}

	if checked == 0 {
		return Result{ScorerID: id, ScoringDataReferences: []string{vd.ID}, Message: "No inferences with formalizations to check for triviality.", Score: 1}
	}
	score := 1 - float64(trivialCount)/float64(checked)
	return Result{
		ScorerID:              id,
		ScoringDataReferences: []string{vd.ID},
		Message:               fmt.Sprintf("Found %d out of %d inferences that are trivial premise conjunctions.", trivialCount, checked),
		Score:                 score,
		Details:               map[string]any{"trivial_inferences": trivialCount, "checked_inferences": checked},
	}
}

// isConjunctionJoin reports whether conclusion is (up to ordering and
// whitespace) the AND-join of parts.
func isConjunctionJoin(conclusion string, parts []string) bool {
	if len(parts) < 2 {
		return false
	}
	want := make([]string, len(parts))
	copy(want, parts)
	sort.Strings(want)

	got := strings.Split(conclusion, "AND")
	for i, p := range got {
		got[i] = strings.Trim(strings.TrimSpace(p), "()")
	}
	sort.Strings(got)
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
