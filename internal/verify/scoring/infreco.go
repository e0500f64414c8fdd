package scoring

import (
	"fmt"
	"math"

	"github.com/steveyegge/argcheck/internal/verify"
)

// firstArgument returns g's first argument, or nil if none exists.
func firstArgument(req *verify.Request, ctx Context, role string) (*verify.PrimaryData, int, int) {
	vd, g := ctx.Argdown(req, role)
	if g == nil || len(g.Arguments) == 0 {
		return vd, 0, 0
	}
	arg := g.Arguments[0]
	conclusions, premises := 0, 0
	for _, p := range arg.PCS {
		if p.IsConclusion {
			conclusions++
		} else {
			premises++
		}
	}
	return vd, conclusions, premises
}

// SubargumentsScorer scores the number of sub-arguments (intermediate
// conclusions) in the first reconstructed argument.
type SubargumentsScorer struct {
	Name string
	Ctx  Context
	Role string
}

func (s *SubargumentsScorer) ID() string { return "infreco_subarguments_scorer" }

func (s *SubargumentsScorer) Score(req *verify.Request) Result {
	id := s.Name + "." + s.ID()
	vd, conclusions, _ := firstArgument(req, s.Ctx, s.Role)
	if vd == nil {
		return Result{ScorerID: id, Message: "No argument reconstruction found; cannot compute sub-arguments score.", Score: 0}
	}
	score := 1 - math.Pow(0.5, float64(conclusions))
	return Result{
		ScorerID:              id,
		ScoringDataReferences: []string{vd.ID},
		Message:               fmt.Sprintf("Number of sub-arguments (intermediate conclusions) found: %d.", conclusions-1),
		Score:                 score,
		Details:               map[string]any{"intermediate_conclusion_count": conclusions - 1},
	}
}

// PremisesScorer scores the number of premises in the first reconstructed
// argument.
type PremisesScorer struct {
	Name string
	Ctx  Context
	Role string
}

func (s *PremisesScorer) ID() string { return "infreco_premises_scorer" }

func (s *PremisesScorer) Score(req *verify.Request) Result {
	id := s.Name + "." + s.ID()
	vd, _, premises := firstArgument(req, s.Ctx, s.Role)
	if vd == nil {
		return Result{ScorerID: id, Message: "No argument reconstruction found; cannot compute premises score.", Score: 0}
	}
	exp := premises - 1
	if exp < 0 {
		exp = 0
	}
	score := 1 - math.Pow(0.7, float64(exp))
	return Result{
		ScorerID:              id,
		ScoringDataReferences: []string{vd.ID},
		Message:               fmt.Sprintf("Number of premises found: %d.", premises),
		Score:                 score,
		Details:               map[string]any{"premises_count": exp},
	}
}

// FaithfulnessScorer scores the textual similarity between a reconstruction
// snippet and the source text. Shared by infreco/logreco (scorer_id varies
// by caller).
type FaithfulnessScorer struct {
	Name     string
	Ctx      Context
	Role     string
	ScorerID string
}

func (s *FaithfulnessScorer) ID() string { return s.ScorerID }

func (s *FaithfulnessScorer) Score(req *verify.Request) Result {
	id := s.Name + "." + s.ID()
	vd, g := s.Ctx.Argdown(req, s.Role)
	if g == nil || req.Source == "" {
		return Result{ScorerID: id, Message: "No reconstruction or source text found; cannot compute faithfulness score.", Score: 0}
	}
	similarity := textSimilarity(req.Source, vd.CodeSnippet)
	return Result{
		ScorerID:              id,
		ScoringDataReferences: []string{vd.ID},
		Message:               fmt.Sprintf("Reconstruction / source text similarity: %.2f.", similarity),
		Score:                 similarity,
	}
}
