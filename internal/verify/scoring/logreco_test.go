package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
)

func reqWithFormalizations(g *argdown.Graph, exprs map[string]map[string]string) *verify.Request {
	req := verify.NewRequest("", "", verify.DefaultConfig())
	vd := graphVD("vd1", g)
	req.VerificationData = []*verify.PrimaryData{vd}
	req.Results = append(req.Results, verify.Result{
		VerifierID:                 "LogReco.WellFormedFormulasHandler",
		VerificationDataReferences: []string{vd.ID},
		IsValid:                    true,
		Details: map[string]any{
			"all_expressions":  exprs,
			"all_declarations": map[string]map[string]string{},
		},
	})
	return req
}

func TestPredicateLogicScorer_NoExpressions(t *testing.T) {
	req := verify.NewRequest("", "", verify.DefaultConfig())
	s := &PredicateLogicScorer{Name: "LogReco"}
	res := s.Score(req)
	assert.Equal(t, 0.0, res.Score)
}

func TestPredicateLogicScorer_BareVariableFraction(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{{Label: "A"}}}
	exprs := map[string]map[string]string{
		"A": {"1": "p", "2": "p IMPLIES q", "3": "q"},
	}
	req := reqWithFormalizations(g, exprs)
	s := &PredicateLogicScorer{Name: "LogReco"}
	res := s.Score(req)
	assert.Equal(t, 2, res.Details["bare_variable_expressions"])
	assert.Equal(t, 3, res.Details["total_expressions"])
	assert.InDelta(t, 1.0/3.0, res.Score, 0.0001)
}

func TestHasConnective(t *testing.T) {
	assert.False(t, hasConnective("p"))
	assert.True(t, hasConnective("p IMPLIES q"))
	assert.True(t, hasConnective("NOT p"))
}

func TestTrivialityScorer_NoFormalizations(t *testing.T) {
	req := verify.NewRequest("", "", verify.DefaultConfig())
	s := &TrivialityScorer{Name: "LogReco", FromKey: "from"}
	res := s.Score(req)
	assert.Equal(t, 0.0, res.Score)
}

func TestTrivialityScorer_NoCheckableInferencesScoresOne(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{{Label: "A", PCS: []argdown.PCSItem{
		{Label: "1"},
	}}}}
	exprs := map[string]map[string]string{"A": {"1": "p"}}
	req := reqWithFormalizations(g, exprs)
	s := &TrivialityScorer{Name: "LogReco", FromKey: "from"}
	res := s.Score(req)
	assert.Equal(t, 1.0, res.Score)
}

func TestTrivialityScorer_DetectsTrivialConjunctionJoin(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{{
		Label: "A",
		PCS: []argdown.PCSItem{
			{Label: "1"},
			{Label: "2"},
			{Label: "3", IsConclusion: true, InferenceData: argdown.InlineData{"from": []string{"1", "2"}}},
		},
	}}}
	exprs := map[string]map[string]string{"A": {"1": "p", "2": "q", "3": "p AND q"}}
	req := reqWithFormalizations(g, exprs)
	s := &TrivialityScorer{Name: "LogReco", FromKey: "from"}
	res := s.Score(req)
	assert.Equal(t, 1, res.Details["trivial_inferences"])
	assert.Equal(t, 1, res.Details["checked_inferences"])
	assert.Equal(t, 0.0, res.Score)
}

func TestTrivialityScorer_NonTrivialInferenceScoresOne(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{{
		Label: "A",
		PCS: []argdown.PCSItem{
			{Label: "1"},
			{Label: "2"},
			{Label: "3", IsConclusion: true, InferenceData: argdown.InlineData{"from": []string{"1", "2"}}},
		},
	}}}
	exprs := map[string]map[string]string{"A": {"1": "p", "2": "p IMPLIES q", "3": "q"}}
	req := reqWithFormalizations(g, exprs)
	s := &TrivialityScorer{Name: "LogReco", FromKey: "from"}
	res := s.Score(req)
	assert.Equal(t, 0, res.Details["trivial_inferences"])
	assert.Equal(t, 1.0, res.Score)
}

func TestIsConjunctionJoin(t *testing.T) {
	assert.True(t, isConjunctionJoin("p AND q", []string{"p", "q"}))
	assert.True(t, isConjunctionJoin("q AND p", []string{"p", "q"}))
	assert.False(t, isConjunctionJoin("p IMPLIES q", []string{"p", "q"}))
	assert.False(t, isConjunctionJoin("p", []string{"p"}))
}
