package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
)

func graphVD(id string, g *argdown.Graph) *verify.PrimaryData {
	return &verify.PrimaryData{ID: id, Dtype: verify.DTypeArgdown, Data: g, CodeSnippet: "snippet"}
}

func TestMapSizeScorer_NoMap(t *testing.T) {
	req := verify.NewRequest("", "", verify.DefaultConfig())
	s := &MapSizeScorer{Name: "Argmap"}
	res := s.Score(req)
	assert.Equal(t, 0.0, res.Score)
}

func TestMapSizeScorer_SmallMapScoresZero(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{{Label: "A"}}, Propositions: []argdown.Proposition{{Label: "P"}}}
	req := verify.NewRequest("", "", verify.DefaultConfig())
	req.VerificationData = []*verify.PrimaryData{graphVD("vd1", g)}

	s := &MapSizeScorer{Name: "Argmap"}
	res := s.Score(req)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 2, res.Details["number_of_nodes"])
}

func TestMapSizeScorer_LargeMapFormula(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{
		{Label: "A"}, {Label: "B"}, {Label: "C"}, {Label: "D"}, {Label: "E"},
	}}
	req := verify.NewRequest("", "", verify.DefaultConfig())
	req.VerificationData = []*verify.PrimaryData{graphVD("vd1", g)}

	s := &MapSizeScorer{Name: "Argmap"}
	res := s.Score(req)
	assert.InDelta(t, 1-0.6*0.6, res.Score, 0.0001)
}

func TestDegreeCentrality_AveragedAndCapped(t *testing.T) {
	g := &argdown.Graph{
		Arguments: []argdown.Argument{{Label: "A"}, {Label: "B"}},
		DialecticalRelations: []argdown.DialecticalRelation{
			{Source: "A", Target: "B", Valence: argdown.Support},
			{Source: "A", Target: "B", Valence: argdown.Attack},
		},
	}
	c := degreeCentrality(g)
	assert.Equal(t, 2.0, c["A"])
	assert.Equal(t, 2.0, c["B"])
}

func TestMapDensityScorer_NoMap(t *testing.T) {
	req := verify.NewRequest("", "", verify.DefaultConfig())
	s := &MapDensityScorer{Name: "Argmap"}
	res := s.Score(req)
	assert.Equal(t, 0.0, res.Score)
}

func TestMapDensityScorer_CappedAtOne(t *testing.T) {
	g := &argdown.Graph{
		Arguments: []argdown.Argument{{Label: "A"}, {Label: "B"}},
		DialecticalRelations: []argdown.DialecticalRelation{
			{Source: "A", Target: "B", Valence: argdown.Support},
			{Source: "A", Target: "B", Valence: argdown.Attack},
		},
	}
	req := verify.NewRequest("", "", verify.DefaultConfig())
	req.VerificationData = []*verify.PrimaryData{graphVD("vd1", g)}

	s := &MapDensityScorer{Name: "Argmap"}
	res := s.Score(req)
	assert.Equal(t, 1.0, res.Score)
}

func TestTextSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, textSimilarity("", ""))
	assert.Equal(t, 1.0, textSimilarity("All men are mortal", "all men are mortal"))
	assert.InDelta(t, 0.5, textSimilarity("a b", "a c"), 0.0001)
}

func TestMapFaithfulnessScorer_NoSource(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{{Label: "A"}}}
	req := verify.NewRequest("", "", verify.DefaultConfig())
	req.VerificationData = []*verify.PrimaryData{graphVD("vd1", g)}

	s := &MapFaithfulnessScorer{Name: "Argmap"}
	res := s.Score(req)
	assert.Equal(t, 0.0, res.Score)
}

func TestMapFaithfulnessScorer_ComputesSimilarity(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{{Label: "A"}}}
	req := verify.NewRequest("socrates is mortal", "", verify.DefaultConfig())
	vd := graphVD("vd1", g)
	vd.CodeSnippet = "Socrates is mortal"
	req.VerificationData = []*verify.PrimaryData{vd}

	s := &MapFaithfulnessScorer{Name: "Argmap"}
	res := s.Score(req)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, []string{"vd1"}, res.ScoringDataReferences)
}
