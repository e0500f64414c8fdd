package argdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ArgumentWithGistOnly(t *testing.T) {
	g, err := Parse("<A>: Because the sky is blue.")
	require.NoError(t, err)
	require.Len(t, g.Arguments, 1)
	assert.Equal(t, "A", g.Arguments[0].Label)
	assert.Equal(t, []string{"Because the sky is blue"}, g.Arguments[0].Gists)
	assert.Empty(t, g.Arguments[0].PCS)
}

func TestParse_PropositionHeader(t *testing.T) {
	g, err := Parse("[C]: The sky is blue.")
	require.NoError(t, err)
	require.Len(t, g.Propositions, 1)
	assert.Equal(t, "C", g.Propositions[0].Label)
	assert.Equal(t, []string{"The sky is blue"}, g.Propositions[0].Texts)
}

func TestParse_PCSWithInference(t *testing.T) {
	snippet := "<A>\n" +
		"(1) All men are mortal.\n" +
		"(2) Socrates is a man.\n" +
		"-- {from: [\"1\", \"2\"]} --\n" +
		"(3) Socrates is mortal.\n"
	g, err := Parse(snippet)
	require.NoError(t, err)
	require.Len(t, g.Arguments, 1)
	a := g.Arguments[0]
	require.Len(t, a.PCS, 3)
	assert.Equal(t, "All men are mortal.", a.PCS[0].Text)
	assert.False(t, a.PCS[0].IsConclusion)
	final := a.FinalConclusion()
	require.NotNil(t, final)
	assert.True(t, final.IsConclusion)
	assert.Equal(t, "Socrates is mortal.", final.Text)
	require.NotNil(t, final.InferenceData)
	assert.Equal(t, []string{"1", "2"}, final.InferenceData["from"])
}

func TestParse_PCSItemWithAnnotationIDs(t *testing.T) {
	snippet := "<A>\n" +
		"(1) A premise. {annotation_ids: [\"p1\", \"p2\"]}\n"
	g, err := Parse(snippet)
	require.NoError(t, err)
	require.Len(t, g.Arguments[0].PCS, 1)
	assert.Equal(t, "A premise.", g.Arguments[0].PCS[0].Text)
	assert.Equal(t, []string{"p1", "p2"}, g.Arguments[0].PCS[0].AnnotationIDs)
}

func TestParse_MapArrowSupport(t *testing.T) {
	snippet := "[C]: Claim.\n" +
		"  <+ <A>: Because.\n"
	g, err := Parse(snippet)
	require.NoError(t, err)
	require.Len(t, g.Arguments, 1)
	require.Len(t, g.DialecticalRelations, 1)
	rel := g.DialecticalRelations[0]
	assert.Equal(t, "A", rel.Source)
	assert.Equal(t, "C", rel.Target)
	assert.Equal(t, Support, rel.Valence)
}

func TestParse_MapArrowAttack(t *testing.T) {
	snippet := "[C]: Claim.\n" +
		"  <- <A>: Against it.\n"
	g, err := Parse(snippet)
	require.NoError(t, err)
	require.Len(t, g.DialecticalRelations, 1)
	assert.Equal(t, Attack, g.DialecticalRelations[0].Valence)
}

func TestParse_NoRecognizableSyntax(t *testing.T) {
	_, err := Parse("just some prose, not argdown at all")
	assert.Error(t, err)
}

func TestParse_MultipleArguments(t *testing.T) {
	snippet := "<A>: First.\n\n<B>: Second.\n"
	g, err := Parse(snippet)
	require.NoError(t, err)
	require.Len(t, g.Arguments, 2)
	assert.Equal(t, "A", g.Arguments[0].Label)
	assert.Equal(t, "B", g.Arguments[1].Label)
}

func TestIntOrZero(t *testing.T) {
	assert.Equal(t, 3, IntOrZero("3"))
	assert.Equal(t, 0, IntOrZero("not a number"))
}

func TestGraph_Lookups(t *testing.T) {
	g := &Graph{
		Arguments:    []Argument{{Label: "A"}},
		Propositions: []Proposition{{Label: "C"}},
	}
	assert.NotNil(t, g.ArgumentByLabel("A"))
	assert.Nil(t, g.ArgumentByLabel("Z"))
	assert.NotNil(t, g.PropositionByLabel("C"))
	assert.Nil(t, g.PropositionByLabel("Z"))
}

func TestDialecticalRelation_Has(t *testing.T) {
	rel := DialecticalRelation{Dialectics: []Dialectics{Sketched}}
	assert.True(t, rel.Has(Sketched))
	assert.False(t, rel.Has(Grounded))
}
