package coherence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/xmlanno"
)

func newCoherenceReq(t *testing.T, doc *xmlanno.Document, g *argdown.Graph) *verify.Request {
	t.Helper()
	req := verify.NewRequest("", "", verify.DefaultConfig())
	if doc != nil {
		req.VerificationData = append(req.VerificationData, &verify.PrimaryData{ID: "anno", Dtype: verify.DTypeXML, Data: doc})
	}
	if g != nil {
		req.VerificationData = append(req.VerificationData, &verify.PrimaryData{ID: "reco", Dtype: verify.DTypeArgdown, Data: g})
	}
	return req
}

func TestArgannoRecoElements_Valid(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{
		{ID: "p1", ArgumentLabel: "A", RefRecoLabel: "1"},
	}}
	g := &argdown.Graph{Arguments: []argdown.Argument{
		{Label: "A", PCS: []argdown.PCSItem{{Label: "1", AnnotationIDs: []string{"p1"}}}},
	}}
	req := newCoherenceReq(t, doc, g)
	h := NewArgannoRecoElements("Coherence.ArgannoReco.Elements", nil, nil, nil)
	h.Process(req)

	require.Len(t, req.Results, 1)
	assert.True(t, req.Results[0].IsValid, "%+v", req.Results[0])
}

func TestArgannoRecoElements_UnknownArgumentLabel(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{
		{ID: "p1", ArgumentLabel: "Z", RefRecoLabel: "1"},
	}}
	g := &argdown.Graph{Arguments: []argdown.Argument{{Label: "A"}}}
	req := newCoherenceReq(t, doc, g)
	h := NewArgannoRecoElements("Coherence.ArgannoReco.Elements", nil, nil, nil)
	h.Process(req)

	require.Len(t, req.Results, 1)
	assert.False(t, req.Results[0].IsValid)
}

func TestArgannoRecoElements_DuplicateAnnotationReference(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1"}}}
	g := &argdown.Graph{Arguments: []argdown.Argument{
		{Label: "A", PCS: []argdown.PCSItem{
			{Label: "1", AnnotationIDs: []string{"p1"}},
			{Label: "2", AnnotationIDs: []string{"p1"}},
		}},
	}}
	req := newCoherenceReq(t, doc, g)
	h := NewArgannoRecoElements("Coherence.ArgannoReco.Elements", nil, nil, nil)
	h.Process(req)

	require.Len(t, req.Results, 1)
	assert.False(t, req.Results[0].IsValid)
	assert.Contains(t, req.Results[0].Message, "more than one PCS step")
}

func TestArgannoRecoElements_SkippedWhenDataMissing(t *testing.T) {
	req := newCoherenceReq(t, nil, &argdown.Graph{})
	h := NewArgannoRecoElements("Coherence.ArgannoReco.Elements", nil, nil, nil)
	h.Process(req)
	assert.Empty(t, req.Results)
}

func TestArgannoRecoRelations_ValidSupport(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{
		{ID: "p1", Supports: []string{"p2"}},
		{ID: "p2"},
	}}
	g := &argdown.Graph{Arguments: []argdown.Argument{
		{Label: "A", PCS: []argdown.PCSItem{
			{Label: "1", AnnotationIDs: []string{"p1"}},
			{Label: "2", IsConclusion: true, AnnotationIDs: []string{"p2"},
				InferenceData: argdown.InlineData{"from": []string{"1"}}},
		}},
	}}
	req := newCoherenceReq(t, doc, g)
	h := NewArgannoRecoRelations("Coherence.ArgannoReco.Relations", nil, nil, nil, "from")
	h.Process(req)

	require.Len(t, req.Results, 1)
	assert.True(t, req.Results[0].IsValid, "%+v", req.Results[0])
}

func TestArgannoRecoRelations_MissingInferentialPath(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{
		{ID: "p1", Supports: []string{"p2"}},
		{ID: "p2"},
	}}
	g := &argdown.Graph{Arguments: []argdown.Argument{
		{Label: "A", PCS: []argdown.PCSItem{
			{Label: "1", AnnotationIDs: []string{"p1"}},
			{Label: "2", IsConclusion: true, AnnotationIDs: []string{"p2"}},
		}},
	}}
	req := newCoherenceReq(t, doc, g)
	h := NewArgannoRecoRelations("Coherence.ArgannoReco.Relations", nil, nil, nil, "from")
	h.Process(req)

	require.Len(t, req.Results, 1)
	assert.False(t, req.Results[0].IsValid)
}

func TestArgannoRecoRelations_ValidAttack(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{
		{ID: "p1", Attacks: []string{"p2"}},
		{ID: "p2"},
	}}
	g := &argdown.Graph{
		Arguments: []argdown.Argument{
			{Label: "A", PCS: []argdown.PCSItem{{Label: "1", AnnotationIDs: []string{"p1"}}}},
			{Label: "B", PCS: []argdown.PCSItem{{Label: "1", AnnotationIDs: []string{"p2"}}}},
		},
		DialecticalRelations: []argdown.DialecticalRelation{
			{Source: "A", Target: "B", Valence: argdown.Attack},
		},
	}
	req := newCoherenceReq(t, doc, g)
	h := NewArgannoRecoRelations("Coherence.ArgannoReco.Relations", nil, nil, nil, "from")
	h.Process(req)

	require.Len(t, req.Results, 1)
	assert.True(t, req.Results[0].IsValid, "%+v", req.Results[0])
}
