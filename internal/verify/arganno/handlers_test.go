package arganno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/xmlanno"
)

func newReq(t *testing.T, source string, doc *xmlanno.Document) *verify.Request {
	t.Helper()
	req := verify.NewRequest("", source, verify.DefaultConfig())
	req.VerificationData = []*verify.PrimaryData{{ID: "vd1", Dtype: verify.DTypeXML, Data: doc}}
	return req
}

func runOne(t *testing.T, h *Handler, req *verify.Request) *verify.Result {
	t.Helper()
	h.Process(req)
	require.Len(t, req.Results, 1)
	return &req.Results[0]
}

func TestSourceTextIntegrity_ExactMatch(t *testing.T) {
	source := "Hello World, this is fine."
	doc := &xmlanno.Document{PlainText: source}
	res := runOne(t, NewSourceTextIntegrity(nil, nil), newReq(t, source, doc))
	assert.True(t, res.IsValid)
}

func TestSourceTextIntegrity_WhitespaceSymmetric(t *testing.T) {
	// Reflowed with different inter-word spacing/line-wrapping must still
	// compare equal: whitespace is never significant.
	source := "Hello World"
	doc := &xmlanno.Document{PlainText: "Hello\n   World"}
	res := runOne(t, NewSourceTextIntegrity(nil, nil), newReq(t, source, doc))
	assert.True(t, res.IsValid, "%+v", res)
}

func TestSourceTextIntegrity_GenuineDeviation(t *testing.T) {
	source := "Hello World, this is fine."
	doc := &xmlanno.Document{PlainText: "Something entirely different here today."}
	res := runOne(t, NewSourceTextIntegrity(nil, nil), newReq(t, source, doc))
	assert.False(t, res.IsValid)
}

func TestSourceTextIntegrity_EmptySource(t *testing.T) {
	doc := &xmlanno.Document{PlainText: "whatever"}
	res := runOne(t, NewSourceTextIntegrity(nil, nil), newReq(t, "", doc))
	assert.True(t, res.IsValid)
}

func TestSourceTextIntegrity_RelaxedMode_InOrder(t *testing.T) {
	words := make([]string, 0, 210)
	for i := 0; i < 210; i++ {
		words = append(words, "word")
	}
	source := ""
	for i, w := range words {
		if i > 0 {
			source += " "
		}
		source += w
	}
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{
		{ID: "p1", Text: "word word"},
	}}
	res := runOne(t, NewSourceTextIntegrity(nil, nil), newReq(t, source, doc))
	assert.True(t, res.IsValid, "%+v", res)
}

func TestSourceTextIntegrity_RelaxedMode_NotFound(t *testing.T) {
	words := make([]string, 0, 210)
	for i := 0; i < 210; i++ {
		words = append(words, "word")
	}
	source := ""
	for i, w := range words {
		if i > 0 {
			source += " "
		}
		source += w
	}
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{
		{ID: "p1", Text: "not present anywhere"},
	}}
	res := runOne(t, NewSourceTextIntegrity(nil, nil), newReq(t, source, doc))
	assert.False(t, res.IsValid)
}

func TestNestedPropositions_Valid(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1"}}}
	res := runOne(t, NewNestedPropositions(nil, nil), newReq(t, "", doc))
	assert.True(t, res.IsValid)
}

func TestNestedPropositions_Invalid(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1", Nested: true}}}
	res := runOne(t, NewNestedPropositions(nil, nil), newReq(t, "", doc))
	assert.False(t, res.IsValid)
}

func TestPropositionIdPresence_Valid(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1"}}}
	res := runOne(t, NewPropositionIdPresence(nil, nil), newReq(t, "", doc))
	assert.True(t, res.IsValid)
}

func TestPropositionIdPresence_Missing(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: ""}}}
	res := runOne(t, NewPropositionIdPresence(nil, nil), newReq(t, "", doc))
	assert.False(t, res.IsValid)
}

func TestPropositionIdUniqueness_Valid(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1"}, {ID: "p2"}}}
	res := runOne(t, NewPropositionIdUniqueness(nil, nil), newReq(t, "", doc))
	assert.True(t, res.IsValid)
}

func TestPropositionIdUniqueness_Duplicate(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1"}, {ID: "p1"}}}
	res := runOne(t, NewPropositionIdUniqueness(nil, nil), newReq(t, "", doc))
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "p1")
}

func TestSupportReferenceValidity_Valid(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{
		{ID: "p1"}, {ID: "p2", Supports: []string{"p1"}},
	}}
	res := runOne(t, NewSupportReferenceValidity(nil, nil), newReq(t, "", doc))
	assert.True(t, res.IsValid)
}

func TestSupportReferenceValidity_DanglingRef(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{
		{ID: "p2", Supports: []string{"missing"}},
	}}
	res := runOne(t, NewSupportReferenceValidity(nil, nil), newReq(t, "", doc))
	assert.False(t, res.IsValid)
}

func TestAttackReferenceValidity_DanglingRef(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{
		{ID: "p2", Attacks: []string{"missing"}},
	}}
	res := runOne(t, NewAttackReferenceValidity(nil, nil), newReq(t, "", doc))
	assert.False(t, res.IsValid)
}

func TestAttributeValidity_Valid(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1"}}}
	res := runOne(t, NewAttributeValidity(nil, nil), newReq(t, "", doc))
	assert.True(t, res.IsValid)
}

func TestAttributeValidity_Disallowed(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1", UnknownAttrs: []string{"bogus"}}}}
	res := runOne(t, NewAttributeValidity(nil, nil), newReq(t, "", doc))
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "bogus")
}

func TestElementValidity_Valid(t *testing.T) {
	doc := &xmlanno.Document{}
	res := runOne(t, NewElementValidity(nil, nil), newReq(t, "", doc))
	assert.True(t, res.IsValid)
}

func TestElementValidity_Disallowed(t *testing.T) {
	doc := &xmlanno.Document{UnknownElements: []string{"bogus"}}
	res := runOne(t, NewElementValidity(nil, nil), newReq(t, "", doc))
	assert.False(t, res.IsValid)
}

func TestArgumentLabelValidity_SkippedWhenNoLegalLabels(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1", ArgumentLabel: "A"}}}
	req := newReq(t, "", doc)
	h := NewArgumentLabelValidity(nil, nil, nil)
	h.Process(req)
	assert.Empty(t, req.Results)
}

func TestArgumentLabelValidity_Invalid(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1", ArgumentLabel: "Unknown"}}}
	req := newReq(t, "", doc)
	h := NewArgumentLabelValidity(nil, nil, []string{"A"})
	res := runOne(t, h, req)
	assert.False(t, res.IsValid)
}

func TestArgumentLabelValidity_Valid(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1", ArgumentLabel: "A"}}}
	req := newReq(t, "", doc)
	h := NewArgumentLabelValidity(nil, nil, []string{"A"})
	res := runOne(t, h, req)
	assert.True(t, res.IsValid)
}

func TestRefRecoLabelValidity_Invalid(t *testing.T) {
	doc := &xmlanno.Document{Propositions: []xmlanno.Proposition{{ID: "p1", RefRecoLabel: "Unknown"}}}
	req := newReq(t, "", doc)
	h := NewRefRecoLabelValidity(nil, nil, []string{"R"})
	res := runOne(t, h, req)
	assert.False(t, res.IsValid)
}

func TestComposite_AllValid(t *testing.T) {
	source := "A claim supported by another."
	doc := &xmlanno.Document{
		PlainText:    source,
		Propositions: []xmlanno.Proposition{{ID: "p1"}, {ID: "p2", Supports: []string{"p1"}}},
	}
	req := newReq(t, source, doc)
	composite := NewComposite(nil, nil, nil, nil)
	composite.Process(req)
	// The two optional label-validity checks are skipped (no Result) when no
	// legal labels are configured, so only the eight default checks report.
	require.Len(t, req.Results, 8)
	assert.True(t, req.IsValid(), "%+v", req.Results)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("abc", "abc"))
	assert.Equal(t, 1, levenshtein("abc", "abd"))
	assert.Equal(t, 3, levenshtein("", "abc"))
}
