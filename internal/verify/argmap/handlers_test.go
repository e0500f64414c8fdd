package argmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
)

func run(t *testing.T, h *Handler, g *argdown.Graph) *verify.Result {
	t.Helper()
	req := verify.NewRequest("", "", verify.DefaultConfig())
	vd := &verify.PrimaryData{ID: "vd1", Dtype: verify.DTypeArgdown, Data: g}
	req.VerificationData = []*verify.PrimaryData{vd}
	h.Process(req)
	require.Len(t, req.Results, 1)
	return &req.Results[0]
}

func TestCompleteClaims_Valid(t *testing.T) {
	g := &argdown.Graph{Propositions: []argdown.Proposition{{Label: "C", Texts: []string{"A claim."}}}}
	res := run(t, NewCompleteClaims(nil, nil), g)
	assert.True(t, res.IsValid)
}

func TestCompleteClaims_MissingText(t *testing.T) {
	g := &argdown.Graph{Propositions: []argdown.Proposition{{Label: "C", Texts: nil}}}
	res := run(t, NewCompleteClaims(nil, nil), g)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "[C]")
}

func TestCompleteClaims_AutoGeneratedLabel(t *testing.T) {
	g := &argdown.Graph{Propositions: []argdown.Proposition{{Label: "1", Texts: []string{"text"}}}}
	res := run(t, NewCompleteClaims(nil, nil), g)
	assert.False(t, res.IsValid)
}

func TestNoDuplicateLabels_Valid(t *testing.T) {
	g := &argdown.Graph{
		Propositions: []argdown.Proposition{{Label: "C", Texts: []string{"same"}}},
		Arguments:    []argdown.Argument{{Label: "A", Gists: []string{"gist"}}},
	}
	res := run(t, NewNoDuplicateLabels(nil, nil), g)
	assert.True(t, res.IsValid)
}

func TestNoDuplicateLabels_DuplicatePropositionText(t *testing.T) {
	g := &argdown.Graph{Propositions: []argdown.Proposition{{Label: "C", Texts: []string{"one", "two"}}}}
	res := run(t, NewNoDuplicateLabels(nil, nil), g)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "[C]")
}

func TestNoDuplicateLabels_DuplicateArgumentGist(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{{Label: "A", Gists: []string{"one", "two"}}}}
	res := run(t, NewNoDuplicateLabels(nil, nil), g)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "<A>")
}

func TestNoPCS_Valid(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{{Label: "A", Gists: []string{"gist"}}}}
	res := run(t, NewNoPCS(nil, nil), g)
	assert.True(t, res.IsValid)
}

func TestNoPCS_Invalid(t *testing.T) {
	g := &argdown.Graph{Arguments: []argdown.Argument{{Label: "A", PCS: []argdown.PCSItem{{Label: "1", Text: "premise"}}}}}
	res := run(t, NewNoPCS(nil, nil), g)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "<A>")
}

func TestNewComposite_AllPass(t *testing.T) {
	g := &argdown.Graph{
		Propositions: []argdown.Proposition{{Label: "C", Texts: []string{"Claim."}}},
		Arguments:    []argdown.Argument{{Label: "A", Gists: []string{"Because."}}},
	}
	req := verify.NewRequest("", "", verify.DefaultConfig())
	req.VerificationData = []*verify.PrimaryData{{ID: "vd1", Dtype: verify.DTypeArgdown, Data: g}}
	composite := NewComposite(nil, nil)
	composite.Process(req)

	require.Len(t, req.Results, 3)
	for _, res := range req.Results {
		assert.True(t, res.IsValid, "%+v", res)
	}
	assert.True(t, req.IsValid())
}
