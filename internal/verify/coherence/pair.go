// Package coherence implements the pairwise cross-artifact consistency
// checks between artifact kinds: arganno<->infreco/logreco (elements +
// relations) and argmap<->infreco/logreco (structure + relations).
package coherence

import (
	"log/slog"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/xmlanno"
)

// PairHandler is a pairwise coherence handler: it locates the "last"
// matching item of each required role and, if both are present, evaluates
// once and records a Result referencing both ids.
type PairHandler struct {
	verify.BaseHandler
	evalFn func(req *verify.Request) *verify.Result
}

func (h *PairHandler) Process(req *verify.Request) *verify.Request { return h.BaseHandler.Process(h, req) }

func (h *PairHandler) Handle(req *verify.Request) *verify.Request {
	if res := h.evalFn(req); res != nil {
		req.AddResult(*res)
	}
	return req
}

func ok(name string, ids ...string) *verify.Result {
	return &verify.Result{VerifierID: name, VerificationDataReferences: ids, IsValid: true}
}

func bad(name, msg string, ids ...string) *verify.Result {
	return &verify.Result{VerifierID: name, VerificationDataReferences: ids, IsValid: false, Message: msg}
}

// lastXML returns the last xml PrimaryData matching filter, and its parsed
// document.
func lastXML(req *verify.Request, filter verify.VDFilter) (*verify.PrimaryData, *xmlanno.Document) {
	var found *verify.PrimaryData
	for _, vd := range req.VerificationData {
		if vd.Dtype != verify.DTypeXML || vd.Data == nil {
			continue
		}
		if filter != nil && !filter(vd) {
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

// lastArgdown returns the last argdown PrimaryData matching filter, and its
// parsed graph.
func lastArgdown(req *verify.Request, filter verify.VDFilter) (*verify.PrimaryData, *argdown.Graph) {
	var found *verify.PrimaryData
	for _, vd := range req.VerificationData {
		if vd.Dtype != verify.DTypeArgdown || vd.Data == nil {
			continue
		}
		if filter != nil && !filter(vd) {
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

func newPairHandler(name string, logger *slog.Logger, eval func(req *verify.Request) *verify.Result) *PairHandler {
	return &PairHandler{BaseHandler: verify.NewBaseHandler(name, logger), evalFn: eval}
}
