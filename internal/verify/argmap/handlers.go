// Package argmap implements the argument-map structure check family:
// CompleteClaims, NoDuplicateLabels, NoPCS.
package argmap

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
)

// Handler is the base type every argmap check embeds.
type Handler struct {
	verify.BaseHandler
	Filter verify.VDFilter
	evalFn func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result
}

func newHandler(name string, logger *slog.Logger, filter verify.VDFilter, eval func(*argdown.Graph, *verify.PrimaryData, *verify.Request) *verify.Result) *Handler {
	if filter == nil {
		filter = verify.AlwaysTrue
	}
	return &Handler{BaseHandler: verify.NewBaseHandler(name, logger), Filter: filter, evalFn: eval}
}

func (h *Handler) Process(req *verify.Request) *verify.Request { return h.BaseHandler.Process(h, req) }

func (h *Handler) Handle(req *verify.Request) *verify.Request {
	for _, vd := range req.VerificationData {
		if vd.Data == nil || vd.Dtype != verify.DTypeArgdown || !h.Filter(vd) {
			continue
		}
		g, ok := vd.Data.(*argdown.Graph)
		if !ok {
			continue
		}
		if res := h.evalFn(g, vd, req); res != nil {
			req.AddResult(*res)
		}
	}
	return req
}

func ok(name, id string) *verify.Result {
	return &verify.Result{VerifierID: name, VerificationDataReferences: []string{id}, IsValid: true}
}

func bad(name, id, msg string) *verify.Result {
	return &verify.Result{VerifierID: name, VerificationDataReferences: []string{id}, IsValid: false, Message: msg}
}

// isUnlabeled reports whether a label looks auto-generated rather than
// user-supplied, mirroring ArgdownParser.is_unlabeled: empty, or a bare
// positional placeholder like "1" or "_1".
func isUnlabeled(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return true
	}
	trimmed := strings.TrimPrefix(label, "_")
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NewCompleteClaims builds the CompleteClaims check: every
// proposition node has a non-auto-generated label and at least one
// non-empty text.
func NewCompleteClaims(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("ArgMap.CompleteClaims", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var incomplete []string
		for _, p := range g.Propositions {
			hasText := false
			for _, t := range p.Texts {
				if strings.TrimSpace(t) != "" {
					hasText = true
					break
				}
			}
			if isUnlabeled(p.Label) || !hasText {
				incomplete = append(incomplete, fmt.Sprintf("[%s]", p.Label))
			}
		}
		if len(incomplete) > 0 {
			return bad("ArgMap.CompleteClaims", vd.ID, fmt.Sprintf("The following claims lack a label or text: %s", strings.Join(incomplete, ", ")))
		}
		return ok("ArgMap.CompleteClaims", vd.ID)
	})
}

// NewNoDuplicateLabels builds the NoDuplicateLabels check: no claim
// or argument label is associated with more than one distinct text/gist.
func NewNoDuplicateLabels(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("ArgMap.NoDuplicateLabels", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var dupes []string
		for _, p := range g.Propositions {
			if p.Label != "" && len(distinctNonEmpty(p.Texts)) > 1 {
				dupes = append(dupes, fmt.Sprintf("[%s]", p.Label))
			}
		}
		for _, a := range g.Arguments {
			if a.Label != "" && len(distinctNonEmpty(a.Gists)) > 1 {
				dupes = append(dupes, fmt.Sprintf("<%s>", a.Label))
			}
		}
		if len(dupes) > 0 {
			return bad("ArgMap.NoDuplicateLabels", vd.ID, fmt.Sprintf("The following labels have more than one associated text/gist: %s", strings.Join(dupes, ", ")))
		}
		return ok("ArgMap.NoDuplicateLabels", vd.ID)
	})
}

func distinctNonEmpty(xs []string) map[string]bool {
	m := map[string]bool{}
	for _, x := range xs {
		if strings.TrimSpace(x) != "" {
			m[x] = true
		}
	}
	return m
}

// NewNoPCS builds the NoPCS check: no argument carries a
// premise-conclusion structure; argument maps stay at the macro level.
func NewNoPCS(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("ArgMap.NoPCS", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var withPCS []string
		for _, a := range g.Arguments {
			if len(a.PCS) > 0 {
				withPCS = append(withPCS, fmt.Sprintf("<%s>", a.Label))
			}
		}
		if len(withPCS) > 0 {
			return bad("ArgMap.NoPCS", vd.ID, fmt.Sprintf("The following arguments carry a premise-conclusion structure: %s", strings.Join(withPCS, ", ")))
		}
		return ok("ArgMap.NoPCS", vd.ID)
	})
}

// NewComposite builds the default ArgMap composite with the three checks in
// canonical order.
func NewComposite(logger *slog.Logger, filter verify.VDFilter) *verify.CompositeHandler {
	return verify.NewCompositeHandler("ArgMap", logger, []verify.Handler{
		NewCompleteClaims(logger, filter),
		NewNoDuplicateLabels(logger, filter),
		NewNoPCS(logger, filter),
	})
}
