// Package arganno implements the annotation-integrity check family:
// eight default checks over XML annotation artifacts plus two optional
// label-validity checks that only run when legal labels are configured.
package arganno

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/xmlanno"
)

// allowedAttrs is the closed attribute set permitted on <proposition>.
var allowedAttrs = map[string]bool{
	"id": true, "supports": true, "attacks": true,
	"argument_label": true, "ref_reco_label": true,
}

// Handler is the base type every arganno check embeds: it iterates over xml
// PrimaryData matching Filter and evaluates one item at a time (a "filtered
// handler").
type Handler struct {
	verify.BaseHandler
	Filter verify.VDFilter
	evalFn func(doc *xmlanno.Document, vd *verify.PrimaryData, req *verify.Request) *verify.Result
}

func newHandler(name string, logger *slog.Logger, filter verify.VDFilter, eval func(*xmlanno.Document, *verify.PrimaryData, *verify.Request) *verify.Result) *Handler {
	if filter == nil {
		filter = verify.AlwaysTrue
	}
	return &Handler{BaseHandler: verify.NewBaseHandler(name, logger), Filter: filter, evalFn: eval}
}

func (h *Handler) Process(req *verify.Request) *verify.Request { return h.BaseHandler.Process(h, req) }

func (h *Handler) Handle(req *verify.Request) *verify.Request {
	for _, vd := range req.VerificationData {
		if vd.Data == nil || vd.Dtype != verify.DTypeXML || !h.Filter(vd) {
			continue
		}
		doc, ok := vd.Data.(*xmlanno.Document)
		if !ok {
			continue
		}
		if res := h.evalFn(doc, vd, req); res != nil {
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

// NewSourceTextIntegrity builds the SourceTextIntegrity check: for
// sources up to 200 words, the normalized annotation text must match the
// source under a normalized edit distance <= 0.01; for longer sources, each
// annotated proposition's text must appear in the source in reading order.
func NewSourceTextIntegrity(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("Arganno.SourceTextIntegrity", logger, filter, func(doc *xmlanno.Document, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		source := xmlanno.NormalizeWhitespace(req.Source)
		if source == "" {
			return ok("Arganno.SourceTextIntegrity", vd.ID)
		}
		wordCount := len(strings.Fields(source))
		if wordCount <= 200 {
			annoText := doc.PlainText
			// Whitespace is never significant in this comparison: only the
			// stripped (not merely collapsed) strings are compared.
			cleanSource, cleanAnno := stripWhitespace(source), stripWhitespace(annoText)
			dist := levenshtein(cleanSource, cleanAnno)
			maxLen := max(len(cleanSource), len(cleanAnno))
			ratio := 0.0
			if maxLen > 0 {
				ratio = float64(dist) / float64(maxLen)
			}
			if ratio > 0.01 {
				edits := myers.ComputeEdits(span.URIFromPath("source"), source, annoText)
				diff := fmt.Sprint(gotextdiff.ToUnified("source", "annotation", source, edits))
				return bad("Arganno.SourceTextIntegrity", vd.ID,
					fmt.Sprintf("Annotation text deviates from source text (normalized edit distance ratio %.4f > 0.01):\n%s", ratio, diff))
			}
			return ok("Arganno.SourceTextIntegrity", vd.ID)
		}

		// Relaxed mode: each proposition's text must appear, in order, once
		// all whitespace is stripped from both sides of the comparison.
		cleanSource := stripWhitespace(source)
		pos := 0
		for _, p := range doc.Propositions {
			text := stripWhitespace(p.Text)
			if text == "" {
				continue
			}
			idx := strings.Index(cleanSource[pos:], text)
			if idx < 0 {
				return bad("Arganno.SourceTextIntegrity", vd.ID,
					fmt.Sprintf("Annotated proposition %q text not found in source in reading order.", p.ID))
			}
			pos += idx + len(text)
		}
		return ok("Arganno.SourceTextIntegrity", vd.ID)
	})
}

// stripWhitespace removes spaces, tabs and newlines entirely (not just
// collapsing runs), matching _are_roughly_equal/clean()'s whitespace
// handling: position and spacing around words never affect this comparison.
func stripWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\t", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// NewNestedPropositions builds the NestedPropositions check.
func NewNestedPropositions(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("Arganno.NestedPropositions", logger, filter, func(doc *xmlanno.Document, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		for _, p := range doc.Propositions {
			if p.Nested {
				return bad("Arganno.NestedPropositions", vd.ID, "Found a <proposition> nested inside another <proposition>.")
			}
		}
		return ok("Arganno.NestedPropositions", vd.ID)
	})
}

// NewPropositionIdPresence builds the PropositionIdPresence check.
func NewPropositionIdPresence(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("Arganno.PropositionIdPresence", logger, filter, func(doc *xmlanno.Document, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		for i, p := range doc.Propositions {
			if strings.TrimSpace(p.ID) == "" {
				return bad("Arganno.PropositionIdPresence", vd.ID, fmt.Sprintf("Proposition #%d lacks an id attribute.", i+1))
			}
		}
		return ok("Arganno.PropositionIdPresence", vd.ID)
	})
}

// NewPropositionIdUniqueness builds the PropositionIdUniqueness check.
func NewPropositionIdUniqueness(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("Arganno.PropositionIdUniqueness", logger, filter, func(doc *xmlanno.Document, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		seen := map[string]bool{}
		var dupes []string
		for _, p := range doc.Propositions {
			if p.ID == "" {
				continue
			}
			if seen[p.ID] {
				dupes = append(dupes, p.ID)
			}
			seen[p.ID] = true
		}
		if len(dupes) > 0 {
			sort.Strings(dupes)
			return bad("Arganno.PropositionIdUniqueness", vd.ID, fmt.Sprintf("Duplicate proposition ids: %s", strings.Join(dupes, ", ")))
		}
		return ok("Arganno.PropositionIdUniqueness", vd.ID)
	})
}

func referenceValidity(name, field string, get func(xmlanno.Proposition) []string) func(*xmlanno.Document, *verify.PrimaryData, *verify.Request) *verify.Result {
	return func(doc *xmlanno.Document, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		for _, p := range doc.Propositions {
			for _, ref := range get(p) {
				if doc.ByID(ref) == nil {
					return bad(name, vd.ID, fmt.Sprintf("%s proposition with id '%s' in proposition '%s' does not exist.", field, ref, p.ID))
				}
			}
		}
		return ok(name, vd.ID)
	}
}

// NewSupportReferenceValidity builds the SupportReferenceValidity check.
func NewSupportReferenceValidity(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("Arganno.SupportReferenceValidity", logger, filter,
		referenceValidity("Arganno.SupportReferenceValidity", "Supported", func(p xmlanno.Proposition) []string { return p.Supports }))
}

// NewAttackReferenceValidity builds the AttackReferenceValidity check.
func NewAttackReferenceValidity(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("Arganno.AttackReferenceValidity", logger, filter,
		referenceValidity("Arganno.AttackReferenceValidity", "Attacked", func(p xmlanno.Proposition) []string { return p.Attacks }))
}

// NewAttributeValidity builds the AttributeValidity check.
func NewAttributeValidity(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("Arganno.AttributeValidity", logger, filter, func(doc *xmlanno.Document, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var disallowed []string
		for _, p := range doc.Propositions {
			for _, a := range p.UnknownAttrs {
				if !allowedAttrs[a] {
					disallowed = append(disallowed, a)
				}
			}
		}
		if len(disallowed) > 0 {
			return bad("Arganno.AttributeValidity", vd.ID, fmt.Sprintf("Found disallowed attributes: %s", strings.Join(disallowed, ", ")))
		}
		return ok("Arganno.AttributeValidity", vd.ID)
	})
}

// NewElementValidity builds the ElementValidity check.
func NewElementValidity(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("Arganno.ElementValidity", logger, filter, func(doc *xmlanno.Document, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		if len(doc.UnknownElements) > 0 {
			return bad("Arganno.ElementValidity", vd.ID, fmt.Sprintf("Found disallowed elements: %s", strings.Join(doc.UnknownElements, ", ")))
		}
		return ok("Arganno.ElementValidity", vd.ID)
	})
}

// NewArgumentLabelValidity builds the optional ArgumentLabelValidity check
// . It is skipped (no Result) when legalLabels is empty.
func NewArgumentLabelValidity(logger *slog.Logger, filter verify.VDFilter, legalLabels []string) *Handler {
	legal := toSet(legalLabels)
	return newHandler("Arganno.ArgumentLabelValidity", logger, filter, func(doc *xmlanno.Document, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		if len(legal) == 0 {
			return nil
		}
		for _, p := range doc.Propositions {
			if p.ArgumentLabel != "" && !legal[p.ArgumentLabel] {
				return bad("Arganno.ArgumentLabelValidity", vd.ID, fmt.Sprintf("Proposition '%s' references unknown argument_label '%s'.", p.ID, p.ArgumentLabel))
			}
		}
		return ok("Arganno.ArgumentLabelValidity", vd.ID)
	})
}

// NewRefRecoLabelValidity builds the optional RefRecoLabelValidity check
// . It is skipped (no Result) when legalLabels is empty.
func NewRefRecoLabelValidity(logger *slog.Logger, filter verify.VDFilter, legalLabels []string) *Handler {
	legal := toSet(legalLabels)
	return newHandler("Arganno.RefRecoLabelValidity", logger, filter, func(doc *xmlanno.Document, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		if len(legal) == 0 {
			return nil
		}
		for _, p := range doc.Propositions {
			if p.RefRecoLabel != "" && !legal[p.RefRecoLabel] {
				return bad("Arganno.RefRecoLabelValidity", vd.ID, fmt.Sprintf("Proposition '%s' references unknown ref_reco_label '%s'.", p.ID, p.RefRecoLabel))
			}
		}
		return ok("Arganno.RefRecoLabelValidity", vd.ID)
	})
}

func toSet(xs []string) map[string]bool {
	m := map[string]bool{}
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// levenshtein computes the classic edit distance between two strings. No
// fuzzy-text-distance library appears anywhere in the reference pack, so
// this small routine stands in for one (see DESIGN.md).
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// NewComposite builds the default Arganno composite with the eight default
// checks in canonical order plus the two optional label checks. filter
// selects which xml PrimaryData the whole family applies to;
// legalArgLabels/legalRefRecoLabels gate the two optional checks.
func NewComposite(logger *slog.Logger, filter verify.VDFilter, legalArgLabels, legalRefRecoLabels []string) *verify.CompositeHandler {
	return verify.NewCompositeHandler("Arganno", logger, []verify.Handler{
		NewSourceTextIntegrity(logger, filter),
		NewNestedPropositions(logger, filter),
		NewPropositionIdPresence(logger, filter),
		NewPropositionIdUniqueness(logger, filter),
		NewSupportReferenceValidity(logger, filter),
		NewAttackReferenceValidity(logger, filter),
		NewAttributeValidity(logger, filter),
		NewElementValidity(logger, filter),
		NewArgumentLabelValidity(logger, filter, legalArgLabels),
		NewRefRecoLabelValidity(logger, filter, legalRefRecoLabels),
	})
}
