// Package infreco implements the informal-reconstruction check family:
// sixteen default checks over argdown items filtered as reconstructions.
package infreco

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
)

// Handler is the base type every InfReco check embeds.
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
		g, isGraph := vd.Data.(*argdown.Graph)
		if !isGraph {
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

func argLabel(a argdown.Argument, idx int) string {
	if a.Label != "" {
		return fmt.Sprintf("<%s>", a.Label)
	}
	return fmt.Sprintf("Argument #%d", idx+1)
}

// NewHasArguments builds HasArguments: at least one argument.
func NewHasArguments(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.HasArgumentsHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		if len(g.Arguments) == 0 {
			return bad("InfReco.HasArgumentsHandler", vd.ID, "No arguments found in the argdown data.")
		}
		return ok("InfReco.HasArgumentsHandler", vd.ID)
	})
}

// NewHasUniqueArgument builds HasUniqueArgument: exactly one argument.
func NewHasUniqueArgument(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.HasUniqueArgumentHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		switch {
		case len(g.Arguments) > 1:
			return bad("InfReco.HasUniqueArgumentHandler", vd.ID, "More than one argument found in the argdown data.")
		case len(g.Arguments) == 0:
			return bad("InfReco.HasUniqueArgumentHandler", vd.ID, "No arguments found in the argdown data.")
		}
		return ok("InfReco.HasUniqueArgumentHandler", vd.ID)
	})
}

// NewHasAtLeastNArguments builds HasAtLeastNArguments(N).
func NewHasAtLeastNArguments(logger *slog.Logger, filter verify.VDFilter, n int) *Handler {
	return newHandler("InfReco.HasAtLeastNArgumentsHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		if len(g.Arguments) < n {
			return bad("InfReco.HasAtLeastNArgumentsHandler", vd.ID, fmt.Sprintf("Not enough arguments (found %d, expected >=%d).", len(g.Arguments), n))
		}
		return ok("InfReco.HasAtLeastNArgumentsHandler", vd.ID)
	})
}

// NewHasPCS builds HasPCS: every argument has a PCS.
func NewHasPCS(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.HasPCSHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		if len(g.Arguments) == 0 {
			return nil
		}
		var invalid []string
		for i, a := range g.Arguments {
			if len(a.PCS) == 0 {
				invalid = append(invalid, argLabel(a, i))
			}
		}
		if len(invalid) > 0 {
			return bad("InfReco.HasPCSHandler", vd.ID, fmt.Sprintf("The following arguments lack premise conclusion structure: %s", strings.Join(invalid, ", ")))
		}
		return ok("InfReco.HasPCSHandler", vd.ID)
	})
}

// NewStartsWithPremise builds StartsWithPremise.
func NewStartsWithPremise(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.StartsWithPremiseHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var invalid []string
		for _, a := range g.Arguments {
			if len(a.PCS) > 0 && a.PCS[0].IsConclusion {
				invalid = append(invalid, labelOrUnlabeled(a))
			}
		}
		if len(invalid) > 0 {
			return bad("InfReco.StartsWithPremiseHandler", vd.ID, fmt.Sprintf("The following arguments do not start with a premise: %s", strings.Join(invalid, ", ")))
		}
		return ok("InfReco.StartsWithPremiseHandler", vd.ID)
	})
}

// NewEndsWithConclusion builds EndsWithConclusion.
func NewEndsWithConclusion(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.EndsWithConclusionHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var invalid []string
		for _, a := range g.Arguments {
			if len(a.PCS) > 0 && !a.PCS[len(a.PCS)-1].IsConclusion {
				invalid = append(invalid, labelOrUnlabeled(a))
			}
		}
		if len(invalid) > 0 {
			return bad("InfReco.EndsWithConclusionHandler", vd.ID, fmt.Sprintf("The following arguments do not end with a conclusion: %s", strings.Join(invalid, ", ")))
		}
		return ok("InfReco.EndsWithConclusionHandler", vd.ID)
	})
}

func labelOrUnlabeled(a argdown.Argument) string {
	if a.Label != "" {
		return fmt.Sprintf("<%s>", a.Label)
	}
	return "<unlabeled argument>"
}

// NewNotMultipleGists builds NotMultipleGists.
func NewNotMultipleGists(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.NotMultipleGistsHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var invalid []string
		for _, a := range g.Arguments {
			if len(a.Gists) > 1 {
				invalid = append(invalid, labelOrUnlabeled(a))
			}
		}
		if len(invalid) > 0 {
			return bad("InfReco.NotMultipleGistsHandler", vd.ID, fmt.Sprintf("The following arguments have alternative gists (and are declared multiple times): %s", strings.Join(invalid, ", ")))
		}
		return ok("InfReco.NotMultipleGistsHandler", vd.ID)
	})
}

// NewNoDuplicatePCSLabels builds NoDuplicatePCSLabels.
func NewNoDuplicatePCSLabels(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.NoDuplicatePCSLabelsHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var invalid []string
		for _, a := range g.Arguments {
			if len(a.PCS) == 0 {
				continue
			}
			counts := map[string]int{}
			for _, p := range a.PCS {
				counts[p.Label]++
			}
			var dupes []string
			for label, c := range counts {
				if c > 1 {
					dupes = append(dupes, fmt.Sprintf("(%s)", label))
				}
			}
			if len(dupes) > 0 {
				invalid = append(invalid, fmt.Sprintf("%s (duplicates: %s)", labelOrUnlabeled(a), strings.Join(dupes, ", ")))
			}
		}
		if len(invalid) > 0 {
			return bad("InfReco.NoDuplicatePCSLabelsHandler", vd.ID, fmt.Sprintf("The following arguments have duplicate premise/conclusion labels: %s", strings.Join(invalid, ", ")))
		}
		return ok("InfReco.NoDuplicatePCSLabelsHandler", vd.ID)
	})
}

// NewHasLabel builds HasLabel.
func NewHasLabel(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.HasLabelHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var unlabeled []string
		for i, a := range g.Arguments {
			if isUnlabeled(a.Label) {
				unlabeled = append(unlabeled, fmt.Sprintf("Argument #%d", i+1))
			}
		}
		if len(unlabeled) > 0 {
			return bad("InfReco.HasLabelHandler", vd.ID, fmt.Sprintf("The following arguments lack labels: %s", strings.Join(unlabeled, ", ")))
		}
		return ok("InfReco.HasLabelHandler", vd.ID)
	})
}

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

// NewHasGist builds HasGist.
func NewHasGist(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.HasGistHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var invalid []string
		for _, a := range g.Arguments {
			if len(a.Gists) == 0 {
				invalid = append(invalid, labelOrUnlabeled(a))
			}
		}
		if len(invalid) > 0 {
			return bad("InfReco.HasGistHandler", vd.ID, fmt.Sprintf("The following arguments lack gists: %s", strings.Join(invalid, ", ")))
		}
		return ok("InfReco.HasGistHandler", vd.ID)
	})
}

// NewHasInferenceData builds HasInferenceData(from_key).
func NewHasInferenceData(logger *slog.Logger, filter verify.VDFilter, fromKey string) *Handler {
	return newHandler("InfReco.HasInferenceDataHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var msgs []string
		for _, a := range g.Arguments {
			label := labelOrUnlabeled(a)
			for _, c := range a.PCS {
				if !c.IsConclusion {
					continue
				}
				if len(c.InferenceData) == 0 {
					msgs = append(msgs, fmt.Sprintf("In %s: Inference to conclusion %s lacks yaml inference information.", label, c.Label))
					continue
				}
				from, present := c.InferenceData[fromKey]
				switch v := from.(type) {
				case nil:
					if !present {
						msgs = append(msgs, fmt.Sprintf("In %s: Inference to conclusion %s inference information lacks '%s' key.", label, c.Label, fromKey))
					}
				case []string:
					if len(v) == 0 {
						msgs = append(msgs, fmt.Sprintf("In %s: Inference to conclusion %s inference information '%s' value is empty.", label, c.Label, fromKey))
					}
				default:
					msgs = append(msgs, fmt.Sprintf("In %s: Inference to conclusion %s inference information '%s' value is not a list.", label, c.Label, fromKey))
				}
			}
		}
		if len(msgs) > 0 {
			return bad("InfReco.HasInferenceDataHandler", vd.ID, strings.Join(msgs, " "))
		}
		return ok("InfReco.HasInferenceDataHandler", vd.ID)
	})
}

// NewPropRefsExist builds PropRefsExist(from_key): every reference in
// inference data must refer to a previously introduced premise/conclusion.
func NewPropRefsExist(logger *slog.Logger, filter verify.VDFilter, fromKey string) *Handler {
	return newHandler("InfReco.PropRefsExistHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var msgs []string
		for _, a := range g.Arguments {
			label := labelOrUnlabeled(a)
			for i, c := range a.PCS {
				if !c.IsConclusion {
					continue
				}
				for _, ref := range fromRefs(c.InferenceData, fromKey) {
					if !priorLabel(a.PCS[:i], ref) {
						msgs = append(msgs, fmt.Sprintf("In %s: Item '%s' in inference information of conclusion %s does not refer to a previously introduced premise or conclusion.", label, ref, c.Label))
					}
				}
			}
		}
		if len(msgs) > 0 {
			return bad("InfReco.PropRefsExistHandler", vd.ID, strings.Join(msgs, " "))
		}
		return ok("InfReco.PropRefsExistHandler", vd.ID)
	})
}

func fromRefs(data argdown.InlineData, fromKey string) []string {
	v, ok := data[fromKey]
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case []string:
		return x
	case string:
		if x == "" {
			return nil
		}
		return []string{x}
	default:
		return nil
	}
}

func priorLabel(items []argdown.PCSItem, label string) bool {
	for _, p := range items {
		if p.Label == label {
			return true
		}
	}
	return false
}

// NewUsesAllProps builds UsesAllProps(from_key): every
// premise/intermediate conclusion must be used in some later inference.
func NewUsesAllProps(logger *slog.Logger, filter verify.VDFilter, fromKey string) *Handler {
	return newHandler("InfReco.UsesAllPropsHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var msgs []string
		for _, a := range g.Arguments {
			if len(a.PCS) == 0 {
				continue
			}
			label := labelOrUnlabeled(a)
			used := map[string]bool{}
			for _, c := range a.PCS {
				if !c.IsConclusion {
					continue
				}
				for _, ref := range fromRefs(c.InferenceData, fromKey) {
					used[ref] = true
				}
			}
			var unused []string
			for _, p := range a.PCS[:len(a.PCS)-1] {
				if !used[p.Label] {
					unused = append(unused, fmt.Sprintf("(%s)", p.Label))
				}
			}
			if len(unused) > 0 {
				msgs = append(msgs, fmt.Sprintf("In %s: Some propositions are not explicitly used in any inferences: %s.", label, strings.Join(unused, ", ")))
			}
		}
		if len(msgs) > 0 {
			return bad("InfReco.UsesAllPropsHandler", vd.ID, strings.Join(msgs, " "))
		}
		return ok("InfReco.UsesAllPropsHandler", vd.ID)
	})
}

// NewNoExtraPropositions builds NoExtraPropositions: no propositions
// appear outside any argument.
func NewNoExtraPropositions(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.NoExtraPropositionsHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		pcsProps := map[string]bool{}
		for _, a := range g.Arguments {
			for _, p := range a.PCS {
				if p.PropositionLabel != "" {
					pcsProps[p.PropositionLabel] = true
				}
			}
		}
		var outside []string
		for _, p := range g.Propositions {
			if p.Label != "" && !pcsProps[p.Label] {
				outside = append(outside, fmt.Sprintf("[%s]", p.Label))
			}
		}
		if len(outside) > 0 {
			return bad("InfReco.NoExtraPropositionsHandler", vd.ID, fmt.Sprintf("Argdown snippet contains propositions not used in any argument: %s.", strings.Join(outside, ", ")))
		}
		return ok("InfReco.NoExtraPropositionsHandler", vd.ID)
	})
}

// NewOnlyGroundedDialecticalRelations builds OnlyGroundedDialecticalRelations.
func NewOnlyGroundedDialecticalRelations(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.OnlyGroundedDialecticalRelationsHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		for _, rel := range g.DialecticalRelations {
			if len(rel.Dialectics) != 1 || rel.Dialectics[0] != argdown.Grounded {
				return bad("InfReco.OnlyGroundedDialecticalRelationsHandler", vd.ID, "Argdown snippet defines dialectical relations.")
			}
		}
		return ok("InfReco.OnlyGroundedDialecticalRelationsHandler", vd.ID)
	})
}

// NewNoPropInlineData builds NoPropInlineData (dropped in LogReco).
func NewNoPropInlineData(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.NoPropInlineDataHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		for _, p := range g.Propositions {
			if len(p.Data) > 0 {
				return bad("InfReco.NoPropInlineDataHandler", vd.ID, "Some propositions contain yaml inline data.")
			}
		}
		return ok("InfReco.NoPropInlineDataHandler", vd.ID)
	})
}

// NewNoArgInlineData builds NoArgInlineData.
func NewNoArgInlineData(logger *slog.Logger, filter verify.VDFilter) *Handler {
	return newHandler("InfReco.NoArgInlineDataHandler", logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		for _, a := range g.Arguments {
			if len(a.Data) > 0 {
				return bad("InfReco.NoArgInlineDataHandler", vd.ID, "Some arguments contain yaml inline data.")
			}
		}
		return ok("InfReco.NoArgInlineDataHandler", vd.ID)
	})
}

// Options configures which optional variants of the InfReco composite are
// built (N for HasAtLeastNArguments, from_key for inference-data checks).
type Options struct {
	FromKey string
	N       int
}

// NewComposite builds the default InfReco composite with all sixteen checks
// in the canonical order documented in DESIGN.md, followed by
// HasAtLeastNArguments when opts.N > 0.
func NewComposite(logger *slog.Logger, filter verify.VDFilter, opts Options) *verify.CompositeHandler {
	fromKey := opts.FromKey
	if fromKey == "" {
		fromKey = "from"
	}
	children := []verify.Handler{
		NewHasArguments(logger, filter),
		NewHasUniqueArgument(logger, filter),
		NewHasPCS(logger, filter),
		NewStartsWithPremise(logger, filter),
		NewEndsWithConclusion(logger, filter),
		NewNotMultipleGists(logger, filter),
		NewNoDuplicatePCSLabels(logger, filter),
		NewHasLabel(logger, filter),
		NewHasGist(logger, filter),
		NewHasInferenceData(logger, filter, fromKey),
		NewPropRefsExist(logger, filter, fromKey),
		NewUsesAllProps(logger, filter, fromKey),
		NewNoExtraPropositions(logger, filter),
		NewOnlyGroundedDialecticalRelations(logger, filter),
		NewNoPropInlineData(logger, filter),
		NewNoArgInlineData(logger, filter),
	}
	if opts.N > 0 {
		children = append(children, NewHasAtLeastNArguments(logger, filter, opts.N))
	}
	return verify.NewCompositeHandler("InfReco", logger, children)
}
