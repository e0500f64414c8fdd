// Package logreco implements the logical-reconstruction check family:
// the InfReco composite minus NoPropInlineData (logical profiles
// carry formalization/declarations as proposition-level inline data by
// design), plus WellFormedFormulas, GloballyConsistentDeclarations,
// DeductiveValidity, and RelevanceOfPremises.
//
// Declarations are read from each argument's inline data under the
// declarations key as a list of "symbol: meaning" strings (a flattening of
// the source's symbol->meaning dictionary into the list-valued inline data
// this module's Argdown parser supports — see DESIGN.md).
package logreco

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/verify/infreco"
)

// Handler is the base type every LogReco-specific check embeds.
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

func bad(name, id, msg string, details map[string]any) *verify.Result {
	return &verify.Result{VerifierID: name, VerificationDataReferences: []string{id}, IsValid: false, Message: msg, Details: details}
}

func declarationsOf(a argdown.Argument, declarationsKey string) map[string]string {
	decls := map[string]string{}
	raw, ok := a.Data[declarationsKey]
	list, isList := raw.([]string)
	if !ok || !isList {
		return decls
	}
	for _, entry := range list {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			continue
		}
		decls[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return decls
}

func formalizationsOf(a argdown.Argument, formalizationKey string) map[string]string {
	out := map[string]string{}
	for _, p := range a.PCS {
		if f, ok := p.Data[formalizationKey]; ok {
			if s, isStr := f.(string); isStr && s != "" {
				out[p.Label] = s
			}
		}
	}
	return out
}

func identifiers(s string) map[string]bool {
	out := map[string]bool{}
	for _, tok := range tokenize(s) {
		if tok == "" || isConnective(tok) || tok == "(" || tok == ")" {
			continue
		}
		out[tok] = true
	}
	return out
}

func isConnective(tok string) bool {
	switch strings.ToUpper(tok) {
	case "AND", "OR", "NOT", "IMPLIES", "&", "|", "!", "->", "-":
		return true
	}
	return false
}

// NewWellFormedFormulas builds WellFormedFormulas: parses each
// argument's formalizations and declarations, flags duplicate/missing
// declarations, and stores the aggregated maps as Result.Details.
func NewWellFormedFormulas(logger *slog.Logger, filter verify.VDFilter, formalizationKey, declarationsKey string) *Handler {
	name := "LogReco.WellFormedFormulasHandler"
	return newHandler(name, logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		allExpressions := map[string]map[string]string{}
		allDeclarations := map[string]map[string]string{}
		var msgs []string

		for _, a := range g.Arguments {
			exprs := formalizationsOf(a, formalizationKey)
			decls := declarationsOf(a, declarationsKey)
			allExpressions[a.Label] = exprs
			allDeclarations[a.Label] = decls

			used := map[string]bool{}
			for _, expr := range exprs {
				for sym := range identifiers(expr) {
					used[sym] = true
				}
			}
			var missing []string
			for sym := range used {
				if _, declared := decls[sym]; !declared {
					missing = append(missing, sym)
				}
			}
			if len(missing) > 0 {
				sort.Strings(missing)
				msgs = append(msgs, fmt.Sprintf("In <%s>: undeclared symbols used in formalizations: %s.", a.Label, strings.Join(missing, ", ")))
			}
			seenDecl := map[string]bool{}
			var duplicates []string
			rawDecls, _ := a.Data[declarationsKey].([]string)
			for _, entry := range rawDecls {
				if parts := strings.SplitN(entry, ":", 2); len(parts) == 2 {
					sym := strings.TrimSpace(parts[0])
					if seenDecl[sym] {
						duplicates = append(duplicates, sym)
					}
					seenDecl[sym] = true
				}
			}
			if len(duplicates) > 0 {
				msgs = append(msgs, fmt.Sprintf("In <%s>: symbols declared more than once: %s.", a.Label, strings.Join(duplicates, ", ")))
			}
		}

		details := map[string]any{"all_expressions": allExpressions, "all_declarations": allDeclarations}
		if len(msgs) > 0 {
			return bad(name, vd.ID, strings.Join(msgs, " "), details)
		}
		return &verify.Result{VerifierID: name, VerificationDataReferences: []string{vd.ID}, IsValid: true, Details: details}
	})
}

// NewGloballyConsistentDeclarations builds GloballyConsistentDeclarations:
// the same symbol must carry the same meaning across every argument
// in the snippet.
func NewGloballyConsistentDeclarations(logger *slog.Logger, filter verify.VDFilter, declarationsKey string) *Handler {
	name := "LogReco.GloballyConsistentDeclarationsHandler"
	return newHandler(name, logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		meaning := map[string]string{}
		var conflicts []string
		for _, a := range g.Arguments {
			for sym, mng := range declarationsOf(a, declarationsKey) {
				if prior, seen := meaning[sym]; seen && prior != mng {
					conflicts = append(conflicts, fmt.Sprintf("%s ('%s' vs '%s')", sym, prior, mng))
					continue
				}
				meaning[sym] = mng
			}
		}
		if len(conflicts) > 0 {
			sort.Strings(conflicts)
			return bad(name, vd.ID, fmt.Sprintf("Inconsistent symbol declarations across arguments: %s.", strings.Join(conflicts, ", ")), nil)
		}
		return ok(name, vd.ID)
	})
}

func premiseFormulas(a argdown.Argument, c argdown.PCSItem, fromKey, formalizationKey string) ([]formula, bool) {
	refs, ok := c.InferenceData[fromKey]
	var labels []string
	switch v := refs.(type) {
	case []string:
		labels = v
	case string:
		labels = []string{v}
	}
	if !ok && refs == nil {
		return nil, false
	}
	var out []formula
	for _, lbl := range labels {
		for _, p := range a.PCS {
			if p.Label == lbl {
				if f, has := p.Data[formalizationKey]; has {
					if s, isStr := f.(string); isStr && s != "" {
						out = append(out, parseFormula(s))
					}
				}
			}
		}
	}
	return out, len(out) == len(labels)
}

// NewDeductiveValidity builds DeductiveValidity: for each conclusion,
// the conjunction of its referenced premises' formalizations must imply the
// conclusion's formalization.
func NewDeductiveValidity(logger *slog.Logger, filter verify.VDFilter, fromKey, formalizationKey string) *Handler {
	name := "LogReco.DeductiveValidityHandler"
	return newHandler(name, logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var msgs []string
		for _, a := range g.Arguments {
			for _, c := range a.PCS {
				if !c.IsConclusion {
					continue
				}
				concRaw, has := c.Data[formalizationKey]
				concStr, isStr := concRaw.(string)
				if !has || !isStr || concStr == "" {
					continue // no formalization to check, WellFormedFormulas already flags missing declarations
				}
				premises, complete := premiseFormulas(a, c, fromKey, formalizationKey)
				if !complete || len(premises) == 0 {
					continue
				}
				conclusion := parseFormula(concStr)
				if !implies(premises, conclusion) {
					msgs = append(msgs, fmt.Sprintf("In <%s>: inference to conclusion %s is not deductively valid.", a.Label, c.Label))
				}
			}
		}
		if len(msgs) > 0 {
			return bad(name, vd.ID, strings.Join(msgs, " "), nil)
		}
		return ok(name, vd.ID)
	})
}

// NewRelevanceOfPremises builds RelevanceOfPremises: dropping any one
// referenced premise must invalidate the inference.
func NewRelevanceOfPremises(logger *slog.Logger, filter verify.VDFilter, fromKey, formalizationKey string) *Handler {
	name := "LogReco.RelevanceOfPremisesHandler"
	return newHandler(name, logger, filter, func(g *argdown.Graph, vd *verify.PrimaryData, req *verify.Request) *verify.Result {
		var msgs []string
		for _, a := range g.Arguments {
			for _, c := range a.PCS {
				if !c.IsConclusion {
					continue
				}
				concRaw, has := c.Data[formalizationKey]
				concStr, isStr := concRaw.(string)
				if !has || !isStr || concStr == "" {
					continue
				}
				premises, complete := premiseFormulas(a, c, fromKey, formalizationKey)
				if !complete || len(premises) < 2 {
					continue
				}
				conclusion := parseFormula(concStr)
				for i := range premises {
					reduced := append(append([]formula{}, premises[:i]...), premises[i+1:]...)
					if implies(reduced, conclusion) {
						msgs = append(msgs, fmt.Sprintf("In <%s>: premise #%d of the inference to conclusion %s is not relevant (conclusion still follows without it).", a.Label, i+1, c.Label))
					}
				}
			}
		}
		if len(msgs) > 0 {
			return bad(name, vd.ID, strings.Join(msgs, " "), nil)
		}
		return ok(name, vd.ID)
	})
}

// Options configures the LogReco composite; see infreco.Options.
type Options struct {
	FromKey          string
	FormalizationKey string
	DeclarationsKey  string
	N                int
}

// NewComposite builds the default LogReco composite: InfReco's checks minus
// NoPropInlineData, plus the four logical checks above, in canonical order.
func NewComposite(logger *slog.Logger, filter verify.VDFilter, opts Options) *verify.CompositeHandler {
	fromKey, formalizationKey, declarationsKey := opts.FromKey, opts.FormalizationKey, opts.DeclarationsKey
	if fromKey == "" {
		fromKey = "from"
	}
	if formalizationKey == "" {
		formalizationKey = "formalization"
	}
	if declarationsKey == "" {
		declarationsKey = "declarations"
	}

	children := []verify.Handler{
		infreco.NewHasArguments(logger, filter),
		infreco.NewHasUniqueArgument(logger, filter),
		infreco.NewHasPCS(logger, filter),
		infreco.NewStartsWithPremise(logger, filter),
		infreco.NewEndsWithConclusion(logger, filter),
		infreco.NewNotMultipleGists(logger, filter),
		infreco.NewNoDuplicatePCSLabels(logger, filter),
		infreco.NewHasLabel(logger, filter),
		infreco.NewHasGist(logger, filter),
		infreco.NewHasInferenceData(logger, filter, fromKey),
		infreco.NewPropRefsExist(logger, filter, fromKey),
		infreco.NewUsesAllProps(logger, filter, fromKey),
		infreco.NewNoExtraPropositions(logger, filter),
		infreco.NewOnlyGroundedDialecticalRelations(logger, filter),
		infreco.NewNoArgInlineData(logger, filter),
		NewWellFormedFormulas(logger, filter, formalizationKey, declarationsKey),
		NewGloballyConsistentDeclarations(logger, filter, declarationsKey),
		NewDeductiveValidity(logger, filter, fromKey, formalizationKey),
		NewRelevanceOfPremises(logger, filter, fromKey, formalizationKey),
	}
	if opts.N > 0 {
		children = append(children, infreco.NewHasAtLeastNArguments(logger, filter, opts.N))
	}
	return verify.NewCompositeHandler("LogReco", logger, children)
}
