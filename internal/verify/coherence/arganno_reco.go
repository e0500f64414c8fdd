package coherence

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
)

// NewArgannoRecoElements builds the Arganno<->Reco elements coherence check:
// every <proposition> has argument_label/ref_reco_label pointing
// into the reconstruction, and conversely every PCS step's annotation_ids
// references an existing <proposition>, uniquely.
func NewArgannoRecoElements(name string, logger *slog.Logger, annoFilter, recoFilter verify.VDFilter) *PairHandler {
	return newPairHandler(name, logger, func(req *verify.Request) *verify.Result {
		annoVD, doc := lastXML(req, annoFilter)
		recoVD, g := lastArgdown(req, recoFilter)
		if doc == nil || g == nil {
			return nil
		}
		ids := []string{annoVD.ID, recoVD.ID}

		var msgs []string
		seenAnnotationIDs := map[string]string{}

		for _, p := range doc.Propositions {
			if p.ArgumentLabel == "" || p.RefRecoLabel == "" {
				msgs = append(msgs, fmt.Sprintf("Proposition '%s' lacks an argument_label or ref_reco_label.", p.ID))
				continue
			}
			arg := g.ArgumentByLabel(p.ArgumentLabel)
			if arg == nil {
				msgs = append(msgs, fmt.Sprintf("Proposition '%s' references unknown argument_label '%s'.", p.ID, p.ArgumentLabel))
				continue
			}
			found := false
			for _, pcs := range arg.PCS {
				if pcs.Label == p.RefRecoLabel {
					found = true
					break
				}
			}
			if !found {
				msgs = append(msgs, fmt.Sprintf("Proposition '%s' references unknown ref_reco_label '%s' in argument <%s>.", p.ID, p.RefRecoLabel, p.ArgumentLabel))
			}
		}

		for _, arg := range g.Arguments {
			for _, pcs := range arg.PCS {
				for _, aid := range pcs.AnnotationIDs {
					if doc.ByID(aid) == nil {
						msgs = append(msgs, fmt.Sprintf("PCS step (%s) in argument <%s> references unknown annotation id '%s'.", pcs.Label, arg.Label, aid))
						continue
					}
					if prior, dup := seenAnnotationIDs[aid]; dup {
						msgs = append(msgs, fmt.Sprintf("Annotation id '%s' is referenced by more than one PCS step (%s and %s).", aid, prior, pcs.Label))
					} else {
						seenAnnotationIDs[aid] = pcs.Label
					}
				}
			}
		}

		if len(msgs) > 0 {
			return bad(name, strings.Join(msgs, " "), ids...)
		}
		return ok(name, ids...)
	})
}

// recoStep identifies a PCS step by the argument and step label it belongs to.
type recoStep struct {
	arg  string
	step string
}

// stepsByAnnotationID indexes every PCS step by each annotation id it
// references.
func stepsByAnnotationID(g *argdown.Graph) map[string]recoStep {
	idx := map[string]recoStep{}
	for _, arg := range g.Arguments {
		for _, pcs := range arg.PCS {
			for _, aid := range pcs.AnnotationIDs {
				idx[aid] = recoStep{arg: arg.Label, step: pcs.Label}
			}
		}
	}
	return idx
}

// fromRefs extracts the "from" reference list from a conclusion's inference
// data, tolerating both a single string and a list of strings.
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

// ancestors walks "from" edges backward from (argLabel, stepLabel),
// returning the set of step labels within that argument that are used,
// directly or transitively, to infer it.
func ancestors(g *argdown.Graph, argLabel, stepLabel, fromKey string) map[string]bool {
	arg := g.ArgumentByLabel(argLabel)
	result := map[string]bool{}
	if arg == nil {
		return result
	}
	byLabel := map[string]argdown.PCSItem{}
	for _, p := range arg.PCS {
		byLabel[p.Label] = p
	}
	var visit func(label string)
	visited := map[string]bool{}
	visit = func(label string) {
		if visited[label] {
			return
		}
		visited[label] = true
		item, found := byLabel[label]
		if !found || !item.IsConclusion {
			return
		}
		for _, ref := range fromRefs(item.InferenceData, fromKey) {
			result[ref] = true
			visit(ref)
		}
	}
	visit(stepLabel)
	return result
}

// usedTransitively reports whether the PCS step annotated by fromID is
// transitively used (via "from" edges) by the PCS step annotated by toID,
// i.e. a support relation annotated in the source has a corresponding
// inferential path in the reconstruction.
func usedTransitively(g *argdown.Graph, byAnno map[string]recoStep, fromID, toID, fromKey string) bool {
	from, fromOK := byAnno[fromID]
	to, toOK := byAnno[toID]
	if !fromOK || !toOK || from.arg != to.arg {
		return false
	}
	return ancestors(g, to.arg, to.step, fromKey)[from.step]
}

// dialecticalAttack reports whether the arguments/steps referenced by
// fromID and toID are connected by an explicit ATTACK/CONTRADICT
// dialectical relation in the reconstruction.
func dialecticalAttack(g *argdown.Graph, byAnno map[string]recoStep, fromID, toID string) bool {
	from, fromOK := byAnno[fromID]
	to, toOK := byAnno[toID]
	if !fromOK || !toOK {
		return false
	}
	for _, rel := range g.DialecticalRelations {
		if (rel.Valence == argdown.Attack || rel.Valence == argdown.Contradict) &&
			((rel.Source == from.arg && rel.Target == to.arg) || (rel.Source == to.arg && rel.Target == from.arg)) {
			return true
		}
	}
	return false
}

// NewArgannoRecoRelations builds the Arganno<->Reco relations coherence
// check: an annotated supports edge a->b must correspond to an
// inferential path where the step referenced by a is transitively used by
// the step referenced by b (walking "from" edges backward from b); an
// attacks edge must correspond to a dialectical attack relation.
func NewArgannoRecoRelations(name string, logger *slog.Logger, annoFilter, recoFilter verify.VDFilter, fromKey string) *PairHandler {
	return newPairHandler(name, logger, func(req *verify.Request) *verify.Result {
		annoVD, doc := lastXML(req, annoFilter)
		recoVD, g := lastArgdown(req, recoFilter)
		if doc == nil || g == nil {
			return nil
		}
		ids := []string{annoVD.ID, recoVD.ID}

		byAnno := stepsByAnnotationID(g)

		var msgs []string
		for _, p := range doc.Propositions {
			for _, target := range p.Supports {
				if !usedTransitively(g, byAnno, p.ID, target, fromKey) {
					msgs = append(msgs, fmt.Sprintf("Annotated support from '%s' to '%s' has no corresponding inferential path in the reconstruction.", p.ID, target))
				}
			}
			for _, target := range p.Attacks {
				if !dialecticalAttack(g, byAnno, p.ID, target) {
					msgs = append(msgs, fmt.Sprintf("Annotated attack from '%s' to '%s' has no corresponding dialectical attack relation in the reconstruction.", p.ID, target))
				}
			}
		}

		if len(msgs) > 0 {
			return bad(name, strings.Join(msgs, " "), ids...)
		}
		return ok(name, ids...)
	})
}
