package coherence

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
)

// NewArgmapRecoElements builds the ArgMap<->InfReco elements coherence check:
// argument labels in the map appear 1-to-1 as argument labels in the
// reconstruction, and claim labels in the map match proposition labels in
// the reconstruction.
func NewArgmapRecoElements(name string, logger *slog.Logger, mapFilter, recoFilter verify.VDFilter) *PairHandler {
	return newPairHandler(name, logger, func(req *verify.Request) *verify.Result {
		mapVD, m := lastArgdown(req, mapFilter)
		recoVD, r := lastArgdown(req, recoFilter)
		if m == nil || r == nil || mapVD.ID == recoVD.ID {
			return nil
		}
		ids := []string{mapVD.ID, recoVD.ID}

		var msgs []string
		for _, a := range m.Arguments {
			if r.ArgumentByLabel(a.Label) == nil {
				msgs = append(msgs, fmt.Sprintf("Map argument <%s> has no matching argument in the reconstruction.", a.Label))
			}
		}
		for _, a := range r.Arguments {
			if m.ArgumentByLabel(a.Label) == nil {
				msgs = append(msgs, fmt.Sprintf("Reconstructed argument <%s> does not appear in the map.", a.Label))
			}
		}
		for _, p := range m.Propositions {
			if r.PropositionByLabel(p.Label) == nil {
				msgs = append(msgs, fmt.Sprintf("Map claim [%s] has no matching proposition in the reconstruction.", p.Label))
			}
		}

		if len(msgs) > 0 {
			return bad(name, strings.Join(msgs, " "), ids...)
		}
		return ok(name, ids...)
	})
}

// negationOf reports whether candidate reads as the negation of text under
// the "NOT: " prefix convention.
func negationOf(text, candidate string) bool {
	const prefix = "NOT: "
	t, c := strings.TrimSpace(text), strings.TrimSpace(candidate)
	if strings.HasPrefix(c, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(c, prefix)) == t
	}
	if strings.HasPrefix(t, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(t, prefix)) == c
	}
	return false
}

// premiseTextMatches reports whether any premise of arg equals (by label or
// text identity) the given final-conclusion text/label.
func premiseTextMatches(arg *argdown.Argument, label string, texts []string) bool {
	for _, p := range arg.PCS {
		if p.IsConclusion {
			continue
		}
		if p.Label != "" && p.Label == label {
			return true
		}
		for _, t := range texts {
			if strings.TrimSpace(t) != "" && strings.TrimSpace(t) == strings.TrimSpace(p.Text) {
				return true
			}
		}
	}
	return false
}

// premiseNegationMatches reports whether any premise of arg is the negation
// of the given final-conclusion text.
func premiseNegationMatches(arg *argdown.Argument, texts []string) bool {
	for _, p := range arg.PCS {
		if p.IsConclusion {
			continue
		}
		for _, t := range texts {
			if negationOf(t, p.Text) {
				return true
			}
		}
	}
	return false
}

// groundedRelationHolds checks the ArgMap<->InfReco relations rule for one
// sketched map edge: a SUPPORT edge requires the source's final conclusion
// to equal some premise of the target (argument case) or the claim text
// itself to equal some premise (claim case), or an explicit grounded SUPPORT
// relation between source and target; an ATTACK or CONTRADICT edge requires
// the negation, or an explicit grounded ATTACK or CONTRADICT relation.
func groundedRelationHolds(r *argdown.Graph, rel argdown.DialecticalRelation) bool {
	srcArg := r.ArgumentByLabel(rel.Source)
	tgtArg := r.ArgumentByLabel(rel.Target)

	var srcTexts []string
	var srcLabel string
	switch {
	case srcArg != nil:
		if c := srcArg.FinalConclusion(); c != nil {
			srcTexts = []string{c.Text}
			srcLabel = c.Label
		}
	default:
		if p := r.PropositionByLabel(rel.Source); p != nil {
			srcTexts = p.Texts
			srcLabel = p.Label
		}
	}

	if tgtArg == nil {
		// Claim as target: resolved via an explicit grounded relation of the
		// same valence only, since there is no PCS to search for a premise.
		return explicitRelation(r, rel.Source, rel.Target, rel.Valence)
	}

	switch rel.Valence {
	case argdown.Support:
		return premiseTextMatches(tgtArg, srcLabel, srcTexts) || explicitRelation(r, rel.Source, rel.Target, rel.Valence)
	case argdown.Attack, argdown.Contradict:
		return premiseNegationMatches(tgtArg, srcTexts) || explicitRelation(r, rel.Source, rel.Target, argdown.Attack) || explicitRelation(r, rel.Source, rel.Target, argdown.Contradict)
	}
	return false
}

func explicitRelation(r *argdown.Graph, source, target string, valence argdown.Valence) bool {
	for _, rel := range r.DialecticalRelations {
		if rel.Source == source && rel.Target == target && rel.Valence == valence && rel.Has(argdown.Grounded) {
			return true
		}
	}
	return false
}

// NewArgmapRecoRelations builds the ArgMap<->InfReco relations coherence
// check: every sketched dialectical edge in the map must correspond
// to a grounded relation in the reconstruction (final-conclusion/premise
// identity for support, NOT-prefix/CONTRADICT for attack).
func NewArgmapRecoRelations(name string, logger *slog.Logger, mapFilter, recoFilter verify.VDFilter) *PairHandler {
	return newPairHandler(name, logger, func(req *verify.Request) *verify.Result {
		mapVD, m := lastArgdown(req, mapFilter)
		recoVD, r := lastArgdown(req, recoFilter)
		if m == nil || r == nil || mapVD.ID == recoVD.ID {
			return nil
		}
		ids := []string{mapVD.ID, recoVD.ID}

		var msgs []string
		for _, rel := range m.DialecticalRelations {
			if !rel.Has(argdown.Sketched) {
				continue
			}
			if !groundedRelationHolds(r, rel) {
				msgs = append(msgs, fmt.Sprintf("Sketched %s relation from '%s' to '%s' has no corresponding grounded relation in the reconstruction.", rel.Valence, rel.Source, rel.Target))
			}
		}

		if len(msgs) > 0 {
			return bad(name, strings.Join(msgs, " "), ids...)
		}
		return ok(name, ids...)
	})
}

// NewArgmapLogrecoIndirectCoherence builds the ArgMap<->LogReco reachability
// check: for every grounded dialectical relation inferred from the
// logical reconstruction, the map must indirectly support/attack the same
// pair of nodes — reachability through same-valence edges counts as
// indirect support, mixed-valence paths count as indirect attack.
func NewArgmapLogrecoIndirectCoherence(name string, logger *slog.Logger, mapFilter, recoFilter verify.VDFilter) *PairHandler {
	return newPairHandler(name, logger, func(req *verify.Request) *verify.Result {
		mapVD, m := lastArgdown(req, mapFilter)
		recoVD, r := lastArgdown(req, recoFilter)
		if m == nil || r == nil || mapVD.ID == recoVD.ID {
			return nil
		}
		ids := []string{mapVD.ID, recoVD.ID}

		mapIdx := buildIndex(m)
		var msgs []string
		for _, rel := range r.DialecticalRelations {
			if !rel.Has(argdown.Grounded) {
				continue
			}
			reach := mapIdx.reachableFrom(rel.Source)
			switch rel.Valence {
			case argdown.Support:
				if !reach.supported[rel.Target] {
					msgs = append(msgs, fmt.Sprintf("Grounded support from '%s' to '%s' is not indirectly supported in the map.", rel.Source, rel.Target))
				}
			case argdown.Attack, argdown.Contradict:
				if !reach.attacked[rel.Target] {
					msgs = append(msgs, fmt.Sprintf("Grounded attack from '%s' to '%s' is not indirectly attacked in the map.", rel.Source, rel.Target))
				}
			}
		}

		if len(msgs) > 0 {
			return bad(name, strings.Join(msgs, " "), ids...)
		}
		return ok(name, ids...)
	})
}
