package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/verify"
)

// mapNodeCount returns the number of distinct argument/proposition nodes in
// an argdown graph.
func mapNodeCount(g *argdown.Graph) int {
	return len(g.Arguments) + len(g.Propositions)
}

// MapSizeScorer scores the size of an argument map: 0 for trivially small
// maps (<=3 nodes), asymptotically approaching 1 as node count grows.
type MapSizeScorer struct {
	Name string
	Ctx  Context
}

func (s *MapSizeScorer) ID() string { return "argmap_size_scorer" }

func (s *MapSizeScorer) Score(req *verify.Request) Result {
	id := s.Name + "." + s.ID()
	vd, g := s.Ctx.Argdown(req, "argmap")
	if g == nil {
		return Result{ScorerID: id, Message: "No argument map found; cannot compute size score.", Score: 0}
	}
	n := mapNodeCount(g)
	score := 0.0
	if n > 3 {
		score = 1 - math.Pow(0.6, float64(n-3))
	}
	return Result{
		ScorerID:              id,
		ScoringDataReferences: []string{vd.ID},
		Message:               fmt.Sprintf("Argument map size (number of nodes): %d.", n),
		Score:                 score,
		Details:               map[string]any{"number_of_nodes": n},
	}
}

// degree of every labeled node: in-edges + out-edges from dialectical
// relations, normalized by (n-1) as a stand-in for networkx's degree
// centrality.
func degreeCentrality(g *argdown.Graph) map[string]float64 {
	labels := map[string]bool{}
	for _, a := range g.Arguments {
		labels[a.Label] = true
	}
	for _, p := range g.Propositions {
		labels[p.Label] = true
	}
	degree := map[string]int{}
	for _, rel := range g.DialecticalRelations {
		degree[rel.Source]++
		degree[rel.Target]++
	}
	n := len(labels)
	out := map[string]float64{}
	for label := range labels {
		if n > 1 {
			out[label] = float64(degree[label]) / float64(n-1)
		}
	}
	return out
}

// MapDensityScorer scores the interconnectedness of an argument map via
// average degree centrality across its nodes.
type MapDensityScorer struct {
	Name string
	Ctx  Context
}

func (s *MapDensityScorer) ID() string { return "argmap_density_scorer" }

func (s *MapDensityScorer) Score(req *verify.Request) Result {
	id := s.Name + "." + s.ID()
	vd, g := s.Ctx.Argdown(req, "argmap")
	if g == nil {
		return Result{ScorerID: id, Message: "No argument map found; cannot compute density score.", Score: 0}
	}
	centrality := degreeCentrality(g)
	var sum float64
	for _, c := range centrality {
		sum += c
	}
	density := 0.0
	if len(centrality) > 0 {
		density = math.Min(sum/float64(len(centrality)), 1.0)
	}
	return Result{
		ScorerID:              id,
		ScoringDataReferences: []string{vd.ID},
		Message:               fmt.Sprintf("Argument map density (average degree centrality): %.2f.", density),
		Score:                 density,
		Details:               map[string]any{"degree_centrality_per_node": centrality},
	}
}

// textSimilarity computes a crude token-Jaccard similarity ratio between
// two strings, standing in for the source's textdistance-based ratio.
func textSimilarity(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	inter := 0
	for t := range ta {
		if tb[t] {
			inter++
		}
	}
	union := len(ta)
	for t := range tb {
		if !ta[t] {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]bool {
	out := map[string]bool{}
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		out[tok] = true
	}
	return out
}

// MapFaithfulnessScorer scores the textual similarity between the argument
// map snippet and the source text, when a source text is given.
type MapFaithfulnessScorer struct {
	Name string
	Ctx  Context
}

func (s *MapFaithfulnessScorer) ID() string { return "argmap_faithfulness_scorer" }

func (s *MapFaithfulnessScorer) Score(req *verify.Request) Result {
	id := s.Name + "." + s.ID()
	vd, g := s.Ctx.Argdown(req, "argmap")
	if g == nil || req.Source == "" {
		return Result{ScorerID: id, Message: "No argument map or source text found; cannot compute faithfulness score.", Score: 0}
	}
	similarity := textSimilarity(req.Source, vd.CodeSnippet)
	return Result{
		ScorerID:              id,
		ScoringDataReferences: []string{vd.ID},
		Message:               fmt.Sprintf("Argument map / source text similarity: %.2f.", similarity),
		Score:                 similarity,
	}
}
