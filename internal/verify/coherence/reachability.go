package coherence

import "github.com/steveyegge/argcheck/internal/argdown"

// edge is a valence-labeled directed edge used by the reachability search
// below.
type edge struct {
	to      string
	valence argdown.Valence
}

// graphIndex is an adjacency-list view of a Graph's dialectical relations,
// built once per coherence check.
type graphIndex struct {
	out map[string][]edge
}

func buildIndex(g *argdown.Graph) *graphIndex {
	idx := &graphIndex{out: map[string][]edge{}}
	for _, rel := range g.DialecticalRelations {
		idx.out[rel.Source] = append(idx.out[rel.Source], edge{to: rel.Target, valence: rel.Valence})
	}
	return idx
}

// reachability handles cyclic alternating-valence graphs with a fixed-point
// single-pass search guarded by a visited set, not a
// depth bound. From source, nodes reachable via an odd number of Attack
// edges (mixed with any number of other edges) are "indirectly attacked";
// nodes reachable via an even number of Attack edges are "indirectly
// supported". Only Attack flips the sign: Support and Contradict edges both
// keep it. Cycles
// terminate the search via the visited set rather than looping forever.
type reachabilityResult struct {
	supported map[string]bool
	attacked  map[string]bool
}

func (idx *graphIndex) reachableFrom(source string) reachabilityResult {
	res := reachabilityResult{supported: map[string]bool{}, attacked: map[string]bool{}}
	type state struct {
		node    string
		negated bool
	}
	visited := map[state]bool{}
	queue   := []state{{node: source, negated: false}}
	visited[queue[0]] = true

	for   len(queue) > 0 {
		cur   := queue[0]
		queue = queue[1:]
		for   _, e := range idx.out[cur.node] {
			next  := cur.negated
			if    e.valence == argdown.Attack {
				next  = !next
			}
			s  := state{node: e.to, negated: next}
			if next {
				res.attacked[e.to] = true
			} else {
				res.supported[e.to] = true
			}
			if !visited[s] {
				visited[s] = true
				queue = append(queue, s)
			}
		}
	}
	return res
}
