// Package argdown provides a typed artifact graph for the subset of the
// Argdown notation (argument maps and premise-conclusion reconstructions)
// that the verification handlers operate on.
package argdown

// Valence classifies a dialectical relation.
type Valence string

const (
	Support    Valence = "SUPPORT"
	Attack     Valence = "ATTACK"
	Contradict Valence = "CONTRADICT"
)

// Dialectics classifies the provenance of a dialectical relation.
type Dialectics string

const (
	Sketched  Dialectics = "SKETCHED"
	Grounded  Dialectics = "GROUNDED"
	Axiomatic Dialectics = "AXIOMATIC"
)

// InlineData is the parsed yaml-ish inline key/value payload attached to a
// proposition, argument, or inference line.
type InlineData map[string]any

// PCSItem is one line of a premise-conclusion structure: either a premise,
// an intermediate conclusion, or the final conclusion.
type PCSItem struct {
	Label             string // e.g. "1", "2"
	PropositionLabel  string // label of the referenced top-level proposition, if any
	Text              string
	Data              InlineData
	IsConclusion      bool
	InferenceData     InlineData // only set when IsConclusion
	AnnotationIDs     []string   // from Data["annotation_ids"], cached for coherence checks
}

// Argument is one reconstructed argument.
type Argument struct {
	Label string
	Gists []string
	PCS   []PCSItem
	Data  InlineData
}

// FinalConclusion returns the last PCS item, or nil if the argument has no PCS.
func (a *Argument) FinalConclusion() *PCSItem {
	if len(a.PCS) == 0 {
		return nil
	}
	return &a.PCS[len(a.PCS)-1]
}

// Proposition is a labeled claim/statement, either a map-level node or a
// bare proposition appearing outside any argument.
type Proposition struct {
	Label string
	Texts []string
	Data  InlineData
}

// DialecticalRelation is a directed edge between two labeled nodes
// (arguments and/or propositions), as declared by map-notation arrows or
// inferred from grounded reconstruction structure.
type DialecticalRelation struct {
	Source     string
	Target     string
	Valence    Valence
	Dialectics []Dialectics
}

// Has reports whether the relation carries the given dialectics tag.
func (r DialecticalRelation) Has(d Dialectics) bool {
	for _, x := range r.Dialectics {
		if x == d {
			return true
		}
	}
	return false
}

// Graph is the parsed Argdown artifact: a set of arguments, propositions,
// and dialectical relations extracted from one fenced code block.
type Graph struct {
	Arguments            []Argument
	Propositions         []Proposition
	DialecticalRelations []DialecticalRelation
}

// ArgumentByLabel looks up an argument by its label.
func (g *Graph) ArgumentByLabel(label string) *Argument {
	for i := range g.Arguments {
		if g.Arguments[i].Label == label {
			return &g.Arguments[i]
		}
	}
	return nil
}

// PropositionByLabel looks up a top-level proposition by its label.
func (g *Graph) PropositionByLabel(label string) *Proposition {
	for i := range g.Propositions {
		if g.Propositions[i].Label == label {
			return &g.Propositions[i]
		}
	}
	return nil
}
