// Package xmlanno provides a typed tree for the XML-like argumentative
// annotation markup: a flat sequence of <proposition> elements embedded in
// prose, each carrying referential and structural attributes.
package xmlanno

// Proposition is one <proposition> element.
type Proposition struct {
	ID            string
	Supports      []string
	Attacks       []string
	ArgumentLabel string
	RefRecoLabel  string
	Text          string

	// UnknownAttrs lists any attribute names outside the closed set, for
	// AttributeValidity.
	UnknownAttrs []string

	// Nested reports whether this proposition was found nested inside
	// another <proposition>, for NestedPropositions.
	Nested bool
}

// Document is the parsed annotation artifact.
type Document struct {
	Propositions []Proposition

	// UnknownElements lists element names other than "proposition" found in
	// the document, for ElementValidity.
	UnknownElements []string

	// PlainText is the inner text content of the whole document with markup
	// stripped, used by SourceTextIntegrity.
	PlainText string
}

// ByID looks up a proposition by its id attribute.
func (d *Document) ByID(id string) *Proposition {
	for i := range d.Propositions {
		if d.Propositions[i].ID == id {
			return &d.Propositions[i]
		}
	}
	return nil
}
