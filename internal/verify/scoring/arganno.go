package scoring

import (
	"fmt"

	"github.com/steveyegge/argcheck/internal/verify"
)

// AnnotationCoverageScorer scores the ratio of annotated text to total text
// length in an xml annotation artifact.
type AnnotationCoverageScorer struct {
	Name string
	Ctx  Context
}

func (s *AnnotationCoverageScorer) ID() string { return "annotation_coverage_scorer" }

func (s *AnnotationCoverageScorer) Score(req *verify.Request) Result {
	id := s.Name + "." + s.ID()
	vd, doc := s.Ctx.XML(req)
	if doc == nil {
		return Result{ScorerID: id, Message: "No XML content found for annotation coverage scoring.", Score: 0}
	}
	var covered int
	for _, p := range doc.Propositions {
		covered += len(p.Text)
	}
	total := len(doc.PlainText)
	var ratio float64
	if total > 0 {
		ratio = float64(covered) / float64(total)
	}
	return Result{
		ScorerID:              id,
		ScoringDataReferences: []string{vd.ID},
		Message:               fmt.Sprintf("Total annotated text: %d characters.", covered),
		Score:                 ratio,
		Details:               map[string]any{"coverage_characters": covered, "total_characters": total},
	}
}
