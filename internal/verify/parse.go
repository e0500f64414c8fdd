package verify

import (
	"fmt"
	"log/slog"

	"github.com/steveyegge/argcheck/internal/argdown"
	"github.com/steveyegge/argcheck/internal/xmlanno"
)

// ParseHandler attempts to parse every PrimaryData's CodeSnippet into its
// typed artifact. On success Data is populated; on failure Data stays
// nil and an invalid Result carrying the parse error is recorded, but the
// pipeline continues: parse failures are results, not exceptions.
type ParseHandler struct {
	BaseHandler
}

// NewParseHandler builds the default parser handler.
func NewParseHandler(logger *slog.Logger) *ParseHandler {
	return &ParseHandler{BaseHandler: NewBaseHandler("DefaultProcessingHandler.Parse", logger)}
}

func (h *ParseHandler) Process(req *Request) *Request { return h.BaseHandler.Process(h, req) }

func (h *ParseHandler) Handle(req *Request) *Request {
	for _, vd := range req.VerificationData {
		if vd.Data != nil {
			continue
		}
		switch vd.Dtype {
		case DTypeArgdown:
			g, err := argdown.Parse(vd.CodeSnippet)
			if err != nil {
				req.AddResult(Result{
					VerifierID: h.Name(),
					VerificationDataReferences: []string{vd.ID},
					IsValid: false,
					Message: fmt.Sprintf("Failed to parse argdown block %q: %v", vd.ID, err),
				})
				continue
			}
			vd.Data = g
		case DTypeXML:
			doc, err := xmlanno.Parse(vd.CodeSnippet)
			if err != nil {
				req.AddResult(Result{
					VerifierID: h.Name(),
					VerificationDataReferences: []string{vd.ID},
					IsValid: false,
					Message: fmt.Sprintf("Failed to parse xml block %q: %v", vd.ID, err),
				})
				continue
			}
			vd.Data = doc
		}
	}
	return req
}
