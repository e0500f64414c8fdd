// Package contentcheck implements has_annotations and has_argdown: thin
// verifiers wrapping a bare existence check on the extracted/parsed
// VerificationData. The registry's builders also place these handlers as
// the first stage of every other verifier's pipeline (see DESIGN.md's Open
// Question decision on this ambiguity).
package contentcheck

import (
	"log/slog"

	"github.com/steveyegge/argcheck/internal/verify"
)

// NewHasAnnotations builds has_annotations: passes if at least one xml
// PrimaryData matching filter parsed successfully.
func NewHasAnnotations(logger *slog.Logger, filter verify.VDFilter) verify.Handler {
	return newExistence("HasAnnotationsHandler", logger, filter, verify.DTypeXML, "No parsed xml annotation found.")
}

// NewHasArgdown builds has_argdown: passes if at least one argdown
// PrimaryData matching filter parsed successfully.
func NewHasArgdown(logger *slog.Logger, filter verify.VDFilter) verify.Handler {
	return newExistence("HasArgdownHandler", logger, filter, verify.DTypeArgdown, "No parsed argdown snippet found.")
}

type existenceHandler struct {
	verify.BaseHandler
	filter  verify.VDFilter
	dtype   verify.DType
	message string
}

func newExistence(name string, logger *slog.Logger, filter verify.VDFilter, dtype verify.DType, message string) *existenceHandler {
	if filter == nil {
		filter = verify.AlwaysTrue
	}
	return &existenceHandler{BaseHandler: verify.NewBaseHandler(name, logger), filter: filter, dtype: dtype, message: message}
}

func (h *existenceHandler) Process(req *verify.Request) *verify.Request {
	return h.BaseHandler.Process(h, req)
}

func (h *existenceHandler) Handle(req *verify.Request) *verify.Request {
	for _, vd := range req.VerificationData {
		if vd.Dtype == h.dtype && vd.Data != nil && h.filter(vd) {
			req.AddResult(verify.Result{VerifierID: h.Name(), VerificationDataReferences: []string{vd.ID}, IsValid: true})
			return req
		}
	}
	req.AddResult(verify.Result{VerifierID: h.Name(), IsValid: false, Message: h.message})
	return req
}
