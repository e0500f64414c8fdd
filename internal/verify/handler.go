package verify

import (
	"fmt"
	"log/slog"
)

// Handler is the single interface every check, filter, and composite in the
// pipeline implements. Process is the fixed outer routine ; Handle is
// the per-handler logic that concrete checks and composites implement.
type Handler interface {
	Name() string
	Process(req *Request) *Request
	Handle(req *Request) *Request
}

// BaseHandler implements the fixed Process routine: check
// continue_processing, append the handler's name to executed_handlers, call
// Handle, recover from any panic inside Handle as an invalid Result tagged
// "Processing error: ...", and delegate to Next only if still continuing.
//
// Concrete handlers embed BaseHandler and implement Handle themselves; they
// must not override Process.
type BaseHandler struct {
	HandlerName string
	Logger      *slog.Logger
	Next        Handler

	// handleFn is an optional function slot; no handler in this module sets
	// it, and Process never calls it (Process always calls the embedding
	// type's own Handle).
	handleFn func(req *Request) *Request
}

// NewBaseHandler constructs a BaseHandler with the given name and logger.
func NewBaseHandler(name string, logger *slog.Logger) BaseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return BaseHandler{HandlerName: name, Logger: logger}
}

func (b *BaseHandler) Name() string { return b.HandlerName }

// Process is the fixed outer routine; self is the concrete handler (needed
// so Handle dispatches virtually even though BaseHandler is embedded).
func (b *BaseHandler) Process(self Handler, req *Request) *Request {
	if !req.ContinueProcessing {
		return req
	}
	req.MarkExecuted(self.Name())

	req = runHandleRecovered(self, req, b.Logger)

	if req.ContinueProcessing && b.Next != nil {
		return b.Next.Process(req)
	}
	return req
}

func runHandleRecovered(self Handler, req *Request, logger *slog.Logger) (out *Request) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("handler panic", "handler", self.Name(), "panic", rec)
			req.AddResult(Result{
				VerifierID: self.Name(),
				IsValid: false,
				Message: fmt.Sprintf("Processing error: %v", rec),
			})
			out = req
		}
	}()
	return self.Handle(req)
}

// CompositeHandler is an ordered list of child handlers that are invoked
// sequentially, breaking early only when ContinueProcessing becomes false
// . It is itself a Handler, so composites nest.
type CompositeHandler struct {
	BaseHandler
	Children []Handler
}

// NewCompositeHandler builds a composite with the given name and children.
func NewCompositeHandler(name string, logger *slog.Logger, children []Handler) *CompositeHandler {
	c := &CompositeHandler{BaseHandler: NewBaseHandler(name, logger), Children: children}
	return c
}

func (c *CompositeHandler) Process(req *Request) *Request { return c.BaseHandler.Process(c, req) }

func (c *CompositeHandler) Handle(req *Request) *Request {
	for _, child := range c.Children {
		req = child.Process(req)
		if !req.ContinueProcessing {
			break
		}
	}
	return req
}

// VDFilter is a predicate over a single PrimaryData item, used by filtered
// handlers and by role-based filter compilation.
type VDFilter func(vd *PrimaryData) bool

// AlwaysTrue is the identity filter used when no role filter is configured.
func AlwaysTrue(vd *PrimaryData) bool { return true }

// PairFilter is a two-argument applicability predicate for coherence
// handlers ("pairwise coherence handler").
type PairFilter func(a, b *PrimaryData) bool
