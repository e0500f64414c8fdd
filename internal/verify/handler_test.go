package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fnHandler is a minimal concrete Handler for exercising BaseHandler.Process,
// mirroring the shape every real check handler uses (embed BaseHandler,
// implement Handle, delegate Process to BaseHandler.Process(self, req)).
type fnHandler struct {
	BaseHandler
	fn func(req *Request) *Request
}

func newFnHandler(name string, fn func(*Request) *Request) *fnHandler {
	return &fnHandler{BaseHandler: NewBaseHandler(name, nil), fn: fn}
}

func (h *fnHandler) Process(req *Request) *Request { return h.BaseHandler.Process(h, req) }
func (h *fnHandler) Handle(req *Request) *Request   { return h.fn(req) }

func TestBaseHandler_MarksExecuted(t *testing.T) {
	h := newFnHandler("A", func(req *Request) *Request { return req })
	req := NewRequest("in", "src", DefaultConfig())
	h.Process(req)
	assert.Equal(t, []string{"A"}, req.ExecutedHandlers)
}

func TestBaseHandler_SkipsWhenNotContinuing(t *testing.T) {
	called := false
	h := newFnHandler("A", func(req *Request) *Request { called = true; return req })
	req := NewRequest("in", "src", DefaultConfig())
	req.ContinueProcessing = false
	h.Process(req)
	assert.False(t, called)
	assert.Empty(t, req.ExecutedHandlers)
}

func TestBaseHandler_RecoversPanic(t *testing.T) {
	h := newFnHandler("A", func(req *Request) *Request { panic("boom") })
	req := NewRequest("in", "src", DefaultConfig())
	out := h.Process(req)
	require.Len(t, out.Results, 1)
	assert.False(t, out.Results[0].IsValid)
	assert.Contains(t, out.Results[0].Message, "boom")
}

func TestBaseHandler_ChainsToNext(t *testing.T) {
	second := newFnHandler("B", func(req *Request) *Request {
		req.AddResult(Result{VerifierID: "B", IsValid: true})
		return req
	})
	first := newFnHandler("A", func(req *Request) *Request {
		req.AddResult(Result{VerifierID: "A", IsValid: true})
		return req
	})
	first.Next = second

	req := NewRequest("in", "src", DefaultConfig())
	first.Process(req)

	assert.Equal(t, []string{"A", "B"}, req.ExecutedHandlers)
	require.Len(t, req.Results, 2)
}

func TestBaseHandler_StopsChainWhenHandleHalts(t *testing.T) {
	calledB := false
	second := newFnHandler("B", func(req *Request) *Request { calledB = true; return req })
	first := newFnHandler("A", func(req *Request) *Request {
		req.ContinueProcessing = false
		return req
	})
	first.Next = second

	req := NewRequest("in", "src", DefaultConfig())
	first.Process(req)

	assert.False(t, calledB)
	assert.Equal(t, []string{"A"}, req.ExecutedHandlers)
}

func TestCompositeHandler_RunsChildrenInOrder(t *testing.T) {
	var order []string
	a := newFnHandler("A", func(req *Request) *Request { order = append(order, "A"); return req })
	b := newFnHandler("B", func(req *Request) *Request { order = append(order, "B"); return req })
	c := NewCompositeHandler("C", nil, []Handler{a, b})

	req := NewRequest("in", "src", DefaultConfig())
	c.Process(req)

	assert.Equal(t, []string{"A", "B"}, order)
	assert.Equal(t, []string{"C", "A", "B"}, req.ExecutedHandlers)
}

func TestCompositeHandler_BreaksEarly(t *testing.T) {
	var order []string
	a := newFnHandler("A", func(req *Request) *Request {
		order = append(order, "A")
		req.ContinueProcessing = false
		return req
	})
	b := newFnHandler("B", func(req *Request) *Request { order = append(order, "B"); return req })
	c := NewCompositeHandler("C", nil, []Handler{a, b})

	req := NewRequest("in", "src", DefaultConfig())
	c.Process(req)

	assert.Equal(t, []string{"A"}, order)
}

func TestRequest_IsValid(t *testing.T) {
	req := NewRequest("in", "src", DefaultConfig())
	assert.True(t, req.IsValid())

	req.AddResult(Result{VerifierID: "A", IsValid: true})
	assert.True(t, req.IsValid())

	req.AddResult(Result{VerifierID: "B", IsValid: false})
	assert.False(t, req.IsValid())
}

func TestRequest_MarkExecutedOnce(t *testing.T) {
	req := NewRequest("in", "src", DefaultConfig())
	assert.True(t, req.MarkExecuted("A"))
	assert.False(t, req.MarkExecuted("A"))
	assert.Equal(t, []string{"A"}, req.ExecutedHandlers)
}

func TestRequest_Merge(t *testing.T) {
	r1 := NewRequest("in1", "src1", DefaultConfig())
	r1.AddResult(Result{VerifierID: "A", IsValid: true})
	r1.MarkExecuted("A")

	r2 := NewRequest("in2", "src2", DefaultConfig())
	r2.AddResult(Result{VerifierID: "B", IsValid: false})
	r2.MarkExecuted("B")
	r2.ContinueProcessing = false

	r1.Merge(r2)

	require.Len(t, r1.Results, 2)
	assert.Equal(t, []string{"A", "B"}, r1.ExecutedHandlers)
	assert.False(t, r1.ContinueProcessing)
}
