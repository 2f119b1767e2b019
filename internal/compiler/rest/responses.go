package rest

import (
	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/types"
	"github.com/conduit-lang/prism/internal/compiler/visibility"
)

// ResponseHeader binds a response property to a header.
type ResponseHeader struct {
	Name     string
	Property *types.ModelProperty
}

// Response is one possible response of an operation. Body is projected to
// the read visibility and is nil when nothing is left for the payload.
type Response struct {
	StatusCode string
	Type       types.Type
	Headers    []ResponseHeader
	Body       types.Type
}

// GetResponsesForOperation derives the responses of op from its return
// type.
func (s *Session) GetResponsesForOperation(op *types.Operation) []Response {
	rt := op.ReturnType
	resp := Response{Type: rt}

	var explicitBody *types.ModelProperty
	for _, prop := range GatherMetadata(s.store, rt, visibility.Read) {
		switch {
		case decorators.IsStatusCode(s.store, prop):
			if lit, ok := prop.Type.(*types.StringLiteral); ok && resp.StatusCode == "" {
				resp.StatusCode = lit.Value
			}
		case decorators.IsHeader(s.store, prop):
			resp.Headers = append(resp.Headers, ResponseHeader{
				Name:     decorators.HeaderName(s.store, prop),
				Property: prop,
			})
		case decorators.IsBody(s.store, prop):
			if explicitBody == nil {
				explicitBody = prop
			}
		}
	}

	switch {
	case explicitBody != nil:
		resp.Body = s.EffectiveType(explicitBody.Type, visibility.Read)
	case rt != nil:
		body := s.EffectiveType(rt, visibility.Read)
		if m, ok := body.(*types.Model); !ok || types.IsArrayModel(m) || len(types.WalkPropertiesInherited(m)) > 0 {
			resp.Body = body
		}
	}

	if resp.StatusCode == "" {
		resp.StatusCode = "200"
		if resp.Body == nil {
			resp.StatusCode = "204"
		}
	}
	return []Response{resp}
}
