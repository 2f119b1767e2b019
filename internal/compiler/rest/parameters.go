package rest

import (
	"strings"

	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

// ParameterLocation is where a bound parameter travels on the wire.
type ParameterLocation string

const (
	LocationQuery  ParameterLocation = "query"
	LocationPath   ParameterLocation = "path"
	LocationHeader ParameterLocation = "header"
)

// OperationParameter binds one property to a wire location.
type OperationParameter struct {
	Type  ParameterLocation
	Name  string
	Param *types.ModelProperty
}

// OperationParameters are the resolved request bindings of an operation.
// BodyType is already projected to the request visibility.
type OperationParameters struct {
	Parameters    []OperationParameter
	BodyType      types.Type
	BodyParameter *types.ModelProperty
}

// HasBody reports whether anything was bound to the request body.
func (p OperationParameters) HasBody() bool {
	return p.BodyType != nil
}

// GetOperationParameters binds the parameters of op as sent with verb.
// Conflicting annotations are reported and resolved by precedence query,
// path, header, body.
func (s *Session) GetOperationParameters(verb Verb, op *types.Operation) (OperationParameters, diagnostics.List) {
	c := diagnostics.NewCollector()
	v := RequestVisibility(verb)

	var result OperationParameters
	for _, param := range GatherMetadata(s.store, op.Parameters, v) {
		query := decorators.QueryName(s.store, param)
		path := decorators.PathName(s.store, param)
		header := decorators.HeaderName(s.store, param)
		body := decorators.IsBody(s.store, param)

		var defined []string
		for _, d := range []struct {
			kind string
			set  bool
		}{
			{"query", query != ""},
			{"path", path != ""},
			{"header", header != ""},
			{"body", body},
		} {
			if d.set {
				defined = append(defined, d.kind)
			}
		}
		if len(defined) >= 2 {
			c.Add(diagnostics.Create(diagnostics.Spec{
				Code:   diagnostics.CodeParamDuplicateType,
				Format: map[string]string{"paramName": param.Name, "types": strings.Join(defined, ", ")},
				Target: param,
			}))
		}

		switch {
		case query != "":
			result.Parameters = append(result.Parameters, OperationParameter{Type: LocationQuery, Name: query, Param: param})
		case path != "":
			if param.Optional && param.Default == nil {
				c.Add(diagnostics.Create(diagnostics.Spec{
					Code:   diagnostics.CodeOptionalPathParam,
					Format: map[string]string{"paramName": param.Name},
					Target: op,
				}))
			}
			result.Parameters = append(result.Parameters, OperationParameter{Type: LocationPath, Name: path, Param: param})
		case header != "":
			result.Parameters = append(result.Parameters, OperationParameter{Type: LocationHeader, Name: header, Param: param})
		case body:
			if result.HasBody() {
				c.Add(diagnostics.Create(diagnostics.Spec{Code: diagnostics.CodeDuplicateBody, Target: param}))
				continue
			}
			result.BodyParameter = param
			result.BodyType = s.EffectiveType(param.Type, v)
		}
	}

	if op.Parameters == nil {
		return result, c.Diagnostics()
	}

	remainder := types.FilterModelProperties(s.program, op.Parameters, func(p *types.ModelProperty) bool {
		return !IsApplicableMetadataOrBody(s.store, p, v)
	}, func(from, to *types.ModelProperty) {
		decorators.CopyPropertyFacts(s.store, from, to)
	})
	bodyType := s.EffectiveType(remainder, v)
	if projected, ok := bodyType.(*types.Model); ok && len(types.WalkPropertiesInherited(projected)) > 0 {
		if result.HasBody() {
			c.Add(diagnostics.Create(diagnostics.Spec{
				Code:      diagnostics.CodeDuplicateBody,
				MessageID: diagnostics.MessageBodyAndUnannotated,
				Target:    op,
			}))
		} else {
			result.BodyType = projected
		}
	}

	return result, c.Diagnostics()
}
