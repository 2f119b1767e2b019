// Package openapi renders a validated route table as an OpenAPI 3 document.
package openapi

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/rest"
	"github.com/conduit-lang/prism/internal/compiler/types"
	strutil "github.com/conduit-lang/prism/internal/util/strings"
)

// OpenAPIVersion is the version of the emitted documents.
const OpenAPIVersion = "3.0.3"

const (
	schemaRefPrefix = "#/components/schemas/"
	successDesc     = "The request has succeeded."
	noContentDesc   = "There is no content to send for this request, but the headers may be useful."
)

// Info is the document metadata.
type Info struct {
	Title   string
	Version string
}

type emitter struct {
	session *rest.Session
	logger  *zap.Logger
	doc     *openapi3.T

	names   map[*types.Model]string
	taken   map[string]bool
	defined map[*types.Model]bool
}

// Emit builds the document for routes. Models reachable from the routes are
// emitted as components; declared models keep their names and projections
// that collide with them are suffixed with their variant.
func Emit(session *rest.Session, routes []rest.OperationDetails, info Info) (doc *openapi3.T, err error) {
	defer diagnostics.Recover(&err)

	e := &emitter{
		session: session,
		logger:  session.Logger(),
		doc: &openapi3.T{
			OpenAPI: OpenAPIVersion,
			Info:    &openapi3.Info{Title: info.Title, Version: info.Version},
			Paths:   openapi3.NewPaths(),
			Components: &openapi3.Components{
				Schemas: openapi3.Schemas{},
			},
		},
		names:   make(map[*types.Model]string),
		taken:   make(map[string]bool),
		defined: make(map[*types.Model]bool),
	}

	e.assignNames(routes)
	for _, route := range routes {
		e.emitOperation(route)
	}

	e.logger.Debug("emitted openapi document",
		zap.Int("paths", e.doc.Paths.Len()),
		zap.Int("schemas", len(e.doc.Components.Schemas)))
	return e.doc, nil
}

func (e *emitter) emitOperation(route rest.OperationDetails) {
	item := e.doc.Paths.Value(route.Path)
	if item == nil {
		item = &openapi3.PathItem{}
		e.doc.Paths.Set(route.Path, item)
	}

	op := openapi3.NewOperation()
	op.OperationID = route.Operation.Name
	op.Parameters = openapi3.Parameters{}

	for _, p := range route.Parameters.Parameters {
		param := &openapi3.Parameter{
			Name:     p.Name,
			In:       string(p.Type),
			Required: p.Type == rest.LocationPath || !p.Param.Optional,
			Schema:   e.schemaRef(p.Param.Type),
		}
		op.AddParameter(param)
	}

	if route.Parameters.HasBody() {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchemaRef(e.schemaRef(route.Parameters.BodyType)),
		}
	}

	op.Responses = &openapi3.Responses{}
	for _, r := range route.Responses {
		op.Responses.Set(r.StatusCode, &openapi3.ResponseRef{Value: e.response(r)})
	}

	item.SetOperation(strings.ToUpper(string(route.Verb)), op)
}

func (e *emitter) response(r rest.Response) *openapi3.Response {
	desc := successDesc
	if r.StatusCode == "204" {
		desc = noContentDesc
	}
	resp := openapi3.NewResponse().WithDescription(desc)

	if len(r.Headers) > 0 {
		resp.Headers = openapi3.Headers{}
		for _, h := range r.Headers {
			resp.Headers[h.Name] = &openapi3.HeaderRef{Value: &openapi3.Header{
				Parameter: openapi3.Parameter{
					Required: !h.Property.Optional,
					Schema:   e.schemaRef(h.Property.Type),
				},
			}}
		}
	}

	if r.Body != nil {
		resp.Content = openapi3.NewContentWithJSONSchemaRef(e.schemaRef(r.Body))
	}
	return resp
}

// schemaRef returns a reference for named models and an inline schema for
// everything else.
func (e *emitter) schemaRef(t types.Type) *openapi3.SchemaRef {
	switch v := t.(type) {
	case *types.Scalar:
		return openapi3.NewSchemaRef("", scalarSchema(v))
	case *types.StringLiteral:
		return openapi3.NewSchemaRef("", openapi3.NewStringSchema().WithEnum(v.Value))
	case *types.Model:
		switch {
		case v.Intrinsic:
			return openapi3.NewSchemaRef("", &openapi3.Schema{})
		case types.IsArrayModel(v):
			arr := openapi3.NewArraySchema()
			arr.Items = e.schemaRef(v.Indexer.Value)
			return openapi3.NewSchemaRef("", arr)
		}
		if name, ok := e.names[v]; ok {
			e.define(v, name)
			return openapi3.NewSchemaRef(schemaRefPrefix+name, nil)
		}
		return openapi3.NewSchemaRef("", e.modelSchema(v))
	default:
		diagnostics.Assert(false, "unreachable: cannot emit schema for %s", t.Kind())
		return nil
	}
}

func (e *emitter) define(m *types.Model, name string) {
	if e.defined[m] {
		return
	}
	e.defined[m] = true
	e.doc.Components.Schemas[name] = openapi3.NewSchemaRef("", e.modelSchema(m))
}

func (e *emitter) modelSchema(m *types.Model) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()

	if m.BaseModel != nil {
		schema.AllOf = openapi3.SchemaRefs{e.schemaRef(m.BaseModel)}
	}
	if m.Indexer != nil && m.Indexer.Value != nil {
		schema.AdditionalProperties = openapi3.AdditionalProperties{Schema: e.schemaRef(m.Indexer.Value)}
	}

	for _, prop := range m.Properties.Values() {
		if emptied(prop.Type) {
			continue
		}
		schema.Properties[prop.Name] = e.schemaRef(prop.Type)
		if !prop.Optional {
			schema.Required = append(schema.Required, prop.Name)
		}
	}
	return schema
}

// emptied reports whether t is a projection that lost every property of a
// non-empty original, directly or because all that is left is emptied too.
// Such properties are dropped from their parent.
func emptied(t types.Type) bool {
	return isEmptied(t, make(map[*types.Model]bool))
}

func isEmptied(t types.Type, seen map[*types.Model]bool) bool {
	m, ok := t.(*types.Model)
	if !ok || m.Origin == nil || types.IsArrayModel(m) || seen[m] {
		return false
	}
	seen[m] = true
	if len(types.WalkPropertiesInherited(m.Origin)) == 0 {
		return false
	}
	for _, p := range types.WalkPropertiesInherited(m) {
		if !isEmptied(p.Type, seen) {
			return false
		}
	}
	return true
}

func scalarSchema(s *types.Scalar) *openapi3.Schema {
	switch s.Name {
	case types.ScalarString:
		return openapi3.NewStringSchema()
	case types.ScalarBoolean:
		return openapi3.NewBoolSchema()
	case types.ScalarInt32:
		return openapi3.NewInt32Schema()
	case types.ScalarInt64:
		return openapi3.NewInt64Schema()
	case types.ScalarInteger:
		return openapi3.NewIntegerSchema()
	case types.ScalarFloat32:
		return openapi3.NewFloat64Schema().WithFormat("float")
	case types.ScalarFloat64:
		return openapi3.NewFloat64Schema()
	case types.ScalarNumeric:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeNumber}}
	case types.ScalarBytes:
		return openapi3.NewBytesSchema()
	case types.ScalarDateTime:
		return openapi3.NewDateTimeSchema()
	default:
		return &openapi3.Schema{}
	}
}

func componentName(m *types.Model) string {
	if !types.IsTemplateInstance(m) {
		return m.Name
	}
	var b strings.Builder
	b.WriteString(declaredName(m))
	for _, arg := range m.TemplateArguments {
		switch a := arg.(type) {
		case *types.Model:
			b.WriteString(componentName(a))
		case *types.Scalar:
			b.WriteString(strutil.Capitalize(a.Name))
		default:
			b.WriteString(string(arg.Kind()))
		}
	}
	return b.String()
}
