package openapi

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/rest"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

type program struct {
	p   *types.Program
	s   *state.MemoryStore
	svc *types.Namespace
	str *types.Scalar
}

func newProgram() *program {
	p := types.NewProgram()
	s := state.NewMemoryStore()
	svc := p.GlobalNamespace().AddNamespace(&types.Namespace{Name: "Svc"})
	decorators.SetService(s, p, svc)
	str, _ := p.Scalar(types.ScalarString)
	return &program{p: p, s: s, svc: svc, str: str}
}

func (pr *program) emit(t *testing.T) *openapi3.T {
	t.Helper()
	session := rest.NewSession(pr.p, pr.s)
	routes, diags, err := session.AllRoutes(nil)
	require.NoError(t, err)
	require.Empty(t, diags)

	doc, err := Emit(session, routes, Info{Title: "Test", Version: "0.1.0"})
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	return doc
}

func thingService(pr *program, props ...*types.ModelProperty) *types.Model {
	thing := pr.p.NewModel(pr.p.GlobalNamespace(), "Thing", props...)
	types.AddProperty(thing, &types.ModelProperty{Name: "things", Type: pr.p.ArrayOf(thing)})

	op := pr.svc.AddOperation(&types.Operation{Name: "get", Parameters: pr.p.NewModel(nil, ""), ReturnType: thing})
	decorators.SetRoute(pr.s, op, "/")
	decorators.SetVerb(pr.s, op, "get")
	return thing
}

func responseSchema(t *testing.T, doc *openapi3.T, path, code string) *openapi3.SchemaRef {
	t.Helper()
	item := doc.Paths.Value(path)
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	resp := item.Get.Responses.Value(code)
	require.NotNil(t, resp)
	return resp.Value.Content.Get("application/json").Schema
}

func TestCycleInUntransformedModel(t *testing.T) {
	pr := newProgram()
	thingService(pr)

	doc := pr.emit(t)

	assert.Equal(t, "get", doc.Paths.Value("/").Get.OperationID)
	assert.Equal(t, "#/components/schemas/Thing", responseSchema(t, doc, "/", "200").Ref)

	require.Len(t, doc.Components.Schemas, 1)
	thing := doc.Components.Schemas["Thing"].Value
	assert.True(t, thing.Type.Is(openapi3.TypeObject))
	assert.Equal(t, []string{"things"}, thing.Required)

	things := thing.Properties["things"].Value
	assert.True(t, things.Type.Is(openapi3.TypeArray))
	assert.Equal(t, "#/components/schemas/Thing", things.Items.Ref)
}

func TestCycleInTransformedModel(t *testing.T) {
	pr := newProgram()
	h1 := &types.ModelProperty{Name: "h1", Type: pr.str}
	decorators.SetHeader(pr.s, h1, "")
	thingService(pr, h1)

	doc := pr.emit(t)

	resp := doc.Paths.Value("/").Get.Responses.Value("200").Value
	require.Contains(t, resp.Headers, "h1")
	assert.True(t, resp.Headers["h1"].Value.Schema.Value.Type.Is(openapi3.TypeString))
	assert.Equal(t, "#/components/schemas/ThingRead", responseSchema(t, doc, "/", "200").Ref)

	read := doc.Components.Schemas["ThingRead"].Value
	assert.Equal(t, []string{"things"}, read.Required)
	assert.NotContains(t, read.Properties, "h1")
	assert.Equal(t, "#/components/schemas/Thing", read.Properties["things"].Value.Items.Ref,
		"collection items keep their headers")

	item := doc.Components.Schemas["Thing"].Value
	assert.Equal(t, []string{"h1", "things"}, item.Required)
	assert.Equal(t, "#/components/schemas/Thing", item.Properties["things"].Value.Items.Ref)
}

func TestNestedMetadataAndEmptiedProperties(t *testing.T) {
	pr := newProgram()
	str := pr.str
	h1 := &types.ModelProperty{Name: "h1", Type: str}
	h2 := &types.ModelProperty{Name: "h2", Type: str}
	id := &types.ModelProperty{Name: "id", Type: str}
	decorators.SetHeader(pr.s, h1, "")
	decorators.SetHeader(pr.s, h2, "")
	decorators.SetPath(pr.s, id, "")

	more := pr.p.NewModel(nil, "", h2)
	headers := pr.p.NewModel(nil, "", h1, &types.ModelProperty{Name: "moreHeaders", Type: more})
	pet := pr.p.NewModel(pr.p.GlobalNamespace(), "Pet",
		&types.ModelProperty{Name: "headers", Type: headers},
		id,
		&types.ModelProperty{Name: "name", Type: str},
	)

	params := pr.p.NewModel(nil, "")
	for _, p := range pet.Properties.Values() {
		clone := types.CloneProperty(p)
		clone.SourceProperty = p
		if decorators.IsPath(pr.s, p) {
			decorators.SetPath(pr.s, clone, decorators.PathName(pr.s, p))
		}
		types.AddProperty(params, clone)
	}

	op := pr.svc.AddOperation(&types.Operation{Name: "create", Parameters: params, ReturnType: pet})
	decorators.SetRoute(pr.s, op, "/pets")
	decorators.SetVerb(pr.s, op, "post")

	doc := pr.emit(t)

	item := doc.Paths.Value("/pets/{id}")
	require.NotNil(t, item)
	post := item.Post
	require.NotNil(t, post)

	var got []string
	for _, p := range post.Parameters {
		got = append(got, p.Value.In+":"+p.Value.Name)
	}
	assert.Equal(t, []string{"path:id", "header:h1", "header:h2"}, got)

	body := post.RequestBody.Value.Content.Get("application/json").Schema.Value
	assert.Equal(t, []string{"name"}, body.Required)
	assert.Len(t, body.Properties, 1)

	resp := post.Responses.Value("200").Value
	assert.Contains(t, resp.Headers, "h1")
	assert.Contains(t, resp.Headers, "h2")

	ref := resp.Content.Get("application/json").Schema.Ref
	assert.Equal(t, "#/components/schemas/Pet", ref)
	read := doc.Components.Schemas["Pet"].Value
	assert.Equal(t, []string{"id", "name"}, read.Required)
	assert.NotContains(t, read.Properties, "headers")
}

func TestMarshal(t *testing.T) {
	pr := newProgram()
	thingService(pr)
	doc := pr.emit(t)

	js, err := Marshal(doc, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(js), `"operationId": "get"`)

	y, err := Marshal(doc, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(y), "openapi: 3.0.3")
	assert.Contains(t, string(y), `"200":`)
	assert.Contains(t, string(y), "operationId: get")

	_, err = Marshal(doc, "toml")
	assert.EqualError(t, err, `unsupported output format "toml"`)
}

func TestProjectionNamesDoNotCollide(t *testing.T) {
	pr := newProgram()
	secret := &types.ModelProperty{Name: "secret", Type: pr.str}
	decorators.SetVisibility(pr.s, secret, "create")
	user := pr.p.NewModel(pr.p.GlobalNamespace(), "User", secret, &types.ModelProperty{Name: "name", Type: pr.str})

	create := pr.svc.AddOperation(&types.Operation{
		Name:       "create",
		Parameters: pr.p.NewModel(nil, "", &types.ModelProperty{Name: "user", Type: user}),
		ReturnType: user,
	})
	decorators.SetRoute(pr.s, create, "/users")
	decorators.SetVerb(pr.s, create, "post")
	decorators.SetAutoVisibility(pr.s, pr.svc)

	doc := pr.emit(t)

	assert.Contains(t, doc.Components.Schemas["User"].Value.Properties, "secret")
	resp := doc.Paths.Value("/users").Post.Responses.Value("200").Value
	assert.Equal(t, "#/components/schemas/UserRead", resp.Content.Get("application/json").Schema.Ref)
	assert.NotContains(t, doc.Components.Schemas["UserRead"].Value.Properties, "secret")
}

func TestProjectedTemplateInstanceIsNamedFromOrigin(t *testing.T) {
	pr := newProgram()
	global := pr.p.GlobalNamespace()
	pet := pr.p.NewModel(global, "Pet", &types.ModelProperty{Name: "name", Type: pr.str})
	next := &types.ModelProperty{Name: "next", Type: pr.str}
	decorators.SetHeader(pr.s, next, "")
	page := pr.p.NewModel(global, "Page", &types.ModelProperty{Name: "total", Type: pr.str}, next)
	page.TemplateArguments = []types.Type{pet}

	op := pr.svc.AddOperation(&types.Operation{Name: "list", Parameters: pr.p.NewModel(nil, ""), ReturnType: page})
	decorators.SetRoute(pr.s, op, "/pets")
	decorators.SetVerb(pr.s, op, "get")

	doc := pr.emit(t)

	assert.Equal(t, "#/components/schemas/PagePet", responseSchema(t, doc, "/pets", "200").Ref)
	schema := doc.Components.Schemas["PagePet"].Value
	assert.Contains(t, schema.Properties, "total")
	assert.NotContains(t, schema.Properties, "next")
	assert.Contains(t, doc.Paths.Value("/pets").Get.Responses.Value("200").Value.Headers, "next")
}
