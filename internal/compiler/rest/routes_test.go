package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/types"
)

func routeNames(routes []OperationDetails) []string {
	names := make([]string, len(routes))
	for i, r := range routes {
		names[i] = r.Operation.Name
	}
	return names
}

func TestDuplicateOperations(t *testing.T) {
	build := func(secondVerb string) diagnostics.List {
		f := newFixture(t)
		svc := f.service("Svc")
		a := f.op(svc, "a")
		b := f.op(svc, "b")
		decorators.SetRoute(f.store, a, "/pets")
		decorators.SetRoute(f.store, b, "/pets")
		decorators.SetVerb(f.store, a, "get")
		decorators.SetVerb(f.store, b, secondVerb)

		_, diags := f.session().GetAllRoutes(nil)
		return diags
	}

	diags := build("get")
	require.Len(t, diags, 2)
	assert.Equal(t, []string{diagnostics.CodeDuplicateOperation, diagnostics.CodeDuplicateOperation}, diags.Codes())
	assert.Equal(t, `Duplicate operation "a" routed at "get /pets".`, diags[0].Message)
	assert.Equal(t, `Duplicate operation "b" routed at "get /pets".`, diags[1].Message)

	assert.Empty(t, build("post"), "distinct verbs do not collide")
}

func TestGlobalServiceDoesNotRouteSubNamespaces(t *testing.T) {
	f := newFixture(t)
	global := f.program.GlobalNamespace()
	decorators.SetService(f.store, f.program, global)

	f.op(global, "ping")
	other := global.AddNamespace(&types.Namespace{Name: "Other"})
	f.op(other, "hidden")
	iface := global.AddInterface(&types.Interface{Name: "Ops"})
	f.ifaceOp(iface, "visible")
	decorators.SetRoute(f.store, iface, "/ops")

	routes, diags := f.session().GetAllRoutes(nil)
	require.Empty(t, diags)
	assert.Equal(t, []string{"ping", "visible"}, routeNames(routes))
	assert.Equal(t, "/ops", routes[1].Path)
	assert.Same(t, iface, routes[1].Container)
}

func TestServiceRoutesNestedContainers(t *testing.T) {
	f := newFixture(t)
	svc := f.service("Svc")
	decorators.SetRoute(f.store, svc, "/api")
	v1 := svc.AddNamespace(&types.Namespace{Name: "V1"})
	decorators.SetRoute(f.store, v1, "v1")
	list := f.op(v1, "list")
	decorators.SetRoute(f.store, list, "/pets")

	routes, _ := f.session().GetAllRoutes(nil)
	require.Len(t, routes, 1)
	assert.Equal(t, "/api/v1/pets", routes[0].Path)
	assert.Same(t, v1, routes[0].Container)
}

func TestExternalInterfacesAreRouted(t *testing.T) {
	f := newFixture(t)
	svc := f.service("Svc")
	lib := f.program.GlobalNamespace().AddNamespace(&types.Namespace{Name: "Lib"})
	ops := lib.AddInterface(&types.Interface{Name: "Ops"})
	status := f.ifaceOp(ops, "status")
	decorators.SetRoute(f.store, status, "/status")
	decorators.IncludeInterfaceRoutes(f.store, svc, "Lib.Ops")

	routes, _ := f.session().GetAllRoutes(nil)
	require.Len(t, routes, 1)
	assert.Equal(t, "/status", routes[0].Path)
	assert.Same(t, ops, routes[0].Container)
}

func TestTemplatesAreNotRouted(t *testing.T) {
	f := newFixture(t)
	svc := f.service("Svc")
	tmpl := svc.AddInterface(&types.Interface{Name: "Resource", TemplateDeclaration: true})
	f.ifaceOp(tmpl, "read")
	op := f.op(svc, "instance")
	op.TemplateInstance = true
	f.op(svc, "real")

	routes, _ := f.session().GetAllRoutes(nil)
	assert.Equal(t, []string{"real"}, routeNames(routes))
}

func TestVerbSelection(t *testing.T) {
	f := newFixture(t)
	svc := f.service("Svc")

	replace := f.op(svc, "replace")
	decorators.SetResourceOperation(f.store, replace, decorators.ResourceOperation{Operation: "createOrReplace"})
	decorators.SetVerb(f.store, replace, "post")
	decorators.SetRoute(f.store, replace, "/a")

	archive := f.op(svc, "archive")
	decorators.SetAction(f.store, archive, "")
	decorators.SetRoute(f.store, archive, "/b")

	implicit := f.op(svc, "implicit", f.prop("name", f.str()))
	decorators.SetRoute(f.store, implicit, "/c")

	plain := f.op(svc, "plain")
	decorators.SetRoute(f.store, plain, "/d")

	routes, diags := f.session().GetAllRoutes(nil)
	require.Len(t, routes, 4)
	assert.Equal(t, VerbPut, routes[0].Verb, "resource operation wins over explicit verb")
	assert.Equal(t, VerbPost, routes[1].Verb)
	assert.Equal(t, VerbPost, routes[2].Verb)
	assert.Equal(t, VerbGet, routes[3].Verb)

	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.CodeVerbMissingWithBody, diags[0].Code)
	assert.Equal(t, diagnostics.Warning, diags[0].Severity)
	assert.False(t, diags.HasErrors())
}

func TestWithoutServiceThereAreNoRoutes(t *testing.T) {
	f := newFixture(t)
	f.op(f.program.GlobalNamespace(), "orphan")

	routes, diags, err := f.session().AllRoutes(nil)
	require.NoError(t, err)
	assert.Empty(t, routes)
	assert.Empty(t, diags)

	warn := ReportIfNoRoutes(f.program, routes)
	assert.Equal(t, []string{diagnostics.CodeNoRoutes}, warn.Codes())
	assert.Empty(t, ReportIfNoRoutes(f.program, []OperationDetails{{}}))
}

func TestWithServiceOverride(t *testing.T) {
	f := newFixture(t)
	f.service("Svc")
	other := f.program.GlobalNamespace().AddNamespace(&types.Namespace{Name: "Other"})
	f.op(other, "only")

	routes, _, err := f.session(WithService(other)).AllRoutes(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, routeNames(routes))
}

func TestResponses(t *testing.T) {
	f := newFixture(t)
	svc := f.service("Svc")

	thing := recursiveThing(f, f.header("h1", f.str()))
	code := f.prop("code", &types.StringLiteral{Value: "201"})
	decorators.SetStatusCode(f.store, code)
	created := f.model("Created", code, f.prop("id", f.str()))
	onlyHeader := f.model("Ack", f.header("etag", f.str()))

	ops := map[string]types.Type{"thing": thing, "created": created, "ack": onlyHeader, "none": nil}
	for _, name := range []string{"thing", "created", "ack", "none"} {
		op := f.op(svc, name)
		op.ReturnType = ops[name]
	}
	s := f.session()

	t.Run("headers split from body", func(t *testing.T) {
		resp := s.GetResponsesForOperation(svc.Operations[0])
		require.Len(t, resp, 1)
		assert.Equal(t, "200", resp[0].StatusCode)
		require.Len(t, resp[0].Headers, 1)
		assert.Equal(t, "h1", resp[0].Headers[0].Name)
		body := resp[0].Body.(*types.Model)
		assert.Equal(t, []string{"things"}, body.Properties.Names())
		assert.Same(t, thing, body.Origin)
	})

	t.Run("status code literal", func(t *testing.T) {
		resp := s.GetResponsesForOperation(svc.Operations[1])
		assert.Equal(t, "201", resp[0].StatusCode)
		assert.Equal(t, []string{"id"}, resp[0].Body.(*types.Model).Properties.Names())
	})

	t.Run("no body left", func(t *testing.T) {
		resp := s.GetResponsesForOperation(svc.Operations[2])
		assert.Equal(t, "204", resp[0].StatusCode)
		assert.Nil(t, resp[0].Body)
		assert.Len(t, resp[0].Headers, 1)
	})

	t.Run("no return type", func(t *testing.T) {
		resp := s.GetResponsesForOperation(svc.Operations[3])
		assert.Equal(t, "204", resp[0].StatusCode)
		assert.Nil(t, resp[0].Body)
	})
}
