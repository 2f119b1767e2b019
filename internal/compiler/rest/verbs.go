package rest

import (
	"github.com/conduit-lang/prism/internal/compiler/decorators"
	"github.com/conduit-lang/prism/internal/compiler/diagnostics"
	"github.com/conduit-lang/prism/internal/compiler/state"
	"github.com/conduit-lang/prism/internal/compiler/types"
	"github.com/conduit-lang/prism/internal/compiler/visibility"
)

// Verb is an HTTP method in lowercase.
type Verb string

const (
	VerbGet    Verb = "get"
	VerbPut    Verb = "put"
	VerbPost   Verb = "post"
	VerbPatch  Verb = "patch"
	VerbDelete Verb = "delete"
	VerbHead   Verb = "head"
)

// ParseVerb converts a lowercase method name into a Verb.
func ParseVerb(s string) (Verb, bool) {
	switch v := Verb(s); v {
	case VerbGet, VerbPut, VerbPost, VerbPatch, VerbDelete, VerbHead:
		return v, true
	default:
		return "", false
	}
}

// RequestVisibility returns the visibility request payloads are projected at
// for verb.
func RequestVisibility(verb Verb) visibility.Visibility {
	switch verb {
	case VerbGet, VerbHead:
		return visibility.Query
	case VerbPost:
		return visibility.Create
	case VerbPut:
		return visibility.Create | visibility.Update
	case VerbPatch:
		return visibility.Update
	case VerbDelete:
		return visibility.Delete
	default:
		diagnostics.Assert(false, "unreachable: unknown verb %q", verb)
		return 0
	}
}

var resourceOperationVerbs = map[string]Verb{
	"read":            VerbGet,
	"create":          VerbPost,
	"createOrUpdate":  VerbPatch,
	"createOrReplace": VerbPut,
	"update":          VerbPatch,
	"delete":          VerbDelete,
	"list":            VerbGet,
}

// verbForOperation picks the verb from the resource operation kind, then an
// explicit verb, then "post" for actions. It reports false when none apply.
func verbForOperation(s state.Store, op *types.Operation) (Verb, bool) {
	if ro, ok := decorators.GetResourceOperation(s, op); ok {
		if verb, ok := resourceOperationVerbs[ro.Operation]; ok {
			return verb, true
		}
	}
	if verb, ok := ParseVerb(decorators.Verb(s, op)); ok {
		return verb, true
	}
	if _, ok := decorators.Action(s, op); ok {
		return VerbPost, true
	}
	if _, ok := decorators.CollectionAction(s, op); ok {
		return VerbPost, true
	}
	return "", false
}
