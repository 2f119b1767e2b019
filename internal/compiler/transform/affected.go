package transform

import "github.com/conduit-lang/prism/internal/compiler/types"

// node is a model as seen by one transformer. The same model can change under
// the item policy and stay put under the main one.
type node struct {
	tr *Transformer
	m  *types.Model
}

// isAffected reports whether transforming m would produce a different model:
// either the policy changes one of its properties, or something it references
// is affected. Results are cached per transformer.
func (t *Transformer) isAffected(m *types.Model) bool {
	if v, ok := t.affected[m]; ok {
		return v
	}

	a := &analysis{
		seen:    make(map[node]bool),
		reverse: make(map[node][]node),
	}
	a.explore(node{tr: t, m: m})
	a.propagate()

	return t.affected[m]
}

type analysis struct {
	seen    map[node]bool
	reverse map[node][]node
	roots   []node
	open    []node
}

// known returns the settled answer for n, if there is one.
func known(n node) (changed, ok bool) {
	if result, ok := n.tr.transformed[n.m]; ok {
		return result != types.Type(n.m), true
	}
	if v, ok := n.tr.affected[n.m]; ok {
		return v, true
	}
	if n.tr.opts.ExcludeType != nil && n.tr.opts.ExcludeType(n.m) {
		return false, true
	}
	return false, false
}

func (a *analysis) explore(start node) {
	stack := []node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if a.seen[n] {
			continue
		}
		a.seen[n] = true

		if changed, ok := known(n); ok {
			if changed {
				a.roots = append(a.roots, n)
			}
			continue
		}
		a.open = append(a.open, n)

		direct, next := n.tr.successors(n.m)
		if direct {
			a.roots = append(a.roots, n)
		}
		for _, s := range next {
			a.reverse[s] = append(a.reverse[s], n)
			if !a.seen[s] {
				stack = append(stack, s)
			}
		}
	}
}

// successors dry-runs the policy over m's own properties and lists the nodes
// m's projection depends on.
func (t *Transformer) successors(m *types.Model) (direct bool, next []node) {
	add := func(tr *Transformer, typ types.Type) {
		if isTransformable(typ) {
			next = append(next, node{tr: tr, m: typ.(*types.Model)})
		}
	}

	if m.BaseModel != nil {
		add(t, m.BaseModel)
	}
	if m.Indexer != nil && m.Indexer.Value != nil {
		add(t.itemTransformer(), m.Indexer.Value)
	}
	args := t.argTransformer(m)
	for _, arg := range m.TemplateArguments {
		add(args, arg)
	}
	for _, prop := range m.Properties.Values() {
		change := newChanger(prop)
		t.opts.Transform(prop, change)
		if change.changed {
			direct = true
		}
		if !change.deleted {
			add(t, change.typ)
		}
	}
	return direct, next
}

func (a *analysis) propagate() {
	affected := make(map[node]bool)
	queue := append([]node(nil), a.roots...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if affected[n] {
			continue
		}
		affected[n] = true
		queue = append(queue, a.reverse[n]...)
	}

	for _, n := range a.open {
		n.tr.affected[n.m] = affected[n]
	}
}
