package types

// Built-in scalar names.
const (
	ScalarString   = "string"
	ScalarBoolean  = "boolean"
	ScalarInteger  = "integer"
	ScalarInt32    = "int32"
	ScalarInt64    = "int64"
	ScalarFloat32  = "float32"
	ScalarFloat64  = "float64"
	ScalarNumeric  = "numeric"
	ScalarBytes    = "bytes"
	ScalarDateTime = "utcDateTime"
)

var builtinScalars = []string{
	ScalarString, ScalarBoolean, ScalarInteger, ScalarInt32, ScalarInt64,
	ScalarFloat32, ScalarFloat64, ScalarNumeric, ScalarBytes, ScalarDateTime,
}

// Program owns the type graph of one compilation. Finished models live in an
// arena addressed by ModelID; derived models are a reverse index appended to
// as models are finished, never stored on the models themselves.
type Program struct {
	global  *Namespace
	scalars map[string]*Scalar
	arrays  map[Type]*Model

	models  []*Model
	derived map[ModelID][]*Model
	pending map[*Model][]*Model
}

// NewProgram creates an empty program with the built-in scalars.
func NewProgram() *Program {
	p := &Program{
		global:  &Namespace{},
		scalars: make(map[string]*Scalar, len(builtinScalars)),
		arrays:  make(map[Type]*Model),
		models:  []*Model{nil}, // ModelID 0 is reserved for unfinished models
		derived: make(map[ModelID][]*Model),
		pending: make(map[*Model][]*Model),
	}
	for _, name := range builtinScalars {
		p.scalars[name] = &Scalar{Name: name}
	}
	return p
}

// GlobalNamespace returns the root namespace.
func (p *Program) GlobalNamespace() *Namespace {
	return p.global
}

// IsGlobalNamespace reports whether ns is the root namespace.
func (p *Program) IsGlobalNamespace(ns *Namespace) bool {
	return ns == p.global
}

// Scalar returns the built-in scalar with the given name.
func (p *Program) Scalar(name string) (*Scalar, bool) {
	s, ok := p.scalars[name]
	return s, ok
}

// NewModel declares a finished model in ns. An empty name declares an
// anonymous model, which is not registered in the namespace.
func (p *Program) NewModel(ns *Namespace, name string, props ...*ModelProperty) *Model {
	m := &Model{
		Name:       name,
		Namespace:  ns,
		Properties: NewPropertyMap(),
	}
	for _, prop := range props {
		AddProperty(m, prop)
	}
	if ns != nil && name != "" {
		ns.Models = append(ns.Models, m)
	}
	return p.FinishType(m)
}

// ArrayOf returns the array instance for elem, creating it on first use so
// that every reference to T[] shares one node.
func (p *Program) ArrayOf(elem Type) *Model {
	if m, ok := p.arrays[elem]; ok {
		return m
	}
	m := &Model{
		Name:              "Array",
		Properties:        NewPropertyMap(),
		Indexer:           &Indexer{Key: p.scalars[ScalarInteger], Value: elem},
		TemplateArguments: []Type{elem},
	}
	p.arrays[elem] = m
	return p.FinishType(m)
}

// CreateModel returns an unfinished copy of from's shape. The copy is
// anonymous, has an empty property map and is not visible through the arena
// until FinishType is called.
func (p *Program) CreateModel(from *Model) *Model {
	m := &Model{
		Namespace:  from.Namespace,
		BaseModel:  from.BaseModel,
		Properties: NewPropertyMap(),
		Intrinsic:  from.Intrinsic,
		Loc:        from.Loc,
	}
	if from.Indexer != nil {
		idx := *from.Indexer
		m.Indexer = &idx
	}
	if len(from.TemplateArguments) > 0 {
		m.TemplateArguments = append([]Type(nil), from.TemplateArguments...)
	}
	return m
}

// FinishType seals m into the arena and records it as derived from its base.
// A model finished before its base is indexed once the base is finished.
// Finishing an already finished model is a no-op.
func (p *Program) FinishType(m *Model) *Model {
	if m.finished {
		return m
	}
	m.finished = true
	m.ID = ModelID(len(p.models))
	p.models = append(p.models, m)

	if base := m.BaseModel; base != nil {
		if base.finished {
			p.derived[base.ID] = append(p.derived[base.ID], m)
		} else {
			p.pending[base] = append(p.pending[base], m)
		}
	}
	if waiting, ok := p.pending[m]; ok {
		p.derived[m.ID] = append(p.derived[m.ID], waiting...)
		delete(p.pending, m)
	}
	return m
}

// DerivedModels returns the finished models whose base is m.
func (p *Program) DerivedModels(m *Model) []*Model {
	if m == nil || !m.finished {
		return nil
	}
	return append([]*Model(nil), p.derived[m.ID]...)
}

// Models returns every finished model in finishing order.
func (p *Program) Models() []*Model {
	return append([]*Model(nil), p.models[1:]...)
}

// AddProperty appends prop to m and sets its owner.
func AddProperty(m *Model, prop *ModelProperty) *ModelProperty {
	prop.Model = m
	m.Properties.Set(prop)
	return prop
}

// CloneProperty returns a shallow copy of prop.
func CloneProperty(prop *ModelProperty) *ModelProperty {
	clone := *prop
	return &clone
}
