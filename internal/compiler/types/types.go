// Package types defines the checked type graph consumed by the projection and
// routing passes: models, their properties, operations and the containers that
// group them.
//
// Node identity is by pointer. Two nodes with identical shape are distinct
// unless they are the same node.
package types

import (
	"fmt"
	"strings"
)

// SourceLocation tracks the declaration site of a node.
type SourceLocation struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

func (l SourceLocation) String() string {
	file := l.File
	if file == "" {
		file = "<source>"
	}
	return fmt.Sprintf("%s:%d:%d", file, l.Line, l.Column)
}

// Kind is the tag of a type node.
type Kind string

const (
	KindModel         Kind = "Model"
	KindModelProperty Kind = "ModelProperty"
	KindScalar        Kind = "Scalar"
	KindString        Kind = "String"
	KindOperation     Kind = "Operation"
	KindNamespace     Kind = "Namespace"
	KindInterface     Kind = "Interface"
)

// Type is a node of the type graph. The set of implementations is closed:
// switches over a Type only need to handle the variants declared here.
type Type interface {
	Kind() Kind
	Location() SourceLocation
	String() string
	node()
}

// Scalar is a built-in primitive such as string or int32.
type Scalar struct {
	Name string
	Loc  SourceLocation
}

func (*Scalar) node()                      {}
func (*Scalar) Kind() Kind                 { return KindScalar }
func (s *Scalar) Location() SourceLocation { return s.Loc }
func (s *Scalar) String() string           { return s.Name }

// StringLiteral is a compile-time string value used as a type.
type StringLiteral struct {
	Value string
	Loc   SourceLocation
}

func (*StringLiteral) node()                      {}
func (*StringLiteral) Kind() Kind                 { return KindString }
func (s *StringLiteral) Location() SourceLocation { return s.Loc }
func (s *StringLiteral) String() string           { return fmt.Sprintf("%q", s.Value) }

// ModelID addresses a model in its Program's arena. Zero means the model has
// not been finished yet.
type ModelID int

// Indexer describes the homogeneous element type of an array- or record-like
// model.
type Indexer struct {
	Key   *Scalar
	Value Type
}

// Model is a named or anonymous composite shape.
type Model struct {
	ID                ModelID
	Name              string
	Namespace         *Namespace
	BaseModel         *Model
	Properties        *PropertyMap
	Indexer           *Indexer
	TemplateArguments []Type
	Intrinsic         bool
	Loc               SourceLocation

	// Origin and Variant are set on models produced by a projection.
	Origin  *Model
	Variant string

	finished bool
}

func (*Model) node()                      {}
func (*Model) Kind() Kind                 { return KindModel }
func (m *Model) Location() SourceLocation { return m.Loc }

func (m *Model) String() string {
	if m.Name == "" {
		names := make([]string, 0, m.Properties.Len())
		for _, p := range m.Properties.Values() {
			names = append(names, p.Name)
		}
		return "{" + strings.Join(names, ", ") + "}"
	}
	if len(m.TemplateArguments) == 0 {
		return m.Name
	}
	args := make([]string, len(m.TemplateArguments))
	for i, a := range m.TemplateArguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", m.Name, strings.Join(args, ", "))
}

// Finished reports whether the model has been sealed into its program.
func (m *Model) Finished() bool {
	return m.finished
}

// ModelProperty is a named, typed member of a model.
type ModelProperty struct {
	Name     string
	Model    *Model
	Type     Type
	Optional bool
	Default  Type

	// SourceProperty points at the property this one was copied from, if any.
	SourceProperty *ModelProperty
	Loc            SourceLocation
}

func (*ModelProperty) node()                      {}
func (*ModelProperty) Kind() Kind                 { return KindModelProperty }
func (p *ModelProperty) Location() SourceLocation { return p.Loc }

func (p *ModelProperty) String() string {
	if p.Model != nil && p.Model.Name != "" {
		return p.Model.Name + "." + p.Name
	}
	return p.Name
}

// Operation is a declared service operation. Parameters is always a model,
// possibly anonymous and empty.
type Operation struct {
	Name                string
	Namespace           *Namespace
	Interface           *Interface
	Parameters          *Model
	ReturnType          Type
	TemplateDeclaration bool
	TemplateInstance    bool
	Loc                 SourceLocation
}

func (*Operation) node()                      {}
func (*Operation) Kind() Kind                 { return KindOperation }
func (o *Operation) Location() SourceLocation { return o.Loc }
func (o *Operation) String() string           { return o.Name }

// Interface groups operations inside a namespace.
type Interface struct {
	Name                string
	Namespace           *Namespace
	Operations          []*Operation
	TemplateDeclaration bool
	Loc                 SourceLocation
}

func (*Interface) node()                      {}
func (*Interface) Kind() Kind                 { return KindInterface }
func (i *Interface) Location() SourceLocation { return i.Loc }
func (i *Interface) String() string           { return i.Name }

// AddOperation appends op and sets its parent interface.
func (i *Interface) AddOperation(op *Operation) *Operation {
	op.Interface = i
	op.Namespace = i.Namespace
	i.Operations = append(i.Operations, op)
	return op
}

// Namespace is a container of declarations. The global namespace has an
// empty name and no parent.
type Namespace struct {
	Name       string
	Namespace  *Namespace
	Namespaces []*Namespace
	Interfaces []*Interface
	Operations []*Operation
	Models     []*Model
	Loc        SourceLocation
}

func (*Namespace) node()                      {}
func (*Namespace) Kind() Kind                 { return KindNamespace }
func (n *Namespace) Location() SourceLocation { return n.Loc }

func (n *Namespace) String() string {
	if n.Namespace == nil || n.Namespace.Name == "" {
		return n.Name
	}
	return n.Namespace.String() + "." + n.Name
}

// AddNamespace appends a child namespace.
func (n *Namespace) AddNamespace(child *Namespace) *Namespace {
	child.Namespace = n
	n.Namespaces = append(n.Namespaces, child)
	return child
}

// AddInterface appends an interface declared in n.
func (n *Namespace) AddInterface(iface *Interface) *Interface {
	iface.Namespace = n
	for _, op := range iface.Operations {
		op.Namespace = n
	}
	n.Interfaces = append(n.Interfaces, iface)
	return iface
}

// AddOperation appends an operation declared directly in n.
func (n *Namespace) AddOperation(op *Operation) *Operation {
	op.Namespace = n
	n.Operations = append(n.Operations, op)
	return op
}

// LookupNamespace returns the direct child namespace with the given name.
func (n *Namespace) LookupNamespace(name string) *Namespace {
	for _, child := range n.Namespaces {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// LookupInterface returns the interface with the given name declared in n.
func (n *Namespace) LookupInterface(name string) *Interface {
	for _, iface := range n.Interfaces {
		if iface.Name == name {
			return iface
		}
	}
	return nil
}

// LookupModel returns the model with the given name declared in n.
func (n *Namespace) LookupModel(name string) *Model {
	for _, m := range n.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}
