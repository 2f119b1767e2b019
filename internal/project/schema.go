package project

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the root of a program description. Its declarations belong to
// the global namespace.
type File struct {
	Service    string      `yaml:"service"`
	Models     []Model     `yaml:"models"`
	Interfaces []Interface `yaml:"interfaces"`
	Operations []Operation `yaml:"operations"`
	Namespaces []Namespace `yaml:"namespaces"`
}

// Namespace declares a namespace and everything nested in it.
type Namespace struct {
	Name              string      `yaml:"name"`
	Route             string      `yaml:"route"`
	RouteReset        string      `yaml:"routeReset"`
	AutoRoute         bool        `yaml:"autoRoute"`
	AutoVisibility    bool        `yaml:"autoVisibility"`
	IncludeInterfaces []string    `yaml:"includeInterfaces"`
	Models            []Model     `yaml:"models"`
	Interfaces        []Interface `yaml:"interfaces"`
	Operations        []Operation `yaml:"operations"`
	Namespaces        []Namespace `yaml:"namespaces"`

	pos position
}

func (n *Namespace) UnmarshalYAML(node *yaml.Node) error {
	type plain Namespace
	if err := node.Decode((*plain)(n)); err != nil {
		return err
	}
	n.pos = positionOf(node)
	return nil
}

// Model declares a named model.
type Model struct {
	Name              string     `yaml:"name"`
	Base              string     `yaml:"base"`
	Intrinsic         bool       `yaml:"intrinsic"`
	TemplateArguments []string   `yaml:"templateArguments"`
	Properties        []Property `yaml:"properties"`
	Indexer           *Indexer   `yaml:"indexer"`

	pos position
}

func (m *Model) UnmarshalYAML(node *yaml.Node) error {
	type plain Model
	if err := node.Decode((*plain)(m)); err != nil {
		return err
	}
	m.pos = positionOf(node)
	return nil
}

// Indexer declares the key and element types of a record-like model.
type Indexer struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Property declares a model property or operation parameter. A property
// with nested properties has an inline anonymous model as its type.
type Property struct {
	Name       string     `yaml:"name"`
	Type       string     `yaml:"type"`
	Optional   bool       `yaml:"optional"`
	Default    string     `yaml:"default"`
	Header     WireName   `yaml:"header"`
	Query      WireName   `yaml:"query"`
	Path       WireName   `yaml:"path"`
	StatusCode bool       `yaml:"statusCode"`
	Body       bool       `yaml:"body"`
	Visibility []string   `yaml:"visibility"`
	Properties []Property `yaml:"properties"`

	pos position
}

func (p *Property) UnmarshalYAML(node *yaml.Node) error {
	type plain Property
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	p.pos = positionOf(node)
	return nil
}

// Interface declares an interface and its operations.
type Interface struct {
	Name       string      `yaml:"name"`
	Route      string      `yaml:"route"`
	AutoRoute  bool        `yaml:"autoRoute"`
	Template   bool        `yaml:"template"`
	Operations []Operation `yaml:"operations"`

	pos position
}

func (i *Interface) UnmarshalYAML(node *yaml.Node) error {
	type plain Interface
	if err := node.Decode((*plain)(i)); err != nil {
		return err
	}
	i.pos = positionOf(node)
	return nil
}

// Operation declares an operation. Spread names a model whose properties
// are copied into the parameters ahead of the declared ones.
type Operation struct {
	Name             string     `yaml:"name"`
	Verb             string     `yaml:"verb"`
	Route            string     `yaml:"route"`
	AutoRoute        bool       `yaml:"autoRoute"`
	Segment          *string    `yaml:"segment"`
	Separator        *string    `yaml:"separator"`
	Action           WireName   `yaml:"action"`
	CollectionAction WireName   `yaml:"collectionAction"`
	Resource         *Resource  `yaml:"resource"`
	Template         bool       `yaml:"template"`
	Spread           string     `yaml:"spread"`
	Parameters       []Property `yaml:"parameters"`
	Returns          string     `yaml:"returns"`

	pos position
}

func (o *Operation) UnmarshalYAML(node *yaml.Node) error {
	type plain Operation
	if err := node.Decode((*plain)(o)); err != nil {
		return err
	}
	o.pos = positionOf(node)
	return nil
}

// Resource marks an operation as a standard resource operation.
type Resource struct {
	Operation string `yaml:"operation"`
	Type      string `yaml:"type"`
}

// WireName is a decorator argument written either as a boolean or as an
// explicit name. `true` applies the decorator with the declaration's own
// name.
type WireName struct {
	Set  bool
	Name string
}

func (w *WireName) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected true, false or a name", node.Line)
	}
	if node.ShortTag() == "!!bool" {
		var set bool
		if err := node.Decode(&set); err != nil {
			return err
		}
		*w = WireName{Set: set}
		return nil
	}
	*w = WireName{Set: true, Name: node.Value}
	return nil
}

type position struct {
	line, column int
}

func positionOf(node *yaml.Node) position {
	return position{line: node.Line, column: node.Column}
}
