package compiler

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"gopkg.in/yaml.v3"
)

// nodeKind classifies a decoded script node.
type nodeKind int

const (
	scalarNode nodeKind = iota
	listNode
	mapNode
)

// node is the format-neutral tree both YAML and CUE scripts decode into.
// Mapping fields keep their source order: INSERT derives its column order
// from it.
type node struct {
	kind   nodeKind
	scalar any // nil, string, int64, float64 or bool
	items  []*node
	fields []field
	pos    Position
}

type field struct {
	key   string
	value *node
}

// get returns the value of the first field named key.
func (n *node) get(key string) (*node, bool) {
	for _, f := range n.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

func (n *node) describe() string {
	switch n.kind {
	case listNode:
		return "list"
	case mapNode:
		return "mapping"
	default:
		if n.scalar == nil {
			return "null"
		}
		return fmt.Sprintf("%T", n.scalar)
	}
}

// fromYAML converts a yaml.Node tree. Aliases are followed.
func fromYAML(file string, y *yaml.Node) (*node, error) {
	pos := Position{File: file, Line: y.Line, Column: y.Column}

	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return &node{kind: scalarNode, pos: pos}, nil
		}
		return fromYAML(file, y.Content[0])

	case yaml.AliasNode:
		return fromYAML(file, y.Alias)

	case yaml.SequenceNode:
		n := &node{kind: listNode, pos: pos}
		for _, c := range y.Content {
			item, err := fromYAML(file, c)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, item)
		}
		return n, nil

	case yaml.MappingNode:
		n := &node{kind: mapNode, pos: pos}
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, &LoadError{
					Code:    ErrMalformedScript,
					Field:   "key",
					Message: "mapping keys must be scalars",
					Pos:     Position{File: file, Line: k.Line, Column: k.Column},
				}
			}
			value, err := fromYAML(file, v)
			if err != nil {
				return nil, err
			}
			n.fields = append(n.fields, field{key: k.Value, value: value})
		}
		return n, nil

	case yaml.ScalarNode:
		scalar, err := yamlScalar(y)
		if err != nil {
			return nil, &LoadError{Code: ErrBadValue, Field: "value", Message: err.Error(), Pos: pos}
		}
		return &node{kind: scalarNode, scalar: scalar, pos: pos}, nil
	}

	return nil, &LoadError{
		Code:    ErrMalformedScript,
		Field:   "node",
		Message: fmt.Sprintf("unsupported YAML node kind %d", y.Kind),
		Pos:     pos,
	}
}

// yamlScalar resolves a scalar by its YAML tag. Timestamps stay strings;
// dates are written explicitly as {date: ...}.
func yamlScalar(y *yaml.Node) (any, error) {
	switch y.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := y.Decode(&i); err != nil {
			return nil, err
		}
		return i, nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return y.Value, nil
	}
}

// fromCUE converts a concrete CUE value. Struct fields are visited in
// declaration order.
func fromCUE(v cue.Value) (*node, error) {
	pos := positionOf(v.Pos())

	switch v.Kind() {
	case cue.StructKind:
		n := &node{kind: mapNode, pos: pos}
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			value, err := fromCUE(iter.Value())
			if err != nil {
				return nil, err
			}
			n.fields = append(n.fields, field{key: iter.Selector().Unquoted(), value: value})
		}
		return n, nil

	case cue.ListKind:
		n := &node{kind: listNode, pos: pos}
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			item, err := fromCUE(iter.Value())
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, item)
		}
		return n, nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return &node{kind: scalarNode, scalar: s, pos: pos}, nil

	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return &node{kind: scalarNode, scalar: i, pos: pos}, nil

	case cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return &node{kind: scalarNode, scalar: f, pos: pos}, nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return &node{kind: scalarNode, scalar: b, pos: pos}, nil

	case cue.NullKind:
		return &node{kind: scalarNode, pos: pos}, nil
	}

	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return nil, &LoadError{
		Code:    ErrMalformedScript,
		Field:   "value",
		Message: fmt.Sprintf("value is not concrete (kind %s)", v.IncompleteKind()),
		Pos:     pos,
	}
}

// scalarString renders a scalar for use as a name.
func scalarString(n *node) (string, bool) {
	if n.kind != scalarNode {
		return "", false
	}
	switch s := n.scalar.(type) {
	case string:
		return s, true
	case int64:
		return strconv.FormatInt(s, 10), true
	}
	return "", false
}
