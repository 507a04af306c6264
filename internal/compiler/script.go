package compiler

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlchain/internal/ir"
)

// Script is a compiled query script: an ordered clause stream plus the
// metadata the script declared.
type Script struct {
	Name        string
	Description string
	Dialect     string // empty means the caller's default
	Clauses     []ir.Clause

	// positions[i] locates Clauses[i] in the source.
	positions []Position
}

// Position returns the source position of clause i.
func (s *Script) Position(i int) Position {
	if i < 0 || i >= len(s.positions) {
		return Position{}
	}
	return s.positions[i]
}

// Format identifies a script source language.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	}
	return "", &LoadError{
		Code:    ErrUnsupportedFormat,
		Field:   "file",
		Message: fmt.Sprintf("unsupported script extension %q (want .yaml, .yml or .cue)", filepath.Ext(path)),
	}
}

// LoadFile reads and compiles a script, choosing the format by extension.
func LoadFile(path string) (*Script, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return Load(filepath.Base(path), data, format)
}

// Load compiles script source. name is used in positions and as the script
// name when the script declares none.
func Load(name string, data []byte, format Format) (*Script, error) {
	var (
		root *node
		err  error
	)
	switch format {
	case FormatYAML:
		root, err = parseYAML(name, data)
	case FormatCUE:
		root, err = parseCUE(name, data)
	default:
		return nil, &LoadError{Code: ErrUnsupportedFormat, Field: "format", Message: fmt.Sprintf("unknown format %q", format)}
	}
	if err != nil {
		return nil, err
	}

	script, err := compileScript(root)
	if err != nil {
		return nil, err
	}
	if script.Name == "" {
		script.Name = trimExt(name)
	}
	return script, nil
}

func parseYAML(name string, data []byte) (*node, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, &LoadError{Code: ErrMalformedScript, Field: "script", Message: "script is empty"}
		}
		return nil, &LoadError{Code: ErrSourceSyntax, Field: "yaml", Message: err.Error(), Pos: Position{File: name}}
	}
	return fromYAML(name, &doc)
}

func parseCUE(name string, data []byte) (*node, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}
	return fromCUE(v)
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

var scriptKeys = []string{"name", "description", "dialect", "queries", "clauses"}

// compileScript converts the document root. Named queries are checked for
// reference cycles before any clause is converted.
func compileScript(root *node) (*Script, error) {
	if root.kind != mapNode {
		return nil, &LoadError{
			Code:    ErrMalformedScript,
			Field:   "script",
			Message: fmt.Sprintf("expected mapping at top level, got %s", root.describe()),
			Pos:     root.pos,
		}
	}
	for _, f := range root.fields {
		if !slices.Contains(scriptKeys, f.key) {
			return nil, &LoadError{
				Code:    ErrMalformedScript,
				Field:   f.key,
				Message: fmt.Sprintf("unknown script field (want one of %v)", scriptKeys),
				Pos:     f.value.pos,
			}
		}
	}

	script := &Script{}
	for _, meta := range []struct {
		key string
		dst *string
	}{
		{"name", &script.Name},
		{"description", &script.Description},
		{"dialect", &script.Dialect},
	} {
		if n, ok := root.get(meta.key); ok && !(n.kind == scalarNode && n.scalar == nil) {
			s, ok := n.scalar.(string)
			if n.kind != scalarNode || !ok {
				return nil, &LoadError{Code: ErrMalformedScript, Field: meta.key, Message: "expected string", Pos: n.pos}
			}
			*meta.dst = s
		}
	}

	c := &converter{named: map[string]*node{}, resolved: map[string][]ir.Clause{}}
	if queries, ok := root.get("queries"); ok {
		if queries.kind != mapNode {
			return nil, &LoadError{Code: ErrMalformedScript, Field: "queries", Message: "expected mapping of named clause lists", Pos: queries.pos}
		}
		for _, f := range queries.fields {
			c.named[f.key] = f.value
		}
		if err := checkReferenceCycles(c.named); err != nil {
			return nil, err
		}
	}

	clauses, ok := root.get("clauses")
	if !ok {
		return nil, &LoadError{Code: ErrMalformedScript, Field: "clauses", Message: "clauses is required", Pos: root.pos}
	}
	var err error
	script.Clauses, script.positions, err = c.clauseList("clauses", clauses)
	if err != nil {
		return nil, err
	}
	return script, nil
}
