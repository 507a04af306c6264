// Package dialect provides the text templates and render functions each SQL
// dialect supplies to the clause builder.
//
// A dialect is a pair of read-only registries:
//
//	Templates  ClauseKind → Template   (clause text)
//	Functions  ClauseKind → RenderFunc (selection functions: COUNT, MAX, ...)
//
// Dialects register themselves by name in init(), the ANSI dialect serving as
// the base that the others copy and override. Registries are never mutated
// after registration and may be shared by any number of builders.
package dialect

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/roach88/sqlchain/internal/ir"
)

// Options carries per-render context into a template. Condition templates
// use both fields; structural templates ignore them.
type Options struct {
	// Negation is true when the submission was immediately preceded by NOT.
	Negation bool

	// Property is the formatted condition target (e.g. "u.email").
	Property string
}

// Template renders a clause: options first, then the formatted arguments.
//
//	tpl(Options{Property: "age"})("18") // "age = 18"
type Template func(opts Options) func(args ...string) string

// RenderFunc renders a selection function over formatted arguments.
type RenderFunc func(args ...string) string

// Templates maps clause kinds to templates.
type Templates map[ir.ClauseKind]Template

// Functions maps function kinds to render functions.
type Functions map[ir.ClauseKind]RenderFunc

// Dialect bundles the registries of one SQL dialect.
type Dialect struct {
	Name      string
	Templates Templates
	Functions Functions
}

// DefaultName is the dialect used when none is specified.
const DefaultName = "ansi"

var (
	registryMu sync.RWMutex
	registry   = map[string]*Dialect{}
)

// Register makes a dialect available by name. Registering a name twice
// panics: dialects are registered once, from init().
func Register(d *Dialect) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[d.Name]; exists {
		panic(fmt.Sprintf("dialect %q registered twice", d.Name))
	}
	registry[d.Name] = d
}

// Lookup returns the dialect registered under name. An empty name resolves
// to DefaultName.
func Lookup(name string) (*Dialect, error) {
	if name == "" {
		name = DefaultName
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q: must be one of %v", name, namesLocked())
	}
	return d, nil
}

// Names returns the registered dialect names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	return slices.Sorted(maps.Keys(registry))
}

// extend copies base and applies overrides. A nil override removes the kind,
// which makes the builder render that clause as nothing.
func extend(name string, base *Dialect, templates Templates, functions Functions) *Dialect {
	d := &Dialect{
		Name:      name,
		Templates: maps.Clone(base.Templates),
		Functions: maps.Clone(base.Functions),
	}
	for kind, tpl := range templates {
		if tpl == nil {
			delete(d.Templates, kind)
			continue
		}
		d.Templates[kind] = tpl
	}
	for kind, fn := range functions {
		if fn == nil {
			delete(d.Functions, kind)
			continue
		}
		d.Functions[kind] = fn
	}
	return d
}
