package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlchain/internal/compiler"
)

// Scenario defines a conformance test scenario.
// A scenario feeds one clause stream through the builder and asserts on the
// resulting statement, or on the error that stopped it.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Script is a path to a YAML or CUE query script.
	// Relative paths are resolved against the scenario file's directory.
	Script string `yaml:"script,omitempty"`

	// Clauses is an inline clause list, written exactly as the clauses
	// section of a script. Exactly one of Script and Clauses is set.
	Clauses yaml.Node `yaml:"clauses,omitempty"`

	// Dialect overrides the script's dialect. Empty keeps the script's
	// choice, which itself defaults to ansi.
	Dialect string `yaml:"dialect,omitempty"`

	// Strict turns silent no-ops into errors.
	Strict bool `yaml:"strict,omitempty"`

	// Check prepares the built statement against the SQLite fixture schema.
	Check bool `yaml:"check,omitempty"`

	// Expect describes the expected outcome.
	Expect Expect `yaml:"expect"`
}

// Expect describes the expected outcome of a scenario.
type Expect struct {
	// SQL is the exact expected statement body.
	SQL string `yaml:"sql,omitempty"`

	// Contains lists substrings the statement body must contain.
	Contains []string `yaml:"contains,omitempty"`

	// PrimaryKind is the expected primary kind name, e.g. "SELECT".
	PrimaryKind string `yaml:"primary_kind,omitempty"`

	// History is the expected list of accepted clause kinds.
	History []string `yaml:"history,omitempty"`

	// Error is the expected error code: a builder code such as
	// MISSING_TEMPLATE or a script code such as E203.
	Error string `yaml:"error,omitempty"`
}

func (e Expect) empty() bool {
	return e.SQL == "" && len(e.Contains) == 0 && e.PrimaryKind == "" && len(e.History) == 0 && e.Error == ""
}

// ScriptNotFoundError is returned when a scenario references a script file
// that doesn't exist.
type ScriptNotFoundError struct {
	Scenario     string
	ScriptPath   string
	ResolvedPath string
}

// Error implements the error interface.
func (e *ScriptNotFoundError) Error() string {
	return fmt.Sprintf(
		"scenario %q references script file %q which does not exist (resolved to: %s)",
		e.Scenario,
		e.ScriptPath,
		e.ResolvedPath,
	)
}

// LoadScenario reads and parses a scenario YAML file, resolving the script
// path relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the script path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	scriptPath := scenario.Script
	if scriptPath != "" && !filepath.IsAbs(scriptPath) && basePath != "" {
		scenario.Script = filepath.Join(basePath, scriptPath)
	}
	if scenario.Script != "" {
		if _, err := os.Stat(scenario.Script); os.IsNotExist(err) {
			return nil, &ScriptNotFoundError{
				Scenario:     scenario.Name,
				ScriptPath:   scriptPath,
				ResolvedPath: scenario.Script,
			}
		}
	}

	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML. Script paths are left
// as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Reject unknown fields (catches typos like "expects:" vs "expect:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, in file name order.
// Subdirectories are not searched.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		if other, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", filepath.Base(p), s.Name, other)
		}
		seen[s.Name] = filepath.Base(p)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// LoadScript compiles the scenario's clause stream.
func (s *Scenario) LoadScript() (*compiler.Script, error) {
	if s.Script != "" {
		return compiler.LoadFile(s.Script)
	}

	// Inline clauses are wrapped into a one-key script document.
	doc, err := yaml.Marshal(map[string]*yaml.Node{"clauses": &s.Clauses})
	if err != nil {
		return nil, fmt.Errorf("failed to encode inline clauses: %w", err)
	}
	return compiler.Load(s.Name, doc, compiler.FormatYAML)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	hasClauses := s.Clauses.Kind != 0
	switch {
	case s.Script == "" && !hasClauses:
		return fmt.Errorf("one of script or clauses is required")
	case s.Script != "" && hasClauses:
		return fmt.Errorf("script and clauses are mutually exclusive")
	}
	if hasClauses && s.Clauses.Kind != yaml.SequenceNode {
		return fmt.Errorf("clauses must be a list")
	}

	if s.Expect.empty() {
		return fmt.Errorf("expect must name at least one of sql, contains, primary_kind, history or error")
	}
	if s.Expect.Error != "" && (s.Expect.SQL != "" || len(s.Expect.Contains) > 0) {
		return fmt.Errorf("expect.error cannot be combined with sql or contains")
	}
	if s.Expect.Error != "" && s.Check {
		return fmt.Errorf("check cannot be used with expect.error")
	}

	return nil
}
