package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sqlchain/internal/ir"
)

// Snapshot captures what a scenario built.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string   `json:"scenario_name"`
	Dialect      string   `json:"dialect"`
	PrimaryKind  string   `json:"primary_kind,omitempty"`
	SQL          string   `json:"sql"`
	Fingerprint  string   `json:"fingerprint,omitempty"`
	History      []string `json:"history"`
	ErrorCode    string   `json:"error_code,omitempty"`
}

// NewSnapshot captures result under the given scenario name.
func NewSnapshot(scenarioName string, result *Result) Snapshot {
	return Snapshot{
		ScenarioName: scenarioName,
		Dialect:      result.Dialect,
		PrimaryKind:  result.PrimaryKind,
		SQL:          result.SQL,
		Fingerprint:  result.Fingerprint,
		History:      result.History,
		ErrorCode:    result.ErrorCode,
	}
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles IR types and primitives.
func (s Snapshot) toCanonicalMap() map[string]any {
	history := make([]any, len(s.History))
	for i, k := range s.History {
		history[i] = k
	}

	m := map[string]any{
		"scenario_name": s.ScenarioName,
		"dialect":       s.Dialect,
		"sql":           s.SQL,
		"history":       history,
	}
	if s.PrimaryKind != "" {
		m["primary_kind"] = s.PrimaryKind
	}
	if s.Fingerprint != "" {
		m["fingerprint"] = s.Fingerprint
	}
	if s.ErrorCode != "" {
		m["error_code"] = s.ErrorCode
	}
	return m
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s Snapshot) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario could not run.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(scenarioName, result).MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
