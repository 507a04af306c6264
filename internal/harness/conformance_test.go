package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConformanceScenarios runs every scenario shipped in testdata/scenarios.
// These double as examples of the script format and as regression fixtures.
func TestConformanceScenarios(t *testing.T) {
	scenarios, err := LoadDir(scenarioDir)
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			assert.NotEmpty(t, scenario.Description)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario failed:\n%v", result.Errors)

			if scenario.Check {
				assert.NotEmpty(t, result.Plan, "checked scenarios record a query plan")
			}
		})
	}
}

func TestConformanceScenarios_Coverage(t *testing.T) {
	scenarios, err := LoadDir(scenarioDir)
	require.NoError(t, err)

	dialects := map[string]bool{}
	var scripted, inline, failing int
	for _, s := range scenarios {
		if s.Dialect != "" {
			dialects[s.Dialect] = true
		}
		if s.Script != "" {
			scripted++
		} else {
			inline++
		}
		if s.Expect.Error != "" {
			failing++
		}
	}

	assert.True(t, dialects["sqlite"])
	assert.True(t, dialects["mysql"])
	assert.Positive(t, scripted)
	assert.Positive(t, inline)
	assert.Positive(t, failing)
}
