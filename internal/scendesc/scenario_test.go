package scendesc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ScenarioJSON(t *testing.T) {
	data := `[
		{
			"Name": "drivers",
			"Items": ["pgx", "go-serverless"],
			"Weights": [3, 1],
			"Draws": 1000,
			"Repeat": "random(5,10)",
			"Timeout": "30s"
		}
	]`

	var scenarios []Scenario
	err := json.Unmarshal([]byte(data), &scenarios)
	assert.NoError(t, err)
	assert.Len(t, scenarios, 1)

	scen := scenarios[0]
	assert.Equal(t, "drivers", scen.Name)
	assert.Equal(t, []string{"pgx", "go-serverless"}, scen.Items)
	assert.Equal(t, []float64{3, 1}, scen.Weights)
	assert.Equal(t, 1000, scen.Draws)
	assert.Equal(t, "random(5,10)", scen.Repeat)
	assert.Equal(t, 30*time.Second, scen.Timeout.Duration)
}

func Test_DurationAsNumber(t *testing.T) {
	var d Duration
	err := json.Unmarshal([]byte(`5000000000`), &d)
	assert.NoError(t, err)
	assert.Equal(t, 5*time.Second, d.Duration)

	err = json.Unmarshal([]byte(`{"x":1}`), &d)
	assert.Error(t, err)
}

func Test_DefaultsAreValid(t *testing.T) {
	for _, scen := range Defaults() {
		assert.NotEmpty(t, scen.Name)
		assert.Equal(t, len(scen.Items), len(scen.Weights), "scenario %q", scen.Name)
		for _, w := range scen.Weights {
			assert.Greater(t, w, 0.0, "scenario %q", scen.Name)
		}
	}
}
