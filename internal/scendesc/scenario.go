package scendesc

import (
	"encoding/json"
	"fmt"
	"os"
)

// Scenario describes one weighted-selection run. Can be serialized and
// deserialized to/from JSON.
type Scenario struct {
	// Name of the scenario
	Name string
	// Item labels, index-aligned with Weights.
	Items []string
	// Relative weight of each item. Must be positive and finite.
	Weights []float64
	// Number of draws. If not set, the runner default is used.
	Draws int
	// Tolerance is the allowed absolute deviation of an observed count from
	// its expectation, as a fraction of Draws. If not set, the runner
	// default is used.
	Tolerance float64
	// Interval to repeat the run. If not set, the run happens once.
	// Format:
	// - "random(5,10)" - repeat randomly every 5-10 seconds
	Repeat string
	// Timeout for a single run.
	Timeout *Duration
}

// LoadFile reads scenario descriptions from a JSON file.
func LoadFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}

	var scenarios []Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	return scenarios, nil
}

// Defaults are used when no scenario file is configured.
func Defaults() []Scenario {
	return []Scenario{
		{
			Name: "uses",
			Items: []string{
				"weighted",
				"random",
				"item",
				"sampler",
				"suitable for",
				"genetic algorithms",
				"distributed systems",
				"surveys and polls",
				"and more",
			},
			Weights: []float64{1.13, 6, 27, 14.85, 17.781, 2.5, 40, 34.56, 64.1},
		},
		{
			Name:    "biased-coin",
			Items:   []string{"heads", "tails"},
			Weights: []float64{1, 2},
		},
	}
}
