package conf

import (
	"github.com/caarlos0/env/v6"
)

type App struct {
	PrometheusBind string `env:"PROMETHEUS_BIND" envDefault:":2112"`

	// PostgresDSN is a DSN for the postgres used to store run results.
	// Empty value disables persistence.
	PostgresDSN string `env:"POSTGRES_DSN"`

	// Node is a name of the current node, stored with every run.
	Node string `env:"NODE" envDefault:"local-laptop"`

	// Scenarios is a path to a JSON file with scenario descriptions.
	// Empty value loads the built-in defaults.
	Scenarios string `env:"SCENARIOS"`

	// RunFilters is an extra raw SQL filter applied when looking up
	// previous runs.
	RunFilters string `env:"RUN_FILTERS"`

	// Draws is the number of draws per run, for scenarios that don't set
	// their own.
	Draws int `env:"DRAWS" envDefault:"30000"`

	// Workers is the number of goroutines drawing samples in each run.
	Workers int `env:"WORKERS" envDefault:"4"`
}

func ParseEnv() (*App, error) {
	cfg := App{}
	err := env.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
