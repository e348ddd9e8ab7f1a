package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petuhovskiy/wsample/internal/app"
	"github.com/petuhovskiy/wsample/internal/conf"
	"github.com/petuhovskiy/wsample/internal/scendesc"
	"github.com/petuhovskiy/wsample/wrand"
)

func testApp() *app.App {
	return &app.App{
		Config: &conf.App{
			Node:    "test",
			Draws:   10000,
			Workers: 3,
		},
	}
}

func Test_DrawCountsEveryDraw(t *testing.T) {
	sampler, err := wrand.New([]int{0, 1, 2}, []float64{1, 5, 10})
	assert.NoError(t, err)

	r := NewRunner(testApp())
	counts := r.draw(context.Background(), sampler, 4097)

	var total int64
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, int64(4097), total)
}

func Test_Verdict(t *testing.T) {
	scen := scendesc.Scenario{
		Name:    "coin",
		Items:   []string{"heads", "tails"},
		Weights: []float64{1, 3},
	}

	outcomes, result := verdict(scen, []int64{260, 740}, 1000, 0.05)
	assert.True(t, result.Ok)
	assert.True(t, result.IsFinished)
	assert.Equal(t, 10.0, result.MaxDeviation)
	assert.Len(t, outcomes, 2)
	assert.Equal(t, 250.0, outcomes[0].Expected)
	assert.Equal(t, 10.0, outcomes[0].Deviation)
	assert.Equal(t, int64(740), outcomes[1].Observed)

	_, result = verdict(scen, []int64{400, 600}, 1000, 0.05)
	assert.False(t, result.Ok)
	assert.Equal(t, 150.0, result.MaxDeviation)
}

func Test_ExecuteOnce(t *testing.T) {
	r := NewRunner(testApp())

	err := r.Execute(context.Background(), scendesc.Scenario{
		Name:      "coin",
		Items:     []string{"heads", "tails"},
		Weights:   []float64{1, 2},
		Tolerance: 0.05,
	})
	assert.NoError(t, err)
}

func Test_ExecuteToleranceExceeded(t *testing.T) {
	r := NewRunner(testApp())

	// expected counts are fractional, so the deviation can never drop
	// below the tolerance band
	err := r.Execute(context.Background(), scendesc.Scenario{
		Name:      "strict",
		Items:     []string{"heads", "tails"},
		Weights:   []float64{1, 2},
		Draws:     1000,
		Tolerance: 1e-9,
	})
	assert.ErrorContains(t, err, "off by more than")
}

func Test_ExecuteInvalidScenario(t *testing.T) {
	r := NewRunner(testApp())

	err := r.Execute(context.Background(), scendesc.Scenario{
		Name:    "bad",
		Items:   []string{"a", "b"},
		Weights: []float64{1, -2},
	})
	assert.ErrorIs(t, err, wrand.ErrNonPositiveWeight)
}

func Test_ParsePeriod(t *testing.T) {
	period, err := parsePeriod("")
	assert.NoError(t, err)
	assert.Nil(t, period)

	period, err = parsePeriod("random(5,10)")
	assert.NoError(t, err)
	assert.Equal(t, uint(5), period.min)
	assert.Equal(t, uint(10), period.max)

	_, err = parsePeriod("random(10,5)")
	assert.Error(t, err)

	_, err = parsePeriod("every 5s")
	assert.Error(t, err)
}
