package sim

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/petuhovskiy/wsample/internal/app"
	"github.com/petuhovskiy/wsample/internal/bgjobs"
	"github.com/petuhovskiy/wsample/internal/log"
	"github.com/petuhovskiy/wsample/internal/models"
	"github.com/petuhovskiy/wsample/internal/repos"
	"github.com/petuhovskiy/wsample/internal/scendesc"
	"github.com/petuhovskiy/wsample/wrand"
)

// Allowed deviation of an observed count from its expectation, as a
// fraction of the total draws.
const defaultTolerance = 0.015

// Runner executes scenarios: it draws a batch of weighted samples, checks
// the observed frequencies against the configured weights and records the
// result.
type Runner struct {
	base    *app.App
	draws   int
	workers int
}

func NewRunner(base *app.App) *Runner {
	return &Runner{
		base:    base,
		draws:   base.Config.Draws,
		workers: base.Config.Workers,
	}
}

// Execute runs the scenario, repeating it if a repeat period is set.
func (r *Runner) Execute(ctx context.Context, scen scendesc.Scenario) error {
	period, err := parsePeriod(scen.Repeat)
	if err != nil {
		return err
	}

	if period == nil {
		return r.executeOnce(ctx, scen)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := r.executeOnce(ctx, scen)
		if err != nil {
			log.Error(ctx, "run failed", zap.Error(err))
		}

		period.Sleep(ctx)
	}
}

func (r *Runner) executeOnce(ctx context.Context, scen scendesc.Scenario) error {
	ctx = log.Into(ctx, scen.Name)

	if scen.Timeout != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, scen.Timeout.Duration)
		defer cancel()
	}

	// the sampler is built over item indices, labels can repeat
	indices := make([]int, len(scen.Items))
	for i := range indices {
		indices[i] = i
	}

	sampler, err := wrand.New(indices, scen.Weights)
	if err != nil {
		return fmt.Errorf("build sampler: %w", err)
	}

	draws := scen.Draws
	if draws <= 0 {
		draws = r.draws
	}
	tolerance := scen.Tolerance
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}

	r.logPreviousRun(ctx, scen.Name)

	run := &models.Run{
		Node:        r.base.Config.Node,
		Scenario:    scen.Name,
		Draws:       draws,
		TotalWeight: sampler.Total(),
	}
	r.saveRun(ctx, run)

	startedAt := time.Now()
	counts := r.draw(ctx, sampler, draws)
	finishedAt := time.Now()
	duration := finishedAt.Sub(startedAt)

	app.RunSeconds.WithLabelValues(scen.Name).Observe(duration.Seconds())

	outcomes, result := verdict(scen, counts, draws, tolerance)
	result.StartedAt = &startedAt
	result.FinishedAt = &finishedAt
	result.Duration = &duration

	for _, out := range outcomes {
		app.SampleDraws.WithLabelValues(scen.Name, out.Item).Add(float64(out.Observed))

		logf := log.Info
		if math.Abs(out.Deviation) > tolerance*float64(draws) {
			logf = log.Warn
		}
		logf(ctx, "item outcome",
			zap.String("item", out.Item),
			zap.Float64("expected", out.Expected),
			zap.Int64("observed", out.Observed),
			zap.Float64("deviation", out.Deviation),
		)
	}

	log.Info(ctx, "run finished",
		zap.Int("draws", draws),
		zap.Duration("duration", duration),
		zap.Float64("maxDeviation", result.MaxDeviation),
		zap.Bool("ok", result.Ok),
	)

	var runErr error
	if !result.Ok {
		runErr = fmt.Errorf("observed frequencies are off by more than %v draws", tolerance*float64(draws))
		result.Error = runErr.Error()
	}

	run.RunResult = result
	run.Outcomes = outcomes
	r.finishRun(ctx, run, &result, outcomes)

	return runErr
}

// draw spreads the batch over workers and merges per-worker counts.
// Concurrent Sample calls need no coordination, the sampler is immutable.
func (r *Runner) draw(ctx context.Context, sampler *wrand.Sampler[int], draws int) []int64 {
	counts := make([]int64, sampler.Len())

	workers := r.workers
	if workers <= 0 {
		workers = 1
	}

	var mu sync.Mutex
	jobs := bgjobs.NewRegister()
	for w := 0; w < workers; w++ {
		share := draws / workers
		if w < draws%workers {
			share++
		}

		jobs.Go(func() {
			local := make([]int64, len(counts))
			for i := 0; i < share; i++ {
				local[sampler.Sample()]++
			}

			mu.Lock()
			defer mu.Unlock()
			for i, c := range local {
				counts[i] += c
			}
		})
	}
	jobs.WaitAll(ctx)

	return counts
}

// verdict compares observed counts to the expected ones and builds the run
// result. An item passes if its count is within tolerance*draws of
// draws * weight / total.
func verdict(scen scendesc.Scenario, counts []int64, draws int, tolerance float64) ([]models.Outcome, models.RunResult) {
	var total float64
	for _, w := range scen.Weights {
		total += w
	}

	result := models.RunResult{
		IsFinished: true,
		Ok:         true,
	}

	outcomes := make([]models.Outcome, len(counts))
	for i, observed := range counts {
		expected := float64(draws) * scen.Weights[i] / total
		deviation := float64(observed) - expected

		outcomes[i] = models.Outcome{
			Item:      scen.Items[i],
			Weight:    scen.Weights[i],
			Expected:  expected,
			Observed:  observed,
			Deviation: deviation,
		}

		if math.Abs(deviation) > result.MaxDeviation {
			result.MaxDeviation = math.Abs(deviation)
		}
		if math.Abs(deviation) > tolerance*float64(draws) {
			result.Ok = false
		}
	}

	return outcomes, result
}

func (r *Runner) saveRun(ctx context.Context, run *models.Run) {
	if r.base.Repo == nil {
		return
	}

	err := r.base.Repo.Run.Save(run)
	if err != nil {
		log.Error(ctx, "failed to save run", zap.Error(err))
	}
}

func (r *Runner) finishRun(ctx context.Context, run *models.Run, upd *models.RunResult, outcomes []models.Outcome) {
	if r.base.Repo == nil {
		return
	}

	err := r.base.Repo.Run.FinishSaveResult(run, upd)
	if err != nil {
		log.Error(ctx, "failed to save run result", zap.Error(err))
	}

	err = r.base.Repo.Run.SaveOutcomes(run, outcomes)
	if err != nil {
		log.Error(ctx, "failed to save outcomes", zap.Error(err))
	}
}

// logPreviousRun reports how the last finished run of the scenario went.
func (r *Runner) logPreviousRun(ctx context.Context, scenario string) {
	if r.base.Repo == nil {
		return
	}

	filters := append([]repos.Filter{repos.FilterByScenario(scenario)}, r.base.RunFilters...)
	runs, err := r.base.Repo.Run.FetchLastRuns(filters, 1)
	if err != nil {
		log.Error(ctx, "failed to fetch previous runs", zap.Error(err))
		return
	}
	if len(runs) == 0 {
		log.Info(ctx, "no previous runs")
		return
	}

	prev := runs[0]
	log.Info(ctx, "previous run",
		zap.Uint("id", prev.ID),
		zap.Int("draws", prev.Draws),
		zap.Float64("maxDeviation", prev.MaxDeviation),
		zap.Bool("ok", prev.Ok),
	)
}
