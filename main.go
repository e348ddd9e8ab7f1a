package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/petuhovskiy/wsample/internal/app"
	"github.com/petuhovskiy/wsample/internal/log"
	"github.com/petuhovskiy/wsample/internal/scendesc"
	"github.com/petuhovskiy/wsample/internal/sim"
)

func main() {
	undo := log.DefaultGlobals()
	defer undo()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	base, err := app.NewAppFromEnv()
	if err != nil {
		log.Fatal(ctx, "failed to init app", zap.Error(err))
	}

	base.StartPrometheus()

	scenarios := scendesc.Defaults()
	if base.Config.Scenarios != "" {
		scenarios, err = scendesc.LoadFile(base.Config.Scenarios)
		if err != nil {
			log.Fatal(ctx, "failed to load scenarios", zap.Error(err))
		}
	}

	runner := sim.NewRunner(base)
	for _, scen := range scenarios {
		scen := scen
		base.Register.Go(func() {
			err := runner.Execute(ctx, scen)
			if err != nil && ctx.Err() == nil {
				log.Error(ctx, "scenario error", zap.String("scenario", scen.Name), zap.Error(err))
			}
		})
	}

	base.Register.WaitAll(ctx)
}
