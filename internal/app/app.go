// This package is used to initialize the application. It has dependencies on most
// other packages. Other packages can depend on it as a quick way to get access to
// all the dependencies.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/petuhovskiy/wsample/internal/bgjobs"
	"github.com/petuhovskiy/wsample/internal/conf"
	"github.com/petuhovskiy/wsample/internal/log"
	"github.com/petuhovskiy/wsample/internal/models"
	"github.com/petuhovskiy/wsample/internal/repos"
)

type App struct {
	Config     *conf.App
	DB         *gorm.DB
	Repo       *Repos
	Register   *bgjobs.Register
	RunFilters []repos.Filter
}

func NewAppFromEnv() (*App, error) {
	cfg, err := conf.ParseEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config from env: %w", err)
	}

	runFilters := []repos.Filter{
		repos.FilterByNode(cfg.Node),
	}
	if cfg.RunFilters != "" {
		runFilters = append(runFilters, repos.RawFilter(cfg.RunFilters))
	}
	log.Info(context.Background(), "using run filters", zap.Any("filters", runFilters))

	var db *gorm.DB
	var repo *Repos
	if cfg.PostgresDSN != "" {
		db, err = connectDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		repo, err = createRepos(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create repos: %w", err)
		}
	} else {
		log.Info(context.Background(), "no postgres DSN, runs will not be persisted")
	}

	register := bgjobs.NewRegister()

	return &App{
		Config:     cfg,
		DB:         db,
		Repo:       repo,
		Register:   register,
		RunFilters: runFilters,
	}, nil
}

var (
	SampleDraws = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wsample_draws_total",
		Help: "Number of draws per scenario and item",
	}, []string{"scenario", "item"})

	RunSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "wsample_run_seconds",
		Help: "Time spent on each run",
	}, []string{"scenario"})
)

func (a *App) StartPrometheus() {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		err := http.ListenAndServe(a.Config.PrometheusBind, mux)
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(context.TODO(), "prometheus server error", zap.Error(err))
		}
	}()
}

func connectDB(cfg *conf.App) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}

type Repos struct {
	Run *repos.RunRepo
}

func createRepos(db *gorm.DB) (*Repos, error) {
	err := db.AutoMigrate(
		&models.Run{},
		&models.Outcome{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &Repos{
		Run: repos.NewRunRepo(db),
	}, nil
}
