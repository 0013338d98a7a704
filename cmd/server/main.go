package main

import (
	"context"
	"flag"
	"time"

	httpadapter "promptworld/internal/adapter/http"
	metricsinmem "promptworld/internal/adapter/metrics/inmemory"
	"promptworld/internal/adapter/prompt"
	"promptworld/internal/adapter/render"
	gormrepo "promptworld/internal/adapter/repo/gorm"
	"promptworld/internal/adapter/repo/memory"
	sqliterepo "promptworld/internal/adapter/repo/sqlite"
	"promptworld/internal/adapter/schedulescript"
	"promptworld/internal/adapter/worldgen"
	"promptworld/internal/app/evaluate"
	"promptworld/internal/app/ports"
	"promptworld/internal/app/replay"
	"promptworld/internal/app/session"
	"promptworld/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type repos struct {
	runs   ports.EvaluationRunRepository
	events ports.WorldEventRepository
	tx     ports.TxManager
	close  func() error
}

func main() {
	configPath := flag.String("config", "", "optional yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}
	hlog.SetLevel(parseLevel(cfg.Log.Level))

	r, err := buildRepos(context.Background(), cfg.Storage)
	if err != nil {
		hlog.Fatalf("build storage: %v", err)
	}
	defer func() {
		_ = r.close()
	}()

	s := server.Default(server.WithHostPorts(cfg.Server.Addr))
	newHandler(cfg, r).RegisterRoutes(s)

	hlog.Infof("promptworld server listening on %s (storage: %s)", cfg.Server.Addr, cfg.Storage.Driver)
	s.Spin()
}

func newHandler(cfg config.Config, r repos) httpadapter.Handler {
	parser := prompt.NewParser()
	kpiRecorder := metricsinmem.NewRecorder()
	return httpadapter.Handler{
		SessionUC: session.UseCase{
			Sessions:      session.NewRegistry(),
			Parser:        parser,
			Generator:     worldgen.NewCache(worldgen.Unavailable{}),
			Events:        r.events,
			KPI:           kpiRecorder,
			Renderer:      render.NewPNGRenderer(),
			MaxAgentSteps: cfg.Session.MaxAgentSteps,
			Now:           time.Now,
		},
		EvaluateUC: evaluate.UseCase{
			TxManager: r.tx,
			Runs:      r.runs,
			Parser:    parser,
			Schedules: schedulescript.NewParser(),
			KPI:       kpiRecorder,
			MaxTrials: cfg.Evaluation.MaxTrials,
			Now:       time.Now,
		},
		ReplayUC:   replay.UseCase{Events: r.events},
		Parser:     parser,
		KPI:        kpiRecorder,
		FrameScale: cfg.Session.FrameScale,
	}
}

func buildRepos(ctx context.Context, sc config.StorageConfig) (repos, error) {
	switch sc.Driver {
	case config.StoragePostgres:
		db, err := gormrepo.OpenPostgres(sc.DSN)
		if err != nil {
			return repos{}, err
		}
		if sc.Migrate {
			if err := gormrepo.ApplyMigrations(ctx, db, sc.MigrationsDir); err != nil {
				return repos{}, err
			}
		}
		sqlDB, err := db.DB()
		if err != nil {
			return repos{}, err
		}
		return repos{
			runs:   gormrepo.NewEvaluationRunRepo(db),
			events: gormrepo.NewWorldEventRepo(db),
			tx:     gormrepo.NewTxManager(db),
			close:  sqlDB.Close,
		}, nil
	case config.StorageSQLite:
		store := sqliterepo.NewStore(sc.SQLitePath)
		if err := store.Init(ctx); err != nil {
			return repos{}, err
		}
		return repos{
			runs:   sqliterepo.NewEvaluationRunRepo(store),
			events: sqliterepo.NewWorldEventRepo(store),
			tx:     sqliterepo.NewTxManager(store),
			close:  store.Close,
		}, nil
	default:
		store := memory.NewStore()
		return repos{
			runs:   memory.NewEvaluationRunRepo(store),
			events: memory.NewWorldEventRepo(store),
			tx:     memory.NewTxManager(store),
			close:  func() error { return nil },
		}, nil
	}
}

func parseLevel(level string) hlog.Level {
	switch level {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "notice":
		return hlog.LevelNotice
	case "warn":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	case "fatal":
		return hlog.LevelFatal
	default:
		return hlog.LevelInfo
	}
}
