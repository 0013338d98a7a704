package evaluate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"promptworld/internal/app/ports"
	"promptworld/internal/domain/evaluation"
	"promptworld/internal/domain/schedule"
	"promptworld/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
)

var ErrInvalidRequest = errors.New("invalid evaluation request")

const (
	DefaultTrials    = 20
	DefaultMaxTrials = 1000
)

type ScheduleParser interface {
	Parse(src string) ([]schedule.Event, error)
}

type UseCase struct {
	TxManager ports.TxManager
	Runs      ports.EvaluationRunRepository
	Parser    ports.ConfigParser
	Schedules ScheduleParser
	KPI       ports.KPIRecorder
	MaxTrials int
	Now       func() time.Time
	NewID     func() string
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	trials := req.Trials
	if trials == 0 {
		trials = DefaultTrials
	}
	if trials < 0 || trials > u.maxTrials() {
		return Response{}, fmt.Errorf("%w: trials must be in [1,%d]", ErrInvalidRequest, u.maxTrials())
	}
	cfg := u.configFor(req)
	if err := cfg.Validate(); err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	opts := evaluation.Options{VarySeed: req.VarySeed}
	if src := strings.TrimSpace(req.Schedule); src != "" {
		if u.Schedules == nil {
			return Response{}, fmt.Errorf("%w: custom schedules not supported", ErrInvalidRequest)
		}
		events, err := u.Schedules.Parse(src)
		if err != nil {
			return Response{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		opts.Events = events
	}

	started := time.Now()
	result, err := evaluation.Evaluate(cfg, trials, opts)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	resp := Response{
		RunID:     u.newID(),
		Prompt:    req.Prompt,
		Config:    cfg,
		Schedule:  strings.TrimSpace(req.Schedule),
		VarySeed:  req.VarySeed,
		Metrics:   result.Metrics,
		Trials:    result.Trials,
		CreatedAt: u.now(),
	}
	if err := u.persist(ctx, resp); err != nil {
		return Response{}, err
	}
	if u.KPI != nil {
		u.KPI.RecordEvaluation(result.Metrics)
	}
	hlog.CtxInfof(ctx, "evaluation %s: trials=%d success_rate=%.3f failures=%d took=%s",
		resp.RunID, result.Metrics.Trials, result.Metrics.SuccessRate, result.Metrics.Failures, time.Since(started))
	return resp, nil
}

func (u UseCase) Get(ctx context.Context, runID string) (Response, error) {
	if strings.TrimSpace(runID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if u.Runs == nil {
		return Response{}, ports.ErrNotFound
	}
	run, err := u.Runs.GetRun(ctx, runID)
	if err != nil {
		return Response{}, err
	}
	trials, err := u.Runs.ListTrials(ctx, runID)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return Response{}, err
	}
	resp := fromRun(run)
	resp.Trials = trials
	return resp, nil
}

func (u UseCase) List(ctx context.Context, limit int) (ListResponse, error) {
	if u.Runs == nil {
		return ListResponse{Runs: []Response{}}, nil
	}
	runs, err := u.Runs.ListRuns(ctx, limit)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ListResponse{Runs: []Response{}}, nil
		}
		return ListResponse{}, err
	}
	out := make([]Response, 0, len(runs))
	for _, r := range runs {
		out = append(out, fromRun(r))
	}
	return ListResponse{Runs: out}, nil
}

func (u UseCase) persist(ctx context.Context, resp Response) error {
	if u.Runs == nil {
		return nil
	}
	save := func(ctx context.Context) error {
		if err := u.Runs.SaveRun(ctx, ports.EvaluationRun{
			RunID:     resp.RunID,
			Prompt:    resp.Prompt,
			Config:    resp.Config,
			Schedule:  resp.Schedule,
			VarySeed:  resp.VarySeed,
			Metrics:   resp.Metrics,
			CreatedAt: resp.CreatedAt,
		}); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		if err := u.Runs.SaveTrials(ctx, resp.RunID, resp.Trials); err != nil {
			return fmt.Errorf("save trials: %w", err)
		}
		return nil
	}
	if u.TxManager == nil {
		return save(ctx)
	}
	return u.TxManager.RunInTx(ctx, save)
}

func (u UseCase) configFor(req Request) world.Config {
	if req.Config != nil {
		cfg := *req.Config
		if cfg.Seed == 0 {
			cfg.Seed = world.DefaultSeed
		}
		return cfg.Normalize()
	}
	if u.Parser != nil && strings.TrimSpace(req.Prompt) != "" {
		return u.Parser.Parse(req.Prompt).Normalize()
	}
	return world.DefaultConfig()
}

func (u UseCase) maxTrials() int {
	if u.MaxTrials > 0 {
		return u.MaxTrials
	}
	return DefaultMaxTrials
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u UseCase) newID() string {
	if u.NewID != nil {
		return u.NewID()
	}
	return uuid.NewString()
}

func fromRun(r ports.EvaluationRun) Response {
	return Response{
		RunID:     r.RunID,
		Prompt:    r.Prompt,
		Config:    r.Config,
		Schedule:  r.Schedule,
		VarySeed:  r.VarySeed,
		Metrics:   r.Metrics,
		CreatedAt: r.CreatedAt,
	}
}
