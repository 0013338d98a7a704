package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"promptworld/internal/app/ports"
	"promptworld/internal/domain/planner"
	"promptworld/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
)

var (
	ErrInvalidRequest = errors.New("invalid session request")
	ErrNoRenderer     = errors.New("renderer not configured")
)

const DefaultMaxAgentSteps = 200

type Renderer interface {
	Render(v world.View, scale int) ([]byte, error)
}

type UseCase struct {
	Sessions      *Registry
	Parser        ports.ConfigParser
	Generator     ports.WorldGenerator
	Events        ports.WorldEventRepository
	KPI           ports.KPIRecorder
	Renderer      Renderer
	MaxAgentSteps int
	Now           func() time.Time
	NewID         func() string
}

func (u UseCase) Create(ctx context.Context, req CreateRequest) (View, error) {
	cfg := u.configFor(req)
	if err := cfg.Validate(); err != nil {
		return View{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	w, source, err := u.buildWorld(ctx, req.Prompt, cfg)
	if err != nil {
		return View{}, err
	}

	s := &Session{
		id:        u.newID(),
		prompt:    req.Prompt,
		cfg:       cfg,
		source:    source,
		world:     w,
		createdAt: u.now(),
	}
	if err := u.log(ctx, s, "world_generated", map[string]any{
		"source": string(source),
		"width":  w.Width(),
		"height": w.Height(),
	}); err != nil {
		return View{}, err
	}
	u.Sessions.put(s)
	hlog.CtxInfof(ctx, "session %s created source=%s size=%dx%d", s.id, source, w.Width(), w.Height())
	return s.view(), nil
}

func (u UseCase) Get(_ context.Context, id string) (View, error) {
	s, err := u.lookup(id)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// Reset regenerates the session's world from its prompt and config and
// clears the plan.
func (u UseCase) Reset(ctx context.Context, id string) (View, error) {
	s, err := u.lookup(id)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, source, err := u.buildWorld(ctx, s.prompt, s.cfg)
	if err != nil {
		return View{}, err
	}
	prevWorld, prevSource := s.world, s.source
	prevActions, prevCursor, prevTick := s.actions, s.cursor, s.tick
	s.world, s.source = w, source
	s.actions, s.cursor, s.tick = nil, 0, 0
	if err := u.log(ctx, s, "world_reset", map[string]any{"source": string(source)}); err != nil {
		s.world, s.source = prevWorld, prevSource
		s.actions, s.cursor, s.tick = prevActions, prevCursor, prevTick
		return View{}, err
	}
	return s.view(), nil
}

func (u UseCase) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidRequest
	}
	if !u.Sessions.remove(id) {
		return ports.ErrNotFound
	}
	hlog.CtxInfof(ctx, "session %s deleted", id)
	return nil
}

// Step applies one manual move. It does not consume the planned actions.
func (u UseCase) Step(ctx context.Context, req StepRequest) (StepResponse, error) {
	action, err := world.ParseAction(strings.TrimSpace(req.Action))
	if err != nil {
		return StepResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	s, err := u.lookup(req.SessionID)
	if err != nil {
		return StepResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := u.step(ctx, s, action)
	if err != nil {
		return StepResponse{}, err
	}
	return StepResponse{Result: res, View: s.view()}, nil
}

// ApplyEvent fires an event against the world and re-plans from the
// player's current cell.
func (u UseCase) ApplyEvent(ctx context.Context, req EventRequest) (EventResponse, error) {
	kind, err := world.ParseEventKind(strings.TrimSpace(req.Kind))
	if err != nil {
		return EventResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	s, err := u.lookup(req.SessionID)
	if err != nil {
		return EventResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// the world stays untouched unless the event is logged
	before := s.world.Clone()
	converted := s.world.ApplyEvent(kind)
	if err := u.log(ctx, s, "event_applied", map[string]any{
		"kind":            string(kind),
		"cells_converted": converted,
	}); err != nil {
		s.world = before
		return EventResponse{}, err
	}
	if u.KPI != nil {
		u.KPI.RecordWorldEvent(string(kind))
	}
	_, found, err := u.replan(ctx, s)
	if err != nil {
		return EventResponse{}, err
	}
	return EventResponse{Kind: kind, CellsConverted: converted, PlanFound: found, View: s.view()}, nil
}

func (u UseCase) Plan(ctx context.Context, id string) (PlanResponse, error) {
	s, err := u.lookup(id)
	if err != nil {
		return PlanResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path, found, err := u.replan(ctx, s)
	if err != nil {
		return PlanResponse{}, err
	}
	return PlanResponse{Found: found, Path: path, Actions: s.actions, View: s.view()}, nil
}

// RunAgent executes the remaining planned actions, stopping when the goal is
// reached or after MaxAgentSteps moves.
func (u UseCase) RunAgent(ctx context.Context, id string) (RunResponse, error) {
	s, err := u.lookup(id)
	if err != nil {
		return RunResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := u.MaxAgentSteps
	if limit <= 0 {
		limit = DefaultMaxAgentSteps
	}
	out := RunResponse{}
	for s.cursor < len(s.actions) && out.StepsTaken < limit {
		a := s.actions[s.cursor]
		s.cursor++
		out.StepsTaken++
		res, err := u.step(ctx, s, a)
		if err != nil {
			return RunResponse{}, err
		}
		out.Result = res
		if res.Done {
			break
		}
	}
	hlog.CtxInfof(ctx, "session %s agent ran %d steps done=%t", s.id, out.StepsTaken, out.Result.Done)
	out.View = s.view()
	return out, nil
}

func (u UseCase) Frame(_ context.Context, id string, scale int) ([]byte, error) {
	if u.Renderer == nil {
		return nil, ErrNoRenderer
	}
	s, err := u.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	v := s.world.View()
	s.mu.Unlock()
	return u.Renderer.Render(v, scale)
}

func (u UseCase) step(ctx context.Context, s *Session, a world.Action) (world.StepResult, error) {
	from := s.world.Player()
	res := s.world.Step(a)
	s.tick++
	if u.KPI != nil {
		u.KPI.RecordStep(res.Done)
	}
	to := s.world.Player()
	payload := map[string]any{
		"action": string(a),
		"from":   map[string]int{"x": from.X, "y": from.Y},
		"to":     map[string]int{"x": to.X, "y": to.Y},
	}
	if res.Reason != world.ReasonNone {
		payload["reason"] = string(res.Reason)
	}
	evType := "player_moved"
	if from == to && res.Reason != world.ReasonLethal {
		evType = "move_blocked"
	}
	if res.Done {
		evType = "goal_reached"
	}
	if err := u.log(ctx, s, evType, payload); err != nil {
		return world.StepResult{}, err
	}
	return res, nil
}

func (u UseCase) replan(ctx context.Context, s *Session) ([]world.Point, bool, error) {
	path, found := planner.Plan(s.world)
	s.actions, s.cursor = nil, 0
	if u.KPI != nil {
		u.KPI.RecordPlan(found)
	}
	if found {
		actions, err := planner.ToActions(path)
		if err != nil {
			return nil, false, err
		}
		s.actions = actions
	}
	if err := u.log(ctx, s, "plan_computed", map[string]any{
		"found":   found,
		"actions": len(s.actions),
	}); err != nil {
		return nil, false, err
	}
	if !found {
		hlog.CtxWarnf(ctx, "session %s: no path from %v to %v", s.id, s.world.Player(), s.world.Goal())
	}
	return path, found, nil
}

func (u UseCase) configFor(req CreateRequest) world.Config {
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

// buildWorld tries the external generator first and falls back to random
// generation when it has nothing to offer.
func (u UseCase) buildWorld(ctx context.Context, prompt string, cfg world.Config) (*world.World, Source, error) {
	if u.Generator != nil && strings.TrimSpace(prompt) != "" {
		g, err := u.Generator.Generate(ctx, prompt)
		if err != nil {
			hlog.CtxWarnf(ctx, "world generator failed, falling back to random: %v", err)
		} else if g != nil {
			w, err := world.FromGenerated(*g)
			if err != nil {
				return nil, "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
			}
			return w, SourceGenerator, nil
		}
	}
	w, err := world.NewRandom(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return w, SourceRandom, nil
}

func (u UseCase) lookup(id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidRequest
	}
	s, ok := u.Sessions.get(id)
	if !ok {
		return nil, ports.ErrNotFound
	}
	return s, nil
}

func (u UseCase) log(ctx context.Context, s *Session, evType string, payload map[string]any) error {
	if u.Events == nil {
		return nil
	}
	err := u.Events.Append(ctx, s.id, []ports.WorldEvent{{
		Type:       evType,
		Tick:       s.tick,
		OccurredAt: u.now(),
		Payload:    payload,
	}})
	if err != nil {
		return fmt.Errorf("append %s event: %w", evType, err)
	}
	return nil
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

func (s *Session) view() View {
	return View{
		SessionID:      s.id,
		Prompt:         s.prompt,
		Source:         s.source,
		Config:         s.cfg,
		Tick:           s.tick,
		World:          s.world.View(),
		PlannedActions: append([]world.Action(nil), s.actions...),
		PlanCursor:     s.cursor,
	}
}
