package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"promptworld/internal/app/evaluate"
	"promptworld/internal/app/ports"
	"promptworld/internal/app/replay"
	"promptworld/internal/app/session"
	"promptworld/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	SessionUC  session.UseCase
	EvaluateUC evaluate.UseCase
	ReplayUC   replay.UseCase
	Parser     ports.ConfigParser
	KPI        kpiSnapshotProvider
	// FrameScale is used when a frame request has no scale query.
	FrameScale int
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/config/parse", h.parseConfig)

	sessions := api.Group("/sessions")
	sessions.POST("", h.createSession)
	sessions.GET("/:id", h.getSession)
	sessions.DELETE("/:id", h.deleteSession)
	sessions.POST("/:id/reset", h.resetSession)
	sessions.POST("/:id/step", h.step)
	sessions.POST("/:id/events", h.applyEvent)
	sessions.POST("/:id/plan", h.plan)
	sessions.POST("/:id/run", h.runAgent)
	sessions.GET("/:id/frame.png", h.frame)
	sessions.GET("/:id/replay", h.replay)

	evaluations := api.Group("/evaluations")
	evaluations.POST("", h.evaluate)
	evaluations.GET("", h.listEvaluations)
	evaluations.GET("/:id", h.getEvaluation)

	s.GET("/ops/kpi", h.kpi)
}

type parseRequest struct {
	Prompt string `json:"prompt"`
}

type createSessionRequest struct {
	Prompt string        `json:"prompt"`
	Config *world.Config `json:"config,omitempty"`
}

type stepRequest struct {
	Action string `json:"action"`
}

type eventRequest struct {
	Kind string `json:"kind"`
}

type evaluationRequest struct {
	Prompt   string        `json:"prompt"`
	Config   *world.Config `json:"config,omitempty"`
	Trials   int           `json:"trials"`
	Schedule string        `json:"schedule"`
	VarySeed bool          `json:"vary_seed"`
}

func (h Handler) parseConfig(_ context.Context, ctx *app.RequestContext) {
	if h.Parser == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "prompt parser not configured")
		return
	}
	var body parseRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	ctx.JSON(consts.StatusOK, h.Parser.Parse(body.Prompt))
}

func (h Handler) createSession(c context.Context, ctx *app.RequestContext) {
	var body createSessionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SessionUC.Create(c, session.CreateRequest{Prompt: body.Prompt, Config: body.Config})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) getSession(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SessionUC.Get(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) deleteSession(c context.Context, ctx *app.RequestContext) {
	if err := h.SessionUC.Delete(c, ctx.Param("id")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) resetSession(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SessionUC.Reset(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) step(c context.Context, ctx *app.RequestContext) {
	var body stepRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SessionUC.Step(c, session.StepRequest{SessionID: ctx.Param("id"), Action: body.Action})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) applyEvent(c context.Context, ctx *app.RequestContext) {
	var body eventRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.SessionUC.ApplyEvent(c, session.EventRequest{SessionID: ctx.Param("id"), Kind: body.Kind})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) plan(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SessionUC.Plan(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) runAgent(c context.Context, ctx *app.RequestContext) {
	resp, err := h.SessionUC.RunAgent(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) frame(c context.Context, ctx *app.RequestContext) {
	scale := h.FrameScale
	if raw := string(ctx.Query("scale")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "scale must be an integer")
			return
		}
		scale = n
	}
	b, err := h.SessionUC.Frame(c, ctx.Param("id"), scale)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Data(consts.StatusOK, "image/png", b)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	fromTick, _ := strconv.Atoi(string(ctx.Query("from_tick")))
	toTick, _ := strconv.Atoi(string(ctx.Query("to_tick")))

	resp, err := h.ReplayUC.Execute(c, replay.Request{
		SessionID: ctx.Param("id"),
		Limit:     limit,
		FromTick:  fromTick,
		ToTick:    toTick,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) evaluate(c context.Context, ctx *app.RequestContext) {
	var body evaluationRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.EvaluateUC.Execute(c, evaluate.Request{
		Prompt:   body.Prompt,
		Config:   body.Config,
		Trials:   body.Trials,
		Schedule: body.Schedule,
		VarySeed: body.VarySeed,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) getEvaluation(c context.Context, ctx *app.RequestContext) {
	resp, err := h.EvaluateUC.Get(c, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) listEvaluations(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	resp, err := h.EvaluateUC.List(c, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, session.ErrNoRenderer):
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", err.Error())
	case errors.Is(err, session.ErrInvalidRequest),
		errors.Is(err, evaluate.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
