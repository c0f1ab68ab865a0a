package pup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/logging"
	"github.com/hupe1980/smartpup/model"
	"github.com/hupe1980/smartpup/observability"
	"github.com/hupe1980/smartpup/response"
	"github.com/hupe1980/smartpup/tool"
)

// run carries the state of one Run call.
type run struct {
	pup         *Pup
	id          string
	userMessage string
	tools       tool.Set
	limiter     *core.ModelLimiter
	conv        *core.Conversation
	logger      logging.Logger
}

// Run drives the conversation until an answer, a bail or a failure. The
// returned error is always a *core.PupError.
func (p *Pup) Run(ctx context.Context, userMessage string, optFns ...func(o *RunOptions)) (*Result, error) {
	ro := RunOptions{Tools: p.opts.Tools}
	for _, fn := range optFns {
		fn(&ro)
	}

	r := &run{
		pup:         p,
		id:          uuid.NewString(),
		userMessage: userMessage,
		tools:       ro.Tools,
		limiter:     core.NewModelLimiter(p.opts.MaxIterations),
		conv:        core.NewConversation(p.systemPrompt, userMessage),
	}
	r.logger = runLogger(p.opts.Logger, p.opts.Name, r.id)

	start := time.Now()
	observability.ActiveRuns.Inc()
	defer observability.ActiveRuns.Dec()

	r.logger.Debug("pup.run.start", "tools", r.tools.Names(), "max_iterations", p.opts.MaxIterations)

	res, err := r.loop(ctx)

	outcome := "error"
	var pe *core.PupError
	switch {
	case err != nil:
		pe = core.Wrap(err)
		if pe.Kind == core.KindCognitive {
			outcome = "bail"
		}
	default:
		outcome = string(res.Kind)
		res.Iterations = r.limiter.Count()
		res.RunID = r.id
	}

	dur := time.Since(start)
	observability.RunsTotal.WithLabelValues(p.opts.Name, outcome).Inc()
	observability.RunDuration.WithLabelValues(p.opts.Name).Observe(dur.Seconds())
	observability.RunIterations.WithLabelValues(p.opts.Name).Observe(float64(r.limiter.Count()))

	if pe != nil {
		logRun(r.logger, outcome, r.limiter.Count(), dur, pe)
		return nil, pe
	}

	logRun(r.logger, outcome, r.limiter.Count(), dur, nil)

	return res, nil
}

func (r *run) loop(ctx context.Context) (*Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, core.NewTechnicalError(core.SubkindNone, "run canceled",
				map[string]any{"iterations": r.limiter.Count(), "error": err.Error()}, err)
		}

		iteration, err := r.limiter.Acquire()
		if err != nil {
			return nil, core.NewTechnicalError(core.SubkindNone,
				fmt.Sprintf("iteration budget exhausted: max iterations (%d) reached without final response", r.limiter.Max()),
				map[string]any{"max_iterations": r.limiter.Max(), "iterations": r.limiter.Count()},
				core.ErrIterationBudgetExhausted)
		}

		r.logger.Info("pup.iteration.start", "iteration", iteration, "max_iterations", r.limiter.Max())

		resp, err := r.request(ctx, iteration)
		if err != nil {
			return nil, err
		}

		calls := core.NormalizeCallIDs(resp.Content.FunctionCalls())
		c := response.Classify(resp.Content.Text(), calls, r.pup.opts.BailSentinel)

		r.logger.Debug("pup.reply.classified", "iteration", iteration, "kind", c.Kind.String(), "calls", len(calls))

		switch c.Kind {
		case response.KindBail:
			return nil, core.NewBailError(c.Content, r.userMessage)
		case response.KindAnswer:
			return r.answer(c.Content)
		case response.KindDispatch:
			if err := r.dispatch(ctx, c.Calls); err != nil {
				return nil, err
			}
		default:
			return nil, core.NewTechnicalError(core.SubkindNone, core.ErrNoAnswer.Error(),
				map[string]any{"iteration": iteration, "finish_reason": resp.FinishReason}, core.ErrNoAnswer)
		}
	}
}

// request issues exactly one model request.
func (r *run) request(ctx context.Context, iteration int) (*model.Response, error) {
	p := r.pup
	info := p.model.Info()

	modelName := p.opts.ModelName
	if modelName == "" {
		modelName = info.Name
	}

	req := model.Request{
		Model:          p.opts.ModelName,
		Contents:       r.conv.Messages(),
		Temperature:    model.Float(p.opts.Temperature),
		ResponseFormat: p.responseFormat,
	}
	if len(r.tools) > 0 {
		req.Tools = r.tools.Definitions()
	}

	start := time.Now()
	resp, err := p.model.Generate(ctx, req)
	dur := time.Since(start)

	observability.ModelRequestsTotal.WithLabelValues(info.Provider, modelName, observability.Status(err)).Inc()
	observability.ModelLatency.WithLabelValues(info.Provider, modelName).Observe(dur.Seconds())

	tokens := 0
	if resp != nil && resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
		observability.ModelTokensTotal.WithLabelValues(info.Provider, modelName, "input").Add(float64(resp.Usage.PromptTokens))
		observability.ModelTokensTotal.WithLabelValues(info.Provider, modelName, "output").Add(float64(resp.Usage.CompletionTokens))
	}
	logModelCall(r.logger, modelName, tokens, dur, err)

	if err != nil {
		return nil, core.NewTechnicalError(core.SubkindNone, "model request failed",
			map[string]any{"iteration": iteration, "model": modelName, "error": err.Error()}, err)
	}
	if resp == nil {
		return nil, core.NewTechnicalError(core.SubkindNone, "model returned no response",
			map[string]any{"iteration": iteration, "model": modelName}, nil)
	}

	return resp, nil
}

// answer turns terminal content into a result, validating it when a
// response schema is configured.
func (r *run) answer(content string) (*Result, error) {
	if r.pup.validator == nil {
		return &Result{Kind: KindText, Text: content}, nil
	}

	doc, err := response.Interpret(content, r.pup.validator)
	if err != nil {
		r.logger.Warn("pup.response.invalid", "error", err.Error())
		return nil, err
	}

	return &Result{Kind: KindStructured, Text: content, Data: doc}, nil
}
