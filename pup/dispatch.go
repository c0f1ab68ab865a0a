package pup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/logging"
	"github.com/hupe1980/smartpup/observability"
	"github.com/hupe1980/smartpup/tool"
)

// pendingCall is a resolved capability call ready to execute.
type pendingCall struct {
	call core.FunctionCall
	impl tool.Tool
	args map[string]any
}

// dispatch resolves every call, runs the handlers and appends the tool turn.
// Resolution failures abort before any handler runs. The first handler
// failure in call order ends the run unless FeedToolErrors is set.
func (r *run) dispatch(ctx context.Context, calls []core.FunctionCall) error {
	pending, err := resolveCalls(r.tools, calls)
	if err != nil {
		r.logger.Warn("pup.dispatch.rejected", "error", err.Error())
		return err
	}

	responses, failures := r.execute(ctx, pending)

	if !r.pup.opts.FeedToolErrors {
		for i, ferr := range failures {
			if ferr != nil {
				return capabilityFailure(calls[i], ferr)
			}
		}
	}

	if err := r.conv.AppendToolTurn("", calls, responses); err != nil {
		return core.NewTechnicalError(core.SubkindNone, "failed to record tool results",
			map[string]any{"error": err.Error()}, err)
	}

	return nil
}

func resolveCalls(set tool.Set, calls []core.FunctionCall) ([]pendingCall, error) {
	pending := make([]pendingCall, len(calls))

	for i, fc := range calls {
		impl, ok := set.Lookup(fc.Name)
		if !ok {
			return nil, core.NewTechnicalError(core.SubkindNone,
				fmt.Sprintf("unknown capability: %s", fc.Name),
				map[string]any{"tool": fc.Name, "call_id": fc.ID, "available": set.Names()},
				core.ErrUnknownCapability)
		}

		args, err := parseArguments(fc.Arguments)
		if err != nil {
			return nil, core.NewTechnicalError(core.SubkindInvalidJSON,
				fmt.Sprintf("malformed arguments for %s", fc.Name),
				map[string]any{"tool": fc.Name, "call_id": fc.ID, "arguments": fc.Arguments, "error": err.Error()},
				fmt.Errorf("%w: %w", core.ErrMalformedArguments, err))
		}

		pending[i] = pendingCall{call: fc, impl: impl, args: args}
	}

	return pending, nil
}

func capabilityFailure(fc core.FunctionCall, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return core.NewTechnicalError(core.SubkindNone, "run canceled",
			map[string]any{"tool": fc.Name, "call_id": fc.ID, "error": err.Error()}, err)
	}

	sentinel := core.ErrCapabilityFailed

	var te *tool.ToolError
	if errors.As(err, &te) && te.Code == tool.CodeValidation {
		sentinel = core.ErrMalformedArguments
	}

	return core.NewTechnicalError(core.SubkindNone,
		fmt.Sprintf("capability %s failed", fc.Name),
		map[string]any{"tool": fc.Name, "call_id": fc.ID, "error": err.Error()},
		fmt.Errorf("%w: %w", sentinel, err))
}

func parseArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	if args == nil {
		return nil, fmt.Errorf("arguments must be a JSON object")
	}

	return args, nil
}

// execute runs the handlers concurrently, bounded by MaxParallelTools, and
// returns exactly one response per call in call order. Handler errors and
// panics are recorded both as error responses and in failures.
func (r *run) execute(ctx context.Context, pending []pendingCall) ([]core.FunctionResponse, []error) {
	n := len(pending)
	responses := make([]core.FunctionResponse, n)
	failures := make([]error, n)

	maxPar := r.pup.opts.MaxParallelTools
	if maxPar <= 0 || maxPar > n {
		maxPar = n
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxPar)

	batchStart := time.Now()
	for i := range pending {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, pc pendingCall) {
			defer wg.Done()
			defer func() { <-sem }()

			responses[idx], failures[idx] = r.executeOne(ctx, pc)
		}(i, pending[i])
	}

	wg.Wait()

	r.logger.Debug("pup.dispatch.batch.complete",
		"count", n,
		"parallelism", maxPar,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)

	return responses, failures
}

func (r *run) executeOne(ctx context.Context, pc pendingCall) (core.FunctionResponse, error) {
	fc := pc.call
	resp := core.FunctionResponse{ID: fc.ID, Name: fc.Name}

	if err := ctx.Err(); err != nil {
		resp.Error = err.Error()
		return resp, err
	}

	toolCtx := core.NewToolContext(ctx, r.id, fc.ID, r.logger)

	start := time.Now()
	var (
		result any
		err    error
	)
	func() { // panic safety
		defer func() {
			if rec := recover(); rec != nil {
				err = &panicErr{val: rec}
				if pl, ok := r.logger.(*logging.PupLogger); ok {
					pl.ErrorWithStack(err, "pup.tool.panic", "tool", fc.Name, "fc_id", fc.ID)
				} else {
					r.logger.Error("pup.tool.panic", "tool", fc.Name, "fc_id", fc.ID, "recover", fmt.Sprint(rec))
				}
			}
		}()
		result, err = pc.impl.Call(toolCtx, pc.args)
	}()
	dur := time.Since(start)

	observability.ToolExecutionsTotal.WithLabelValues(fc.Name, observability.Status(err)).Inc()
	observability.ToolDuration.WithLabelValues(fc.Name).Observe(dur.Seconds())
	logToolCall(r.logger, fc.Name, dur, err)

	if err != nil {
		resp.Error = err.Error()
		return resp, err
	}

	resp.Response = renderResult(result)

	return resp, nil
}

// renderResult converts a handler result into the text fed back to the model.
func renderResult(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return string(raw)
}

type panicErr struct {
	val any
}

func (p *panicErr) Error() string { return fmt.Sprintf("panic recovered: %v", p.val) }
