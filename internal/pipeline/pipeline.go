package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/docsentry/docsentry/internal/document"
	"github.com/docsentry/docsentry/internal/metrics"
)

// Execute runs the classification pipeline for a single document. It
// builds the state graph (detect → classify → verify? → finalize, with
// blocked documents routed from detect straight to finalize), executes
// it, and extracts the Outcome from the final state. Errors never
// escape: any failure is converted into an Outcome with StatusFailed
// so callers always receive a terminal disposition.
func Execute(ctx context.Context, rt *Runtime, content *document.Content) *Outcome {
	runID := uuid.New()

	graph, err := buildGraph(rt)
	if err != nil {
		return failedOutcome(ctx, rt, runID, content, fmt.Errorf("build graph: %w", err))
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyRunID, runID)
	initialState = initialState.Set(KeyContent, *content)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return failedOutcome(ctx, rt, runID, content, fmt.Errorf("execute graph: %w", err))
	}

	outcome, err := extractOutcome(finalState)
	if err != nil {
		return failedOutcome(ctx, rt, runID, content, err)
	}

	metrics.ClassificationsTotal.WithLabelValues(string(outcome.Status)).Inc()
	return outcome
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("docsentry-classify")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("detect", DetectNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("classify", ClassifyNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("verify", VerifyNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	// detect → finalize (block short-circuit: no model invocation)
	if err := graph.AddEdge("detect", "finalize", blocked); err != nil {
		return nil, err
	}

	// detect → classify (safe to classify)
	if err := graph.AddEdge("detect", "classify", state.Not(blocked)); err != nil {
		return nil, err
	}

	dualVerification := func(state.State) bool {
		return rt.Pipeline.DualVerificationEnabled()
	}

	// classify → verify (when dual verification is enabled)
	if err := graph.AddEdge("classify", "verify", dualVerification); err != nil {
		return nil, err
	}

	// classify → finalize (single-model run)
	if err := graph.AddEdge("classify", "finalize", state.Not(dualVerification)); err != nil {
		return nil, err
	}

	// verify → finalize (unconditional)
	if err := graph.AddEdge("verify", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("detect"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func blocked(s state.State) bool {
	return isBlocked(s)
}

func extractOutcome(s state.State) (*Outcome, error) {
	val, ok := s.Get(KeyOutcome)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyOutcome)
	}

	outcome, ok := val.(Outcome)
	if !ok {
		return nil, fmt.Errorf("%s is not Outcome", KeyOutcome)
	}

	return &outcome, nil
}

func failedOutcome(
	ctx context.Context,
	rt *Runtime,
	runID uuid.UUID,
	content *document.Content,
	err error,
) *Outcome {
	rt.Logger.ErrorContext(
		ctx, "pipeline run failed",
		"run_id", runID,
		"error", err,
	)
	metrics.ClassificationsTotal.WithLabelValues(string(StatusFailed)).Inc()

	return &Outcome{
		RunID:       runID,
		Status:      StatusFailed,
		Metadata:    content.Meta(),
		Error:       err.Error(),
		CompletedAt: time.Now(),
	}
}
