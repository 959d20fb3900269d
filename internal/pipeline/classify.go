package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/docsentry/docsentry/internal/classification"
	"github.com/docsentry/docsentry/internal/gateway"
	"github.com/docsentry/docsentry/internal/metrics"
	"github.com/docsentry/docsentry/internal/pii"
	"github.com/docsentry/docsentry/internal/safety"
)

// ClassifyNode returns a state node that invokes the primary model with
// the assembled classification prompt and parses the response into a
// structured result. Parsing never fails the run: unparseable output
// degrades to an Unknown result, which the rule engine always escalates.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		content, err := extractContent(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		piiResult, err := extractPII(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		safetyResult, err := extractSafety(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		prompt := rt.Prompts.Classification(content.AllText(), piiResult, safetyResult)

		raw, err := rt.Gateway.Invoke(ctx, gateway.RolePrimary, prompt)
		if err != nil {
			return s, fmt.Errorf("classify: %w: %w", ErrClassifyFailed, err)
		}
		metrics.GatewayInvocations.WithLabelValues(string(gateway.RolePrimary)).Inc()

		result := classification.ParseResponse(raw)

		rt.Logger.InfoContext(
			ctx, "classify node complete",
			"category", result.Category,
			"confidence", result.Confidence,
		)

		s = s.Set(KeyPrimary, result)
		return s, nil
	})
}

func extractPII(s state.State) (pii.Result, error) {
	val, ok := s.Get(KeyPII)
	if !ok {
		return pii.Result{}, fmt.Errorf("missing %s in state", KeyPII)
	}

	result, ok := val.(pii.Result)
	if !ok {
		return pii.Result{}, fmt.Errorf("%s is not pii.Result", KeyPII)
	}

	return result, nil
}

func extractSafety(s state.State) (safety.Result, error) {
	val, ok := s.Get(KeySafety)
	if !ok {
		return safety.Result{}, fmt.Errorf("missing %s in state", KeySafety)
	}

	result, ok := val.(safety.Result)
	if !ok {
		return safety.Result{}, fmt.Errorf("%s is not safety.Result", KeySafety)
	}

	return result, nil
}

func extractPrimary(s state.State) (classification.Result, error) {
	val, ok := s.Get(KeyPrimary)
	if !ok {
		return classification.Result{}, fmt.Errorf("missing %s in state", KeyPrimary)
	}

	result, ok := val.(classification.Result)
	if !ok {
		return classification.Result{}, fmt.Errorf("%s is not classification.Result", KeyPrimary)
	}

	return result, nil
}
