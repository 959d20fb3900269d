package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/docsentry/docsentry/internal/classification"
	"github.com/docsentry/docsentry/internal/gateway"
	"github.com/docsentry/docsentry/internal/metrics"
)

// Agreement at or above this score counts as verified.
const agreementThreshold = 0.7

// VerifyNode returns a state node that cross-checks the primary
// classification against an independent secondary model. The secondary
// sees the primary's category, confidence, and reasoning and is asked
// to classify independently; the agreement score weighs category match
// and confidence similarity. Disagreement never overturns the primary
// result, it only annotates it for the rule engine and reviewers.
func VerifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		content, err := extractContent(s)
		if err != nil {
			return s, fmt.Errorf("verify: %w", err)
		}

		primary, err := extractPrimary(s)
		if err != nil {
			return s, fmt.Errorf("verify: %w", err)
		}

		prompt := rt.Prompts.Verification(content.AllText(), primary)

		raw, err := rt.Gateway.Invoke(ctx, gateway.RoleSecondary, prompt)
		if err != nil {
			return s, fmt.Errorf("verify: %w: %w", ErrVerifyFailed, err)
		}
		metrics.GatewayInvocations.WithLabelValues(string(gateway.RoleSecondary)).Inc()

		secondary := classification.ParseResponse(raw)
		agreement := classification.Agreement(primary, secondary)

		primary.Verification = &classification.Verification{
			Verified:        agreement >= agreementThreshold,
			AgreementScore:  agreement,
			SecondaryResult: &secondary,
		}

		rt.Logger.InfoContext(
			ctx, "verify node complete",
			"agreement_score", agreement,
			"verified", primary.Verification.Verified,
			"secondary_category", secondary.Category,
		)

		s = s.Set(KeyPrimary, primary)
		return s, nil
	})
}
