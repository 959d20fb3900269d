package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/docsentry/docsentry/internal/document"
	"github.com/docsentry/docsentry/internal/pii"
	"github.com/docsentry/docsentry/internal/safety"
)

// DetectNode returns a state node that runs the PII detector and the
// content safety checker concurrently over the document pages. The two
// detectors share no state, so they run in their own goroutines. When
// the safety result demands a block, the node marks the state so the
// graph routes straight to finalize without any model invocation.
func DetectNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		content, err := extractContent(s)
		if err != nil {
			return s, fmt.Errorf("detect: %w", err)
		}

		if !content.IsLegible {
			rt.Logger.WarnContext(
				ctx, "document legibility below threshold",
				"legibility_score", content.LegibilityScore,
			)
		}

		var (
			piiResult    pii.Result
			safetyResult safety.Result
		)

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			piiResult = rt.PII.DetectPages(content.Pages)
			return nil
		})

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			safetyResult = rt.Safety.CheckPages(content.Pages)
			return nil
		})

		if err := g.Wait(); err != nil {
			return s, fmt.Errorf("detect: %w: %w", ErrDetectFailed, err)
		}

		blocked := safety.ShouldBlock(safetyResult)

		rt.Logger.InfoContext(
			ctx, "detect node complete",
			"pii", piiResult.Summary(),
			"safety", safetyResult.Summary(),
			"blocked", blocked,
		)

		s = s.Set(KeyPII, piiResult)
		s = s.Set(KeySafety, safetyResult)
		s = s.Set(KeyBlocked, blocked)
		return s, nil
	})
}

func extractContent(s state.State) (*document.Content, error) {
	val, ok := s.Get(KeyContent)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in state", ErrDetectFailed, KeyContent)
	}

	content, ok := val.(document.Content)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not document.Content", ErrDetectFailed, KeyContent)
	}

	return &content, nil
}
