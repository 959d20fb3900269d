package gateway

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentGateway is a Gateway backed by go-agents. Each role maps to its
// own agent configuration, so primary and secondary classification can
// run against different providers or deployments.
type AgentGateway struct {
	agents map[Role]gaconfig.AgentConfig
}

// NewAgentGateway builds a gateway from per-role agent configurations.
// The primary role must be configured; the secondary role is required
// only when dual verification is enabled, which callers enforce.
func NewAgentGateway(agents map[Role]gaconfig.AgentConfig) (*AgentGateway, error) {
	if _, ok := agents[RolePrimary]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, RolePrimary)
	}

	return &AgentGateway{agents: agents}, nil
}

// Invoke sends prompt to the model configured for role and returns the
// raw response content.
func (g *AgentGateway) Invoke(ctx context.Context, role Role, prompt string) (string, error) {
	cfg, ok := g.agents[role]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}

	a, err := agent.New(&cfg)
	if err != nil {
		return "", fmt.Errorf("%w: create agent for %s: %w", ErrInvocationFailed, role, err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvocationFailed, role, err)
	}

	return resp.Content(), nil
}
