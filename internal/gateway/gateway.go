// Package gateway abstracts model invocation behind a single capability
// interface. Models are addressed by configured role rather than by
// sniffing provider names out of model identifiers, so the provider
// selection lives entirely in configuration. Gateway failures of any
// kind (auth, quota, rate limit, timeout, network) surface as one
// invocation failure; the pipeline does not distinguish them.
package gateway

import (
	"context"
	"errors"
)

// Role names a configured model slot in the pipeline.
type Role string

// Configured model roles.
const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
)

// Sentinel errors for gateway operations.
var (
	// ErrUnknownRole indicates a role with no configured agent. This is
	// a configuration error and is raised immediately, never retried.
	ErrUnknownRole = errors.New("no agent configured for role")

	// ErrInvocationFailed wraps any failure from the underlying provider.
	ErrInvocationFailed = errors.New("model invocation failed")
)

// Gateway invokes a configured model with a prompt and returns the raw
// response text.
type Gateway interface {
	Invoke(ctx context.Context, role Role, prompt string) (string, error)
}
