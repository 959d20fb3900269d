// Package pipeline implements the classification orchestrator as a
// 4-node state graph (detect → classify → verify? → finalize). The
// detect node runs the PII and content safety detectors; a conditional
// edge short-circuits blocked documents straight to finalize so unsafe
// content never reaches a model call; the verify node runs only when
// dual verification is enabled.
package pipeline

import "errors"

// Sentinel errors for pipeline operations.
var (
	ErrDetectFailed   = errors.New("detection failed")
	ErrClassifyFailed = errors.New("classification failed")
	ErrVerifyFailed   = errors.New("verification failed")
	ErrFinalizeFailed = errors.New("finalization failed")
)
