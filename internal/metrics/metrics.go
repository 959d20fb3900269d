// Package metrics exposes Prometheus instrumentation for the
// classification pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassificationsTotal counts completed pipeline runs by outcome status.
	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docsentry",
		Name:      "classifications_total",
		Help:      "Classification pipeline runs by outcome status.",
	}, []string{"status"})

	// DocumentsBlocked counts documents rejected by the safety gate
	// before any model invocation.
	DocumentsBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsentry",
		Name:      "documents_blocked_total",
		Help:      "Documents blocked by the content safety gate.",
	})

	// GatewayInvocations counts model gateway calls by role.
	GatewayInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docsentry",
		Name:      "gateway_invocations_total",
		Help:      "Model gateway invocations by configured role.",
	}, []string{"role"})

	// HITLEscalations counts classifications escalated for human review.
	HITLEscalations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsentry",
		Name:      "hitl_escalations_total",
		Help:      "Classifications escalated to human review.",
	})
)
