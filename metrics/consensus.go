// Package metrics exposes prometheus instrumentation for the consensus
// core, plus a no-op implementation for tests and tooling that runs
// without a metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespaceConsensus = "consensus"

	subsystemAggregation = "aggregation"
	subsystemSafety      = "safety"
)

// ConsensusMetrics instruments the hot paths of the consensus core.
type ConsensusMetrics interface {
	// VoteProcessed is called for every proposal vote accepted by a
	// vote collector.
	VoteProcessed()

	// TimeoutProcessed is called for every timeout vote accepted by a
	// timeout collector.
	TimeoutProcessed()

	// QuorumCertCreated is called when a vote collector emits a QC.
	QuorumCertCreated()

	// TimeoutCertCreated is called when a timeout collector emits a TC.
	TimeoutCertCreated()

	// SafetyRefusal is called when the safety rules engine refuses to
	// sign, labeled by the violated invariant.
	SafetyRefusal(kind string)
}

// ConsensusCollector is the prometheus-backed ConsensusMetrics.
type ConsensusCollector struct {
	votesProcessed    prometheus.Counter
	timeoutsProcessed prometheus.Counter
	qcsCreated        prometheus.Counter
	tcsCreated        prometheus.Counter
	safetyRefusals    *prometheus.CounterVec
}

var _ ConsensusMetrics = (*ConsensusCollector)(nil)

// NewConsensusCollector creates a new consensus collector and registers
// its metrics with the given registerer.
func NewConsensusCollector(registerer prometheus.Registerer) *ConsensusCollector {
	votesProcessed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceConsensus,
		Subsystem: subsystemAggregation,
		Name:      "votes_processed_total",
		Help:      "the number of proposal votes accepted by vote collectors",
	})
	timeoutsProcessed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceConsensus,
		Subsystem: subsystemAggregation,
		Name:      "timeouts_processed_total",
		Help:      "the number of timeout votes accepted by timeout collectors",
	})
	qcsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceConsensus,
		Subsystem: subsystemAggregation,
		Name:      "quorum_certificates_created_total",
		Help:      "the number of quorum certificates built locally",
	})
	tcsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespaceConsensus,
		Subsystem: subsystemAggregation,
		Name:      "timeout_certificates_created_total",
		Help:      "the number of timeout certificates built locally",
	})
	safetyRefusals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespaceConsensus,
		Subsystem: subsystemSafety,
		Name:      "refusals_total",
		Help:      "the number of refused vote/timeout requests by violated invariant",
	}, []string{"kind"})

	registerer.MustRegister(votesProcessed, timeoutsProcessed, qcsCreated, tcsCreated, safetyRefusals)

	cc := &ConsensusCollector{
		votesProcessed:    votesProcessed,
		timeoutsProcessed: timeoutsProcessed,
		qcsCreated:        qcsCreated,
		tcsCreated:        tcsCreated,
		safetyRefusals:    safetyRefusals,
	}
	return cc
}

func (cc *ConsensusCollector) VoteProcessed()    { cc.votesProcessed.Inc() }
func (cc *ConsensusCollector) TimeoutProcessed() { cc.timeoutsProcessed.Inc() }
func (cc *ConsensusCollector) QuorumCertCreated() {
	cc.qcsCreated.Inc()
}
func (cc *ConsensusCollector) TimeoutCertCreated() {
	cc.tcsCreated.Inc()
}
func (cc *ConsensusCollector) SafetyRefusal(kind string) {
	cc.safetyRefusals.WithLabelValues(kind).Inc()
}
