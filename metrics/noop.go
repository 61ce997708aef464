package metrics

// NoopCollector is a no-op implementation of ConsensusMetrics.
type NoopCollector struct{}

var _ ConsensusMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (*NoopCollector) VoteProcessed()       {}
func (*NoopCollector) TimeoutProcessed()    {}
func (*NoopCollector) QuorumCertCreated()   {}
func (*NoopCollector) TimeoutCertCreated()  {}
func (*NoopCollector) SafetyRefusal(string) {}
