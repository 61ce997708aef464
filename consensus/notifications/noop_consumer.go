package notifications

import (
	"github.com/lodestone-bft/lodestone/model"
)

// NoopConsumer is an implementation of the notifications consumer that
// doesn't do anything.
type NoopConsumer struct{}

var _ Consumer = (*NoopConsumer)(nil)

func NewNoopConsumer() *NoopConsumer {
	return &NoopConsumer{}
}

func (*NoopConsumer) OnQuorumCertCreated(*model.QuorumCert)       {}
func (*NoopConsumer) OnTimeoutCertCreated(*model.TimeoutCert)     {}
func (*NoopConsumer) OnDoubleVoteDetected(*model.Vote, *model.Vote) {}
func (*NoopConsumer) OnVoteRefused(uint64, error)                 {}
func (*NoopConsumer) OnCatchUpRequired(uint64, uint64)            {}
