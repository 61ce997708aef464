// Package notifications distributes protocol events emitted by the
// consensus core to interested observers: telemetry, misbehavior
// evidence collection and operator logging.
package notifications

import (
	"github.com/lodestone-bft/lodestone/model"
)

// Consumer consumes outbound notifications produced by the consensus
// core. Implementations must be non-blocking and concurrency safe.
type Consumer interface {
	// OnQuorumCertCreated is emitted exactly once per round for which
	// the vote collector accumulated a quorum.
	OnQuorumCertCreated(qc *model.QuorumCert)

	// OnTimeoutCertCreated is emitted exactly once per round for which
	// the timeout collector accumulated a quorum.
	OnTimeoutCertCreated(tc *model.TimeoutCert)

	// OnDoubleVoteDetected is emitted when a validator contributed two
	// conflicting votes for the same (epoch, round). Both votes are
	// evidence of slashable misbehavior.
	OnDoubleVoteDetected(firstVote *model.Vote, conflictingVote *model.Vote)

	// OnVoteRefused is emitted when the safety rules engine refuses to
	// sign a vote or timeout, with the violated invariant as error.
	OnVoteRefused(round uint64, err error)

	// OnCatchUpRequired is emitted when reconciling sync info shows
	// that local state is behind and blocks up to targetRound must be
	// retrieved before voting can continue.
	OnCatchUpRequired(localRound uint64, targetRound uint64)
}
