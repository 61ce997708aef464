package notifications

import (
	"github.com/rs/zerolog"

	"github.com/lodestone-bft/lodestone/model"
)

// LogConsumer is an implementation of the notifications consumer that
// logs a message for each event.
type LogConsumer struct {
	log zerolog.Logger
}

var _ Consumer = (*LogConsumer)(nil)

func NewLogConsumer(log zerolog.Logger) *LogConsumer {
	lc := &LogConsumer{
		log: log,
	}
	return lc
}

func (lc *LogConsumer) OnQuorumCertCreated(qc *model.QuorumCert) {
	lc.log.Debug().
		Uint64("epoch", qc.Epoch()).
		Uint64("certified_round", qc.CertifiedRound()).
		Hex("block_id", qc.BlockID().Bytes()).
		Int("signers", qc.SignedLedgerInfo.AggregatedSig.CardinalitySignerSet()).
		Msg("quorum certificate created")
}

func (lc *LogConsumer) OnTimeoutCertCreated(tc *model.TimeoutCert) {
	lc.log.Debug().
		Uint64("epoch", tc.Epoch).
		Uint64("round", tc.Round).
		Int("signers", tc.AggregatedSig.CardinalitySignerSet()).
		Msg("timeout certificate created")
}

func (lc *LogConsumer) OnDoubleVoteDetected(firstVote *model.Vote, conflictingVote *model.Vote) {
	lc.log.Warn().
		Uint64("epoch", firstVote.Epoch()).
		Uint64("round", firstVote.Round()).
		Hex("author_id", firstVote.AuthorID.Bytes()).
		Hex("first_block_id", firstVote.VoteData.Proposed.BlockID.Bytes()).
		Hex("conflicting_block_id", conflictingVote.VoteData.Proposed.BlockID.Bytes()).
		Msg("double vote detected")
}

func (lc *LogConsumer) OnVoteRefused(round uint64, err error) {
	lc.log.Warn().
		Uint64("round", round).
		Err(err).
		Msg("vote refused")
}

func (lc *LogConsumer) OnCatchUpRequired(localRound uint64, targetRound uint64) {
	lc.log.Info().
		Uint64("local_round", localRound).
		Uint64("target_round", targetRound).
		Msg("catch up required")
}
