// Package safetyrules gates every vote and timeout of a single
// validator against its persisted protocol state. The rules enforced
// here are the entire safety property of the protocol: round
// monotonicity prevents equivocation, the locking rule prevents
// contradicting a block the validator already voted to extend, and the
// persist-before-return ordering guarantees that no signed vote can
// reach the network without its corresponding state update being
// durable.
package safetyrules

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lodestone-bft/lodestone/consensus"
	"github.com/lodestone-bft/lodestone/consensus/notifications"
	"github.com/lodestone-bft/lodestone/metrics"
	"github.com/lodestone-bft/lodestone/model"
)

const (
	refusalWrongEpoch      = "wrong_epoch"
	refusalInvalidQC       = "invalid_quorum_cert"
	refusalRoundRegression = "round_regression"
	refusalLockedRound     = "locked_round_violation"
	refusalPersistence     = "persistence_failure"
)

// SafetyRules is the exclusive owner of this validator's SafetyData.
// All calls serialize on an internal mutex: at most one vote or
// timeout construction executes at a time, and no reader can observe a
// partially updated record.
type SafetyRules struct {
	log       zerolog.Logger
	signer    consensus.Signer
	verifier  consensus.Verifier
	committee consensus.Committee
	persist   consensus.Persister
	notifier  notifications.Consumer
	metrics   metrics.ConsensusMetrics

	mu         sync.Mutex
	safetyData *model.SafetyData
}

// New creates the safety rules engine, recovering the safety state
// from the last successfully persisted record.
func New(
	log zerolog.Logger,
	signer consensus.Signer,
	verifier consensus.Verifier,
	committee consensus.Committee,
	persist consensus.Persister,
	notifier notifications.Consumer,
	engineMetrics metrics.ConsensusMetrics,
) (*SafetyRules, error) {
	safetyData, err := persist.GetSafetyData()
	if err != nil {
		return nil, fmt.Errorf("could not recover safety data: %w", err)
	}
	return &SafetyRules{
		log: log.With().
			Str("component", "safety_rules").
			Hex("self", committee.Self().Bytes()).
			Logger(),
		signer:     signer,
		verifier:   verifier,
		committee:  committee,
		persist:    persist,
		notifier:   notifier,
		metrics:    engineMetrics,
		safetyData: safetyData,
	}, nil
}

// ConstructVote decides whether this validator may vote for the given
// block and, if so, signs the vote. The executed state digest is
// supplied by the external execution collaborator and is opaque here.
//
// The updated safety state is persisted before the vote is returned;
// a crash between signing and persisting must never leave an
// unpersisted vote observable to the network.
//
// Expected error returns during normal operations (all terminal for
// this input; the caller must wait for a valid proposal at a higher
// round instead of retrying):
//   - model.WrongEpochError if the block belongs to another epoch
//   - model.InvalidQuorumCertError if the embedded parent certificate
//     fails verification against the current validator set
//   - model.RoundRegressionError if the block's round does not advance
//     beyond the last voted round
//   - model.LockedRoundViolationError if the parent certificate is
//     below the preferred round
//   - model.PersistenceFailureError if the state update could not be
//     made durable; the engine fails closed and withholds the vote
func (r *SafetyRules) ConstructVote(block *model.Block, stateDigest model.Identifier) (*model.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sd := r.safetyData
	if block.Epoch != sd.Epoch {
		err := model.WrongEpochError{CurrentEpoch: sd.Epoch, InputEpoch: block.Epoch}
		r.refuse(block.Round, refusalWrongEpoch, err)
		return nil, err
	}

	// Retries for the identical proposal return the previously signed
	// vote; re-deriving would risk accidental equivocation.
	if lastVote := sd.LastVote; lastVote != nil &&
		lastVote.Round() == block.Round &&
		lastVote.VoteData.Proposed.BlockID == block.BlockID {
		r.log.Debug().
			Uint64("round", block.Round).
			Hex("block_id", block.BlockID.Bytes()).
			Msg("returning previously signed vote")
		return lastVote, nil
	}

	err := consensus.VerifyQuorumCert(block.QC, r.committee, r.verifier)
	if err != nil {
		if model.IsInvalidQuorumCertError(err) {
			r.refuse(block.Round, refusalInvalidQC, err)
			return nil, err
		}
		return nil, fmt.Errorf("could not verify parent certificate: %w", err)
	}
	if block.QC.BlockID() == model.ZeroID || block.Round <= block.QC.CertifiedRound() {
		err = model.NewInvalidQuorumCertErrorf(block.QC, "certificate does not certify a valid parent for round %d", block.Round)
		r.refuse(block.Round, refusalInvalidQC, err)
		return nil, err
	}

	// Monotonicity rule: only vote for rounds beyond the last voted one.
	if block.Round <= sd.LastVotedRound {
		err = model.RoundRegressionError{LastVotedRound: sd.LastVotedRound, Round: block.Round}
		r.refuse(block.Round, refusalRoundRegression, err)
		return nil, err
	}

	// Locking rule: never extend a chain that contradicts the
	// preferred (locked) round.
	certifiedRound := block.QC.CertifiedRound()
	if certifiedRound < sd.PreferredRound {
		err = model.LockedRoundViolationError{
			PreferredRound: sd.PreferredRound,
			CertifiedRound: certifiedRound,
			Round:          block.Round,
		}
		r.refuse(block.Round, refusalLockedRound, err)
		return nil, err
	}

	voteData, err := model.NewVoteData(block.BlockInfoFor(stateDigest), block.QC.CertifiedBlock())
	if err != nil {
		return nil, fmt.Errorf("could not construct vote data: %w", err)
	}
	digest := voteData.LedgerInfoDigest()
	sig, err := r.signer.Sign(digest.Bytes())
	if err != nil {
		return nil, fmt.Errorf("could not sign vote: %w", err)
	}
	vote, err := model.NewVote(model.UntrustedVote{
		VoteData:         voteData,
		AuthorID:         r.committee.Self(),
		LedgerInfoDigest: digest,
		Sig:              sig,
	})
	if err != nil {
		return nil, fmt.Errorf("could not construct vote: %w", err)
	}

	updated := sd.Clone()
	if certifiedRound > updated.PreferredRound {
		updated.PreferredRound = certifiedRound
	}
	updated.LastVotedRound = block.Round
	updated.LastVote = vote

	err = r.commit(updated)
	if err != nil {
		r.refuse(block.Round, refusalPersistence, err)
		return nil, err
	}

	r.log.Debug().
		Uint64("round", block.Round).
		Uint64("preferred_round", updated.PreferredRound).
		Hex("block_id", block.BlockID.Bytes()).
		Msg("vote constructed")
	return vote, nil
}

// ProcessTimeout decides whether this validator may sign a timeout for
// the given round. Timing out advances the last voted round so no
// proposal vote can be cast for the abandoned round afterwards, but it
// never touches the preferred round: timeouts carry no commit
// implication.
//
// Expected error returns during normal operations:
//   - model.RoundRegressionError if the round is below the last voted round
//   - model.PersistenceFailureError if the state update could not be
//     made durable; the engine fails closed and withholds the timeout
func (r *SafetyRules) ProcessTimeout(round uint64) (*model.TimeoutVote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// round 0 holds the genesis certificate and cannot be abandoned;
	// timeout certificates for it are unconstructible
	if round == 0 {
		return nil, fmt.Errorf("round 0 cannot time out")
	}

	sd := r.safetyData
	if round < sd.LastVotedRound {
		err := model.RoundRegressionError{LastVotedRound: sd.LastVotedRound, Round: round}
		r.refuse(round, refusalRoundRegression, err)
		return nil, err
	}

	digest := model.TimeoutSigningDigest(sd.Epoch, round)
	sig, err := r.signer.Sign(digest.Bytes())
	if err != nil {
		return nil, fmt.Errorf("could not sign timeout vote: %w", err)
	}
	tv := &model.TimeoutVote{
		Epoch:    sd.Epoch,
		Round:    round,
		AuthorID: r.committee.Self(),
		Sig:      sig,
	}

	updated := sd.Clone()
	if round > updated.LastVotedRound {
		updated.LastVotedRound = round
	}

	err = r.commit(updated)
	if err != nil {
		r.refuse(round, refusalPersistence, err)
		return nil, err
	}

	r.log.Debug().
		Uint64("round", round).
		Msg("timeout vote constructed")
	return tv, nil
}

// AdvanceEpoch resets the safety state for a verified epoch change.
// The new epoch must be strictly larger; rounds are zeroed and the
// retained vote is dropped. The reset is persisted before it takes
// effect.
func (r *SafetyRules) AdvanceEpoch(epoch uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if epoch <= r.safetyData.Epoch {
		return fmt.Errorf("new epoch (%d) must be larger than current epoch (%d)", epoch, r.safetyData.Epoch)
	}
	err := r.commit(model.NewSafetyData(epoch))
	if err != nil {
		return err
	}
	r.log.Info().Uint64("epoch", epoch).Msg("epoch advanced")
	return nil
}

// SafetyData returns a copy of the current safety state.
func (r *SafetyRules) SafetyData() model.SafetyData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.safetyData
}

// commit persists the updated safety state and only then adopts it in
// memory. On persistence failure the in-memory state is left
// untouched: the operation is treated as if it never happened and
// nothing signed during it may be released.
func (r *SafetyRules) commit(updated *model.SafetyData) error {
	err := r.persist.PutSafetyData(updated)
	if err != nil {
		return model.NewPersistenceFailureError(fmt.Errorf("could not persist safety data: %w", err))
	}
	r.safetyData = updated
	return nil
}

func (r *SafetyRules) refuse(round uint64, kind string, err error) {
	r.metrics.SafetyRefusal(kind)
	r.notifier.OnVoteRefused(round, err)
	r.log.Warn().
		Uint64("round", round).
		Str("kind", kind).
		Err(err).
		Msg("refusing to sign")
}
