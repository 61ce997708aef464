// Package votecollector aggregates proposal votes into quorum
// certificates. One collector instance handles exactly one
// (epoch, round); the registry in vote_collectors.go owns the
// per-round instances and discards them once they become stale.
package votecollector

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/lodestone-bft/lodestone/consensus"
	"github.com/lodestone-bft/lodestone/consensus/notifications"
	"github.com/lodestone-bft/lodestone/metrics"
	"github.com/lodestone-bft/lodestone/model"
)

var (
	// VoteForIncompatibleRoundError is a sentinel returned when a vote
	// is submitted to a collector handling a different round.
	VoteForIncompatibleRoundError = errors.New("vote for incompatible round")
	// VoteForIncompatibleEpochError is a sentinel returned when a vote
	// is submitted to a collector handling a different epoch.
	VoteForIncompatibleEpochError = errors.New("vote for incompatible epoch")
)

// VoteCollector collects the votes of one (epoch, round), tracks the
// accumulated voting power per distinct vote data and emits a quorum
// certificate exactly once when the threshold is reached.
//
// Safe for concurrent use; concurrent AddVote calls for the same round
// serialize on the collector's mutex so voting power is never counted
// twice.
type VoteCollector struct {
	log        zerolog.Logger
	epoch      uint64
	round      uint64
	threshold  uint64
	committee  consensus.Committee
	verifier   consensus.Verifier
	aggregator consensus.SignatureAggregator
	notifier   notifications.Consumer
	metrics    metrics.ConsensusMetrics

	mu   sync.Mutex
	done atomic.Bool
	// firstVotes tracks the first vote of each author for double-vote
	// detection; votesByData groups accepted votes by vote-data digest.
	firstVotes   map[model.Identifier]*model.Vote
	votesByData  map[model.Identifier]map[model.Identifier]*model.Vote
	voteDataByID map[model.Identifier]model.VoteData
	weights      map[model.Identifier]uint64
	builtQC      *model.QuorumCert
}

// NewVoteCollector creates a vote collector for the given epoch and round.
func NewVoteCollector(
	log zerolog.Logger,
	epoch uint64,
	round uint64,
	committee consensus.Committee,
	verifier consensus.Verifier,
	aggregator consensus.SignatureAggregator,
	notifier notifications.Consumer,
	collectorMetrics metrics.ConsensusMetrics,
) (*VoteCollector, error) {
	threshold, err := committee.QuorumThreshold(epoch)
	if err != nil {
		return nil, fmt.Errorf("could not determine quorum threshold for epoch %d: %w", epoch, err)
	}
	return &VoteCollector{
		log: log.With().
			Str("component", "vote_collector").
			Uint64("epoch", epoch).
			Uint64("round", round).
			Logger(),
		epoch:        epoch,
		round:        round,
		threshold:    threshold,
		committee:    committee,
		verifier:     verifier,
		aggregator:   aggregator,
		notifier:     notifier,
		metrics:      collectorMetrics,
		firstVotes:   make(map[model.Identifier]*model.Vote),
		votesByData:  make(map[model.Identifier]map[model.Identifier]*model.Vote),
		voteDataByID: make(map[model.Identifier]model.VoteData),
		weights:      make(map[model.Identifier]uint64),
	}, nil
}

// Epoch returns the epoch this collector is handling.
func (c *VoteCollector) Epoch() uint64 { return c.epoch }

// Round returns the round this collector is handling.
func (c *VoteCollector) Round() uint64 { return c.round }

// AddVote verifies and accumulates one vote. Once the accumulated
// voting power for a single vote data reaches the quorum threshold the
// aggregated certificate is returned; this happens at most once per
// collector. Votes arriving after the certificate formed contribute no
// weight, but they are still registered: equivocation by a validator is
// detected and reported for the collector's whole lifetime, not only
// while the quorum is open.
//
// Expected error returns during normal operations:
//   - VoteForIncompatibleEpochError / VoteForIncompatibleRoundError if
//     the vote does not belong to this collector
//   - model.InvalidSignerError if the author has no voting power
//   - model.InvalidVoteError if the vote is malformed or its signature
//     does not verify
//   - model.EquivocatingVoteError if the author already contributed a
//     conflicting vote for this round (reported, never retried)
//
// All other errors are unexpected and potential symptoms of corrupted
// internal state.
func (c *VoteCollector) AddVote(vote *model.Vote) (*model.QuorumCert, error) {
	err := c.ensureVoteForRound(vote)
	if err != nil {
		return nil, err
	}

	power, err := c.committee.VotingPower(c.epoch, vote.AuthorID)
	if err != nil {
		if model.IsInvalidSignerError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("could not determine voting power of %x: %w", vote.AuthorID, err)
	}

	if vote.LedgerInfoDigest != vote.VoteData.LedgerInfoDigest() {
		return nil, model.NewInvalidVoteErrorf(vote, "ledger info digest does not match vote data")
	}
	err = c.verifier.Verify(vote.AuthorID, vote.LedgerInfoDigest.Bytes(), vote.Sig)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSignature) {
			return nil, model.NewInvalidVoteErrorf(vote, "signature rejected: %w", err)
		}
		return nil, fmt.Errorf("could not verify vote signature: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	voteDataID := vote.VoteData.ID()
	if firstVote, voted := c.firstVotes[vote.AuthorID]; voted {
		if firstVote.VoteData.ID() == voteDataID {
			// pure duplicate, idempotent no-op
			return nil, nil
		}
		c.notifier.OnDoubleVoteDetected(firstVote, vote)
		return nil, model.NewEquivocatingVoteErrorf(firstVote, vote,
			"validator %x voted for both %x and %x at round %d",
			vote.AuthorID, firstVote.VoteData.Proposed.BlockID, vote.VoteData.Proposed.BlockID, c.round)
	}
	c.firstVotes[vote.AuthorID] = vote

	// with the certificate already built only the double-vote
	// bookkeeping above remains active; weight accounting stops
	if c.done.Load() {
		return nil, nil
	}

	votes, ok := c.votesByData[voteDataID]
	if !ok {
		votes = make(map[model.Identifier]*model.Vote)
		c.votesByData[voteDataID] = votes
		c.voteDataByID[voteDataID] = vote.VoteData
	}
	votes[vote.AuthorID] = vote
	c.weights[voteDataID] += power
	c.metrics.VoteProcessed()

	c.log.Debug().
		Hex("author_id", vote.AuthorID.Bytes()).
		Uint64("accumulated_weight", c.weights[voteDataID]).
		Uint64("threshold", c.threshold).
		Msg("vote processed")

	if c.weights[voteDataID] < c.threshold {
		return nil, nil
	}
	if !c.done.CompareAndSwap(false, true) {
		return nil, nil
	}

	qc, err := c.buildQC(voteDataID)
	if err != nil {
		return nil, fmt.Errorf("could not build quorum certificate: %w", err)
	}
	c.builtQC = qc
	c.notifier.OnQuorumCertCreated(qc)
	c.metrics.QuorumCertCreated()
	return qc, nil
}

// BuiltQC returns the certificate this collector emitted, or nil if no
// quorum has been reached yet.
func (c *VoteCollector) BuiltQC() *model.QuorumCert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builtQC
}

// buildQC aggregates the accumulated signature shares for the winning
// vote data into a certificate. Caller must hold the lock.
func (c *VoteCollector) buildQC(voteDataID model.Identifier) (*model.QuorumCert, error) {
	votes := c.votesByData[voteDataID]
	voteData := c.voteDataByID[voteDataID]

	signerIDs := make([]model.Identifier, 0, len(votes))
	for signerID := range votes {
		signerIDs = append(signerIDs, signerID)
	}
	// canonical signer order, so all validators aggregate identically
	sort.Slice(signerIDs, func(i, j int) bool {
		return signerIDs[i].String() < signerIDs[j].String()
	})
	sigs := make([]model.Signature, 0, len(signerIDs))
	for _, signerID := range signerIDs {
		sigs = append(sigs, votes[signerID].Sig)
	}

	aggSig, err := c.aggregator.Aggregate(signerIDs, sigs)
	if err != nil {
		return nil, fmt.Errorf("could not aggregate %d signature shares: %w", len(sigs), err)
	}
	qc, err := model.NewQuorumCert(model.UntrustedQuorumCert{
		VoteData: voteData,
		SignedLedgerInfo: model.SignedLedgerInfo{
			LedgerInfoDigest: voteData.LedgerInfoDigest(),
			AggregatedSig:    *aggSig,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not construct quorum certificate: %w", err)
	}
	return qc, nil
}

// ensureVoteForRound verifies that the vote belongs to the epoch and
// round this collector is responsible for.
func (c *VoteCollector) ensureVoteForRound(vote *model.Vote) error {
	if vote.Epoch() != c.epoch {
		return fmt.Errorf("expecting vote for epoch %d, but vote's epoch is %d: %w", c.epoch, vote.Epoch(), VoteForIncompatibleEpochError)
	}
	if vote.Round() != c.round {
		return fmt.Errorf("expecting vote for round %d, but vote's round is %d: %w", c.round, vote.Round(), VoteForIncompatibleRoundError)
	}
	return nil
}
