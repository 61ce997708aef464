// Package timeoutcollector aggregates timeout votes into timeout
// certificates. It mirrors the vote collector, except that timeout
// votes carry no block reference: one collector handles exactly one
// (epoch, round) and all timeout votes for that key sign the same
// statement.
package timeoutcollector

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
	// TimeoutForIncompatibleRoundError is a sentinel returned when a
	// timeout vote is submitted to a collector handling a different round.
	TimeoutForIncompatibleRoundError = errors.New("timeout vote for incompatible round")
	// TimeoutForIncompatibleEpochError is a sentinel returned when a
	// timeout vote is submitted to a collector handling a different epoch.
	TimeoutForIncompatibleEpochError = errors.New("timeout vote for incompatible epoch")
)

// TimeoutCollector collects timeout votes for one (epoch, round) and
// emits a timeout certificate exactly once when the accumulated voting
// power reaches the quorum threshold.
//
// Safe for concurrent use.
type TimeoutCollector struct {
	log        zerolog.Logger
	epoch      uint64
	round      uint64
	threshold  uint64
	digest     model.Identifier
	committee  consensus.Committee
	verifier   consensus.Verifier
	aggregator consensus.SignatureAggregator
	notifier   notifications.Consumer
	metrics    metrics.ConsensusMetrics

	mu      sync.Mutex
	done    atomic.Bool
	votes   map[model.Identifier]*model.TimeoutVote
	weight  uint64
	builtTC *model.TimeoutCert
}

// NewTimeoutCollector creates a timeout collector for the given epoch and round.
func NewTimeoutCollector(
	log zerolog.Logger,
	epoch uint64,
	round uint64,
	committee consensus.Committee,
	verifier consensus.Verifier,
	aggregator consensus.SignatureAggregator,
	notifier notifications.Consumer,
	collectorMetrics metrics.ConsensusMetrics,
) (*TimeoutCollector, error) {
	// round 0 timeout certificates are unconstructible, so a collector
	// for them could only ever wedge
	if round == 0 {
		return nil, fmt.Errorf("round 0 cannot time out")
	}
	threshold, err := committee.QuorumThreshold(epoch)
	if err != nil {
		return nil, fmt.Errorf("could not determine quorum threshold for epoch %d: %w", epoch, err)
	}
	return &TimeoutCollector{
		log: log.With().
			Str("component", "timeout_collector").
			Uint64("epoch", epoch).
			Uint64("round", round).
			Logger(),
		epoch:      epoch,
		round:      round,
		threshold:  threshold,
		digest:     model.TimeoutSigningDigest(epoch, round),
		committee:  committee,
		verifier:   verifier,
		aggregator: aggregator,
		notifier:   notifier,
		metrics:    collectorMetrics,
		votes:      make(map[model.Identifier]*model.TimeoutVote),
	}, nil
}

// Epoch returns the epoch this collector is handling.
func (c *TimeoutCollector) Epoch() uint64 { return c.epoch }

// Round returns the round this collector is handling.
func (c *TimeoutCollector) Round() uint64 { return c.round }

// AddTimeout verifies and accumulates one timeout vote. Once the
// accumulated voting power reaches the quorum threshold the timeout
// certificate is returned; this happens at most once per collector,
// all later calls are no-ops. Duplicate votes from the same author are
// idempotent and never counted twice.
//
// Expected error returns during normal operations:
//   - TimeoutForIncompatibleEpochError / TimeoutForIncompatibleRoundError
//     if the vote does not belong to this collector
//   - model.InvalidSignerError if the author has no voting power
//   - model.InvalidTimeoutVoteError if the signature does not verify
func (c *TimeoutCollector) AddTimeout(tv *model.TimeoutVote) (*model.TimeoutCert, error) {
	if tv.Epoch != c.epoch {
		return nil, fmt.Errorf("expecting timeout vote for epoch %d, but vote's epoch is %d: %w", c.epoch, tv.Epoch, TimeoutForIncompatibleEpochError)
	}
	if tv.Round != c.round {
		return nil, fmt.Errorf("expecting timeout vote for round %d, but vote's round is %d: %w", c.round, tv.Round, TimeoutForIncompatibleRoundError)
	}
	if c.done.Load() {
		return nil, nil
	}

	power, err := c.committee.VotingPower(c.epoch, tv.AuthorID)
	if err != nil {
		if model.IsInvalidSignerError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("could not determine voting power of %x: %w", tv.AuthorID, err)
	}
	err = c.verifier.Verify(tv.AuthorID, c.digest.Bytes(), tv.Sig)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSignature) {
			return nil, model.NewInvalidTimeoutVoteErrorf(tv, "signature rejected: %w", err)
		}
		return nil, fmt.Errorf("could not verify timeout vote signature: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done.Load() {
		return nil, nil
	}
	if _, voted := c.votes[tv.AuthorID]; voted {
		// duplicate, idempotent no-op
		return nil, nil
	}
	c.votes[tv.AuthorID] = tv
	c.weight += power
	c.metrics.TimeoutProcessed()

	c.log.Debug().
		Hex("author_id", tv.AuthorID.Bytes()).
		Uint64("accumulated_weight", c.weight).
		Uint64("threshold", c.threshold).
		Msg("timeout vote processed")

	if c.weight < c.threshold {
		return nil, nil
	}
	if !c.done.CompareAndSwap(false, true) {
		return nil, nil
	}

	tc, err := c.buildTC()
	if err != nil {
		return nil, fmt.Errorf("could not build timeout certificate: %w", err)
	}
	c.builtTC = tc
	c.notifier.OnTimeoutCertCreated(tc)
	c.metrics.TimeoutCertCreated()
	return tc, nil
}

// BuiltTC returns the certificate this collector emitted, or nil if no
// quorum has been reached yet.
func (c *TimeoutCollector) BuiltTC() *model.TimeoutCert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builtTC
}

// buildTC aggregates the accumulated signature shares into a timeout
// certificate. Caller must hold the lock.
func (c *TimeoutCollector) buildTC() (*model.TimeoutCert, error) {
	signerIDs := make([]model.Identifier, 0, len(c.votes))
	for signerID := range c.votes {
		signerIDs = append(signerIDs, signerID)
	}
	sort.Slice(signerIDs, func(i, j int) bool {
		return signerIDs[i].String() < signerIDs[j].String()
	})
	sigs := make([]model.Signature, 0, len(signerIDs))
	for _, signerID := range signerIDs {
		sigs = append(sigs, c.votes[signerID].Sig)
	}

	aggSig, err := c.aggregator.Aggregate(signerIDs, sigs)
	if err != nil {
		return nil, fmt.Errorf("could not aggregate %d signature shares: %w", len(sigs), err)
	}
	tc, err := model.NewTimeoutCert(model.UntrustedTimeoutCert{
		Epoch:         c.epoch,
		Round:         c.round,
		AggregatedSig: *aggSig,
	})
	if err != nil {
		return nil, fmt.Errorf("could not construct timeout certificate: %w", err)
	}
	return tc, nil
}
