package votecollector

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lodestone-bft/lodestone/consensus"
	"github.com/lodestone-bft/lodestone/consensus/notifications"
	"github.com/lodestone-bft/lodestone/metrics"
)

// ErrRoundBelowPruned is a sentinel returned when a collector is
// requested for a round that has already been pruned.
var ErrRoundBelowPruned = errors.New("round below lowest retained round")

type collectorKey struct {
	epoch uint64
	round uint64
}

// VoteCollectors owns the transient per-round vote collectors. Entries
// are created lazily on first use and discarded when the caller prunes
// rounds that can no longer produce useful certificates.
type VoteCollectors struct {
	log        zerolog.Logger
	committee  consensus.Committee
	verifier   consensus.Verifier
	aggregator consensus.SignatureAggregator
	notifier   notifications.Consumer
	metrics    metrics.ConsensusMetrics

	mu                  sync.Mutex
	lowestRetainedRound uint64
	collectors          map[collectorKey]*VoteCollector
}

// NewVoteCollectors creates the collector registry.
func NewVoteCollectors(
	log zerolog.Logger,
	committee consensus.Committee,
	verifier consensus.Verifier,
	aggregator consensus.SignatureAggregator,
	notifier notifications.Consumer,
	collectorMetrics metrics.ConsensusMetrics,
) *VoteCollectors {
	return &VoteCollectors{
		log:        log,
		committee:  committee,
		verifier:   verifier,
		aggregator: aggregator,
		notifier:   notifier,
		metrics:    collectorMetrics,
		collectors: make(map[collectorKey]*VoteCollector),
	}
}

// GetOrCreate returns the collector for the given (epoch, round),
// creating it on first use. The second return value indicates whether
// the collector was created by this call.
//
// Expected error returns during normal operations:
//   - ErrRoundBelowPruned for rounds that have already been pruned
func (cs *VoteCollectors) GetOrCreate(epoch uint64, round uint64) (*VoteCollector, bool, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if round < cs.lowestRetainedRound {
		return nil, false, fmt.Errorf("requested round %d, lowest retained is %d: %w", round, cs.lowestRetainedRound, ErrRoundBelowPruned)
	}
	key := collectorKey{epoch: epoch, round: round}
	if collector, ok := cs.collectors[key]; ok {
		return collector, false, nil
	}
	collector, err := NewVoteCollector(cs.log, epoch, round, cs.committee, cs.verifier, cs.aggregator, cs.notifier, cs.metrics)
	if err != nil {
		return nil, false, fmt.Errorf("could not create vote collector for round %d: %w", round, err)
	}
	cs.collectors[key] = collector
	return collector, true, nil
}

// PruneUpToRound discards all collectors for rounds strictly below the
// given round. The pruning threshold never decreases.
func (cs *VoteCollectors) PruneUpToRound(round uint64) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if round <= cs.lowestRetainedRound {
		return
	}
	pruned := 0
	for key := range cs.collectors {
		if key.round < round {
			delete(cs.collectors, key)
			pruned++
		}
	}
	cs.lowestRetainedRound = round
	cs.log.Debug().
		Uint64("lowest_retained_round", round).
		Int("pruned_collectors", pruned).
		Msg("vote collectors pruned")
}
