package votecollector

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lodestone-bft/lodestone/consensus"
	"github.com/lodestone-bft/lodestone/consensus/committees"
	"github.com/lodestone-bft/lodestone/consensus/helper"
	"github.com/lodestone-bft/lodestone/consensus/mocks"
	"github.com/lodestone-bft/lodestone/consensus/notifications"
	"github.com/lodestone-bft/lodestone/metrics"
	"github.com/lodestone-bft/lodestone/model"
)

func TestVoteCollector(t *testing.T) {
	suite.Run(t, new(VoteCollectorSuite))
}

// VoteCollectorSuite runs the collector against a committee of four
// validators with unit voting power, so the quorum threshold is 3.
type VoteCollectorSuite struct {
	suite.Suite

	validators []model.Identifier
	committee  consensus.Committee
	notifier   *mocks.Consumer
	voteData   model.VoteData
	collector  *VoteCollector
}

func (s *VoteCollectorSuite) SetupTest() {
	s.validators = helper.IdentifierListFixture(4)
	weights := make(map[model.Identifier]uint64)
	for _, id := range s.validators {
		weights[id] = 1
	}
	var err error
	s.committee, err = committees.NewStatic(s.validators[0], 1, weights)
	require.NoError(s.T(), err)

	s.notifier = mocks.NewConsumer(s.T())
	s.voteData = helper.MakeVoteData(helper.WithVoteDataRound(10))

	s.collector, err = NewVoteCollector(
		zerolog.Nop(),
		1,
		10,
		s.committee,
		helper.NewFakeVerifier(),
		helper.NewFakeAggregator(),
		s.notifier,
		metrics.NewNoopCollector(),
	)
	require.NoError(s.T(), err)
}

// vote returns a verifiable vote by the i-th validator over the suite's
// vote data.
func (s *VoteCollectorSuite) vote(i int) *model.Vote {
	return helper.FakeVote(s.voteData, s.validators[i])
}

// TestQuorumAtThreshold verifies that the certificate is emitted on
// exactly the vote that reaches the threshold, and that the certificate
// verifies against the committee.
func (s *VoteCollectorSuite) TestQuorumAtThreshold() {
	qc, err := s.collector.AddVote(s.vote(0))
	require.NoError(s.T(), err)
	require.Nil(s.T(), qc)
	require.Nil(s.T(), s.collector.BuiltQC())

	qc, err = s.collector.AddVote(s.vote(1))
	require.NoError(s.T(), err)
	require.Nil(s.T(), qc)

	s.notifier.On("OnQuorumCertCreated", mock.AnythingOfType("*model.QuorumCert")).Once()
	qc, err = s.collector.AddVote(s.vote(2))
	require.NoError(s.T(), err)
	require.NotNil(s.T(), qc)

	assert.Equal(s.T(), s.voteData, qc.VoteData)
	assert.Equal(s.T(), uint64(10), qc.CertifiedRound())
	assert.Equal(s.T(), 3, qc.SignedLedgerInfo.AggregatedSig.CardinalitySignerSet())
	assert.Equal(s.T(), qc, s.collector.BuiltQC())
	require.NoError(s.T(), consensus.VerifyQuorumCert(qc, s.committee, helper.NewFakeVerifier()))
}

// TestLateVoteAfterQuorum verifies that votes arriving after the
// certificate was emitted are no-ops.
func (s *VoteCollectorSuite) TestLateVoteAfterQuorum() {
	s.notifier.On("OnQuorumCertCreated", mock.AnythingOfType("*model.QuorumCert")).Once()
	for i := 0; i < 3; i++ {
		_, err := s.collector.AddVote(s.vote(i))
		require.NoError(s.T(), err)
	}
	qc, err := s.collector.AddVote(s.vote(3))
	require.NoError(s.T(), err)
	require.Nil(s.T(), qc)
}

// TestDuplicateVote verifies that resubmitting the identical vote is an
// idempotent no-op and does not double-count voting power.
func (s *VoteCollectorSuite) TestDuplicateVote() {
	vote := s.vote(0)
	for i := 0; i < 3; i++ {
		qc, err := s.collector.AddVote(vote)
		require.NoError(s.T(), err)
		require.Nil(s.T(), qc)
	}
	require.Nil(s.T(), s.collector.BuiltQC())
}

// TestEquivocatingVote verifies that a second vote by the same author
// for different vote data is rejected, reported and never counted.
func (s *VoteCollectorSuite) TestEquivocatingVote() {
	first := s.vote(0)
	_, err := s.collector.AddVote(first)
	require.NoError(s.T(), err)

	otherData := helper.MakeVoteData(helper.WithVoteDataRound(10))
	conflicting := helper.FakeVote(otherData, s.validators[0])

	s.notifier.On("OnDoubleVoteDetected", first, conflicting).Once()
	qc, err := s.collector.AddVote(conflicting)
	require.Error(s.T(), err)
	require.Nil(s.T(), qc)
	require.True(s.T(), model.IsEquivocatingVoteError(err))

	evidence, ok := model.AsEquivocatingVoteError(err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), first, evidence.FirstVote)
	assert.Equal(s.T(), conflicting, evidence.ConflictingVote)
}

// TestEquivocationAfterQuorum verifies that double-vote detection
// stays active for the collector's whole lifetime: a conflicting vote
// arriving after the certificate formed is still rejected and reported,
// whether the author voted before the quorum or after it.
func (s *VoteCollectorSuite) TestEquivocationAfterQuorum() {
	s.notifier.On("OnQuorumCertCreated", mock.AnythingOfType("*model.QuorumCert")).Once()
	for i := 0; i < 3; i++ {
		_, err := s.collector.AddVote(s.vote(i))
		require.NoError(s.T(), err)
	}
	require.NotNil(s.T(), s.collector.BuiltQC())

	// a late supporting vote remains a no-op
	lateVote := s.vote(3)
	qc, err := s.collector.AddVote(lateVote)
	require.NoError(s.T(), err)
	require.Nil(s.T(), qc)

	// validator 0 voted before the quorum formed and now contradicts itself
	otherData := helper.MakeVoteData(helper.WithVoteDataRound(10))
	conflicting := helper.FakeVote(otherData, s.validators[0])
	s.notifier.On("OnDoubleVoteDetected", s.vote(0), conflicting).Once()
	qc, err = s.collector.AddVote(conflicting)
	require.Error(s.T(), err)
	require.Nil(s.T(), qc)
	require.True(s.T(), model.IsEquivocatingVoteError(err))

	// validator 3 only voted after the quorum formed; its conflicting
	// vote is evidence all the same
	lateConflicting := helper.FakeVote(otherData, s.validators[3])
	s.notifier.On("OnDoubleVoteDetected", lateVote, lateConflicting).Once()
	qc, err = s.collector.AddVote(lateConflicting)
	require.Error(s.T(), err)
	require.Nil(s.T(), qc)
	require.True(s.T(), model.IsEquivocatingVoteError(err))
}

// TestInvalidSignature verifies that a vote with a bad signature is
// rejected as invalid and contributes no power.
func (s *VoteCollectorSuite) TestInvalidSignature() {
	vote := s.vote(0)
	vote.Sig = helper.SignatureFixture()
	qc, err := s.collector.AddVote(vote)
	require.Error(s.T(), err)
	require.Nil(s.T(), qc)
	require.True(s.T(), model.IsInvalidVoteError(err))
}

// TestUnknownSigner verifies that votes from outside the committee are
// rejected with InvalidSignerError.
func (s *VoteCollectorSuite) TestUnknownSigner() {
	vote := helper.FakeVote(s.voteData, helper.IdentifierFixture())
	qc, err := s.collector.AddVote(vote)
	require.Error(s.T(), err)
	require.Nil(s.T(), qc)
	require.True(s.T(), model.IsInvalidSignerError(err))
}

// TestIncompatibleVote verifies the round and epoch guards.
func (s *VoteCollectorSuite) TestIncompatibleVote() {
	wrongRound := helper.FakeVote(helper.MakeVoteData(helper.WithVoteDataRound(11)), s.validators[0])
	_, err := s.collector.AddVote(wrongRound)
	require.ErrorIs(s.T(), err, VoteForIncompatibleRoundError)

	wrongEpoch := helper.FakeVote(
		helper.MakeVoteData(helper.WithVoteDataRound(10), helper.WithVoteDataEpoch(2)),
		s.validators[0],
	)
	_, err = s.collector.AddVote(wrongEpoch)
	require.ErrorIs(s.T(), err, VoteForIncompatibleEpochError)
}

// TestSplitVotes verifies that votes for different proposals in the
// same round accumulate separately and neither side reaches quorum with
// only two supporters each.
func (s *VoteCollectorSuite) TestSplitVotes() {
	otherData := helper.MakeVoteData(helper.WithVoteDataRound(10))
	for i, vd := range []model.VoteData{s.voteData, s.voteData, otherData, otherData} {
		qc, err := s.collector.AddVote(helper.FakeVote(vd, s.validators[i]))
		require.NoError(s.T(), err)
		require.Nil(s.T(), qc)
	}
	require.Nil(s.T(), s.collector.BuiltQC())
}

// TestConcurrentVotes verifies that concurrent submission emits exactly
// one certificate.
func (s *VoteCollectorSuite) TestConcurrentVotes() {
	s.notifier.On("OnQuorumCertCreated", mock.AnythingOfType("*model.QuorumCert")).Once()

	var wg sync.WaitGroup
	results := make(chan *model.QuorumCert, len(s.validators))
	for i := range s.validators {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			qc, err := s.collector.AddVote(s.vote(i))
			assert.NoError(s.T(), err)
			if qc != nil {
				results <- qc
			}
		}(i)
	}
	wg.Wait()
	close(results)

	built := 0
	for range results {
		built++
	}
	assert.Equal(s.T(), 1, built)
	require.NotNil(s.T(), s.collector.BuiltQC())
}

// TestVoteCollectors verifies the registry's lazy creation and pruning.
func TestVoteCollectors(t *testing.T) {
	ids := helper.IdentifierListFixture(4)
	weights := make(map[model.Identifier]uint64)
	for _, id := range ids {
		weights[id] = 1
	}
	committee, err := committees.NewStatic(ids[0], 1, weights)
	require.NoError(t, err)

	registry := NewVoteCollectors(
		zerolog.Nop(),
		committee,
		helper.NewFakeVerifier(),
		helper.NewFakeAggregator(),
		notifications.NewNoopConsumer(),
		metrics.NewNoopCollector(),
	)

	collector, created, err := registry.GetOrCreate(1, 10)
	require.NoError(t, err)
	require.True(t, created)
	require.NotNil(t, collector)

	same, created, err := registry.GetOrCreate(1, 10)
	require.NoError(t, err)
	require.False(t, created)
	assert.Same(t, collector, same)

	registry.PruneUpToRound(11)
	_, _, err = registry.GetOrCreate(1, 10)
	require.ErrorIs(t, err, ErrRoundBelowPruned)

	// the threshold never decreases
	registry.PruneUpToRound(5)
	_, _, err = registry.GetOrCreate(1, 10)
	require.ErrorIs(t, err, ErrRoundBelowPruned)

	_, created, err = registry.GetOrCreate(1, 11)
	require.NoError(t, err)
	require.True(t, created)
}
