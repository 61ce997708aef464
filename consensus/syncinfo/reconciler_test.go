package syncinfo

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lodestone-bft/lodestone/consensus"
	"github.com/lodestone-bft/lodestone/consensus/committees"
	"github.com/lodestone-bft/lodestone/consensus/helper"
	"github.com/lodestone-bft/lodestone/consensus/mocks"
	"github.com/lodestone-bft/lodestone/model"
)

func TestReconciler(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

// ReconcilerSuite runs the reconciler against a committee of four
// validators with unit voting power, so the quorum threshold is 3.
type ReconcilerSuite struct {
	suite.Suite

	validators []model.Identifier
	committee  consensus.Committee
	notifier   *mocks.Consumer
	reconciler *Reconciler
}

func (s *ReconcilerSuite) SetupTest() {
	s.validators = helper.IdentifierListFixture(4)
	weights := make(map[model.Identifier]uint64)
	for _, id := range s.validators {
		weights[id] = 1
	}
	var err error
	s.committee, err = committees.NewStatic(s.validators[0], 1, weights)
	require.NoError(s.T(), err)

	s.notifier = mocks.NewConsumer(s.T())
	s.reconciler, err = NewReconciler(zerolog.Nop(), s.committee, helper.NewFakeVerifier(), s.notifier)
	require.NoError(s.T(), err)
}

// syncInfoAt returns a verifiable sync info whose highest quorum and
// commit certificates both certify the given round.
func (s *ReconcilerSuite) syncInfoAt(round uint64) *model.SyncInfo {
	qc := helper.FakeQC(helper.MakeVoteData(helper.WithVoteDataRound(round)), s.validators[:3])
	return &model.SyncInfo{
		HighestQuorumCert: qc,
		HighestCommitCert: qc,
	}
}

func (s *ReconcilerSuite) TestUpToDate() {
	action, err := s.reconciler.Compare(s.syncInfoAt(10), s.syncInfoAt(10))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), UpToDate, action.Kind)
}

func (s *ReconcilerSuite) TestNeedsCatchUp() {
	s.notifier.On("OnCatchUpRequired", uint64(10), uint64(15)).Once()
	action, err := s.reconciler.Compare(s.syncInfoAt(10), s.syncInfoAt(15))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), NeedsCatchUp, action.Kind)
	assert.Equal(s.T(), uint64(15), action.TargetRound)
}

func (s *ReconcilerSuite) TestStale() {
	action, err := s.reconciler.Compare(s.syncInfoAt(10), s.syncInfoAt(7))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), Stale, action.Kind)
}

// TestTimeoutCertRaisesTarget verifies that a remote timeout
// certificate beyond the certified rounds drives the catch-up target.
func (s *ReconcilerSuite) TestTimeoutCertRaisesTarget() {
	remote := s.syncInfoAt(10)
	remote.HighestTimeoutCert = helper.FakeTC(1, 14, s.validators[:3])

	s.notifier.On("OnCatchUpRequired", uint64(10), uint64(14)).Once()
	action, err := s.reconciler.Compare(s.syncInfoAt(10), remote)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), NeedsCatchUp, action.Kind)
	assert.Equal(s.T(), uint64(14), action.TargetRound)
}

// TestStructurallyInconsistentRemote verifies that malformed remote
// records are rejected before any round comparison happens.
func (s *ReconcilerSuite) TestStructurallyInconsistentRemote() {
	local := s.syncInfoAt(10)

	s.Run("nil sync info", func() {
		_, err := s.reconciler.Compare(local, nil)
		require.Error(s.T(), err)
		assert.True(s.T(), model.IsInvalidSyncInfoError(err))
	})

	s.Run("missing certificates", func() {
		_, err := s.reconciler.Compare(local, &model.SyncInfo{})
		require.Error(s.T(), err)
		assert.True(s.T(), model.IsInvalidSyncInfoError(err))
	})

	s.Run("commit round above certified round", func() {
		remote := &model.SyncInfo{
			HighestQuorumCert: helper.FakeQC(helper.MakeVoteData(helper.WithVoteDataRound(10)), s.validators[:3]),
			HighestCommitCert: helper.FakeQC(helper.MakeVoteData(helper.WithVoteDataRound(11)), s.validators[:3]),
		}
		_, err := s.reconciler.Compare(local, remote)
		require.Error(s.T(), err)
		assert.True(s.T(), model.IsInvalidSyncInfoError(err))
	})
}

// TestRemoteBelowQuorum verifies that remote certificates without a
// quorum of signatures are rejected even when structurally sound.
func (s *ReconcilerSuite) TestRemoteBelowQuorum() {
	qc := helper.FakeQC(helper.MakeVoteData(helper.WithVoteDataRound(15)), s.validators[:2])
	remote := &model.SyncInfo{HighestQuorumCert: qc, HighestCommitCert: qc}

	_, err := s.reconciler.Compare(s.syncInfoAt(10), remote)
	require.Error(s.T(), err)
	assert.True(s.T(), model.IsInvalidSyncInfoError(err))
}

// TestInvalidRemoteTimeoutCert verifies that a bad remote timeout
// certificate poisons the whole record.
func (s *ReconcilerSuite) TestInvalidRemoteTimeoutCert() {
	remote := s.syncInfoAt(10)
	remote.HighestTimeoutCert = helper.MakeTC(helper.WithTCRound(14))

	_, err := s.reconciler.Compare(s.syncInfoAt(10), remote)
	require.Error(s.T(), err)
	assert.True(s.T(), model.IsInvalidSyncInfoError(err))
}

// TestVerifiedCache verifies that a certificate that already passed
// verification is accepted again without error on the cached path.
func (s *ReconcilerSuite) TestVerifiedCache() {
	remote := s.syncInfoAt(10)
	for i := 0; i < 2; i++ {
		action, err := s.reconciler.Compare(s.syncInfoAt(10), remote)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), UpToDate, action.Kind)
	}
}
