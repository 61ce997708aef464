package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-bft/lodestone/consensus/helper"
	"github.com/lodestone-bft/lodestone/model"
)

// TestNewVoteData verifies the invariant that a vote's parent round is
// strictly below its proposed round within one epoch.
func TestNewVoteData(t *testing.T) {
	proposed := helper.MakeBlockInfo(helper.WithBlockInfoRound(10))
	parent := helper.MakeBlockInfo(helper.WithBlockInfoRound(9))

	t.Run("valid input", func(t *testing.T) {
		vd, err := model.NewVoteData(proposed, parent)
		require.NoError(t, err)
		assert.Equal(t, proposed, vd.Proposed)
		assert.Equal(t, parent, vd.Parent)
	})

	t.Run("parent round not below proposed round", func(t *testing.T) {
		_, err := model.NewVoteData(proposed, helper.MakeBlockInfo(helper.WithBlockInfoRound(10)))
		require.Error(t, err)
		_, err = model.NewVoteData(proposed, helper.MakeBlockInfo(helper.WithBlockInfoRound(11)))
		require.Error(t, err)
	})

	t.Run("epoch mismatch", func(t *testing.T) {
		wrongEpoch := helper.MakeBlockInfo(helper.WithBlockInfoRound(9), helper.WithBlockInfoEpoch(2))
		_, err := model.NewVoteData(proposed, wrongEpoch)
		require.Error(t, err)
	})

	t.Run("empty proposed block ID", func(t *testing.T) {
		zeroID := helper.MakeBlockInfo(helper.WithBlockInfoRound(10), helper.WithBlockInfoID(model.ZeroID))
		_, err := model.NewVoteData(zeroID, parent)
		require.Error(t, err)
	})
}

// TestNewVote verifies the structural validation of votes, in
// particular that the signed ledger info digest is bound to the vote data.
func TestNewVote(t *testing.T) {
	vd := helper.MakeVoteData()
	valid := model.UntrustedVote{
		VoteData:         vd,
		AuthorID:         helper.IdentifierFixture(),
		LedgerInfoDigest: vd.LedgerInfoDigest(),
		Sig:              helper.SignatureFixture(),
	}

	t.Run("valid input", func(t *testing.T) {
		vote, err := model.NewVote(valid)
		require.NoError(t, err)
		require.NotNil(t, vote)
	})

	t.Run("empty author", func(t *testing.T) {
		untrusted := valid
		untrusted.AuthorID = model.ZeroID
		_, err := model.NewVote(untrusted)
		require.Error(t, err)
	})

	t.Run("empty signature", func(t *testing.T) {
		untrusted := valid
		untrusted.Sig = nil
		_, err := model.NewVote(untrusted)
		require.Error(t, err)
	})

	t.Run("digest not matching vote data", func(t *testing.T) {
		untrusted := valid
		untrusted.LedgerInfoDigest = helper.IdentifierFixture()
		_, err := model.NewVote(untrusted)
		require.Error(t, err)
	})
}

// TestTimeoutSigningDigest verifies that timeout statements for
// different rounds or epochs sign different digests.
func TestTimeoutSigningDigest(t *testing.T) {
	d := model.TimeoutSigningDigest(1, 10)
	assert.Equal(t, d, model.TimeoutSigningDigest(1, 10))
	assert.NotEqual(t, d, model.TimeoutSigningDigest(1, 11))
	assert.NotEqual(t, d, model.TimeoutSigningDigest(2, 10))
}

// TestLedgerInfoDigest verifies that the signed digest changes with
// both the consensus data and the executed state.
func TestLedgerInfoDigest(t *testing.T) {
	vd := helper.MakeVoteData()
	digest := vd.LedgerInfoDigest()

	other := vd
	other.Proposed.StateDigest = helper.IdentifierFixture()
	assert.NotEqual(t, digest, other.LedgerInfoDigest())

	other = vd
	other.Proposed.Round++
	assert.NotEqual(t, digest, other.LedgerInfoDigest())
}
