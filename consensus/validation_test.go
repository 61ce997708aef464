package consensus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-bft/lodestone/consensus"
	"github.com/lodestone-bft/lodestone/consensus/committees"
	"github.com/lodestone-bft/lodestone/consensus/helper"
	"github.com/lodestone-bft/lodestone/model"
)

// newCommittee returns a committee of n validators with unit voting
// power in epoch 1, together with their identifiers.
func newCommittee(t *testing.T, n int) (*committees.Static, []model.Identifier) {
	ids := helper.IdentifierListFixture(n)
	weights := make(map[model.Identifier]uint64, n)
	for _, id := range ids {
		weights[id] = 1
	}
	committee, err := committees.NewStatic(ids[0], 1, weights)
	require.NoError(t, err)
	return committee, ids
}

// TestVerifyQuorumCert verifies certificate validation against the
// validator set: signer membership, quorum power and the aggregated
// signature over the ledger info digest.
func TestVerifyQuorumCert(t *testing.T) {
	committee, ids := newCommittee(t, 4) // threshold 3
	verifier := helper.NewFakeVerifier()
	vd := helper.MakeVoteData()

	t.Run("valid certificate", func(t *testing.T) {
		qc := helper.FakeQC(vd, ids[:3])
		require.NoError(t, consensus.VerifyQuorumCert(qc, committee, verifier))
	})

	t.Run("nil certificate", func(t *testing.T) {
		err := consensus.VerifyQuorumCert(nil, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidQuorumCertError(err))
	})

	t.Run("insufficient power", func(t *testing.T) {
		qc := helper.FakeQC(vd, ids[:2])
		err := consensus.VerifyQuorumCert(qc, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidQuorumCertError(err))
	})

	t.Run("duplicate signers count once", func(t *testing.T) {
		signers := []model.Identifier{ids[0], ids[1], ids[0], ids[1]}
		qc := helper.FakeQC(vd, signers)
		err := consensus.VerifyQuorumCert(qc, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidQuorumCertError(err))
	})

	t.Run("unknown signer", func(t *testing.T) {
		signers := append([]model.Identifier{helper.IdentifierFixture()}, ids[:2]...)
		qc := helper.FakeQC(vd, signers)
		err := consensus.VerifyQuorumCert(qc, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidQuorumCertError(err))
	})

	t.Run("invalid aggregated signature", func(t *testing.T) {
		qc := helper.FakeQC(vd, ids[:3])
		qc.SignedLedgerInfo.AggregatedSig.SigData = helper.SignatureFixture()
		err := consensus.VerifyQuorumCert(qc, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidQuorumCertError(err))
	})

	t.Run("malformed certificate", func(t *testing.T) {
		qc := helper.FakeQC(vd, ids[:3])
		qc.SignedLedgerInfo.LedgerInfoDigest = helper.IdentifierFixture()
		err := consensus.VerifyQuorumCert(qc, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidQuorumCertError(err))
	})

	t.Run("genesis certificate accepted without signatures", func(t *testing.T) {
		genesis := model.GenesisQuorumCert(1, helper.IdentifierFixture())
		require.NoError(t, consensus.VerifyQuorumCert(genesis, committee, verifier))
	})

	t.Run("forged genesis certificate rejected", func(t *testing.T) {
		// only the canonical root block of the epoch may appear at round 0
		forged := model.GenesisQuorumCert(1, helper.IdentifierFixture())
		forged.VoteData.Proposed.BlockID = helper.IdentifierFixture()
		forged.VoteData.Parent = forged.VoteData.Proposed
		forged.SignedLedgerInfo.LedgerInfoDigest = forged.VoteData.LedgerInfoDigest()
		err := consensus.VerifyQuorumCert(forged, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidQuorumCertError(err))
	})

	t.Run("genesis certificate with signers rejected", func(t *testing.T) {
		genesis := model.GenesisQuorumCert(1, helper.IdentifierFixture())
		genesis.SignedLedgerInfo.AggregatedSig = model.AggregatedSignature{
			SignerIDs: ids[:3],
			SigData:   helper.SignatureFixture(),
		}
		err := consensus.VerifyQuorumCert(genesis, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidQuorumCertError(err))
	})
}

// TestVerifyTimeoutCert verifies timeout certificate validation, with
// the aggregated signature covering the (epoch, round) statement.
func TestVerifyTimeoutCert(t *testing.T) {
	committee, ids := newCommittee(t, 4)
	verifier := helper.NewFakeVerifier()

	t.Run("valid certificate", func(t *testing.T) {
		tc := helper.FakeTC(1, 10, ids[:3])
		require.NoError(t, consensus.VerifyTimeoutCert(tc, committee, verifier))
	})

	t.Run("nil certificate", func(t *testing.T) {
		err := consensus.VerifyTimeoutCert(nil, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidTimeoutCertError(err))
	})

	t.Run("insufficient power", func(t *testing.T) {
		tc := helper.FakeTC(1, 10, ids[:2])
		err := consensus.VerifyTimeoutCert(tc, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidTimeoutCertError(err))
	})

	t.Run("round 0 rejected", func(t *testing.T) {
		tc := helper.FakeTC(1, 0, ids[:3])
		err := consensus.VerifyTimeoutCert(tc, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidTimeoutCertError(err))
	})

	t.Run("signature over wrong round rejected", func(t *testing.T) {
		tc := helper.FakeTC(1, 10, ids[:3])
		tc.Round = 11
		err := consensus.VerifyTimeoutCert(tc, committee, verifier)
		require.Error(t, err)
		assert.True(t, model.IsInvalidTimeoutCertError(err))
	})
}
