package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-bft/lodestone/consensus/helper"
	"github.com/lodestone-bft/lodestone/model"
)

// TestNewBlock verifies the constructor validation of proposed blocks:
// a block must reference a parent certificate from its own epoch and
// advance beyond the certified round, and its ID is derived from the
// content.
func TestNewBlock(t *testing.T) {
	qc := helper.MakeQC(helper.WithQCRound(9), helper.WithQCEpoch(1))
	valid := model.UntrustedBlock{
		Epoch:     1,
		Round:     10,
		Timestamp: 1700000000000,
		Payload:   []byte("txns"),
		AuthorID:  helper.IdentifierFixture(),
		QC:        qc,
	}

	t.Run("valid input", func(t *testing.T) {
		block, err := model.NewBlock(valid)
		require.NoError(t, err)
		require.NotNil(t, block)
		assert.NotEqual(t, model.ZeroID, block.BlockID)
	})

	t.Run("identical content yields identical ID", func(t *testing.T) {
		b1, err := model.NewBlock(valid)
		require.NoError(t, err)
		b2, err := model.NewBlock(valid)
		require.NoError(t, err)
		assert.Equal(t, b1.BlockID, b2.BlockID)
	})

	t.Run("different payload yields different ID", func(t *testing.T) {
		b1, err := model.NewBlock(valid)
		require.NoError(t, err)
		other := valid
		other.Payload = []byte("different")
		b2, err := model.NewBlock(other)
		require.NoError(t, err)
		assert.NotEqual(t, b1.BlockID, b2.BlockID)
	})

	t.Run("nil QC", func(t *testing.T) {
		untrusted := valid
		untrusted.QC = nil
		block, err := model.NewBlock(untrusted)
		require.Error(t, err)
		require.Nil(t, block)
	})

	t.Run("epoch mismatch with certificate", func(t *testing.T) {
		untrusted := valid
		untrusted.Epoch = 2
		block, err := model.NewBlock(untrusted)
		require.Error(t, err)
		require.Nil(t, block)
	})

	t.Run("round not beyond certified round", func(t *testing.T) {
		untrusted := valid
		untrusted.Round = 9
		block, err := model.NewBlock(untrusted)
		require.Error(t, err)
		require.Nil(t, block)
	})

	t.Run("empty author", func(t *testing.T) {
		untrusted := valid
		untrusted.AuthorID = model.ZeroID
		block, err := model.NewBlock(untrusted)
		require.Error(t, err)
		require.Nil(t, block)
	})
}

// TestGenesisBlock verifies that the root block has round 0, no parent
// certificate and a deterministic ID per epoch.
func TestGenesisBlock(t *testing.T) {
	genesis := model.GenesisBlock(1)
	assert.Equal(t, uint64(0), genesis.Round)
	assert.Nil(t, genesis.QC)
	assert.Equal(t, genesis.BlockID, model.GenesisBlock(1).BlockID)
	assert.NotEqual(t, genesis.BlockID, model.GenesisBlock(2).BlockID)
}
