package model

import (
	"fmt"
)

// BlockInfo is the compact description of a certified or to-be-certified
// block that is carried inside votes and certificates. The executed
// state digest is produced by the external execution collaborator and
// is opaque to this core beyond byte equality.
type BlockInfo struct {
	BlockID     Identifier
	Epoch       uint64
	Round       uint64
	StateDigest Identifier
	Timestamp   uint64
}

// Block is the consensus algorithm's concept of a proposed block: an
// immutable description of one unit of consensus, referencing the
// certificate of its parent. The payload is opaque to this core.
//
// Blocks are immutable once constructed; mutations are allowed only
// within the constructor.
type Block struct {
	BlockID   Identifier
	Epoch     uint64
	Round     uint64
	Timestamp uint64
	Payload   []byte
	AuthorID  Identifier
	QC        *QuorumCert
}

// blockBody is the hashed portion of a block. The block ID is the
// content hash of everything but itself.
type blockBody struct {
	Epoch     uint64
	Round     uint64
	Timestamp uint64
	Payload   []byte
	AuthorID  Identifier
	ParentID  Identifier
}

// UntrustedBlock is an untrusted input-only representation of a Block,
// used for construction with named fields. The BlockID field is
// ignored; the constructor derives it from the remaining fields.
type UntrustedBlock Block

// NewBlock validates the untrusted input, derives the content hash and
// returns an immutable Block.
//
// All errors indicate that a valid Block cannot be constructed from the input.
func NewBlock(untrusted UntrustedBlock) (*Block, error) {
	if untrusted.QC == nil {
		return nil, fmt.Errorf("QC must not be nil (only the genesis block has no parent certificate)")
	}
	if untrusted.Epoch != untrusted.QC.Epoch() {
		return nil, fmt.Errorf("block epoch (%d) must match parent certificate epoch (%d)", untrusted.Epoch, untrusted.QC.Epoch())
	}
	if untrusted.Round <= untrusted.QC.CertifiedRound() {
		return nil, fmt.Errorf("block round (%d) must be larger than certified parent round (%d)", untrusted.Round, untrusted.QC.CertifiedRound())
	}
	if untrusted.AuthorID == ZeroID {
		return nil, fmt.Errorf("AuthorID must not be empty")
	}

	block := &Block{
		Epoch:     untrusted.Epoch,
		Round:     untrusted.Round,
		Timestamp: untrusted.Timestamp,
		Payload:   untrusted.Payload,
		AuthorID:  untrusted.AuthorID,
		QC:        untrusted.QC,
	}
	block.BlockID = block.bodyID()
	return block, nil
}

// GenesisBlock returns the distinguished root block of an epoch: round
// zero, no parent certificate, no author and an empty payload.
func GenesisBlock(epoch uint64) *Block {
	block := &Block{
		Epoch: epoch,
		Round: 0,
	}
	block.BlockID = block.bodyID()
	return block
}

// GenesisBlockInfo returns the BlockInfo of the epoch's root block.
// The state digest is the root state the epoch starts from.
func GenesisBlockInfo(epoch uint64, stateDigest Identifier) BlockInfo {
	return GenesisBlock(epoch).BlockInfoFor(stateDigest)
}

func (b *Block) bodyID() Identifier {
	body := blockBody{
		Epoch:     b.Epoch,
		Round:     b.Round,
		Timestamp: b.Timestamp,
		Payload:   b.Payload,
		AuthorID:  b.AuthorID,
	}
	if b.QC != nil {
		body.ParentID = b.QC.BlockID()
	}
	return MakeID(body)
}

// BlockInfoFor returns the BlockInfo record describing this block,
// annotated with the digest of its executed state.
func (b *Block) BlockInfoFor(stateDigest Identifier) BlockInfo {
	return BlockInfo{
		BlockID:     b.BlockID,
		Epoch:       b.Epoch,
		Round:       b.Round,
		StateDigest: stateDigest,
		Timestamp:   b.Timestamp,
	}
}
