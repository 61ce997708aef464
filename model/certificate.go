package model

import (
	"fmt"
)

// SignedLedgerInfo carries the ledger info digest a quorum agreed on
// together with the aggregated signature over it.
type SignedLedgerInfo struct {
	LedgerInfoDigest Identifier
	AggregatedSig    AggregatedSignature
}

// QuorumCert proves that validators holding at least quorum voting
// power voted for a specific block at a specific round. A QC is
// immutable once formed and is identified by the block it certifies.
type QuorumCert struct {
	VoteData         VoteData
	SignedLedgerInfo SignedLedgerInfo
}

// UntrustedQuorumCert is an untrusted input-only representation of a
// QuorumCert, used for construction with named fields.
type UntrustedQuorumCert QuorumCert

// NewQuorumCert performs the structural validation of a quorum
// certificate and returns the immutable QuorumCert. Quorum power and
// signature validity are NOT checked here; they require the epoch's
// validator set and the cryptographic facade (see consensus.VerifyQuorumCert).
//
// All errors indicate that a structurally valid QuorumCert cannot be
// constructed from the input.
func NewQuorumCert(untrusted UntrustedQuorumCert) (*QuorumCert, error) {
	// The genesis certificate (certified round 0) predates any quorum:
	// it is its own parent and legitimately carries no signatures.
	genesis := untrusted.VoteData.Proposed.Round == 0
	if !genesis {
		if _, err := NewVoteData(untrusted.VoteData.Proposed, untrusted.VoteData.Parent); err != nil {
			return nil, fmt.Errorf("invalid vote data: %w", err)
		}
	}
	if untrusted.SignedLedgerInfo.LedgerInfoDigest != untrusted.VoteData.LedgerInfoDigest() {
		return nil, fmt.Errorf("ledger info digest does not match vote data")
	}
	if !genesis && len(untrusted.SignedLedgerInfo.AggregatedSig.SignerIDs) == 0 {
		return nil, fmt.Errorf("SignerIDs must not be empty")
	}
	if !genesis && len(untrusted.SignedLedgerInfo.AggregatedSig.SigData) == 0 {
		return nil, fmt.Errorf("SigData must not be empty")
	}
	return &QuorumCert{
		VoteData:         untrusted.VoteData,
		SignedLedgerInfo: untrusted.SignedLedgerInfo,
	}, nil
}

// GenesisQuorumCert returns the distinguished certificate for the
// epoch's root block. It carries no signatures; every validator
// derives an identical copy from the epoch configuration.
func GenesisQuorumCert(epoch uint64, stateDigest Identifier) *QuorumCert {
	info := GenesisBlockInfo(epoch, stateDigest)
	// The root block is its own parent; it is the only block for which
	// the parent round invariant does not apply.
	vd := VoteData{Proposed: info, Parent: info}
	return &QuorumCert{
		VoteData: vd,
		SignedLedgerInfo: SignedLedgerInfo{
			LedgerInfoDigest: vd.LedgerInfoDigest(),
		},
	}
}

// ID returns the identifier of the certificate, which is the ID of the
// block it certifies.
func (qc *QuorumCert) ID() Identifier {
	return qc.VoteData.Proposed.BlockID
}

// BlockID returns the ID of the certified block.
func (qc *QuorumCert) BlockID() Identifier {
	return qc.VoteData.Proposed.BlockID
}

// CertifiedBlock returns the BlockInfo of the certified block.
func (qc *QuorumCert) CertifiedBlock() BlockInfo {
	return qc.VoteData.Proposed
}

// CertifiedRound returns the round of the certified block.
func (qc *QuorumCert) CertifiedRound() uint64 {
	return qc.VoteData.Proposed.Round
}

// ParentBlock returns the BlockInfo of the certified block's parent.
func (qc *QuorumCert) ParentBlock() BlockInfo {
	return qc.VoteData.Parent
}

// Epoch returns the epoch the certificate belongs to.
func (qc *QuorumCert) Epoch() uint64 {
	return qc.VoteData.Proposed.Epoch
}

// IsGenesis returns true if this is the distinguished genesis
// certificate of its epoch.
func (qc *QuorumCert) IsGenesis() bool {
	return qc.VoteData.Proposed.Round == 0
}

// TimeoutCert proves that a quorum voted to abandon a round without
// forming a quorum certificate. It is scoped to one (epoch, round) and
// references no block.
type TimeoutCert struct {
	Epoch         uint64
	Round         uint64
	AggregatedSig AggregatedSignature
}

// UntrustedTimeoutCert is an untrusted input-only representation of a
// TimeoutCert, used for construction with named fields.
type UntrustedTimeoutCert TimeoutCert

// NewTimeoutCert performs the structural validation of a timeout
// certificate. Quorum power and signature validity require the epoch's
// validator set (see consensus.VerifyTimeoutCert).
func NewTimeoutCert(untrusted UntrustedTimeoutCert) (*TimeoutCert, error) {
	if untrusted.Round == 0 {
		return nil, fmt.Errorf("round 0 cannot time out")
	}
	if len(untrusted.AggregatedSig.SignerIDs) == 0 {
		return nil, fmt.Errorf("SignerIDs must not be empty")
	}
	if len(untrusted.AggregatedSig.SigData) == 0 {
		return nil, fmt.Errorf("SigData must not be empty")
	}
	return &TimeoutCert{
		Epoch:         untrusted.Epoch,
		Round:         untrusted.Round,
		AggregatedSig: untrusted.AggregatedSig,
	}, nil
}
