package model

import (
	"fmt"
)

// VoteData describes the two blocks a vote endorses: the proposed
// block and the parent block certified by the proposal's embedded QC.
type VoteData struct {
	Proposed BlockInfo
	Parent   BlockInfo
}

// NewVoteData checks the internal consistency of the proposed/parent
// pair and returns the validated VoteData.
func NewVoteData(proposed BlockInfo, parent BlockInfo) (VoteData, error) {
	if proposed.Epoch != parent.Epoch {
		return VoteData{}, fmt.Errorf("proposed epoch (%d) must match parent epoch (%d)", proposed.Epoch, parent.Epoch)
	}
	if parent.Round >= proposed.Round {
		return VoteData{}, fmt.Errorf("parent round (%d) must be smaller than proposed round (%d)", parent.Round, proposed.Round)
	}
	if proposed.BlockID == ZeroID {
		return VoteData{}, fmt.Errorf("proposed block ID must not be empty")
	}
	return VoteData{Proposed: proposed, Parent: parent}, nil
}

// ID returns the content hash of the vote data.
func (vd VoteData) ID() Identifier {
	return MakeID(vd)
}

// ledgerInfo is the record a proposal vote actually signs: the digest
// of the consensus data plus the executed state the proposed block
// commits to. Validators that agree on both produce the same digest,
// which is what the aggregated certificate signature covers.
type ledgerInfo struct {
	ConsensusDataID Identifier
	StateDigest     Identifier
}

// LedgerInfoDigest returns the digest covered by a vote's signature
// and, once a quorum forms, by the certificate's aggregated signature.
func (vd VoteData) LedgerInfoDigest() Identifier {
	return MakeID(ledgerInfo{
		ConsensusDataID: vd.ID(),
		StateDigest:     vd.Proposed.StateDigest,
	})
}

// Vote is one validator's signed endorsement of a proposed block and
// of the certificate that block would produce if committed.
//
// A vote commits the voter to never endorse a conflicting block at the
// same round. That promise is enforced by the safety rules engine, not
// by this type.
type Vote struct {
	VoteData         VoteData
	AuthorID         Identifier
	LedgerInfoDigest Identifier
	Sig              Signature
	// TimeoutSig is only set when the vote doubles as a round-timeout
	// vote; nil for plain proposal votes.
	TimeoutSig Signature
}

// UntrustedVote is an untrusted input-only representation of a Vote,
// used for construction with named fields.
type UntrustedVote Vote

// NewVote validates the untrusted input and returns an immutable Vote.
//
// All errors indicate that a valid Vote cannot be constructed from the input.
func NewVote(untrusted UntrustedVote) (*Vote, error) {
	if untrusted.AuthorID == ZeroID {
		return nil, fmt.Errorf("AuthorID must not be empty")
	}
	if len(untrusted.Sig) == 0 {
		return nil, fmt.Errorf("Sig must not be empty")
	}
	if untrusted.LedgerInfoDigest != untrusted.VoteData.LedgerInfoDigest() {
		return nil, fmt.Errorf("ledger info digest does not match vote data")
	}
	if _, err := NewVoteData(untrusted.VoteData.Proposed, untrusted.VoteData.Parent); err != nil {
		return nil, fmt.Errorf("invalid vote data: %w", err)
	}
	return &Vote{
		VoteData:         untrusted.VoteData,
		AuthorID:         untrusted.AuthorID,
		LedgerInfoDigest: untrusted.LedgerInfoDigest,
		Sig:              untrusted.Sig,
		TimeoutSig:       untrusted.TimeoutSig,
	}, nil
}

// ID returns the identifier for the vote.
func (v *Vote) ID() Identifier {
	return MakeID(v)
}

// Round returns the round of the proposed block this vote endorses.
func (v *Vote) Round() uint64 {
	return v.VoteData.Proposed.Round
}

// Epoch returns the epoch this vote belongs to.
func (v *Vote) Epoch() uint64 {
	return v.VoteData.Proposed.Epoch
}

// TimeoutVote is one validator's signed statement that a round should
// be abandoned without forming a quorum certificate. It carries no
// block reference; timeout votes aggregate into timeout certificates
// keyed by (epoch, round) alone.
type TimeoutVote struct {
	Epoch    uint64
	Round    uint64
	AuthorID Identifier
	Sig      Signature
}

// timeoutStatement is the record a timeout vote signs.
type timeoutStatement struct {
	Epoch uint64
	Round uint64
}

// TimeoutSigningDigest returns the digest covered by a timeout vote's
// signature and by a timeout certificate's aggregated signature.
func TimeoutSigningDigest(epoch uint64, round uint64) Identifier {
	return MakeID(timeoutStatement{Epoch: epoch, Round: round})
}
