package model

import (
	"fmt"
)

// SyncInfo is a validator's advertisement of its highest known
// certificates. Peers exchange SyncInfo records to detect whether one
// of them has fallen behind and must retrieve missing blocks before
// voting further.
type SyncInfo struct {
	HighestQuorumCert *QuorumCert
	// HighestCommitCert may equal HighestQuorumCert; its certified
	// round is never above the highest quorum cert's.
	HighestCommitCert  *QuorumCert
	HighestTimeoutCert *TimeoutCert
}

// UntrustedSyncInfo is an untrusted input-only representation of a
// SyncInfo, used for construction with named fields.
type UntrustedSyncInfo SyncInfo

// NewSyncInfo validates the structural consistency of the untrusted
// input and returns an immutable SyncInfo.
func NewSyncInfo(untrusted UntrustedSyncInfo) (*SyncInfo, error) {
	if untrusted.HighestQuorumCert == nil {
		return nil, fmt.Errorf("HighestQuorumCert must not be nil")
	}
	if untrusted.HighestCommitCert == nil {
		return nil, fmt.Errorf("HighestCommitCert must not be nil")
	}
	if untrusted.HighestCommitCert.CertifiedRound() > untrusted.HighestQuorumCert.CertifiedRound() {
		return nil, fmt.Errorf("commit certificate round (%d) must not exceed quorum certificate round (%d)",
			untrusted.HighestCommitCert.CertifiedRound(), untrusted.HighestQuorumCert.CertifiedRound())
	}
	return &SyncInfo{
		HighestQuorumCert:  untrusted.HighestQuorumCert,
		HighestCommitCert:  untrusted.HighestCommitCert,
		HighestTimeoutCert: untrusted.HighestTimeoutCert,
	}, nil
}

// HighestCertifiedRound returns the round of the highest certified block.
func (s *SyncInfo) HighestCertifiedRound() uint64 {
	return s.HighestQuorumCert.CertifiedRound()
}

// HighestCommittedRound returns the round of the highest committed block.
func (s *SyncInfo) HighestCommittedRound() uint64 {
	return s.HighestCommitCert.CertifiedRound()
}

// HighestRound returns the highest round this SyncInfo proves progress
// for, considering both the quorum and the timeout certificate.
func (s *SyncInfo) HighestRound() uint64 {
	round := s.HighestCertifiedRound()
	if s.HighestTimeoutCert != nil && s.HighestTimeoutCert.Round > round {
		round = s.HighestTimeoutCert.Round
	}
	return round
}
