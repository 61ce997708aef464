package safetyrules

import (
	"fmt"

	"github.com/lodestone-bft/lodestone/model"
)

// EvaluateCommit applies the three-chain commit rule to a chain of
// three certified blocks, ordered oldest first. The first block of the
// chain is safe to commit once all three are certified at contiguous
// rounds within one epoch.
//
// Returning no committable block is the common case before a chain
// completes and is never an error.
func EvaluateCommit(chain [3]model.BlockInfo) (model.BlockInfo, bool) {
	b1, b2, b3 := chain[0], chain[1], chain[2]
	if b1.Epoch != b2.Epoch || b2.Epoch != b3.Epoch {
		return model.BlockInfo{}, false
	}
	// rounds must be contiguous; a gap means an intermediate round
	// timed out and a conflicting chain may exist across a partition
	if b2.Round != b1.Round+1 || b3.Round != b2.Round+1 {
		return model.BlockInfo{}, false
	}
	if b1.BlockID == model.ZeroID || b2.BlockID == model.ZeroID || b3.BlockID == model.ZeroID {
		return model.BlockInfo{}, false
	}
	if b1.BlockID == b2.BlockID || b2.BlockID == b3.BlockID || b1.BlockID == b3.BlockID {
		return model.BlockInfo{}, false
	}
	return b1, true
}

// CommitChainFromCerts derives the three-block chain from three quorum
// certificates, ordered oldest first, checking that each certificate's
// parent reference links to the block certified by its predecessor.
// The result feeds EvaluateCommit; a linkage inconsistency means the
// certificates do not form a chain at all.
func CommitChainFromCerts(qc1, qc2, qc3 *model.QuorumCert) ([3]model.BlockInfo, error) {
	var chain [3]model.BlockInfo
	if qc1 == nil || qc2 == nil || qc3 == nil {
		return chain, fmt.Errorf("certificates must not be nil")
	}
	if qc2.ParentBlock().BlockID != qc1.BlockID() {
		return chain, fmt.Errorf("certificate at round %d does not extend block %x", qc2.CertifiedRound(), qc1.BlockID())
	}
	if qc3.ParentBlock().BlockID != qc2.BlockID() {
		return chain, fmt.Errorf("certificate at round %d does not extend block %x", qc3.CertifiedRound(), qc2.BlockID())
	}
	chain[0] = qc1.CertifiedBlock()
	chain[1] = qc2.CertifiedBlock()
	chain[2] = qc3.CertifiedBlock()
	return chain, nil
}
