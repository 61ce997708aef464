package consensus

import (
	"github.com/lodestone-bft/lodestone/model"
)

// VerifyQuorumCert checks that the given quorum certificate is valid
// with respect to the epoch's validator set: the signer set is
// deduplicated, every signer is a committee member, the accumulated
// voting power reaches the quorum threshold and the aggregated
// signature verifies over the certificate's ledger info digest.
//
// The genesis certificate of an epoch (certified round 0) carries no
// signatures; it is accepted only if it matches the canonical
// certificate every honest validator derives from the epoch
// configuration, byte for byte except for the root state digest.
//
// Expected error returns during normal operations:
//   - model.InvalidQuorumCertError if any check fails; the certificate
//     is permanently rejected
func VerifyQuorumCert(qc *model.QuorumCert, committee Committee, verifier Verifier) error {
	if qc == nil {
		return model.InvalidQuorumCertError{Err: errNilCertificate}
	}
	if _, err := model.NewQuorumCert(model.UntrustedQuorumCert(*qc)); err != nil {
		return model.NewInvalidQuorumCertErrorf(qc, "malformed certificate: %w", err)
	}
	if qc.IsGenesis() {
		// the genesis block ID is derived from the epoch alone, so a
		// fabricated round-0 certificate cannot reference any other block
		expected := model.GenesisQuorumCert(qc.Epoch(), qc.VoteData.Proposed.StateDigest)
		if qc.VoteData != expected.VoteData {
			return model.NewInvalidQuorumCertErrorf(qc, "certificate does not match the epoch's genesis certificate")
		}
		if len(qc.SignedLedgerInfo.AggregatedSig.SignerIDs) != 0 || len(qc.SignedLedgerInfo.AggregatedSig.SigData) != 0 {
			return model.NewInvalidQuorumCertErrorf(qc, "genesis certificate must not carry signatures")
		}
		return nil
	}

	epoch := qc.Epoch()
	power, err := accumulatedPower(epoch, qc.SignedLedgerInfo.AggregatedSig.SignerIDs, committee)
	if err != nil {
		return model.NewInvalidQuorumCertErrorf(qc, "could not accumulate signer power: %w", err)
	}
	threshold, err := committee.QuorumThreshold(epoch)
	if err != nil {
		return model.NewInvalidQuorumCertErrorf(qc, "could not determine quorum threshold: %w", err)
	}
	if power < threshold {
		return model.NewInvalidQuorumCertErrorf(qc, "accumulated power %d below quorum threshold %d", power, threshold)
	}

	digest := qc.SignedLedgerInfo.LedgerInfoDigest
	err = verifier.VerifyAggregate(epoch, digest.Bytes(), &qc.SignedLedgerInfo.AggregatedSig)
	if err != nil {
		return model.NewInvalidQuorumCertErrorf(qc, "aggregated signature rejected: %w", err)
	}
	return nil
}

// VerifyTimeoutCert checks a timeout certificate the same way
// VerifyQuorumCert checks a quorum certificate, with the aggregated
// signature covering the timeout statement of (epoch, round).
//
// Expected error returns during normal operations:
//   - model.InvalidTimeoutCertError if any check fails
func VerifyTimeoutCert(tc *model.TimeoutCert, committee Committee, verifier Verifier) error {
	if tc == nil {
		return model.InvalidTimeoutCertError{Err: errNilCertificate}
	}
	if _, err := model.NewTimeoutCert(model.UntrustedTimeoutCert(*tc)); err != nil {
		return model.NewInvalidTimeoutCertErrorf(tc, "malformed certificate: %w", err)
	}

	power, err := accumulatedPower(tc.Epoch, tc.AggregatedSig.SignerIDs, committee)
	if err != nil {
		return model.NewInvalidTimeoutCertErrorf(tc, "could not accumulate signer power: %w", err)
	}
	threshold, err := committee.QuorumThreshold(tc.Epoch)
	if err != nil {
		return model.NewInvalidTimeoutCertErrorf(tc, "could not determine quorum threshold: %w", err)
	}
	if power < threshold {
		return model.NewInvalidTimeoutCertErrorf(tc, "accumulated power %d below quorum threshold %d", power, threshold)
	}

	digest := model.TimeoutSigningDigest(tc.Epoch, tc.Round)
	err = verifier.VerifyAggregate(tc.Epoch, digest.Bytes(), &tc.AggregatedSig)
	if err != nil {
		return model.NewInvalidTimeoutCertErrorf(tc, "aggregated signature rejected: %w", err)
	}
	return nil
}

// accumulatedPower sums the voting power of the distinct signers.
// Duplicate entries count once; unknown signers fail the whole set.
func accumulatedPower(epoch uint64, signerIDs []model.Identifier, committee Committee) (uint64, error) {
	seen := make(map[model.Identifier]struct{}, len(signerIDs))
	var power uint64
	for _, signerID := range signerIDs {
		if _, ok := seen[signerID]; ok {
			continue
		}
		seen[signerID] = struct{}{}
		p, err := committee.VotingPower(epoch, signerID)
		if err != nil {
			return 0, err
		}
		power += p
	}
	return power, nil
}
