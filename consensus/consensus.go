// Package consensus defines the interfaces between the certificate and
// safety-rule core and its external collaborators: the cryptographic
// facade, the per-epoch validator set provider and the safety-state
// persistence layer. It also hosts the quorum-power arithmetic and the
// certificate verification shared by the aggregators, the sync
// reconciler and the safety rules engine.
package consensus

import (
	"github.com/lodestone-bft/lodestone/model"
)

// Signer is the signing half of the external cryptographic facade.
// Implementations hold this validator's private key material; the core
// never sees it.
type Signer interface {
	// Sign signs the given message and returns the signature.
	Sign(message []byte) (model.Signature, error)
}

// Verifier is the verifying half of the external cryptographic facade.
type Verifier interface {
	// Verify checks the signature of a single validator over the given
	// message. Expected error returns during normal operations:
	//  * model.ErrInvalidSignature if the signature does not verify
	Verify(signerID model.Identifier, message []byte, sig model.Signature) error

	// VerifyAggregate checks an aggregated signature over the given
	// message against the public keys of the listed signers in the
	// given epoch. Expected error returns during normal operations:
	//  * model.ErrInvalidSignature if the aggregate does not verify
	//  * model.InvalidSignerError if a signer is unknown in the epoch
	VerifyAggregate(epoch uint64, message []byte, aggSig *model.AggregatedSignature) error
}

// SignatureAggregator combines individual signature shares over the
// same message into one aggregated signature. The signers and sigs
// slices are parallel and sorted by signer ID; the aggregator treats
// the shares as opaque.
type SignatureAggregator interface {
	Aggregate(signerIDs []model.Identifier, sigs []model.Signature) (*model.AggregatedSignature, error)
}

// Committee is the externally supplied per-epoch mapping from
// validators to voting power. All quorum decisions in this core derive
// from it; it is never modified from here.
type Committee interface {
	// Self returns our own validator identifier.
	Self() model.Identifier

	// VotingPower returns the voting power of the given validator in
	// the given epoch. Expected error returns during normal operations:
	//  * model.InvalidSignerError if the validator is not a committee
	//    member with positive voting power in that epoch
	VotingPower(epoch uint64, signerID model.Identifier) (uint64, error)

	// QuorumThreshold returns the minimal aggregated voting power
	// required to build a certificate in the given epoch.
	QuorumThreshold(epoch uint64) (uint64, error)

	// TotalWeight returns the total voting power of the epoch's
	// validator set.
	TotalWeight(epoch uint64) (uint64, error)
}

// Persister stores and retrieves this validator's safety state. Writes
// must be atomic: a torn write observable after a crash would void the
// safety guarantees.
type Persister interface {
	// GetSafetyData retrieves the last persisted safety state.
	GetSafetyData() (*model.SafetyData, error)

	// PutSafetyData persists the safety state. It returns only after
	// the record is durable.
	PutSafetyData(data *model.SafetyData) error
}

// WeightThresholdToBuildQC returns the voting power that is minimally
// required for building a certificate, given the total voting power of
// the epoch. The threshold guarantees that any two quorums intersect
// in at least one honest validator, tolerating up to floor((n-1)/3)
// byzantine weight.
func WeightThresholdToBuildQC(totalWeight uint64) uint64 {
	// Given totalWeight, we need the smallest integer t such that
	// 3 * t > 2 * totalWeight. Formally:
	// t = 2 * Floor(totalWeight/3) + max(1, totalWeight mod 3)
	floorOneThird := totalWeight / 3 // integer division, includes floor
	res := 2 * floorOneThird
	divRemainder := totalWeight % 3
	if divRemainder <= 1 {
		res = res + 1
	} else {
		res += divRemainder
	}
	return res
}
