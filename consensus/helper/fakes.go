package helper

import (
	"bytes"
	"fmt"

	"github.com/lodestone-bft/lodestone/consensus"
	"github.com/lodestone-bft/lodestone/model"
)

// The fake crypto scheme used in tests: a validator's signature over a
// message is its own ID concatenated with the message, and an
// aggregate is the concatenation of the individual shares in signer
// order. Deterministic, trivially verifiable and obviously insecure.

// FakeSigner implements consensus.Signer for one validator.
type FakeSigner struct {
	SignerID model.Identifier
}

var _ consensus.Signer = (*FakeSigner)(nil)

func NewFakeSigner(signerID model.Identifier) *FakeSigner {
	return &FakeSigner{SignerID: signerID}
}

func (s *FakeSigner) Sign(message []byte) (model.Signature, error) {
	return fakeSig(s.SignerID, message), nil
}

// FakeVerifier implements consensus.Verifier against the fake scheme.
type FakeVerifier struct{}

var _ consensus.Verifier = (*FakeVerifier)(nil)

func NewFakeVerifier() *FakeVerifier {
	return &FakeVerifier{}
}

func (v *FakeVerifier) Verify(signerID model.Identifier, message []byte, sig model.Signature) error {
	if !bytes.Equal(sig, fakeSig(signerID, message)) {
		return model.ErrInvalidSignature
	}
	return nil
}

func (v *FakeVerifier) VerifyAggregate(_ uint64, message []byte, aggSig *model.AggregatedSignature) error {
	var expected []byte
	for _, signerID := range aggSig.SignerIDs {
		expected = append(expected, fakeSig(signerID, message)...)
	}
	if !bytes.Equal(aggSig.SigData, expected) {
		return model.ErrInvalidSignature
	}
	return nil
}

// FakeAggregator implements consensus.SignatureAggregator by
// concatenating the shares.
type FakeAggregator struct{}

var _ consensus.SignatureAggregator = (*FakeAggregator)(nil)

func NewFakeAggregator() *FakeAggregator {
	return &FakeAggregator{}
}

func (a *FakeAggregator) Aggregate(signerIDs []model.Identifier, sigs []model.Signature) (*model.AggregatedSignature, error) {
	if len(signerIDs) != len(sigs) {
		return nil, fmt.Errorf("mismatched signers (%d) and signatures (%d)", len(signerIDs), len(sigs))
	}
	var sigData []byte
	for _, sig := range sigs {
		sigData = append(sigData, sig...)
	}
	return &model.AggregatedSignature{
		SignerIDs: append([]model.Identifier(nil), signerIDs...),
		SigData:   sigData,
	}, nil
}

// FakeQC builds a quorum certificate over the given vote data signed
// by all listed validators under the fake scheme, so it passes
// consensus.VerifyQuorumCert with a FakeVerifier.
func FakeQC(vd model.VoteData, signerIDs []model.Identifier) *model.QuorumCert {
	digest := vd.LedgerInfoDigest()
	var sigData []byte
	for _, signerID := range signerIDs {
		sigData = append(sigData, fakeSig(signerID, digest.Bytes())...)
	}
	return &model.QuorumCert{
		VoteData: vd,
		SignedLedgerInfo: model.SignedLedgerInfo{
			LedgerInfoDigest: digest,
			AggregatedSig: model.AggregatedSignature{
				SignerIDs: append([]model.Identifier(nil), signerIDs...),
				SigData:   sigData,
			},
		},
	}
}

// FakeTC builds a timeout certificate for (epoch, round) signed by all
// listed validators under the fake scheme.
func FakeTC(epoch uint64, round uint64, signerIDs []model.Identifier) *model.TimeoutCert {
	digest := model.TimeoutSigningDigest(epoch, round)
	var sigData []byte
	for _, signerID := range signerIDs {
		sigData = append(sigData, fakeSig(signerID, digest.Bytes())...)
	}
	return &model.TimeoutCert{
		Epoch: epoch,
		Round: round,
		AggregatedSig: model.AggregatedSignature{
			SignerIDs: append([]model.Identifier(nil), signerIDs...),
			SigData:   sigData,
		},
	}
}

// FakeVote builds a vote by the given validator over the given vote
// data, signed under the fake scheme.
func FakeVote(vd model.VoteData, signerID model.Identifier) *model.Vote {
	digest := vd.LedgerInfoDigest()
	return &model.Vote{
		VoteData:         vd,
		AuthorID:         signerID,
		LedgerInfoDigest: digest,
		Sig:              fakeSig(signerID, digest.Bytes()),
	}
}

// FakeTimeoutVote builds a timeout vote by the given validator, signed
// under the fake scheme.
func FakeTimeoutVote(epoch uint64, round uint64, signerID model.Identifier) *model.TimeoutVote {
	digest := model.TimeoutSigningDigest(epoch, round)
	return &model.TimeoutVote{
		Epoch:    epoch,
		Round:    round,
		AuthorID: signerID,
		Sig:      fakeSig(signerID, digest.Bytes()),
	}
}

func fakeSig(signerID model.Identifier, message []byte) model.Signature {
	sig := make([]byte, 0, len(signerID)+len(message))
	sig = append(sig, signerID.Bytes()...)
	sig = append(sig, message...)
	return sig
}
