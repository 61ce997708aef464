package model

// Signature is an opaque cryptographic signature produced by the
// external signing facade. This core only moves signatures around and
// compares them for byte equality; it never interprets them.
type Signature []byte

// AggregatedSignature combines the signature shares of multiple
// validators over the same message into one opaque aggregate, together
// with the set of contributing signer IDs.
type AggregatedSignature struct {
	SignerIDs []Identifier
	SigData   Signature
}

// HasSigner returns true if and only if the given signer contributed
// to this aggregated signature.
func (a *AggregatedSignature) HasSigner(signerID Identifier) bool {
	for _, id := range a.SignerIDs {
		if id == signerID {
			return true
		}
	}
	return false
}

// CardinalitySignerSet returns the number of _distinct_ signer IDs in
// the aggregated signature. We explicitly de-duplicate here to prevent
// repetition attacks inflating the apparent quorum weight.
func (a *AggregatedSignature) CardinalitySignerSet() int {
	seen := make(map[Identifier]struct{}, len(a.SignerIDs))
	for _, id := range a.SignerIDs {
		seen[id] = struct{}{}
	}
	return len(seen)
}
