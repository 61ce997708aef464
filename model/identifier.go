package model

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/lodestone-bft/lodestone/codec"
)

// Identifier represents a 32-byte unique identifier for an entity:
// a block ID, a vote-data digest, a ledger info digest or a validator ID.
type Identifier [32]byte

// ZeroID is the lowest value in the 32-byte ID space. It is the parent
// ID of the genesis block and otherwise marks an unset identifier.
var ZeroID = Identifier{}

// String returns the hex string representation of the identifier.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the raw bytes of the identifier.
func (id Identifier) Bytes() []byte {
	return id[:]
}

// HexStringToIdentifier converts a hex string to an identifier.
// The string must contain exactly 64 hexadecimal characters.
func HexStringToIdentifier(s string) (Identifier, error) {
	var id Identifier
	n, err := hex.Decode(id[:], []byte(s))
	if err != nil {
		return ZeroID, fmt.Errorf("could not decode hex string: %w", err)
	}
	if n != len(id) {
		return ZeroID, fmt.Errorf("malformed identifier: expected %d bytes, got %d", len(id), n)
	}
	return id, nil
}

// MakeID computes the identifier of an entity as the SHA3-256 hash of
// its canonical encoding. Equal entities yield equal identifiers on
// every validator, which is what lets certificate chains reference
// blocks by plain key lookups.
func MakeID(entity interface{}) Identifier {
	return Identifier(sha3.Sum256(codec.MustEncode(entity)))
}
