// Package codec provides the canonical wire encoding for consensus
// messages. All validators must produce byte-identical encodings for
// equal values, since content hashes and signatures are computed over
// the encoded form. We use CBOR with the core deterministic encoding
// options for this reason.
package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not initialize cbor encoding mode: %s", err))
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("could not initialize cbor decoding mode: %s", err))
	}
}

// Encode serializes the given value into its canonical byte representation.
func Encode(v interface{}) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode value: %w", err)
	}
	return data, nil
}

// MustEncode serializes the given value and panics on failure. It is
// intended for fingerprinting in-memory values whose encoding cannot
// fail (plain structs of integers, byte arrays and slices).
func MustEncode(v interface{}) []byte {
	data, err := Encode(v)
	if err != nil {
		panic(fmt.Sprintf("could not encode value: %s", err))
	}
	return data
}

// Decode deserializes the canonical byte representation into the given value.
func Decode(data []byte, v interface{}) error {
	err := decMode.Unmarshal(data, v)
	if err != nil {
		return fmt.Errorf("could not decode value: %w", err)
	}
	return nil
}
