// Package persister provides the default durable store for a
// validator's safety state, backed by badger. Each update is a single
// atomic transaction: after a crash, recovery reloads the last
// committed record, never a torn write.
package persister

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/lodestone-bft/lodestone/codec"
	"github.com/lodestone-bft/lodestone/consensus"
	"github.com/lodestone-bft/lodestone/model"
)

// ErrNotBootstrapped is returned when no safety data has been stored
// for the validator yet. Bootstrapping must write the initial record
// before the safety rules engine starts.
var ErrNotBootstrapped = errors.New("no safety data stored for validator")

const prefixSafetyData = byte(0x10)

// Persister stores one validator's safety data in badger.
type Persister struct {
	db          *badger.DB
	validatorID model.Identifier
}

var _ consensus.Persister = (*Persister)(nil)

// New creates a persister for the given validator using the injected
// database handle.
func New(db *badger.DB, validatorID model.Identifier) *Persister {
	p := &Persister{
		db:          db,
		validatorID: validatorID,
	}
	return p
}

// GetSafetyData retrieves the last persisted safety data.
//
// Expected error returns during normal operations:
//   - ErrNotBootstrapped if no record exists yet
func (p *Persister) GetSafetyData() (*model.SafetyData, error) {
	var safetyData model.SafetyData
	err := p.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(p.key())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotBootstrapped
		}
		if err != nil {
			return fmt.Errorf("could not load safety data: %w", err)
		}
		return item.Value(func(val []byte) error {
			return codec.Decode(val, &safetyData)
		})
	})
	if err != nil {
		return nil, err
	}
	return &safetyData, nil
}

// PutSafetyData persists the safety data in one atomic transaction.
func (p *Persister) PutSafetyData(data *model.SafetyData) error {
	val, err := codec.Encode(data)
	if err != nil {
		return fmt.Errorf("could not encode safety data: %w", err)
	}
	err = p.db.Update(func(tx *badger.Txn) error {
		return tx.Set(p.key(), val)
	})
	if err != nil {
		return fmt.Errorf("could not store safety data: %w", err)
	}
	return nil
}

func (p *Persister) key() []byte {
	key := make([]byte, 0, 1+len(p.validatorID))
	key = append(key, prefixSafetyData)
	key = append(key, p.validatorID.Bytes()...)
	return key
}
