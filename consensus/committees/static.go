// Package committees provides implementations of the consensus
// Committee interface. The static committee serves fixed validator
// sets distributed out of band per epoch, which is the deployment mode
// of a permissioned validator set.
package committees

import (
	"fmt"

	"github.com/lodestone-bft/lodestone/consensus"
	"github.com/lodestone-bft/lodestone/model"
)

// Static implements consensus.Committee backed by an in-memory table
// of per-epoch voting powers. It is immutable after construction and
// therefore safe for concurrent use.
type Static struct {
	self   model.Identifier
	epochs map[uint64]*epochInfo
}

type epochInfo struct {
	weights     map[model.Identifier]uint64
	totalWeight uint64
	threshold   uint64
}

var _ consensus.Committee = (*Static)(nil)

// NewStatic creates a committee for a single epoch from the given
// voting-power table. Validators with zero power are rejected: they
// are not legitimate consensus participants.
func NewStatic(self model.Identifier, epoch uint64, weights map[model.Identifier]uint64) (*Static, error) {
	c := &Static{
		self:   self,
		epochs: make(map[uint64]*epochInfo),
	}
	err := c.AddEpoch(epoch, weights)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// AddEpoch registers the validator set of a further epoch. Intended
// for wiring verified epoch changes in; not safe for concurrent use
// with readers.
func (c *Static) AddEpoch(epoch uint64, weights map[model.Identifier]uint64) error {
	if len(weights) == 0 {
		return fmt.Errorf("epoch %d must have at least one validator", epoch)
	}
	info := &epochInfo{
		weights: make(map[model.Identifier]uint64, len(weights)),
	}
	for id, weight := range weights {
		if weight == 0 {
			return fmt.Errorf("validator %x in epoch %d has zero voting power", id, epoch)
		}
		info.weights[id] = weight
		info.totalWeight += weight
	}
	info.threshold = consensus.WeightThresholdToBuildQC(info.totalWeight)
	c.epochs[epoch] = info
	return nil
}

// Self returns our own validator identifier.
func (c *Static) Self() model.Identifier {
	return c.self
}

// VotingPower returns the voting power of the given validator in the
// given epoch.
func (c *Static) VotingPower(epoch uint64, signerID model.Identifier) (uint64, error) {
	info, err := c.epoch(epoch)
	if err != nil {
		return 0, err
	}
	weight, ok := info.weights[signerID]
	if !ok {
		return 0, model.NewInvalidSignerErrorf("validator %x is not a committee member in epoch %d", signerID, epoch)
	}
	return weight, nil
}

// QuorumThreshold returns the minimal aggregated voting power required
// to build a certificate in the given epoch.
func (c *Static) QuorumThreshold(epoch uint64) (uint64, error) {
	info, err := c.epoch(epoch)
	if err != nil {
		return 0, err
	}
	return info.threshold, nil
}

// TotalWeight returns the total voting power of the epoch's validator set.
func (c *Static) TotalWeight(epoch uint64) (uint64, error) {
	info, err := c.epoch(epoch)
	if err != nil {
		return 0, err
	}
	return info.totalWeight, nil
}

func (c *Static) epoch(epoch uint64) (*epochInfo, error) {
	info, ok := c.epochs[epoch]
	if !ok {
		return nil, fmt.Errorf("unknown epoch %d", epoch)
	}
	return info, nil
}
