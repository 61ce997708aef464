package model

// SafetyData is the persisted protocol state of a single validator.
// It is owned exclusively by the safety rules engine, which is the
// single writer; within an epoch LastVotedRound and PreferredRound
// never decrease. On a verified epoch change the epoch is bumped and
// the rounds are zeroed.
type SafetyData struct {
	Epoch uint64
	// LastVotedRound is the highest round this validator has cast a
	// proposal or timeout vote for.
	LastVotedRound uint64
	// PreferredRound is the locked round: the highest certified round
	// among the parents of blocks this validator has voted to extend.
	// The validator refuses to vote for blocks whose parent chain
	// contradicts it.
	PreferredRound uint64
	// LastVote is retained so that retries for the identical proposal
	// return the previously signed vote instead of signing twice.
	LastVote *Vote
}

// NewSafetyData returns the initial safety state for an epoch.
func NewSafetyData(epoch uint64) *SafetyData {
	return &SafetyData{Epoch: epoch}
}

// Clone returns a copy of the safety data. The engine mutates a copy
// and only adopts it after the copy has been durably persisted.
func (sd *SafetyData) Clone() *SafetyData {
	clone := *sd
	return &clone
}
