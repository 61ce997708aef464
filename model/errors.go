package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignature is returned by the cryptographic facade when
	// a signature does not verify against the signer's public key.
	ErrInvalidSignature = errors.New("invalid signature")
)

// InvalidSignerError indicates that a message was signed by an
// identifier that is not a validator with positive voting power in the
// relevant epoch.
type InvalidSignerError struct {
	err error
}

func NewInvalidSignerError(err error) error {
	return InvalidSignerError{err}
}

func NewInvalidSignerErrorf(msg string, args ...interface{}) error {
	return InvalidSignerError{fmt.Errorf(msg, args...)}
}

func (e InvalidSignerError) Error() string { return e.err.Error() }
func (e InvalidSignerError) Unwrap() error { return e.err }

// IsInvalidSignerError returns whether err is an InvalidSignerError.
func IsInvalidSignerError(err error) bool {
	var e InvalidSignerError
	return errors.As(err, &e)
}

// WrongEpochError indicates that an input belongs to a different epoch
// than the one the component currently operates in.
type WrongEpochError struct {
	CurrentEpoch uint64
	InputEpoch   uint64
}

func (e WrongEpochError) Error() string {
	return fmt.Sprintf("input is for epoch %d, but current epoch is %d", e.InputEpoch, e.CurrentEpoch)
}

// IsWrongEpochError returns whether err is a WrongEpochError.
func IsWrongEpochError(err error) bool {
	var e WrongEpochError
	return errors.As(err, &e)
}

// InvalidQuorumCertError indicates that a quorum certificate is
// structurally or cryptographically invalid: malformed fields,
// insufficient aggregated voting power, or a failing aggregate
// signature. Such certificates are permanently rejected.
type InvalidQuorumCertError struct {
	BlockID Identifier
	Round   uint64
	Err     error
}

func NewInvalidQuorumCertErrorf(qc *QuorumCert, msg string, args ...interface{}) error {
	return InvalidQuorumCertError{
		BlockID: qc.BlockID(),
		Round:   qc.CertifiedRound(),
		Err:     fmt.Errorf(msg, args...),
	}
}

func (e InvalidQuorumCertError) Error() string {
	return fmt.Sprintf("invalid quorum certificate for block %x at round %d: %s", e.BlockID, e.Round, e.Err.Error())
}

func (e InvalidQuorumCertError) Unwrap() error {
	return e.Err
}

// IsInvalidQuorumCertError returns whether err is an InvalidQuorumCertError.
func IsInvalidQuorumCertError(err error) bool {
	var e InvalidQuorumCertError
	return errors.As(err, &e)
}

// InvalidTimeoutCertError indicates that a timeout certificate is
// structurally or cryptographically invalid.
type InvalidTimeoutCertError struct {
	Epoch uint64
	Round uint64
	Err   error
}

func NewInvalidTimeoutCertErrorf(tc *TimeoutCert, msg string, args ...interface{}) error {
	return InvalidTimeoutCertError{
		Epoch: tc.Epoch,
		Round: tc.Round,
		Err:   fmt.Errorf(msg, args...),
	}
}

func (e InvalidTimeoutCertError) Error() string {
	return fmt.Sprintf("invalid timeout certificate for round %d in epoch %d: %s", e.Round, e.Epoch, e.Err.Error())
}

func (e InvalidTimeoutCertError) Unwrap() error {
	return e.Err
}

// IsInvalidTimeoutCertError returns whether err is an InvalidTimeoutCertError.
func IsInvalidTimeoutCertError(err error) bool {
	var e InvalidTimeoutCertError
	return errors.As(err, &e)
}

// RoundRegressionError indicates a refusal to vote or time out for a
// round the validator has already passed. The caller must not retry
// with modified parameters; the correct recovery is waiting for a new
// proposal at a higher round.
type RoundRegressionError struct {
	LastVotedRound uint64
	Round          uint64
}

func (e RoundRegressionError) Error() string {
	return fmt.Sprintf("round %d does not advance beyond last voted round %d", e.Round, e.LastVotedRound)
}

// IsRoundRegressionError returns whether err is a RoundRegressionError.
func IsRoundRegressionError(err error) bool {
	var e RoundRegressionError
	return errors.As(err, &e)
}

// LockedRoundViolationError indicates a refusal to vote for a block
// whose parent certificate is below the validator's preferred round,
// i.e. whose parent chain contradicts a block the validator has
// already voted to extend.
type LockedRoundViolationError struct {
	PreferredRound uint64
	CertifiedRound uint64
	Round          uint64
}

func (e LockedRoundViolationError) Error() string {
	return fmt.Sprintf("block at round %d extends certified round %d below preferred round %d",
		e.Round, e.CertifiedRound, e.PreferredRound)
}

// IsLockedRoundViolationError returns whether err is a LockedRoundViolationError.
func IsLockedRoundViolationError(err error) bool {
	var e LockedRoundViolationError
	return errors.As(err, &e)
}

// EquivocatingVoteError indicates that a validator has voted for two
// different vote data at the same (epoch, round). Both votes are
// retained as evidence of the misbehavior.
type EquivocatingVoteError struct {
	FirstVote       *Vote
	ConflictingVote *Vote
	err             error
}

func NewEquivocatingVoteErrorf(firstVote, conflictingVote *Vote, msg string, args ...interface{}) error {
	return EquivocatingVoteError{
		FirstVote:       firstVote,
		ConflictingVote: conflictingVote,
		err:             fmt.Errorf(msg, args...),
	}
}

func (e EquivocatingVoteError) Error() string {
	return e.err.Error()
}

func (e EquivocatingVoteError) Unwrap() error {
	return e.err
}

// IsEquivocatingVoteError returns whether err is an EquivocatingVoteError.
func IsEquivocatingVoteError(err error) bool {
	var e EquivocatingVoteError
	return errors.As(err, &e)
}

// AsEquivocatingVoteError determines whether the given error is an
// EquivocatingVoteError (potentially wrapped). It follows the same
// semantics as a checked type cast.
func AsEquivocatingVoteError(err error) (*EquivocatingVoteError, bool) {
	var e EquivocatingVoteError
	ok := errors.As(err, &e)
	if ok {
		return &e, true
	}
	return nil, false
}

// InvalidVoteError indicates that a single vote is malformed or
// carries an invalid signature.
type InvalidVoteError struct {
	VoteID Identifier
	Round  uint64
	Err    error
}

func NewInvalidVoteErrorf(vote *Vote, msg string, args ...interface{}) error {
	return InvalidVoteError{
		VoteID: vote.ID(),
		Round:  vote.Round(),
		Err:    fmt.Errorf(msg, args...),
	}
}

func (e InvalidVoteError) Error() string {
	return fmt.Sprintf("invalid vote %x for round %d: %s", e.VoteID, e.Round, e.Err.Error())
}

func (e InvalidVoteError) Unwrap() error {
	return e.Err
}

// IsInvalidVoteError returns whether err is an InvalidVoteError.
func IsInvalidVoteError(err error) bool {
	var e InvalidVoteError
	return errors.As(err, &e)
}

// InvalidTimeoutVoteError indicates that a single timeout vote is
// malformed or carries an invalid signature.
type InvalidTimeoutVoteError struct {
	AuthorID Identifier
	Round    uint64
	Err      error
}

func NewInvalidTimeoutVoteErrorf(tv *TimeoutVote, msg string, args ...interface{}) error {
	return InvalidTimeoutVoteError{
		AuthorID: tv.AuthorID,
		Round:    tv.Round,
		Err:      fmt.Errorf(msg, args...),
	}
}

func (e InvalidTimeoutVoteError) Error() string {
	return fmt.Sprintf("invalid timeout vote by %x for round %d: %s", e.AuthorID, e.Round, e.Err.Error())
}

func (e InvalidTimeoutVoteError) Unwrap() error {
	return e.Err
}

// IsInvalidTimeoutVoteError returns whether err is an InvalidTimeoutVoteError.
func IsInvalidTimeoutVoteError(err error) bool {
	var e InvalidTimeoutVoteError
	return errors.As(err, &e)
}

// InvalidSyncInfoError indicates that a peer's sync info advertisement
// is structurally inconsistent or carries certificates that fail
// verification. The message is permanently rejected.
type InvalidSyncInfoError struct {
	err error
}

func NewInvalidSyncInfoError(err error) error {
	return InvalidSyncInfoError{err}
}

func NewInvalidSyncInfoErrorf(msg string, args ...interface{}) error {
	return InvalidSyncInfoError{fmt.Errorf(msg, args...)}
}

func (e InvalidSyncInfoError) Error() string { return e.err.Error() }
func (e InvalidSyncInfoError) Unwrap() error { return e.err }

// IsInvalidSyncInfoError returns whether err is an InvalidSyncInfoError.
func IsInvalidSyncInfoError(err error) bool {
	var e InvalidSyncInfoError
	return errors.As(err, &e)
}

// PersistenceFailureError indicates that the safety state could not be
// durably stored. The engine fails closed: no vote signed during the
// failed operation is released to the caller.
type PersistenceFailureError struct {
	err error
}

func NewPersistenceFailureError(err error) error {
	return PersistenceFailureError{err}
}

func (e PersistenceFailureError) Error() string { return e.err.Error() }
func (e PersistenceFailureError) Unwrap() error { return e.err }

// IsPersistenceFailureError returns whether err is a PersistenceFailureError.
func IsPersistenceFailureError(err error) bool {
	var e PersistenceFailureError
	return errors.As(err, &e)
}
