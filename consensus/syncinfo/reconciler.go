// Package syncinfo reconciles a peer's advertised highest certificates
// against local state. The reconciler decides whether the local
// validator must retrieve missing blocks before voting further, and it
// never trusts remote certificates without re-verifying them against
// the current validator set.
package syncinfo

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"github.com/lodestone-bft/lodestone/consensus"
	"github.com/lodestone-bft/lodestone/consensus/notifications"
	"github.com/lodestone-bft/lodestone/model"
)

// ActionKind enumerates the possible outcomes of reconciling local
// state against a peer's sync info.
type ActionKind int

const (
	// UpToDate means local state covers everything the peer advertised.
	UpToDate ActionKind = iota
	// NeedsCatchUp means the peer has certified rounds ahead of local
	// state; blocks up to the target round must be retrieved before
	// further voting.
	NeedsCatchUp
	// Stale means the peer is behind local state.
	Stale
)

func (k ActionKind) String() string {
	switch k {
	case UpToDate:
		return "up_to_date"
	case NeedsCatchUp:
		return "needs_catch_up"
	case Stale:
		return "stale"
	}
	return fmt.Sprintf("unknown_action_%d", int(k))
}

// Action is the reconciler's verdict. TargetRound is only meaningful
// for NeedsCatchUp.
type Action struct {
	Kind        ActionKind
	TargetRound uint64
}

// defaultVerifiedCacheSize bounds the cache of certificate IDs that
// already passed verification, so repeated sync info exchanges with
// the same peers skip the aggregate signature checks.
const defaultVerifiedCacheSize = 512

// Reconciler compares sync info records. Safe for concurrent use: the
// only mutable state is the verified-certificate cache, which is
// internally synchronized.
type Reconciler struct {
	log       zerolog.Logger
	committee consensus.Committee
	verifier  consensus.Verifier
	notifier  notifications.Consumer
	verified  *lru.Cache
}

// NewReconciler creates a sync info reconciler.
func NewReconciler(
	log zerolog.Logger,
	committee consensus.Committee,
	verifier consensus.Verifier,
	notifier notifications.Consumer,
) (*Reconciler, error) {
	verified, err := lru.New(defaultVerifiedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create verified certificate cache: %w", err)
	}
	return &Reconciler{
		log:       log.With().Str("component", "syncinfo_reconciler").Logger(),
		committee: committee,
		verifier:  verifier,
		notifier:  notifier,
		verified:  verified,
	}, nil
}

// Compare decides how local state relates to a peer's advertisement.
// Local sync info is this validator's own state and is trusted; the
// remote record is fully validated first.
//
// Expected error returns during normal operations:
//   - model.InvalidSyncInfoError if the remote record is structurally
//     inconsistent or carries certificates that fail verification; the
//     peer message is permanently rejected, never retried
func (r *Reconciler) Compare(local *model.SyncInfo, remote *model.SyncInfo) (Action, error) {
	err := r.validateRemote(remote)
	if err != nil {
		return Action{}, err
	}

	localRound := local.HighestRound()
	remoteRound := remote.HighestRound()
	switch {
	case remoteRound > localRound:
		action := Action{Kind: NeedsCatchUp, TargetRound: remoteRound}
		r.notifier.OnCatchUpRequired(localRound, remoteRound)
		r.log.Debug().
			Uint64("local_round", localRound).
			Uint64("remote_round", remoteRound).
			Msg("remote state ahead, catch up required")
		return action, nil
	case remoteRound < localRound:
		return Action{Kind: Stale}, nil
	default:
		return Action{Kind: UpToDate}, nil
	}
}

// validateRemote checks the remote sync info structurally and
// re-verifies each certificate against the current validator set.
// Structural violations are collected into one report, since each is
// potential evidence of a faulty or byzantine peer.
func (r *Reconciler) validateRemote(remote *model.SyncInfo) error {
	if remote == nil {
		return model.NewInvalidSyncInfoErrorf("sync info must not be nil")
	}

	var structural *multierror.Error
	if remote.HighestQuorumCert == nil {
		structural = multierror.Append(structural, fmt.Errorf("highest quorum certificate must not be nil"))
	}
	if remote.HighestCommitCert == nil {
		structural = multierror.Append(structural, fmt.Errorf("highest commit certificate must not be nil"))
	}
	if remote.HighestQuorumCert != nil && remote.HighestCommitCert != nil {
		if remote.HighestCommitCert.CertifiedRound() > remote.HighestQuorumCert.CertifiedRound() {
			structural = multierror.Append(structural, fmt.Errorf(
				"commit certificate round (%d) exceeds quorum certificate round (%d)",
				remote.HighestCommitCert.CertifiedRound(), remote.HighestQuorumCert.CertifiedRound()))
		}
		if remote.HighestCommitCert.Epoch() != remote.HighestQuorumCert.Epoch() {
			structural = multierror.Append(structural, fmt.Errorf(
				"commit certificate epoch (%d) differs from quorum certificate epoch (%d)",
				remote.HighestCommitCert.Epoch(), remote.HighestQuorumCert.Epoch()))
		}
	}
	if err := structural.ErrorOrNil(); err != nil {
		return model.NewInvalidSyncInfoError(fmt.Errorf("structurally inconsistent sync info: %w", err))
	}

	err := r.verifyQC(remote.HighestQuorumCert)
	if err != nil {
		return err
	}
	if remote.HighestCommitCert.ID() != remote.HighestQuorumCert.ID() {
		err = r.verifyQC(remote.HighestCommitCert)
		if err != nil {
			return err
		}
	}
	if remote.HighestTimeoutCert != nil {
		err = r.verifyTC(remote.HighestTimeoutCert)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) verifyQC(qc *model.QuorumCert) error {
	if _, ok := r.verified.Get(qc.ID()); ok {
		return nil
	}
	err := consensus.VerifyQuorumCert(qc, r.committee, r.verifier)
	if err != nil {
		return model.NewInvalidSyncInfoError(fmt.Errorf("quorum certificate rejected: %w", err))
	}
	r.verified.Add(qc.ID(), struct{}{})
	return nil
}

func (r *Reconciler) verifyTC(tc *model.TimeoutCert) error {
	key := model.TimeoutSigningDigest(tc.Epoch, tc.Round)
	if _, ok := r.verified.Get(key); ok {
		return nil
	}
	err := consensus.VerifyTimeoutCert(tc, r.committee, r.verifier)
	if err != nil {
		return model.NewInvalidSyncInfoError(fmt.Errorf("timeout certificate rejected: %w", err))
	}
	r.verified.Add(key, struct{}{})
	return nil
}
