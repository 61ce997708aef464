// Package helper provides fixtures for consensus tests. Fixtures
// return valid entities by default; functional options mutate them
// into the shape a test needs.
package helper

import (
	"crypto/rand"
	"time"

	"github.com/lodestone-bft/lodestone/model"
)

// IdentifierFixture returns a random identifier.
func IdentifierFixture() model.Identifier {
	var id model.Identifier
	_, _ = rand.Read(id[:])
	return id
}

// IdentifierListFixture returns n distinct random identifiers.
func IdentifierListFixture(n int) []model.Identifier {
	ids := make([]model.Identifier, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, IdentifierFixture())
	}
	return ids
}

// SignatureFixture returns a random 48-byte signature.
func SignatureFixture() model.Signature {
	sig := make([]byte, 48)
	_, _ = rand.Read(sig)
	return sig
}

func MakeBlockInfo(options ...func(*model.BlockInfo)) model.BlockInfo {
	info := model.BlockInfo{
		BlockID:     IdentifierFixture(),
		Epoch:       1,
		Round:       10,
		StateDigest: IdentifierFixture(),
		Timestamp:   uint64(time.Now().UnixMilli()),
	}
	for _, option := range options {
		option(&info)
	}
	return info
}

func WithBlockInfoID(id model.Identifier) func(*model.BlockInfo) {
	return func(info *model.BlockInfo) {
		info.BlockID = id
	}
}

func WithBlockInfoEpoch(epoch uint64) func(*model.BlockInfo) {
	return func(info *model.BlockInfo) {
		info.Epoch = epoch
	}
}

func WithBlockInfoRound(round uint64) func(*model.BlockInfo) {
	return func(info *model.BlockInfo) {
		info.Round = round
	}
}

func MakeVoteData(options ...func(*model.VoteData)) model.VoteData {
	proposed := MakeBlockInfo()
	parent := MakeBlockInfo(WithBlockInfoRound(proposed.Round - 1))
	vd := model.VoteData{Proposed: proposed, Parent: parent}
	for _, option := range options {
		option(&vd)
	}
	return vd
}

func WithVoteDataProposed(proposed model.BlockInfo) func(*model.VoteData) {
	return func(vd *model.VoteData) {
		vd.Proposed = proposed
	}
}

func WithVoteDataParent(parent model.BlockInfo) func(*model.VoteData) {
	return func(vd *model.VoteData) {
		vd.Parent = parent
	}
}

// WithVoteDataRound sets the proposed round and keeps the parent one
// round behind.
func WithVoteDataRound(round uint64) func(*model.VoteData) {
	return func(vd *model.VoteData) {
		vd.Proposed.Round = round
		vd.Parent.Round = round - 1
	}
}

// WithVoteDataEpoch sets the epoch on both ends of the vote data.
func WithVoteDataEpoch(epoch uint64) func(*model.VoteData) {
	return func(vd *model.VoteData) {
		vd.Proposed.Epoch = epoch
		vd.Parent.Epoch = epoch
	}
}

// VoteFixture returns a structurally valid vote. The signature is
// random; use the fake crypto from fakes.go when votes must verify.
func VoteFixture(options ...func(*model.Vote)) *model.Vote {
	vd := MakeVoteData()
	vote := &model.Vote{
		VoteData:         vd,
		AuthorID:         IdentifierFixture(),
		LedgerInfoDigest: vd.LedgerInfoDigest(),
		Sig:              SignatureFixture(),
	}
	for _, option := range options {
		option(vote)
	}
	return vote
}

func WithVoteAuthor(authorID model.Identifier) func(*model.Vote) {
	return func(vote *model.Vote) {
		vote.AuthorID = authorID
	}
}

// WithVoteData replaces the vote data and recomputes the ledger info
// digest to keep the vote internally consistent.
func WithVoteData(vd model.VoteData) func(*model.Vote) {
	return func(vote *model.Vote) {
		vote.VoteData = vd
		vote.LedgerInfoDigest = vd.LedgerInfoDigest()
	}
}

func MakeQC(options ...func(*model.QuorumCert)) *model.QuorumCert {
	qc := &model.QuorumCert{
		VoteData: MakeVoteData(),
		SignedLedgerInfo: model.SignedLedgerInfo{
			AggregatedSig: model.AggregatedSignature{
				SignerIDs: IdentifierListFixture(4),
				SigData:   SignatureFixture(),
			},
		},
	}
	for _, option := range options {
		option(qc)
	}
	// keep the certificate internally consistent after the options ran
	qc.SignedLedgerInfo.LedgerInfoDigest = qc.VoteData.LedgerInfoDigest()
	return qc
}

func WithQCVoteData(vd model.VoteData) func(*model.QuorumCert) {
	return func(qc *model.QuorumCert) {
		qc.VoteData = vd
	}
}

// WithQCRound sets the certified round and keeps the parent reference
// one round behind.
func WithQCRound(round uint64) func(*model.QuorumCert) {
	return func(qc *model.QuorumCert) {
		qc.VoteData.Proposed.Round = round
		qc.VoteData.Parent.Round = round - 1
	}
}

func WithQCEpoch(epoch uint64) func(*model.QuorumCert) {
	return func(qc *model.QuorumCert) {
		qc.VoteData.Proposed.Epoch = epoch
		qc.VoteData.Parent.Epoch = epoch
	}
}

func WithQCSigners(signerIDs []model.Identifier) func(*model.QuorumCert) {
	return func(qc *model.QuorumCert) {
		qc.SignedLedgerInfo.AggregatedSig.SignerIDs = signerIDs
	}
}

func MakeTC(options ...func(*model.TimeoutCert)) *model.TimeoutCert {
	tc := &model.TimeoutCert{
		Epoch: 1,
		Round: 10,
		AggregatedSig: model.AggregatedSignature{
			SignerIDs: IdentifierListFixture(4),
			SigData:   SignatureFixture(),
		},
	}
	for _, option := range options {
		option(tc)
	}
	return tc
}

func WithTCRound(round uint64) func(*model.TimeoutCert) {
	return func(tc *model.TimeoutCert) {
		tc.Round = round
	}
}

func WithTCEpoch(epoch uint64) func(*model.TimeoutCert) {
	return func(tc *model.TimeoutCert) {
		tc.Epoch = epoch
	}
}

func WithTCSigners(signerIDs []model.Identifier) func(*model.TimeoutCert) {
	return func(tc *model.TimeoutCert) {
		tc.AggregatedSig.SignerIDs = signerIDs
	}
}

func MakeSyncInfo(options ...func(*model.SyncInfo)) *model.SyncInfo {
	qc := MakeQC()
	syncInfo := &model.SyncInfo{
		HighestQuorumCert: qc,
		HighestCommitCert: qc,
	}
	for _, option := range options {
		option(syncInfo)
	}
	return syncInfo
}

func WithSyncInfoQC(qc *model.QuorumCert) func(*model.SyncInfo) {
	return func(syncInfo *model.SyncInfo) {
		syncInfo.HighestQuorumCert = qc
	}
}

func WithSyncInfoCommitCert(qc *model.QuorumCert) func(*model.SyncInfo) {
	return func(syncInfo *model.SyncInfo) {
		syncInfo.HighestCommitCert = qc
	}
}

func WithSyncInfoTC(tc *model.TimeoutCert) func(*model.SyncInfo) {
	return func(syncInfo *model.SyncInfo) {
		syncInfo.HighestTimeoutCert = tc
	}
}

// MakeBlock returns a valid block extending the given (or a fixture)
// certificate. Options mutate the untrusted input before construction;
// the fixture panics on inconsistent combinations, which indicates a
// broken test setup.
func MakeBlock(options ...func(*model.UntrustedBlock)) *model.Block {
	qc := MakeQC(WithQCRound(9))
	untrusted := model.UntrustedBlock{
		Epoch:     1,
		Round:     10,
		Timestamp: uint64(time.Now().UnixMilli()),
		Payload:   []byte("payload"),
		AuthorID:  IdentifierFixture(),
		QC:        qc,
	}
	for _, option := range options {
		option(&untrusted)
	}
	block, err := model.NewBlock(untrusted)
	if err != nil {
		panic(err)
	}
	return block
}

func WithBlockQC(qc *model.QuorumCert) func(*model.UntrustedBlock) {
	return func(untrusted *model.UntrustedBlock) {
		untrusted.QC = qc
	}
}

func WithBlockRound(round uint64) func(*model.UntrustedBlock) {
	return func(untrusted *model.UntrustedBlock) {
		untrusted.Round = round
	}
}

func WithBlockEpoch(epoch uint64) func(*model.UntrustedBlock) {
	return func(untrusted *model.UntrustedBlock) {
		untrusted.Epoch = epoch
	}
}

func WithBlockAuthor(authorID model.Identifier) func(*model.UntrustedBlock) {
	return func(untrusted *model.UntrustedBlock) {
		untrusted.AuthorID = authorID
	}
}

// TimeoutVoteFixture returns a timeout vote with a random signature.
func TimeoutVoteFixture(options ...func(*model.TimeoutVote)) *model.TimeoutVote {
	tv := &model.TimeoutVote{
		Epoch:    1,
		Round:    10,
		AuthorID: IdentifierFixture(),
		Sig:      SignatureFixture(),
	}
	for _, option := range options {
		option(tv)
	}
	return tv
}

func WithTimeoutVoteRound(round uint64) func(*model.TimeoutVote) {
	return func(tv *model.TimeoutVote) {
		tv.Round = round
	}
}

func WithTimeoutVoteAuthor(authorID model.Identifier) func(*model.TimeoutVote) {
	return func(tv *model.TimeoutVote) {
		tv.AuthorID = authorID
	}
}
