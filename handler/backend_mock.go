// Code generated in the style of mockgen for the handler package's
// driven interfaces; adapted from the teacher's own gomock-based
// consensus/tendermint/core/backend_mock.go to this package's Store,
// Engine, and ValidatorSetReader seams.
package handler

import (
	"context"
	"reflect"

	gethengine "github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/mock/gomock"

	appengine "github.com/autonity/emerald/engine"
	"github.com/autonity/emerald/types"
)

// MockStore is a mock of the Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
}

type MockStoreMockRecorder struct {
	mock *MockStore
}

func NewMockStore(ctrl *gomock.Controller) *MockStore {
	m := &MockStore{ctrl: ctrl}
	m.recorder = &MockStoreMockRecorder{m}
	return m
}

func (m *MockStore) EXPECT() *MockStoreMockRecorder { return m.recorder }

func (m *MockStore) CommitDecided(height types.Height, cert types.CommitCertificate, value types.Value, headerSSZ []byte) error {
	ret := m.ctrl.Call(m, "CommitDecided", height, cert, value, headerSSZ)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockStoreMockRecorder) CommitDecided(height, cert, value, headerSSZ interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CommitDecided", reflect.TypeOf((*MockStore)(nil).CommitDecided), height, cert, value, headerSSZ)
}

func (m *MockStore) PutDecidedBlockData(height types.Height, data []byte) error {
	ret := m.ctrl.Call(m, "PutDecidedBlockData", height, data)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockStoreMockRecorder) PutDecidedBlockData(height, data interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutDecidedBlockData", reflect.TypeOf((*MockStore)(nil).PutDecidedBlockData), height, data)
}

func (m *MockStore) IncrementMetrics(deltas map[string]uint64) error {
	ret := m.ctrl.Call(m, "IncrementMetrics", deltas)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockStoreMockRecorder) IncrementMetrics(deltas interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IncrementMetrics", reflect.TypeOf((*MockStore)(nil).IncrementMetrics), deltas)
}

func (m *MockStore) GetCertificate(height types.Height) (types.CommitCertificate, error) {
	ret := m.ctrl.Call(m, "GetCertificate", height)
	cert, _ := ret[0].(types.CommitCertificate)
	err, _ := ret[1].(error)
	return cert, err
}

func (mr *MockStoreMockRecorder) GetCertificate(height interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetCertificate", reflect.TypeOf((*MockStore)(nil).GetCertificate), height)
}

func (m *MockStore) GetDecidedValue(height types.Height) (types.Value, error) {
	ret := m.ctrl.Call(m, "GetDecidedValue", height)
	value, _ := ret[0].(types.Value)
	err, _ := ret[1].(error)
	return value, err
}

func (mr *MockStoreMockRecorder) GetDecidedValue(height interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetDecidedValue", reflect.TypeOf((*MockStore)(nil).GetDecidedValue), height)
}

func (m *MockStore) GetBlockHeader(height types.Height) ([]byte, error) {
	ret := m.ctrl.Call(m, "GetBlockHeader", height)
	data, _ := ret[0].([]byte)
	err, _ := ret[1].(error)
	return data, err
}

func (mr *MockStoreMockRecorder) GetBlockHeader(height interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBlockHeader", reflect.TypeOf((*MockStore)(nil).GetBlockHeader), height)
}

func (m *MockStore) GetBlockData(height types.Height) ([]byte, error) {
	ret := m.ctrl.Call(m, "GetBlockData", height)
	data, _ := ret[0].([]byte)
	err, _ := ret[1].(error)
	return data, err
}

func (mr *MockStoreMockRecorder) GetBlockData(height interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBlockData", reflect.TypeOf((*MockStore)(nil).GetBlockData), height)
}

func (m *MockStore) MaxDecidedHeight() (types.Height, bool, error) {
	ret := m.ctrl.Call(m, "MaxDecidedHeight")
	h, _ := ret[0].(types.Height)
	found, _ := ret[1].(bool)
	err, _ := ret[2].(error)
	return h, found, err
}

func (mr *MockStoreMockRecorder) MaxDecidedHeight() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MaxDecidedHeight", reflect.TypeOf((*MockStore)(nil).MaxDecidedHeight))
}

func (m *MockStore) EarliestCertificateHeight() (types.Height, bool, error) {
	ret := m.ctrl.Call(m, "EarliestCertificateHeight")
	h, _ := ret[0].(types.Height)
	found, _ := ret[1].(bool)
	err, _ := ret[2].(error)
	return h, found, err
}

func (mr *MockStoreMockRecorder) EarliestCertificateHeight() *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EarliestCertificateHeight", reflect.TypeOf((*MockStore)(nil).EarliestCertificateHeight))
}

func (m *MockStore) PutUndecidedProposal(height types.Height, round types.Round, id types.ValueID, p types.Proposal) error {
	ret := m.ctrl.Call(m, "PutUndecidedProposal", height, round, id, p)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockStoreMockRecorder) PutUndecidedProposal(height, round, id, p interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutUndecidedProposal", reflect.TypeOf((*MockStore)(nil).PutUndecidedProposal), height, round, id, p)
}

func (m *MockStore) ProposalsForRound(height types.Height, round types.Round) ([]types.Proposal, error) {
	ret := m.ctrl.Call(m, "ProposalsForRound", height, round)
	proposals, _ := ret[0].([]types.Proposal)
	err, _ := ret[1].(error)
	return proposals, err
}

func (mr *MockStoreMockRecorder) ProposalsForRound(height, round interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ProposalsForRound", reflect.TypeOf((*MockStore)(nil).ProposalsForRound), height, round)
}

func (m *MockStore) PutUndecidedBlockData(height types.Height, round types.Round, id types.ValueID, data []byte) error {
	ret := m.ctrl.Call(m, "PutUndecidedBlockData", height, round, id, data)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockStoreMockRecorder) PutUndecidedBlockData(height, round, id, data interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutUndecidedBlockData", reflect.TypeOf((*MockStore)(nil).PutUndecidedBlockData), height, round, id, data)
}

func (m *MockStore) GetUndecidedBlockData(height types.Height, round types.Round, id types.ValueID) ([]byte, error) {
	ret := m.ctrl.Call(m, "GetUndecidedBlockData", height, round, id)
	data, _ := ret[0].([]byte)
	err, _ := ret[1].(error)
	return data, err
}

func (mr *MockStoreMockRecorder) GetUndecidedBlockData(height, round, id interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUndecidedBlockData", reflect.TypeOf((*MockStore)(nil).GetUndecidedBlockData), height, round, id)
}

func (m *MockStore) PutPendingParts(syntheticID uint32, parts types.PendingProposalParts) error {
	ret := m.ctrl.Call(m, "PutPendingParts", syntheticID, parts)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockStoreMockRecorder) PutPendingParts(syntheticID, parts interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PutPendingParts", reflect.TypeOf((*MockStore)(nil).PutPendingParts), syntheticID, parts)
}

func (m *MockStore) PendingPartsAtHeight(height types.Height) ([]types.PendingProposalParts, error) {
	ret := m.ctrl.Call(m, "PendingPartsAtHeight", height)
	parts, _ := ret[0].([]types.PendingProposalParts)
	err, _ := ret[1].(error)
	return parts, err
}

func (mr *MockStoreMockRecorder) PendingPartsAtHeight(height interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PendingPartsAtHeight", reflect.TypeOf((*MockStore)(nil).PendingPartsAtHeight), height)
}

func (m *MockStore) Prune(retainHeight types.Height, pruneCertificates bool) error {
	ret := m.ctrl.Call(m, "Prune", retainHeight, pruneCertificates)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockStoreMockRecorder) Prune(retainHeight, pruneCertificates interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Prune", reflect.TypeOf((*MockStore)(nil).Prune), retainHeight, pruneCertificates)
}

// MockEngine is a mock of the Engine interface.
type MockEngine struct {
	ctrl     *gomock.Controller
	recorder *MockEngineMockRecorder
}

type MockEngineMockRecorder struct {
	mock *MockEngine
}

func NewMockEngine(ctrl *gomock.Controller) *MockEngine {
	m := &MockEngine{ctrl: ctrl}
	m.recorder = &MockEngineMockRecorder{m}
	return m
}

func (m *MockEngine) EXPECT() *MockEngineMockRecorder { return m.recorder }

func (m *MockEngine) GeneratePayload(ctx context.Context, parent types.ExecutionBlock, feeRecipient common.Address) (*gethengine.ExecutableData, error) {
	ret := m.ctrl.Call(m, "GeneratePayload", ctx, parent, feeRecipient)
	payload, _ := ret[0].(*gethengine.ExecutableData)
	err, _ := ret[1].(error)
	return payload, err
}

func (mr *MockEngineMockRecorder) GeneratePayload(ctx, parent, feeRecipient interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GeneratePayload", reflect.TypeOf((*MockEngine)(nil).GeneratePayload), ctx, parent, feeRecipient)
}

func (m *MockEngine) NewPayload(ctx context.Context, payload *gethengine.ExecutableData, blobs []common.Hash, root common.Hash) (appengine.NewPayloadResult, error) {
	ret := m.ctrl.Call(m, "NewPayload", ctx, payload, blobs, root)
	result, _ := ret[0].(appengine.NewPayloadResult)
	err, _ := ret[1].(error)
	return result, err
}

func (mr *MockEngineMockRecorder) NewPayload(ctx, payload, blobs, root interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NewPayload", reflect.TypeOf((*MockEngine)(nil).NewPayload), ctx, payload, blobs, root)
}

func (m *MockEngine) ForkchoiceUpdated(ctx context.Context, head common.Hash, attrs *gethengine.PayloadAttributes) (appengine.ForkchoiceUpdateResult, error) {
	ret := m.ctrl.Call(m, "ForkchoiceUpdated", ctx, head, attrs)
	result, _ := ret[0].(appengine.ForkchoiceUpdateResult)
	err, _ := ret[1].(error)
	return result, err
}

func (mr *MockEngineMockRecorder) ForkchoiceUpdated(ctx, head, attrs interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ForkchoiceUpdated", reflect.TypeOf((*MockEngine)(nil).ForkchoiceUpdated), ctx, head, attrs)
}

func (m *MockEngine) GetPayloadBodiesByRange(ctx context.Context, start, count uint64) ([]*appengine.PayloadBody, error) {
	ret := m.ctrl.Call(m, "GetPayloadBodiesByRange", ctx, start, count)
	bodies, _ := ret[0].([]*appengine.PayloadBody)
	err, _ := ret[1].(error)
	return bodies, err
}

func (mr *MockEngineMockRecorder) GetPayloadBodiesByRange(ctx, start, count interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetPayloadBodiesByRange", reflect.TypeOf((*MockEngine)(nil).GetPayloadBodiesByRange), ctx, start, count)
}

// MockValidatorSetReader is a mock of the ValidatorSetReader interface.
type MockValidatorSetReader struct {
	ctrl     *gomock.Controller
	recorder *MockValidatorSetReaderMockRecorder
}

type MockValidatorSetReaderMockRecorder struct {
	mock *MockValidatorSetReader
}

func NewMockValidatorSetReader(ctrl *gomock.Controller) *MockValidatorSetReader {
	m := &MockValidatorSetReader{ctrl: ctrl}
	m.recorder = &MockValidatorSetReaderMockRecorder{m}
	return m
}

func (m *MockValidatorSetReader) EXPECT() *MockValidatorSetReaderMockRecorder { return m.recorder }

func (m *MockValidatorSetReader) ReadAt(ctx context.Context, blockHash common.Hash) (types.ValidatorSet, error) {
	ret := m.ctrl.Call(m, "ReadAt", ctx, blockHash)
	set, _ := ret[0].(types.ValidatorSet)
	err, _ := ret[1].(error)
	return set, err
}

func (mr *MockValidatorSetReaderMockRecorder) ReadAt(ctx, blockHash interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReadAt", reflect.TypeOf((*MockValidatorSetReader)(nil).ReadAt), ctx, blockHash)
}

// MockOutbox is a mock of the Outbox interface.
type MockOutbox struct {
	ctrl     *gomock.Controller
	recorder *MockOutboxMockRecorder
}

type MockOutboxMockRecorder struct {
	mock *MockOutbox
}

func NewMockOutbox(ctrl *gomock.Controller) *MockOutbox {
	m := &MockOutbox{ctrl: ctrl}
	m.recorder = &MockOutboxMockRecorder{m}
	return m
}

func (m *MockOutbox) EXPECT() *MockOutboxMockRecorder { return m.recorder }

func (m *MockOutbox) Publish(ctx context.Context, msg types.StreamMessage) {
	m.ctrl.Call(m, "Publish", ctx, msg)
}

func (mr *MockOutboxMockRecorder) Publish(ctx, msg interface{}) *gomock.Call {
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Publish", reflect.TypeOf((*MockOutbox)(nil).Publish), ctx, msg)
}
