// Package mocks holds gomock mocks of the meeting package interfaces. They follow
// mockgen's layout and are replaced by the go:generate directive in
// meeting/repository.go when regenerated.
package mocks

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	meeting "github.com/skillswap/skillswap/internal/domain/meeting"
)

// MockRepository is a mock of Repository interface.
type MockRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRepositoryMockRecorder
	isgomock struct{}
}

// MockRepositoryMockRecorder is the mock recorder for MockRepository.
type MockRepositoryMockRecorder struct {
	mock *MockRepository
}

// NewMockRepository creates a new mock instance.
func NewMockRepository(ctrl *gomock.Controller) *MockRepository {
	mock := &MockRepository{ctrl: ctrl}
	mock.recorder = &MockRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRepository) EXPECT() *MockRepositoryMockRecorder {
	return m.recorder
}

// Cancel mocks base method.
func (m *MockRepository) Cancel(ctx context.Context, m0 *meeting.Meeting, expectedVersion int64, notice *meeting.Cancellation) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Cancel", ctx, m0, expectedVersion, notice)
	ret0, _ := ret[0].(error)
	return ret0
}

// Cancel indicates an expected call of Cancel.
func (mr *MockRepositoryMockRecorder) Cancel(ctx any, m0 any, expectedVersion any, notice any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Cancel", reflect.TypeOf((*MockRepository)(nil).Cancel), ctx, m0, expectedVersion, notice)
}

// CreateWithinLimit mocks base method.
func (m *MockRepository) CreateWithinLimit(ctx context.Context, m0 *meeting.Meeting, limit int, now time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateWithinLimit", ctx, m0, limit, now)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateWithinLimit indicates an expected call of CreateWithinLimit.
func (mr *MockRepositoryMockRecorder) CreateWithinLimit(ctx any, m0 any, limit any, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateWithinLimit", reflect.TypeOf((*MockRepository)(nil).CreateWithinLimit), ctx, m0, limit, now)
}

// GetByID mocks base method.
func (m *MockRepository) GetByID(ctx context.Context, meetingID uuid.UUID) (*meeting.Meeting, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, meetingID)
	ret0, _ := ret[0].(*meeting.Meeting)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockRepositoryMockRecorder) GetByID(ctx any, meetingID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockRepository)(nil).GetByID), ctx, meetingID)
}

// ListAcceptedBefore mocks base method.
func (m *MockRepository) ListAcceptedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*meeting.Meeting, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListAcceptedBefore", ctx, cutoff, limit)
	ret0, _ := ret[0].([]*meeting.Meeting)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListAcceptedBefore indicates an expected call of ListAcceptedBefore.
func (mr *MockRepositoryMockRecorder) ListAcceptedBefore(ctx any, cutoff any, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListAcceptedBefore", reflect.TypeOf((*MockRepository)(nil).ListAcceptedBefore), ctx, cutoff, limit)
}

// ListByUser mocks base method.
func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*meeting.Meeting, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByUser", ctx, userID)
	ret0, _ := ret[0].([]*meeting.Meeting)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByUser indicates an expected call of ListByUser.
func (mr *MockRepositoryMockRecorder) ListByUser(ctx any, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByUser", reflect.TypeOf((*MockRepository)(nil).ListByUser), ctx, userID)
}

// Update mocks base method.
func (m *MockRepository) Update(ctx context.Context, m0 *meeting.Meeting, expectedVersion int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, m0, expectedVersion)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockRepositoryMockRecorder) Update(ctx any, m0 any, expectedVersion any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockRepository)(nil).Update), ctx, m0, expectedVersion)
}

// MockCancellationRepository is a mock of CancellationRepository interface.
type MockCancellationRepository struct {
	ctrl     *gomock.Controller
	recorder *MockCancellationRepositoryMockRecorder
	isgomock struct{}
}

// MockCancellationRepositoryMockRecorder is the mock recorder for MockCancellationRepository.
type MockCancellationRepositoryMockRecorder struct {
	mock *MockCancellationRepository
}

// NewMockCancellationRepository creates a new mock instance.
func NewMockCancellationRepository(ctrl *gomock.Controller) *MockCancellationRepository {
	mock := &MockCancellationRepository{ctrl: ctrl}
	mock.recorder = &MockCancellationRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCancellationRepository) EXPECT() *MockCancellationRepositoryMockRecorder {
	return m.recorder
}

// GetByID mocks base method.
func (m *MockCancellationRepository) GetByID(ctx context.Context, cancellationID uuid.UUID) (*meeting.Cancellation, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, cancellationID)
	ret0, _ := ret[0].(*meeting.Cancellation)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockCancellationRepositoryMockRecorder) GetByID(ctx any, cancellationID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockCancellationRepository)(nil).GetByID), ctx, cancellationID)
}

// ListForRecipient mocks base method.
func (m *MockCancellationRepository) ListForRecipient(ctx context.Context, userID uuid.UUID, unacknowledgedOnly bool) ([]*meeting.Cancellation, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListForRecipient", ctx, userID, unacknowledgedOnly)
	ret0, _ := ret[0].([]*meeting.Cancellation)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListForRecipient indicates an expected call of ListForRecipient.
func (mr *MockCancellationRepositoryMockRecorder) ListForRecipient(ctx any, userID any, unacknowledgedOnly any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListForRecipient", reflect.TypeOf((*MockCancellationRepository)(nil).ListForRecipient), ctx, userID, unacknowledgedOnly)
}

// Update mocks base method.
func (m *MockCancellationRepository) Update(ctx context.Context, c *meeting.Cancellation, expectedVersion int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, c, expectedVersion)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockCancellationRepositoryMockRecorder) Update(ctx any, c any, expectedVersion any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockCancellationRepository)(nil).Update), ctx, c, expectedVersion)
}
