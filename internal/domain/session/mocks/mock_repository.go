// Package mocks holds gomock mocks of the session package interfaces. They follow
// mockgen's layout and are replaced by the go:generate directive in
// session/repository.go when regenerated.
package mocks

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	session "github.com/skillswap/skillswap/internal/domain/session"
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

// Create mocks base method.
func (m *MockRepository) Create(ctx context.Context, s *session.Session) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, s)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockRepositoryMockRecorder) Create(ctx any, s any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockRepository)(nil).Create), ctx, s)
}

// GetByID mocks base method.
func (m *MockRepository) GetByID(ctx context.Context, sessionID uuid.UUID) (*session.Session, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, sessionID)
	ret0, _ := ret[0].(*session.Session)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockRepositoryMockRecorder) GetByID(ctx any, sessionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockRepository)(nil).GetByID), ctx, sessionID)
}

// ListByUser mocks base method.
func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter session.Filter) ([]*session.Session, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByUser", ctx, userID, filter)
	ret0, _ := ret[0].([]*session.Session)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByUser indicates an expected call of ListByUser.
func (mr *MockRepositoryMockRecorder) ListByUser(ctx any, userID any, filter any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByUser", reflect.TypeOf((*MockRepository)(nil).ListByUser), ctx, userID, filter)
}

// Update mocks base method.
func (m *MockRepository) Update(ctx context.Context, s *session.Session, expectedVersion int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, s, expectedVersion)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockRepositoryMockRecorder) Update(ctx any, s any, expectedVersion any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockRepository)(nil).Update), ctx, s, expectedVersion)
}

// MockCounterOfferRepository is a mock of CounterOfferRepository interface.
type MockCounterOfferRepository struct {
	ctrl     *gomock.Controller
	recorder *MockCounterOfferRepositoryMockRecorder
	isgomock struct{}
}

// MockCounterOfferRepositoryMockRecorder is the mock recorder for MockCounterOfferRepository.
type MockCounterOfferRepositoryMockRecorder struct {
	mock *MockCounterOfferRepository
}

// NewMockCounterOfferRepository creates a new mock instance.
func NewMockCounterOfferRepository(ctrl *gomock.Controller) *MockCounterOfferRepository {
	mock := &MockCounterOfferRepository{ctrl: ctrl}
	mock.recorder = &MockCounterOfferRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCounterOfferRepository) EXPECT() *MockCounterOfferRepositoryMockRecorder {
	return m.recorder
}

// Accept mocks base method.
func (m *MockCounterOfferRepository) Accept(ctx context.Context, c *session.CounterOffer, offerVersion int64, origin *session.Session, originVersion int64) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Accept", ctx, c, offerVersion, origin, originVersion)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Accept indicates an expected call of Accept.
func (mr *MockCounterOfferRepositoryMockRecorder) Accept(ctx any, c any, offerVersion any, origin any, originVersion any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Accept", reflect.TypeOf((*MockCounterOfferRepository)(nil).Accept), ctx, c, offerVersion, origin, originVersion)
}

// Create mocks base method.
func (m *MockCounterOfferRepository) Create(ctx context.Context, c *session.CounterOffer, originVersion int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, c, originVersion)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockCounterOfferRepositoryMockRecorder) Create(ctx any, c any, originVersion any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockCounterOfferRepository)(nil).Create), ctx, c, originVersion)
}

// GetByID mocks base method.
func (m *MockCounterOfferRepository) GetByID(ctx context.Context, counterOfferID uuid.UUID) (*session.CounterOffer, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, counterOfferID)
	ret0, _ := ret[0].(*session.CounterOffer)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockCounterOfferRepositoryMockRecorder) GetByID(ctx any, counterOfferID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockCounterOfferRepository)(nil).GetByID), ctx, counterOfferID)
}

// ListBySession mocks base method.
func (m *MockCounterOfferRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*session.CounterOffer, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListBySession", ctx, sessionID)
	ret0, _ := ret[0].([]*session.CounterOffer)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListBySession indicates an expected call of ListBySession.
func (mr *MockCounterOfferRepositoryMockRecorder) ListBySession(ctx any, sessionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListBySession", reflect.TypeOf((*MockCounterOfferRepository)(nil).ListBySession), ctx, sessionID)
}

// Update mocks base method.
func (m *MockCounterOfferRepository) Update(ctx context.Context, c *session.CounterOffer, expectedVersion int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, c, expectedVersion)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockCounterOfferRepositoryMockRecorder) Update(ctx any, c any, expectedVersion any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockCounterOfferRepository)(nil).Update), ctx, c, expectedVersion)
}

// MockWorkRepository is a mock of WorkRepository interface.
type MockWorkRepository struct {
	ctrl     *gomock.Controller
	recorder *MockWorkRepositoryMockRecorder
	isgomock struct{}
}

// MockWorkRepositoryMockRecorder is the mock recorder for MockWorkRepository.
type MockWorkRepositoryMockRecorder struct {
	mock *MockWorkRepository
}

// NewMockWorkRepository creates a new mock instance.
func NewMockWorkRepository(ctrl *gomock.Controller) *MockWorkRepository {
	mock := &MockWorkRepository{ctrl: ctrl}
	mock.recorder = &MockWorkRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockWorkRepository) EXPECT() *MockWorkRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockWorkRepository) Create(ctx context.Context, w *session.WorkSubmission, sessionVersion int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, w, sessionVersion)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockWorkRepositoryMockRecorder) Create(ctx any, w any, sessionVersion any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockWorkRepository)(nil).Create), ctx, w, sessionVersion)
}

// GetByID mocks base method.
func (m *MockWorkRepository) GetByID(ctx context.Context, submissionID uuid.UUID) (*session.WorkSubmission, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, submissionID)
	ret0, _ := ret[0].(*session.WorkSubmission)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockWorkRepositoryMockRecorder) GetByID(ctx any, submissionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockWorkRepository)(nil).GetByID), ctx, submissionID)
}

// ListBySession mocks base method.
func (m *MockWorkRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*session.WorkSubmission, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListBySession", ctx, sessionID)
	ret0, _ := ret[0].([]*session.WorkSubmission)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListBySession indicates an expected call of ListBySession.
func (mr *MockWorkRepositoryMockRecorder) ListBySession(ctx any, sessionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListBySession", reflect.TypeOf((*MockWorkRepository)(nil).ListBySession), ctx, sessionID)
}

// Update mocks base method.
func (m *MockWorkRepository) Update(ctx context.Context, w *session.WorkSubmission, expectedVersion, sessionVersion int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, w, expectedVersion, sessionVersion)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockWorkRepositoryMockRecorder) Update(ctx any, w any, expectedVersion any, sessionVersion any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockWorkRepository)(nil).Update), ctx, w, expectedVersion, sessionVersion)
}
