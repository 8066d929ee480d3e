// Package mocks holds gomock mocks of the review package interfaces. They follow
// mockgen's layout and are replaced by the go:generate directive in
// review/repository.go when regenerated.
package mocks

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	review "github.com/skillswap/skillswap/internal/domain/review"
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
func (m *MockRepository) Create(ctx context.Context, r *review.Review) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, r)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockRepositoryMockRecorder) Create(ctx any, r any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockRepository)(nil).Create), ctx, r)
}

// GetByReviewerAndSession mocks base method.
func (m *MockRepository) GetByReviewerAndSession(ctx context.Context, reviewerID uuid.UUID, sessionID uuid.UUID) (*review.Review, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByReviewerAndSession", ctx, reviewerID, sessionID)
	ret0, _ := ret[0].(*review.Review)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByReviewerAndSession indicates an expected call of GetByReviewerAndSession.
func (mr *MockRepositoryMockRecorder) GetByReviewerAndSession(ctx any, reviewerID any, sessionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByReviewerAndSession", reflect.TypeOf((*MockRepository)(nil).GetByReviewerAndSession), ctx, reviewerID, sessionID)
}

// List mocks base method.
func (m *MockRepository) List(ctx context.Context, filter review.Filter) ([]*review.Review, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx, filter)
	ret0, _ := ret[0].([]*review.Review)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// List indicates an expected call of List.
func (mr *MockRepositoryMockRecorder) List(ctx any, filter any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockRepository)(nil).List), ctx, filter)
}
