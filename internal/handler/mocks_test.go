package handler

import (
	"context"

	"ekyc/internal/domain"
	"ekyc/internal/ekyc"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockEKYCService struct {
	mock.Mock
}

func (m *MockEKYCService) app(args mock.Arguments) (*domain.Application, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockEKYCService) doc(args mock.Arguments) (*domain.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockEKYCService) apps(args mock.Arguments) ([]*domain.Application, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Application), args.Error(1)
}

func (m *MockEKYCService) SaveProfile(ctx context.Context, userID uuid.UUID, in ekyc.ProfileInput) (*domain.Application, error) {
	return m.app(m.Called(ctx, userID, in))
}

func (m *MockEKYCService) GetMyApplication(ctx context.Context, userID uuid.UUID) (*domain.Application, error) {
	return m.app(m.Called(ctx, userID))
}

func (m *MockEKYCService) GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	return m.app(m.Called(ctx, id))
}

func (m *MockEKYCService) UploadDocument(ctx context.Context, userID, appID uuid.UUID, up ekyc.DocumentUpload) (*domain.Document, error) {
	return m.doc(m.Called(ctx, userID, appID, up))
}

func (m *MockEKYCService) CreateDocument(ctx context.Context, userID, appID uuid.UUID, t domain.DocumentType, name, description string) (*domain.Document, error) {
	return m.doc(m.Called(ctx, userID, appID, t, name, description))
}

func (m *MockEKYCService) RemoveMedia(ctx context.Context, userID, documentID, mediaID uuid.UUID) error {
	args := m.Called(ctx, userID, documentID, mediaID)
	return args.Error(0)
}

func (m *MockEKYCService) ListDocuments(ctx context.Context, userID, appID uuid.UUID) ([]*domain.Document, error) {
	args := m.Called(ctx, userID, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Document), args.Error(1)
}

func (m *MockEKYCService) DocumentRequirements(ctx context.Context, userID, appID uuid.UUID) ([]ekyc.DocumentRequirement, error) {
	args := m.Called(ctx, userID, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ekyc.DocumentRequirement), args.Error(1)
}

func (m *MockEKYCService) Submit(ctx context.Context, userID, appID uuid.UUID) (*domain.Application, error) {
	return m.app(m.Called(ctx, userID, appID))
}

func (m *MockEKYCService) Cancel(ctx context.Context, userID, appID uuid.UUID) (*domain.Application, error) {
	return m.app(m.Called(ctx, userID, appID))
}

func (m *MockEKYCService) StartReview(ctx context.Context, adminID, appID uuid.UUID) (*domain.Application, error) {
	return m.app(m.Called(ctx, adminID, appID))
}

func (m *MockEKYCService) Review(ctx context.Context, in ekyc.ReviewInput) (*domain.Application, error) {
	return m.app(m.Called(ctx, in))
}

func (m *MockEKYCService) VerifyDocument(ctx context.Context, adminID, documentID uuid.UUID, verified bool, notes string) (*domain.Document, error) {
	return m.doc(m.Called(ctx, adminID, documentID, verified, notes))
}

func (m *MockEKYCService) ListByStatus(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]*domain.Application, error) {
	return m.apps(m.Called(ctx, status, limit, offset))
}

func (m *MockEKYCService) ListPending(ctx context.Context, limit, offset int) ([]*domain.Application, error) {
	return m.apps(m.Called(ctx, limit, offset))
}

func (m *MockEKYCService) Statistics(ctx context.Context) (*ekyc.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ekyc.Statistics), args.Error(1)
}

func (m *MockEKYCService) MyScoreBreakdown(ctx context.Context, userID uuid.UUID) (*ekyc.ScoreBreakdown, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ekyc.ScoreBreakdown), args.Error(1)
}

func (m *MockEKYCService) ScoreBreakdown(ctx context.Context, appID uuid.UUID) (*ekyc.ScoreBreakdown, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ekyc.ScoreBreakdown), args.Error(1)
}

func (m *MockEKYCService) ProfileCompletion(ctx context.Context, userID uuid.UUID) (*ekyc.Completion, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ekyc.Completion), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
