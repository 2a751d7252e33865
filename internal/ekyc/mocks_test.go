package ekyc

import (
	"context"
	"time"

	"ekyc/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

// RunInTx runs fn against the mock itself; commit and rollback are not modelled.
func (m *MockRepository) RunInTx(ctx context.Context, fn func(tx Repository) error) error {
	return fn(m)
}

func (m *MockRepository) CreateApplication(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockRepository) UpdateApplication(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockRepository) FindApplicationByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockRepository) FindApplicationByUserID(ctx context.Context, userID uuid.UUID) (*domain.Application, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockRepository) LockApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockRepository) LockApplicationByUserID(ctx context.Context, userID uuid.UUID) (*domain.Application, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockRepository) NationalIDTaken(ctx context.Context, nationalID string, exclude uuid.UUID) (bool, error) {
	args := m.Called(ctx, nationalID, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) RegistrationNumberTaken(ctx context.Context, number string, exclude uuid.UUID) (bool, error) {
	args := m.Called(ctx, number, exclude)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) FindByStatus(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]*domain.Application, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Application), args.Error(1)
}

func (m *MockRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ApplicationStatus]int), args.Error(1)
}

func (m *MockRepository) AverageApprovedScore(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) CreateDocument(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) UpdateDocument(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) FindDocumentByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockRepository) FindDocumentsByApplicationID(ctx context.Context, appID uuid.UUID) ([]*domain.Document, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Document), args.Error(1)
}

func (m *MockRepository) CreateMedia(ctx context.Context, media *domain.Media) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockRepository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) MediaCountByTypeForApplication(ctx context.Context, appID uuid.UUID, t domain.DocumentType) (int, error) {
	args := m.Called(ctx, appID, t)
	return args.Int(0), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfileCompletion(ctx context.Context, id uuid.UUID, completion int, verified bool, at time.Time) error {
	args := m.Called(ctx, id, completion, verified, at)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID uuid.UUID, title, body string, channel domain.NotificationChannel) error {
	args := m.Called(ctx, userID, title, body, channel)
	return args.Error(0)
}

type MockScoreCache struct {
	mock.Mock
}

func (m *MockScoreCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockScoreCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
