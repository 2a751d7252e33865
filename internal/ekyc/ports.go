package ekyc

import (
	"context"
	"time"

	"ekyc/internal/domain"

	"github.com/google/uuid"
)

// ==============================================================================
// REPOSITORY INTERFACES
// ==============================================================================

// Repository persists applications, documents and media. Implementations must
// return errors.ErrApplicationNotFound / ErrDocumentNotFound / ErrMediaNotFound
// for missing rows and errors.ErrConcurrentModification when an update's
// version check fails.
type Repository interface {
	// RunInTx runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(tx Repository) error) error

	// Application operations. Find* variants load documents and media.
	CreateApplication(ctx context.Context, app *domain.Application) error
	UpdateApplication(ctx context.Context, app *domain.Application) error
	FindApplicationByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	FindApplicationByUserID(ctx context.Context, userID uuid.UUID) (*domain.Application, error)
	// LockApplication loads the application row with SELECT ... FOR UPDATE.
	LockApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	LockApplicationByUserID(ctx context.Context, userID uuid.UUID) (*domain.Application, error)
	NationalIDTaken(ctx context.Context, nationalID string, exclude uuid.UUID) (bool, error)
	RegistrationNumberTaken(ctx context.Context, number string, exclude uuid.UUID) (bool, error)
	FindByStatus(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]*domain.Application, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int, error)
	AverageApprovedScore(ctx context.Context) (float64, error)

	// Document operations
	CreateDocument(ctx context.Context, doc *domain.Document) error
	UpdateDocument(ctx context.Context, doc *domain.Document) error
	FindDocumentByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	FindDocumentsByApplicationID(ctx context.Context, appID uuid.UUID) ([]*domain.Document, error)

	// Media operations
	CreateMedia(ctx context.Context, m *domain.Media) error
	DeleteMedia(ctx context.Context, id uuid.UUID) error
	MediaCountByTypeForApplication(ctx context.Context, appID uuid.UUID, t domain.DocumentType) (int, error)
}

// UserRepository defines user-related operations needed for eKYC.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfileCompletion(ctx context.Context, id uuid.UUID, completion int, verified bool, at time.Time) error
}

// Notifier delivers a message to a user. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, body string, channel domain.NotificationChannel) error
}

// ScoreCache stores computed score breakdowns. Get returns an error on miss.
type ScoreCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
