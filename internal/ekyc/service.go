// ==============================================================================
// EKYC SERVICE - internal/ekyc/service.go
// ==============================================================================
// Application lifecycle: profile capture, document uploads, submission and
// admin review. Every mutation runs in one transaction holding the
// application's row lock; notifications are sent after commit.
// ==============================================================================

package ekyc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ekyc/internal/domain"
	"ekyc/pkg/errors"
	"ekyc/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxBankAccountLength is the longest accepted account number (IBAN length).
const MaxBankAccountLength = 34

// Config tunes the service. Zero values fall back to defaults.
type Config struct {
	VerifiedThreshold int
	NotifyTimeout     time.Duration
	ScoreCacheTTL     time.Duration
}

// Service implements the eKYC business rules.
type Service struct {
	repo       Repository
	users      UserRepository
	notifier   Notifier
	cache      ScoreCache
	clock      Clock
	scorer     *Scorer
	completion *CompletionEstimator
	cfg        Config
	logger     logger.Logger
}

// NewService wires the service. notifier and cache may be nil.
func NewService(
	repo Repository,
	users UserRepository,
	notifier Notifier,
	cache ScoreCache,
	clock Clock,
	cfg Config,
	log logger.Logger,
) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 5 * time.Second
	}
	if cfg.ScoreCacheTTL <= 0 {
		cfg.ScoreCacheTTL = 10 * time.Minute
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:       repo,
		users:      users,
		notifier:   notifier,
		cache:      cache,
		clock:      clock,
		scorer:     NewScorer(clock),
		completion: NewCompletionEstimator(cfg.VerifiedThreshold),
		cfg:        cfg,
		logger:     log,
	}
}

// Scorer exposes the scorer bound to the service clock.
func (s *Service) Scorer() *Scorer { return s.scorer }

// ==============================================================================
// INPUT TYPES
// ==============================================================================

// ProfileInput is a partial profile update. Nil fields are left unchanged;
// an empty national id or registration number clears it.
type ProfileInput struct {
	NationalID                *string          `json:"national_id" validate:"omitempty,max=50"`
	CompanyName               *string          `json:"company_name" validate:"omitempty,max=200"`
	BusinessSector            *string          `json:"business_sector" validate:"omitempty,max=100"`
	BusinessPurpose           *string          `json:"business_purpose" validate:"omitempty,max=1000"`
	Address                   *string          `json:"address" validate:"omitempty,max=300"`
	City                      *string          `json:"city" validate:"omitempty,max=100"`
	Country                   *string          `json:"country" validate:"omitempty,max=100"`
	PostalCode                *string          `json:"postal_code" validate:"omitempty,max=20"`
	CompanyRegistrationNumber *string          `json:"company_registration_number" validate:"omitempty,max=50"`
	CompanyEstablishedDate    *time.Time       `json:"company_established_date"`
	BankAccountNumber         *string          `json:"bank_account_number" validate:"omitempty,max=34"`
	BankName                  *string          `json:"bank_name" validate:"omitempty,max=100"`
	MonthlyRevenue            *decimal.Decimal `json:"monthly_revenue" validate:"omitempty,gte=0"`
	AnnualRevenue             *decimal.Decimal `json:"annual_revenue" validate:"omitempty,gte=0"`
	RequestedCreditAmount     *decimal.Decimal `json:"requested_credit_amount" validate:"omitempty,gte=0"`
	NumberOfEmployees         *int             `json:"number_of_employees" validate:"omitempty,gte=1"`
	CreditPurpose             *string          `json:"credit_purpose" validate:"omitempty,max=1000"`
}

// DocumentUpload carries the metadata of a file already stored by the upload provider.
type DocumentUpload struct {
	Type             domain.DocumentType `json:"type" validate:"required,document_type"`
	Name             string              `json:"name" validate:"max=200"`
	Description      string              `json:"description" validate:"max=1000"`
	URL              string              `json:"url" validate:"required,url"`
	ProviderID       string              `json:"provider_id" validate:"max=200"`
	OriginalFileName string              `json:"original_file_name" validate:"required,max=255"`
	MimeType         string              `json:"mime_type" validate:"required,max=100,document_mime"`
	FileSize         int64               `json:"file_size" validate:"gte=0"`
}

// ReviewInput is an admin decision on an application.
type ReviewInput struct {
	ReviewerID    uuid.UUID
	ApplicationID uuid.UUID
	Decision      domain.ApplicationStatus
	Comments      string
	// FinalScore overrides the computed final score when set.
	FinalScore *int
}

// Statistics summarises the review pipeline.
type Statistics struct {
	CountByStatus        map[domain.ApplicationStatus]int `json:"count_by_status"`
	Total                int                              `json:"total"`
	PendingReview        int                              `json:"pending_review"`
	AverageApprovedScore float64                          `json:"average_approved_score"`
}

// ==============================================================================
// APPLICANT OPERATIONS
// ==============================================================================

// SaveProfile creates the caller's application in DRAFT or updates it.
// Updates are only accepted while the application is still a draft.
func (s *Service) SaveProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*domain.Application, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if in.BankAccountNumber != nil && len(strings.TrimSpace(*in.BankAccountNumber)) > MaxBankAccountLength {
		return nil, errors.Validation("bank account number exceeds %d characters", MaxBankAccountLength)
	}

	var saved *domain.Application
	created := false
	err := s.repo.RunInTx(ctx, func(tx Repository) error {
		now := s.clock.Now()
		app, err := tx.LockApplicationByUserID(ctx, userID)
		switch {
		case errors.Is(err, errors.ErrApplicationNotFound):
			created = true
			app = &domain.Application{
				ID:        uuid.New(),
				UserID:    userID,
				Country:   domain.DefaultCountry,
				Status:    domain.StatusDraft,
				MaxScore:  domain.MaxScore,
				CreatedAt: now,
			}
		case err != nil:
			return err
		case app.Status != domain.StatusDraft:
			return errors.InvalidState("application can only be edited while in %s, current status is %s",
				domain.StatusDraft, app.Status)
		}

		in.applyTo(app)

		if app.NationalID != nil {
			taken, err := tx.NationalIDTaken(ctx, *app.NationalID, app.ID)
			if err != nil {
				return err
			}
			if taken {
				return errors.Validation("national id is already registered")
			}
		}
		if app.CompanyRegistrationNumber != nil {
			taken, err := tx.RegistrationNumberTaken(ctx, *app.CompanyRegistrationNumber, app.ID)
			if err != nil {
				return err
			}
			if taken {
				return errors.Validation("company registration number is already registered")
			}
		}

		app.Score = s.scorer.CalculateScore(app)
		app.UpdatedAt = now
		if created {
			if err := tx.CreateApplication(ctx, app); err != nil {
				return err
			}
		} else if err := tx.UpdateApplication(ctx, app); err != nil {
			return err
		}
		saved = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ekyc profile saved", map[string]interface{}{
		"application_id": saved.ID,
		"user_id":        userID,
		"created":        created,
		"score":          saved.Score,
	})
	s.refreshCompletion(ctx, userID, saved)
	return saved, nil
}

func (in ProfileInput) applyTo(app *domain.Application) {
	setText := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setOptional := func(dst **string, src *string) {
		if src == nil {
			return
		}
		if v := strings.TrimSpace(*src); v != "" {
			*dst = &v
		} else {
			*dst = nil
		}
	}
	setDecimal := func(dst *decimal.NullDecimal, src *decimal.Decimal) {
		if src != nil {
			*dst = decimal.NewNullDecimal(*src)
		}
	}

	setOptional(&app.NationalID, in.NationalID)
	setText(&app.CompanyName, in.CompanyName)
	setText(&app.BusinessSector, in.BusinessSector)
	setText(&app.BusinessPurpose, in.BusinessPurpose)
	setText(&app.Address, in.Address)
	setText(&app.City, in.City)
	setText(&app.Country, in.Country)
	setText(&app.PostalCode, in.PostalCode)
	setOptional(&app.CompanyRegistrationNumber, in.CompanyRegistrationNumber)
	setText(&app.BankAccountNumber, in.BankAccountNumber)
	setText(&app.BankName, in.BankName)
	setText(&app.CreditPurpose, in.CreditPurpose)
	setDecimal(&app.MonthlyRevenue, in.MonthlyRevenue)
	setDecimal(&app.AnnualRevenue, in.AnnualRevenue)
	setDecimal(&app.RequestedCreditAmount, in.RequestedCreditAmount)
	if in.CompanyEstablishedDate != nil {
		d := in.CompanyEstablishedDate.UTC()
		app.CompanyEstablishedDate = &d
	}
	if in.NumberOfEmployees != nil {
		n := *in.NumberOfEmployees
		app.NumberOfEmployees = &n
	}
	if strings.TrimSpace(app.Country) == "" {
		app.Country = domain.DefaultCountry
	}
}

// GetMyApplication returns the caller's application with documents.
func (s *Service) GetMyApplication(ctx context.Context, userID uuid.UUID) (*domain.Application, error) {
	return s.repo.FindApplicationByUserID(ctx, userID)
}

// GetApplication returns any application by id.
func (s *Service) GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	return s.repo.FindApplicationByID(ctx, id)
}

// UploadDocument attaches a stored file to the application's slot for its
// type, creating the slot on first upload, records the data read from the
// file and re-scores the application.
func (s *Service) UploadDocument(ctx context.Context, userID, appID uuid.UUID, up DocumentUpload) (*domain.Document, error) {
	if !up.Type.IsValid() {
		return nil, errors.Validation("unknown document type %q", up.Type)
	}
	if up.FileSize > MaxFileSizeMB*1024*1024 {
		return nil, errors.Validation("file exceeds the %d MB limit", MaxFileSizeMB)
	}
	if !domain.IsAcceptedMimeType(up.MimeType) {
		return nil, errors.Validation("unsupported file format %q, accepted: %s",
			up.MimeType, strings.Join(acceptedFormats, ", "))
	}

	var doc *domain.Document
	var app *domain.Application
	err := s.repo.RunInTx(ctx, func(tx Repository) error {
		var err error
		app, err = s.lockOwned(ctx, tx, userID, appID)
		if err != nil {
			return err
		}
		if app.Status.IsTerminal() {
			return errors.InvalidState("documents cannot be added to a %s application", app.Status)
		}

		now := s.clock.Now()
		doc = app.DocumentOfType(up.Type)
		created := doc == nil
		if created {
			doc = newDocument(app.ID, up.Type, up.Name, up.Description, now)
		}
		if limit := maxFilesFor(up.Type); limit > 0 && len(doc.Media) >= limit {
			return errors.Validation("%s accepts at most %d files", up.Type.DisplayName(), limit)
		}

		doc.ExtractedData = ExtractDocumentData(app, up.Type, up.OriginalFileName)
		doc.DataExtracted = true
		doc.DataExtractedAt = &now
		doc.UpdatedAt = now
		if created {
			if err := tx.CreateDocument(ctx, doc); err != nil {
				return err
			}
			app.Documents = append(app.Documents, doc)
		} else if err := tx.UpdateDocument(ctx, doc); err != nil {
			return err
		}

		docID := doc.ID
		media := &domain.Media{
			ID:               uuid.New(),
			DocumentID:       &docID,
			URL:              strings.TrimSpace(up.URL),
			ProviderID:       up.ProviderID,
			OriginalFileName: up.OriginalFileName,
			MimeType:         domain.NormalizeMime(up.MimeType),
			FileSize:         up.FileSize,
			Kind:             domain.MediaKindFromMime(up.MimeType),
			UploadedAt:       now,
		}
		if err := tx.CreateMedia(ctx, media); err != nil {
			return err
		}
		doc.Media = append(doc.Media, media)

		return s.rescore(ctx, tx, app, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document uploaded", map[string]interface{}{
		"application_id": appID,
		"document_id":    doc.ID,
		"type":           doc.Type,
		"files":          len(doc.Media),
		"score":          app.Score,
	})
	s.refreshCompletion(ctx, userID, app)
	return doc, nil
}

// CreateDocument opens an empty slot for a document type. A second slot for
// the same type is rejected.
func (s *Service) CreateDocument(ctx context.Context, userID, appID uuid.UUID, t domain.DocumentType, name, description string) (*domain.Document, error) {
	if !t.IsValid() {
		return nil, errors.Validation("unknown document type %q", t)
	}

	var doc *domain.Document
	err := s.repo.RunInTx(ctx, func(tx Repository) error {
		app, err := s.lockOwned(ctx, tx, userID, appID)
		if err != nil {
			return err
		}
		if app.Status.IsTerminal() {
			return errors.InvalidState("documents cannot be added to a %s application", app.Status)
		}
		if app.DocumentOfType(t) != nil {
			return errors.Validation("a %s document already exists for this application", t.DisplayName())
		}
		doc = newDocument(app.ID, t, name, description, s.clock.Now())
		return tx.CreateDocument(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// RemoveMedia detaches a file from one of the caller's documents and re-scores.
// Files can only be removed while the application is a draft; a submitted
// application must keep the documents it passed the submission gate with.
func (s *Service) RemoveMedia(ctx context.Context, userID, documentID, mediaID uuid.UUID) error {
	var app *domain.Application
	err := s.repo.RunInTx(ctx, func(tx Repository) error {
		found, err := tx.FindDocumentByID(ctx, documentID)
		if err != nil {
			return err
		}
		app, err = s.lockOwned(ctx, tx, userID, found.ApplicationID)
		if err != nil {
			return err
		}
		if app.Status != domain.StatusDraft {
			return errors.InvalidState("files of a %s application cannot be removed", app.Status)
		}

		var doc *domain.Document
		for _, d := range app.Documents {
			if d.ID == documentID {
				doc = d
			}
		}
		if doc == nil {
			return errors.ErrDocumentNotFound
		}
		idx := -1
		for i, m := range doc.Media {
			if m.ID == mediaID {
				idx = i
			}
		}
		if idx < 0 {
			return errors.Validation("media does not belong to this document")
		}
		if err := tx.DeleteMedia(ctx, mediaID); err != nil {
			return err
		}
		doc.Media = append(doc.Media[:idx], doc.Media[idx+1:]...)

		return s.rescore(ctx, tx, app, s.clock.Now())
	})
	if err != nil {
		return err
	}

	s.logger.Info("media removed", map[string]interface{}{
		"document_id": documentID,
		"media_id":    mediaID,
		"score":       app.Score,
	})
	s.refreshCompletion(ctx, userID, app)
	return nil
}

// ListDocuments returns the documents of one of the caller's applications.
func (s *Service) ListDocuments(ctx context.Context, userID, appID uuid.UUID) ([]*domain.Document, error) {
	app, err := s.findOwned(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	if app.Documents == nil {
		return []*domain.Document{}, nil
	}
	return app.Documents, nil
}

// DocumentRequirements returns the requirement catalogue with the caller's progress.
func (s *Service) DocumentRequirements(ctx context.Context, userID, appID uuid.UUID) ([]DocumentRequirement, error) {
	app, err := s.findOwned(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	return DocumentRequirements(app), nil
}

// Submit moves a DRAFT application to PENDING once the document gate is open,
// freezing the submission time and the final score.
func (s *Service) Submit(ctx context.Context, userID, appID uuid.UUID) (*domain.Application, error) {
	var app *domain.Application
	err := s.repo.RunInTx(ctx, func(tx Repository) error {
		var err error
		app, err = s.lockOwned(ctx, tx, userID, appID)
		if err != nil {
			return err
		}
		if err := checkSubmittable(app); err != nil {
			return err
		}

		now := s.clock.Now()
		app.Status = domain.StatusPending
		app.SubmittedAt = &now
		app.Score = s.scorer.CalculateFinalScore(app)
		app.UpdatedAt = now
		return tx.UpdateApplication(ctx, app)
	})
	if err != nil {
		s.logger.Warn("ekyc submission rejected", map[string]interface{}{
			"application_id": appID,
			"user_id":        userID,
			"error":          err,
		})
		return nil, err
	}

	s.logger.Info("ekyc application submitted", map[string]interface{}{
		"application_id": app.ID,
		"score":          app.Score,
	})
	s.notify(ctx, app.UserID, "eKYC application submitted",
		"Your eKYC application has been submitted successfully and is awaiting review.",
		domain.ChannelInApp)
	return app, nil
}

// Cancel withdraws one of the caller's applications that is not yet decided.
func (s *Service) Cancel(ctx context.Context, userID, appID uuid.UUID) (*domain.Application, error) {
	var app *domain.Application
	err := s.repo.RunInTx(ctx, func(tx Repository) error {
		var err error
		app, err = s.lockOwned(ctx, tx, userID, appID)
		if err != nil {
			return err
		}
		if err := checkTransition(app.Status, domain.StatusCancelled); err != nil {
			return err
		}
		app.Status = domain.StatusCancelled
		app.UpdatedAt = s.clock.Now()
		return tx.UpdateApplication(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ekyc application cancelled", map[string]interface{}{"application_id": app.ID})
	s.notify(ctx, app.UserID, "eKYC application cancelled",
		"Your eKYC application has been cancelled.", domain.ChannelInApp)
	return app, nil
}

// ==============================================================================
// ADMIN OPERATIONS
// ==============================================================================

// StartReview marks a PENDING application as taken by a reviewer.
func (s *Service) StartReview(ctx context.Context, adminID, appID uuid.UUID) (*domain.Application, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var app *domain.Application
	err := s.repo.RunInTx(ctx, func(tx Repository) error {
		var err error
		app, err = tx.LockApplication(ctx, appID)
		if err != nil {
			return err
		}
		if err := checkTransition(app.Status, domain.StatusUnderReview); err != nil {
			return err
		}
		app.Status = domain.StatusUnderReview
		app.UpdatedAt = s.clock.Now()
		return tx.UpdateApplication(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ekyc review started", map[string]interface{}{
		"application_id": app.ID,
		"reviewer_id":    adminID,
	})
	s.notify(ctx, app.UserID, "eKYC application under review",
		"A reviewer is now examining your eKYC application.", domain.ChannelInApp)
	return app, nil
}

// Review applies an admin decision. The new state is committed before the
// outcome notification is sent; a failed notification does not undo it.
func (s *Service) Review(ctx context.Context, in ReviewInput) (*domain.Application, error) {
	if in.Decision != domain.StatusApproved && in.Decision != domain.StatusRejected {
		return nil, errors.Validation("decision must be %s or %s", domain.StatusApproved, domain.StatusRejected)
	}
	if err := s.requireAdmin(ctx, in.ReviewerID); err != nil {
		return nil, err
	}

	var app *domain.Application
	err := s.repo.RunInTx(ctx, func(tx Repository) error {
		var err error
		app, err = tx.LockApplication(ctx, in.ApplicationID)
		if err != nil {
			return err
		}
		if !IsReviewable(app.Status) {
			return errors.InvalidState("application in status %s cannot be reviewed", app.Status)
		}

		now := s.clock.Now()
		reviewer := in.ReviewerID
		app.Status = in.Decision
		if c := strings.TrimSpace(in.Comments); c != "" {
			app.ReviewComments = &c
		}
		if in.FinalScore != nil {
			app.Score = clamp(*in.FinalScore, 0, domain.MaxScore)
		} else {
			app.Score = s.scorer.CalculateFinalScore(app)
		}
		app.ReviewedAt = &now
		app.ReviewedBy = &reviewer
		app.UpdatedAt = now
		return tx.UpdateApplication(ctx, app)
	})
	if err != nil {
		s.logger.Warn("ekyc review rejected", map[string]interface{}{
			"application_id": in.ApplicationID,
			"reviewer_id":    in.ReviewerID,
			"error":          err,
		})
		return nil, err
	}

	s.logger.Info("ekyc application reviewed", map[string]interface{}{
		"application_id": app.ID,
		"reviewer_id":    in.ReviewerID,
		"decision":       app.Status,
		"score":          app.Score,
	})
	title, body := decisionMessage(app.Status, in.Comments)
	s.notify(ctx, app.UserID, title, body, domain.ChannelEmail)
	return app, nil
}

func decisionMessage(decision domain.ApplicationStatus, comments string) (string, string) {
	if decision == domain.StatusApproved {
		return "eKYC application approved",
			"Congratulations! Your eKYC application has been approved. You can now apply for credit."
	}
	body := "Your eKYC application has been rejected."
	if c := strings.TrimSpace(comments); c != "" {
		body += " Reason: " + c
	}
	return "eKYC application rejected", body
}

// VerifyDocument records an admin's verification of a document.
func (s *Service) VerifyDocument(ctx context.Context, adminID, documentID uuid.UUID, verified bool, notes string) (*domain.Document, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var doc *domain.Document
	err := s.repo.RunInTx(ctx, func(tx Repository) error {
		var err error
		doc, err = tx.FindDocumentByID(ctx, documentID)
		if err != nil {
			return err
		}
		// Serialise with other writers of the owning application.
		if _, err := tx.LockApplication(ctx, doc.ApplicationID); err != nil {
			return err
		}

		now := s.clock.Now()
		reviewer := adminID
		doc.Verified = verified
		if n := strings.TrimSpace(notes); n != "" {
			doc.ProcessingNotes = &n
		}
		doc.ProcessedAt = &now
		doc.ProcessedBy = &reviewer
		doc.UpdatedAt = now
		return tx.UpdateDocument(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document verification recorded", map[string]interface{}{
		"document_id": documentID,
		"verified":    verified,
		"admin_id":    adminID,
	})
	return doc, nil
}

// ListByStatus pages through applications in one status, newest submission first.
func (s *Service) ListByStatus(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]*domain.Application, error) {
	if !status.IsValid() {
		return nil, errors.Validation("unknown status %q", status)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.FindByStatus(ctx, status, limit, offset)
}

// ListPending pages through applications awaiting review.
func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*domain.Application, error) {
	return s.ListByStatus(ctx, domain.StatusPending, limit, offset)
}

// Statistics reports counts per status and the mean approved score.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count applications by status")
	}
	avg, err := s.repo.AverageApprovedScore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "average approved score")
	}

	stats := &Statistics{CountByStatus: counts, AverageApprovedScore: avg}
	for status, n := range counts {
		stats.Total += n
		if IsReviewable(status) {
			stats.PendingReview += n
		}
	}
	return stats, nil
}

// ==============================================================================
// SCORE & COMPLETION VIEWS
// ==============================================================================

// MyScoreBreakdown explains the score of the caller's application.
func (s *Service) MyScoreBreakdown(ctx context.Context, userID uuid.UUID) (*ScoreBreakdown, error) {
	app, err := s.repo.FindApplicationByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.breakdown(ctx, app), nil
}

// ScoreBreakdown explains the score of any application.
func (s *Service) ScoreBreakdown(ctx context.Context, appID uuid.UUID) (*ScoreBreakdown, error) {
	app, err := s.repo.FindApplicationByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	return s.breakdown(ctx, app), nil
}

func (s *Service) breakdown(ctx context.Context, app *domain.Application) *ScoreBreakdown {
	key := fmt.Sprintf("score:%s:%d", app.ID, app.Version)
	if s.cache != nil {
		var cached ScoreBreakdown
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached
		}
	}

	b := s.scorer.Breakdown(app)
	// Submitted applications report the score fixed at submission or review.
	if app.Status != domain.StatusDraft && b.FinalScore != app.Score {
		b.FinalScore = app.Score
		b.Percentage = float64(app.Score) / float64(domain.MaxScore) * 100
		b.RiskLevel = RiskLevelFor(app.Score)
		b.ApprovalRecommended = app.Score >= ApprovalThreshold && b.DocumentsSatisfied
		b.Overridden = app.ReviewedAt != nil
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, b, s.cfg.ScoreCacheTTL); err != nil {
			s.logger.Warn("failed to cache score breakdown", map[string]interface{}{
				"application_id": app.ID,
				"error":          err,
			})
		}
	}
	return b
}

// ProfileCompletion computes the caller's onboarding progress.
func (s *Service) ProfileCompletion(ctx context.Context, userID uuid.UUID) (*Completion, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	app, err := s.repo.FindApplicationByUserID(ctx, userID)
	if err != nil && !errors.Is(err, errors.ErrApplicationNotFound) {
		return nil, err
	}
	c := s.completion.Calculate(user, app)
	return &c, nil
}

// ==============================================================================
// HELPERS
// ==============================================================================

func (s *Service) lockOwned(ctx context.Context, tx Repository, userID, appID uuid.UUID) (*domain.Application, error) {
	app, err := tx.LockApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, errors.ErrNotApplicationOwner
	}
	return app, nil
}

func (s *Service) findOwned(ctx context.Context, userID, appID uuid.UUID) (*domain.Application, error) {
	app, err := s.repo.FindApplicationByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, errors.ErrNotApplicationOwner
	}
	return app, nil
}

func (s *Service) requireAdmin(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, errors.ErrUserNotFound) {
		return errors.ErrReviewerNotFound
	}
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return errors.ErrAdminRequired
	}
	return nil
}

// rescore recomputes the score of a locked draft and persists it. Once
// submitted the final score is fixed, so later uploads only touch the row.
func (s *Service) rescore(ctx context.Context, tx Repository, app *domain.Application, now time.Time) error {
	if app.Status == domain.StatusDraft {
		app.Score = s.scorer.CalculateScore(app)
	}
	app.UpdatedAt = now
	return tx.UpdateApplication(ctx, app)
}

// refreshCompletion stores the owner's completion after a committed change.
func (s *Service) refreshCompletion(ctx context.Context, userID uuid.UUID, app *domain.Application) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("profile completion not refreshed", map[string]interface{}{
			"user_id": userID,
			"error":   err,
		})
		return
	}
	c := s.completion.Calculate(user, app)
	if err := s.users.UpdateProfileCompletion(ctx, userID, c.Percentage, c.Verified, s.clock.Now()); err != nil {
		s.logger.Warn("profile completion not stored", map[string]interface{}{
			"user_id": userID,
			"error":   err,
		})
	}
}

// notify sends a notification outside any transaction. It is bounded by the
// configured timeout and ignores caller cancellation; failures are logged.
func (s *Service) notify(ctx context.Context, userID uuid.UUID, title, body string, channel domain.NotificationChannel) {
	if s.notifier == nil {
		return
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(nctx, userID, title, body, channel); err != nil {
		s.logger.Error("notification dispatch failed", map[string]interface{}{
			"user_id": userID,
			"title":   title,
			"channel": channel,
			"error":   err,
		})
	}
}

func newDocument(appID uuid.UUID, t domain.DocumentType, name, description string, now time.Time) *domain.Document {
	if strings.TrimSpace(name) == "" {
		name = t.DisplayName()
	}
	return &domain.Document{
		ID:            uuid.New(),
		ApplicationID: appID,
		Type:          t,
		Name:          strings.TrimSpace(name),
		Description:   strings.TrimSpace(description),
		Required:      isRequiredType(t),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func isRequiredType(t domain.DocumentType) bool {
	for _, r := range requirementCatalogue {
		if r.docType == t {
			return r.required
		}
	}
	return false
}

func maxFilesFor(t domain.DocumentType) int {
	for _, r := range requirementCatalogue {
		if r.docType == t {
			return r.maxFiles
		}
	}
	return 0
}
