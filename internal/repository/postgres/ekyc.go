package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ekyc/internal/domain"
	"ekyc/internal/ekyc"
	"ekyc/pkg/errors"
)

// ==============================================================================
// EKYC REPOSITORY - internal/repository/postgres/ekyc.go
// ==============================================================================
// Applications, documents and media. A repository created by RunInTx is bound
// to that transaction; the root repository runs each call on the pool.
// ==============================================================================

type EKYCRepository struct {
	db *sqlx.DB
	q  queryer
	tx bool
}

func NewEKYCRepository(db *sqlx.DB) *EKYCRepository {
	return &EKYCRepository{db: db, q: db}
}

var _ ekyc.Repository = (*EKYCRepository)(nil)

func (r *EKYCRepository) RunInTx(ctx context.Context, fn func(tx ekyc.Repository) error) error {
	if r.tx {
		return fn(r)
	}
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&EKYCRepository{db: r.db, q: tx, tx: true})
	})
}

const applicationColumns = `
	id, user_id, national_id, company_name, business_sector, business_purpose,
	address, city, country, postal_code, company_registration_number,
	company_established_date, bank_account_number, bank_name, monthly_revenue,
	annual_revenue, requested_credit_amount, number_of_employees, credit_purpose,
	status, score, max_score, review_comments, submitted_at, reviewed_at,
	reviewed_by, version, created_at, updated_at`

func (r *EKYCRepository) CreateApplication(ctx context.Context, app *domain.Application) error {
	if app.Version == 0 {
		app.Version = 1
	}
	query := `
		INSERT INTO ekyc_applications (` + applicationColumns + `
		) VALUES (
			:id, :user_id, :national_id, :company_name, :business_sector, :business_purpose,
			:address, :city, :country, :postal_code, :company_registration_number,
			:company_established_date, :bank_account_number, :bank_name, :monthly_revenue,
			:annual_revenue, :requested_credit_amount, :number_of_employees, :credit_purpose,
			:status, :score, :max_score, :review_comments, :submitted_at, :reviewed_at,
			:reviewed_by, :version, :created_at, :updated_at
		)
	`
	_, err := r.q.NamedExecContext(ctx, query, app)
	return translate(err, "failed to create ekyc application")
}

// UpdateApplication writes every mutable column when the stored version
// still matches app.Version, then advances app.Version.
func (r *EKYCRepository) UpdateApplication(ctx context.Context, app *domain.Application) error {
	query := `
		UPDATE ekyc_applications SET
			national_id = :national_id,
			company_name = :company_name,
			business_sector = :business_sector,
			business_purpose = :business_purpose,
			address = :address,
			city = :city,
			country = :country,
			postal_code = :postal_code,
			company_registration_number = :company_registration_number,
			company_established_date = :company_established_date,
			bank_account_number = :bank_account_number,
			bank_name = :bank_name,
			monthly_revenue = :monthly_revenue,
			annual_revenue = :annual_revenue,
			requested_credit_amount = :requested_credit_amount,
			number_of_employees = :number_of_employees,
			credit_purpose = :credit_purpose,
			status = :status,
			score = :score,
			max_score = :max_score,
			review_comments = :review_comments,
			submitted_at = :submitted_at,
			reviewed_at = :reviewed_at,
			reviewed_by = :reviewed_by,
			updated_at = :updated_at,
			version = version + 1
		WHERE id = :id AND version = :version
	`
	res, err := r.q.NamedExecContext(ctx, query, app)
	if err != nil {
		return translate(err, "failed to update ekyc application")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return errors.ErrConcurrentModification
	}
	app.Version++
	return nil
}

func (r *EKYCRepository) FindApplicationByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	return r.getApplication(ctx, `SELECT `+applicationColumns+` FROM ekyc_applications WHERE id = $1`, id)
}

func (r *EKYCRepository) FindApplicationByUserID(ctx context.Context, userID uuid.UUID) (*domain.Application, error) {
	return r.getApplication(ctx, `SELECT `+applicationColumns+` FROM ekyc_applications WHERE user_id = $1`, userID)
}

func (r *EKYCRepository) LockApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	return r.getApplication(ctx, `SELECT `+applicationColumns+` FROM ekyc_applications WHERE id = $1 FOR UPDATE`, id)
}

func (r *EKYCRepository) LockApplicationByUserID(ctx context.Context, userID uuid.UUID) (*domain.Application, error) {
	return r.getApplication(ctx, `SELECT `+applicationColumns+` FROM ekyc_applications WHERE user_id = $1 FOR UPDATE`, userID)
}

func (r *EKYCRepository) getApplication(ctx context.Context, query string, arg interface{}) (*domain.Application, error) {
	app := &domain.Application{}
	if err := r.q.GetContext(ctx, app, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrApplicationNotFound
		}
		return nil, errors.Wrap(err, "failed to find ekyc application")
	}

	docs, err := r.FindDocumentsByApplicationID(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	app.Documents = docs
	return app, nil
}

func (r *EKYCRepository) NationalIDTaken(ctx context.Context, nationalID string, exclude uuid.UUID) (bool, error) {
	var taken bool
	query := `SELECT EXISTS(SELECT 1 FROM ekyc_applications WHERE national_id = $1 AND id <> $2)`
	if err := r.q.GetContext(ctx, &taken, query, nationalID, exclude); err != nil {
		return false, errors.Wrap(err, "failed to check national id")
	}
	return taken, nil
}

func (r *EKYCRepository) RegistrationNumberTaken(ctx context.Context, number string, exclude uuid.UUID) (bool, error) {
	var taken bool
	query := `SELECT EXISTS(SELECT 1 FROM ekyc_applications WHERE company_registration_number = $1 AND id <> $2)`
	if err := r.q.GetContext(ctx, &taken, query, number, exclude); err != nil {
		return false, errors.Wrap(err, "failed to check registration number")
	}
	return taken, nil
}

// FindByStatus pages applications in a status, most recently submitted first.
// Documents are not loaded.
func (r *EKYCRepository) FindByStatus(ctx context.Context, status domain.ApplicationStatus, limit, offset int) ([]*domain.Application, error) {
	var apps []*domain.Application
	query := `
		SELECT ` + applicationColumns + `
		FROM ekyc_applications
		WHERE status = $1
		ORDER BY submitted_at DESC NULLS LAST, created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.q.SelectContext(ctx, &apps, query, status, limit, offset); err != nil {
		return nil, errors.Wrap(err, "failed to list ekyc applications by status")
	}
	return apps, nil
}

func (r *EKYCRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int, error) {
	var rows []struct {
		Status domain.ApplicationStatus `db:"status"`
		Count  int                      `db:"count"`
	}
	query := `SELECT status, COUNT(*) AS count FROM ekyc_applications GROUP BY status`
	if err := r.q.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "failed to count ekyc applications")
	}

	counts := make(map[domain.ApplicationStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *EKYCRepository) AverageApprovedScore(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	query := `SELECT AVG(score) FROM ekyc_applications WHERE status = $1`
	if err := r.q.GetContext(ctx, &avg, query, domain.StatusApproved); err != nil {
		return 0, errors.Wrap(err, "failed to compute average approved score")
	}
	return avg.Float64, nil
}

// ==============================================================================
// DOCUMENTS
// ==============================================================================

const documentColumns = `
	id, application_id, type, name, description, required, verified,
	processing_notes, processed_at, processed_by, extracted_data, data_extracted,
	data_extracted_at, created_at, updated_at`

func (r *EKYCRepository) CreateDocument(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO ekyc_documents (` + documentColumns + `
		) VALUES (
			:id, :application_id, :type, :name, :description, :required, :verified,
			:processing_notes, :processed_at, :processed_by, :extracted_data, :data_extracted,
			:data_extracted_at, :created_at, :updated_at
		)
	`
	_, err := r.q.NamedExecContext(ctx, query, doc)
	return translate(err, "failed to create ekyc document")
}

func (r *EKYCRepository) UpdateDocument(ctx context.Context, doc *domain.Document) error {
	query := `
		UPDATE ekyc_documents SET
			name = :name,
			description = :description,
			required = :required,
			verified = :verified,
			processing_notes = :processing_notes,
			processed_at = :processed_at,
			processed_by = :processed_by,
			extracted_data = :extracted_data,
			data_extracted = :data_extracted,
			data_extracted_at = :data_extracted_at,
			updated_at = :updated_at
		WHERE id = :id
	`
	res, err := r.q.NamedExecContext(ctx, query, doc)
	if err != nil {
		return translate(err, "failed to update ekyc document")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.ErrDocumentNotFound
	}
	return nil
}

func (r *EKYCRepository) FindDocumentByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	doc := &domain.Document{}
	query := `SELECT ` + documentColumns + ` FROM ekyc_documents WHERE id = $1`
	if err := r.q.GetContext(ctx, doc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrDocumentNotFound
		}
		return nil, errors.Wrap(err, "failed to find ekyc document")
	}

	media, err := r.mediaForDocuments(ctx, []uuid.UUID{doc.ID})
	if err != nil {
		return nil, err
	}
	doc.Media = media[doc.ID]
	return doc, nil
}

func (r *EKYCRepository) FindDocumentsByApplicationID(ctx context.Context, appID uuid.UUID) ([]*domain.Document, error) {
	var docs []*domain.Document
	query := `SELECT ` + documentColumns + ` FROM ekyc_documents WHERE application_id = $1 ORDER BY created_at, type`
	if err := r.q.SelectContext(ctx, &docs, query, appID); err != nil {
		return nil, errors.Wrap(err, "failed to list ekyc documents")
	}
	if len(docs) == 0 {
		return docs, nil
	}

	ids := make([]uuid.UUID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	media, err := r.mediaForDocuments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		d.Media = media[d.ID]
	}
	return docs, nil
}

// ==============================================================================
// MEDIA
// ==============================================================================

const mediaColumns = `
	id, document_id, user_id, url, provider_id, original_file_name, mime_type,
	file_size, kind, uploaded_at`

func (r *EKYCRepository) CreateMedia(ctx context.Context, m *domain.Media) error {
	query := `
		INSERT INTO media (` + mediaColumns + `
		) VALUES (
			:id, :document_id, :user_id, :url, :provider_id, :original_file_name, :mime_type,
			:file_size, :kind, :uploaded_at
		)
	`
	_, err := r.q.NamedExecContext(ctx, query, m)
	return translate(err, "failed to create media")
}

func (r *EKYCRepository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete media")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.ErrMediaNotFound
	}
	return nil
}

func (r *EKYCRepository) MediaCountByTypeForApplication(ctx context.Context, appID uuid.UUID, t domain.DocumentType) (int, error) {
	var count int
	query := `
		SELECT COUNT(m.id)
		FROM media m
		JOIN ekyc_documents d ON d.id = m.document_id
		WHERE d.application_id = $1 AND d.type = $2
	`
	if err := r.q.GetContext(ctx, &count, query, appID, t); err != nil {
		return 0, errors.Wrap(err, "failed to count media")
	}
	return count, nil
}

func (r *EKYCRepository) mediaForDocuments(ctx context.Context, docIDs []uuid.UUID) (map[uuid.UUID][]*domain.Media, error) {
	query, args, err := sqlx.In(`SELECT `+mediaColumns+` FROM media WHERE document_id IN (?) ORDER BY uploaded_at, id`, docIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build media query")
	}
	var rows []*domain.Media
	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "failed to list media")
	}

	out := make(map[uuid.UUID][]*domain.Media, len(docIDs))
	for _, m := range rows {
		if m.DocumentID != nil {
			out[*m.DocumentID] = append(out[*m.DocumentID], m)
		}
	}
	return out, nil
}
