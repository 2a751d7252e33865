// Package domain defines the core business entities for the eKYC system.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxScore is the fixed ceiling of every application score.
const MaxScore = 100

// DefaultCountry is applied to new applications that omit a country.
const DefaultCountry = "Morocco"

// ApplicationStatus tracks an eKYC application through review.
type ApplicationStatus string

const (
	StatusDraft                  ApplicationStatus = "DRAFT"
	StatusPending                ApplicationStatus = "PENDING"
	StatusDocumentsUploaded      ApplicationStatus = "DOCUMENTS_UPLOADED"
	StatusUnderReview            ApplicationStatus = "UNDER_REVIEW"
	StatusAdditionalInfoRequired ApplicationStatus = "ADDITIONAL_INFO_REQUIRED"
	StatusScoringInProgress      ApplicationStatus = "SCORING_IN_PROGRESS"
	StatusApproved               ApplicationStatus = "APPROVED"
	StatusRejected               ApplicationStatus = "REJECTED"
	StatusCancelled              ApplicationStatus = "CANCELLED"
)

var statusDisplayNames = map[ApplicationStatus]string{
	StatusDraft:                  "Draft",
	StatusPending:                "Pending",
	StatusDocumentsUploaded:      "Documents uploaded",
	StatusUnderReview:            "Under review",
	StatusAdditionalInfoRequired: "Additional information required",
	StatusScoringInProgress:      "Scoring in progress",
	StatusApproved:               "Approved",
	StatusRejected:               "Rejected",
	StatusCancelled:              "Cancelled",
}

func (s ApplicationStatus) IsValid() bool {
	_, ok := statusDisplayNames[s]
	return ok
}

// IsTerminal reports whether no further transition may leave s.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

func (s ApplicationStatus) DisplayName() string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// ParseApplicationStatus normalises user input into a known status.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	status := ApplicationStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.IsValid()
}

// DocumentType identifies a document requirement slot.
type DocumentType string

const (
	DocumentNationalID          DocumentType = "NATIONAL_ID"
	DocumentPassport            DocumentType = "PASSPORT"
	DocumentDrivingLicense      DocumentType = "DRIVING_LICENSE"
	DocumentCompanyRegistration DocumentType = "COMPANY_REGISTRATION"
	DocumentBusinessLicense     DocumentType = "BUSINESS_LICENSE"
	DocumentTaxCertificate      DocumentType = "TAX_CERTIFICATE"
	DocumentBankStatement       DocumentType = "BANK_STATEMENT"
	DocumentFinancialStatement  DocumentType = "FINANCIAL_STATEMENT"
	DocumentIncomeProof         DocumentType = "INCOME_PROOF"
	DocumentUtilityBill         DocumentType = "UTILITY_BILL"
	DocumentRentalAgreement     DocumentType = "RENTAL_AGREEMENT"
	DocumentOther               DocumentType = "OTHER"
)

var documentDisplayNames = map[DocumentType]string{
	DocumentNationalID:          "National ID card",
	DocumentPassport:            "Passport",
	DocumentDrivingLicense:      "Driving license",
	DocumentCompanyRegistration: "Company registration certificate",
	DocumentBusinessLicense:     "Business license",
	DocumentTaxCertificate:      "Tax certificate",
	DocumentBankStatement:       "Bank statement",
	DocumentFinancialStatement:  "Financial statement",
	DocumentIncomeProof:         "Proof of income",
	DocumentUtilityBill:         "Utility bill",
	DocumentRentalAgreement:     "Rental agreement",
	DocumentOther:               "Other document",
}

// AllDocumentTypes returns the document catalogue in display order.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentNationalID, DocumentPassport, DocumentDrivingLicense,
		DocumentCompanyRegistration, DocumentBusinessLicense, DocumentTaxCertificate,
		DocumentBankStatement, DocumentFinancialStatement, DocumentIncomeProof,
		DocumentUtilityBill, DocumentRentalAgreement, DocumentOther,
	}
}

func (t DocumentType) IsValid() bool {
	_, ok := documentDisplayNames[t]
	return ok
}

func (t DocumentType) DisplayName() string {
	if name, ok := documentDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

// MediaKind is derived from the uploaded mime type.
type MediaKind string

const (
	MediaImage MediaKind = "IMAGE"
	MediaPDF   MediaKind = "PDF"
	MediaOther MediaKind = "OTHER"
)

// AcceptedMimeTypes are the file formats an applicant may upload.
var AcceptedMimeTypes = []string{"application/pdf", "image/jpeg", "image/png"}

// NormalizeMime lowercases a mime type and drops parameters such as charset.
func NormalizeMime(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}

func IsAcceptedMimeType(mime string) bool {
	mime = NormalizeMime(mime)
	for _, m := range AcceptedMimeTypes {
		if m == mime {
			return true
		}
	}
	return false
}

func MediaKindFromMime(mime string) MediaKind {
	mime = NormalizeMime(mime)
	switch {
	case strings.HasPrefix(mime, "image/"):
		return MediaImage
	case mime == "application/pdf":
		return MediaPDF
	default:
		return MediaOther
	}
}

// Application is the eKYC record of one customer's onboarding and credit request.
type Application struct {
	ID                        uuid.UUID           `json:"id" db:"id"`
	UserID                    uuid.UUID           `json:"user_id" db:"user_id"`
	NationalID                *string             `json:"national_id,omitempty" db:"national_id"`
	CompanyName               string              `json:"company_name" db:"company_name"`
	BusinessSector            string              `json:"business_sector" db:"business_sector"`
	BusinessPurpose           string              `json:"business_purpose" db:"business_purpose"`
	Address                   string              `json:"address" db:"address"`
	City                      string              `json:"city" db:"city"`
	Country                   string              `json:"country" db:"country"`
	PostalCode                string              `json:"postal_code" db:"postal_code"`
	CompanyRegistrationNumber *string             `json:"company_registration_number,omitempty" db:"company_registration_number"`
	CompanyEstablishedDate    *time.Time          `json:"company_established_date,omitempty" db:"company_established_date"`
	BankAccountNumber         string              `json:"bank_account_number" db:"bank_account_number"`
	BankName                  string              `json:"bank_name" db:"bank_name"`
	MonthlyRevenue            decimal.NullDecimal `json:"monthly_revenue" db:"monthly_revenue"`
	AnnualRevenue             decimal.NullDecimal `json:"annual_revenue" db:"annual_revenue"`
	RequestedCreditAmount     decimal.NullDecimal `json:"requested_credit_amount" db:"requested_credit_amount"`
	NumberOfEmployees         *int                `json:"number_of_employees,omitempty" db:"number_of_employees"`
	CreditPurpose             string              `json:"credit_purpose" db:"credit_purpose"`
	Status                    ApplicationStatus   `json:"status" db:"status"`
	Score                     int                 `json:"score" db:"score"`
	MaxScore                  int                 `json:"max_score" db:"max_score"`
	ReviewComments            *string             `json:"review_comments,omitempty" db:"review_comments"`
	SubmittedAt               *time.Time          `json:"submitted_at,omitempty" db:"submitted_at"`
	ReviewedAt                *time.Time          `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy                *uuid.UUID          `json:"reviewed_by,omitempty" db:"reviewed_by"`
	Version                   int64               `json:"version" db:"version"`
	CreatedAt                 time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt                 time.Time           `json:"updated_at" db:"updated_at"`

	// Documents is loaded by query; it is never persisted through the application row.
	Documents []*Document `json:"documents,omitempty" db:"-"`
}

// ScorePercentage returns score/maxScore as a percentage.
func (a *Application) ScorePercentage() float64 {
	if a.MaxScore <= 0 {
		return 0
	}
	return float64(a.Score) / float64(a.MaxScore) * 100
}

// DocumentOfType returns the application's document slot for t, if any.
func (a *Application) DocumentOfType(t DocumentType) *Document {
	for _, d := range a.Documents {
		if d != nil && d.Type == t {
			return d
		}
	}
	return nil
}

// Document is a requirement slot holding one or more uploaded files.
type Document struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	ApplicationID   uuid.UUID    `json:"application_id" db:"application_id"`
	Type            DocumentType `json:"type" db:"type"`
	Name            string       `json:"name" db:"name"`
	Description     string       `json:"description" db:"description"`
	Required        bool         `json:"required" db:"required"`
	Verified        bool         `json:"verified" db:"verified"`
	ProcessingNotes *string      `json:"processing_notes,omitempty" db:"processing_notes"`
	ProcessedAt     *time.Time   `json:"processed_at,omitempty" db:"processed_at"`
	ProcessedBy     *uuid.UUID   `json:"processed_by,omitempty" db:"processed_by"`
	ExtractedData   Metadata     `json:"extracted_data,omitempty" db:"extracted_data"`
	DataExtracted   bool         `json:"data_extracted" db:"data_extracted"`
	DataExtractedAt *time.Time   `json:"data_extracted_at,omitempty" db:"data_extracted_at"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`

	Media []*Media `json:"media,omitempty" db:"-"`
}

// Media is a single uploaded file owned by a document or, for profile photos, a user.
type Media struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	DocumentID       *uuid.UUID `json:"document_id,omitempty" db:"document_id"`
	UserID           *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	URL              string     `json:"url" db:"url"`
	ProviderID       string     `json:"provider_id" db:"provider_id"`
	OriginalFileName string     `json:"original_file_name" db:"original_file_name"`
	MimeType         string     `json:"mime_type" db:"mime_type"`
	FileSize         int64      `json:"file_size" db:"file_size"`
	Kind             MediaKind  `json:"kind" db:"kind"`
	UploadedAt       time.Time  `json:"uploaded_at" db:"uploaded_at"`
}
