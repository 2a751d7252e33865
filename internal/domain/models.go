// Package domain re-exports core domain types so internal code can import
// `ekyc/internal/domain` while using definitions from `ekyc/pkg/domain`.
package domain

import pkg "ekyc/pkg/domain"

// MaxScore is the fixed ceiling of every application score.
const MaxScore = pkg.MaxScore

// DefaultCountry is applied to new applications that omit a country.
const DefaultCountry = pkg.DefaultCountry

// Application is the eKYC record of one customer.
type Application = pkg.Application

// ApplicationStatus tracks an application through review.
type ApplicationStatus = pkg.ApplicationStatus

// Document is a requirement slot holding uploaded files.
type Document = pkg.Document

// DocumentType identifies a requirement slot.
type DocumentType = pkg.DocumentType

// Media is a single uploaded file.
type Media = pkg.Media

// MediaKind is derived from the mime type.
type MediaKind = pkg.MediaKind

// User represents a platform user.
type User = pkg.User

// Role represents the role of a user.
type Role = pkg.Role

type AdminProfile = pkg.AdminProfile
type CustomerProfile = pkg.CustomerProfile

// Notification is a message addressed to one user.
type Notification = pkg.Notification

// NotificationChannel selects the delivery channel.
type NotificationChannel = pkg.NotificationChannel

// Metadata holds arbitrary key-value metadata.
type Metadata = pkg.Metadata

// Re-exported application statuses.
const (
	StatusDraft                  = pkg.StatusDraft
	StatusPending                = pkg.StatusPending
	StatusDocumentsUploaded      = pkg.StatusDocumentsUploaded
	StatusUnderReview            = pkg.StatusUnderReview
	StatusAdditionalInfoRequired = pkg.StatusAdditionalInfoRequired
	StatusScoringInProgress      = pkg.StatusScoringInProgress
	StatusApproved               = pkg.StatusApproved
	StatusRejected               = pkg.StatusRejected
	StatusCancelled              = pkg.StatusCancelled
)

// Re-exported document types.
const (
	DocumentNationalID          = pkg.DocumentNationalID
	DocumentPassport            = pkg.DocumentPassport
	DocumentDrivingLicense      = pkg.DocumentDrivingLicense
	DocumentCompanyRegistration = pkg.DocumentCompanyRegistration
	DocumentBusinessLicense     = pkg.DocumentBusinessLicense
	DocumentTaxCertificate      = pkg.DocumentTaxCertificate
	DocumentBankStatement       = pkg.DocumentBankStatement
	DocumentFinancialStatement  = pkg.DocumentFinancialStatement
	DocumentIncomeProof         = pkg.DocumentIncomeProof
	DocumentUtilityBill         = pkg.DocumentUtilityBill
	DocumentRentalAgreement     = pkg.DocumentRentalAgreement
	DocumentOther               = pkg.DocumentOther
)

// Re-exported media kinds.
const (
	MediaImage = pkg.MediaImage
	MediaPDF   = pkg.MediaPDF
	MediaOther = pkg.MediaOther
)

// Re-exported roles.
const (
	RoleAdmin    = pkg.RoleAdmin
	RoleCustomer = pkg.RoleCustomer
)

// Re-exported notification channels.
const (
	ChannelEmail = pkg.ChannelEmail
	ChannelSMS   = pkg.ChannelSMS
	ChannelInApp = pkg.ChannelInApp
)

var (
	AllDocumentTypes       = pkg.AllDocumentTypes
	MediaKindFromMime      = pkg.MediaKindFromMime
	IsAcceptedMimeType     = pkg.IsAcceptedMimeType
	NormalizeMime          = pkg.NormalizeMime
	AcceptedMimeTypes      = pkg.AcceptedMimeTypes
	ParseApplicationStatus = pkg.ParseApplicationStatus
)
