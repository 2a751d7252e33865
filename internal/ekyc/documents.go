// ==============================================================================
// DOCUMENT COMPLETENESS - internal/ekyc/documents.go
// ==============================================================================
package ekyc

import (
	"fmt"
	"strings"

	"ekyc/internal/domain"
)

// MinBankStatements is the number of statement files (one per month) needed
// before an application may be submitted.
const MinBankStatements = 3

// IsDocumentTypeSubmitted reports whether the application holds a document of
// type t with at least one attached file.
func IsDocumentTypeSubmitted(app *domain.Application, t domain.DocumentType) bool {
	if app == nil {
		return false
	}
	for _, d := range app.Documents {
		if d != nil && d.Type == t && len(d.Media) > 0 {
			return true
		}
	}
	return false
}

// MediaCountByType sums attached files across every document of type t.
func MediaCountByType(app *domain.Application, t domain.DocumentType) int {
	if app == nil {
		return 0
	}
	count := 0
	for _, d := range app.Documents {
		if d != nil && d.Type == t {
			count += len(d.Media)
		}
	}
	return count
}

// BankStatementMediaCount is the number of bank statement files attached.
func BankStatementMediaCount(app *domain.Application) int {
	return MediaCountByType(app, domain.DocumentBankStatement)
}

// RequiredDocumentsSatisfied is the submission gate: national id, company
// registration and at least three bank statement files.
func RequiredDocumentsSatisfied(app *domain.Application) bool {
	return len(MissingRequirements(app)) == 0
}

// MissingRequirements lists, in a stable order, the requirements that block
// submission. An empty slice means the gate is open.
func MissingRequirements(app *domain.Application) []string {
	var missing []string
	if !IsDocumentTypeSubmitted(app, domain.DocumentNationalID) {
		missing = append(missing, domain.DocumentNationalID.DisplayName())
	}
	if !IsDocumentTypeSubmitted(app, domain.DocumentCompanyRegistration) {
		missing = append(missing, domain.DocumentCompanyRegistration.DisplayName())
	}
	if n := BankStatementMediaCount(app); n < MinBankStatements {
		missing = append(missing, fmt.Sprintf("%d more bank statement(s) (%d of %d uploaded)",
			MinBankStatements-n, n, MinBankStatements))
	}
	return missing
}

// DocumentRequirement describes one requirement slot and its progress.
type DocumentRequirement struct {
	Type            domain.DocumentType `json:"type"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Required        bool                `json:"required"`
	Submitted       bool                `json:"submitted"`
	Verified        bool                `json:"verified"`
	AcceptedFormats []string            `json:"accepted_formats"`
	MaxFileSizeMB   int64               `json:"max_file_size_mb"`
	MinFiles        int                 `json:"min_files"`
	MaxFiles        int                 `json:"max_files"`
	UploadedFiles   int                 `json:"uploaded_files"`
}

// MaxFileSizeMB bounds a single uploaded file.
const MaxFileSizeMB = 10

var acceptedFormats = domain.AcceptedMimeTypes

type requirementRule struct {
	docType     domain.DocumentType
	description string
	required    bool
	minFiles    int
	maxFiles    int
}

var requirementCatalogue = []requirementRule{
	{domain.DocumentNationalID, "Front and back of the owner's national identity card", true, 1, 2},
	{domain.DocumentCompanyRegistration, "Certificate from the commercial register", true, 1, 3},
	{domain.DocumentBankStatement, "One statement per month for the last three months", true, MinBankStatements, 12},
	{domain.DocumentTaxCertificate, "Most recent tax compliance certificate", false, 0, 2},
	{domain.DocumentFinancialStatement, "Balance sheet or income statement of the last fiscal year", false, 0, 5},
	{domain.DocumentUtilityBill, "Recent utility bill proving the business address", false, 0, 2},
}

// DocumentRequirements returns the requirement catalogue annotated with the
// application's current progress.
func DocumentRequirements(app *domain.Application) []DocumentRequirement {
	out := make([]DocumentRequirement, 0, len(requirementCatalogue))
	for _, rule := range requirementCatalogue {
		req := DocumentRequirement{
			Type:            rule.docType,
			Name:            rule.docType.DisplayName(),
			Description:     rule.description,
			Required:        rule.required,
			AcceptedFormats: acceptedFormats,
			MaxFileSizeMB:   MaxFileSizeMB,
			MinFiles:        rule.minFiles,
			MaxFiles:        rule.maxFiles,
			UploadedFiles:   MediaCountByType(app, rule.docType),
		}
		req.Submitted = req.UploadedFiles > 0 && req.UploadedFiles >= rule.minFiles
		if app != nil {
			if doc := app.DocumentOfType(rule.docType); doc != nil {
				req.Verified = doc.Verified
			}
		}
		out = append(out, req)
	}
	return out
}

// ExtractDocumentData records what an upload of type t is expected to carry,
// read from the application the file is attached to. Blank fields are left out.
func ExtractDocumentData(app *domain.Application, t domain.DocumentType, fileName string) domain.Metadata {
	data := domain.Metadata{
		"document_type": t.DisplayName(),
		"file_name":     strings.TrimSpace(fileName),
	}
	if app == nil {
		return data
	}
	put := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			data[key] = v
		}
	}

	switch t {
	case domain.DocumentNationalID, domain.DocumentPassport, domain.DocumentDrivingLicense:
		put("id_number", deref(app.NationalID))
	case domain.DocumentCompanyRegistration, domain.DocumentBusinessLicense:
		put("company_name", app.CompanyName)
		put("registration_number", deref(app.CompanyRegistrationNumber))
		if app.CompanyEstablishedDate != nil {
			data["established_date"] = app.CompanyEstablishedDate.Format("2006-01-02")
		}
	case domain.DocumentBankStatement:
		put("bank_name", app.BankName)
		put("account_number", app.BankAccountNumber)
	case domain.DocumentTaxCertificate, domain.DocumentFinancialStatement:
		put("company_name", app.CompanyName)
		if app.AnnualRevenue.Valid {
			data["annual_revenue"] = app.AnnualRevenue.Decimal.String()
		}
	}
	return data
}
