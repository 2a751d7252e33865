package ekyc

import (
	"testing"

	"ekyc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDocumentTypeSubmitted(t *testing.T) {
	app := &domain.Application{Documents: []*domain.Document{
		withMedia(domain.DocumentNationalID, 1),
		withMedia(domain.DocumentCompanyRegistration, 0),
	}}

	assert.True(t, IsDocumentTypeSubmitted(app, domain.DocumentNationalID))
	assert.False(t, IsDocumentTypeSubmitted(app, domain.DocumentCompanyRegistration), "slot without files")
	assert.False(t, IsDocumentTypeSubmitted(app, domain.DocumentBankStatement))
	assert.False(t, IsDocumentTypeSubmitted(nil, domain.DocumentNationalID))
}

func TestRequiredDocumentsSatisfied(t *testing.T) {
	assert.True(t, RequiredDocumentsSatisfied(completeApplication()))

	twoStatements := completeApplication()
	twoStatements.Documents[2] = withMedia(domain.DocumentBankStatement, 2)
	assert.False(t, RequiredDocumentsSatisfied(twoStatements))

	noID := completeApplication()
	noID.Documents = noID.Documents[1:]
	assert.False(t, RequiredDocumentsSatisfied(noID))
}

func TestMissingRequirements(t *testing.T) {
	app := &domain.Application{Documents: []*domain.Document{
		withMedia(domain.DocumentCompanyRegistration, 1),
		withMedia(domain.DocumentBankStatement, 1),
	}}

	missing := MissingRequirements(app)
	require.Len(t, missing, 2)
	assert.Equal(t, domain.DocumentNationalID.DisplayName(), missing[0])
	assert.Contains(t, missing[1], "1 of 3")
	assert.Empty(t, MissingRequirements(completeApplication()))
}

func TestDocumentRequirements(t *testing.T) {
	app := completeApplication()
	app.Documents[0].Verified = true

	reqs := DocumentRequirements(app)
	byType := map[domain.DocumentType]DocumentRequirement{}
	for _, r := range reqs {
		byType[r.Type] = r
	}

	nid := byType[domain.DocumentNationalID]
	assert.True(t, nid.Required)
	assert.True(t, nid.Submitted)
	assert.True(t, nid.Verified)

	bank := byType[domain.DocumentBankStatement]
	assert.Equal(t, 3, bank.UploadedFiles)
	assert.Equal(t, MinBankStatements, bank.MinFiles)
	assert.True(t, bank.Submitted)

	tax := byType[domain.DocumentTaxCertificate]
	assert.False(t, tax.Required)
	assert.False(t, tax.Submitted)
	assert.Contains(t, tax.AcceptedFormats, "application/pdf")
}

func TestExtractDocumentData(t *testing.T) {
	app := completeApplication()
	app.NationalID = strPtr("BK123456")

	nid := ExtractDocumentData(app, domain.DocumentNationalID, " id.png ")
	assert.Equal(t, "BK123456", nid["id_number"])
	assert.Equal(t, "id.png", nid["file_name"])

	reg := ExtractDocumentData(app, domain.DocumentCompanyRegistration, "rc.pdf")
	assert.Equal(t, "Atlas Trading SARL", reg["company_name"])
	assert.Equal(t, "RC-123456", reg["registration_number"])
	assert.Equal(t, app.CompanyEstablishedDate.Format("2006-01-02"), reg["established_date"])

	bank := ExtractDocumentData(app, domain.DocumentBankStatement, "may.pdf")
	assert.Equal(t, "Banque Populaire", bank["bank_name"])
	assert.Equal(t, app.BankAccountNumber, bank["account_number"])

	app.NationalID = nil
	assert.NotContains(t, ExtractDocumentData(app, domain.DocumentPassport, "p.jpg"), "id_number")

	other := ExtractDocumentData(nil, domain.DocumentOther, "note.pdf")
	assert.Equal(t, domain.Metadata{"document_type": domain.DocumentOther.DisplayName(), "file_name": "note.pdf"}, other)
}
