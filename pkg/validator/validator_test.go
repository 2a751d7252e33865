package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type reviewRequest struct {
	Decision string `json:"decision" validate:"required,application_decision"`
	Comments string `json:"comments" validate:"max=2000"`
}

type uploadRequest struct {
	Type     string          `json:"type" validate:"required,document_type"`
	FileSize int64           `json:"file_size" validate:"gte=0"`
	Revenue  decimal.Decimal `json:"revenue" validate:"gte=0"`
}

func TestValidate_ApplicationDecision(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(reviewRequest{Decision: "APPROVED"}))
	assert.NoError(t, v.Validate(reviewRequest{Decision: "rejected"}))
	assert.Error(t, v.Validate(reviewRequest{Decision: "CANCELLED"}))
	assert.Error(t, v.Validate(reviewRequest{}))
}

func TestValidate_DocumentType(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(uploadRequest{Type: "BANK_STATEMENT"}))
	assert.Error(t, v.Validate(uploadRequest{Type: "SELFIE"}))
}

type fileRequest struct {
	MimeType string `json:"mime_type" validate:"required,document_mime"`
}

func TestValidate_DocumentMime(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(fileRequest{MimeType: "application/pdf"}))
	assert.NoError(t, v.Validate(fileRequest{MimeType: "IMAGE/JPEG"}))
	assert.NoError(t, v.Validate(fileRequest{MimeType: "image/png; name=scan.png"}))
	assert.Error(t, v.Validate(fileRequest{MimeType: "application/x-msdownload"}))

	errs := v.ValidateStructured(fileRequest{MimeType: "text/html"})
	assert.Equal(t, "Unsupported file format, use PDF, JPEG or PNG", errs["MimeType"])
}

func TestValidate_DecimalComparedAsNumber(t *testing.T) {
	v := New()

	errs := v.ValidateStructured(uploadRequest{Type: "OTHER", Revenue: decimal.NewFromInt(-5)})
	assert.Contains(t, errs, "Revenue")
	assert.Nil(t, v.ValidateStructured(uploadRequest{Type: "OTHER", Revenue: decimal.NewFromInt(5)}))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Acme&lt;/b&gt;", Sanitize("  <b>Acme</b> "))
}
