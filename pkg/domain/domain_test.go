package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ekyc/pkg/validator"
)

func TestApplicationStatus_Terminal(t *testing.T) {
	for _, s := range []ApplicationStatus{StatusApproved, StatusRejected, StatusCancelled} {
		assert.True(t, s.IsTerminal(), s)
	}
	for _, s := range []ApplicationStatus{StatusDraft, StatusPending, StatusUnderReview, StatusDocumentsUploaded} {
		assert.False(t, s.IsTerminal(), s)
	}
}

func TestParseApplicationStatus(t *testing.T) {
	s, ok := ParseApplicationStatus(" under_review ")
	assert.True(t, ok)
	assert.Equal(t, StatusUnderReview, s)

	_, ok = ParseApplicationStatus("ARCHIVED")
	assert.False(t, ok)
}

func TestMediaKindFromMime(t *testing.T) {
	assert.Equal(t, MediaImage, MediaKindFromMime("image/png"))
	assert.Equal(t, MediaPDF, MediaKindFromMime("APPLICATION/PDF"))
	assert.Equal(t, MediaOther, MediaKindFromMime("text/csv"))
	assert.Equal(t, MediaOther, MediaKindFromMime(""))
}

func TestDocumentCatalogueMatchesValidator(t *testing.T) {
	types := AllDocumentTypes()
	require.Len(t, validator.DocumentTypes, len(types))
	for i, dt := range types {
		assert.Equal(t, string(dt), validator.DocumentTypes[i])
		assert.True(t, dt.IsValid())
		assert.NotEqual(t, string(dt), dt.DisplayName())
	}
}

func TestAcceptedMimeTypes(t *testing.T) {
	assert.Equal(t, validator.DocumentMimeTypes, AcceptedMimeTypes)
	for _, m := range AcceptedMimeTypes {
		assert.True(t, IsAcceptedMimeType(m), m)
	}
	assert.True(t, IsAcceptedMimeType(" Application/PDF ; charset=binary"))
	assert.False(t, IsAcceptedMimeType("application/x-msdownload"))
	assert.False(t, IsAcceptedMimeType(""))
	assert.Equal(t, MediaPDF, MediaKindFromMime("application/pdf; x=y"))
}

func TestApplication_ScorePercentage(t *testing.T) {
	app := &Application{Score: 45, MaxScore: MaxScore}
	assert.InDelta(t, 45.0, app.ScorePercentage(), 0.0001)
	assert.Zero(t, (&Application{Score: 10}).ScorePercentage())
}

func TestMetadata_ScanNull(t *testing.T) {
	var m Metadata
	require.NoError(t, m.Scan(nil))
	assert.Nil(t, m)

	require.NoError(t, m.Scan([]byte(`{"iban":"MA64"}`)))
	assert.Equal(t, "MA64", m["iban"])
}
