package ekyc

import (
	"time"

	"ekyc/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func money(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func withMedia(t domain.DocumentType, files int) *domain.Document {
	doc := &domain.Document{ID: uuid.New(), Type: t}
	for i := 0; i < files; i++ {
		id := doc.ID
		doc.Media = append(doc.Media, &domain.Media{ID: uuid.New(), DocumentID: &id, MimeType: "application/pdf"})
	}
	return doc
}

// completeApplication scores exactly 100 at testNow.
func completeApplication() *domain.Application {
	established := testNow.AddDate(-6, 0, 0)
	return &domain.Application{
		ID:                        uuid.New(),
		UserID:                    uuid.New(),
		CompanyName:               "Atlas Trading SARL",
		BusinessSector:            "Retail",
		BusinessPurpose:           "Import of household goods",
		CompanyRegistrationNumber: strPtr("RC-123456"),
		Address:                   "12 Avenue Hassan II",
		CompanyEstablishedDate:    &established,
		MonthlyRevenue:            money(10000),
		AnnualRevenue:             money(120000),
		NumberOfEmployees:         intPtr(12),
		BankName:                  "Banque Populaire",
		BankAccountNumber:         "MA64011519000001205000534921",
		RequestedCreditAmount:     money(50000),
		Status:                    domain.StatusDraft,
		MaxScore:                  domain.MaxScore,
		Documents: []*domain.Document{
			withMedia(domain.DocumentNationalID, 1),
			withMedia(domain.DocumentCompanyRegistration, 1),
			withMedia(domain.DocumentBankStatement, 3),
		},
	}
}
