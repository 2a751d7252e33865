package ekyc

import (
	"testing"
	"time"

	"ekyc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateScore_CompleteApplicationScoresMaximum(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	app := completeApplication()

	cats := scorer.Categories(app)
	assert.Equal(t, 30, cats.Company)
	assert.Equal(t, 25, cats.Financial)
	assert.Equal(t, 25, cats.Documents)
	assert.Equal(t, 20, cats.Consistency)
	assert.Equal(t, 100, scorer.CalculateScore(app))
	assert.Equal(t, 100, scorer.CalculateFinalScore(app))
}

func TestCalculateScore_EmptyApplicationScoresZero(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	app := &domain.Application{Status: domain.StatusDraft, MaxScore: domain.MaxScore}

	assert.NotPanics(t, func() {
		assert.Equal(t, CategoryScores{}, scorer.Categories(app))
		assert.Equal(t, 0, scorer.CalculateScore(app))
		assert.Equal(t, 0, scorer.CalculateFinalScore(app))
	})
	assert.Equal(t, 0, scorer.CalculateScore(nil))
}

func TestCalculateScore_Idempotent(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	app := completeApplication()
	app.NumberOfEmployees = intPtr(3)
	app.Documents = app.Documents[:2]

	first := scorer.CalculateScore(app)
	second := scorer.CalculateScore(app)
	assert.Equal(t, first, second)
}

func TestCalculateScore_ZeroMonthlyRevenueSkipsRatios(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	app := completeApplication()
	app.MonthlyRevenue = money(0)

	cats := scorer.Categories(app)
	assert.Equal(t, 10, cats.Financial, "only the employee tier counts")
	assert.Equal(t, 10, cats.Consistency, "only bank details count")
}

func TestCompanyScore_TenureTiers(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	cases := []struct {
		name        string
		established time.Time
		want        int
	}{
		{"five years", time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC), 30},
		{"one day short of five years", time.Date(2020, time.June, 16, 0, 0, 0, 0, time.UTC), 25},
		{"two years", time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC), 25},
		{"one year", time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), 20},
		{"under a year", time.Date(2024, time.June, 16, 0, 0, 0, 0, time.UTC), 15},
		{"future date", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), 15},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			app := completeApplication()
			est := c.established
			app.CompanyEstablishedDate = &est
			assert.Equal(t, c.want, scorer.Categories(app).Company)
		})
	}
}

func TestCompanyScore_BlankFieldsDoNotCount(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	app := &domain.Application{
		CompanyName:               "  ",
		BusinessSector:            "Retail",
		CompanyRegistrationNumber: strPtr(""),
	}
	assert.Equal(t, 3, scorer.Categories(app).Company)
}

func TestFinancialScore_RatioTiers(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	cases := []struct {
		annual int64
		want   int
	}{
		{120000, 15}, // 1.0
		{96000, 15},  // 0.8 inclusive
		{144000, 15}, // 1.2 inclusive
		{160000, 10}, // 1.33
		{72000, 10},  // 0.6
		{50000, 5},   // 0.42
		{192000, 5},  // 1.6
		{200000, 0},  // 1.67
		{10000, 0},
	}
	for _, c := range cases {
		app := &domain.Application{MonthlyRevenue: money(10000), AnnualRevenue: money(c.annual)}
		assert.Equal(t, c.want, scorer.Categories(app).Financial, "annual=%d", c.annual)
	}
}

func TestFinancialScore_EmployeeTiers(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	for n, want := range map[int]int{1: 2, 2: 5, 4: 5, 5: 7, 9: 7, 10: 10, 250: 10} {
		app := &domain.Application{NumberOfEmployees: intPtr(n)}
		assert.Equal(t, want, scorer.Categories(app).Financial, "employees=%d", n)
	}
}

func TestDocumentScore_BankStatementsPartialCredit(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	for files, want := range map[int]int{0: 0, 1: 1, 2: 2, 3: 5, 6: 5} {
		app := &domain.Application{Documents: []*domain.Document{withMedia(domain.DocumentBankStatement, files)}}
		assert.Equal(t, want, scorer.Categories(app).Documents, "files=%d", files)
	}
}

func TestDocumentScore_EmptySlotDoesNotCount(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	app := &domain.Application{Documents: []*domain.Document{
		withMedia(domain.DocumentNationalID, 0),
		withMedia(domain.DocumentCompanyRegistration, 1),
	}}
	assert.Equal(t, 12, scorer.Categories(app).Documents)
}

func TestConsistencyScore_CreditRatioTiers(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	cases := []struct {
		credit int64
		want   int
	}{
		{60000, 10}, // 0.5
		{100000, 7}, // 0.83
		{120000, 7}, // 1.0
		{240000, 3}, // 2.0
		{240001, 0}, // just above 2.0
	}
	for _, c := range cases {
		app := &domain.Application{MonthlyRevenue: money(10000), RequestedCreditAmount: money(c.credit)}
		assert.Equal(t, c.want, scorer.Categories(app).Consistency, "credit=%d", c.credit)
	}
}

func TestCalculateFinalScore_AddsBonusWhenDocumentsSatisfied(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	app := &domain.Application{Documents: []*domain.Document{
		withMedia(domain.DocumentNationalID, 1),
		withMedia(domain.DocumentCompanyRegistration, 1),
		withMedia(domain.DocumentBankStatement, 3),
	}}

	assert.Equal(t, 25, scorer.CalculateScore(app))
	assert.Equal(t, 30, scorer.CalculateFinalScore(app))

	app.Documents = app.Documents[:2]
	assert.Equal(t, scorer.CalculateScore(app), scorer.CalculateFinalScore(app))
}

func TestScoreNeverExceedsMaximum(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})
	app := completeApplication()
	app.Documents = append(app.Documents, withMedia(domain.DocumentBankStatement, 9))
	app.AnnualRevenue = decimal.NewNullDecimal(decimal.RequireFromString("120000.0001"))

	score := scorer.CalculateFinalScore(app)
	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, domain.MaxScore)
}

func TestBreakdown(t *testing.T) {
	scorer := NewScorer(fixedClock{testNow})

	full := scorer.Breakdown(completeApplication())
	assert.Equal(t, 100, full.FinalScore)
	assert.Equal(t, RiskLow, full.RiskLevel)
	assert.True(t, full.ApprovalRecommended)
	assert.True(t, full.DocumentsSatisfied)
	assert.Len(t, full.Strengths, 4)
	assert.Empty(t, full.Weaknesses)
	assert.Equal(t, testNow, full.CalculatedAt)

	empty := scorer.Breakdown(&domain.Application{})
	assert.Equal(t, RiskVeryHigh, empty.RiskLevel)
	assert.False(t, empty.ApprovalRecommended)
	require.Len(t, empty.Recommendations, 4)
	assert.Len(t, empty.MissingDocuments, 3)
}

func TestRiskLevelFor(t *testing.T) {
	assert.Equal(t, RiskLow, RiskLevelFor(80))
	assert.Equal(t, RiskMedium, RiskLevelFor(79))
	assert.Equal(t, RiskMedium, RiskLevelFor(60))
	assert.Equal(t, RiskHigh, RiskLevelFor(40))
	assert.Equal(t, RiskVeryHigh, RiskLevelFor(39))
}
