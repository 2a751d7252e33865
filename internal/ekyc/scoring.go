// ==============================================================================
// SCORE CALCULATOR - internal/ekyc/scoring.go
// ==============================================================================
// Weighted 0-100 readiness score built from four capped categories.
// ==============================================================================

package ekyc

import (
	"strings"
	"time"

	"ekyc/internal/domain"

	"github.com/shopspring/decimal"
)

// Category ceilings. Their sum equals domain.MaxScore.
const (
	MaxCompanyScore     = 30
	MaxFinancialScore   = 25
	MaxDocumentScore    = 25
	MaxConsistencyScore = 20

	// SubmissionBonus is added by the final variant when the document gate is open.
	SubmissionBonus = 5

	// ApprovalThreshold is the final score from which approval is recommended.
	ApprovalThreshold = 70
)

// Clock supplies the current time to every write path.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// RiskLevel buckets a score for reviewers.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
)

// RiskLevelFor maps a score to its risk bucket.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 60:
		return RiskMedium
	case score >= 40:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}

// CategoryScores holds the capped result of each category.
type CategoryScores struct {
	Company     int `json:"company"`
	Financial   int `json:"financial"`
	Documents   int `json:"documents"`
	Consistency int `json:"consistency"`
}

func (c CategoryScores) Total() int {
	return clamp(c.Company+c.Financial+c.Documents+c.Consistency, 0, domain.MaxScore)
}

// ScoreBreakdown explains a score to applicants and reviewers.
type ScoreBreakdown struct {
	ApplicationID       string         `json:"application_id"`
	Categories          CategoryScores `json:"categories"`
	Score               int            `json:"score"`
	FinalScore          int            `json:"final_score"`
	MaxScore            int            `json:"max_score"`
	Percentage          float64        `json:"percentage"`
	RiskLevel           RiskLevel      `json:"risk_level"`
	DocumentsSatisfied  bool           `json:"documents_satisfied"`
	MissingDocuments    []string       `json:"missing_documents,omitempty"`
	Strengths           []string       `json:"strengths"`
	Weaknesses          []string       `json:"weaknesses"`
	Recommendations     []string       `json:"recommendations"`
	ApprovalRecommended bool           `json:"approval_recommended"`
	// Overridden is set when a reviewer's score replaced the computed one.
	Overridden          bool           `json:"overridden"`
	CalculatedAt        time.Time      `json:"calculated_at"`
}

// Scorer computes application scores. It never fails: missing inputs
// contribute zero.
type Scorer struct {
	clock Clock
}

func NewScorer(clock Clock) *Scorer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scorer{clock: clock}
}

// CalculateScore returns the initial score in [0, MaxScore].
func (s *Scorer) CalculateScore(app *domain.Application) int {
	return s.Categories(app).Total()
}

// CalculateFinalScore adds the submission bonus when the document gate is open.
func (s *Scorer) CalculateFinalScore(app *domain.Application) int {
	score := s.CalculateScore(app)
	if RequiredDocumentsSatisfied(app) {
		score += SubmissionBonus
	}
	return clamp(score, 0, domain.MaxScore)
}

// Categories returns every capped category score.
func (s *Scorer) Categories(app *domain.Application) CategoryScores {
	if app == nil {
		return CategoryScores{}
	}
	return CategoryScores{
		Company:     s.companyScore(app),
		Financial:   financialScore(app),
		Documents:   documentScore(app),
		Consistency: consistencyScore(app),
	}
}

func (s *Scorer) companyScore(app *domain.Application) int {
	score := 0
	for _, field := range []string{
		app.CompanyName,
		app.BusinessSector,
		app.BusinessPurpose,
		deref(app.CompanyRegistrationNumber),
		app.Address,
	} {
		if !isBlank(field) {
			score += 3
		}
	}

	if app.CompanyEstablishedDate != nil {
		years := wholeYearsBetween(*app.CompanyEstablishedDate, s.clock.Now())
		switch {
		case years >= 5:
			score += 15
		case years >= 2:
			score += 10
		case years >= 1:
			score += 5
		}
	}
	return clamp(score, 0, MaxCompanyScore)
}

func financialScore(app *domain.Application) int {
	score := 0

	if expected, ok := yearlyFromMonthly(app); ok && app.AnnualRevenue.Valid {
		ratio := app.AnnualRevenue.Decimal.Div(expected)
		switch {
		case within(ratio, "0.8", "1.2"):
			score += 15
		case within(ratio, "0.6", "1.4"):
			score += 10
		case within(ratio, "0.4", "1.6"):
			score += 5
		}
	}

	if app.NumberOfEmployees != nil {
		switch n := *app.NumberOfEmployees; {
		case n >= 10:
			score += 10
		case n >= 5:
			score += 7
		case n >= 2:
			score += 5
		default:
			score += 2
		}
	}
	return clamp(score, 0, MaxFinancialScore)
}

func documentScore(app *domain.Application) int {
	score := 0
	if IsDocumentTypeSubmitted(app, domain.DocumentNationalID) {
		score += 8
	}
	if IsDocumentTypeSubmitted(app, domain.DocumentCompanyRegistration) {
		score += 12
	}
	if n := BankStatementMediaCount(app); n >= MinBankStatements {
		score += 5
	} else {
		score += n
	}
	return clamp(score, 0, MaxDocumentScore)
}

func consistencyScore(app *domain.Application) int {
	score := 0
	if !isBlank(app.BankName) && !isBlank(app.BankAccountNumber) {
		score += 10
	}

	if expected, ok := yearlyFromMonthly(app); ok && app.RequestedCreditAmount.Valid {
		ratio := app.RequestedCreditAmount.Decimal.Div(expected)
		switch {
		case ratio.LessThanOrEqual(decimal.RequireFromString("0.5")):
			score += 10
		case ratio.LessThanOrEqual(decimal.NewFromInt(1)):
			score += 7
		case ratio.LessThanOrEqual(decimal.NewFromInt(2)):
			score += 3
		}
	}
	return clamp(score, 0, MaxConsistencyScore)
}

// Breakdown explains the current computed score.
func (s *Scorer) Breakdown(app *domain.Application) *ScoreBreakdown {
	cats := s.Categories(app)
	final := s.CalculateFinalScore(app)
	docsOK := RequiredDocumentsSatisfied(app)

	b := &ScoreBreakdown{
		Categories:          cats,
		Score:               cats.Total(),
		FinalScore:          final,
		MaxScore:            domain.MaxScore,
		Percentage:          float64(final) / float64(domain.MaxScore) * 100,
		RiskLevel:           RiskLevelFor(final),
		DocumentsSatisfied:  docsOK,
		MissingDocuments:    MissingRequirements(app),
		Strengths:           []string{},
		Weaknesses:          []string{},
		Recommendations:     []string{},
		ApprovalRecommended: final >= ApprovalThreshold && docsOK,
		CalculatedAt:        s.clock.Now(),
	}
	if app != nil {
		b.ApplicationID = app.ID.String()
	}

	assess := func(got, max int, area, advice string) {
		switch {
		case got == max:
			b.Strengths = append(b.Strengths, "Complete "+area)
		case got*2 < max:
			b.Weaknesses = append(b.Weaknesses, "Weak "+area)
			b.Recommendations = append(b.Recommendations, advice)
		}
	}
	assess(cats.Company, MaxCompanyScore, "company information",
		"Fill in every company field and the establishment date")
	assess(cats.Financial, MaxFinancialScore, "financial profile",
		"Declare monthly and annual revenue that agree with each other and the number of employees")
	assess(cats.Documents, MaxDocumentScore, "supporting documents",
		"Upload your national ID, company registration and three months of bank statements")
	assess(cats.Consistency, MaxConsistencyScore, "credit consistency",
		"Provide bank details and request an amount in line with your yearly revenue")

	return b
}

// yearlyFromMonthly returns monthlyRevenue*12 when it is a usable divisor.
func yearlyFromMonthly(app *domain.Application) (decimal.Decimal, bool) {
	if !app.MonthlyRevenue.Valid || !app.MonthlyRevenue.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return app.MonthlyRevenue.Decimal.Mul(decimal.NewFromInt(12)), true
}

func within(v decimal.Decimal, lo, hi string) bool {
	return v.GreaterThanOrEqual(decimal.RequireFromString(lo)) &&
		v.LessThanOrEqual(decimal.RequireFromString(hi))
}

// wholeYearsBetween counts full calendar years from since to now.
func wholeYearsBetween(since, now time.Time) int {
	years := now.Year() - since.Year()
	if now.Month() < since.Month() || (now.Month() == since.Month() && now.Day() < since.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
