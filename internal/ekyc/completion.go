package ekyc

import (
	"ekyc/internal/domain"
)

// DefaultVerifiedThreshold is the completion percentage that marks a user verified.
const DefaultVerifiedThreshold = 100

// Onboarding steps, in the order the applicant is expected to complete them.
const (
	StepFirstName     = "first_name"
	StepLastName      = "last_name"
	StepEmail         = "email"
	StepPhone         = "phone"
	StepEmailVerified = "email_verification"
	StepPhoneVerified = "phone_verification"
	StepEKYCProfile   = "ekyc_profile"
	StepDocuments     = "documents"
)

// Completion is the onboarding progress of one user.
type Completion struct {
	Percentage        int      `json:"percentage"`
	CompletedSteps    []string `json:"completed_steps"`
	PendingSteps      []string `json:"pending_steps"`
	NextStep          string   `json:"next_step,omitempty"`
	CanApplyForCredit bool     `json:"can_apply_for_credit"`
	Verified          bool     `json:"verified"`
}

// CompletionEstimator computes onboarding progress.
type CompletionEstimator struct {
	threshold int
}

// NewCompletionEstimator builds an estimator; thresholds outside 1..100 fall
// back to DefaultVerifiedThreshold.
func NewCompletionEstimator(verifiedThreshold int) *CompletionEstimator {
	if verifiedThreshold <= 0 || verifiedThreshold > 100 {
		verifiedThreshold = DefaultVerifiedThreshold
	}
	return &CompletionEstimator{threshold: verifiedThreshold}
}

func (e *CompletionEstimator) Threshold() int { return e.threshold }

// Calculate scores identity fields (4x10), verification flags (2x15), the
// existence of an application (15) and uploaded documents (15). app may be nil.
func (e *CompletionEstimator) Calculate(user *domain.User, app *domain.Application) Completion {
	c := Completion{CompletedSteps: []string{}, PendingSteps: []string{}}
	if user == nil {
		c.PendingSteps = append(c.PendingSteps, StepFirstName, StepLastName, StepEmail, StepPhone,
			StepEmailVerified, StepPhoneVerified, StepEKYCProfile, StepDocuments)
		c.NextStep = StepFirstName
		return c
	}

	points := 0
	step := func(name string, done bool, weight int) {
		if done {
			points += weight
			c.CompletedSteps = append(c.CompletedSteps, name)
			return
		}
		c.PendingSteps = append(c.PendingSteps, name)
	}

	step(StepFirstName, !isBlank(user.FirstName), 10)
	step(StepLastName, !isBlank(user.LastName), 10)
	step(StepEmail, !isBlank(user.Email), 10)
	step(StepPhone, !isBlank(user.Phone), 10)
	step(StepEmailVerified, user.EmailVerified, 15)
	step(StepPhoneVerified, user.PhoneVerified, 15)
	step(StepEKYCProfile, app != nil, 15)
	step(StepDocuments, hasUploadedDocuments(app), 15)

	c.Percentage = clamp(points, 0, 100)
	c.Verified = c.Percentage >= e.threshold
	// Identity and both verifications must be done before an application can be filed.
	c.CanApplyForCredit = !isBlank(user.FirstName) && !isBlank(user.LastName) &&
		!isBlank(user.Email) && !isBlank(user.Phone) &&
		user.EmailVerified && user.PhoneVerified
	if len(c.PendingSteps) > 0 {
		c.NextStep = c.PendingSteps[0]
	}
	return c
}

func hasUploadedDocuments(app *domain.Application) bool {
	if app == nil {
		return false
	}
	for _, d := range app.Documents {
		if d != nil && len(d.Media) > 0 {
			return true
		}
	}
	return false
}
