package ekyc

import (
	"testing"

	"ekyc/internal/domain"

	"github.com/stretchr/testify/assert"
)

func fullUser() *domain.User {
	return &domain.User{
		FirstName:     "Salma",
		LastName:      "Idrissi",
		Email:         "salma@example.ma",
		Phone:         "+212600000000",
		EmailVerified: true,
		PhoneVerified: true,
		Role:          domain.RoleCustomer,
	}
}

func TestCompletion_FullProfileIsVerified(t *testing.T) {
	est := NewCompletionEstimator(100)

	c := est.Calculate(fullUser(), completeApplication())
	assert.Equal(t, 100, c.Percentage)
	assert.True(t, c.Verified)
	assert.True(t, c.CanApplyForCredit)
	assert.Empty(t, c.PendingSteps)
	assert.Empty(t, c.NextStep)
}

func TestCompletion_Weights(t *testing.T) {
	est := NewCompletionEstimator(100)

	identityOnly := &domain.User{FirstName: "A", LastName: "B", Email: "a@b.c", Phone: "1"}
	assert.Equal(t, 40, est.Calculate(identityOnly, nil).Percentage)

	verifiedNoApp := fullUser()
	c := est.Calculate(verifiedNoApp, nil)
	assert.Equal(t, 70, c.Percentage)
	assert.True(t, c.CanApplyForCredit)
	assert.Equal(t, StepEKYCProfile, c.NextStep)

	draft := &domain.Application{Documents: []*domain.Document{withMedia(domain.DocumentOther, 0)}}
	c = est.Calculate(verifiedNoApp, draft)
	assert.Equal(t, 85, c.Percentage, "empty slots are not uploaded documents")
	assert.Equal(t, StepDocuments, c.NextStep)
}

func TestCompletion_ConfigurableThreshold(t *testing.T) {
	app := &domain.Application{}

	assert.False(t, NewCompletionEstimator(100).Calculate(fullUser(), app).Verified)
	assert.True(t, NewCompletionEstimator(85).Calculate(fullUser(), app).Verified)
	assert.Equal(t, DefaultVerifiedThreshold, NewCompletionEstimator(0).Threshold())
	assert.Equal(t, DefaultVerifiedThreshold, NewCompletionEstimator(101).Threshold())
}

func TestCompletion_UnverifiedUserCannotApply(t *testing.T) {
	u := fullUser()
	u.PhoneVerified = false

	c := NewCompletionEstimator(90).Calculate(u, nil)
	assert.Equal(t, 55, c.Percentage)
	assert.False(t, c.CanApplyForCredit)
	assert.Equal(t, StepPhoneVerified, c.NextStep)
}

func TestCompletion_NilUser(t *testing.T) {
	c := NewCompletionEstimator(100).Calculate(nil, nil)
	assert.Zero(t, c.Percentage)
	assert.Equal(t, StepFirstName, c.NextStep)
	assert.Len(t, c.PendingSteps, 8)
}
