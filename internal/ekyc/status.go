// ==============================================================================
// STATUS TRANSITION MANAGEMENT - internal/ekyc/status.go
// ==============================================================================
package ekyc

import (
	"strings"

	"ekyc/internal/domain"
	"ekyc/pkg/errors"
)

// transitions lists every legal move. Terminal states have no entry.
var transitions = map[domain.ApplicationStatus][]domain.ApplicationStatus{
	domain.StatusDraft:                  {domain.StatusPending, domain.StatusCancelled},
	domain.StatusPending:                {domain.StatusUnderReview, domain.StatusApproved, domain.StatusRejected, domain.StatusCancelled},
	domain.StatusUnderReview:            {domain.StatusApproved, domain.StatusRejected, domain.StatusCancelled},
	domain.StatusDocumentsUploaded:      {domain.StatusCancelled},
	domain.StatusAdditionalInfoRequired: {domain.StatusCancelled},
	domain.StatusScoringInProgress:      {domain.StatusCancelled},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to domain.ApplicationStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from from.
func AllowedTransitions(from domain.ApplicationStatus) []domain.ApplicationStatus {
	out := make([]domain.ApplicationStatus, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

// IsReviewable reports whether an admin decision may be applied.
func IsReviewable(s domain.ApplicationStatus) bool {
	return s == domain.StatusPending || s == domain.StatusUnderReview
}

// checkTransition returns an InvalidState error for an illegal move.
func checkTransition(from, to domain.ApplicationStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return errors.InvalidState("cannot move application from %s to %s", from, to)
}

// checkSubmittable guards DRAFT -> PENDING. Both failures are validation errors.
func checkSubmittable(app *domain.Application) error {
	if app.Status != domain.StatusDraft {
		return errors.Validation("application cannot be submitted in status %s", app.Status)
	}
	if missing := MissingRequirements(app); len(missing) > 0 {
		return errors.Validation("required documents missing: %s", strings.Join(missing, ", "))
	}
	return nil
}
