package derive

import (
	"github.com/ledgerline/onboarding/internal/models"
)

// Step derives the current onboarding pipeline step from a signal snapshot.
// It is pure and total: any well-formed snapshot maps to exactly one step,
// and absent or partial data routes to the earliest unmet step, which never
// skips a required stage.
//
// The checks run in pipeline order and the first match wins. A later stage
// is only meaningful once the previous one has a definitive answer — a
// failing review keeps the user in validation even if a payout account
// already exists.
func Step(snap models.SignalSnapshot) models.Step {
	if snap.DetailsSubmittedAt == nil {
		return models.StepReview
	}

	if !SkipValidation(snap) {
		return models.StepValidation
	}

	if !snap.PayoutAccount.Complete() {
		return models.StepAccount
	}

	if snap.IdentityStatus != models.IdentityVerified && snap.IdentityStatus != models.IdentityPending {
		return models.StepIdentity
	}

	return models.StepComplete
}

// SkipValidation reports whether the validation stage is satisfied: the
// automated review passed, or an appeal was approved, or an appeal has been
// submitted at all, or the session already completed validation locally.
// The conditions are a plain OR with no precedence between them; a rejected
// appeal does not undo an earlier appeal submission.
//
// The local flag is sticky for the lifetime of the session, so a transient
// revert of the external verdict (a re-review being queued, say) cannot flap
// the user back into validation.
func SkipValidation(snap models.SignalSnapshot) bool {
	return snap.ReviewVerdict == models.VerdictPass ||
		snap.AppealDecision == models.AppealApproved ||
		snap.AppealSubmittedAt != nil ||
		snap.ValidationCompletedLocally
}
