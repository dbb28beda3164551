package derive

import (
	"github.com/ledgerline/onboarding/internal/models"
)

// CanNavigateTo decides whether a viewer may manually move the stepper to
// target. It gates back-navigation only: a step is reachable once its
// prerequisites are met, and navigating forward past an unmet step is never
// allowed. StepComplete is not a navigable target at all — it is only ever
// reached through Step.
func CanNavigateTo(target models.Step, snap models.SignalSnapshot) bool {
	switch target {
	case models.StepReview:
		// Reachable once the review has actually occurred.
		return snap.DetailsSubmittedAt != nil
	case models.StepValidation:
		// Reachable once any review-status signal has been observed,
		// even a pending one.
		return snap.ReviewVerdict != "" ||
			snap.AppealDecision != "" ||
			snap.AppealSubmittedAt != nil
	case models.StepAccount:
		return SkipValidation(snap)
	case models.StepIdentity:
		return snap.PayoutAccount.Complete()
	default:
		return false
	}
}
