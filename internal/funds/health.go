package funds

import (
	"github.com/ledgerline/onboarding/internal/models"
)

// Health derives the coarse business-wallet account state. status is the
// financial-account status, or the zero value when no account has been
// provisioned yet. The checks run top-down and the first match wins; the
// fallthrough is the most conservative state, so absent data can never
// produce a falsely reassuring "active".
func Health(status models.FinancialAccountStatus, restrictions []string, hasFundData bool) models.OnboardingState {
	switch {
	case status == models.FinancialAccountOpen && len(restrictions) == 0:
		return models.OnboardingActive
	case status == models.FinancialAccountOpen:
		return models.TemporarilyRestricted
	case status == models.FinancialAccountClosed:
		return models.TemporarilyRestricted
	case hasFundData:
		// Funds are tracked ahead of full account activation.
		return models.OnboardingInProgress
	default:
		return models.OnboardingRequired
	}
}
