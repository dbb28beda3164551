package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/onboarding/internal/models"
)

func TestCanNavigateTo(t *testing.T) {
	tests := []struct {
		name   string
		target models.Step
		snap   models.SignalSnapshot
		want   bool
	}{
		{
			name:   "review unreachable before details submitted",
			target: models.StepReview,
			snap:   models.SignalSnapshot{},
			want:   false,
		},
		{
			name:   "review reachable after details submitted",
			target: models.StepReview,
			snap:   models.SignalSnapshot{DetailsSubmittedAt: ts(t)},
			want:   true,
		},
		{
			name:   "validation unreachable with no review signal observed",
			target: models.StepValidation,
			snap:   models.SignalSnapshot{DetailsSubmittedAt: ts(t)},
			want:   false,
		},
		{
			name:   "validation reachable once a pending verdict is observed",
			target: models.StepValidation,
			snap: models.SignalSnapshot{
				DetailsSubmittedAt: ts(t),
				ReviewVerdict:      models.VerdictPending,
			},
			want: true,
		},
		{
			name:   "validation reachable via appeal submission alone",
			target: models.StepValidation,
			snap:   models.SignalSnapshot{AppealSubmittedAt: ts(t)},
			want:   true,
		},
		{
			name:   "account unreachable while validation unmet",
			target: models.StepAccount,
			snap: models.SignalSnapshot{
				DetailsSubmittedAt: ts(t),
				ReviewVerdict:      models.VerdictPending,
			},
			want: false,
		},
		{
			name:   "account reachable once validation satisfied",
			target: models.StepAccount,
			snap: models.SignalSnapshot{
				DetailsSubmittedAt: ts(t),
				ReviewVerdict:      models.VerdictPass,
			},
			want: true,
		},
		{
			name:   "identity unreachable with partial payout account",
			target: models.StepIdentity,
			snap: models.SignalSnapshot{
				PayoutAccount: &models.PayoutAccount{Exists: true, HasProcessorID: true},
			},
			want: false,
		},
		{
			name:   "identity reachable with complete payout account",
			target: models.StepIdentity,
			snap:   models.SignalSnapshot{PayoutAccount: completeAccount()},
			want:   true,
		},
		{
			name:   "complete is never a manual target",
			target: models.StepComplete,
			snap: models.SignalSnapshot{
				DetailsSubmittedAt: ts(t),
				ReviewVerdict:      models.VerdictPass,
				PayoutAccount:      completeAccount(),
				IdentityStatus:     models.IdentityVerified,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanNavigateTo(tt.target, tt.snap))
		})
	}
}
