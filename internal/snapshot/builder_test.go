package snapshot

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/onboarding/internal/models"
)

func TestResolvedFlagsStartUnset(t *testing.T) {
	b := NewBuilder()
	snap := b.Snapshot()

	assert.False(t, snap.Resolved.StepSignals())
	assert.False(t, snap.Resolved.Treasury)
	_, ok := b.FundSummary()
	assert.False(t, ok)
	_, resolved := b.FinancialAccount()
	assert.False(t, resolved)
}

func TestApplySetsResolved(t *testing.T) {
	b := NewBuilder()
	gen := b.BeginCycle()

	when := time.Now()
	b.ApplyCompliance(gen, ComplianceUpdate{
		DetailsSubmittedAt: &when,
		Verdict:            models.VerdictPass,
	})
	b.ApplyPayout(gen, &models.PayoutAccount{Exists: true}, false)
	b.ApplyIdentity(gen, models.IdentityPending)

	snap := b.Snapshot()
	assert.True(t, snap.Resolved.StepSignals())
	assert.Equal(t, models.VerdictPass, snap.ReviewVerdict)
	assert.Equal(t, models.IdentityPending, snap.IdentityStatus)
	require.NotNil(t, snap.PayoutAccount)
	assert.True(t, snap.PayoutAccount.Exists)
}

func TestStaleGenerationIsDiscarded(t *testing.T) {
	b := NewBuilder()
	stale := b.BeginCycle()
	fresh := b.BeginCycle()

	b.ApplyIdentity(fresh, models.IdentityVerified)
	// The slow fetch from the earlier cycle lands afterwards and must lose.
	b.ApplyIdentity(stale, models.IdentityUnverified)

	assert.Equal(t, models.IdentityVerified, b.Snapshot().IdentityStatus)
}

func TestStalenessIsPerField(t *testing.T) {
	b := NewBuilder()
	stale := b.BeginCycle()
	fresh := b.BeginCycle()

	b.ApplyIdentity(fresh, models.IdentityVerified)
	// The compliance fetch from the older cycle is the newest compliance
	// value observed, so it still applies.
	b.ApplyCompliance(stale, ComplianceUpdate{Verdict: models.VerdictPending})

	snap := b.Snapshot()
	assert.Equal(t, models.IdentityVerified, snap.IdentityStatus)
	assert.Equal(t, models.VerdictPending, snap.ReviewVerdict)
}

func TestSnapshotIsACopy(t *testing.T) {
	b := NewBuilder()
	gen := b.BeginCycle()
	b.ApplyPayout(gen, &models.PayoutAccount{Exists: true}, false)

	snap := b.Snapshot()
	snap.PayoutAccount.Exists = false
	snap.ReviewVerdict = models.VerdictFail

	again := b.Snapshot()
	assert.True(t, again.PayoutAccount.Exists)
	assert.Empty(t, again.ReviewVerdict)
}

func TestRestrictedViewerFolded(t *testing.T) {
	b := NewBuilder()
	gen := b.BeginCycle()
	b.ApplyPayout(gen, nil, true)

	snap := b.Snapshot()
	assert.True(t, snap.IsRestrictedViewer)
	assert.True(t, snap.Resolved.Payout)
	assert.Nil(t, snap.PayoutAccount)
}

func TestUnprovisionedFinancialAccountResolves(t *testing.T) {
	b := NewBuilder()
	gen := b.BeginCycle()
	b.ApplyFinancialAccount(gen, nil)

	acct, resolved := b.FinancialAccount()
	assert.Nil(t, acct)
	assert.True(t, resolved)
	assert.Nil(t, b.CashBalance())
}

func TestDominantFollowsLatestTransition(t *testing.T) {
	b := NewBuilder()

	gen := b.BeginCycle()
	b.ApplyTreasury(gen, models.FundSummary{PendingAmount: 100, TotalAmount: 100})
	assert.Equal(t, models.MoneyPending, b.Dominant())

	// Money moves from pending into reserve and spendable; spendable is the
	// last changed bucket in display order.
	gen = b.BeginCycle()
	b.ApplyTreasury(gen, models.FundSummary{ReserveAmount: 40, SpendableAmount: 60, TotalAmount: 100})
	assert.Equal(t, models.MoneySpendable, b.Dominant())

	// An unchanged summary keeps the previous label.
	gen = b.BeginCycle()
	b.ApplyTreasury(gen, models.FundSummary{ReserveAmount: 40, SpendableAmount: 60, TotalAmount: 100})
	assert.Equal(t, models.MoneySpendable, b.Dominant())

	// Cash arriving on the financial account flips the label to available.
	gen = b.BeginCycle()
	b.ApplyFinancialAccount(gen, &models.FinancialAccount{Status: models.FinancialAccountOpen})
	gen = b.BeginCycle()
	b.ApplyFinancialAccount(gen, &models.FinancialAccount{
		Status:  models.FinancialAccountOpen,
		Balance: models.FinancialAccountBalance{Cash: 60},
	})
	assert.Equal(t, models.MoneyAvailable, b.Dominant())
}

func TestConcurrentApplyAndRead(t *testing.T) {
	b := NewBuilder()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				gen := b.BeginCycle()
				b.ApplyIdentity(gen, models.IdentityPending)
				b.ApplyTreasury(gen, models.FundSummary{PendingAmount: int64(j), TotalAmount: int64(j)})
				_ = b.Snapshot()
				_, _ = b.FundSummary()
				_ = b.Dominant()
			}
		}()
	}
	wg.Wait()

	assert.True(t, b.Snapshot().Resolved.Identity)
}
