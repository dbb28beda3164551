package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/onboarding/internal/metrics"
	"github.com/ledgerline/onboarding/internal/models"
	"github.com/ledgerline/onboarding/internal/snapshot"
)

type stubSources struct {
	compliance    snapshot.ComplianceUpdate
	complianceErr error
	account       *models.PayoutAccount
	restricted    bool
	payoutErr     error
	identity      models.IdentityStatus
	identityErr   error
	funds         models.FundSummary
	treasuryErr   error
	finAccount    *models.FinancialAccount
	finErr        error
}

func (s *stubSources) GetReview(ctx context.Context, merchantID string) (snapshot.ComplianceUpdate, error) {
	return s.compliance, s.complianceErr
}

func (s *stubSources) GetAccount(ctx context.Context, merchantID string) (*models.PayoutAccount, bool, error) {
	return s.account, s.restricted, s.payoutErr
}

func (s *stubSources) GetStatus(ctx context.Context, merchantID string) (models.IdentityStatus, error) {
	return s.identity, s.identityErr
}

func (s *stubSources) GetFundSummary(ctx context.Context, merchantID string) (models.FundSummary, error) {
	return s.funds, s.treasuryErr
}

type finStub struct{ s *stubSources }

func (f finStub) GetAccount(ctx context.Context, merchantID string) (*models.FinancialAccount, error) {
	return f.s.finAccount, f.s.finErr
}

func newTestRefresher(s *stubSources) (*Refresher, *snapshot.Builder) {
	builder := snapshot.NewBuilder()
	recorder := metrics.NewRecorderWith(prometheus.NewRegistry())
	return NewRefresher("m-1", builder, recorder, s, s, s, s, finStub{s}), builder
}

func TestRefreshFoldsAllSignals(t *testing.T) {
	when := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := &stubSources{
		compliance: snapshot.ComplianceUpdate{
			DetailsSubmittedAt: &when,
			Verdict:            models.VerdictPass,
		},
		account:    &models.PayoutAccount{Exists: true, HasProcessorID: true, DetailsSubmitted: true, PayoutsEnabled: true},
		identity:   models.IdentityVerified,
		funds:      models.FundSummary{PendingAmount: 100, TotalAmount: 100},
		finAccount: &models.FinancialAccount{Status: models.FinancialAccountOpen},
	}

	ref, builder := newTestRefresher(s)
	require.NoError(t, ref.Refresh(context.Background()))

	snap := builder.Snapshot()
	assert.True(t, snap.Resolved.StepSignals())
	assert.True(t, snap.Resolved.Treasury)
	assert.True(t, snap.Resolved.FinancialAccount)
	assert.Equal(t, models.VerdictPass, snap.ReviewVerdict)
	assert.Equal(t, models.IdentityVerified, snap.IdentityStatus)

	funds, ok := builder.FundSummary()
	require.True(t, ok)
	assert.Equal(t, int64(100), funds.PendingAmount)
}

func TestRefreshPartialFailureKeepsLastKnown(t *testing.T) {
	s := &stubSources{
		identity: models.IdentityVerified,
		funds:    models.FundSummary{TotalAmount: 500},
	}
	ref, builder := newTestRefresher(s)
	require.NoError(t, ref.Refresh(context.Background()))

	// Identity starts failing; the other signals keep updating.
	s.identityErr = errors.New("identity service down")
	s.funds = models.FundSummary{SpendableAmount: 500, TotalAmount: 500}

	err := ref.Refresh(context.Background())
	assert.Error(t, err)

	snap := builder.Snapshot()
	assert.Equal(t, models.IdentityVerified, snap.IdentityStatus, "last known value survives the outage")
	assert.True(t, snap.Resolved.Identity)

	funds, ok := builder.FundSummary()
	require.True(t, ok)
	assert.Equal(t, int64(500), funds.SpendableAmount)
}

func TestRefreshIsIdempotent(t *testing.T) {
	s := &stubSources{
		identity: models.IdentityPending,
		funds:    models.FundSummary{PendingAmount: 10, TotalAmount: 10},
	}
	ref, builder := newTestRefresher(s)

	require.NoError(t, ref.Refresh(context.Background()))
	first := builder.Snapshot()

	require.NoError(t, ref.Refresh(context.Background()))
	assert.Equal(t, first, builder.Snapshot())
}

func TestPollerStartStop(t *testing.T) {
	s := &stubSources{identity: models.IdentityPending}
	ref, builder := newTestRefresher(s)
	recorder := metrics.NewRecorderWith(prometheus.NewRegistry())

	p := NewPoller(ref, builder, recorder, 10*time.Millisecond)
	p.Start()

	assert.Eventually(t, func() bool {
		return builder.Snapshot().Resolved.Identity
	}, time.Second, 5*time.Millisecond)

	p.Stop()
}
