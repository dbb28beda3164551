package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerline/onboarding/internal/metrics"
	"github.com/ledgerline/onboarding/internal/models"
	"github.com/ledgerline/onboarding/internal/snapshot"
)

// The five upstream signal sources. Production wiring uses the HTTP clients
// from internal/clients; tests substitute stubs.
type (
	ComplianceSource interface {
		GetReview(ctx context.Context, merchantID string) (snapshot.ComplianceUpdate, error)
	}
	PayoutSource interface {
		GetAccount(ctx context.Context, merchantID string) (*models.PayoutAccount, bool, error)
	}
	IdentitySource interface {
		GetStatus(ctx context.Context, merchantID string) (models.IdentityStatus, error)
	}
	TreasurySource interface {
		GetFundSummary(ctx context.Context, merchantID string) (models.FundSummary, error)
	}
	FinancialAccountSource interface {
		GetAccount(ctx context.Context, merchantID string) (*models.FinancialAccount, error)
	}
)

// Refresher fetches all upstream signals concurrently and folds the results
// into the snapshot builder. A failed fetch leaves that signal at its last
// known value; the next cycle retries it. Refresh is safe to re-run at any
// time: folding is last-write-wins and derivation downstream is pure.
type Refresher struct {
	merchantID string
	builder    *snapshot.Builder
	recorder   *metrics.Recorder

	compliance ComplianceSource
	payout     PayoutSource
	identity   IdentitySource
	treasury   TreasurySource
	finAccount FinancialAccountSource
}

func NewRefresher(
	merchantID string,
	builder *snapshot.Builder,
	recorder *metrics.Recorder,
	compliance ComplianceSource,
	payout PayoutSource,
	identity IdentitySource,
	treasury TreasurySource,
	finAccount FinancialAccountSource,
) *Refresher {
	return &Refresher{
		merchantID: merchantID,
		builder:    builder,
		recorder:   recorder,
		compliance: compliance,
		payout:     payout,
		identity:   identity,
		treasury:   treasury,
		finAccount: finAccount,
	}
}

// Refresh runs one fetch cycle. It returns the first fetch error for the
// caller to log; the cycle itself always completes and applies whatever did
// resolve.
func (r *Refresher) Refresh(ctx context.Context) error {
	gen := r.builder.BeginCycle()

	var g errgroup.Group

	g.Go(r.timed("compliance", func() error {
		upd, err := r.compliance.GetReview(ctx, r.merchantID)
		if err != nil {
			return err
		}
		r.builder.ApplyCompliance(gen, upd)
		return nil
	}))

	g.Go(r.timed("payout", func() error {
		account, restricted, err := r.payout.GetAccount(ctx, r.merchantID)
		if err != nil {
			return err
		}
		r.builder.ApplyPayout(gen, account, restricted)
		return nil
	}))

	g.Go(r.timed("identity", func() error {
		status, err := r.identity.GetStatus(ctx, r.merchantID)
		if err != nil {
			return err
		}
		r.builder.ApplyIdentity(gen, status)
		return nil
	}))

	g.Go(r.timed("treasury", func() error {
		summary, err := r.treasury.GetFundSummary(ctx, r.merchantID)
		if err != nil {
			return err
		}
		r.builder.ApplyTreasury(gen, summary)
		return nil
	}))

	g.Go(r.timed("financial_account", func() error {
		account, err := r.finAccount.GetAccount(ctx, r.merchantID)
		if err != nil {
			return err
		}
		r.builder.ApplyFinancialAccount(gen, account)
		return nil
	}))

	return g.Wait()
}

func (r *Refresher) timed(name string, fetch func() error) func() error {
	return func() error {
		start := time.Now()
		err := fetch()
		if r.recorder != nil {
			r.recorder.ObserveFetch(name, time.Since(start), err)
		}
		if err != nil {
			log.Printf("signal fetch %s failed: %v", name, err)
		}
		return err
	}
}
