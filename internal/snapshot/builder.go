package snapshot

import (
	"sync"
	"time"

	"github.com/ledgerline/onboarding/internal/models"
)

// ComplianceUpdate carries the latest compliance/review service signal.
type ComplianceUpdate struct {
	DetailsSubmittedAt  *time.Time
	Verdict             models.Verdict
	AppealDecision      models.AppealDecision
	AppealSubmittedAt   *time.Time
	RequirementsPending []string
}

// Builder folds independently arriving upstream signals into an immutable
// SignalSnapshot. Each signal field carries a generation stamp: a fetch that
// was overtaken by a newer cycle is discarded, so only the latest resolved
// value is ever folded in (last-write-wins per field). The builder is the
// only mutable state in the pipeline; everything derived from a snapshot is
// pure.
type Builder struct {
	mu sync.RWMutex

	snap                models.SignalSnapshot
	requirementsPending []string
	fund                *models.FundSummary
	finAccount          *models.FinancialAccount
	finResolved         bool
	dominant            models.MoneyState

	cycle uint64
	gens  struct {
		compliance, payout, identity, treasury, finAccount uint64
	}
}

func NewBuilder() *Builder {
	return &Builder{}
}

// BeginCycle stamps a new fetch cycle. Every Apply call from that cycle
// carries the returned generation; stale generations are ignored.
func (b *Builder) BeginCycle() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cycle++
	return b.cycle
}

func (b *Builder) ApplyCompliance(gen uint64, upd ComplianceUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen < b.gens.compliance {
		return
	}
	b.gens.compliance = gen

	b.snap.DetailsSubmittedAt = upd.DetailsSubmittedAt
	b.snap.ReviewVerdict = upd.Verdict
	b.snap.AppealDecision = upd.AppealDecision
	b.snap.AppealSubmittedAt = upd.AppealSubmittedAt
	b.requirementsPending = upd.RequirementsPending
	b.snap.Resolved.Compliance = true
}

// ApplyPayout folds the payout-account signal. restricted marks the viewer
// as lacking admin rights on the account (a 403 upstream); it disables
// mutating actions but never blocks derivation.
func (b *Builder) ApplyPayout(gen uint64, account *models.PayoutAccount, restricted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen < b.gens.payout {
		return
	}
	b.gens.payout = gen

	b.snap.PayoutAccount = account
	b.snap.IsRestrictedViewer = restricted
	b.snap.Resolved.Payout = true
}

func (b *Builder) ApplyIdentity(gen uint64, status models.IdentityStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen < b.gens.identity {
		return
	}
	b.gens.identity = gen

	b.snap.IdentityStatus = status
	b.snap.Resolved.Identity = true
}

func (b *Builder) ApplyTreasury(gen uint64, summary models.FundSummary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen < b.gens.treasury {
		return
	}
	b.gens.treasury = gen

	b.updateDominant(summary)
	b.fund = &summary
	b.snap.Resolved.Treasury = true
}

// ApplyFinancialAccount folds the financial-account signal. A nil account
// means "not yet provisioned" (a 404 upstream), which is a valid resolved
// state, not an error.
func (b *Builder) ApplyFinancialAccount(gen uint64, acct *models.FinancialAccount) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen < b.gens.finAccount {
		return
	}
	b.gens.finAccount = gen

	if acct != nil && b.finAccount != nil && acct.Balance.Cash != b.finAccount.Balance.Cash {
		b.dominant = models.MoneyAvailable
	}
	b.finAccount = acct
	b.finResolved = true
	b.snap.Resolved.FinancialAccount = true
}

// updateDominant tracks the most recently transitioned bucket. The bucket
// whose amount changed in the latest poll becomes dominant, ties broken by
// display order with the last change winning. Before any transition is
// observed, pending funds dominate, else available.
func (b *Builder) updateDominant(next models.FundSummary) {
	if b.fund == nil {
		if next.PendingAmount > 0 {
			b.dominant = models.MoneyPending
		} else {
			b.dominant = models.MoneyAvailable
		}
		return
	}

	prev := b.fund
	if next.PendingAmount != prev.PendingAmount {
		b.dominant = models.MoneyPending
	}
	if next.ReserveAmount != prev.ReserveAmount {
		b.dominant = models.MoneyReserve
	}
	if next.SpendableAmount != prev.SpendableAmount {
		b.dominant = models.MoneySpendable
	}
}

// Snapshot returns an immutable copy of the current signal state.
func (b *Builder) Snapshot() models.SignalSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := b.snap
	if b.snap.PayoutAccount != nil {
		account := *b.snap.PayoutAccount
		snap.PayoutAccount = &account
	}
	return snap
}

// RequirementsPending lists compliance requirements still outstanding.
func (b *Builder) RequirementsPending() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, len(b.requirementsPending))
	copy(out, b.requirementsPending)
	return out
}

// FundSummary returns the latest treasury summary, false before the
// treasury signal has resolved.
func (b *Builder) FundSummary() (models.FundSummary, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.fund == nil {
		return models.FundSummary{}, false
	}
	return *b.fund, true
}

// FinancialAccount returns the latest financial account. resolved reports
// whether the signal has been observed at all; a resolved nil account means
// not yet provisioned.
func (b *Builder) FinancialAccount() (acct *models.FinancialAccount, resolved bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.finAccount == nil {
		return nil, b.finResolved
	}
	account := *b.finAccount
	return &account, true
}

// CashBalance returns the financial account's cash balance, nil while the
// account is absent. It feeds the synthetic available fund bucket.
func (b *Builder) CashBalance() *int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.finAccount == nil {
		return nil
	}
	cash := b.finAccount.Balance.Cash
	return &cash
}

// Dominant returns the display-labeling money state.
func (b *Builder) Dominant() models.MoneyState {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.dominant == "" {
		return models.MoneyPending
	}
	return b.dominant
}
