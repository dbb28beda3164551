package models

import (
	"fmt"
	"time"
)

// Step is one stage of the payout-account onboarding pipeline.
type Step string

const (
	StepReview     Step = "review"
	StepValidation Step = "validation"
	StepAccount    Step = "account"
	StepIdentity   Step = "identity"
	StepComplete   Step = "complete"
)

// Steps lists the pipeline stages in order. StepComplete is terminal.
var Steps = []Step{StepReview, StepValidation, StepAccount, StepIdentity, StepComplete}

func (s Step) Valid() bool {
	for _, known := range Steps {
		if s == known {
			return true
		}
	}
	return false
}

func ParseStep(raw string) (Step, error) {
	s := Step(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown onboarding step %q", raw)
	}
	return s, nil
}

// Verdict is the automated risk-review outcome. The zero value means the
// review service has not reported one yet.
type Verdict string

const (
	VerdictPass    Verdict = "PASS"
	VerdictFail    Verdict = "FAIL"
	VerdictPending Verdict = "PENDING"
)

// AppealDecision is the human appeal outcome after a failing verdict.
type AppealDecision string

const (
	AppealApproved AppealDecision = "approved"
	AppealRejected AppealDecision = "rejected"
)

// IdentityStatus comes from the identity-verification service.
type IdentityStatus string

const (
	IdentityUnverified IdentityStatus = "unverified"
	IdentityPending    IdentityStatus = "pending"
	IdentityVerified   IdentityStatus = "verified"
)

// MoneyState labels the dominant lifecycle state of a merchant's balance.
// It is display labeling only; bucket amounts are the source of truth.
type MoneyState string

const (
	MoneyPending   MoneyState = "pending"
	MoneyAvailable MoneyState = "available"
	MoneyReserve   MoneyState = "reserve"
	MoneySpendable MoneyState = "spendable"
)

// OnboardingState is the coarse business-wallet account health.
type OnboardingState string

const (
	OnboardingRequired    OnboardingState = "onboarding_required"
	OnboardingInProgress  OnboardingState = "onboarding_in_progress"
	TemporarilyRestricted OnboardingState = "temporarily_restricted"
	OnboardingActive      OnboardingState = "active"
)

// FinancialAccountStatus is reported by the financial-account service.
type FinancialAccountStatus string

const (
	FinancialAccountOpen   FinancialAccountStatus = "open"
	FinancialAccountClosed FinancialAccountStatus = "closed"
)

// PayoutAccount is the processor-hosted account receiving merchant payouts.
type PayoutAccount struct {
	Exists           bool `json:"exists"`
	HasProcessorID   bool `json:"has_processor_id"`
	DetailsSubmitted bool `json:"details_submitted"`
	PayoutsEnabled   bool `json:"payouts_enabled"`
}

// Complete reports whether every provisioning requirement on the payout
// account is satisfied.
func (a *PayoutAccount) Complete() bool {
	return a != nil && a.Exists && a.HasProcessorID && a.DetailsSubmitted && a.PayoutsEnabled
}

// Resolved records which upstream signals have been folded into a snapshot
// at least once. A false flag means "not yet known", which is distinct from
// a signal that resolved to an unmet value.
type Resolved struct {
	Compliance       bool `json:"compliance"`
	Payout           bool `json:"payout"`
	Identity         bool `json:"identity"`
	Treasury         bool `json:"treasury"`
	FinancialAccount bool `json:"financial_account"`
}

// StepSignals reports whether every signal that gates step derivation has
// resolved at least once.
func (r Resolved) StepSignals() bool {
	return r.Compliance && r.Payout && r.Identity
}

// SignalSnapshot aggregates the latest known values of all external signals
// feeding step derivation. It is immutable: the builder hands out copies and
// derivation never mutates one.
type SignalSnapshot struct {
	DetailsSubmittedAt         *time.Time     `json:"details_submitted_at"`
	ReviewVerdict              Verdict        `json:"review_verdict,omitempty"`
	AppealDecision             AppealDecision `json:"appeal_decision,omitempty"`
	AppealSubmittedAt          *time.Time     `json:"appeal_submitted_at"`
	ValidationCompletedLocally bool           `json:"validation_completed_locally"`
	PayoutAccount              *PayoutAccount `json:"payout_account"`
	IdentityStatus             IdentityStatus `json:"identity_status,omitempty"`
	IsRestrictedViewer         bool           `json:"is_restricted_viewer"`

	Resolved Resolved `json:"resolved"`
}

// WithLocalValidation returns a copy of the snapshot with the session-local
// sticky flag applied. The flag only ever ORs in; it never clears.
func (s SignalSnapshot) WithLocalValidation(completed bool) SignalSnapshot {
	s.ValidationCompletedLocally = s.ValidationCompletedLocally || completed
	return s
}

// FundSummary is the treasury service's classification of held money, in
// minor currency units. pending + reserve + spendable may be less than
// total; the residue is money not yet classified.
type FundSummary struct {
	PendingAmount      int64      `json:"pending_amount"`
	ReserveAmount      int64      `json:"reserve_amount"`
	SpendableAmount    int64      `json:"spendable_amount"`
	TotalAmount        int64      `json:"total_amount"`
	Restrictions       []string   `json:"restrictions"`
	PendingExplanation string     `json:"pending_explanation,omitempty"`
	ReserveExplanation string     `json:"reserve_explanation,omitempty"`
	LastRecalculatedAt *time.Time `json:"last_recalculated_at"`
}

// FinancialAccountBalance mirrors the balance block of the financial-account
// service, in minor currency units.
type FinancialAccountBalance struct {
	Cash            int64 `json:"cash"`
	Effective       int64 `json:"effective"`
	InboundPending  int64 `json:"inbound_pending"`
	OutboundPending int64 `json:"outbound_pending"`
}

// FinancialAccount is the treasury-style account holding operating cash.
type FinancialAccount struct {
	Status           FinancialAccountStatus  `json:"status"`
	Balance          FinancialAccountBalance `json:"balance"`
	ABARoutingNumber string                  `json:"aba_routing_number,omitempty"`
}

// User is a dashboard viewer.
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session records which pipeline step a viewer's onboarding session is
// parked at, plus the sticky local-validation flag. Sessions expire after a
// hard TTL and are destroyed on completion or sign-out.
type Session struct {
	ID                  string    `json:"id"`
	UserID              int64     `json:"user_id"`
	CurrentStep         Step      `json:"current_step"`
	ValidationCompleted bool      `json:"validation_completed"`
	StartedAt           time.Time `json:"started_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
