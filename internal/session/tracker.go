package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/onboarding/internal/models"
)

// DefaultTTL is the hard session lifetime. Once a session is older than
// this it is treated as expired regardless of activity, and the next entry
// starts a fresh one.
const DefaultTTL = 24 * time.Hour

// Tracker owns the short-lived onboarding session for each viewer: which
// pipeline step the session is parked at and the sticky local-validation
// flag. There is a single logical writer per session, so the tracker needs
// no locking of its own beyond what the store provides.
type Tracker struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewTracker(store Store, ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tracker{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Start returns the viewer's live session, creating one on first onboarding
// entry or after expiry. Calling it again within the TTL is idempotent.
func (t *Tracker) Start(ctx context.Context, userID int64) (*models.Session, error) {
	sess, err := t.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}

	now := t.now()
	sess = &models.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		CurrentStep: models.StepReview,
		StartedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Current returns the viewer's session, or nil when none exists. An expired
// session is deleted and reported as nil so a new one begins on the next
// Start.
func (t *Tracker) Current(ctx context.Context, userID int64) (*models.Session, error) {
	sess, err := t.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	if t.now().Sub(sess.StartedAt) >= t.ttl {
		if err := t.store.Delete(ctx, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return sess, nil
}

// RecordStepEntered marks the step the session is currently stuck at.
func (t *Tracker) RecordStepEntered(ctx context.Context, userID int64, step models.Step) (*models.Session, error) {
	sess, err := t.Start(ctx, userID)
	if err != nil {
		return nil, err
	}

	sess.CurrentStep = step
	sess.UpdatedAt = t.now()
	if err := t.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// RecordStepCompleted marks a step finished. Completing validation sets the
// sticky flag, which never reverts within the session. Reaching the
// terminal step destroys the session.
func (t *Tracker) RecordStepCompleted(ctx context.Context, userID int64, step models.Step) (*models.Session, error) {
	if step == models.StepComplete {
		return nil, t.Clear(ctx, userID)
	}

	sess, err := t.Start(ctx, userID)
	if err != nil {
		return nil, err
	}

	if step == models.StepValidation {
		sess.ValidationCompleted = true
	}
	sess.UpdatedAt = t.now()
	if err := t.store.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ValidationCompleted reports the session's sticky local-validation flag,
// false when no live session exists.
func (t *Tracker) ValidationCompleted(ctx context.Context, userID int64) (bool, error) {
	sess, err := t.Current(ctx, userID)
	if err != nil {
		return false, err
	}
	return sess != nil && sess.ValidationCompleted, nil
}

// Clear destroys the viewer's session, on terminal completion or sign-out.
func (t *Tracker) Clear(ctx context.Context, userID int64) error {
	return t.store.Delete(ctx, userID)
}
