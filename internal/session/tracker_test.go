package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/onboarding/internal/models"
)

func newTestTracker(ttl time.Duration) (*Tracker, *time.Time) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	tr := NewTracker(NewMemoryStore(), ttl)
	tr.now = func() time.Time { return now }
	return tr, &now
}

func TestStartIsIdempotent(t *testing.T) {
	tr, _ := newTestTracker(DefaultTTL)
	ctx := context.Background()

	first, err := tr.Start(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, models.StepReview, first.CurrentStep)

	second, err := tr.Start(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	tr, _ := newTestTracker(DefaultTTL)
	ctx := context.Background()

	a, err := tr.Start(ctx, 1)
	require.NoError(t, err)
	b, err := tr.Start(ctx, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	_, err = tr.RecordStepCompleted(ctx, 1, models.StepValidation)
	require.NoError(t, err)

	done, err := tr.ValidationCompleted(ctx, 2)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestRecordStepEntered(t *testing.T) {
	tr, _ := newTestTracker(DefaultTTL)
	ctx := context.Background()

	sess, err := tr.RecordStepEntered(ctx, 7, models.StepAccount)
	require.NoError(t, err)
	assert.Equal(t, models.StepAccount, sess.CurrentStep)

	// Entering a step without an explicit Start creates the session.
	cur, err := tr.Current(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, models.StepAccount, cur.CurrentStep)
}

func TestValidationFlagIsSticky(t *testing.T) {
	tr, _ := newTestTracker(DefaultTTL)
	ctx := context.Background()

	_, err := tr.RecordStepCompleted(ctx, 7, models.StepValidation)
	require.NoError(t, err)

	// Later step activity must not clear the flag.
	_, err = tr.RecordStepEntered(ctx, 7, models.StepAccount)
	require.NoError(t, err)
	_, err = tr.RecordStepCompleted(ctx, 7, models.StepAccount)
	require.NoError(t, err)

	done, err := tr.ValidationCompleted(ctx, 7)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestTerminalCompletionDestroysSession(t *testing.T) {
	tr, _ := newTestTracker(DefaultTTL)
	ctx := context.Background()

	_, err := tr.Start(ctx, 7)
	require.NoError(t, err)

	_, err = tr.RecordStepCompleted(ctx, 7, models.StepComplete)
	require.NoError(t, err)

	cur, err := tr.Current(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestExpiredSessionStartsFresh(t *testing.T) {
	tr, now := newTestTracker(1 * time.Hour)
	ctx := context.Background()

	first, err := tr.Start(ctx, 7)
	require.NoError(t, err)
	_, err = tr.RecordStepCompleted(ctx, 7, models.StepValidation)
	require.NoError(t, err)

	*now = now.Add(61 * time.Minute)

	cur, err := tr.Current(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, cur, "expired session should read as absent")

	// The sticky flag dies with the session.
	done, err := tr.ValidationCompleted(ctx, 7)
	require.NoError(t, err)
	assert.False(t, done)

	fresh, err := tr.Start(ctx, 7)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, fresh.ID)
}

func TestClear(t *testing.T) {
	tr, _ := newTestTracker(DefaultTTL)
	ctx := context.Background()

	_, err := tr.Start(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, tr.Clear(ctx, 7))

	cur, err := tr.Current(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, cur)
}
