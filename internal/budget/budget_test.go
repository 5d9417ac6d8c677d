package budget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCost(t *testing.T) {
	tests := []struct {
		records int
		want    int
	}{
		{0, 0},
		{-5, 0},
		{1, 3},
		{99, 3},
		{100, 3},
		{101, 6},
		{200, 6},
		{201, 9},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PageCost(tt.records), "records=%d", tt.records)
	}
}

func TestGovernor_ReserveAndCommit(t *testing.T) {
	g := NewGovernor(18)

	permit, err := g.Reserve(context.Background(), 6)
	require.NoError(t, err)

	// Reserved credits count against the cap until settled.
	assert.Equal(t, 12, g.Remaining())
	assert.Equal(t, 0, g.Consumed())

	// Commit charges for the records actually returned, not the estimate.
	permit.Commit(80)
	assert.Equal(t, 3, g.Consumed())
	assert.Equal(t, 15, g.Remaining())
	assert.Equal(t, 1, g.CallsInWindow())
}

func TestGovernor_AbortChargesNoCreditsButOccupiesRateSlot(t *testing.T) {
	g := NewGovernor(18)

	permit, err := g.Reserve(context.Background(), 6)
	require.NoError(t, err)

	permit.Abort()
	assert.Equal(t, 0, g.Consumed())
	assert.Equal(t, 18, g.Remaining())
	// The failed attempt still counts toward the rate window.
	assert.Equal(t, 1, g.CallsInWindow())
}

func TestGovernor_CreditExhaustionFailsImmediately(t *testing.T) {
	g := NewGovernor(9)

	permit, err := g.Reserve(context.Background(), 6)
	require.NoError(t, err)
	permit.Commit(200) // 6 credits

	start := time.Now()
	_, err = g.Reserve(context.Background(), 6)
	require.Error(t, err)

	var creditErr *CreditError
	require.ErrorAs(t, err, &creditErr)
	assert.Equal(t, 6, creditErr.Requested)
	assert.Equal(t, 3, creditErr.Remaining)
	// Credit exhaustion never waits.
	assert.Less(t, time.Since(start), time.Second)
}

func TestGovernor_OutstandingReservationsBlockOverrun(t *testing.T) {
	g := NewGovernor(10)

	first, err := g.Reserve(context.Background(), 6)
	require.NoError(t, err)

	// 6 reserved, 4 left: a second 6-credit call must not fit.
	_, err = g.Reserve(context.Background(), 6)
	var creditErr *CreditError
	require.ErrorAs(t, err, &creditErr)

	first.Abort()
	_, err = g.Reserve(context.Background(), 6)
	assert.NoError(t, err)
}

func TestGovernor_SettleIsIdempotent(t *testing.T) {
	g := NewGovernor(18)

	permit, err := g.Reserve(context.Background(), 3)
	require.NoError(t, err)

	permit.Commit(50)
	permit.Commit(50)
	permit.Abort()

	assert.Equal(t, 3, g.Consumed())
	assert.Equal(t, 1, g.CallsInWindow())
}

func TestGovernor_RateWindowThrottle(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	g := NewGovernor(1000, WithClock(func() time.Time { return clock }), WithMaxWait(10*time.Millisecond))

	for i := 0; i < RateLimit; i++ {
		permit, err := g.Reserve(context.Background(), 0)
		require.NoError(t, err)
		permit.Commit(1)
	}
	assert.Equal(t, RateLimit, g.CallsInWindow())

	// The window is full and cannot drain within the wait bound.
	_, err := g.Reserve(context.Background(), 0)
	require.Error(t, err)

	var throttleErr *ThrottleError
	assert.ErrorAs(t, err, &throttleErr)
}

func TestGovernor_RateWindowExpires(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	g := NewGovernor(1000, WithClock(func() time.Time { return clock }), WithMaxWait(10*time.Millisecond))

	for i := 0; i < RateLimit; i++ {
		permit, err := g.Reserve(context.Background(), 0)
		require.NoError(t, err)
		permit.Commit(1)
	}

	clock = clock.Add(RateWindow + time.Second)
	assert.Equal(t, 0, g.CallsInWindow())

	_, err := g.Reserve(context.Background(), 3)
	assert.NoError(t, err)
}

func TestGovernor_ReserveHonorsContextCancellation(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	g := NewGovernor(1000, WithClock(func() time.Time { return clock }), WithMaxWait(time.Hour))

	for i := 0; i < RateLimit; i++ {
		permit, err := g.Reserve(context.Background(), 0)
		require.NoError(t, err)
		permit.Commit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Reserve(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGovernor_ConcurrentReservationsNeverExceedCap(t *testing.T) {
	const creditCap = 12
	g := NewGovernor(creditCap)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			permit, err := g.Reserve(context.Background(), 3)
			if err != nil {
				return
			}
			permit.Commit(100) // 3 credits
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, g.Consumed(), creditCap)
	assert.Equal(t, creditCap, g.Consumed(), "exactly creditCap/3 calls should have succeeded")
}
