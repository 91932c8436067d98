package collector

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/tradebot/internal/cache"
	"github.com/newthinker/tradebot/internal/core"
)

func TestCached_History(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	defer mc.Close()

	inner := &mockCollector{name: "mock", candles: someCandles(5)}
	c := NewCached(inner, mc, time.Minute)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := c.FetchHistory(ctx, "X", start, end, "1d")
	require.NoError(t, err)
	second, err := c.FetchHistory(ctx, "X", start, end, "1d")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	require.Len(t, second, 5)
	assert.Equal(t, first[4].Close, second[4].Close)
	assert.True(t, first[4].Time.Equal(second[4].Time))

	_, err = c.FetchHistory(ctx, "Y", start, end, "1d")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCached_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	defer mc.Close()

	inner := &mockCollector{name: "mock", err: errors.New("down")}
	c := NewCached(inner, mc, 0)

	_, err := c.FetchHistory(ctx, "X", time.Time{}, time.Time{}, "1d")
	require.Error(t, err)
	_, err = c.FetchHistory(ctx, "X", time.Time{}, time.Time{}, "1d")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCached_Fundamentals(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	defer mc.Close()

	inner := &fundamentalMock{mockCollector{name: "f",
		fundamentals: &core.Fundamentals{PERatio: 20, Valid: true}}}
	c := NewCached(inner, mc, time.Minute)

	for i := 0; i < 3; i++ {
		f, err := c.FetchFundamentals(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, 20.0, f.PERatio)
	}
	assert.Equal(t, 1, inner.calls)

	plain := NewCached(&mockCollector{name: "plain"}, mc, time.Minute)
	_, err := plain.FetchFundamentals(ctx, "AAPL")
	assert.Error(t, err)
	_, err = plain.FetchOnChain(ctx, "BTC-USD")
	assert.Error(t, err)
}

func TestCached_RegistryUsesWrappedCapabilities(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	r := NewRegistry()
	r.Register(NewCached(&mockCollector{name: "plain"}, mc, time.Minute))
	r.Register(NewCached(&onChainMock{mockCollector{name: "chain",
		onChain: &core.OnChainData{NetInflow: -3, Valid: true}}}, mc, time.Minute))

	d, err := r.OnChain(context.Background(), "BTC-USD")
	require.NoError(t, err)
	assert.Equal(t, -3.0, d.NetInflow)
	assert.Equal(t, "plain", r.GetAll()[0].(*Cached).Unwrap().Name())
}

type slowCollector struct {
	mockCollector
	release chan struct{}
	calls   atomic.Int32
}

func (s *slowCollector) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Candle, error) {
	s.calls.Add(1)
	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return someCandles(2), nil
}

func TestCached_ConcurrentMissesShareFetch(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	inner := &slowCollector{mockCollector: mockCollector{name: "slow"}, release: make(chan struct{})}
	c := NewCached(inner, mc, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.FetchHistory(context.Background(), "X", time.Time{}, time.Time{}, "1d")
			assert.NoError(t, err)
			assert.Len(t, got, 2)
		}()
	}

	// let the goroutines pile up on the in-flight call
	time.Sleep(100 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCached_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	inner := &slowCollector{mockCollector: mockCollector{name: "slow"}, release: make(chan struct{})}
	c := NewCached(inner, mc, time.Minute)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.FetchHistory(firstCtx, "X", time.Time{}, time.Time{}, "1d")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		candles []core.Candle
		err     error
	}
	second := make(chan result, 1)
	go func() {
		got, err := c.FetchHistory(context.Background(), "X", time.Time{}, time.Time{}, "1d")
		second <- result{got, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(inner.release)
	res := <-second
	require.NoError(t, res.err)
	assert.Len(t, res.candles, 2)
	assert.Equal(t, int32(1), inner.calls.Load())

	cached, err := c.FetchHistory(context.Background(), "X", time.Time{}, time.Time{}, "1d")
	require.NoError(t, err)
	assert.Len(t, cached, 2)
	assert.Equal(t, int32(1), inner.calls.Load())
}
