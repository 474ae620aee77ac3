package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/domain/models"
	icache "StockCast/internal/service/cache"
	pkgcache "StockCast/pkg/cache"
)

func TestWarmer_RunOnce(t *testing.T) {
	mem := pkgcache.NewMemoryCache()
	defer mem.Close()
	uc, _, gen := newTestUseCase(t, WithResultCache(icache.NewResultCache(mem), time.Hour), WithHorizons([]int{7, 14}))

	lock := &fakeLocker{}
	w := NewWarmer(uc, lock, time.Minute, nil)
	var last, total int
	w.OnProgress(func(d, n int) { last, total = d, n })

	stats, err := w.RunOnce(context.Background())
	require.NoError(t, err)

	pairs := len(models.PopularTickers) * 2
	assert.Equal(t, pairs, stats.Generated)
	assert.Zero(t, stats.Cached)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, pairs, gen.calls)
	assert.Equal(t, pairs, last)
	assert.Equal(t, pairs, total)
	assert.Equal(t, 1, lock.unlocked)

	stats, err = w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pairs, stats.Cached)
	assert.Equal(t, pairs, gen.calls)
}

func TestWarmer_SkipsWhenLocked(t *testing.T) {
	uc, _, gen := newTestUseCase(t)
	lock := &fakeLocker{held: true}
	w := NewWarmer(uc, lock, time.Minute, nil)

	stats, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Skipped)
	assert.Zero(t, gen.calls)
}

func TestWarmer_StopsOnCancel(t *testing.T) {
	uc, _, gen := newTestUseCase(t)
	w := NewWarmer(uc, nil, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.RunOnce(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, gen.calls)
}

func TestWarmer_StartRejectsBadSchedule(t *testing.T) {
	uc, _, _ := newTestUseCase(t)
	w := NewWarmer(uc, nil, time.Minute, nil)

	assert.Error(t, w.Start("not a cron"))

	require.NoError(t, w.Start("0 5 0 * * *"))
	w.Stop()
}
