package sequence

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/repository"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ calls int }

func (s *failingStore) Increment(context.Context) (int64, error) {
	s.calls++
	return 0, errors.New("store unavailable")
}

func newAllocator(t *testing.T) (*Allocator, *repository.CounterRepository) {
	counters := repository.NewCounterRepository(testutil.NewDB(t, repository.Models()...))
	return NewAllocator(counters), counters
}

func TestNextStartsAtOne(t *testing.T) {
	ctx := context.Background()
	alloc, counters := newAllocator(t)

	_, err := counters.Read(ctx)
	require.ErrorIs(t, err, repository.ErrCounterNotFound)

	got := alloc.Next(ctx)
	assert.Equal(t, Allocation{Number: "1"}, got)

	counter, err := counters.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.LastNumber)
}

func TestNextIsStrictlyIncreasingWithoutGaps(t *testing.T) {
	ctx := context.Background()
	alloc, _ := newAllocator(t)

	prev := int64(0)
	for i := 0; i < 10; i++ {
		a := alloc.Next(ctx)
		require.False(t, a.Degraded)
		n, err := Parse(a.Number)
		require.NoError(t, err)
		assert.Equal(t, prev+1, n)
		prev = n
	}
}

func TestNextConcurrentCallersNeverShareANumber(t *testing.T) {
	ctx := context.Background()
	alloc, counters := newAllocator(t)

	const callers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[string]bool{}
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := alloc.Next(ctx)
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, a.Degraded)
			assert.False(t, seen[a.Number], "duplicate bill number %s", a.Number)
			seen[a.Number] = true
		}()
	}
	wg.Wait()

	assert.Len(t, seen, callers)
	counter, err := counters.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(callers), counter.LastNumber)
}

func TestNextDegradesToFallbackToken(t *testing.T) {
	store := &failingStore{}
	alloc := NewAllocator(store)
	alloc.now = func() time.Time { return time.UnixMilli(1_721_000_123_456) }

	a := alloc.Next(context.Background())
	assert.True(t, a.Degraded)
	assert.Equal(t, "ERR-123456", a.Number)
	assert.Regexp(t, regexp.MustCompile(`^ERR-\d{6}$`), a.Number)
	assert.True(t, IsFallback(a.Number))
	assert.Equal(t, 1, store.calls, "increment must not be retried")

	_, err := Parse(a.Number)
	assert.Error(t, err)
}

func TestFallbackKeepsLeadingZeros(t *testing.T) {
	alloc := NewAllocator(&failingStore{})
	alloc.now = func() time.Time { return time.UnixMilli(5_000_000_042) }

	assert.Equal(t, "ERR-000042", alloc.Next(context.Background()).Number)
}

func TestParse(t *testing.T) {
	n, err := Parse("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = Parse("0")
	assert.Error(t, err)
	_, err = Parse("abc")
	assert.Error(t, err)
	assert.False(t, IsFallback("42"))
}
