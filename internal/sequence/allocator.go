// Package sequence hands out human-facing bill numbers from a shared counter.
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"go.uber.org/zap"
)

// FallbackPrefix marks a bill number issued without the counter
const FallbackPrefix = "ERR-"

// CounterStore performs the transactional read-increment-write of the counter,
// creating it at 1 when absent
type CounterStore interface {
	Increment(ctx context.Context) (int64, error)
}

// Allocation is the outcome of one call to Next
type Allocation struct {
	Number string
	// Degraded is set when Number is a fallback token rather than a sequence value
	Degraded bool
}

// Allocator issues strictly increasing bill numbers. It holds no lock of its
// own; isolation comes from the store's transaction.
type Allocator struct {
	store CounterStore
	now   func() time.Time
}

// NewAllocator creates an allocator backed by store
func NewAllocator(store CounterStore) *Allocator {
	return &Allocator{store: store, now: time.Now}
}

// Next returns the next bill number. A failed increment is not retried and not
// returned: the allocation degrades to a time-derived fallback token instead.
func (a *Allocator) Next(ctx context.Context) Allocation {
	n, err := a.store.Increment(ctx)
	if err != nil {
		token := a.fallback()
		logger.FromCtx(ctx).Warn("Bill counter increment failed, using fallback number",
			zap.String("bill_number", token),
			zap.Error(err))
		return Allocation{Number: token, Degraded: true}
	}
	return Allocation{Number: strconv.FormatInt(n, 10)}
}

func (a *Allocator) fallback() string {
	return fmt.Sprintf("%s%06d", FallbackPrefix, a.now().UnixMilli()%1_000_000)
}

// IsFallback reports whether number was issued in degraded mode
func IsFallback(number string) bool {
	return strings.HasPrefix(number, FallbackPrefix)
}

// Parse returns the numeric value of a sequential bill number. Fallback tokens
// are rejected.
func Parse(number string) (int64, error) {
	if IsFallback(number) {
		return 0, fmt.Errorf("bill number %q is a fallback token", number)
	}
	n, err := strconv.ParseInt(number, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid bill number %q", number)
	}
	return n, nil
}
