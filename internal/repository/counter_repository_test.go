package repository

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/testutil"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/config"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestCounterReadBeforeFirstIncrement(t *testing.T) {
	repo := NewCounterRepository(testutil.NewDB(t, Models()...))

	_, err := repo.Read(context.Background())
	assert.ErrorIs(t, err, ErrCounterNotFound)
}

func TestCounterIncrementCreatesAtOne(t *testing.T) {
	ctx := context.Background()
	repo := NewCounterRepository(testutil.NewDB(t, Models()...))

	n, err := repo.Increment(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	counter, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.LastNumber)
}

func TestCounterIncrementIsGapFree(t *testing.T) {
	ctx := context.Background()
	repo := NewCounterRepository(testutil.NewDB(t, Models()...))

	for want := int64(1); want <= 5; want++ {
		got, err := repo.Increment(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCounterConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	repo := NewCounterRepository(testutil.NewDB(t, Models()...))

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := repo.Increment(ctx)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers = append(numbers, n)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, numbers, workers)
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, n := range numbers {
		assert.Equal(t, int64(i+1), n)
	}
}

func TestCounterConcurrentIncrementsWithServiceDB(t *testing.T) {
	ctx := context.Background()
	db, err := database.InitDB(&config.DBConfig{
		Driver:       "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "shop.db"),
		MaxIdleConns: 10,
		MaxOpenConns: 100,
		LogLevel:     logger.Silent,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))

	repo := NewCounterRepository(db)
	products := NewProductRepository(db)
	p := &model.Product{Name: "Soap", Category: "Toiletries", Price: decimal.NewFromInt(20), Quantity: 100}
	require.NoError(t, products.Create(ctx, p))

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := repo.Increment(ctx); err != nil {
				errs <- err
			}
			if err := products.BatchUpdateQuantities(ctx, []QuantityUpdate{{ID: p.ID, NewQuantity: i}}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	counter, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), counter.LastNumber)
}
