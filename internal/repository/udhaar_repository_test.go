package repository

import (
	"context"
	"testing"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUdhaarSummary(t *testing.T) {
	ctx := context.Background()
	repo := NewUdhaarRepository(testutil.NewDB(t, Models()...))

	seeded, err := repo.SeedIfEmpty(ctx, DefaultUdhaarEntries())
	require.NoError(t, err)
	require.True(t, seeded)

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.TotalReceivable.Equal(decimal.NewFromInt(850)), summary.TotalReceivable.String())
	assert.True(t, summary.TotalPayable.Equal(decimal.NewFromInt(1450)), summary.TotalPayable.String())
	require.Len(t, summary.Receivable, 2)
	assert.Equal(t, "Vikas Kirana Store", summary.Receivable[0].Name)
	assert.Len(t, summary.Payable, 2)
}

func TestUdhaarCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewUdhaarRepository(testutil.NewDB(t, Models()...))

	entry := DefaultUdhaarEntries()[0]
	require.NoError(t, repo.Create(ctx, &entry))
	require.NotEmpty(t, entry.ID)

	entry.Amount = decimal.RequireFromString("450.50")
	entry.Type = model.EntryPayable
	require.NoError(t, repo.Update(ctx, &entry))

	got, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EntryPayable, got.Type)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("450.5")))

	payable, err := repo.List(ctx, model.EntryPayable)
	require.NoError(t, err)
	assert.Len(t, payable, 1)
	receivable, err := repo.List(ctx, model.EntryReceivable)
	require.NoError(t, err)
	assert.Empty(t, receivable)

	require.NoError(t, repo.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entry.ID), ErrNotFound)
}
