package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBill(number, customer string, at time.Time, items ...model.BillItem) *model.Bill {
	total := decimal.Zero
	for i := range items {
		items[i].Position = i
		items[i].Subtotal = items[i].Price.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		total = total.Add(items[i].Subtotal)
	}
	b := &model.Bill{
		ID:          uuid.NewString(),
		BillNumber:  number,
		Items:       items,
		TotalAmount: total,
		Timestamp:   at,
	}
	if customer != "" {
		b.CustomerName = &customer
	}
	return b
}

func item(name string, price int64, qty int) model.BillItem {
	return model.BillItem{ProductID: "p-" + name, Name: name, Price: decimal.NewFromInt(price), Quantity: qty}
}

func TestBillCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewBillRepository(testutil.NewDB(t, Models()...))

	bill := newBill("1", "Amit", time.Now(), item("Soap", 20, 3), item("Tea", 130, 1))
	require.NoError(t, repo.Create(ctx, bill))

	got, err := repo.FindByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", got.BillNumber)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Soap", got.Items[0].Name)
	assert.Equal(t, "Tea", got.Items[1].Name)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(190)))

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBillListSearchAndSort(t *testing.T) {
	ctx := context.Background()
	repo := NewBillRepository(testutil.NewDB(t, Models()...))

	base := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newBill("1", "Amit Sharma", base, item("Soap", 20, 3))))
	require.NoError(t, repo.Create(ctx, newBill("2", "", base.Add(time.Hour), item("Atta", 250, 2))))
	require.NoError(t, repo.Create(ctx, newBill("3", "Sunita", base.Add(2*time.Hour), item("Milk", 55, 1))))

	bills, err := repo.List(ctx, BillQuery{})
	require.NoError(t, err)
	require.Len(t, bills, 3)
	assert.Equal(t, "3", bills[0].BillNumber)
	assert.NotEmpty(t, bills[0].Items)

	bills, err = repo.List(ctx, BillQuery{Sort: SortDateAsc})
	require.NoError(t, err)
	assert.Equal(t, "1", bills[0].BillNumber)

	bills, err = repo.List(ctx, BillQuery{Sort: SortAmountDesc})
	require.NoError(t, err)
	assert.Equal(t, "2", bills[0].BillNumber)

	bills, err = repo.List(ctx, BillQuery{Sort: SortAmountAsc})
	require.NoError(t, err)
	assert.Equal(t, "3", bills[0].BillNumber)

	bills, err = repo.List(ctx, BillQuery{Search: "amit"})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "1", bills[0].BillNumber)

	bills, err = repo.List(ctx, BillQuery{Search: "atta"})
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, "2", bills[0].BillNumber)
}

func TestParseBillSort(t *testing.T) {
	assert.Equal(t, SortAmountAsc, ParseBillSort("amountAsc"))
	assert.Equal(t, SortDateDesc, ParseBillSort(""))
	assert.Equal(t, SortDateDesc, ParseBillSort("bogus"))
}

func TestSalesBetween(t *testing.T) {
	ctx := context.Background()
	repo := NewBillRepository(testutil.NewDB(t, Models()...))

	day := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newBill("1", "", day.Add(-time.Minute), item("Soap", 20, 1))))
	require.NoError(t, repo.Create(ctx, newBill("2", "", day, item("Atta", 250, 2))))
	require.NoError(t, repo.Create(ctx, newBill("3", "", day.Add(23*time.Hour+59*time.Minute), item("Tea", 130, 1))))
	require.NoError(t, repo.Create(ctx, newBill("4", "", day.Add(24*time.Hour), item("Milk", 55, 1))))

	totals, err := repo.SalesBetween(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.BillCount)
	assert.Equal(t, "630", totals.Amount.String())

	empty, err := repo.SalesBetween(ctx, day.AddDate(0, 1, 0), day.AddDate(0, 1, 1))
	require.NoError(t, err)
	assert.Zero(t, empty.BillCount)
	assert.True(t, empty.Amount.IsZero())
}
