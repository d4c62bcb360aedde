// Package checkout turns a finalized cart into a persisted bill and the
// matching stock decrements.
//
// The commit is a sequence of independent writes: number allocation, one
// batched stock update, the bill write and a product reload. There is no
// atomicity across those steps and no compensation when a later one fails.
// Stock is set unconditionally, so concurrent sales of the same product are
// last-write-wins.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/repository"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/sequence"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/Priyansh-03/Vyapar-Sahayak/prometheus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NumberAllocator issues bill numbers
type NumberAllocator interface {
	Next(ctx context.Context) sequence.Allocation
}

// ProductStore is the product storage used by a commit
type ProductStore interface {
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	BatchUpdateQuantities(ctx context.Context, updates []repository.QuantityUpdate) error
	ReadAll(ctx context.Context) ([]model.Product, error)
}

// BillWriter persists bills
type BillWriter interface {
	Create(ctx context.Context, bill *model.Bill) error
}

// CartLine is one product selection in the cart
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// CommitRequest is a finalized cart
type CommitRequest struct {
	CustomerName        string     `json:"customer_name"`
	CustomerPhoneNumber string     `json:"customer_phone_number"`
	Lines               []CartLine `json:"items"`
}

// CommitResult is the outcome of a successful commit
type CommitResult struct {
	Bill *model.Bill
	// Products is the full product set read after the bill was written
	Products []model.Product
	// PreviousQuantities holds the on-hand quantity of each sold product
	// before the decrement
	PreviousQuantities map[string]int
	Degraded           bool
	States             []State
}

// Service runs the commit sequence
type Service struct {
	numbers  NumberAllocator
	products ProductStore
	bills    BillWriter
	now      func() time.Time
}

// NewService creates a checkout service
func NewService(numbers NumberAllocator, products ProductStore, bills BillWriter) *Service {
	return &Service{
		numbers:  numbers,
		products: products,
		bills:    bills,
		now:      time.Now,
	}
}

// Validate checks the cart without writing anything
func Validate(req CommitRequest) error {
	if len(req.Lines) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrPrecondition)
	}
	if phone := strings.TrimSpace(req.CustomerPhoneNumber); phone != "" && !isPhoneNumber(phone) {
		return fmt.Errorf("%w: customer phone number must be exactly 10 digits", ErrPrecondition)
	}
	for i, line := range req.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return fmt.Errorf("%w: line %d has no product id", ErrPrecondition, i+1)
		}
		if line.Quantity < 0 {
			return fmt.Errorf("%w: line %d has a negative quantity", ErrPrecondition, i+1)
		}
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative price", ErrPrecondition, i+1)
		}
	}
	return nil
}

func isPhoneNumber(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Commit validates the cart and runs the commit sequence. Once the first write
// is issued the sequence runs to completion or failure regardless of ctx
// cancellation.
func (s *Service) Commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	run := &commitRun{
		log:    logger.FromCtx(ctx),
		result: &CommitResult{States: []State{Idle}},
	}

	run.enter(AllocatingNumber)
	alloc := s.numbers.Next(ctx)
	run.billNumber = alloc.Number
	run.result.Degraded = alloc.Degraded
	run.log = run.log.With(zap.String("bill_number", alloc.Number))

	bill := s.buildBill(req, alloc.Number)

	run.enter(WritingStock)
	previous, err := s.writeStock(ctx, req.Lines)
	if err != nil {
		return nil, run.fail(err)
	}
	run.result.PreviousQuantities = previous

	run.enter(WritingBill)
	if err := s.bills.Create(ctx, bill); err != nil {
		return nil, run.fail(err)
	}
	run.result.Bill = bill

	run.enter(ReloadingProducts)
	products, err := s.products.ReadAll(ctx)
	if err != nil {
		return nil, run.fail(err)
	}
	run.result.Products = products

	run.enter(Done)
	prometheus.RecordBillCommitted(alloc.Degraded)
	for _, p := range products {
		if _, sold := previous[p.ID]; sold {
			prometheus.UpdateProductInventory(p.ID, p.Name, p.Category, p.Quantity)
		}
	}
	run.log.Info("Bill committed",
		zap.String("bill_id", bill.ID),
		zap.String("total_amount", bill.TotalAmount.String()),
		zap.Int("items", len(bill.Items)),
		zap.Bool("degraded", alloc.Degraded))

	return run.result, nil
}

func (s *Service) buildBill(req CommitRequest, number string) *model.Bill {
	bill := &model.Bill{
		ID:          uuid.NewString(),
		BillNumber:  number,
		Items:       make([]model.BillItem, 0, len(req.Lines)),
		TotalAmount: decimal.Zero,
		Timestamp:   s.now().UTC(),
	}
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		bill.CustomerName = &name
	}
	if phone := strings.TrimSpace(req.CustomerPhoneNumber); phone != "" {
		bill.CustomerPhoneNumber = &phone
	}

	for i, line := range req.Lines {
		price := model.RoundMoney(line.UnitPrice)
		subtotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		bill.Items = append(bill.Items, model.BillItem{
			BillID:    bill.ID,
			Position:  i,
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     price,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
		})
		bill.TotalAmount = bill.TotalAmount.Add(subtotal)
	}
	return bill
}

// writeStock sets every sold product to max(onHand - sold, 0) in one batch and
// returns the on-hand quantities it started from
func (s *Service) writeStock(ctx context.Context, lines []CartLine) (map[string]int, error) {
	sold := make(map[string]int, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, seen := sold[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		sold[line.ProductID] += line.Quantity
	}

	current, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	onHand := make(map[string]int, len(current))
	for _, p := range current {
		onHand[p.ID] = p.Quantity
	}

	updates := make([]repository.QuantityUpdate, 0, len(ids))
	for _, id := range ids {
		updates = append(updates, repository.QuantityUpdate{
			ID:          id,
			NewQuantity: model.ClampQuantity(onHand[id] - sold[id]),
		})
	}
	if err := s.products.BatchUpdateQuantities(ctx, updates); err != nil {
		return nil, err
	}
	return onHand, nil
}

type commitRun struct {
	log        *zap.Logger
	result     *CommitResult
	billNumber string
}

func (r *commitRun) current() State {
	return r.result.States[len(r.result.States)-1]
}

func (r *commitRun) enter(s State) {
	r.log.Debug("Commit state changed",
		zap.Stringer("from", r.current()),
		zap.Stringer("to", s))
	r.result.States = append(r.result.States, s)
}

func (r *commitRun) fail(err error) error {
	step := r.current()
	r.result.States = append(r.result.States, Failed)
	prometheus.RecordCommitFailure(step.String())
	r.log.Error("Bill commit failed",
		zap.Stringer("step", step),
		zap.Error(err))
	return &CommitError{Step: step, BillNumber: r.billNumber, Err: err}
}
