package checkout

import (
	"errors"
	"fmt"
)

// State is a step of the commit sequence
type State int

const (
	Idle State = iota
	AllocatingNumber
	WritingStock
	WritingBill
	ReloadingProducts
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AllocatingNumber:
		return "allocating_number"
	case WritingStock:
		return "writing_stock"
	case WritingBill:
		return "writing_bill"
	case ReloadingProducts:
		return "reloading_products"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText lets states appear by name in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrPrecondition is returned when a cart is rejected before anything is written
var ErrPrecondition = errors.New("precondition violated")

// CommitError reports the step at which a commit stopped. Steps that completed
// before it are not undone.
type CommitError struct {
	Step State
	// BillNumber is the number allocated before the failure, now skipped
	BillNumber string
	Err        error
}

func (e *CommitError) Error() string {
	if e.BillNumber == "" {
		return fmt.Sprintf("commit failed while %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("commit of bill %s failed while %s: %v", e.BillNumber, e.Step, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
