package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// Financial year guard
	ErrFinancialYearClosed = errors.New("the financial year is locked or closed for changes")

	// Allocation ledger
	ErrDuplicateAllocation      = errors.New("an allocation already exists for this financial year, department and budget head")
	ErrMissingAllocation        = errors.New("no allocation exists for this department and budget head in the financial year")
	ErrAmountBelowSpent         = errors.New("the allocated amount cannot be set below the amount already spent")
	ErrAllocationAmountNegative = errors.New("allocation amounts must not be negative")
	ErrAllocationReferenced     = errors.New("the allocation is referenced by expenditures and cannot be deleted")
	ErrInvalidRollback          = errors.New("cannot roll back to a version whose allocated amount is below the current spent amount")
	ErrBudgetExceeded           = errors.New("the requested amount exceeds the remaining budget")
	ErrConcurrentBudgetExceeded = errors.New("the remaining budget was consumed by a concurrent approval, please retry against the current balance")

	// Expenditure workflow
	ErrDuplicateBillNumber    = errors.New("this bill number has already been used by the department in this financial year")
	ErrBillAmountNotPositive  = errors.New("the bill amount must be larger than zero")
	ErrIllegalStateTransition = errors.New("the expenditure status does not allow this transition")
	ErrThresholdExceeded      = errors.New("vice principals cannot approve bills above the approval ceiling")
	ErrRemarksRequired        = errors.New("remarks are mandatory when rejecting an expenditure")
	ErrNotResubmittable       = errors.New("only rejected expenditures can be resubmitted")

	// Role gating
	ErrPermissionDenied = errors.New("your role does not permit this operation")
)

// BudgetExceededError is returned when an overspend check blocks an
// operation. It carries the authoritative remaining budget so that
// callers can display it.
type BudgetExceededError struct {
	Remaining decimal.Decimal
}

func (e BudgetExceededError) Error() string {
	return fmt.Sprintf("%s (remaining budget: %s)", ErrBudgetExceeded, e.Remaining)
}

func (e BudgetExceededError) Unwrap() error {
	return ErrBudgetExceeded
}
