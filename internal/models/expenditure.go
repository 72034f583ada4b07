package models

import (
	"strings"
	"time"

	"github.com/college-budget/backend/internal/auth"
	"github.com/college-budget/backend/internal/config"
	"github.com/college-budget/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"
)

type ExpenditureStatus string

const (
	ExpenditurePending   ExpenditureStatus = "pending"
	ExpenditureVerified  ExpenditureStatus = "verified"
	ExpenditureApproved  ExpenditureStatus = "approved"
	ExpenditureRejected  ExpenditureStatus = "rejected"
	ExpenditureFinalized ExpenditureStatus = "finalized"
)

type Decision string

const (
	DecisionSubmitted Decision = "submitted"
	DecisionVerified  Decision = "verified"
	DecisionApproved  Decision = "approved"
	DecisionRejected  Decision = "rejected"
	DecisionFinalized Decision = "finalized"
)

// Expenditure is a bill claimed against a department's budget. It moves
// through pending, verified, approved and finalized, or out to rejected.
// The bill amount is frozen after submission, a rejected bill is fixed
// by resubmitting a fresh copy.
type Expenditure struct {
	DefaultModel
	FinancialYear types.FinancialYear `gorm:"uniqueIndex:expenditure_bill_number" json:"financialYear" example:"2025-2026"`
	Department    Department          `json:"-"`
	DepartmentID  uuid.UUID           `gorm:"uniqueIndex:expenditure_bill_number" json:"departmentId"`
	BudgetHead    BudgetHead          `json:"-"`
	BudgetHeadID  uuid.UUID           `json:"budgetHeadId"`
	// The bill number index is partial: a rejected bill releases its
	// number so the resubmission can reuse it.
	BillNumber            string            `gorm:"uniqueIndex:expenditure_bill_number,where:status <> 'rejected'" json:"billNumber" example:"INV-2025-0042"`
	BillDate              time.Time         `json:"billDate"`
	BillAmount            decimal.Decimal   `gorm:"type:DECIMAL(20,8)" json:"billAmount" example:"12500"`
	PartyName             string            `json:"partyName" example:"Acme Scientific Supplies"`
	ExpenseDetails        string            `json:"expenseDetails"`
	Attachments           []string          `gorm:"serializer:json" json:"attachments"`
	Status                ExpenditureStatus `json:"status" example:"pending"`
	SubmittedByID         uuid.UUID         `json:"submittedById"`
	SubmittedBy           string            `json:"submittedBy" example:"CSE Department Clerk"`
	IsResubmission        bool              `json:"isResubmission"`
	OriginalExpenditureID *uuid.UUID        `gorm:"uniqueIndex:expenditure_resubmission" json:"originalExpenditureId"`
	Steps                 []ApprovalStep    `json:"steps,omitempty"`
}

func (e *Expenditure) BeforeSave(_ *gorm.DB) error {
	if e.Status == "" {
		e.Status = ExpenditurePending
	}

	e.BillNumber = strings.TrimSpace(e.BillNumber)
	e.PartyName = strings.TrimSpace(e.PartyName)
	e.ExpenseDetails = strings.TrimSpace(e.ExpenseDetails)

	if !e.BillAmount.IsPositive() {
		return ErrBillAmountNotPositive
	}

	return nil
}

// ApprovalStep is one entry in an expenditure's decision trail.
// Sequence numbers start at 1 and the unique index keeps concurrent
// deciders from writing the same slot.
type ApprovalStep struct {
	DefaultModel
	ExpenditureID uuid.UUID `gorm:"uniqueIndex:approval_step_sequence" json:"expenditureId"`
	Sequence      uint      `gorm:"uniqueIndex:approval_step_sequence" json:"sequence" example:"2"`
	ApproverID    uuid.UUID `json:"approverId"`
	Approver      string    `json:"approver" example:"Vice Principal"`
	Role          auth.Role `json:"role" example:"vice_principal"`
	Decision      Decision  `json:"decision" example:"approved"`
	Remarks       string    `json:"remarks"`
}

// ExpenditureEditable represents all user configurable parameters of a
// new expenditure.
type ExpenditureEditable struct {
	FinancialYear  types.FinancialYear `json:"financialYear" example:"2025-2026"`
	DepartmentID   uuid.UUID           `json:"departmentId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	BudgetHeadID   uuid.UUID           `json:"budgetHeadId" example:"c1ea324d-d438-4419-882a-2fc91d71772f"`
	BillNumber     string              `json:"billNumber" example:"INV-2025-0042"`
	BillDate       time.Time           `json:"billDate"`
	BillAmount     decimal.Decimal     `json:"billAmount" example:"12500"`
	PartyName      string              `json:"partyName" example:"Acme Scientific Supplies"`
	ExpenseDetails string              `json:"expenseDetails" example:"Oscilloscope repair"`
	Attachments    []string            `json:"attachments"`
}

func (editable ExpenditureEditable) model() Expenditure {
	// The financial year defaults to the one the bill date falls into
	year := editable.FinancialYear
	if year.IsZero() {
		year = types.FinancialYearOf(editable.BillDate)
	}

	return Expenditure{
		FinancialYear:  year,
		DepartmentID:   editable.DepartmentID,
		BudgetHeadID:   editable.BudgetHeadID,
		BillNumber:     editable.BillNumber,
		BillDate:       editable.BillDate,
		BillAmount:     editable.BillAmount,
		PartyName:      editable.PartyName,
		ExpenseDetails: editable.ExpenseDetails,
		Attachments:    editable.Attachments,
		Status:         ExpenditurePending,
	}
}

// SubmitResult is a submitted expenditure plus an advisory overspend
// warning under the warn policy.
type SubmitResult struct {
	Expenditure Expenditure
	Warning     string
}

// ApproveResult carries everything an approval decision produced: the
// updated expenditure and allocation, an advisory warning, and whether
// the allocation crossed the exhaustion threshold.
type ApproveResult struct {
	Expenditure Expenditure
	Allocation  Allocation
	Warning     string
	Exhausted   bool
	Utilization decimal.Decimal
}

var amountPrinter = message.NewPrinter(language.English)

func overspendWarning(allocation Allocation, requested decimal.Decimal) string {
	return amountPrinter.Sprintf("bill amount %v exceeds the remaining budget of %v", requested, allocation.Remaining())
}

// SubmitExpenditure records a new bill in pending state. The matching
// allocation must exist. The overspend check here is advisory under the
// warn and allow policies, the binding check happens at approval.
func SubmitExpenditure(editable ExpenditureEditable, budget config.BudgetConfig, actor auth.Actor) (SubmitResult, error) {
	if !actor.CanSubmitExpenditure(editable.DepartmentID) {
		return SubmitResult{}, ErrPermissionDenied
	}

	expenditure := editable.model()
	expenditure.SubmittedByID = actor.UserID
	expenditure.SubmittedBy = actor.Name

	var warning string
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := checkFinancialYearOpen(tx, expenditure.FinancialYear); err != nil {
			return err
		}

		allocation, err := findAllocationForUpdate(tx, expenditure.FinancialYear, editable.DepartmentID, editable.BudgetHeadID)
		if err != nil {
			return err
		}

		switch CheckOverspend(allocation, editable.BillAmount, budget.OverspendPolicy) {
		case OverspendDecisionBlock:
			return &BudgetExceededError{Remaining: allocation.Remaining()}
		case OverspendDecisionWarn:
			warning = overspendWarning(allocation, editable.BillAmount)
		}

		if err := tx.Create(&expenditure).Error; err != nil {
			return err
		}

		return appendStep(tx, &expenditure, DecisionSubmitted, "", actor)
	})
	if err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{Expenditure: expenditure, Warning: warning}, nil
}

// appendStep writes the next entry of an expenditure's decision trail.
func appendStep(tx *gorm.DB, expenditure *Expenditure, decision Decision, remarks string, actor auth.Actor) error {
	var count int64
	err := tx.Model(&ApprovalStep{}).
		Where("expenditure_id = ?", expenditure.ID).
		Count(&count).Error
	if err != nil {
		return err
	}

	step := ApprovalStep{
		ExpenditureID: expenditure.ID,
		Sequence:      uint(count) + 1,
		ApproverID:    actor.UserID,
		Approver:      actor.Name,
		Role:          actor.Role,
		Decision:      decision,
		Remarks:       strings.TrimSpace(remarks),
	}

	if err := tx.Create(&step).Error; err != nil {
		return err
	}

	expenditure.Steps = append(expenditure.Steps, step)
	return nil
}

// transitionExpenditure runs one state machine move in a transaction:
// load, permission check, legality check, the transition's own gate,
// then the status write and the decision trail entry.
func transitionExpenditure(
	id uuid.UUID,
	from []ExpenditureStatus,
	to ExpenditureStatus,
	decision Decision,
	remarks string,
	actor auth.Actor,
	allowed func(Expenditure) bool,
	gate func(tx *gorm.DB, expenditure *Expenditure) error,
) (Expenditure, error) {
	var expenditure Expenditure
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&expenditure, "id = ?", id).Error; err != nil {
			return err
		}

		if !allowed(expenditure) {
			return ErrPermissionDenied
		}

		legal := false
		for _, status := range from {
			if expenditure.Status == status {
				legal = true
				break
			}
		}
		if !legal {
			return ErrIllegalStateTransition
		}

		if gate != nil {
			if err := gate(tx, &expenditure); err != nil {
				return err
			}
		}

		// Update through the loaded record so the save hook validates
		// the real bill, not a zero value
		expenditure.Status = to
		if err := tx.Model(&expenditure).Update("status", to).Error; err != nil {
			return err
		}

		return appendStep(tx, &expenditure, decision, remarks, actor)
	})
	if err != nil {
		return Expenditure{}, err
	}

	return expenditure, nil
}

// VerifyExpenditure moves a pending bill to verified. HODs verify their
// own department's bills, office and admin verify anywhere.
func VerifyExpenditure(id uuid.UUID, remarks string, actor auth.Actor) (Expenditure, error) {
	return transitionExpenditure(id,
		[]ExpenditureStatus{ExpenditurePending},
		ExpenditureVerified, DecisionVerified, remarks, actor,
		func(e Expenditure) bool { return actor.CanVerifyExpenditure(e.DepartmentID) },
		nil,
	)
}

// ApproveExpenditure moves a bill to approved and commits the bill
// amount to the allocation's spent counter. This is the binding budget
// check: the vice principal's monetary ceiling, the overspend policy,
// and the atomic increment all apply here. A still-pending bill can be
// approved directly, the decision trail then simply has no verify step.
func ApproveExpenditure(id uuid.UUID, remarks string, budget config.BudgetConfig, actor auth.Actor) (ApproveResult, error) {
	var result ApproveResult

	expenditure, err := transitionExpenditure(id,
		[]ExpenditureStatus{ExpenditurePending, ExpenditureVerified},
		ExpenditureApproved, DecisionApproved, remarks, actor,
		func(Expenditure) bool { return actor.CanApproveExpenditure() },
		func(tx *gorm.DB, e *Expenditure) error {
			if actor.Role == auth.RoleVicePrincipal && e.BillAmount.GreaterThan(budget.VPApprovalCeiling) {
				return ErrThresholdExceeded
			}

			allocation, err := findAllocationForUpdate(tx, e.FinancialYear, e.DepartmentID, e.BudgetHeadID)
			if err != nil {
				return err
			}

			switch CheckOverspend(allocation, e.BillAmount, budget.OverspendPolicy) {
			case OverspendDecisionBlock:
				return &BudgetExceededError{Remaining: allocation.Remaining()}
			case OverspendDecisionWarn:
				result.Warning = overspendWarning(allocation, e.BillAmount)
			}

			updated, err := applyApproval(tx, allocation.ID, e.BillAmount, budget.OverspendPolicy)
			if err != nil {
				return err
			}

			result.Allocation = updated
			result.Utilization = updated.Utilization()
			result.Exhausted = result.Utilization.GreaterThanOrEqual(budget.ExhaustionThreshold)
			return nil
		},
	)
	if err != nil {
		return ApproveResult{}, err
	}

	result.Expenditure = expenditure
	return result, nil
}

// RejectExpenditure moves a pending, verified or approved bill to
// rejected. Rejection remarks are mandatory, the submitter needs to
// know what to fix before resubmitting. Rejection never touches the
// allocation, an approved-then-rejected bill keeps its committed spent
// amount until an allocation update corrects it.
func RejectExpenditure(id uuid.UUID, remarks string, actor auth.Actor) (Expenditure, error) {
	if strings.TrimSpace(remarks) == "" {
		return Expenditure{}, ErrRemarksRequired
	}

	return transitionExpenditure(id,
		[]ExpenditureStatus{ExpenditurePending, ExpenditureVerified, ExpenditureApproved},
		ExpenditureRejected, DecisionRejected, remarks, actor,
		func(e Expenditure) bool { return actor.CanRejectExpenditure(e.DepartmentID) },
		nil,
	)
}

// FinalizeExpenditure marks an approved bill as paid out. Terminal.
func FinalizeExpenditure(id uuid.UUID, remarks string, actor auth.Actor) (Expenditure, error) {
	return transitionExpenditure(id,
		[]ExpenditureStatus{ExpenditureApproved},
		ExpenditureFinalized, DecisionFinalized, remarks, actor,
		func(Expenditure) bool { return actor.CanFinalizeExpenditure() },
		nil,
	)
}

// ResubmitOverrides are the fields a resubmission may change compared
// to the rejected original. Department and budget head are pinned, a
// resubmission corrects a bill, it does not move it to another budget.
type ResubmitOverrides struct {
	BillNumber     *string          `json:"billNumber"`
	BillDate       *time.Time       `json:"billDate"`
	BillAmount     *decimal.Decimal `json:"billAmount"`
	PartyName      *string          `json:"partyName"`
	ExpenseDetails *string          `json:"expenseDetails"`
	Attachments    *[]string        `json:"attachments"`
}

// ResubmitExpenditure creates a fresh pending copy of a rejected bill,
// linked to the original. Each rejected bill can be resubmitted once,
// the unique index on the lineage column backs the rule against races.
func ResubmitExpenditure(originalID uuid.UUID, overrides ResubmitOverrides, budget config.BudgetConfig, actor auth.Actor) (SubmitResult, error) {
	var result SubmitResult

	err := DB.Transaction(func(tx *gorm.DB) error {
		var original Expenditure
		if err := tx.First(&original, "id = ?", originalID).Error; err != nil {
			return err
		}

		if !actor.CanSubmitExpenditure(original.DepartmentID) {
			return ErrPermissionDenied
		}

		if original.Status != ExpenditureRejected {
			return ErrNotResubmittable
		}

		var count int64
		err := tx.Model(&Expenditure{}).
			Where("original_expenditure_id = ?", originalID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrNotResubmittable
		}

		editable := ExpenditureEditable{
			FinancialYear:  original.FinancialYear,
			DepartmentID:   original.DepartmentID,
			BudgetHeadID:   original.BudgetHeadID,
			BillNumber:     original.BillNumber,
			BillDate:       original.BillDate,
			BillAmount:     original.BillAmount,
			PartyName:      original.PartyName,
			ExpenseDetails: original.ExpenseDetails,
			Attachments:    original.Attachments,
		}

		if overrides.BillNumber != nil {
			editable.BillNumber = *overrides.BillNumber
		}
		if overrides.BillDate != nil {
			editable.BillDate = *overrides.BillDate
		}
		if overrides.BillAmount != nil {
			editable.BillAmount = *overrides.BillAmount
		}
		if overrides.PartyName != nil {
			editable.PartyName = *overrides.PartyName
		}
		if overrides.ExpenseDetails != nil {
			editable.ExpenseDetails = *overrides.ExpenseDetails
		}
		if overrides.Attachments != nil {
			editable.Attachments = *overrides.Attachments
		}

		// The copy carries its lineage from the start, there is no
		// window in which it exists unlinked
		resubmission := editable.model()
		resubmission.SubmittedByID = actor.UserID
		resubmission.SubmittedBy = actor.Name
		resubmission.IsResubmission = true
		resubmission.OriginalExpenditureID = &original.ID

		if err := checkFinancialYearOpen(tx, resubmission.FinancialYear); err != nil {
			return err
		}

		allocation, err := findAllocationForUpdate(tx, resubmission.FinancialYear, resubmission.DepartmentID, resubmission.BudgetHeadID)
		if err != nil {
			return err
		}

		switch CheckOverspend(allocation, resubmission.BillAmount, budget.OverspendPolicy) {
		case OverspendDecisionBlock:
			return &BudgetExceededError{Remaining: allocation.Remaining()}
		case OverspendDecisionWarn:
			result.Warning = overspendWarning(allocation, resubmission.BillAmount)
		}

		if err := tx.Create(&resubmission).Error; err != nil {
			return err
		}

		if err := appendStep(tx, &resubmission, DecisionSubmitted, "", actor); err != nil {
			return err
		}

		result.Expenditure = resubmission
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	return result, nil
}
