package models

import (
	"errors"
	"strings"

	"github.com/college-budget/backend/internal/auth"
	"github.com/college-budget/backend/internal/config"
	"github.com/college-budget/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AllocationStatus string

const (
	AllocationActive     AllocationStatus = "active"
	AllocationAmended    AllocationStatus = "amended"
	AllocationSuperseded AllocationStatus = "superseded"
)

// Allocation is the budget ledger line for one financial year,
// department and budget head.
//
// SpentAmount is the authoritative spend counter. It is never
// recomputed from expenditures and only moves through applyApproval.
type Allocation struct {
	DefaultModel
	FinancialYear    types.FinancialYear `gorm:"uniqueIndex:allocation_ledger_line" json:"financialYear" example:"2025-2026"`
	Department       Department          `json:"-"`
	DepartmentID     uuid.UUID           `gorm:"uniqueIndex:allocation_ledger_line" json:"departmentId"`
	BudgetHead       BudgetHead          `json:"-"`
	BudgetHeadID     uuid.UUID           `gorm:"uniqueIndex:allocation_ledger_line" json:"budgetHeadId"`
	AllocatedAmount  decimal.Decimal     `gorm:"type:DECIMAL(20,8)" json:"allocatedAmount" example:"100000"`
	SpentAmount      decimal.Decimal     `gorm:"type:DECIMAL(20,8)" json:"spentAmount" example:"10000"`
	Status           AllocationStatus    `json:"status" example:"active"`
	SourceProposalID *uuid.UUID          `json:"sourceProposalId"` // Set when the allocation was promoted from an approved proposal
	Remarks          string              `json:"remarks"`
}

// Remaining returns the budget still available for approval.
func (a Allocation) Remaining() decimal.Decimal {
	return a.AllocatedAmount.Sub(a.SpentAmount)
}

// Utilization returns the spent fraction of the allocated amount.
func (a Allocation) Utilization() decimal.Decimal {
	if a.AllocatedAmount.IsZero() {
		return decimal.Zero
	}

	return a.SpentAmount.DivRound(a.AllocatedAmount, 8)
}

func (a *Allocation) BeforeSave(_ *gorm.DB) error {
	if a.Status == "" {
		a.Status = AllocationActive
	}

	a.Remarks = strings.TrimSpace(a.Remarks)

	if a.AllocatedAmount.IsNegative() || a.SpentAmount.IsNegative() {
		return ErrAllocationAmountNegative
	}

	return nil
}

func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Allocation)
	return a.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to master data
func (a *Allocation) checkIntegrity(tx *gorm.DB, toSave Allocation) error {
	err := tx.First(&Department{}, toSave.DepartmentID).Error
	if err != nil {
		return err
	}

	return tx.First(&BudgetHead{}, toSave.BudgetHeadID).Error
}

// AllocationEditable represents all user configurable parameters of a
// new allocation.
type AllocationEditable struct {
	FinancialYear   types.FinancialYear `json:"financialYear" example:"2025-2026"`
	DepartmentID    uuid.UUID           `json:"departmentId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	BudgetHeadID    uuid.UUID           `json:"budgetHeadId" example:"c1ea324d-d438-4419-882a-2fc91d71772f"`
	AllocatedAmount decimal.Decimal     `json:"allocatedAmount" example:"100000"`
	Remarks         string              `json:"remarks" example:"Annual lab equipment budget"`
}

// AllocationUpdate holds the fields an allocation edit may change.
// SpentAmount is deliberately absent, it only moves through approvals.
type AllocationUpdate struct {
	AllocatedAmount *decimal.Decimal  `json:"allocatedAmount"`
	Remarks         *string           `json:"remarks"`
	Status          *AllocationStatus `json:"status"`
}

// CreateAllocation creates a ledger line and its first history version.
func CreateAllocation(editable AllocationEditable, actor auth.Actor) (Allocation, error) {
	if !actor.CanManageAllocations() {
		return Allocation{}, ErrPermissionDenied
	}

	allocation := Allocation{
		FinancialYear:   editable.FinancialYear,
		DepartmentID:    editable.DepartmentID,
		BudgetHeadID:    editable.BudgetHeadID,
		AllocatedAmount: editable.AllocatedAmount,
		SpentAmount:     decimal.Zero,
		Remarks:         editable.Remarks,
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := checkFinancialYearOpen(tx, editable.FinancialYear); err != nil {
			return err
		}

		if err := tx.Create(&allocation).Error; err != nil {
			return err
		}

		return recordVersion(tx, allocation, ChangeCreated, versionSnapshot{}, snapshotOf(allocation), "allocation created", actor)
	})
	if err != nil {
		return Allocation{}, err
	}

	return allocation, nil
}

// UpdateAllocation edits the allocated amount, remarks or status of a
// ledger line. The new amount must cover what has already been spent.
func UpdateAllocation(id uuid.UUID, update AllocationUpdate, actor auth.Actor) (Allocation, error) {
	if !actor.CanManageAllocations() {
		return Allocation{}, ErrPermissionDenied
	}

	var allocation Allocation
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&allocation, "id = ?", id).Error; err != nil {
			return err
		}

		if err := checkFinancialYearOpen(tx, allocation.FinancialYear); err != nil {
			return err
		}

		before := snapshotOf(allocation)

		if update.AllocatedAmount != nil {
			if update.AllocatedAmount.LessThan(allocation.SpentAmount) {
				return ErrAmountBelowSpent
			}

			if !update.AllocatedAmount.Equal(allocation.AllocatedAmount) {
				allocation.AllocatedAmount = *update.AllocatedAmount
				allocation.Status = AllocationAmended
			}
		}

		if update.Remarks != nil {
			allocation.Remarks = *update.Remarks
		}

		if update.Status != nil {
			allocation.Status = *update.Status
		}

		if err := tx.Save(&allocation).Error; err != nil {
			return err
		}

		return recordVersion(tx, allocation, ChangeUpdated, before, snapshotOf(allocation), "allocation updated", actor)
	})
	if err != nil {
		return Allocation{}, err
	}

	return allocation, nil
}

// DeleteAllocation removes a ledger line that no expenditure references.
func DeleteAllocation(id uuid.UUID, actor auth.Actor) error {
	if !actor.CanManageAllocations() {
		return ErrPermissionDenied
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		var allocation Allocation
		if err := tx.First(&allocation, "id = ?", id).Error; err != nil {
			return err
		}

		if err := checkFinancialYearOpen(tx, allocation.FinancialYear); err != nil {
			return err
		}

		var count int64
		err := tx.Model(&Expenditure{}).
			Where(&Expenditure{
				DepartmentID:  allocation.DepartmentID,
				BudgetHeadID:  allocation.BudgetHeadID,
				FinancialYear: allocation.FinancialYear,
			}).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count > 0 {
			return ErrAllocationReferenced
		}

		if err := tx.Where("allocation_id = ?", allocation.ID).Delete(&AllocationHistory{}).Error; err != nil {
			return err
		}

		return tx.Delete(&allocation).Error
	})
}

// findAllocationForUpdate returns the ledger line an expenditure spends
// against.
func findAllocationForUpdate(tx *gorm.DB, year types.FinancialYear, departmentID, budgetHeadID uuid.UUID) (Allocation, error) {
	var allocation Allocation
	err := tx.Where(&Allocation{
		FinancialYear: year,
		DepartmentID:  departmentID,
		BudgetHeadID:  budgetHeadID,
	}).First(&allocation).Error
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return Allocation{}, ErrMissingAllocation
		}
		return Allocation{}, err
	}

	return allocation, nil
}

// applyApproval atomically adds an approved bill amount to the
// allocation's spent counter.
//
// Under the disallow policy the increment carries a conditional guard,
// making it a compare-and-swap: the spent amount only moves if the new
// total stays within the allocated amount. Two approvers racing for the
// last slice of a budget both pass the read-time overspend check, the
// database then lets exactly one of the increments through. The loser
// sees zero affected rows and the enclosing transaction rolls the whole
// approval back.
func applyApproval(tx *gorm.DB, allocationID uuid.UUID, amount decimal.Decimal, policy config.OverspendPolicy) (Allocation, error) {
	q := tx.Model(&Allocation{}).Where("id = ?", allocationID)
	if policy == config.OverspendDisallow {
		q = q.Where("spent_amount + ? <= allocated_amount", amount)
	}

	res := q.UpdateColumn("spent_amount", gorm.Expr("spent_amount + ?", amount))
	if res.Error != nil {
		return Allocation{}, res.Error
	}

	if res.RowsAffected == 0 {
		return Allocation{}, ErrConcurrentBudgetExceeded
	}

	var allocation Allocation
	if err := tx.First(&allocation, "id = ?", allocationID).Error; err != nil {
		return Allocation{}, err
	}

	return allocation, nil
}
