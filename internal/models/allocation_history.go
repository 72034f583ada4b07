package models

import (
	"fmt"

	"github.com/college-budget/backend/internal/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChangeType string

const (
	ChangeCreated  ChangeType = "created"
	ChangeUpdated  ChangeType = "updated"
	ChangeRollback ChangeType = "rollback"
)

// AllocationHistory is one immutable version of an allocation. Versions
// start at 1 and are appended in the same transaction as the change they
// record, so the history can never miss or double-count a version.
type AllocationHistory struct {
	DefaultModel
	AllocationID uuid.UUID       `gorm:"uniqueIndex:allocation_history_version" json:"allocationId"`
	Version      uint            `gorm:"uniqueIndex:allocation_history_version" json:"version" example:"3"`
	ChangeType   ChangeType      `json:"changeType" example:"updated"`
	OldAllocated decimal.Decimal `gorm:"type:DECIMAL(20,8)" json:"oldAllocated"`
	NewAllocated decimal.Decimal `gorm:"type:DECIMAL(20,8)" json:"newAllocated"`
	OldSpent     decimal.Decimal `gorm:"type:DECIMAL(20,8)" json:"oldSpent"`
	NewSpent     decimal.Decimal `gorm:"type:DECIMAL(20,8)" json:"newSpent"`
	OldRemarks   string          `json:"oldRemarks"`
	NewRemarks   string          `json:"newRemarks"`
	ChangeReason string          `json:"changeReason" example:"allocation updated"`
	ChangedByID  uuid.UUID       `json:"changedById"`
	ChangedBy    string          `json:"changedBy" example:"Office Superintendent"`
}

type versionSnapshot struct {
	Allocated decimal.Decimal
	Spent     decimal.Decimal
	Remarks   string
}

func snapshotOf(allocation Allocation) versionSnapshot {
	return versionSnapshot{
		Allocated: allocation.AllocatedAmount,
		Spent:     allocation.SpentAmount,
		Remarks:   allocation.Remarks,
	}
}

// recordVersion appends the next history version for an allocation. The
// unique index on (allocation_id, version) rejects the append if another
// transaction versioned the same allocation in the meantime.
func recordVersion(tx *gorm.DB, allocation Allocation, changeType ChangeType, old, updated versionSnapshot, reason string, actor auth.Actor) error {
	var latest uint
	err := tx.Model(&AllocationHistory{}).
		Where("allocation_id = ?", allocation.ID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&latest).Error
	if err != nil {
		return err
	}

	return tx.Create(&AllocationHistory{
		AllocationID: allocation.ID,
		Version:      latest + 1,
		ChangeType:   changeType,
		OldAllocated: old.Allocated,
		NewAllocated: updated.Allocated,
		OldSpent:     old.Spent,
		NewSpent:     updated.Spent,
		OldRemarks:   old.Remarks,
		NewRemarks:   updated.Remarks,
		ChangeReason: reason,
		ChangedByID:  actor.UserID,
		ChangedBy:    actor.Name,
	}).Error
}

// AllocationVersions lists one page of a ledger line's history, newest
// first, along with the total number of versions.
func AllocationVersions(allocationID uuid.UUID, offset uint, limit int) ([]AllocationHistory, int64, error) {
	var total int64
	err := DB.Model(&AllocationHistory{}).
		Where("allocation_id = ?", allocationID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var versions []AllocationHistory
	err = DB.Where("allocation_id = ?", allocationID).
		Order("version DESC").
		Offset(int(offset)).
		Limit(limit).
		Find(&versions).Error
	if err != nil {
		return nil, 0, err
	}

	return versions, total, nil
}

// AllocationVersion returns one specific history version.
func AllocationVersion(allocationID uuid.UUID, version uint) (AllocationHistory, error) {
	var record AllocationHistory
	err := DB.Where(&AllocationHistory{AllocationID: allocationID, Version: version}).
		First(&record).Error
	if err != nil {
		return AllocationHistory{}, err
	}

	return record, nil
}

// RollbackAllocation restores the allocated amount and remarks of an
// earlier version. The spent amount is never rolled back, money that
// left the budget stays spent, so the restored allocated amount must
// still cover the current spent amount.
func RollbackAllocation(id uuid.UUID, version uint, reason string, actor auth.Actor) (Allocation, error) {
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

		var target AllocationHistory
		err := tx.Where(&AllocationHistory{AllocationID: id, Version: version}).
			First(&target).Error
		if err != nil {
			return err
		}

		if target.NewAllocated.LessThan(allocation.SpentAmount) {
			return ErrInvalidRollback
		}

		before := snapshotOf(allocation)

		allocation.AllocatedAmount = target.NewAllocated
		allocation.Remarks = target.NewRemarks
		allocation.Status = AllocationAmended

		if err := tx.Save(&allocation).Error; err != nil {
			return err
		}

		if reason == "" {
			reason = fmt.Sprintf("rolled back to version %d", version)
		}

		return recordVersion(tx, allocation, ChangeRollback, before, snapshotOf(allocation), reason, actor)
	})
	if err != nil {
		return Allocation{}, err
	}

	return allocation, nil
}
