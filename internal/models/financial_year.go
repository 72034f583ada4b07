package models

import (
	"errors"
	"strings"

	"github.com/college-budget/backend/internal/auth"
	"github.com/college-budget/backend/internal/types"
	"gorm.io/gorm"
)

type FinancialYearStatus string

const (
	FinancialYearOpen   FinancialYearStatus = "open"
	FinancialYearLocked FinancialYearStatus = "locked"
	FinancialYearClosed FinancialYearStatus = "closed"
)

// FinancialYear is the master record gating ledger mutation for one
// fiscal year. A locked or closed year rejects all allocation writes.
type FinancialYear struct {
	DefaultModel
	Year    types.FinancialYear `gorm:"uniqueIndex" json:"year" example:"2025-2026"`
	Status  FinancialYearStatus `json:"status" example:"open"`
	Remarks string              `json:"remarks"`
}

func (f *FinancialYear) BeforeSave(_ *gorm.DB) error {
	if f.Status == "" {
		f.Status = FinancialYearOpen
	}

	f.Remarks = strings.TrimSpace(f.Remarks)
	return nil
}

// checkFinancialYearOpen is the financial year guard. A year without a
// master record is treated as open, only an explicit locked or closed
// status blocks writes.
func checkFinancialYearOpen(tx *gorm.DB, year types.FinancialYear) error {
	var record FinancialYear
	err := tx.Where(&FinancialYear{Year: year}).First(&record).Error
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil
		}
		return err
	}

	if record.Status == FinancialYearLocked || record.Status == FinancialYearClosed {
		return ErrFinancialYearClosed
	}

	return nil
}

// CreateFinancialYear registers a financial year master record.
func CreateFinancialYear(year types.FinancialYear, status FinancialYearStatus, remarks string, actor auth.Actor) (FinancialYear, error) {
	if !actor.CanManageFinancialYears() {
		return FinancialYear{}, ErrPermissionDenied
	}

	record := FinancialYear{
		Year:    year,
		Status:  status,
		Remarks: remarks,
	}

	err := DB.Create(&record).Error
	if err != nil {
		return FinancialYear{}, err
	}

	return record, nil
}

// SetFinancialYearStatus opens, locks or closes a financial year.
func SetFinancialYearStatus(year types.FinancialYear, status FinancialYearStatus, remarks string, actor auth.Actor) (FinancialYear, error) {
	if !actor.CanManageFinancialYears() {
		return FinancialYear{}, ErrPermissionDenied
	}

	var record FinancialYear
	err := DB.Where(&FinancialYear{Year: year}).First(&record).Error
	if err != nil {
		return FinancialYear{}, err
	}

	record.Status = status
	if remarks != "" {
		record.Remarks = remarks
	}

	err = DB.Save(&record).Error
	if err != nil {
		return FinancialYear{}, err
	}

	return record, nil
}
