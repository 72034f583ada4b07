package models

import (
	"strings"

	"gorm.io/gorm"
)

// BudgetHead is a spending category of the institution, e.g. "Lab
// Equipment" or "Library". Master data, referenced by the ledger.
type BudgetHead struct {
	DefaultModel
	Name string `gorm:"uniqueIndex" json:"name" example:"Lab Equipment"`
	Code string `gorm:"uniqueIndex" json:"code" example:"LAB"`
}

func (b *BudgetHead) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Code = strings.ToUpper(strings.TrimSpace(b.Code))

	return nil
}
