package models

import (
	"strings"

	"gorm.io/gorm"
)

// Department is master data maintained outside the ledger core. The
// ledger only references departments for ownership and uniqueness.
type Department struct {
	DefaultModel
	Name string `gorm:"uniqueIndex" json:"name" example:"Computer Science"`
	Code string `gorm:"uniqueIndex" json:"code" example:"CSE"`
}

func (d *Department) BeforeSave(_ *gorm.DB) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))

	return nil
}
