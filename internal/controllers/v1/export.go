package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/college-budget/backend/internal/httputil"
	"github.com/college-budget/backend/internal/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// RegisterExportRoutes registers the export routes with the RouterGroup
// that is passed.
func (co Controller) RegisterExportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/allocations", httputil.OptionsGet)
	r.GET("/allocations", co.ExportAllocations)
}

// @Summary		Export allocations
// @Description	Returns the allocation ledger as an XLSX workbook
// @Tags			Export
// @Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success		200
// @Failure		400	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/export/allocations [get]
// @Param			financialYear	query	string	false	"Filter by financial year, e.g. 2025-2026"
// @Security		BearerAuth
func (co Controller) ExportAllocations(c *gin.Context) {
	var filter AllocationQueryFilter
	_ = c.Bind(&filter)

	where, err := filter.model()
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var allocations []models.Allocation
	err = models.DB.
		Preload("Department").
		Preload("BudgetHead").
		Where(&where).
		Order("financial_year DESC, created_at ASC").
		Find(&allocations).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("closing workbook failed")
		}
	}()

	const sheet = "Allocations"
	index, err := f.NewSheet(sheet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpError{Error: models.ErrGeneral.Error()})
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Financial Year", "Department", "Budget Head", "Allocated", "Spent", "Remaining", "Status", "Remarks"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for row, allocation := range allocations {
		values := []any{
			allocation.FinancialYear.String(),
			allocation.Department.Name,
			allocation.BudgetHead.Name,
			allocation.AllocatedAmount.InexactFloat64(),
			allocation.SpentAmount.InexactFloat64(),
			allocation.Remaining().InexactFloat64(),
			string(allocation.Status),
			allocation.Remarks,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("allocations-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err)
	}
}
