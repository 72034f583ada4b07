package v1

import (
	"fmt"

	"github.com/college-budget/backend/internal/httputil"
	"github.com/college-budget/backend/internal/models"
	"github.com/college-budget/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AllocationLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/allocations/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                     // The allocation itself
	History      string `json:"history" example:"https://example.com/api/v1/allocations/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/history"`          // The version history of the allocation
	Expenditures string `json:"expenditures" example:"https://example.com/api/v1/expenditures?department=52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // Expenditures spending against the allocation
}

// Allocation is the API v1 representation of a budget allocation.
type Allocation struct {
	models.DefaultModel
	FinancialYear    types.FinancialYear     `json:"financialYear" example:"2025-2026"`
	DepartmentID     string                  `json:"departmentId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`
	BudgetHeadID     string                  `json:"budgetHeadId" example:"c1ea324d-d438-4419-882a-2fc91d71772f"`
	AllocatedAmount  decimal.Decimal         `json:"allocatedAmount" example:"100000"`
	SpentAmount      decimal.Decimal         `json:"spentAmount" example:"10000"`
	RemainingAmount  decimal.Decimal         `json:"remainingAmount" example:"90000"`
	Status           models.AllocationStatus `json:"status" example:"active"`
	SourceProposalID *string                 `json:"sourceProposalId"`
	Remarks          string                  `json:"remarks"`
	Links            AllocationLinks         `json:"links"`
}

func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := requestHost(c)

	var sourceProposalID *string
	if model.SourceProposalID != nil {
		s := model.SourceProposalID.String()
		sourceProposalID = &s
	}

	return Allocation{
		DefaultModel:     model.DefaultModel,
		FinancialYear:    model.FinancialYear,
		DepartmentID:     model.DepartmentID.String(),
		BudgetHeadID:     model.BudgetHeadID.String(),
		AllocatedAmount:  model.AllocatedAmount,
		SpentAmount:      model.SpentAmount,
		RemainingAmount:  model.Remaining(),
		Status:           model.Status,
		SourceProposalID: sourceProposalID,
		Remarks:          model.Remarks,
		Links: AllocationLinks{
			Self:         fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			History:      fmt.Sprintf("%s/v1/allocations/%s/history", url, model.ID),
			Expenditures: fmt.Sprintf("%s/v1/expenditures?department=%s&budgetHead=%s", url, model.DepartmentID, model.BudgetHeadID),
		},
	}
}

type AllocationResponse struct {
	Data    *Allocation `json:"data"`                                                          // Data for the allocation
	Error   *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Warning *string     `json:"warning,omitempty"`                                             // Advisory warning, set when the overspend policy is "warn"
}

type AllocationListResponse struct {
	Data       []Allocation `json:"data"`                                                          // List of allocations
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type AllocationHistoryListResponse struct {
	Data       []models.AllocationHistory `json:"data"`                                                          // Version history, newest first
	Error      *string                    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination                `json:"pagination"`                                                    // Pagination information
}

type AllocationHistoryQueryFilter struct {
	Offset uint `form:"offset"` // The offset of the first version returned. Defaults to 0.
	Limit  int  `form:"limit"`  // Maximum number of versions to return. Defaults to 50.
}

type AllocationHistoryResponse struct {
	Data  *models.AllocationHistory `json:"data"`                                                          // One history version
	Error *string                   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AllocationQueryFilter struct {
	FinancialYear string `form:"financialYear" filterField:"false"` // By financial year, e.g. 2025-2026
	Department    string `form:"department"`                        // By department ID
	BudgetHead    string `form:"budgetHead"`                        // By budget head ID
	Status        string `form:"status" filterField:"false"`        // By allocation status
	Offset        uint   `form:"offset" filterField:"false"`        // The offset of the first Allocation returned. Defaults to 0.
	Limit         int    `form:"limit" filterField:"false"`         // Maximum number of Allocations to return. Defaults to 50.
}

func (f AllocationQueryFilter) model() (models.Allocation, error) {
	departmentID, err := httputil.UUIDFromString(f.Department)
	if err != nil {
		return models.Allocation{}, err
	}

	budgetHeadID, err := httputil.UUIDFromString(f.BudgetHead)
	if err != nil {
		return models.Allocation{}, err
	}

	var year types.FinancialYear
	if f.FinancialYear != "" {
		year, err = types.ParseFinancialYear(f.FinancialYear)
		if err != nil {
			return models.Allocation{}, err
		}
	}

	return models.Allocation{
		FinancialYear: year,
		DepartmentID:  departmentID,
		BudgetHeadID:  budgetHeadID,
		Status:        models.AllocationStatus(f.Status),
	}, nil
}

// RollbackRequest names the history version an allocation is reset to.
type RollbackRequest struct {
	Version uint   `json:"version" binding:"required" example:"2"` // The history version to restore
	Reason  string `json:"reason" example:"revision withdrawn"`    // Free-text reason, recorded in the history
}
