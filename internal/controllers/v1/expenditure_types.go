package v1

import (
	"fmt"
	"time"

	"github.com/college-budget/backend/internal/httputil"
	"github.com/college-budget/backend/internal/models"
	"github.com/college-budget/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ExpenditureLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/expenditures/d1b8e9a1-iii"`    // The expenditure itself
	Verify   string `json:"verify" example:"https://example.com/api/v1/expenditures/d1b8/verify"`   // Verify the expenditure
	Approve  string `json:"approve" example:"https://example.com/api/v1/expenditures/d1b8/approve"` // Approve the expenditure
	Reject   string `json:"reject" example:"https://example.com/api/v1/expenditures/d1b8/reject"`   // Reject the expenditure
	Finalize string `json:"finalize"`                                                               // Finalize the expenditure
	Resubmit string `json:"resubmit"`                                                               // Resubmit a rejected expenditure
}

// Expenditure is the API v1 representation of an expenditure.
type Expenditure struct {
	models.DefaultModel
	FinancialYear         types.FinancialYear      `json:"financialYear" example:"2025-2026"`
	DepartmentID          string                   `json:"departmentId"`
	BudgetHeadID          string                   `json:"budgetHeadId"`
	BillNumber            string                   `json:"billNumber" example:"INV-2025-0042"`
	BillDate              time.Time                `json:"billDate"`
	BillAmount            decimal.Decimal          `json:"billAmount" example:"12500"`
	PartyName             string                   `json:"partyName"`
	ExpenseDetails        string                   `json:"expenseDetails"`
	Attachments           []string                 `json:"attachments"`
	Status                models.ExpenditureStatus `json:"status" example:"pending"`
	SubmittedBy           string                   `json:"submittedBy"`
	IsResubmission        bool                     `json:"isResubmission"`
	OriginalExpenditureID *string                  `json:"originalExpenditureId"`
	Steps                 []models.ApprovalStep    `json:"steps,omitempty"`
	Links                 ExpenditureLinks         `json:"links"`
}

func newExpenditure(c *gin.Context, model models.Expenditure) Expenditure {
	url := requestHost(c)
	self := fmt.Sprintf("%s/v1/expenditures/%s", url, model.ID)

	var originalID *string
	if model.OriginalExpenditureID != nil {
		s := model.OriginalExpenditureID.String()
		originalID = &s
	}

	return Expenditure{
		DefaultModel:          model.DefaultModel,
		FinancialYear:         model.FinancialYear,
		DepartmentID:          model.DepartmentID.String(),
		BudgetHeadID:          model.BudgetHeadID.String(),
		BillNumber:            model.BillNumber,
		BillDate:              model.BillDate,
		BillAmount:            model.BillAmount,
		PartyName:             model.PartyName,
		ExpenseDetails:        model.ExpenseDetails,
		Attachments:           model.Attachments,
		Status:                model.Status,
		SubmittedBy:           model.SubmittedBy,
		IsResubmission:        model.IsResubmission,
		OriginalExpenditureID: originalID,
		Steps:                 model.Steps,
		Links: ExpenditureLinks{
			Self:     self,
			Verify:   self + "/verify",
			Approve:  self + "/approve",
			Reject:   self + "/reject",
			Finalize: self + "/finalize",
			Resubmit: self + "/resubmit",
		},
	}
}

type ExpenditureResponse struct {
	Data    *Expenditure `json:"data"`                                                          // Data for the expenditure
	Error   *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Warning *string      `json:"warning,omitempty"`                                             // Advisory warning, set when the overspend policy is "warn"
}

type ExpenditureListResponse struct {
	Data       []Expenditure `json:"data"`                                                          // List of expenditures
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type ExpenditureQueryFilter struct {
	FinancialYear string `form:"financialYear" filterField:"false"` // By financial year, e.g. 2025-2026
	Department    string `form:"department"`                        // By department ID
	BudgetHead    string `form:"budgetHead"`                        // By budget head ID
	Status        string `form:"status" filterField:"false"`        // By expenditure status
	BillNumber    string `form:"billNumber" filterField:"false"`    // By exact bill number
	Offset        uint   `form:"offset" filterField:"false"`        // The offset of the first Expenditure returned. Defaults to 0.
	Limit         int    `form:"limit" filterField:"false"`         // Maximum number of Expenditures to return. Defaults to 50.
}

func (f ExpenditureQueryFilter) model() (models.Expenditure, error) {
	departmentID, err := httputil.UUIDFromString(f.Department)
	if err != nil {
		return models.Expenditure{}, err
	}

	budgetHeadID, err := httputil.UUIDFromString(f.BudgetHead)
	if err != nil {
		return models.Expenditure{}, err
	}

	var year types.FinancialYear
	if f.FinancialYear != "" {
		year, err = types.ParseFinancialYear(f.FinancialYear)
		if err != nil {
			return models.Expenditure{}, err
		}
	}

	return models.Expenditure{
		FinancialYear: year,
		DepartmentID:  departmentID,
		BudgetHeadID:  budgetHeadID,
		BillNumber:    f.BillNumber,
	}, nil
}

// DecisionRequest carries the remarks for a workflow decision.
type DecisionRequest struct {
	Remarks string `json:"remarks" example:"bills checked against the stock register"`
}
