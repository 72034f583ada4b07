package v1

import (
	"fmt"

	"github.com/college-budget/backend/internal/httputil"
	"github.com/college-budget/backend/internal/models"
	"github.com/college-budget/backend/internal/types"
	"github.com/gin-gonic/gin"
)

type ProposalLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/proposals/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // The proposal itself
	Approve string `json:"approve" example:"https://example.com/api/v1/proposals/af892e10-7e0a-4fb8-b1bc/approve"`   // Approve the proposal, promoting its items into allocations
	Reject  string `json:"reject" example:"https://example.com/api/v1/proposals/af892e10-7e0a-4fb8-b1bc/reject"`     // Reject the proposal
}

// Proposal is the API v1 representation of a budget proposal.
type Proposal struct {
	models.DefaultModel
	FinancialYear types.FinancialYear   `json:"financialYear" example:"2026-2027"`
	DepartmentID  string                `json:"departmentId"`
	Title         string                `json:"title"`
	Justification string                `json:"justification"`
	Status        models.ProposalStatus `json:"status" example:"pending"`
	SubmittedBy   string                `json:"submittedBy"`
	DecidedBy     string                `json:"decidedBy,omitempty"`
	DecisionNote  string                `json:"decisionNote,omitempty"`
	Items         []models.ProposalItem `json:"items,omitempty"`
	Links         ProposalLinks         `json:"links"`
}

func newProposal(c *gin.Context, model models.BudgetProposal) Proposal {
	url := requestHost(c)
	self := fmt.Sprintf("%s/v1/proposals/%s", url, model.ID)

	return Proposal{
		DefaultModel:  model.DefaultModel,
		FinancialYear: model.FinancialYear,
		DepartmentID:  model.DepartmentID.String(),
		Title:         model.Title,
		Justification: model.Justification,
		Status:        model.Status,
		SubmittedBy:   model.SubmittedBy,
		DecidedBy:     model.DecidedBy,
		DecisionNote:  model.DecisionNote,
		Items:         model.Items,
		Links: ProposalLinks{
			Self:    self,
			Approve: self + "/approve",
			Reject:  self + "/reject",
		},
	}
}

type ProposalResponse struct {
	Data  *Proposal `json:"data"`                                                          // Data for the proposal
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// ProposalApprovalResponse carries the approved proposal and what the
// promotion created or skipped.
type ProposalApprovalResponse struct {
	Data      *Proposal               `json:"data"`                                                          // The approved proposal
	Promotion *models.PromotionResult `json:"promotion"`                                                     // Created allocations, skipped budget heads and failed items
	Error     *string                 `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ProposalListResponse struct {
	Data       []Proposal  `json:"data"`                                                          // List of proposals
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ProposalQueryFilter struct {
	FinancialYear string `form:"financialYear" filterField:"false"` // By financial year, e.g. 2026-2027
	Department    string `form:"department"`                        // By department ID
	Status        string `form:"status" filterField:"false"`        // By proposal status
	Offset        uint   `form:"offset" filterField:"false"`        // The offset of the first Proposal returned. Defaults to 0.
	Limit         int    `form:"limit" filterField:"false"`         // Maximum number of Proposals to return. Defaults to 50.
}

func (f ProposalQueryFilter) model() (models.BudgetProposal, error) {
	departmentID, err := httputil.UUIDFromString(f.Department)
	if err != nil {
		return models.BudgetProposal{}, err
	}

	var year types.FinancialYear
	if f.FinancialYear != "" {
		year, err = types.ParseFinancialYear(f.FinancialYear)
		if err != nil {
			return models.BudgetProposal{}, err
		}
	}

	return models.BudgetProposal{
		FinancialYear: year,
		DepartmentID:  departmentID,
		Status:        models.ProposalStatus(f.Status),
	}, nil
}
