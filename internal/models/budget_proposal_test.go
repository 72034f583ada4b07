package models_test

import (
	"github.com/college-budget/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) createTestProposal(department models.Department, items []models.ProposalItemEditable) models.BudgetProposal {
	proposal, err := models.CreateProposal(models.BudgetProposalEditable{
		FinancialYear: testYear(),
		DepartmentID:  department.ID,
		Title:         "Annual budget",
		Justification: "Equipment renewal and consumables",
		Items:         items,
	}, departmentActor(department.ID))
	if err != nil {
		suite.Assert().FailNow("proposal could not be created", err)
	}

	return proposal
}

func (suite *TestSuiteStandard) TestCreateProposal() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")

	proposal := suite.createTestProposal(department, []models.ProposalItemEditable{
		{BudgetHeadID: head.ID, Amount: decimal.NewFromInt(250000)},
	})

	suite.Assert().Equal(models.ProposalPending, proposal.Status)
	suite.Require().Len(proposal.Items, 1)
	suite.Assert().True(proposal.Items[0].Amount.Equal(decimal.NewFromInt(250000)))
}

func (suite *TestSuiteStandard) TestProposalLoadsItems() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	lab := suite.createTestBudgetHead("Lab Equipment", "LAB")
	library := suite.createTestBudgetHead("Library", "LIB")

	proposal := suite.createTestProposal(department, []models.ProposalItemEditable{
		{BudgetHeadID: lab.ID, Amount: decimal.NewFromInt(250000)},
		{BudgetHeadID: library.ID, Amount: decimal.NewFromInt(80000)},
	})

	var reloaded models.BudgetProposal
	suite.Require().NoError(models.DB.Preload("Items").First(&reloaded, "id = ?", proposal.ID).Error)
	suite.Require().Len(reloaded.Items, 2)
	suite.Assert().Equal(proposal.ID, reloaded.Items[0].ProposalID)
}

func (suite *TestSuiteStandard) TestApproveProposalPromotes() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	lab := suite.createTestBudgetHead("Lab Equipment", "LAB")
	library := suite.createTestBudgetHead("Library", "LIB")

	proposal := suite.createTestProposal(department, []models.ProposalItemEditable{
		{BudgetHeadID: lab.ID, Amount: decimal.NewFromInt(250000)},
		{BudgetHeadID: library.ID, Amount: decimal.NewFromInt(80000)},
	})

	approved, result, err := models.ApproveProposal(proposal.ID, "sanctioned as requested", principalActor())
	suite.Require().NoError(err)

	suite.Assert().Equal(models.ProposalApproved, approved.Status)
	suite.Require().Len(result.Created, 2)
	suite.Assert().Empty(result.Skipped)

	for _, allocation := range result.Created {
		suite.Require().NotNil(allocation.SourceProposalID)
		suite.Assert().Equal(proposal.ID, *allocation.SourceProposalID)
		suite.Assert().True(allocation.SpentAmount.IsZero())

		versions, _, err := models.AllocationVersions(allocation.ID, 0, 50)
		suite.Require().NoError(err)
		suite.Require().Len(versions, 1)
		suite.Assert().Equal(models.ChangeCreated, versions[0].ChangeType)
	}
}

func (suite *TestSuiteStandard) TestApproveProposalSkipsExistingLines() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	lab := suite.createTestBudgetHead("Lab Equipment", "LAB")
	library := suite.createTestBudgetHead("Library", "LIB")

	existing := suite.createTestAllocation(department, lab, 100000)

	proposal := suite.createTestProposal(department, []models.ProposalItemEditable{
		{BudgetHeadID: lab.ID, Amount: decimal.NewFromInt(250000)},
		{BudgetHeadID: library.ID, Amount: decimal.NewFromInt(80000)},
	})

	_, result, err := models.ApproveProposal(proposal.ID, "", principalActor())
	suite.Require().NoError(err)

	suite.Require().Len(result.Created, 1)
	suite.Assert().Equal(library.ID, result.Created[0].BudgetHeadID)
	suite.Require().Len(result.Skipped, 1)
	suite.Assert().Equal(lab.ID, result.Skipped[0])

	// The existing ledger line was not touched
	var reloaded models.Allocation
	suite.Require().NoError(models.DB.First(&reloaded, "id = ?", existing.ID).Error)
	suite.Assert().True(reloaded.AllocatedAmount.Equal(decimal.NewFromInt(100000)))
	suite.Assert().Nil(reloaded.SourceProposalID)
}

func (suite *TestSuiteStandard) TestApproveProposalCollectsFailures() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	lab := suite.createTestBudgetHead("Lab Equipment", "LAB")
	unknownHead := uuid.New()

	proposal := suite.createTestProposal(department, []models.ProposalItemEditable{
		{BudgetHeadID: lab.ID, Amount: decimal.NewFromInt(250000)},
		{BudgetHeadID: unknownHead, Amount: decimal.NewFromInt(80000)},
	})

	approved, result, err := models.ApproveProposal(proposal.ID, "", principalActor())
	suite.Require().NoError(err)

	// The unknown budget head fails its line, the rest goes through
	// and the approval stands
	suite.Assert().Equal(models.ProposalApproved, approved.Status)
	suite.Require().Len(result.Created, 1)
	suite.Assert().Equal(lab.ID, result.Created[0].BudgetHeadID)
	suite.Require().Len(result.Failed, 1)
	suite.Assert().Equal(unknownHead, result.Failed[0].BudgetHeadID)
	suite.Assert().NotEmpty(result.Failed[0].Error)

	var count int64
	suite.Require().NoError(models.DB.Model(&models.Allocation{}).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)
}

func (suite *TestSuiteStandard) TestApproveProposalTwice() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	lab := suite.createTestBudgetHead("Lab Equipment", "LAB")

	proposal := suite.createTestProposal(department, []models.ProposalItemEditable{
		{BudgetHeadID: lab.ID, Amount: decimal.NewFromInt(250000)},
	})

	_, _, err := models.ApproveProposal(proposal.ID, "", principalActor())
	suite.Require().NoError(err)

	_, _, err = models.ApproveProposal(proposal.ID, "", principalActor())
	suite.Assert().ErrorIs(err, models.ErrIllegalStateTransition)
}

func (suite *TestSuiteStandard) TestApproveProposalPermission() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	lab := suite.createTestBudgetHead("Lab Equipment", "LAB")

	proposal := suite.createTestProposal(department, []models.ProposalItemEditable{
		{BudgetHeadID: lab.ID, Amount: decimal.NewFromInt(250000)},
	})

	// Office manages allocations but does not approve proposals
	_, _, err := models.ApproveProposal(proposal.ID, "", officeActor())
	suite.Assert().ErrorIs(err, models.ErrPermissionDenied)
}

func (suite *TestSuiteStandard) TestRejectProposal() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	lab := suite.createTestBudgetHead("Lab Equipment", "LAB")

	proposal := suite.createTestProposal(department, []models.ProposalItemEditable{
		{BudgetHeadID: lab.ID, Amount: decimal.NewFromInt(250000)},
	})

	_, err := models.RejectProposal(proposal.ID, "", principalActor())
	suite.Assert().ErrorIs(err, models.ErrRemarksRequired)

	rejected, err := models.RejectProposal(proposal.ID, "exceeds the institutional ceiling", principalActor())
	suite.Require().NoError(err)
	suite.Assert().Equal(models.ProposalRejected, rejected.Status)

	// No allocations were created
	var count int64
	suite.Require().NoError(models.DB.Model(&models.Allocation{}).Count(&count).Error)
	suite.Assert().Zero(count)
}
