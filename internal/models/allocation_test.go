package models_test

import (
	"errors"

	"github.com/college-budget/backend/internal/models"
	"github.com/college-budget/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCreateAllocation() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")

	allocation := suite.createTestAllocation(department, head, 100000)

	suite.Assert().Equal(models.AllocationActive, allocation.Status)
	suite.Assert().True(allocation.SpentAmount.IsZero())
	suite.Assert().True(allocation.Remaining().Equal(decimal.NewFromInt(100000)))

	versions, _, err := models.AllocationVersions(allocation.ID, 0, 50)
	suite.Require().NoError(err)
	suite.Require().Len(versions, 1)
	suite.Assert().Equal(uint(1), versions[0].Version)
	suite.Assert().Equal(models.ChangeCreated, versions[0].ChangeType)
}

func (suite *TestSuiteStandard) TestCreateAllocationDuplicate() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")

	_ = suite.createTestAllocation(department, head, 100000)

	_, err := models.CreateAllocation(models.AllocationEditable{
		FinancialYear:   testYear(),
		DepartmentID:    department.ID,
		BudgetHeadID:    head.ID,
		AllocatedAmount: decimal.NewFromInt(5000),
	}, officeActor())
	suite.Assert().ErrorIs(err, models.ErrDuplicateAllocation)
}

func (suite *TestSuiteStandard) TestCreateAllocationNegativeAmount() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")

	_, err := models.CreateAllocation(models.AllocationEditable{
		FinancialYear:   testYear(),
		DepartmentID:    department.ID,
		BudgetHeadID:    head.ID,
		AllocatedAmount: decimal.NewFromInt(-1),
	}, officeActor())
	suite.Assert().ErrorIs(err, models.ErrAllocationAmountNegative)
}

func (suite *TestSuiteStandard) TestCreateAllocationPermission() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")

	_, err := models.CreateAllocation(models.AllocationEditable{
		FinancialYear:   testYear(),
		DepartmentID:    department.ID,
		BudgetHeadID:    head.ID,
		AllocatedAmount: decimal.NewFromInt(1000),
	}, departmentActor(department.ID))
	suite.Assert().ErrorIs(err, models.ErrPermissionDenied)

	_, err = models.CreateAllocation(models.AllocationEditable{
		FinancialYear:   testYear(),
		DepartmentID:    department.ID,
		BudgetHeadID:    head.ID,
		AllocatedAmount: decimal.NewFromInt(1000),
	}, auditorActor())
	suite.Assert().ErrorIs(err, models.ErrPermissionDenied)
}

func (suite *TestSuiteStandard) TestCreateAllocationUnknownDepartment() {
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")

	_, err := models.CreateAllocation(models.AllocationEditable{
		FinancialYear:   testYear(),
		DepartmentID:    uuid.New(),
		BudgetHeadID:    head.ID,
		AllocatedAmount: decimal.NewFromInt(1000),
	}, officeActor())
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestCreateAllocationClosedYear() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")

	_, err := models.CreateFinancialYear(testYear(), models.FinancialYearClosed, "year-end close", principalActor())
	suite.Require().NoError(err)

	_, err = models.CreateAllocation(models.AllocationEditable{
		FinancialYear:   testYear(),
		DepartmentID:    department.ID,
		BudgetHeadID:    head.ID,
		AllocatedAmount: decimal.NewFromInt(1000),
	}, officeActor())
	suite.Assert().ErrorIs(err, models.ErrFinancialYearClosed)
}

func (suite *TestSuiteStandard) TestUpdateAllocation() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createTestAllocation(department, head, 100000)

	amount := decimal.NewFromInt(150000)
	remarks := "mid-year revision"
	updated, err := models.UpdateAllocation(allocation.ID, models.AllocationUpdate{
		AllocatedAmount: &amount,
		Remarks:         &remarks,
	}, officeActor())
	suite.Require().NoError(err)

	suite.Assert().True(updated.AllocatedAmount.Equal(amount))
	suite.Assert().Equal(models.AllocationAmended, updated.Status)
	suite.Assert().Equal(remarks, updated.Remarks)

	versions, _, err := models.AllocationVersions(allocation.ID, 0, 50)
	suite.Require().NoError(err)
	suite.Require().Len(versions, 2)
	suite.Assert().Equal(uint(2), versions[0].Version)
	suite.Assert().Equal(models.ChangeUpdated, versions[0].ChangeType)
	suite.Assert().True(versions[0].OldAllocated.Equal(decimal.NewFromInt(100000)))
	suite.Assert().True(versions[0].NewAllocated.Equal(amount))
}

func (suite *TestSuiteStandard) TestUpdateAllocationBelowSpent() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createTestAllocation(department, head, 100000)

	expenditure := suite.submitTestExpenditure(department, head, "INV-1", 60000)
	_, err := models.VerifyExpenditure(expenditure.ID, "", hodActor(department.ID))
	suite.Require().NoError(err)
	_, err = models.ApproveExpenditure(expenditure.ID, "", disallowBudget(), principalActor())
	suite.Require().NoError(err)

	amount := decimal.NewFromInt(50000)
	_, err = models.UpdateAllocation(allocation.ID, models.AllocationUpdate{AllocatedAmount: &amount}, officeActor())
	suite.Assert().ErrorIs(err, models.ErrAmountBelowSpent)
}

func (suite *TestSuiteStandard) TestDeleteAllocationReferenced() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createTestAllocation(department, head, 100000)

	_ = suite.submitTestExpenditure(department, head, "INV-1", 5000)

	err := models.DeleteAllocation(allocation.ID, officeActor())
	suite.Assert().ErrorIs(err, models.ErrAllocationReferenced)
}

func (suite *TestSuiteStandard) TestDeleteAllocation() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createTestAllocation(department, head, 100000)

	err := models.DeleteAllocation(allocation.ID, officeActor())
	suite.Require().NoError(err)

	err = models.DB.First(&models.Allocation{}, "id = ?", allocation.ID).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestRollbackAllocation() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createTestAllocation(department, head, 100000)

	amount := decimal.NewFromInt(150000)
	_, err := models.UpdateAllocation(allocation.ID, models.AllocationUpdate{AllocatedAmount: &amount}, officeActor())
	suite.Require().NoError(err)

	restored, err := models.RollbackAllocation(allocation.ID, 1, "revision withdrawn", officeActor())
	suite.Require().NoError(err)

	suite.Assert().True(restored.AllocatedAmount.Equal(decimal.NewFromInt(100000)))
	suite.Assert().Equal(models.AllocationAmended, restored.Status)

	versions, _, err := models.AllocationVersions(allocation.ID, 0, 50)
	suite.Require().NoError(err)
	suite.Require().Len(versions, 3)
	suite.Assert().Equal(models.ChangeRollback, versions[0].ChangeType)
	suite.Assert().Equal("revision withdrawn", versions[0].ChangeReason)
}

func (suite *TestSuiteStandard) TestRollbackAllocationUnknownVersion() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createTestAllocation(department, head, 100000)

	_, err := models.RollbackAllocation(allocation.ID, 7, "", officeActor())
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestRollbackAllocationBelowSpent() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createTestAllocation(department, head, 10000)

	amount := decimal.NewFromInt(100000)
	_, err := models.UpdateAllocation(allocation.ID, models.AllocationUpdate{AllocatedAmount: &amount}, officeActor())
	suite.Require().NoError(err)

	expenditure := suite.submitTestExpenditure(department, head, "INV-1", 60000)
	_, err = models.VerifyExpenditure(expenditure.ID, "", hodActor(department.ID))
	suite.Require().NoError(err)
	_, err = models.ApproveExpenditure(expenditure.ID, "", disallowBudget(), principalActor())
	suite.Require().NoError(err)

	// Version 1 allocated 10,000 but 60,000 is already spent
	_, err = models.RollbackAllocation(allocation.ID, 1, "", officeActor())
	suite.Assert().ErrorIs(err, models.ErrInvalidRollback)
}

func (suite *TestSuiteStandard) TestAllocationVersion() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createTestAllocation(department, head, 100000)

	version, err := models.AllocationVersion(allocation.ID, 1)
	suite.Require().NoError(err)
	suite.Assert().Equal(models.ChangeCreated, version.ChangeType)

	_, err = models.AllocationVersion(allocation.ID, 2)
	suite.Assert().True(errors.Is(err, models.ErrResourceNotFound))
}

func (suite *TestSuiteStandard) TestAllocationUtilization() {
	allocation := models.Allocation{
		AllocatedAmount: decimal.NewFromInt(100000),
		SpentAmount:     decimal.NewFromInt(90000),
	}

	suite.Assert().True(allocation.Utilization().Equal(decimal.RequireFromString("0.9")))
	suite.Assert().True(models.Allocation{}.Utilization().IsZero())
}

func (suite *TestSuiteStandard) TestFinancialYearGuardUnknownYearOpen() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")

	// No master record for 2030-2031 exists, writes pass
	_, err := models.CreateAllocation(models.AllocationEditable{
		FinancialYear:   types.NewFinancialYear(2030),
		DepartmentID:    department.ID,
		BudgetHeadID:    head.ID,
		AllocatedAmount: decimal.NewFromInt(1000),
	}, officeActor())
	suite.Assert().NoError(err)
}
