package v1_test

import (
	"fmt"
	"net/http"

	"github.com/college-budget/backend/internal/auth"
	v1 "github.com/college-budget/backend/internal/controllers/v1"
	"github.com/college-budget/backend/test"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) createAllocation(body map[string]any) v1.Allocation {
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/allocations", body, test.BearerHeader(test.Token(suite.T(), auth.RoleOffice)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	return *response.Data
}

func (suite *TestSuiteStandard) TestAllocationsRequireToken() {
	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/allocations", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestAllocationsRejectGarbageToken() {
	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/allocations", nil, test.BearerHeader("not-a-jwt"))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestOptionsAllocations() {
	recorder := test.Request(suite.T(), suite.router, http.MethodOptions, "/v1/allocations", nil, test.BearerHeader(test.Token(suite.T(), auth.RoleOffice)))
	suite.Assert().Equal(http.StatusNoContent, recorder.Code)
	suite.Assert().Contains(recorder.Header().Get("allow"), "POST")
}

func (suite *TestSuiteStandard) TestCreateAllocation() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")

	allocation := suite.createAllocation(suite.allocationBody(department, head, 100000))

	suite.Assert().Equal("100000", allocation.AllocatedAmount.String())
	suite.Assert().Equal("100000", allocation.RemainingAmount.String())
	suite.Assert().Contains(allocation.Links.Self, fmt.Sprintf("/v1/allocations/%s", allocation.ID))
}

func (suite *TestSuiteStandard) TestCreateAllocationDeniedForDepartment() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")

	token := test.Token(suite.T(), auth.RoleDepartment, department.ID)
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/allocations", suite.allocationBody(department, head, 100000), test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestCreateAllocationDuplicate() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	_ = suite.createAllocation(suite.allocationBody(department, head, 100000))

	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "/v1/allocations", suite.allocationBody(department, head, 50000), test.BearerHeader(test.Token(suite.T(), auth.RoleOffice)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestGetAllocations() {
	departmentCSE := suite.createTestDepartment("Computer Science", "CSE")
	departmentECE := suite.createTestDepartment("Electronics", "ECE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	_ = suite.createAllocation(suite.allocationBody(departmentCSE, head, 100000))
	_ = suite.createAllocation(suite.allocationBody(departmentECE, head, 80000))

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/allocations", nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AllocationListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 2)
	suite.Assert().Equal(int64(2), response.Pagination.Total)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, fmt.Sprintf("/v1/allocations?department=%s", departmentCSE.ID), nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 1)
	suite.Assert().Equal(departmentCSE.ID.String(), response.Data[0].DepartmentID)
}

func (suite *TestSuiteStandard) TestGetAllocationsInvalidFilter() {
	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/allocations?department=not-a-uuid", nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetAllocation() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createAllocation(suite.allocationBody(department, head, 100000))

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, allocation.Links.Self, nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(allocation.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestGetAllocationNotFound() {
	recorder := test.Request(suite.T(), suite.router, http.MethodGet, fmt.Sprintf("/v1/allocations/%s", uuid.New()), nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetAllocationInvalidUUID() {
	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "/v1/allocations/definitely-not-a-uuid", nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateAllocation() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createAllocation(suite.allocationBody(department, head, 100000))

	recorder := test.Request(suite.T(), suite.router, http.MethodPatch, allocation.Links.Self, map[string]any{
		"allocatedAmount": 120000,
		"remarks":         "revised after UGC grant",
	}, test.BearerHeader(test.Token(suite.T(), auth.RoleOffice)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("120000", response.Data.AllocatedAmount.String())
	suite.Assert().Equal("amended", string(response.Data.Status))
}

func (suite *TestSuiteStandard) TestUpdateAllocationDeniedForHOD() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createAllocation(suite.allocationBody(department, head, 100000))

	token := test.Token(suite.T(), auth.RoleHOD, department.ID)
	recorder := test.Request(suite.T(), suite.router, http.MethodPatch, allocation.Links.Self, map[string]any{"allocatedAmount": 1}, test.BearerHeader(token))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusForbidden)
}

func (suite *TestSuiteStandard) TestAllocationHistoryAndRollback() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createAllocation(suite.allocationBody(department, head, 100000))

	recorder := test.Request(suite.T(), suite.router, http.MethodPatch, allocation.Links.Self, map[string]any{"allocatedAmount": 120000}, test.BearerHeader(test.Token(suite.T(), auth.RoleOffice)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, allocation.Links.History, nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var history v1.AllocationHistoryListResponse
	test.DecodeResponse(suite.T(), &recorder, &history)
	suite.Assert().Len(history.Data, 2)
	suite.Assert().Equal(uint(2), history.Data[0].Version)

	recorder = test.Request(suite.T(), suite.router, http.MethodPost, allocation.Links.Self+"/rollback", v1.RollbackRequest{Version: 1}, test.BearerHeader(test.Token(suite.T(), auth.RoleOffice)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("100000", response.Data.AllocatedAmount.String())
}

func (suite *TestSuiteStandard) TestAllocationHistoryPagination() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createAllocation(suite.allocationBody(department, head, 100000))

	recorder := test.Request(suite.T(), suite.router, http.MethodPatch, allocation.Links.Self, map[string]any{"allocatedAmount": 120000}, test.BearerHeader(test.Token(suite.T(), auth.RoleOffice)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, allocation.Links.History+"?limit=1&offset=1", nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var history v1.AllocationHistoryListResponse
	test.DecodeResponse(suite.T(), &recorder, &history)
	suite.Require().Len(history.Data, 1)
	suite.Assert().Equal(uint(1), history.Data[0].Version)
	suite.Require().NotNil(history.Pagination)
	suite.Assert().Equal(int64(2), history.Pagination.Total)
	suite.Assert().Equal(uint(1), history.Pagination.Offset)
	suite.Assert().Equal(1, history.Pagination.Limit)
}

func (suite *TestSuiteStandard) TestAllocationHistoryVersion() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createAllocation(suite.allocationBody(department, head, 100000))

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, allocation.Links.History+"/1", nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AllocationHistoryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal("created", string(response.Data.ChangeType))

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, allocation.Links.History+"/99", nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestRollbackUnknownVersion() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createAllocation(suite.allocationBody(department, head, 100000))

	recorder := test.Request(suite.T(), suite.router, http.MethodPost, allocation.Links.Self+"/rollback", v1.RollbackRequest{Version: 7}, test.BearerHeader(test.Token(suite.T(), auth.RoleOffice)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeleteAllocation() {
	department := suite.createTestDepartment("Computer Science", "CSE")
	head := suite.createTestBudgetHead("Lab Equipment", "LAB")
	allocation := suite.createAllocation(suite.allocationBody(department, head, 100000))

	recorder := test.Request(suite.T(), suite.router, http.MethodDelete, allocation.Links.Self, nil, test.BearerHeader(test.Token(suite.T(), auth.RoleOffice)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, allocation.Links.Self, nil, test.BearerHeader(test.Token(suite.T(), auth.RoleAuditor)))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
