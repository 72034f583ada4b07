package v1

import (
	"net/http"

	"github.com/college-budget/backend/internal/auth"
	"github.com/college-budget/backend/internal/httputil"
	"github.com/college-budget/backend/internal/models"
	"github.com/college-budget/backend/internal/notify"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterExpenditureRoutes registers the routes for expenditures with
// the RouterGroup that is passed.
func (co Controller) RegisterExpenditureRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetExpenditures)
		r.POST("", co.SubmitExpenditure)
	}

	// Expenditure with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGet)
		r.GET("/:id", co.GetExpenditure)
		r.POST("/:id/verify", co.VerifyExpenditure)
		r.POST("/:id/approve", co.ApproveExpenditure)
		r.POST("/:id/reject", co.RejectExpenditure)
		r.POST("/:id/finalize", co.FinalizeExpenditure)
		r.POST("/:id/resubmit", co.ResubmitExpenditure)
	}
}

// @Summary		Submit expenditure
// @Description	Submits a new expenditure bill in pending state
// @Tags			Expenditures
// @Accept			json
// @Produce		json
// @Success		201			{object}	ExpenditureResponse
// @Failure		400			{object}	ExpenditureResponse
// @Failure		403			{object}	ExpenditureResponse
// @Failure		409			{object}	ExpenditureResponse
// @Failure		500			{object}	ExpenditureResponse
// @Param			expenditure	body		models.ExpenditureEditable	true	"Expenditure"
// @Router			/v1/expenditures [post]
// @Security		BearerAuth
func (co Controller) SubmitExpenditure(c *gin.Context) {
	var editable models.ExpenditureEditable

	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureResponse{Error: &e})
		return
	}

	actor := currentActor(c)
	result, err := models.SubmitExpenditure(editable, co.Config.Budget, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureResponse{Error: &e})
		return
	}

	models.RecordAudit(models.AuditLog{
		Event:      notify.EventExpenditureSubmitted,
		EntityType: "expenditure",
		EntityID:   result.Expenditure.ID,
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		Snapshot: map[string]any{
			"billNumber": result.Expenditure.BillNumber,
			"billAmount": result.Expenditure.BillAmount,
		},
	})
	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventExpenditureSubmitted,
		Subject: "Expenditure submitted",
		Message: "Bill " + result.Expenditure.BillNumber + " over " + notify.FormatAmount(result.Expenditure.BillAmount) + " awaits verification",
	})

	data := newExpenditure(c, result.Expenditure)
	response := ExpenditureResponse{Data: &data}
	if result.Warning != "" {
		response.Warning = &result.Warning
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary		List expenditures
// @Description	Returns a list of expenditures
// @Tags			Expenditures
// @Produce		json
// @Success		200	{object}	ExpenditureListResponse
// @Failure		400	{object}	ExpenditureListResponse
// @Failure		500	{object}	ExpenditureListResponse
// @Router			/v1/expenditures [get]
// @Param			financialYear	query	string	false	"Filter by financial year, e.g. 2025-2026"
// @Param			department		query	string	false	"Filter by department ID"
// @Param			budgetHead		query	string	false	"Filter by budget head ID"
// @Param			status			query	string	false	"Filter by status"
// @Param			billNumber		query	string	false	"Filter by exact bill number"
// @Param			offset			query	uint	false	"The offset of the first Expenditure returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of Expenditures to return. Defaults to 50."
// @Security		BearerAuth
func (co Controller) GetExpenditures(c *gin.Context) {
	var filter ExpenditureQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	if filter.Status != "" && !slices.Contains([]models.ExpenditureStatus{
		models.ExpenditurePending,
		models.ExpenditureVerified,
		models.ExpenditureApproved,
		models.ExpenditureRejected,
		models.ExpenditureFinalized,
	}, models.ExpenditureStatus(filter.Status)) {
		e := "the status query parameter is not a valid expenditure status"
		c.JSON(http.StatusBadRequest, ExpenditureListResponse{Error: &e})
		return
	}

	where, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureListResponse{Error: &e})
		return
	}

	q := models.DB.
		Order("created_at DESC").
		Where(&where)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	// HODs and department users only see their own department, auditors
	// and institution-wide roles see everything
	actor := currentActor(c)
	if actor.Role == auth.RoleHOD || actor.Role == auth.RoleDepartment {
		q = q.Where("department_id = ?", actor.DepartmentID)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if filter.Limit != 0 {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var expenditures []models.Expenditure
	if err := q.Preload("Steps").Find(&expenditures).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureListResponse{Error: &e})
		return
	}

	var count int64
	if err := q.Limit(-1).Offset(-1).Count(&count).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureListResponse{Error: &e})
		return
	}

	apiResources := make([]Expenditure, 0)
	for _, expenditure := range expenditures {
		apiResources = append(apiResources, newExpenditure(c, expenditure))
	}

	c.JSON(http.StatusOK, ExpenditureListResponse{
		Data: apiResources,
		Pagination: &Pagination{
			Count:  len(apiResources),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get expenditure
// @Description	Returns a specific expenditure with its decision trail
// @Tags			Expenditures
// @Produce		json
// @Success		200	{object}	ExpenditureResponse
// @Failure		400	{object}	ExpenditureResponse
// @Failure		404	{object}	ExpenditureResponse
// @Failure		500	{object}	ExpenditureResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/expenditures/{id} [get]
// @Security		BearerAuth
func (co Controller) GetExpenditure(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ExpenditureResponse{Error: &e})
		return
	}

	var expenditure models.Expenditure
	err := models.DB.Preload("Steps").First(&expenditure, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureResponse{Error: &e})
		return
	}

	data := newExpenditure(c, expenditure)
	c.JSON(http.StatusOK, ExpenditureResponse{Data: &data})
}

// decide parses the URI and body shared by all workflow decisions.
func decide(c *gin.Context) (URIID, DecisionRequest, bool) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ExpenditureResponse{Error: &e})
		return uri, DecisionRequest{}, false
	}

	// The body is optional for decisions, remarks default to empty
	var request DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := httputil.BindData(c, &request); err != nil {
			e := err.Error()
			c.JSON(status(err), ExpenditureResponse{Error: &e})
			return uri, DecisionRequest{}, false
		}
	}

	return uri, request, true
}

// @Summary		Verify expenditure
// @Description	Moves a pending expenditure to verified
// @Tags			Expenditures
// @Accept			json
// @Produce		json
// @Success		200			{object}	ExpenditureResponse
// @Failure		400			{object}	ExpenditureResponse
// @Failure		403			{object}	ExpenditureResponse
// @Failure		404			{object}	ExpenditureResponse
// @Failure		409			{object}	ExpenditureResponse
// @Failure		500			{object}	ExpenditureResponse
// @Param			id			path		string			true	"ID formatted as string"
// @Param			decision	body		DecisionRequest	false	"Decision"
// @Router			/v1/expenditures/{id}/verify [post]
// @Security		BearerAuth
func (co Controller) VerifyExpenditure(c *gin.Context) {
	uri, request, ok := decide(c)
	if !ok {
		return
	}

	actor := currentActor(c)
	expenditure, err := models.VerifyExpenditure(uri.ID.UUID, request.Remarks, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureResponse{Error: &e})
		return
	}

	co.auditDecision(notify.EventExpenditureVerified, expenditure, actor)
	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventExpenditureVerified,
		Subject: "Expenditure verified",
		Message: "Bill " + expenditure.BillNumber + " awaits approval",
	})

	data := newExpenditure(c, expenditure)
	c.JSON(http.StatusOK, ExpenditureResponse{Data: &data})
}

// @Summary		Approve expenditure
// @Description	Moves a pending or verified expenditure to approved and commits the bill amount against the allocation
// @Tags			Expenditures
// @Accept			json
// @Produce		json
// @Success		200			{object}	ExpenditureResponse
// @Failure		400			{object}	ExpenditureResponse
// @Failure		403			{object}	ExpenditureResponse
// @Failure		404			{object}	ExpenditureResponse
// @Failure		409			{object}	ExpenditureResponse
// @Failure		500			{object}	ExpenditureResponse
// @Param			id			path		string			true	"ID formatted as string"
// @Param			decision	body		DecisionRequest	false	"Decision"
// @Router			/v1/expenditures/{id}/approve [post]
// @Security		BearerAuth
func (co Controller) ApproveExpenditure(c *gin.Context) {
	uri, request, ok := decide(c)
	if !ok {
		return
	}

	actor := currentActor(c)
	result, err := models.ApproveExpenditure(uri.ID.UUID, request.Remarks, co.Config.Budget, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureResponse{Error: &e})
		return
	}

	// The approve audit entry also records how the decision moved the
	// allocation's spent counter
	models.RecordAudit(models.AuditLog{
		Event:      notify.EventExpenditureApproved,
		EntityType: "expenditure",
		EntityID:   result.Expenditure.ID,
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		Snapshot: map[string]any{
			"billNumber":  result.Expenditure.BillNumber,
			"billAmount":  result.Expenditure.BillAmount,
			"status":      result.Expenditure.Status,
			"spentBefore": result.Allocation.SpentAmount.Sub(result.Expenditure.BillAmount),
			"spentAfter":  result.Allocation.SpentAmount,
		},
	})
	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventExpenditureApproved,
		Subject: "Expenditure approved",
		Message: "Bill " + result.Expenditure.BillNumber + " over " + notify.FormatAmount(result.Expenditure.BillAmount) + " was approved",
	})

	if result.Exhausted {
		co.Notifier.Publish(notify.Notification{
			Event:   notify.EventAllocationExhausted,
			Subject: "Budget nearly exhausted",
			Message: "Only " + notify.FormatAmount(result.Allocation.Remaining()) + " remains on the allocation",
		})
	}

	data := newExpenditure(c, result.Expenditure)
	response := ExpenditureResponse{Data: &data}
	if result.Warning != "" {
		response.Warning = &result.Warning
	}

	c.JSON(http.StatusOK, response)
}

// @Summary		Reject expenditure
// @Description	Moves a pending, verified or approved expenditure to rejected. Remarks are mandatory.
// @Tags			Expenditures
// @Accept			json
// @Produce		json
// @Success		200			{object}	ExpenditureResponse
// @Failure		400			{object}	ExpenditureResponse
// @Failure		403			{object}	ExpenditureResponse
// @Failure		404			{object}	ExpenditureResponse
// @Failure		409			{object}	ExpenditureResponse
// @Failure		500			{object}	ExpenditureResponse
// @Param			id			path		string			true	"ID formatted as string"
// @Param			decision	body		DecisionRequest	true	"Decision"
// @Router			/v1/expenditures/{id}/reject [post]
// @Security		BearerAuth
func (co Controller) RejectExpenditure(c *gin.Context) {
	uri, request, ok := decide(c)
	if !ok {
		return
	}

	actor := currentActor(c)
	expenditure, err := models.RejectExpenditure(uri.ID.UUID, request.Remarks, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureResponse{Error: &e})
		return
	}

	co.auditDecision(notify.EventExpenditureRejected, expenditure, actor)
	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventExpenditureRejected,
		Subject: "Expenditure rejected",
		Message: "Bill " + expenditure.BillNumber + " was rejected: " + request.Remarks,
	})

	data := newExpenditure(c, expenditure)
	c.JSON(http.StatusOK, ExpenditureResponse{Data: &data})
}

// @Summary		Finalize expenditure
// @Description	Marks an approved expenditure as paid out. This is terminal.
// @Tags			Expenditures
// @Accept			json
// @Produce		json
// @Success		200			{object}	ExpenditureResponse
// @Failure		400			{object}	ExpenditureResponse
// @Failure		403			{object}	ExpenditureResponse
// @Failure		404			{object}	ExpenditureResponse
// @Failure		409			{object}	ExpenditureResponse
// @Failure		500			{object}	ExpenditureResponse
// @Param			id			path		string			true	"ID formatted as string"
// @Param			decision	body		DecisionRequest	false	"Decision"
// @Router			/v1/expenditures/{id}/finalize [post]
// @Security		BearerAuth
func (co Controller) FinalizeExpenditure(c *gin.Context) {
	uri, request, ok := decide(c)
	if !ok {
		return
	}

	actor := currentActor(c)
	expenditure, err := models.FinalizeExpenditure(uri.ID.UUID, request.Remarks, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureResponse{Error: &e})
		return
	}

	co.auditDecision(notify.EventExpenditureFinalized, expenditure, actor)
	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventExpenditureFinalized,
		Subject: "Expenditure finalized",
		Message: "Bill " + expenditure.BillNumber + " was paid out",
	})

	data := newExpenditure(c, expenditure)
	c.JSON(http.StatusOK, ExpenditureResponse{Data: &data})
}

// @Summary		Resubmit expenditure
// @Description	Creates a fresh pending copy of a rejected expenditure. Department and budget head cannot be changed.
// @Tags			Expenditures
// @Accept			json
// @Produce		json
// @Success		201			{object}	ExpenditureResponse
// @Failure		400			{object}	ExpenditureResponse
// @Failure		403			{object}	ExpenditureResponse
// @Failure		404			{object}	ExpenditureResponse
// @Failure		409			{object}	ExpenditureResponse
// @Failure		500			{object}	ExpenditureResponse
// @Param			id			path		string						true	"ID formatted as string"
// @Param			overrides	body		models.ResubmitOverrides	false	"Overrides"
// @Router			/v1/expenditures/{id}/resubmit [post]
// @Security		BearerAuth
func (co Controller) ResubmitExpenditure(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ExpenditureResponse{Error: &e})
		return
	}

	var overrides models.ResubmitOverrides
	if c.Request.ContentLength > 0 {
		if err := httputil.BindData(c, &overrides); err != nil {
			e := err.Error()
			c.JSON(status(err), ExpenditureResponse{Error: &e})
			return
		}
	}

	actor := currentActor(c)
	result, err := models.ResubmitExpenditure(uri.ID.UUID, overrides, co.Config.Budget, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExpenditureResponse{Error: &e})
		return
	}

	co.auditDecision(notify.EventExpenditureResubmitted, result.Expenditure, actor)
	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventExpenditureResubmitted,
		Subject: "Expenditure resubmitted",
		Message: "Bill " + result.Expenditure.BillNumber + " was resubmitted after rejection",
	})

	data := newExpenditure(c, result.Expenditure)
	response := ExpenditureResponse{Data: &data}
	if result.Warning != "" {
		response.Warning = &result.Warning
	}

	c.JSON(http.StatusCreated, response)
}

func (co Controller) auditDecision(event string, expenditure models.Expenditure, actor auth.Actor) {
	models.RecordAudit(models.AuditLog{
		Event:      event,
		EntityType: "expenditure",
		EntityID:   expenditure.ID,
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		Snapshot: map[string]any{
			"billNumber": expenditure.BillNumber,
			"billAmount": expenditure.BillAmount,
			"status":     expenditure.Status,
		},
	})
}
