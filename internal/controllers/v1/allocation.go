package v1

import (
	"net/http"

	"github.com/college-budget/backend/internal/httputil"
	"github.com/college-budget/backend/internal/models"
	"github.com/college-budget/backend/internal/notify"
	"github.com/gin-gonic/gin"
)

// RegisterAllocationRoutes registers the routes for allocations with
// the RouterGroup that is passed.
func (co Controller) RegisterAllocationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetAllocations)
		r.POST("", co.CreateAllocation)
	}

	// Allocation with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", co.GetAllocation)
		r.PATCH("/:id", co.UpdateAllocation)
		r.DELETE("/:id", co.DeleteAllocation)
		r.GET("/:id/history", co.GetAllocationHistory)
		r.GET("/:id/history/:version", co.GetAllocationVersion)
		r.OPTIONS("/:id/rollback", httputil.OptionsPost)
		r.POST("/:id/rollback", co.RollbackAllocation)
	}
}

// @Summary		Create allocation
// @Description	Creates a new budget allocation for a department and budget head
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		201			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		403			{object}	AllocationResponse
// @Failure		409			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			allocation	body		models.AllocationEditable	true	"Allocation"
// @Router			/v1/allocations [post]
// @Security		BearerAuth
func (co Controller) CreateAllocation(c *gin.Context) {
	var editable models.AllocationEditable

	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	actor := currentActor(c)
	allocation, err := models.CreateAllocation(editable, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	models.RecordAudit(models.AuditLog{
		Event:      notify.EventAllocationCreated,
		EntityType: "allocation",
		EntityID:   allocation.ID,
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		Snapshot: map[string]any{
			"financialYear":   allocation.FinancialYear,
			"allocatedAmount": allocation.AllocatedAmount,
		},
	})
	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventAllocationCreated,
		Subject: "Budget allocated",
		Message: "An allocation of " + notify.FormatAmount(allocation.AllocatedAmount) + " was created",
	})

	data := newAllocation(c, allocation)
	c.JSON(http.StatusCreated, AllocationResponse{Data: &data})
}

// @Summary		List allocations
// @Description	Returns a list of allocations
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Router			/v1/allocations [get]
// @Param			financialYear	query	string	false	"Filter by financial year, e.g. 2025-2026"
// @Param			department		query	string	false	"Filter by department ID"
// @Param			budgetHead		query	string	false	"Filter by budget head ID"
// @Param			status			query	string	false	"Filter by status"
// @Param			offset			query	uint	false	"The offset of the first Allocation returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of Allocations to return. Defaults to 50."
// @Security		BearerAuth
func (co Controller) GetAllocations(c *gin.Context) {
	var filter AllocationQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	where, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{Error: &e})
		return
	}

	q := models.DB.
		Order("financial_year DESC, created_at ASC").
		Where(&where)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if filter.Limit != 0 {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var allocations []models.Allocation
	if err := q.Find(&allocations).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{Error: &e})
		return
	}

	var count int64
	if err := q.Limit(-1).Offset(-1).Count(&count).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{Error: &e})
		return
	}

	apiResources := make([]Allocation, 0)
	for _, allocation := range allocations {
		apiResources = append(apiResources, newAllocation(c, allocation))
	}

	c.JSON(http.StatusOK, AllocationListResponse{
		Data: apiResources,
		Pagination: &Pagination{
			Count:  len(apiResources),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get allocation
// @Description	Returns a specific allocation
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/allocations/{id} [get]
// @Security		BearerAuth
func (co Controller) GetAllocation(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{Error: &e})
		return
	}

	var allocation models.Allocation
	if err := models.DB.First(&allocation, "id = ?", uri.ID.UUID).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Update allocation
// @Description	Updates an existing allocation. Only values to be updated need to be specified.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		403			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		409			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			id			path		string					true	"ID formatted as string"
// @Param			allocation	body		models.AllocationUpdate	true	"Allocation"
// @Router			/v1/allocations/{id} [patch]
// @Security		BearerAuth
func (co Controller) UpdateAllocation(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{Error: &e})
		return
	}

	var update models.AllocationUpdate
	if err := httputil.BindData(c, &update); err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	actor := currentActor(c)
	allocation, err := models.UpdateAllocation(uri.ID.UUID, update, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	models.RecordAudit(models.AuditLog{
		Event:      notify.EventAllocationUpdated,
		EntityType: "allocation",
		EntityID:   allocation.ID,
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		Snapshot: map[string]any{
			"allocatedAmount": allocation.AllocatedAmount,
			"status":          allocation.Status,
		},
	})
	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventAllocationUpdated,
		Subject: "Allocation updated",
		Message: "The allocation now stands at " + notify.FormatAmount(allocation.AllocatedAmount),
	})

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Delete allocation
// @Description	Deletes an allocation that no expenditure references
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/allocations/{id} [delete]
// @Security		BearerAuth
func (co Controller) DeleteAllocation(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: httputil.ErrInvalidUUID.Error()})
		return
	}

	if err := models.DeleteAllocation(uri.ID.UUID, currentActor(c)); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Allocation history
// @Description	Returns the version history of an allocation, newest first
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationHistoryListResponse
// @Failure		400	{object}	AllocationHistoryListResponse
// @Failure		404	{object}	AllocationHistoryListResponse
// @Failure		500	{object}	AllocationHistoryListResponse
// @Param			id		path	string	true	"ID formatted as string"
// @Param			offset	query	uint	false	"The offset of the first version returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of versions to return. Defaults to 50."
// @Router			/v1/allocations/{id}/history [get]
// @Security		BearerAuth
func (co Controller) GetAllocationHistory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, AllocationHistoryListResponse{Error: &e})
		return
	}

	var filter AllocationHistoryQueryFilter
	_ = c.Bind(&filter)

	limit := 50
	if filter.Limit != 0 {
		limit = filter.Limit
	}

	// Resolve the allocation first so an unknown ID is a 404, not an
	// empty history
	var allocation models.Allocation
	if err := models.DB.First(&allocation, "id = ?", uri.ID.UUID).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationHistoryListResponse{Error: &e})
		return
	}

	versions, total, err := models.AllocationVersions(allocation.ID, filter.Offset, limit)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationHistoryListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, AllocationHistoryListResponse{
		Data: versions,
		Pagination: &Pagination{
			Count:  len(versions),
			Total:  total,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Allocation history version
// @Description	Returns one specific version of an allocation
// @Tags			Allocations
// @Produce		json
// @Success		200		{object}	AllocationHistoryResponse
// @Failure		400		{object}	AllocationHistoryResponse
// @Failure		404		{object}	AllocationHistoryResponse
// @Failure		500		{object}	AllocationHistoryResponse
// @Param			id		path		string	true	"ID formatted as string"
// @Param			version	path		uint	true	"The version number"
// @Router			/v1/allocations/{id}/history/{version} [get]
// @Security		BearerAuth
func (co Controller) GetAllocationVersion(c *gin.Context) {
	var uri URIVersion
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, AllocationHistoryResponse{Error: &e})
		return
	}

	version, err := models.AllocationVersion(uri.ID.UUID, uri.Version)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationHistoryResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, AllocationHistoryResponse{Data: &version})
}

// @Summary		Roll back allocation
// @Description	Restores the allocated amount and remarks of an earlier history version
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		403			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		409			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			id			path		string			true	"ID formatted as string"
// @Param			rollback	body		RollbackRequest	true	"Rollback"
// @Router			/v1/allocations/{id}/rollback [post]
// @Security		BearerAuth
func (co Controller) RollbackAllocation(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{Error: &e})
		return
	}

	var request RollbackRequest
	if err := httputil.BindData(c, &request); err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	actor := currentActor(c)
	allocation, err := models.RollbackAllocation(uri.ID.UUID, request.Version, request.Reason, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	models.RecordAudit(models.AuditLog{
		Event:      notify.EventAllocationRolledBack,
		EntityType: "allocation",
		EntityID:   allocation.ID,
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		Snapshot: map[string]any{
			"restoredVersion": request.Version,
			"allocatedAmount": allocation.AllocatedAmount,
		},
	})
	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventAllocationRolledBack,
		Subject: "Allocation rolled back",
		Message: "The allocation was reset to " + notify.FormatAmount(allocation.AllocatedAmount),
	})

	data := newAllocation(c, allocation)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}
