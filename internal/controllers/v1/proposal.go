package v1

import (
	"net/http"

	"github.com/college-budget/backend/internal/httputil"
	"github.com/college-budget/backend/internal/models"
	"github.com/college-budget/backend/internal/notify"
	"github.com/gin-gonic/gin"
)

// RegisterProposalRoutes registers the routes for budget proposals with
// the RouterGroup that is passed.
func (co Controller) RegisterProposalRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetProposals)
		r.POST("", co.CreateProposal)
	}

	// Proposal with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGet)
		r.GET("/:id", co.GetProposal)
		r.POST("/:id/approve", co.ApproveProposal)
		r.POST("/:id/reject", co.RejectProposal)
	}
}

// @Summary		Create proposal
// @Description	Submits a budget proposal with its line items
// @Tags			Proposals
// @Accept			json
// @Produce		json
// @Success		201			{object}	ProposalResponse
// @Failure		400			{object}	ProposalResponse
// @Failure		403			{object}	ProposalResponse
// @Failure		500			{object}	ProposalResponse
// @Param			proposal	body		models.BudgetProposalEditable	true	"Proposal"
// @Router			/v1/proposals [post]
// @Security		BearerAuth
func (co Controller) CreateProposal(c *gin.Context) {
	var editable models.BudgetProposalEditable

	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	proposal, err := models.CreateProposal(editable, currentActor(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	data := newProposal(c, proposal)
	c.JSON(http.StatusCreated, ProposalResponse{Data: &data})
}

// @Summary		List proposals
// @Description	Returns a list of budget proposals
// @Tags			Proposals
// @Produce		json
// @Success		200	{object}	ProposalListResponse
// @Failure		400	{object}	ProposalListResponse
// @Failure		500	{object}	ProposalListResponse
// @Router			/v1/proposals [get]
// @Param			financialYear	query	string	false	"Filter by financial year, e.g. 2026-2027"
// @Param			department		query	string	false	"Filter by department ID"
// @Param			status			query	string	false	"Filter by status"
// @Param			offset			query	uint	false	"The offset of the first Proposal returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of Proposals to return. Defaults to 50."
// @Security		BearerAuth
func (co Controller) GetProposals(c *gin.Context) {
	var filter ProposalQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	where, err := filter.model()
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalListResponse{Error: &e})
		return
	}

	q := models.DB.
		Order("created_at DESC").
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

	var proposals []models.BudgetProposal
	if err := q.Preload("Items").Find(&proposals).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalListResponse{Error: &e})
		return
	}

	var count int64
	if err := q.Limit(-1).Offset(-1).Count(&count).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalListResponse{Error: &e})
		return
	}

	apiResources := make([]Proposal, 0)
	for _, proposal := range proposals {
		apiResources = append(apiResources, newProposal(c, proposal))
	}

	c.JSON(http.StatusOK, ProposalListResponse{
		Data: apiResources,
		Pagination: &Pagination{
			Count:  len(apiResources),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get proposal
// @Description	Returns a specific proposal with its line items
// @Tags			Proposals
// @Produce		json
// @Success		200	{object}	ProposalResponse
// @Failure		400	{object}	ProposalResponse
// @Failure		404	{object}	ProposalResponse
// @Failure		500	{object}	ProposalResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/proposals/{id} [get]
// @Security		BearerAuth
func (co Controller) GetProposal(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ProposalResponse{Error: &e})
		return
	}

	var proposal models.BudgetProposal
	err := models.DB.Preload("Items").First(&proposal, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	data := newProposal(c, proposal)
	c.JSON(http.StatusOK, ProposalResponse{Data: &data})
}

// @Summary		Approve proposal
// @Description	Approves a pending proposal and promotes its items into allocations. Existing ledger lines are skipped.
// @Tags			Proposals
// @Accept			json
// @Produce		json
// @Success		200			{object}	ProposalApprovalResponse
// @Failure		400			{object}	ProposalApprovalResponse
// @Failure		403			{object}	ProposalApprovalResponse
// @Failure		404			{object}	ProposalApprovalResponse
// @Failure		409			{object}	ProposalApprovalResponse
// @Failure		500			{object}	ProposalApprovalResponse
// @Param			id			path		string			true	"ID formatted as string"
// @Param			decision	body		DecisionRequest	false	"Decision"
// @Router			/v1/proposals/{id}/approve [post]
// @Security		BearerAuth
func (co Controller) ApproveProposal(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ProposalApprovalResponse{Error: &e})
		return
	}

	var request DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := httputil.BindData(c, &request); err != nil {
			e := err.Error()
			c.JSON(status(err), ProposalApprovalResponse{Error: &e})
			return
		}
	}

	actor := currentActor(c)
	proposal, promotion, err := models.ApproveProposal(uri.ID.UUID, request.Remarks, actor)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalApprovalResponse{Error: &e})
		return
	}

	models.RecordAudit(models.AuditLog{
		Event:      notify.EventProposalApproved,
		EntityType: "proposal",
		EntityID:   proposal.ID,
		ActorID:    actor.UserID,
		ActorName:  actor.Name,
		ActorRole:  string(actor.Role),
		Snapshot: map[string]any{
			"created": len(promotion.Created),
			"skipped": len(promotion.Skipped),
		},
	})
	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventProposalApproved,
		Subject: "Budget proposal approved",
		Message: proposal.Title + " was approved",
	})

	data := newProposal(c, proposal)
	c.JSON(http.StatusOK, ProposalApprovalResponse{Data: &data, Promotion: &promotion})
}

// @Summary		Reject proposal
// @Description	Rejects a pending proposal. Remarks are mandatory.
// @Tags			Proposals
// @Accept			json
// @Produce		json
// @Success		200			{object}	ProposalResponse
// @Failure		400			{object}	ProposalResponse
// @Failure		403			{object}	ProposalResponse
// @Failure		404			{object}	ProposalResponse
// @Failure		409			{object}	ProposalResponse
// @Failure		500			{object}	ProposalResponse
// @Param			id			path		string			true	"ID formatted as string"
// @Param			decision	body		DecisionRequest	true	"Decision"
// @Router			/v1/proposals/{id}/reject [post]
// @Security		BearerAuth
func (co Controller) RejectProposal(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := httputil.ErrInvalidUUID.Error()
		c.JSON(http.StatusBadRequest, ProposalResponse{Error: &e})
		return
	}

	var request DecisionRequest
	if err := httputil.BindData(c, &request); err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	proposal, err := models.RejectProposal(uri.ID.UUID, request.Remarks, currentActor(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	co.Notifier.Publish(notify.Notification{
		Event:   notify.EventProposalRejected,
		Subject: "Budget proposal rejected",
		Message: proposal.Title + " was rejected: " + request.Remarks,
	})

	data := newProposal(c, proposal)
	c.JSON(http.StatusOK, ProposalResponse{Data: &data})
}
