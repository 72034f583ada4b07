package v1

import (
	"net/http"

	"github.com/college-budget/backend/internal/httputil"
	"github.com/college-budget/backend/internal/models"
	"github.com/college-budget/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// RegisterFinancialYearRoutes registers the routes for financial years
// with the RouterGroup that is passed.
func (co Controller) RegisterFinancialYearRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetFinancialYears)
	r.POST("", co.CreateFinancialYear)
	r.OPTIONS("/:year", httputil.OptionsGetPatch)
	r.GET("/:year", co.GetFinancialYear)
	r.PATCH("/:year", co.SetFinancialYearStatus)
}

type FinancialYearEditable struct {
	Year    types.FinancialYear        `json:"year" binding:"required" example:"2025-2026"` // The financial year, April through March
	Status  models.FinancialYearStatus `json:"status" example:"open"`                       // open, locked or closed. Defaults to open.
	Remarks string                     `json:"remarks" example:"opened for budget entry"`
}

type FinancialYearStatusUpdate struct {
	Status  models.FinancialYearStatus `json:"status" binding:"required" example:"locked"` // open, locked or closed
	Remarks string                     `json:"remarks" example:"audit in progress"`
}

type FinancialYearResponse struct {
	Data  *models.FinancialYear `json:"data"`                                                           // Data for the financial year
	Error *string               `json:"error" example:"there is no financial year matching your query"` // The error, if any occurred
}

type FinancialYearListResponse struct {
	Data  []models.FinancialYear `json:"data"`  // List of financial years
	Error *string                `json:"error"` // The error, if any occurred
}

type URIYear struct {
	Year types.FinancialYear `uri:"year" binding:"required"` // The financial year, e.g. 2025-2026
}

// @Summary		Register financial year
// @Description	Registers a financial year master record
// @Tags			FinancialYears
// @Accept			json
// @Produce		json
// @Success		201		{object}	FinancialYearResponse
// @Failure		400		{object}	FinancialYearResponse
// @Failure		403		{object}	FinancialYearResponse
// @Failure		500		{object}	FinancialYearResponse
// @Param			year	body		FinancialYearEditable	true	"Financial year"
// @Router			/v1/financial-years [post]
// @Security		BearerAuth
func (co Controller) CreateFinancialYear(c *gin.Context) {
	var editable FinancialYearEditable

	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), FinancialYearResponse{Error: &e})
		return
	}

	record, err := models.CreateFinancialYear(editable.Year, editable.Status, editable.Remarks, currentActor(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FinancialYearResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, FinancialYearResponse{Data: &record})
}

// @Summary		List financial years
// @Description	Returns all registered financial years, newest first
// @Tags			FinancialYears
// @Produce		json
// @Success		200	{object}	FinancialYearListResponse
// @Failure		500	{object}	FinancialYearListResponse
// @Router			/v1/financial-years [get]
// @Security		BearerAuth
func (co Controller) GetFinancialYears(c *gin.Context) {
	var years []models.FinancialYear
	if err := models.DB.Order("year DESC").Find(&years).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), FinancialYearListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, FinancialYearListResponse{Data: years})
}

// @Summary		Get financial year
// @Description	Returns a specific financial year
// @Tags			FinancialYears
// @Produce		json
// @Success		200		{object}	FinancialYearResponse
// @Failure		400		{object}	FinancialYearResponse
// @Failure		404		{object}	FinancialYearResponse
// @Failure		500		{object}	FinancialYearResponse
// @Param			year	path		string	true	"The financial year, e.g. 2025-2026"
// @Router			/v1/financial-years/{year} [get]
// @Security		BearerAuth
func (co Controller) GetFinancialYear(c *gin.Context) {
	var uri URIYear
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, FinancialYearResponse{Error: &e})
		return
	}

	var record models.FinancialYear
	err := models.DB.Where(&models.FinancialYear{Year: uri.Year}).First(&record).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FinancialYearResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, FinancialYearResponse{Data: &record})
}

// @Summary		Set financial year status
// @Description	Opens, locks or closes a financial year
// @Tags			FinancialYears
// @Accept			json
// @Produce		json
// @Success		200		{object}	FinancialYearResponse
// @Failure		400		{object}	FinancialYearResponse
// @Failure		403		{object}	FinancialYearResponse
// @Failure		404		{object}	FinancialYearResponse
// @Failure		500		{object}	FinancialYearResponse
// @Param			year	path		string						true	"The financial year, e.g. 2025-2026"
// @Param			update	body		FinancialYearStatusUpdate	true	"Status update"
// @Router			/v1/financial-years/{year} [patch]
// @Security		BearerAuth
func (co Controller) SetFinancialYearStatus(c *gin.Context) {
	var uri URIYear
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, FinancialYearResponse{Error: &e})
		return
	}

	var update FinancialYearStatusUpdate
	if err := httputil.BindData(c, &update); err != nil {
		e := err.Error()
		c.JSON(status(err), FinancialYearResponse{Error: &e})
		return
	}

	record, err := models.SetFinancialYearStatus(uri.Year, update.Status, update.Remarks, currentActor(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FinancialYearResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, FinancialYearResponse{Data: &record})
}
