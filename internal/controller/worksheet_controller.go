package controller

import (
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/service"
	"workbook_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WorksheetController struct {
	service *service.WorksheetService
}

func NewWorksheetController(s *service.WorksheetService) *WorksheetController {
	return &WorksheetController{service: s}
}

// ListWorksheets godoc
// @Summary List worksheets
// @Tags Worksheets
// @Produce json
// @Security ApiKeyAuth
// @Param category query string false "workbook, pillar or followup"
// @Success 200 {object} util.Response{data=[]model.Worksheet}
// @Router /api/worksheets [get]
func (c *WorksheetController) ListWorksheets(ctx *gin.Context) {
	var categories []model.WorksheetCategory
	if cat := ctx.Query("category"); cat != "" {
		categories = append(categories, model.WorksheetCategory(cat))
	}

	list, err := c.service.List(categories...)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetWorksheet godoc
// @Summary Get a worksheet
// @Tags Worksheets
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Worksheet ID"
// @Success 200 {object} util.Response{data=model.Worksheet}
// @Failure 404 {object} util.Response
// @Router /api/worksheets/{id} [get]
func (c *WorksheetController) GetWorksheet(ctx *gin.Context) {
	w, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, w)
}
