package controller

import (
	"workbook_coach_backend/internal/service"
	"workbook_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	service *service.RecommendationService
}

func NewRecommendationController(s *service.RecommendationService) *RecommendationController {
	return &RecommendationController{service: s}
}

// FollowupRecommendations godoc
// @Summary Follow-ups I am due for
// @Description At most one per original submission, with a priority inferred from the reason
// @Tags Recommendations
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.FollowupRecommendation}
// @Router /api/followups/recommendations [get]
func (c *RecommendationController) FollowupRecommendations(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	recs, err := c.service.FollowupRecommendations(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, recs)
}

// WorksheetRecommendations godoc
// @Summary Recommended worksheets
// @Description Workbook and pillar worksheets ranked by relevance
// @Tags Recommendations
// @Produce json
// @Security ApiKeyAuth
// @Param currentWorksheetId query string false "Worksheet to exclude"
// @Success 200 {object} util.Response{data=[]model.WorksheetRecommendation}
// @Router /api/worksheets/recommended [get]
func (c *RecommendationController) WorksheetRecommendations(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	recs, err := c.service.WorksheetRecommendations(ctx.Request.Context(), user.UserID, ctx.Query("currentWorksheetId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, recs)
}
