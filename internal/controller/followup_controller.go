package controller

import (
	"workbook_coach_backend/internal/model"
	"workbook_coach_backend/internal/service"
	"workbook_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FollowupController struct {
	service *service.FollowupService
}

func NewFollowupController(s *service.FollowupService) *FollowupController {
	return &FollowupController{service: s}
}

// StartFollowupRequest names the original submission and, optionally, the
// follow-up worksheet. The diagnosis' suggestion is used when it is empty.
type StartFollowupRequest struct {
	OriginalSubmissionID string `json:"originalSubmissionId" binding:"required"`
	FollowupWorksheetID  string `json:"followupWorksheetId"`
}

type FollowupAnswersRequest struct {
	Answers model.Answers `json:"answers" swaggertype:"object"`
}

// StartFollowup godoc
// @Summary Start a follow-up assessment
// @Description Returns the existing follow-up for the pair or creates a pending one
// @Tags Follow-ups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body StartFollowupRequest true "Original submission and worksheet"
// @Success 200 {object} util.Response{data=model.FollowupAssessment}
// @Failure 400 {object} util.Response "Not a follow-up worksheet"
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Original not submitted"
// @Router /api/followups [post]
func (c *FollowupController) StartFollowup(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartFollowupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	f, err := c.service.Start(ctx.Request.Context(), user.UserID, req.OriginalSubmissionID, req.FollowupWorksheetID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, f)
}

// ListFollowups godoc
// @Summary List my follow-up assessments
// @Tags Follow-ups
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.FollowupAssessment}
// @Router /api/followups [get]
func (c *FollowupController) ListFollowups(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.service.ListForUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetFollowup godoc
// @Summary Get a follow-up assessment
// @Tags Follow-ups
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Follow-up ID"
// @Success 200 {object} util.Response{data=model.FollowupAssessment}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/followups/{id} [get]
func (c *FollowupController) GetFollowup(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	f, err := c.service.Get(user.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, f)
}

// SaveAnswers godoc
// @Summary Save follow-up answers
// @Tags Follow-ups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Follow-up ID"
// @Param body body FollowupAnswersRequest true "Answers to merge"
// @Success 200 {object} util.Response{data=model.FollowupAssessment}
// @Failure 409 {object} util.Response "Already completed"
// @Router /api/followups/{id}/answers [put]
func (c *FollowupController) SaveAnswers(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FollowupAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	f, err := c.service.SaveAnswers(user.UserID, ctx.Param("id"), req.Answers)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, f)
}

// CompleteFollowup godoc
// @Summary Complete a follow-up assessment
// @Description Merges the final answers and generates the comparison diagnosis
// @Tags Follow-ups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Follow-up ID"
// @Param body body FollowupAnswersRequest false "Final answers"
// @Success 200 {object} util.Response{data=model.FollowupAssessment}
// @Failure 409 {object} util.Response "Already completed or in progress"
// @Failure 502 {object} util.Response "Diagnosis unavailable"
// @Router /api/followups/{id}/complete [post]
func (c *FollowupController) CompleteFollowup(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FollowupAnswersRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	f, err := c.service.Complete(ctx.Request.Context(), user.UserID, ctx.Param("id"), req.Answers)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, f)
}
