package controller

import (
	"workbook_coach_backend/internal/service"
	"workbook_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	service *service.SubmissionService
}

func NewSubmissionController(s *service.SubmissionService) *SubmissionController {
	return &SubmissionController{service: s}
}

// ListSubmissions godoc
// @Summary List my submissions
// @Description Most recent first
// @Tags Submissions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/submissions [get]
func (c *SubmissionController) ListSubmissions(ctx *gin.Context) {
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

// SaveDraft godoc
// @Summary Save draft answers
// @Description Creates the draft for a worksheet on first save and merges answers afterwards
// @Tags Submissions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.DraftRequest true "Draft answers"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "Unknown worksheet"
// @Router /api/submissions [post]
func (c *SubmissionController) SaveDraft(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.DraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.service.SaveDraft(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// GetSubmission godoc
// @Summary Get a submission
// @Tags Submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/submissions/{id} [get]
func (c *SubmissionController) GetSubmission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, err := c.service.Get(user.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// Submit godoc
// @Summary Submit a draft
// @Description Freezes the answers and generates the first diagnosis
// @Tags Submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 409 {object} util.Response "Already submitted"
// @Failure 502 {object} util.Response "Submitted, diagnosis unavailable"
// @Router /api/submissions/{id}/submit [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, err := c.service.Submit(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// RegenerateDiagnosis godoc
// @Summary Retry the diagnosis
// @Tags Submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 409 {object} util.Response "Not submitted, or generation in progress"
// @Failure 502 {object} util.Response
// @Router /api/submissions/{id}/diagnosis [post]
func (c *SubmissionController) RegenerateDiagnosis(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, err := c.service.RegenerateDiagnosis(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// MarkViewed godoc
// @Summary Mark the diagnosis as viewed
// @Tags Submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /api/submissions/{id}/viewed [post]
func (c *SubmissionController) MarkViewed(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, err := c.service.MarkDiagnosisViewed(user.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}
