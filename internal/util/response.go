package util

import (
	"errors"
	"net/http"
	"workbook_coach_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every handler writes.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err), zap.String("path", c.FullPath()))
	InternalServerError(c)
}

// HandleServiceError maps service sentinels onto HTTP statuses.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSubmissionNotFound),
		errors.Is(err, ErrFollowupNotFound),
		errors.Is(err, ErrWorksheetNotFound),
		errors.Is(err, ErrUserNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		Forbidden(c)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrAccountDisabled):
		Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrSubmissionAlreadySubmitted),
		errors.Is(err, ErrSubmissionNotSubmitted),
		errors.Is(err, ErrFollowupAlreadyCompleted),
		errors.Is(err, ErrEmailRegistered),
		errors.Is(err, ErrGenerationInProgress):
		Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidAnswers), errors.Is(err, ErrNotAFollowup):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrDiagnosisGenerationFailed):
		Error(c, http.StatusBadGateway, "diagnosis unavailable, retry")
	default:
		LogInternalError(c, err)
	}
}
