package controller

import (
	"strconv"

	"enarm_backend/internal/service"
	"enarm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

type AnswerSubmission struct {
	BankItemID    uint   `json:"bankItemId" binding:"required"`
	SelectedLabel string `json:"selectedLabel" binding:"required"`
}

type BulkAnswerSubmission struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

func attemptIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid attempt id")
		return 0, false
	}
	return uint(id), true
}

// @Summary Record one answer within an attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "attempt id"
// @Param answer body AnswerSubmission true "bank item and selected label"
// @Success 200 {object} util.Response
// @Router /attempts/{id}/answers [post]
func (c *AttemptController) RecordAnswer(ctx *gin.Context) {
	attemptID, ok := attemptIDParam(ctx)
	if !ok {
		return
	}

	var req AnswerSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.AttemptService.RecordAnswer(attemptID, req.BankItemID, req.SelectedLabel)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// @Summary Record a batch of answers within an attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "attempt id"
// @Param answers body BulkAnswerSubmission true "bank item id to label"
// @Success 200 {object} util.Response
// @Router /attempts/{id}/answers [put]
func (c *AttemptController) RecordAnswers(ctx *gin.Context) {
	attemptID, ok := attemptIDParam(ctx)
	if !ok {
		return
	}

	var req BulkAnswerSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AttemptService.RecordAnswers(attemptID, req.Answers); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Finalize an attempt and compute its tallies
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "attempt id"
// @Success 200 {object} util.Response
// @Router /attempts/{id}/finalize [post]
func (c *AttemptController) FinalizeAttempt(ctx *gin.Context) {
	attemptID, ok := attemptIDParam(ctx)
	if !ok {
		return
	}

	attempt, err := c.AttemptService.FinalizeAttempt(attemptID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// @Summary Get an attempt summary
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "attempt id"
// @Success 200 {object} util.Response
// @Router /attempts/{id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	attemptID, ok := attemptIDParam(ctx)
	if !ok {
		return
	}

	attempt, err := c.AttemptService.GetAttempt(attemptID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// @Summary Get the recorded answers of an attempt
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "attempt id"
// @Success 200 {object} util.Response
// @Router /attempts/{id}/answers [get]
func (c *AttemptController) GetAttemptAnswers(ctx *gin.Context) {
	attemptID, ok := attemptIDParam(ctx)
	if !ok {
		return
	}

	rows, err := c.AttemptService.GetAttemptAnswers(attemptID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary List the caller's attempts
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /attempts [get]
func (c *AttemptController) ListAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page := 1
	limit := 20
	if p := ctx.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := ctx.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	attempts, total, err := c.AttemptService.ListAttemptsByUser(user.UserID, page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": attempts, "total": total})
}
