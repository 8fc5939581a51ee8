package controller

import (
	"strconv"

	"enarm_backend/internal/service"
	"enarm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService    *service.ExamService
	AttemptService *service.AttemptService
}

func NewExamController(examService *service.ExamService, attemptService *service.AttemptService) *ExamController {
	return &ExamController{ExamService: examService, AttemptService: attemptService}
}

// @Summary Generate an exam from the question bank
// @Tags exams
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.GenerateExamRequest true "specialties and item count"
// @Success 201 {object} util.Response
// @Router /exams/generate [post]
func (c *ExamController) GenerateExam(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.GenerateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.GenerateExam(req.SpecialtyIDs, req.CountPerSpecialty, req.TimeLimitMinutes, user.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	view, err := c.ExamService.GetExamView(exam.ID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, view)
}

// @Summary Get an exam with its items
// @Tags exams
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 200 {object} util.Response
// @Router /exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	view, err := c.ExamService.GetExamView(uint(id))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Start a new attempt on an exam
// @Tags attempts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "exam id"
// @Success 201 {object} util.Response
// @Router /exams/{id}/attempts [post]
func (c *ExamController) StartAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	attempt, err := c.AttemptService.StartAttempt(uint(id), user.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}
