package controller

import (
	"strconv"
	"strings"

	"enarm_backend/internal/model"
	"enarm_backend/internal/repository"
	"enarm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// BankItemController covers question bank administration: producing and
// reading items. The exam core itself only ever reads them.
type BankItemController struct {
	BankItemRepo  *repository.BankItemRepository
	SpecialtyRepo *repository.SpecialtyRepository
}

func NewBankItemController(bankItemRepo *repository.BankItemRepository, specialtyRepo *repository.SpecialtyRepository) *BankItemController {
	return &BankItemController{BankItemRepo: bankItemRepo, SpecialtyRepo: specialtyRepo}
}

type CreateBankItemRequest struct {
	SpecialtyID  uint   `json:"specialtyId" binding:"required"`
	Prompt       string `json:"prompt" binding:"required"`
	OptionA      string `json:"optionA" binding:"required"`
	OptionB      string `json:"optionB" binding:"required"`
	OptionC      string `json:"optionC" binding:"required"`
	OptionD      string `json:"optionD" binding:"required"`
	CorrectLabel string `json:"correctLabel" binding:"required"`
	Explanation  string `json:"explanation"`
}

// @Summary Create a bank item
// @Tags bank
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param item body CreateBankItemRequest true "question content"
// @Success 201 {object} util.Response
// @Router /admin/bank-items [post]
func (c *BankItemController) CreateBankItem(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateBankItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	label := strings.ToLower(strings.TrimSpace(req.CorrectLabel))
	switch label {
	case "a", "b", "c", "d":
	default:
		util.BadRequest(ctx, "correctLabel must be one of a, b, c, d")
		return
	}

	ok, err := c.SpecialtyRepo.Exists(req.SpecialtyID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !ok {
		util.NotFound(ctx, util.ErrSpecialtyNotFound.Error())
		return
	}

	item := &model.BankItem{
		SpecialtyID:  req.SpecialtyID,
		Prompt:       req.Prompt,
		OptionA:      req.OptionA,
		OptionB:      req.OptionB,
		OptionC:      req.OptionC,
		OptionD:      req.OptionD,
		CorrectLabel: label,
		Explanation:  req.Explanation,
		CreatedBy:    user.UserID,
	}
	if err := c.BankItemRepo.Create(item); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, item)
}

// @Summary List bank items
// @Tags bank
// @Produce json
// @Security ApiKeyAuth
// @Param specialtyId query int false "filter by specialty"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /admin/bank-items [get]
func (c *BankItemController) ListBankItems(ctx *gin.Context) {
	specialtyID := 0
	if s := ctx.Query("specialtyId"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			specialtyID = v
		}
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

	items, total, err := c.BankItemRepo.ListBySpecialty(uint(specialtyID), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": items, "total": total})
}
