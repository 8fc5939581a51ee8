package controller

import (
	"enarm_backend/internal/repository"
	"enarm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SpecialtyController struct {
	SpecialtyRepo *repository.SpecialtyRepository
}

func NewSpecialtyController(specialtyRepo *repository.SpecialtyRepository) *SpecialtyController {
	return &SpecialtyController{SpecialtyRepo: specialtyRepo}
}

// @Summary List specialties
// @Tags specialties
// @Produce json
// @Success 200 {object} util.Response
// @Router /specialties [get]
func (c *SpecialtyController) ListSpecialties(ctx *gin.Context) {
	specialties, err := c.SpecialtyRepo.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, specialties)
}
