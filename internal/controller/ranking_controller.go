package controller

import (
	"strconv"

	"enarm_backend/internal/service"
	"enarm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RankingController struct {
	RankingService *service.RankingService
}

func NewRankingController(rankingService *service.RankingService) *RankingController {
	return &RankingController{RankingService: rankingService}
}

// @Summary Get the global leaderboard
// @Tags ranking
// @Produce json
// @Param limit query int false "number of entries" default(10)
// @Success 200 {object} util.Response
// @Router /ranking [get]
func (c *RankingController) GetRanking(ctx *gin.Context) {
	limit := int64(10)
	if l := ctx.Query("limit"); l != "" {
		if v, err := strconv.ParseInt(l, 10, 64); err == nil && v > 0 {
			limit = v
		}
	}

	entries, err := c.RankingService.Top(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
