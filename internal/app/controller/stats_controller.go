package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/internal/app/service"
)

type StatsController struct {
	statsService service.StatsService
}

func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{
		statsService: statsService,
	}
}

// Personal 역할별 대시보드 수치
// GET /stats/personal
func (ctrl *StatsController) Personal(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	stats, err := ctrl.statsService.Personal(actor)
	if err != nil {
		respondServiceError(c, err, "personal stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /stats/site
func (ctrl *StatsController) Site(c *gin.Context) {
	stats, err := ctrl.statsService.Site()
	if err != nil {
		respondServiceError(c, err, "site stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
