package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Counts GET /api/v1/dashboard
func (ctrl *DashboardController) Counts(c *gin.Context) {
	counts, err := ctrl.dashboardService.Counts(c.Request.Context())
	if err != nil {
		respondError(c, err, "dashboard")
		return
	}
	c.JSON(http.StatusOK, counts)
}
