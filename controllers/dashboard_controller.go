package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthtrack/backend/services"
)

type DashboardController struct {
	svc *services.DashboardService
}

func NewDashboardController(svc *services.DashboardService) *DashboardController {
	return &DashboardController{svc: svc}
}

// GET /api/users/:id/dashboard
func (ctl *DashboardController) Get(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	d, err := ctl.svc.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
