package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthtrack/backend/services"
)

type MealLogController struct {
	svc *services.MealLogService
}

func NewMealLogController(svc *services.MealLogService) *MealLogController {
	return &MealLogController{svc: svc}
}

// GET /api/users/:id/meal-logs?date=YYYY-MM-DD (defaults to today)
func (ctl *MealLogController) List(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	day, err := ctl.svc.ParseDay(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	logs, err := ctl.svc.ListByDate(c.Request.Context(), userID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (ctl *MealLogController) Create(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	var input services.MealLogInput
	if !bindJSON(c, &input) {
		return
	}
	log, err := ctl.svc.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

func (ctl *MealLogController) Update(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	mealLogID, ok := pathUint(c, "mealLogId")
	if !ok {
		return
	}
	var input services.MealLogInput
	if !bindJSON(c, &input) {
		return
	}
	log, err := ctl.svc.Update(c.Request.Context(), userID, mealLogID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (ctl *MealLogController) Delete(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	mealLogID, ok := pathUint(c, "mealLogId")
	if !ok {
		return
	}
	if err := ctl.svc.Delete(c.Request.Context(), userID, mealLogID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal log deleted"})
}
