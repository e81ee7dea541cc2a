package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthtrack/backend/models"
	"github.com/healthtrack/backend/services"
)

// UserController serves profile, goal and menstrual-cycle endpoints.
type UserController struct {
	svc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{svc: svc}
}

func (ctl *UserController) GetProfile(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	profile, err := ctl.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (ctl *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	var input services.ProfileInput
	if !bindJSON(c, &input) {
		return
	}
	profile, err := ctl.svc.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (ctl *UserController) GetGoals(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	goal, err := ctl.svc.GetGoal(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (ctl *UserController) UpdateGoals(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	var input services.GoalInput
	if !bindJSON(c, &input) {
		return
	}
	goal, err := ctl.svc.UpdateGoal(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (ctl *UserController) CreateCycle(c *gin.Context) {
	ctl.saveCycle(c, http.StatusCreated, ctl.svc.CreateCycle)
}

func (ctl *UserController) UpdateCycle(c *gin.Context) {
	ctl.saveCycle(c, http.StatusOK, ctl.svc.UpdateCycle)
}

func (ctl *UserController) saveCycle(c *gin.Context, status int, save func(ctx context.Context, userID uint, in services.CycleInput) (*models.MenstrualCycle, error)) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	var input services.CycleInput
	if !bindJSON(c, &input) {
		return
	}
	cycle, err := save(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, cycle)
}
