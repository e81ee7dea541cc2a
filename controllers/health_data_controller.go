package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/healthtrack/backend/services"
)

type HealthDataController struct {
	svc *services.HealthDataService
}

func NewHealthDataController(svc *services.HealthDataService) *HealthDataController {
	return &HealthDataController{svc: svc}
}

// GET /api/users/:id/health-data?date=&metricType=
// Without a date every entry is listed.
func (ctl *HealthDataController) List(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	var day *time.Time
	if v := c.Query("date"); v != "" {
		d, err := ctl.svc.ParseDay(v)
		if err != nil {
			respondError(c, err)
			return
		}
		day = &d
	}
	entries, err := ctl.svc.List(c.Request.Context(), userID, day, c.Query("metricType"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (ctl *HealthDataController) Today(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	entries, err := ctl.svc.Today(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (ctl *HealthDataController) Weekly(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	entries, err := ctl.svc.Weekly(c.Request.Context(), userID, c.Query("metricType"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (ctl *HealthDataController) Create(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	var input services.HealthDataInput
	if !bindJSON(c, &input) {
		return
	}
	entry, err := ctl.svc.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (ctl *HealthDataController) Update(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathUint(c, "entryId")
	if !ok {
		return
	}
	var input services.HealthDataInput
	if !bindJSON(c, &input) {
		return
	}
	entry, err := ctl.svc.Update(c.Request.Context(), userID, entryID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (ctl *HealthDataController) Delete(c *gin.Context) {
	userID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathUint(c, "entryId")
	if !ok {
		return
	}
	if err := ctl.svc.Delete(c.Request.Context(), userID, entryID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "health data deleted"})
}
