package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthtrack/backend/controllers"
	"github.com/healthtrack/backend/metrics"
	"github.com/healthtrack/backend/middlewares"
	"github.com/healthtrack/backend/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Dashboard  *services.DashboardService
	Users      *services.UserService
	MealLogs   *services.MealLogService
	HealthData *services.HealthDataService

	UserRepo  services.UserRepository
	JWTSecret string
	Log       *zap.Logger
	Metrics   *metrics.Metrics
	// Ready reports backend health for /healthz; nil means always ready.
	Ready func(ctx context.Context) error
}

func SetupRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := gin.New()
	r.Use(middlewares.RequestID(), middlewares.RequestLogger(d.Log), gin.Recovery())
	if d.Metrics != nil {
		r.Use(middlewares.Metrics(d.Metrics))
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	r.GET("/healthz", func(c *gin.Context) {
		if d.Ready != nil {
			if err := d.Ready(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	dashboard := controllers.NewDashboardController(d.Dashboard)
	users := controllers.NewUserController(d.Users)
	meals := controllers.NewMealLogController(d.MealLogs)
	health := controllers.NewHealthDataController(d.HealthData)

	// Protected per-user routes
	user := r.Group("/api/users/:id")
	user.Use(middlewares.AuthMiddleware(d.JWTSecret, d.UserRepo), middlewares.RequireSelf("id"))
	{
		user.GET("/dashboard", dashboard.Get)

		user.GET("/profile", users.GetProfile)
		user.PUT("/profile", users.UpdateProfile)
		user.GET("/goals", users.GetGoals)
		user.PUT("/goals", users.UpdateGoals)
		user.POST("/menstrual-cycle", users.CreateCycle)
		user.PUT("/menstrual-cycle", users.UpdateCycle)

		user.GET("/meal-logs", meals.List)
		user.POST("/meal-logs", meals.Create)
		user.PUT("/meal-logs/:mealLogId", meals.Update)
		user.DELETE("/meal-logs/:mealLogId", meals.Delete)

		user.GET("/health-data", health.List)
		user.POST("/health-data", health.Create)
		user.GET("/health-data/today", health.Today)
		user.GET("/health-data/weekly", health.Weekly)
		user.PUT("/health-data/:entryId", health.Update)
		user.DELETE("/health-data/:entryId", health.Delete)
	}

	return r
}
