package cache

import (
	"fmt"
	"time"
)

const (
	dashboardPrefix = "dashboard:"
	profilePrefix   = "user:profile:"
	goalPrefix      = "user:goals:"
	mealLogsPrefix  = "meal-logs:"
)

func DashboardKey(userID uint) string { return fmt.Sprintf("%s%d", dashboardPrefix, userID) }
func ProfileKey(userID uint) string   { return fmt.Sprintf("%s%d", profilePrefix, userID) }
func GoalKey(userID uint) string      { return fmt.Sprintf("%s%d", goalPrefix, userID) }

// MealLogsKey scopes the cached meal-log list to one calendar day of day's location.
func MealLogsKey(userID uint, day time.Time) string {
	return fmt.Sprintf("%s%d:%s", mealLogsPrefix, userID, day.Format("2006-01-02"))
}
