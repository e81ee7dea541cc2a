package models

import "time"

// Dashboard is the aggregated per-user view served by GET /dashboard and
// cached as a whole.
type Dashboard struct {
	HealthScore  HealthScore  `json:"healthScore"`
	Highlights   Highlights   `json:"highlights"`
	WeeklyReport WeeklyReport `json:"weeklyReport"`
	Blogs        []BlogCard   `json:"blogs"`
}

type HealthScore struct {
	Score   int    `json:"score"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Highlights struct {
	Steps         StepsHighlight     `json:"steps"`
	CycleTracking CycleHighlight     `json:"cycleTracking"`
	Sleep         SleepHighlight     `json:"sleep"`
	Nutrition     NutritionHighlight `json:"nutrition"`
}

type StepsHighlight struct {
	Value       int     `json:"value"`
	Goal        int     `json:"goal"`
	Percentage  float64 `json:"percentage"`
	LastUpdated string  `json:"lastUpdated"`
}

type CycleHighlight struct {
	Status        string `json:"status"`
	LastCycleDate string `json:"lastCycleDate"`
	NextCycleDate string `json:"nextCycleDate"`
	DaysRemaining int    `json:"daysRemaining"`
}

type SleepHighlight struct {
	Hours       float64 `json:"hours"`
	Goal        float64 `json:"goal"`
	Percentage  float64 `json:"percentage"`
	LastUpdated string  `json:"lastUpdated"`
	Formatted   string  `json:"formatted"`
}

type NutritionHighlight struct {
	TotalKcal   int     `json:"totalKcal"`
	Goal        int     `json:"goal"`
	Percentage  float64 `json:"percentage"`
	LastUpdated string  `json:"lastUpdated"`
}

type WeeklyReport struct {
	TotalSteps               int     `json:"totalSteps"`
	TotalWater               float64 `json:"totalWater"`
	TotalWorkoutDuration     float64 `json:"totalWorkoutDuration"`
	TotalSleepDuration       float64 `json:"totalSleepDuration"`
	FormattedWorkoutDuration string  `json:"formattedWorkoutDuration"`
	FormattedSleepDuration   string  `json:"formattedSleepDuration"`
}

// BlogCard is the lightweight article summary shown on the dashboard.
type BlogCard struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	CategoryName string    `json:"categoryName"`
	VoteCount    int       `json:"voteCount"`
	PublishedAt  time.Time `json:"publishedAt"`
}
