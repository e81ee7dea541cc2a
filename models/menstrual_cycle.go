package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultPeriodLength is applied when a cycle is recorded without an end date.
const DefaultPeriodLength = 5

type MenstrualCycle struct {
	gorm.Model
	UserID    uint       `gorm:"index;not null" json:"userId"`
	StartDate *time.Time `gorm:"type:date;index" json:"startDate"`
	EndDate   *time.Time `gorm:"type:date" json:"endDate"`
}

// EndDateOrDefault returns the recorded end date, or start + DefaultPeriodLength
// days. It returns nil when the cycle has no start date.
func (c *MenstrualCycle) EndDateOrDefault() *time.Time {
	if c.EndDate != nil {
		return c.EndDate
	}
	if c.StartDate == nil {
		return nil
	}
	end := c.StartDate.AddDate(0, 0, DefaultPeriodLength)
	return &end
}
