package models

import "time"

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

type Article struct {
	ID          uint `gorm:"primaryKey"`
	Title       string
	Content     string `gorm:"type:text"`
	CategoryID  *uint
	Category    *Category
	VoteCount   int       `gorm:"not null;default:0"`
	PublishedAt time.Time `gorm:"index;not null"`
}
