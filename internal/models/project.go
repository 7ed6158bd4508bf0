package models

import "time"

// Project groups tasks.
type Project struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate" gorm:"column:start_date"`
	EndDate     *time.Time `json:"endDate" gorm:"column:end_date"`
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "projects"
}
