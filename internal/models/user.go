package models

// User represents a user in the system
type User struct {
	ID                uint    `json:"userId" gorm:"primaryKey"`
	Username          string  `json:"username" gorm:"unique;not null"`
	Password          string  `json:"-" gorm:"not null"`
	ProfilePictureURL *string `json:"profilePictureUrl" gorm:"column:profile_picture_url"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
