package models

// Comment is a note left by a user on a task.
type Comment struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Text   string `json:"text" gorm:"not null"`
	TaskID uint   `json:"taskId" gorm:"column:task_id;not null;index"`
	UserID uint   `json:"userId" gorm:"column:user_id;not null"`
	User   *User  `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (Comment) TableName() string {
	return "comments"
}
