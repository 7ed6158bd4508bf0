package models

// Attachment is a file linked to a task.
type Attachment struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	FileURL      string  `json:"fileURL" gorm:"column:file_url;not null"`
	FileName     *string `json:"fileName" gorm:"column:file_name"`
	TaskID       uint    `json:"taskId" gorm:"column:task_id;not null;index"`
	UploadedByID uint    `json:"uploadedById" gorm:"column:uploaded_by_id;not null"`
	UploadedBy   *User   `json:"-" gorm:"foreignKey:UploadedByID;references:ID"`
}

func (Attachment) TableName() string {
	return "attachments"
}
