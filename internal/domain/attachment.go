package domain

import "time"

// Attachment is an uploaded file, optionally linked to a submission
type Attachment struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubmissionID *uint64   `gorm:"column:submission_id;index" json:"submission_id,omitempty"`
	UploaderID   uint64    `gorm:"column:uploader_id;index;not null" json:"uploader_id"`
	StorageKey   string    `gorm:"column:storage_key;size:500;not null" json:"-"`
	URL          string    `gorm:"column:url;size:1000;not null" json:"url"`
	FileName     string    `gorm:"column:file_name;size:255" json:"file_name"`
	ContentType  string    `gorm:"column:content_type;size:100" json:"content_type"`
	Size         int64     `gorm:"column:size" json:"size"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (Attachment) TableName() string {
	return "content_attachments"
}

// LinkAttachmentsRequest links uploaded files to a draft
type LinkAttachmentsRequest struct {
	SubmissionID  uint64   `json:"submission_id" validate:"required"`
	AttachmentIDs []uint64 `json:"attachment_ids" validate:"required,min=1,max=50"`
}
