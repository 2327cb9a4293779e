package entity

import "time"

// Attachment 单据附件，文件本体存对象存储，这里只记元数据
type Attachment struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	FilePath    string    `json:"file_path" gorm:"size:500;not null"`
	FileSize    int64     `json:"file_size" gorm:"not null;default:0"`
	MimeType    string    `json:"mime_type" gorm:"size:128"`
	RelatedType string    `json:"related_type" gorm:"size:32;index:idx_attachment_related"`
	RelatedID   string    `json:"related_id" gorm:"size:64;index:idx_attachment_related"`
	UploadedBy  string    `json:"uploaded_by" gorm:"size:64;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Attachment) TableName() string {
	return "wms_attachments"
}
