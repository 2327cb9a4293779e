package repository

import (
	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(a *entity.Attachment) error {
	return r.db.Create(a).Error
}

func (r *AttachmentRepository) GetByID(id string) (*entity.Attachment, error) {
	var a entity.Attachment
	err := r.db.Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *AttachmentRepository) ListByRelated(relatedType, relatedID string) ([]entity.Attachment, error) {
	var attachments []entity.Attachment
	err := r.db.Where("related_type = ? AND related_id = ?", relatedType, relatedID).
		Order("created_at DESC").Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) Delete(id string) error {
	return r.db.Delete(&entity.Attachment{}, "id = ?", id).Error
}
