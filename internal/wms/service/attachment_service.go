package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/bitfantasy/nimo-wms/internal/wms/entity"
	"github.com/bitfantasy/nimo-wms/internal/wms/repository"
)

// AttachmentService 单据附件。文件本体走对象存储，元数据落库
type AttachmentService struct {
	repo        *repository.AttachmentRepository
	minioClient *minio.Client
	bucketName  string
}

func NewAttachmentService(repo *repository.AttachmentRepository, minioClient *minio.Client, bucketName string) *AttachmentService {
	return &AttachmentService{repo: repo, minioClient: minioClient, bucketName: bucketName}
}

// Upload 上传附件并登记元数据
func (s *AttachmentService) Upload(ctx context.Context, relatedType, relatedID, operator string,
	reader io.Reader, fileName string, fileSize int64, contentType string) (*entity.Attachment, error) {

	objectName := fmt.Sprintf("attachments/%s/%s%s",
		time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	if s.minioClient != nil {
		_, err := s.minioClient.PutObject(ctx, s.bucketName, objectName, reader, fileSize, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return nil, fmt.Errorf("上传文件失败: %w", err)
		}
	}

	a := &entity.Attachment{
		ID:          uuid.New().String(),
		FileName:    fileName,
		FilePath:    objectName,
		FileSize:    fileSize,
		MimeType:    contentType,
		RelatedType: relatedType,
		RelatedID:   relatedID,
		UploadedBy:  operator,
	}
	if err := s.repo.Create(a); err != nil {
		return nil, fmt.Errorf("记录附件失败: %w", err)
	}
	return a, nil
}

// Download 返回附件内容流，调用方负责关闭
func (s *AttachmentService) Download(ctx context.Context, id string) (*entity.Attachment, io.ReadCloser, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, fmt.Errorf("附件不存在: %w", err)
	}
	if s.minioClient == nil {
		return nil, nil, fmt.Errorf("对象存储未配置")
	}
	object, err := s.minioClient.GetObject(ctx, s.bucketName, a.FilePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("读取文件失败: %w", err)
	}
	return a, object, nil
}

func (s *AttachmentService) ListByRelated(relatedType, relatedID string) ([]entity.Attachment, error) {
	return s.repo.ListByRelated(relatedType, relatedID)
}

func (s *AttachmentService) Delete(ctx context.Context, id string) error {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("附件不存在: %w", err)
	}
	if s.minioClient != nil {
		if err := s.minioClient.RemoveObject(ctx, s.bucketName, a.FilePath, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("删除文件失败: %w", err)
		}
	}
	return s.repo.Delete(id)
}
