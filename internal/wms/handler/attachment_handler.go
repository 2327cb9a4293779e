package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-wms/internal/wms/service"
)

type AttachmentHandler struct {
	svc *service.AttachmentService
}

func NewAttachmentHandler(svc *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// Upload 上传单据附件，表单字段 file / related_type / related_id
func (h *AttachmentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "缺少上传文件: " + err.Error()})
		return
	}
	defer file.Close()

	relatedType := c.PostForm("related_type")
	relatedID := c.PostForm("related_id")
	if relatedType == "" || relatedID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "related_type 和 related_id 不能为空"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.svc.Upload(c.Request.Context(), relatedType, relatedID, operator(c),
		file, header.Filename, header.Size, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": attachment})
}

func (h *AttachmentHandler) Download(c *gin.Context) {
	attachment, reader, err := h.svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", "attachment; filename="+attachment.FileName)
	c.Header("Content-Type", attachment.MimeType)
	c.Header("Content-Length", strconv.FormatInt(attachment.FileSize, 10))

	io.Copy(c.Writer, reader)
}

func (h *AttachmentHandler) ListByRelated(c *gin.Context) {
	relatedType := c.Query("related_type")
	relatedID := c.Query("related_id")
	if relatedType == "" || relatedID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "related_type 和 related_id 不能为空"})
		return
	}
	attachments, err := h.svc.ListByRelated(relatedType, relatedID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": attachments})
}

func (h *AttachmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}
