package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SangramSaha/capsule/internal/feature/upload"
	resp "github.com/SangramSaha/capsule/internal/transport/http/response"
)

type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (*upload.Result, error)
}

type UploadHandler struct {
	svc Uploader
}

func NewUploadHandler(svc Uploader) *UploadHandler { return &UploadHandler{svc: svc} }

// Upload POST /api/upload：multipart 里必须有且只取名为 file 的文件
func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "No file uploaded", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		resp.Fail(c, http.StatusInternalServerError, "Upload failed", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		resp.Fail(c, http.StatusInternalServerError, "Upload failed", err)
		return
	}

	out, err := h.svc.Upload(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		// 存储或打标签任一步出错都归为同一种失败，错误原文透传
		resp.Fail(c, http.StatusInternalServerError, "Upload failed", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
