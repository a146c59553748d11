package upload

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/google/uuid"
)

type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	URL(key string) string
}

type LabelDetector interface {
	DetectLabels(ctx context.Context, image []byte, maxLabels int) ([]string, error)
}

type Result struct {
	FileURL        string   `json:"fileUrl"`
	DetectedLabels []string `json:"detectedLabels"`
}

// Service 顺序执行：先传对象存储，再打标签。任一步失败整个请求失败，
// 已上传的对象不回滚（可能留下孤儿对象）。
type Service struct {
	store     ObjectStore
	detector  LabelDetector
	maxLabels int
}

func NewService(store ObjectStore, detector LabelDetector, maxLabels int) *Service {
	return &Service{store: store, detector: detector, maxLabels: maxLabels}
}

func (s *Service) Upload(ctx context.Context, filename, contentType string, data []byte) (*Result, error) {
	// 扩展名直接取自客户端文件名，不校验真实内容
	key := uuid.NewString() + path.Ext(filename)

	if err := s.store.Put(ctx, key, contentType, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	labels, err := s.detector.DetectLabels(ctx, data, s.maxLabels)
	if err != nil {
		return nil, err
	}
	return &Result{FileURL: s.store.URL(key), DetectedLabels: labels}, nil
}
