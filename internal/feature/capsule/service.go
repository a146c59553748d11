package capsule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SangramSaha/capsule/internal/core/cache"
	"github.com/SangramSaha/capsule/internal/domain"
)

type CreateInput struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Media       []string `json:"media"`
	ReleaseDate string   `json:"releaseDate"`
}

type Service struct {
	repo   domain.CapsuleRepository
	cache  cache.ByteLoader
	prefix string
	ttl    time.Duration
}

func NewService(repo domain.CapsuleRepository, c cache.ByteLoader, prefix string, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: c, prefix: prefix, ttl: ttl}
}

// Create 入参原样入库，owner 只来自登录态。
// 注意：不写缓存也不失效，列表在 TTL 内可能读到旧快照。
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) error {
	return s.repo.Create(ctx, &domain.Capsule{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Content:     in.Content,
		Media:       in.Media,
		ReleaseDate: in.ReleaseDate,
	})
}

// List 旁路缓存：命中直接返回快照，miss 回源并按固定 TTL 写回
func (s *Service) List(ctx context.Context, userID string) ([]domain.Capsule, error) {
	key := s.prefix + userID
	return cache.GetOrLoadJSON(s.cache, ctx, key, s.ttl, func(ctx context.Context) ([]domain.Capsule, error) {
		return s.repo.FindByOwner(ctx, userID)
	})
}
