package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	coreauth "github.com/SangramSaha/capsule/internal/core/auth"
	"github.com/SangramSaha/capsule/internal/domain"
	"github.com/SangramSaha/capsule/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type LoginResult struct {
	Token string       `json:"token"`
	IsNew bool         `json:"isNew"`
	User  *domain.User `json:"user"`
}

// Service 是最小可用的发号器：首次出现的邮箱自动注册，之后校验密码。
// 除了签出的 token 主体 id，系统其它部分不依赖这里的任何实现细节。
type Service struct {
	users domain.UserRepository
	jwter *coreauth.JWTer
}

func NewService(users domain.UserRepository, jwter *coreauth.JWTer) *Service {
	return &Service{users: users, jwter: jwter}
}

func (s *Service) Login(ctx context.Context, email, password, name string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if u == nil {
		// 自动注册
		if name = strings.TrimSpace(name); name == "" {
			if at := strings.IndexByte(email, '@'); at > 0 {
				name = email[:at]
			} else {
				name = "user"
			}
		}
		u = &domain.User{
			ID:           uuid.NewString(),
			Email:        email,
			Name:         name,
			PasswordHash: utils.HashPassword(password),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
		tok, err := s.jwter.Issue(u.ID)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: tok, IsNew: true, User: u}, nil
	}

	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	tok, err := s.jwter.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, IsNew: false, User: u}, nil
}
