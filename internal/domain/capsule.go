package domain

import (
	"context"
	"time"
)

// Capsule 归属用户的定时内容记录。Owner 永远取自登录态，不信任请求体。
type Capsule struct {
	ID      string   `gorm:"primaryKey;size:36" json:"id"`
	UserID  string   `gorm:"index;size:36;not null" json:"userId"`
	Title   string   `gorm:"size:255" json:"title"`
	Content string   `gorm:"type:text" json:"content"`
	Media   []string `gorm:"serializer:json" json:"media"`
	// 前端传什么就存什么，这里不做日期校验
	ReleaseDate string    `gorm:"size:64" json:"releaseDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Capsule) TableName() string { return "capsules" }

type CapsuleRepository interface {
	Create(ctx context.Context, c *Capsule) error
	FindByOwner(ctx context.Context, userID string) ([]Capsule, error)
}
