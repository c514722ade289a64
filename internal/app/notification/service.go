package notification

import (
	"context"

	"messenger/internal/app/message"
)

type Service interface {
	ListForUser(ctx context.Context, userID uint64) ([]*message.Notification, error)
	MarkRead(ctx context.Context, userID uint64, ids []uint64) (int64, error)
	UnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListForUser(ctx context.Context, userID uint64) ([]*message.Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, userID uint64, ids []uint64) (int64, error) {
	return s.repo.MarkRead(ctx, userID, ids)
}

func (s *service) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}
