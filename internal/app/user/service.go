package user

import "context"

type Service interface {
	GetUserByID(ctx context.Context, id uint64) (*User, error)
	Exists(ctx context.Context, id uint64) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetUserByID(ctx context.Context, id uint64) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) Exists(ctx context.Context, id uint64) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}
