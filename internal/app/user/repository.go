package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"messenger/internal/apperrors"
)

type Repository interface {
	GetUserByID(ctx context.Context, id uint64) (*User, error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	Create(ctx context.Context, username string) (*User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetUserByID(ctx context.Context, id uint64) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return &u, nil
}

func (r *repository) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return count > 0, nil
}

func (r *repository) Create(ctx context.Context, username string) (*User, error) {
	u := &User{Username: username}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return u, nil
}
