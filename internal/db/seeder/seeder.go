package seeder

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"messenger/internal/app/user"
)

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

func (s *Seeder) Seed() error {
	s.logger.Info("Running database seeders...")

	if err := s.seedUsers(); err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully")
	return nil
}

// seedUsers creates a couple of demo identities for local development.
func (s *Seeder) seedUsers() error {
	var count int64
	s.db.Model(&user.User{}).Count(&count)
	if count > 0 {
		s.logger.Info("Users already exist, skipping seed")
		return nil
	}

	repo := user.NewRepository(s.db)
	for _, username := range []string{"alice", "bob", "carol"} {
		if _, err := repo.Create(context.Background(), username); err != nil {
			return err
		}
	}

	s.logger.Info("Seeded demo users")
	return nil
}
