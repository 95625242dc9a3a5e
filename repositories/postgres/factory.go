package postgres

import (
	"context"

	"github.com/Ritu-90/c25077715-cmt120-cw2/config"
	"github.com/Ritu-90/c25077715-cmt120-cw2/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages all repositories
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return &RepositoryFactory{db: db, logger: logger}, nil
}

// NewRepositoryFactoryFromDB builds a factory over an existing pool
func NewRepositoryFactoryFromDB(db *DB, logger *zap.Logger) *RepositoryFactory {
	return &RepositoryFactory{db: db, logger: logger}
}

// InitSchema creates the tables when they do not exist
func (f *RepositoryFactory) InitSchema(ctx context.Context) error {
	return f.db.InitSchema(ctx)
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:           NewUserRepository(f.db, f.logger),
		About:           NewAboutRepository(f.db, f.logger),
		SocialLinks:     NewSocialLinkRepository(f.db, f.logger),
		Education:       NewEducationRepository(f.db, f.logger),
		Experience:      NewExperienceRepository(f.db, f.logger),
		Skills:          NewSkillRepository(f.db, f.logger),
		Projects:        NewProjectRepository(f.db, f.logger),
		ProjectComments: NewProjectCommentRepository(f.db, f.logger),
		ProjectRatings:  NewProjectRatingRepository(f.db, f.logger),
		Messages:        NewContactMessageRepository(f.db, f.logger),
	}
}

// GetTransactionManager returns a transaction manager
func (f *RepositoryFactory) GetTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db, f.logger)
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
