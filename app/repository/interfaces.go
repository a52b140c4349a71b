package repository

import (
	"github.com/CmdDeckHQ/cmddeck-web/app/models"
	"gorm.io/gorm"
)

// ChangelogRepository defines the interface for changelog-related database operations
type ChangelogRepository interface {
	Create(entry *models.Changelog) error
	GetByID(id uint64) (*models.Changelog, error)
	GetByVersion(version string) (*models.Changelog, error)
	GetPublished(offset, limit int) ([]models.Changelog, error)
	GetAll(offset, limit int) ([]models.Changelog, error)
	Update(entry *models.Changelog) error
	Delete(id uint64) error
	Count() (int64, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Changelog ChangelogRepository
}

// NewRepositories creates all repositories from a DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Changelog: NewChangelogRepository(db),
	}
}
