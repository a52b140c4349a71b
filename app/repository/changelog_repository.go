package repository

import (
	"github.com/CmdDeckHQ/cmddeck-web/app/models"
	"gorm.io/gorm"
)

// changelogRepository implements the ChangelogRepository interface
type changelogRepository struct {
	db *gorm.DB
}

// NewChangelogRepository creates a new changelog repository instance
func NewChangelogRepository(db *gorm.DB) ChangelogRepository {
	return &changelogRepository{db: db}
}

// Create creates a new changelog entry in the database
func (r *changelogRepository) Create(entry *models.Changelog) error {
	return r.db.Create(entry).Error
}

// GetByID retrieves a changelog entry by its ID
func (r *changelogRepository) GetByID(id uint64) (*models.Changelog, error) {
	var entry models.Changelog
	err := r.db.First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetByVersion retrieves a changelog entry by its version string
func (r *changelogRepository) GetByVersion(version string) (*models.Changelog, error) {
	var entry models.Changelog
	err := r.db.Where("version = ?", version).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetPublished retrieves published changelog entries, newest release first
func (r *changelogRepository) GetPublished(offset, limit int) ([]models.Changelog, error) {
	var entries []models.Changelog
	err := r.db.Where("published = ?", true).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

// GetAll retrieves all changelog entries with pagination
func (r *changelogRepository) GetAll(offset, limit int) ([]models.Changelog, error) {
	var entries []models.Changelog
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

// Update updates an existing changelog entry in the database
func (r *changelogRepository) Update(entry *models.Changelog) error {
	return r.db.Save(entry).Error
}

// Delete soft deletes a changelog entry by its ID
func (r *changelogRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Changelog{}, id).Error
}

// Count returns the total number of changelog entries
func (r *changelogRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Changelog{}).Count(&count).Error
	return count, err
}
