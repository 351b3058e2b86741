// Package categories provides database operations for book categories.
package categories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/librarium/internal/entities"
)

// FieldBooks is the only array-valued field on a category.
const FieldBooks = "books"

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a category by its ID.
func (r *Repository) GetByID(id string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByName retrieves a category by its unique name.
func (r *Repository) GetByName(name string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Where("category_name = ?", name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// All retrieves every category.
func (r *Repository) All() ([]entities.Category, error) {
	var cats []entities.Category
	err := r.db.Order("created_at DESC").Find(&cats).Error
	return cats, err
}

// Create persists a new category.
func (r *Repository) Create(category *entities.Category) error {
	return r.db.Create(category).Error
}

// ArrayPush appends value to the book set with set semantics.
func (r *Repository) ArrayPush(id, field, value string) error {
	return r.mutateSet(id, field, func(s entities.StringList) entities.StringList {
		return s.Add(value)
	})
}

// ArrayPull removes value from the book set.
func (r *Repository) ArrayPull(id, field, value string) error {
	return r.mutateSet(id, field, func(s entities.StringList) entities.StringList {
		return s.Remove(value)
	})
}

// DeleteByID removes a category record.
func (r *Repository) DeleteByID(id string) error {
	result := r.db.Delete(&entities.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) mutateSet(id, field string, mutate func(entities.StringList) entities.StringList) error {
	if field != FieldBooks {
		return fmt.Errorf("categories: unknown array field %q", field)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var category entities.Category
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&category).Update(field, mutate(category.Books)).Error
	})
}
