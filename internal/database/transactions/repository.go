// Package transactions provides database operations for borrow transactions.
package transactions

import (
	"gorm.io/gorm"

	"github.com/openshelf/librarium/internal/entities"
)

// Repository handles all transaction database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new transactions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a transaction by its ID.
func (r *Repository) GetByID(id string) (*entities.Transaction, error) {
	var tx entities.Transaction
	err := r.db.First(&tx, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// All retrieves every transaction, newest first.
func (r *Repository) All() ([]entities.Transaction, error) {
	var list []entities.Transaction
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}

// ForBorrower retrieves every transaction for a borrower, newest first.
func (r *Repository) ForBorrower(borrowerID string) ([]entities.Transaction, error) {
	var list []entities.Transaction
	err := r.db.Where("borrower_id = ?", borrowerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// Create persists a new transaction.
func (r *Repository) Create(tx *entities.Transaction) error {
	return r.db.Create(tx).Error
}

// UpdateByID applies a field patch to a transaction.
func (r *Repository) UpdateByID(id string, fields map[string]any) error {
	result := r.db.Model(&entities.Transaction{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByID removes a transaction record.
func (r *Repository) DeleteByID(id string) error {
	result := r.db.Delete(&entities.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
