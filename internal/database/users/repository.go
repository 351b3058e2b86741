// Package users provides database operations for library members.
package users

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/librarium/internal/entities"
)

// Array-valued fields accepted by ArrayPush and ArrayPull.
const (
	FieldActiveTransactions = "active_transactions"
	FieldPrevTransactions   = "prev_transactions"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a user by their ID.
func (r *Repository) GetByID(id string) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their unique email.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByAdmissionID retrieves a student by admission ID.
func (r *Repository) GetByAdmissionID(admissionID string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("admission_id = ?", admissionID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmployeeID retrieves a staff member by employee ID.
func (r *Repository) GetByEmployeeID(employeeID string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("employee_id = ?", employeeID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByFullName retrieves a user by their unique full name.
func (r *Repository) GetByFullName(fullName string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("user_full_name = ?", fullName).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// All retrieves every member, newest first.
func (r *Repository) All() ([]entities.User, error) {
	var list []entities.User
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}

// Create persists a new user.
func (r *Repository) Create(user *entities.User) error {
	return r.db.Create(user).Error
}

// UpdateByID applies a field patch to a user.
func (r *Repository) UpdateByID(id string, fields map[string]any) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ArrayPush appends value to a transaction set with set semantics.
func (r *Repository) ArrayPush(id, field, value string) error {
	return r.mutateSet(id, field, func(s entities.StringList) entities.StringList {
		return s.Add(value)
	})
}

// ArrayPull removes value from a transaction set.
func (r *Repository) ArrayPull(id, field, value string) error {
	return r.mutateSet(id, field, func(s entities.StringList) entities.StringList {
		return s.Remove(value)
	})
}

// DeleteByID removes a user record.
func (r *Repository) DeleteByID(id string) error {
	result := r.db.Delete(&entities.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) mutateSet(id, field string, mutate func(entities.StringList) entities.StringList) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}

		var current entities.StringList
		switch field {
		case FieldActiveTransactions:
			current = user.ActiveTransactions
		case FieldPrevTransactions:
			current = user.PrevTransactions
		default:
			return fmt.Errorf("users: unknown array field %q", field)
		}

		return tx.Model(&user).Update(field, mutate(current)).Error
	})
}
