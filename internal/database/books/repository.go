// Package books provides database operations for the book catalog.
//
// Reference sets (categories, transactions) are mutated through ArrayPush and
// ArrayPull, which emulate the store's atomic single-document append/remove:
// each call reads and rewrites one column inside a transaction.
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/librarium/internal/entities"
)

// Array-valued fields accepted by ArrayPush and ArrayPull.
const (
	FieldCategories   = "categories"
	FieldTransactions = "transactions"
)

// ErrNoCopies is returned by TakeCopy when the availability counter is
// already zero.
var ErrNoCopies = errors.New("books: no copies available")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a book by its ID.
func (r *Repository) GetByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// All retrieves every book, newest first.
func (r *Repository) All() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("created_at DESC").Find(&books).Error
	return books, err
}

// Create persists a new book.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// UpdateByID applies a field patch to a book.
func (r *Repository) UpdateByID(id string, fields map[string]any) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TakeCopy claims one available copy. The decrement is guarded so concurrent
// claims cannot drive the counter below zero; the status column is kept in
// step within the same transaction. Returns the book after the claim.
func (r *Repository) TakeCopy(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{}).
			Where("id = ? AND book_count_available > 0", id).
			Update("book_count_available", gorm.Expr("book_count_available - 1"))
		if result.Error != nil {
			return result.Error
		}
		if err := tx.First(&book, "id = ?", id).Error; err != nil {
			return err
		}
		if result.RowsAffected == 0 {
			return ErrNoCopies
		}
		return syncStatus(tx, &book)
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GiveBackCopy releases one copy back to the pool and returns the book after
// the increment.
func (r *Repository) GiveBackCopy(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{}).
			Where("id = ?", id).
			Update("book_count_available", gorm.Expr("book_count_available + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.First(&book, "id = ?", id).Error; err != nil {
			return err
		}
		return syncStatus(tx, &book)
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func syncStatus(tx *gorm.DB, book *entities.Book) error {
	status := entities.BookStatusAvailable
	if book.BookCountAvailable == 0 {
		status = entities.BookStatusUnavailable
	}
	if book.BookStatus == status {
		return nil
	}
	book.BookStatus = status
	return tx.Model(book).Update("book_status", status).Error
}

// ArrayPush appends value to an array field with set semantics.
func (r *Repository) ArrayPush(id, field, value string) error {
	return r.mutateSet(id, field, func(s entities.StringList) entities.StringList {
		return s.Add(value)
	})
}

// ArrayPull removes value from an array field.
func (r *Repository) ArrayPull(id, field, value string) error {
	return r.mutateSet(id, field, func(s entities.StringList) entities.StringList {
		return s.Remove(value)
	})
}

// DeleteByID removes a book record.
func (r *Repository) DeleteByID(id string) error {
	result := r.db.Delete(&entities.Book{}, "id = ?", id)
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
		var book entities.Book
		if err := tx.First(&book, "id = ?", id).Error; err != nil {
			return err
		}

		var current entities.StringList
		switch field {
		case FieldCategories:
			current = book.Categories
		case FieldTransactions:
			current = book.Transactions
		default:
			return fmt.Errorf("books: unknown array field %q", field)
		}

		return tx.Model(&book).Update(field, mutate(current)).Error
	})
}
