package library

import (
	"fmt"

	"github.com/openshelf/librarium/internal/database"
	"github.com/openshelf/librarium/internal/database/books"
	"github.com/openshelf/librarium/internal/database/categories"
	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
)

// BookSpec describes a book to create.
type BookSpec struct {
	BookName           string
	AlternateTitle     string
	Author             string
	Language           string
	Publisher          string
	BookCountAvailable int
	Categories         []string
}

// BookPatch describes a partial book update. Nil fields are left untouched.
type BookPatch struct {
	BookName           *string
	AlternateTitle     *string
	Author             *string
	Language           *string
	Publisher          *string
	BookCountAvailable *int
	Categories         *[]string
}

func statusForCount(count int) entities.BookStatus {
	if count == 0 {
		return entities.BookStatusUnavailable
	}
	return entities.BookStatusAvailable
}

// CreateBook persists a new book and appends its ID to the book set of every
// referenced category. Each category must already exist.
func (s *Service) CreateBook(caller Caller, spec BookSpec) (*entities.Book, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if spec.BookName == "" {
		return nil, NewValidationError("book_name is required")
	}
	if spec.Author == "" {
		return nil, NewValidationError("author is required")
	}
	if spec.BookCountAvailable < 0 {
		return nil, NewValidationError("book_count_available must not be negative")
	}

	// Verify every referenced category before writing anything.
	for _, catID := range spec.Categories {
		if _, err := s.categories.GetByID(catID); err != nil {
			return nil, mapStoreErr(err, fmt.Sprintf("category %s not found", catID))
		}
	}

	id, err := s.id.New()
	if err != nil {
		return nil, NewInfraError("failed to generate id", err)
	}

	book := &entities.Book{
		ID:                 id,
		BookName:           spec.BookName,
		AlternateTitle:     spec.AlternateTitle,
		Author:             spec.Author,
		Language:           spec.Language,
		Publisher:          spec.Publisher,
		BookCountAvailable: spec.BookCountAvailable,
		BookStatus:         statusForCount(spec.BookCountAvailable),
		Categories:         entities.StringList(spec.Categories),
		Transactions:       entities.StringList{},
	}

	if err := s.books.Create(book); err != nil {
		return nil, NewInfraError("failed to create book", err)
	}

	// Inverse side of the book↔category reference.
	for _, catID := range spec.Categories {
		if err := s.categories.ArrayPush(catID, categories.FieldBooks, book.ID); err != nil {
			return nil, NewInfraError("failed to link book to category", err)
		}
	}

	s.audit("book.created", book)
	return book, nil
}

// UpdateBook applies a whitelisted patch. When the category set changes, the
// inverse references are updated on both the removed and the added side.
func (s *Service) UpdateBook(caller Caller, id string, patch BookPatch) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	book, err := s.books.GetByID(id)
	if err != nil {
		return mapStoreErr(err, "book not found")
	}

	fields := map[string]any{}
	if patch.BookName != nil {
		if *patch.BookName == "" {
			return NewValidationError("book_name must not be empty")
		}
		fields["book_name"] = *patch.BookName
	}
	if patch.AlternateTitle != nil {
		fields["alternate_title"] = *patch.AlternateTitle
	}
	if patch.Author != nil {
		if *patch.Author == "" {
			return NewValidationError("author must not be empty")
		}
		fields["author"] = *patch.Author
	}
	if patch.Language != nil {
		fields["language"] = *patch.Language
	}
	if patch.Publisher != nil {
		fields["publisher"] = *patch.Publisher
	}
	if patch.BookCountAvailable != nil {
		if *patch.BookCountAvailable < 0 {
			return NewValidationError("book_count_available must not be negative")
		}
		fields["book_count_available"] = *patch.BookCountAvailable
		fields["book_status"] = statusForCount(*patch.BookCountAvailable)
	}

	if patch.Categories != nil {
		next := entities.StringList(*patch.Categories)
		for _, catID := range next {
			if !book.Categories.Contains(catID) {
				if _, err := s.categories.GetByID(catID); err != nil {
					return mapStoreErr(err, fmt.Sprintf("category %s not found", catID))
				}
			}
		}
		for _, catID := range book.Categories {
			if !next.Contains(catID) {
				if err := s.categories.ArrayPull(catID, categories.FieldBooks, book.ID); err != nil {
					return NewInfraError("failed to unlink book from category", err)
				}
			}
		}
		for _, catID := range next {
			if !book.Categories.Contains(catID) {
				if err := s.categories.ArrayPush(catID, categories.FieldBooks, book.ID); err != nil {
					return NewInfraError("failed to link book to category", err)
				}
			}
		}
		fields["categories"] = next
	}

	if len(fields) == 0 {
		return nil
	}
	if err := s.books.UpdateByID(id, fields); err != nil {
		return mapStoreErr(err, "book not found")
	}

	s.audit("book.updated", map[string]any{"id": id, "fields": fields})
	return nil
}

// DeleteBook removes a book and its ID from every referencing category.
func (s *Service) DeleteBook(caller Caller, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	book, err := s.books.GetByID(id)
	if err != nil {
		return mapStoreErr(err, "book not found")
	}

	for _, catID := range book.Categories {
		err := s.categories.ArrayPull(catID, categories.FieldBooks, book.ID)
		if err != nil && !isRecordNotFound(err) {
			return NewInfraError("failed to unlink book from category", err)
		}
	}

	if err := s.books.DeleteByID(id); err != nil {
		return mapStoreErr(err, "book not found")
	}

	s.audit("book.deleted", map[string]any{"id": id})
	return nil
}

// GetBook retrieves a single book.
func (s *Service) GetBook(id string) (*entities.Book, error) {
	book, err := s.books.GetByID(id)
	if err != nil {
		return nil, mapStoreErr(err, "book not found")
	}
	return book, nil
}

// AllBooks retrieves every book, newest first.
func (s *Service) AllBooks() ([]entities.Book, error) {
	list, err := s.books.All()
	if err != nil {
		return nil, NewInfraError("failed to list books", err)
	}
	return list, nil
}

// BooksByCategory resolves a category name to its member books.
func (s *Service) BooksByCategory(name string) ([]entities.Book, error) {
	cat, err := s.categories.GetByName(name)
	if err != nil {
		return nil, mapStoreErr(err, fmt.Sprintf("category %q not found", name))
	}

	list := make([]entities.Book, 0, len(cat.Books))
	for _, bookID := range cat.Books {
		book, err := s.books.GetByID(bookID)
		if err != nil {
			// Dangling reference, repaired by Reconcile. Skip here.
			continue
		}
		list = append(list, *book)
	}
	return list, nil
}

// AddCategory creates a category with a unique name.
func (s *Service) AddCategory(caller Caller, name string) (*entities.Category, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, NewValidationError("category_name is required")
	}

	if _, err := s.categories.GetByName(name); err == nil {
		return nil, NewConflictError(fmt.Sprintf("category %q already exists", name))
	}

	id, err := s.id.New()
	if err != nil {
		return nil, NewInfraError("failed to generate id", err)
	}

	cat := &entities.Category{
		ID:           id,
		CategoryName: name,
		Books:        entities.StringList{},
	}
	if err := s.categories.Create(cat); err != nil {
		// Lost a naming race after the existence check.
		if database.IsUniqueViolation(err) {
			return nil, NewConflictError(fmt.Sprintf("category %q already exists", name))
		}
		return nil, NewInfraError("failed to create category", err)
	}

	s.audit("category.created", cat)
	return cat, nil
}

// DeleteCategory removes a category and its ID from every member book.
func (s *Service) DeleteCategory(caller Caller, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	cat, err := s.categories.GetByID(id)
	if err != nil {
		return mapStoreErr(err, "category not found")
	}

	for _, bookID := range cat.Books {
		err := s.books.ArrayPull(bookID, books.FieldCategories, cat.ID)
		if err != nil && !isRecordNotFound(err) {
			return NewInfraError("failed to unlink category from book", err)
		}
	}

	if err := s.categories.DeleteByID(id); err != nil {
		return mapStoreErr(err, "category not found")
	}

	s.audit("category.deleted", map[string]any{"id": id})
	return nil
}

// AllCategories retrieves every category.
func (s *Service) AllCategories() ([]entities.Category, error) {
	list, err := s.categories.All()
	if err != nil {
		return nil, NewInfraError("failed to list categories", err)
	}
	return list, nil
}

// LinkTransactionToBook appends the transaction ID to the book's transaction
// set. Called once per transaction creation.
func (s *Service) LinkTransactionToBook(transactionID, bookID string) error {
	if err := s.books.ArrayPush(bookID, books.FieldTransactions, transactionID); err != nil {
		return mapStoreErr(err, "book not found")
	}
	return nil
}

// UnlinkTransactionFromBook removes the transaction ID from the book's
// transaction set. Called on transaction deletion.
func (s *Service) UnlinkTransactionFromBook(transactionID, bookID string) error {
	if err := s.books.ArrayPull(bookID, books.FieldTransactions, transactionID); err != nil {
		return mapStoreErr(err, "book not found")
	}
	return nil
}

// MoveUserTransaction removes the transaction ID from one of the user's
// transaction sets and appends it to the other. Used with
// (active, prev) on return and (prev, active) never; adding a fresh
// transaction pushes directly into the active set.
func (s *Service) MoveUserTransaction(userID, transactionID, fromField, toField string) error {
	if !isUserTransactionField(fromField) || !isUserTransactionField(toField) {
		return NewValidationError("unknown user transaction set")
	}
	if err := s.users.ArrayPull(userID, fromField, transactionID); err != nil {
		return mapStoreErr(err, "user not found")
	}
	if err := s.users.ArrayPush(userID, toField, transactionID); err != nil {
		return mapStoreErr(err, "user not found")
	}
	return nil
}

func isUserTransactionField(field string) bool {
	return field == users.FieldActiveTransactions || field == users.FieldPrevTransactions
}
