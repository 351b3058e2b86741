package library

import (
	"errors"

	"github.com/openshelf/librarium/internal/database/books"
	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
)

// IssueSpec describes a borrow or reservation request.
type IssueSpec struct {
	BookID     string
	BorrowerID string
	Type       entities.TransactionType
	FromDate   string
	ToDate     string
}

// TransactionPatch describes a partial transaction update. Status changes are
// not accepted here: the only legal transition, Active to Returned, carries
// availability bookkeeping and must go through ReturnTransaction.
type TransactionPatch struct {
	FromDate *string
	ToDate   *string
}

// IssueOrReserve creates a transaction for a book and borrower.
//
// Issue requires at least one available copy and decrements the counter.
// Reservation leaves the counter untouched; whether it may target a book
// with zero availability is configurable.
func (s *Service) IssueOrReserve(caller Caller, spec IssueSpec) (*entities.Transaction, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if spec.BookID == "" {
		return nil, NewValidationError("book_id is required")
	}
	if spec.BorrowerID == "" {
		return nil, NewValidationError("borrower_id is required")
	}
	if spec.Type != entities.TransactionTypeIssue && spec.Type != entities.TransactionTypeReservation {
		return nil, NewValidationError("transaction_type must be Issue or Reservation")
	}
	if !validDate(spec.FromDate) || !validDate(spec.ToDate) {
		return nil, NewValidationError("from_date and to_date must be YYYY-MM-DD")
	}

	book, err := s.books.GetByID(spec.BookID)
	if err != nil {
		return nil, mapStoreErr(err, "book not found")
	}
	borrower, err := s.users.GetByID(spec.BorrowerID)
	if err != nil {
		return nil, mapStoreErr(err, "borrower not found")
	}

	if book.BookCountAvailable == 0 {
		if spec.Type == entities.TransactionTypeIssue {
			return nil, NewConflictError("no copies available to issue")
		}
		if !s.reserveOnZero {
			return nil, NewConflictError("no copies available to reserve")
		}
	}

	id, err := s.id.New()
	if err != nil {
		return nil, NewInfraError("failed to generate id", err)
	}

	tx := &entities.Transaction{
		ID:         id,
		BookID:     book.ID,
		BorrowerID: borrower.ID,
		// Names are denormalized from the stored records, not taken from
		// the request, so history survives later renames.
		BookName:          book.BookName,
		BorrowerName:      borrower.UserFullName,
		TransactionType:   spec.Type,
		FromDate:          spec.FromDate,
		ToDate:            spec.ToDate,
		TransactionStatus: entities.TransactionStatusActive,
	}
	if err := s.transactions.Create(tx); err != nil {
		return nil, NewInfraError("failed to create transaction", err)
	}

	if spec.Type == entities.TransactionTypeIssue {
		// The decrement is guarded, so losing a race for the last copy
		// fails here rather than oversubscribing the book.
		if _, err := s.books.TakeCopy(book.ID); err != nil {
			_ = s.transactions.DeleteByID(tx.ID)
			if errors.Is(err, books.ErrNoCopies) {
				return nil, NewConflictError("no copies available to issue")
			}
			return nil, mapStoreErr(err, "book not found")
		}
	}

	if err := s.LinkTransactionToBook(tx.ID, book.ID); err != nil {
		return nil, err
	}
	if err := s.users.ArrayPush(borrower.ID, users.FieldActiveTransactions, tx.ID); err != nil {
		return nil, mapStoreErr(err, "borrower not found")
	}

	s.audit("transaction.created", tx)
	return tx, nil
}

// ReturnTransaction closes an active transaction: sets the return date, gives
// the copy back for an Issue, and migrates the reference from the borrower's
// active set to the previous set. A second return fails with a state error.
func (s *Service) ReturnTransaction(caller Caller, transactionID, returnDate string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if !validDate(returnDate) {
		return NewValidationError("return_date must be YYYY-MM-DD")
	}

	tx, err := s.transactions.GetByID(transactionID)
	if err != nil {
		return mapStoreErr(err, "transaction not found")
	}
	if tx.TransactionStatus == entities.TransactionStatusReturned {
		return NewStateError("transaction already returned")
	}

	err = s.transactions.UpdateByID(tx.ID, map[string]any{
		"transaction_status": entities.TransactionStatusReturned,
		"return_date":        returnDate,
	})
	if err != nil {
		return mapStoreErr(err, "transaction not found")
	}

	// The counter only moved on issue, so it only moves back on issue.
	if tx.TransactionType == entities.TransactionTypeIssue {
		if _, err := s.books.GiveBackCopy(tx.BookID); err != nil && !isRecordNotFound(err) {
			return NewInfraError("failed to restore availability", err)
		}
	}

	err = s.MoveUserTransaction(tx.BorrowerID, tx.ID, users.FieldActiveTransactions, users.FieldPrevTransactions)
	if err != nil && !IsNotFound(err) {
		return err
	}

	s.audit("transaction.returned", map[string]any{"id": tx.ID, "return_date": returnDate})
	return nil
}

// DeleteTransaction removes a transaction record and both inverse references:
// the book's transaction set and the borrower's active/previous sets.
func (s *Service) DeleteTransaction(caller Caller, transactionID string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	tx, err := s.transactions.GetByID(transactionID)
	if err != nil {
		return mapStoreErr(err, "transaction not found")
	}

	if err := s.transactions.DeleteByID(tx.ID); err != nil {
		return mapStoreErr(err, "transaction not found")
	}

	if err := s.UnlinkTransactionFromBook(tx.ID, tx.BookID); err != nil && !IsNotFound(err) {
		return err
	}
	for _, field := range []string{users.FieldActiveTransactions, users.FieldPrevTransactions} {
		err := s.users.ArrayPull(tx.BorrowerID, field, tx.ID)
		if err != nil && !isRecordNotFound(err) {
			return NewInfraError("failed to unlink transaction from borrower", err)
		}
	}

	s.audit("transaction.deleted", map[string]any{"id": tx.ID})
	return nil
}

// UpdateTransaction applies a whitelisted patch to the loan dates.
func (s *Service) UpdateTransaction(caller Caller, transactionID string, patch TransactionPatch) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	fields := map[string]any{}
	if patch.FromDate != nil {
		if !validDate(*patch.FromDate) {
			return NewValidationError("from_date must be YYYY-MM-DD")
		}
		fields["from_date"] = *patch.FromDate
	}
	if patch.ToDate != nil {
		if !validDate(*patch.ToDate) {
			return NewValidationError("to_date must be YYYY-MM-DD")
		}
		fields["to_date"] = *patch.ToDate
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.transactions.UpdateByID(transactionID, fields); err != nil {
		return mapStoreErr(err, "transaction not found")
	}

	s.audit("transaction.updated", map[string]any{"id": transactionID, "fields": fields})
	return nil
}

// GetTransaction retrieves a single transaction.
func (s *Service) GetTransaction(id string) (*entities.Transaction, error) {
	tx, err := s.transactions.GetByID(id)
	if err != nil {
		return nil, mapStoreErr(err, "transaction not found")
	}
	return tx, nil
}

// TransactionsForBorrower retrieves a borrower's history, newest first.
// Allowed for admins and for the borrower themselves.
func (s *Service) TransactionsForBorrower(caller Caller, borrowerID string) ([]entities.Transaction, error) {
	if err := requireAdminOrSelf(caller, borrowerID); err != nil {
		return nil, err
	}
	list, err := s.transactions.ForBorrower(borrowerID)
	if err != nil {
		return nil, NewInfraError("failed to list transactions", err)
	}
	return list, nil
}

// AllTransactions retrieves every transaction, newest first.
func (s *Service) AllTransactions() ([]entities.Transaction, error) {
	list, err := s.transactions.All()
	if err != nil {
		return nil, NewInfraError("failed to list transactions", err)
	}
	return list, nil
}
