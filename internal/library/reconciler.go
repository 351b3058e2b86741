package library

import (
	"log"

	"github.com/openshelf/librarium/internal/database/books"
	"github.com/openshelf/librarium/internal/database/categories"
	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
)

// ReconcileReport counts the repairs a reconciliation sweep performed.
type ReconcileReport struct {
	CategoryLinksRepaired    int `json:"category_links_repaired"`
	TransactionLinksRepaired int `json:"transaction_links_repaired"`
	UserSetsRepaired         int `json:"user_sets_repaired"`
	StatusesCorrected        int `json:"statuses_corrected"`
}

func (r ReconcileReport) Total() int {
	return r.CategoryLinksRepaired + r.TransactionLinksRepaired + r.UserSetsRepaired + r.StatusesCorrected
}

// Reconcile sweeps all entities and repairs one-sided references left behind
// by a crash or a conflicting concurrent request between the two halves of a
// bidirectional edit. The sweep is idempotent: a second run right after a
// clean one repairs nothing.
//
// The book document is authoritative for category membership, the
// transaction record for lifecycle state.
func (s *Service) Reconcile(caller Caller) (ReconcileReport, error) {
	var report ReconcileReport
	if err := requireAdmin(caller); err != nil {
		return report, err
	}

	allBooks, err := s.books.All()
	if err != nil {
		return report, NewInfraError("failed to list books", err)
	}
	allCategories, err := s.categories.All()
	if err != nil {
		return report, NewInfraError("failed to list categories", err)
	}
	allTransactions, err := s.transactions.All()
	if err != nil {
		return report, NewInfraError("failed to list transactions", err)
	}
	allUsers, err := s.users.All()
	if err != nil {
		return report, NewInfraError("failed to list members", err)
	}

	bookByID := make(map[string]*entities.Book, len(allBooks))
	for i := range allBooks {
		bookByID[allBooks[i].ID] = &allBooks[i]
	}
	categoryByID := make(map[string]*entities.Category, len(allCategories))
	for i := range allCategories {
		categoryByID[allCategories[i].ID] = &allCategories[i]
	}
	transactionByID := make(map[string]*entities.Transaction, len(allTransactions))
	for i := range allTransactions {
		transactionByID[allTransactions[i].ID] = &allTransactions[i]
	}

	// Book→category edges: drop dangling references, restore missing
	// inverse references.
	for _, book := range allBooks {
		for _, catID := range book.Categories {
			cat, ok := categoryByID[catID]
			if !ok {
				if err := s.books.ArrayPull(book.ID, books.FieldCategories, catID); err == nil {
					report.CategoryLinksRepaired++
				}
				continue
			}
			if !cat.Books.Contains(book.ID) {
				if err := s.categories.ArrayPush(catID, categories.FieldBooks, book.ID); err == nil {
					report.CategoryLinksRepaired++
				}
			}
		}
	}

	// Category→book edges without a book-side counterpart are removed.
	for _, cat := range allCategories {
		for _, bookID := range cat.Books {
			book, ok := bookByID[bookID]
			if !ok || !book.Categories.Contains(cat.ID) {
				if err := s.categories.ArrayPull(cat.ID, categories.FieldBooks, bookID); err == nil {
					report.CategoryLinksRepaired++
				}
			}
		}
	}

	// Book→transaction edges: prune deleted transactions, restore links
	// for transactions whose book side is missing.
	for _, book := range allBooks {
		for _, txID := range book.Transactions {
			if _, ok := transactionByID[txID]; !ok {
				if err := s.books.ArrayPull(book.ID, books.FieldTransactions, txID); err == nil {
					report.TransactionLinksRepaired++
				}
			}
		}
	}
	for _, tx := range allTransactions {
		if book, ok := bookByID[tx.BookID]; ok && !book.Transactions.Contains(tx.ID) {
			if err := s.books.ArrayPush(tx.BookID, books.FieldTransactions, tx.ID); err == nil {
				report.TransactionLinksRepaired++
			}
		}
	}

	// User transaction sets: a transaction ID lives in the set matching its
	// recorded status, and in exactly one set.
	for _, user := range allUsers {
		for _, txID := range user.ActiveTransactions {
			tx, ok := transactionByID[txID]
			switch {
			case !ok:
				if err := s.users.ArrayPull(user.ID, users.FieldActiveTransactions, txID); err == nil {
					report.UserSetsRepaired++
				}
			case tx.TransactionStatus == entities.TransactionStatusReturned:
				if err := s.MoveUserTransaction(user.ID, txID, users.FieldActiveTransactions, users.FieldPrevTransactions); err == nil {
					report.UserSetsRepaired++
				}
			}
		}
		for _, txID := range user.PrevTransactions {
			if _, ok := transactionByID[txID]; !ok {
				if err := s.users.ArrayPull(user.ID, users.FieldPrevTransactions, txID); err == nil {
					report.UserSetsRepaired++
				}
			}
		}
	}
	for _, tx := range allTransactions {
		if tx.TransactionStatus != entities.TransactionStatusActive {
			continue
		}
		user, err := s.users.GetByID(tx.BorrowerID)
		if err != nil {
			continue
		}
		if !user.ActiveTransactions.Contains(tx.ID) && !user.PrevTransactions.Contains(tx.ID) {
			if err := s.users.ArrayPush(user.ID, users.FieldActiveTransactions, tx.ID); err == nil {
				report.UserSetsRepaired++
			}
		}
	}

	// Status must reflect the availability counter.
	for _, book := range allBooks {
		want := statusForCount(book.BookCountAvailable)
		if book.BookStatus != want {
			if err := s.books.UpdateByID(book.ID, map[string]any{"book_status": want}); err == nil {
				report.StatusesCorrected++
			}
		}
	}

	if report.Total() > 0 {
		log.Printf("Reconcile repaired %d inconsistencies: %+v", report.Total(), report)
		s.audit("reconcile.completed", map[string]any{
			"report":       report,
			"completed_at": s.clock.Now().UTC(),
		})
	}
	return report, nil
}
