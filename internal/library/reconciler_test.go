package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/librarium/internal/database/books"
	"github.com/openshelf/librarium/internal/database/categories"
	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
)

func TestReconcileCleanStoreRepairsNothing(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	fiction, err := svc.AddCategory(adminCaller, "Fiction")
	require.NoError(t, err)

	book, err := svc.CreateBook(adminCaller, BookSpec{
		BookName:           "Dune",
		Author:             "Frank Herbert",
		BookCountAvailable: 2,
		Categories:         []string{fiction.ID},
	})
	require.NoError(t, err)

	borrower := seedUser(t, svc, "Paul Atreides")
	_, err = svc.IssueOrReserve(adminCaller, IssueSpec{
		BookID:     book.ID,
		BorrowerID: borrower.ID,
		Type:       entities.TransactionTypeIssue,
		FromDate:   "2024-01-01",
		ToDate:     "2024-01-15",
	})
	require.NoError(t, err)

	report, err := svc.Reconcile(adminCaller)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total())
}

func TestReconcileRestoresMissingCategoryLink(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	fiction, err := svc.AddCategory(adminCaller, "Fiction")
	require.NoError(t, err)

	book, err := svc.CreateBook(adminCaller, BookSpec{
		BookName:           "Dune",
		Author:             "Frank Herbert",
		BookCountAvailable: 1,
		Categories:         []string{fiction.ID},
	})
	require.NoError(t, err)

	// Simulate a crash after the book write but before the inverse edit.
	require.NoError(t, svc.categories.ArrayPull(fiction.ID, categories.FieldBooks, book.ID))

	report, err := svc.Reconcile(adminCaller)
	require.NoError(t, err)
	assert.Equal(t, 1, report.CategoryLinksRepaired)

	fiction, err = svc.categories.GetByID(fiction.ID)
	require.NoError(t, err)
	assert.True(t, fiction.Books.Contains(book.ID))

	// Idempotent: a second sweep finds nothing.
	report, err = svc.Reconcile(adminCaller)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total())
}

func TestReconcileDropsDanglingCategoryRef(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	book, err := svc.CreateBook(adminCaller, BookSpec{
		BookName:           "Dune",
		Author:             "Frank Herbert",
		BookCountAvailable: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.books.ArrayPush(book.ID, books.FieldCategories, "deleted-category"))

	report, err := svc.Reconcile(adminCaller)
	require.NoError(t, err)
	assert.Equal(t, 1, report.CategoryLinksRepaired)

	book, err = svc.GetBook(book.ID)
	require.NoError(t, err)
	assert.False(t, book.Categories.Contains("deleted-category"))
}

func TestReconcileMovesReturnedTransaction(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	book, err := svc.CreateBook(adminCaller, BookSpec{
		BookName:           "Dune",
		Author:             "Frank Herbert",
		BookCountAvailable: 1,
	})
	require.NoError(t, err)

	borrower := seedUser(t, svc, "Paul Atreides")
	tx, err := svc.IssueOrReserve(adminCaller, IssueSpec{
		BookID:     book.ID,
		BorrowerID: borrower.ID,
		Type:       entities.TransactionTypeIssue,
		FromDate:   "2024-01-01",
		ToDate:     "2024-01-15",
	})
	require.NoError(t, err)

	// Flip the status behind the service's back, leaving the user sets stale.
	err = svc.transactions.UpdateByID(tx.ID, map[string]any{
		"transaction_status": entities.TransactionStatusReturned,
	})
	require.NoError(t, err)

	report, err := svc.Reconcile(adminCaller)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UserSetsRepaired)

	borrower, err = svc.users.GetByID(borrower.ID)
	require.NoError(t, err)
	assert.False(t, borrower.ActiveTransactions.Contains(tx.ID))
	assert.True(t, borrower.PrevTransactions.Contains(tx.ID))
}

func TestReconcileRestoresActiveSetMembership(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	book, err := svc.CreateBook(adminCaller, BookSpec{
		BookName:           "Dune",
		Author:             "Frank Herbert",
		BookCountAvailable: 1,
	})
	require.NoError(t, err)

	borrower := seedUser(t, svc, "Paul Atreides")
	tx, err := svc.IssueOrReserve(adminCaller, IssueSpec{
		BookID:     book.ID,
		BorrowerID: borrower.ID,
		Type:       entities.TransactionTypeIssue,
		FromDate:   "2024-01-01",
		ToDate:     "2024-01-15",
	})
	require.NoError(t, err)

	require.NoError(t, svc.users.ArrayPull(borrower.ID, users.FieldActiveTransactions, tx.ID))

	report, err := svc.Reconcile(adminCaller)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UserSetsRepaired)

	borrower, err = svc.users.GetByID(borrower.ID)
	require.NoError(t, err)
	assert.True(t, borrower.ActiveTransactions.Contains(tx.ID))
}

func TestReconcileCorrectsStatus(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	book, err := svc.CreateBook(adminCaller, BookSpec{
		BookName:           "Dune",
		Author:             "Frank Herbert",
		BookCountAvailable: 1,
	})
	require.NoError(t, err)

	err = svc.books.UpdateByID(book.ID, map[string]any{
		"book_status": entities.BookStatusUnavailable,
	})
	require.NoError(t, err)

	report, err := svc.Reconcile(adminCaller)
	require.NoError(t, err)
	assert.Equal(t, 1, report.StatusesCorrected)

	book, err = svc.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.BookStatusAvailable, book.BookStatus)
}

func TestReconcileRequiresAdmin(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.Reconcile(memberCaller)
	assert.True(t, IsPermission(err))
}
