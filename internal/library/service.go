// Package library implements the core of the system: the consistency rules
// that keep denormalized bidirectional references in sync (book↔category,
// book↔transaction, user↔transaction), the borrow-transaction lifecycle and
// the access policy gating every operation.
//
// Every cross-reference edit is a pair of single-document array mutations
// issued as two separate store calls; the store offers no multi-document
// transactions, so a crash between the halves can leave references one-sided.
// Reconcile repairs such damage idempotently.
package library

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/openshelf/librarium/internal/database"
	"github.com/openshelf/librarium/internal/database/books"
	"github.com/openshelf/librarium/internal/database/categories"
	"github.com/openshelf/librarium/internal/database/transactions"
	"github.com/openshelf/librarium/internal/database/users"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NewIDGen returns the default ULID-backed generator.
func NewIDGen() IDGen {
	return ulidGen{}
}

// Auditor records mutation events. Recording is best-effort and must never
// fail the operation being audited.
type Auditor interface {
	Record(event string, data any)
}

// Service executes core operations against the entity repositories.
type Service struct {
	books        *books.Repository
	categories   *categories.Repository
	users        *users.Repository
	transactions *transactions.Repository

	clock   Clock
	id      IDGen
	auditor Auditor

	// reserveOnZero permits reservations against books with no available
	// copies. Issue always requires availability.
	reserveOnZero bool
}

type Options struct {
	ReserveOnZero bool
	Auditor       Auditor
}

func NewService(
	bookRepo *books.Repository,
	categoryRepo *categories.Repository,
	userRepo *users.Repository,
	transactionRepo *transactions.Repository,
	opts Options,
) *Service {
	return &Service{
		books:         bookRepo,
		categories:    categoryRepo,
		users:         userRepo,
		transactions:  transactionRepo,
		clock:         realClock{},
		id:            ulidGen{},
		auditor:       opts.Auditor,
		reserveOnZero: opts.ReserveOnZero,
	}
}

func (s *Service) audit(event string, data any) {
	if s.auditor != nil {
		s.auditor.Record(event, data)
	}
}

const dateLayout = "2006-01-02"

func validDate(value string) bool {
	_, err := time.Parse(dateLayout, value)
	return err == nil
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// mapStoreErr normalizes repository failures into the domain taxonomy.
func mapStoreErr(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewNotFoundError(notFoundMsg)
	case database.IsUniqueViolation(err):
		return NewConflictError("conflicts with an existing record")
	default:
		return NewInfraError("store operation failed", err)
	}
}
