package library

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/librarium/internal/database/books"
	"github.com/openshelf/librarium/internal/database/categories"
	"github.com/openshelf/librarium/internal/database/transactions"
	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
)

var (
	adminCaller  = Caller{UserID: "admin-user", IsAdmin: true}
	memberCaller = Caller{UserID: "member-user"}
)

func setupTestService(t *testing.T) (*Service, func()) {
	t.Helper()

	dbPath := "./test_library_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Category{},
		&entities.Transaction{},
	)
	require.NoError(t, err)

	svc := NewService(
		books.NewRepository(db),
		categories.NewRepository(db),
		users.NewRepository(db),
		transactions.NewRepository(db),
		Options{ReserveOnZero: true},
	)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return svc, cleanup
}

func seedUser(t *testing.T, svc *Service, fullName string) *entities.User {
	t.Helper()

	id, err := svc.id.New()
	require.NoError(t, err)

	user := &entities.User{
		ID:                 id,
		UserType:           entities.UserTypeStudent,
		UserFullName:       fullName,
		Email:              strings.ToLower(strings.ReplaceAll(fullName, " ", ".")) + "@example.com",
		ActiveTransactions: entities.StringList{},
		PrevTransactions:   entities.StringList{},
	}
	require.NoError(t, svc.users.Create(user))
	return user
}
