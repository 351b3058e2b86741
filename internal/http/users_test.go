package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/openshelf/librarium/internal/auth"
	"github.com/openshelf/librarium/internal/entities"
	"github.com/openshelf/librarium/internal/library"
)

func (env *testEnv) usersRouter(identity testIdentity) *gin.Engine {
	router := gin.New()
	router.Use(identity.middleware())

	controller := NewUsersController(env.service, bcrypt.MinCost)
	group := router.Group("/api/users")
	group.GET("/getuser/:id", controller.GetUserByID)
	group.GET("/allmembers", controller.GetAllMembers)
	group.PUT("/updateuser/:id", controller.UpdateUser)
	group.PUT("/:id/move-to-activetransactions", controller.MoveToActiveTransactions)
	group.PUT("/:id/move-to-prevtransactions", controller.MoveToPrevTransactions)
	group.DELETE("/deleteuser/:id", controller.DeleteUser)
	return router
}

func (env *testEnv) seedMember(t *testing.T, id, fullName, email string) *entities.User {
	t.Helper()

	user := &entities.User{
		ID:                 id,
		UserType:           entities.UserTypeStudent,
		UserFullName:       fullName,
		Email:              email,
		ActiveTransactions: entities.StringList{},
		PrevTransactions:   entities.StringList{},
	}
	require.NoError(t, env.users.Create(user))
	return user
}

func TestGetUserEndpoint(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	env.seedMember(t, "user-1", "Paul Atreides", "paul@example.com")

	router := env.usersRouter(asAnonymous)

	recorder := doJSON(t, router, http.MethodGet, "/api/users/getuser/user-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var user entities.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &user))
	assert.Equal(t, "Paul Atreides", user.UserFullName)
	// The hash never leaves the server.
	assert.NotContains(t, recorder.Body.String(), "password_hash")

	recorder = doJSON(t, router, http.MethodGet, "/api/users/getuser/missing", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetAllMembersEndpoint(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	env.seedMember(t, "user-1", "Paul Atreides", "paul@example.com")
	env.seedMember(t, "user-2", "Duncan Idaho", "duncan@example.com")

	recorder := doJSON(t, env.usersRouter(asAnonymous), http.MethodGet, "/api/users/allmembers", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
}

func TestUpdateUserEndpoint(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	env.seedMember(t, "user-1", "Paul Atreides", "paul@example.com")

	// A member may update their own profile.
	self := testIdentity{userID: "user-1"}
	recorder := doJSON(t, env.usersRouter(self), http.MethodPut, "/api/users/updateuser/user-1", gin.H{
		"address": "Arrakeen, Arrakis",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	user, err := env.service.GetMember("user-1")
	require.NoError(t, err)
	assert.Equal(t, "Arrakeen, Arrakis", user.Address)

	// But not someone else's.
	recorder = doJSON(t, env.usersRouter(asMember), http.MethodPut, "/api/users/updateuser/user-1", gin.H{
		"address": "Giedi Prime",
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestUpdateUserPassword(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	env.seedMember(t, "user-1", "Paul Atreides", "paul@example.com")

	recorder := doJSON(t, env.usersRouter(asAdmin), http.MethodPut, "/api/users/updateuser/user-1", gin.H{
		"password": "muaddib-rules",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	user, err := env.service.GetMember("user-1")
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword("muaddib-rules", user.PasswordHash))

	// Too-short passwords are rejected before hashing.
	recorder = doJSON(t, env.usersRouter(asAdmin), http.MethodPut, "/api/users/updateuser/user-1", gin.H{
		"password": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestMoveTransactionEndpoints(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	book, borrower := env.seedBookAndBorrower(t)
	tx, err := env.service.IssueOrReserve(library.System, library.IssueSpec{
		BookID:     book.ID,
		BorrowerID: borrower.ID,
		Type:       entities.TransactionTypeIssue,
		FromDate:   "2024-01-01",
		ToDate:     "2024-01-15",
	})
	require.NoError(t, err)

	adminRouter := env.usersRouter(asAdmin)

	recorder := doJSON(t, adminRouter, http.MethodPut, "/api/users/"+tx.ID+"/move-to-prevtransactions", gin.H{
		"user_id": borrower.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	user, err := env.service.GetMember(borrower.ID)
	require.NoError(t, err)
	assert.False(t, user.ActiveTransactions.Contains(tx.ID))
	assert.True(t, user.PrevTransactions.Contains(tx.ID))

	recorder = doJSON(t, adminRouter, http.MethodPut, "/api/users/"+tx.ID+"/move-to-activetransactions", gin.H{
		"user_id": borrower.ID,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	user, err = env.service.GetMember(borrower.ID)
	require.NoError(t, err)
	assert.True(t, user.ActiveTransactions.Contains(tx.ID))

	// Members cannot rewrite transaction sets.
	recorder = doJSON(t, env.usersRouter(asMember), http.MethodPut, "/api/users/"+tx.ID+"/move-to-prevtransactions", gin.H{
		"user_id": borrower.ID,
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestDeleteUserEndpoint(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	env.seedMember(t, "user-1", "Paul Atreides", "paul@example.com")

	recorder := doJSON(t, env.usersRouter(asMember), http.MethodDelete, "/api/users/deleteuser/user-1", nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = doJSON(t, env.usersRouter(asAdmin), http.MethodDelete, "/api/users/deleteuser/user-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	_, err := env.service.GetMember("user-1")
	assert.True(t, library.IsNotFound(err))
}
