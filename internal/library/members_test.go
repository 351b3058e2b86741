package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMemberSelf(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	user := seedUser(t, svc, "Paul Atreides")
	self := Caller{UserID: user.ID}

	address := "Arrakeen, Arrakis"
	require.NoError(t, svc.UpdateMember(self, user.ID, UserPatch{Address: &address}))

	user, err := svc.GetMember(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arrakeen, Arrakis", user.Address)
}

func TestUpdateMemberRejectsOtherUsers(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	user := seedUser(t, svc, "Paul Atreides")
	other := seedUser(t, svc, "Feyd Rautha")

	address := "Giedi Prime"
	err := svc.UpdateMember(Caller{UserID: other.ID}, user.ID, UserPatch{Address: &address})
	assert.True(t, IsPermission(err))
}

func TestUpdateMemberPointsAdminOnly(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	user := seedUser(t, svc, "Paul Atreides")

	points := 10
	err := svc.UpdateMember(Caller{UserID: user.ID}, user.ID, UserPatch{Points: &points})
	assert.True(t, IsPermission(err))

	require.NoError(t, svc.UpdateMember(adminCaller, user.ID, UserPatch{Points: &points}))

	user, err = svc.GetMember(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, user.Points)
}

func TestUpdateMemberValidation(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	user := seedUser(t, svc, "Paul Atreides")

	empty := ""
	err := svc.UpdateMember(adminCaller, user.ID, UserPatch{UserFullName: &empty})
	assert.True(t, IsValidation(err))

	bad := "not-an-email"
	err = svc.UpdateMember(adminCaller, user.ID, UserPatch{Email: &bad})
	assert.True(t, IsValidation(err))

	err = svc.UpdateMember(adminCaller, user.ID, UserPatch{Email: &empty})
	assert.True(t, IsValidation(err))
}

func TestUpdateMemberTakenEmailConflict(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	user := seedUser(t, svc, "Paul Atreides")
	other := seedUser(t, svc, "Feyd Rautha")

	taken := user.Email
	err := svc.UpdateMember(adminCaller, other.ID, UserPatch{Email: &taken})
	assert.True(t, IsConflict(err))

	takenName := user.UserFullName
	err = svc.UpdateMember(adminCaller, other.ID, UserPatch{UserFullName: &takenName})
	assert.True(t, IsConflict(err))
}

func TestDeleteMember(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	user := seedUser(t, svc, "Paul Atreides")

	err := svc.DeleteMember(memberCaller, user.ID)
	assert.True(t, IsPermission(err))

	require.NoError(t, svc.DeleteMember(adminCaller, user.ID))

	_, err = svc.GetMember(user.ID)
	assert.True(t, IsNotFound(err))
}

func TestAllMembers(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	seedUser(t, svc, "Paul Atreides")
	seedUser(t, svc, "Duncan Idaho")

	list, err := svc.AllMembers()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
