package library

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeValidation, CodeOf(NewValidationError("bad input")))
	assert.Equal(t, ErrCodeNotFound, CodeOf(NewNotFoundError("gone")))
	assert.Equal(t, ErrCodeConflict, CodeOf(NewConflictError("taken")))
	assert.Equal(t, ErrCodeState, CodeOf(NewStateError("already done")))
	assert.Equal(t, ErrCodePermission, CodeOf(NewPermissionError("nope")))
	assert.Equal(t, ErrCodeInfra, CodeOf(errors.New("disk on fire")))
}

func TestCodeOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("while saving: %w", NewConflictError("taken"))
	assert.True(t, IsConflict(wrapped))
}

func TestPolicyCallers(t *testing.T) {
	assert.NoError(t, requireAdmin(System))
	assert.True(t, IsPermission(requireAdmin(Anonymous)))
	assert.True(t, IsPermission(requireAdmin(Caller{UserID: "someone"})))

	self := Caller{UserID: "someone"}
	assert.NoError(t, requireAdminOrSelf(self, "someone"))
	assert.True(t, IsPermission(requireAdminOrSelf(self, "someone-else")))
	assert.NoError(t, requireAdminOrSelf(System, "someone-else"))
}
