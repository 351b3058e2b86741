package library

// Caller identifies the authenticated principal on whose behalf an operation
// runs. It is built by the auth middleware from a server-side session; the
// admin flag is read from the stored user record, never from request input.
type Caller struct {
	UserID  string
	IsAdmin bool
}

// Anonymous is an unauthenticated caller. It fails every policy predicate.
var Anonymous = Caller{}

// System is the caller used by in-process jobs such as the reconciler.
var System = Caller{IsAdmin: true}

// IsSelf reports whether the caller is the user identified by targetID.
func (c Caller) IsSelf(targetID string) bool {
	return c.UserID != "" && c.UserID == targetID
}

func requireAdmin(caller Caller) error {
	if !caller.IsAdmin {
		return NewPermissionError("admin privileges required")
	}
	return nil
}

func requireAdminOrSelf(caller Caller, targetID string) error {
	if caller.IsAdmin || caller.IsSelf(targetID) {
		return nil
	}
	return NewPermissionError("you can only manage your own account")
}
