package library

import (
	"github.com/openshelf/librarium/internal/entities"
)

// UserPatch describes a partial profile update. PasswordHash is already
// hashed by the auth layer before it reaches the engine.
type UserPatch struct {
	UserType     *entities.UserType
	UserFullName *string
	Age          *int
	Gender       *string
	DOB          *string
	Address      *string
	MobileNumber *string
	Email        *string
	PasswordHash *string
	Points       *int
}

// GetMember retrieves a user by ID.
func (s *Service) GetMember(id string) (*entities.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, mapStoreErr(err, "user not found")
	}
	return user, nil
}

// AllMembers retrieves every library member, newest first.
func (s *Service) AllMembers() ([]entities.User, error) {
	list, err := s.users.All()
	if err != nil {
		return nil, NewInfraError("failed to list members", err)
	}
	return list, nil
}

// UpdateMember applies a profile patch. Allowed for admins and for the user
// themselves.
func (s *Service) UpdateMember(caller Caller, id string, patch UserPatch) error {
	if err := requireAdminOrSelf(caller, id); err != nil {
		return err
	}

	fields := map[string]any{}
	if patch.UserType != nil {
		fields["user_type"] = *patch.UserType
	}
	if patch.UserFullName != nil {
		if *patch.UserFullName == "" {
			return NewValidationError("user_full_name must not be empty")
		}
		fields["user_full_name"] = *patch.UserFullName
	}
	if patch.Age != nil {
		fields["age"] = *patch.Age
	}
	if patch.Gender != nil {
		fields["gender"] = *patch.Gender
	}
	if patch.DOB != nil {
		fields["dob"] = *patch.DOB
	}
	if patch.Address != nil {
		fields["address"] = *patch.Address
	}
	if patch.MobileNumber != nil {
		fields["mobile_number"] = *patch.MobileNumber
	}
	if patch.Email != nil {
		if !entities.ValidEmail(*patch.Email) {
			return NewValidationError("email must be a valid address")
		}
		fields["email"] = *patch.Email
	}
	if patch.PasswordHash != nil {
		fields["password_hash"] = *patch.PasswordHash
	}
	if patch.Points != nil {
		// Only librarians adjust loyalty points.
		if err := requireAdmin(caller); err != nil {
			return err
		}
		fields["points"] = *patch.Points
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.users.UpdateByID(id, fields); err != nil {
		return mapStoreErr(err, "user not found")
	}

	s.audit("user.updated", map[string]any{"id": id})
	return nil
}

// DeleteMember removes a user account. Allowed for admins and for the user
// themselves.
func (s *Service) DeleteMember(caller Caller, id string) error {
	if err := requireAdminOrSelf(caller, id); err != nil {
		return err
	}

	if err := s.users.DeleteByID(id); err != nil {
		return mapStoreErr(err, "user not found")
	}

	s.audit("user.deleted", map[string]any{"id": id})
	return nil
}
