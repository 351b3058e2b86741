// Package auth handles registration, sign-in and session handling for
// library members. The caller identity and admin flag used by the access
// policy are always read back from the stored user record through a
// server-side session, never from request input.
package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/librarium/internal/config"
	"github.com/openshelf/librarium/internal/database"
	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
	"github.com/openshelf/librarium/internal/library"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrNameRequired     = errors.New("user_full_name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrLoginIDRequired  = errors.New("admission_id, employee_id or email is required")
	ErrEmailInvalid     = errors.New("invalid email format")
	ErrUserTypeInvalid  = errors.New("user_type must be Student or Staff")
)

// RegisterRequest carries the fields of a new member registration.
type RegisterRequest struct {
	UserType     entities.UserType
	UserFullName string
	AdmissionID  string
	EmployeeID   string
	Age          int
	Gender       string
	DOB          string
	Address      string
	MobileNumber string
	Email        string
	Password     string
	IsAdmin      bool // Honored only when the registration is performed by an admin.
}

// Service handles authentication and account creation.
type Service struct {
	users  *users.Repository
	config config.Auth
	id     library.IDGen
}

// NewService creates a new authentication service.
func NewService(userRepo *users.Repository, cfg config.Auth) *Service {
	return &Service{
		users:  userRepo,
		config: cfg,
		id:     library.NewIDGen(),
	}
}

// Register creates a new member with a hashed password. The admin flag in the
// request is only honored when the registering caller is an admin; anonymous
// self-registration always produces a regular member.
func (s *Service) Register(caller library.Caller, req RegisterRequest) (*entities.User, error) {
	if req.UserFullName == "" {
		return nil, ErrNameRequired
	}
	if req.Email == "" {
		return nil, ErrEmailRequired
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}
	if !entities.ValidEmail(req.Email) {
		return nil, ErrEmailInvalid
	}
	switch req.UserType {
	case entities.UserTypeStudent, entities.UserTypeStaff:
		// Valid
	default:
		return nil, ErrUserTypeInvalid
	}

	// Check unique email and full name before creating.
	if _, err := s.users.GetByEmail(req.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if _, err := s.users.GetByFullName(req.UserFullName); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	id, err := s.id.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	user := &entities.User{
		ID:                 id,
		UserType:           req.UserType,
		UserFullName:       req.UserFullName,
		AdmissionID:        req.AdmissionID,
		EmployeeID:         req.EmployeeID,
		Age:                req.Age,
		Gender:             req.Gender,
		DOB:                req.DOB,
		Address:            req.Address,
		MobileNumber:       req.MobileNumber,
		Email:              req.Email,
		PasswordHash:       passwordHash,
		IsAdmin:            req.IsAdmin && caller.IsAdmin,
		ActiveTransactions: entities.StringList{},
		PrevTransactions:   entities.StringList{},
	}

	if err := s.users.Create(user); err != nil {
		// Lost an email or name race after the existence checks.
		if database.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// SignIn validates credentials and returns the user. The login ID may be an
// admission ID (students), an employee ID (staff) or an email address.
func (s *Service) SignIn(admissionID, employeeID, email, password string) (*entities.User, error) {
	var (
		user *entities.User
		err  error
	)
	switch {
	case admissionID != "":
		user, err = s.users.GetByAdmissionID(admissionID)
	case employeeID != "":
		user, err = s.users.GetByEmployeeID(employeeID)
	case email != "":
		user, err = s.users.GetByEmail(email)
	default:
		return nil, ErrLoginIDRequired
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id string) (*entities.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
