package entities

import (
	"regexp"
	"time"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether s looks like a deliverable address within the
// 254-byte length cap.
func ValidEmail(s string) bool {
	return len(s) <= 254 && emailPattern.MatchString(s)
}

type BookStatus string

const (
	BookStatusAvailable   BookStatus = "Available"
	BookStatusUnavailable BookStatus = "Unavailable"
)

type TransactionType string

const (
	TransactionTypeIssue       TransactionType = "Issue"
	TransactionTypeReservation TransactionType = "Reservation"
)

type TransactionStatus string

const (
	TransactionStatusActive   TransactionStatus = "Active"
	TransactionStatusReturned TransactionStatus = "Returned"
)

// UserType distinguishes borrowers identified by an admission ID (students)
// from those identified by an employee ID (staff).
type UserType string

const (
	UserTypeStudent UserType = "Student"
	UserTypeStaff   UserType = "Staff"
)

type Book struct {
	ID                 string     `gorm:"primaryKey;size:26" json:"id"`
	BookName           string     `gorm:"index;size:512" json:"book_name"`
	AlternateTitle     string     `gorm:"size:512" json:"alternate_title,omitempty"`
	Author             string     `gorm:"index;size:256" json:"author"`
	Language           string     `gorm:"size:64" json:"language,omitempty"`
	Publisher          string     `gorm:"size:256" json:"publisher,omitempty"`
	BookCountAvailable int        `json:"book_count_available"`
	BookStatus         BookStatus `gorm:"size:20;default:'Available'" json:"book_status"`

	// Cross-references, maintained manually on both sides.
	Categories   StringList `gorm:"type:text" json:"categories"`
	Transactions StringList `gorm:"type:text" json:"transactions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID           string     `gorm:"primaryKey;size:26" json:"id"`
	CategoryName string     `gorm:"uniqueIndex;size:100" json:"category_name"`
	Books        StringList `gorm:"type:text" json:"books"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID           string   `gorm:"primaryKey;size:26" json:"id"`
	UserType     UserType `gorm:"size:20" json:"user_type"`
	UserFullName string   `gorm:"uniqueIndex;size:256" json:"user_full_name"`
	AdmissionID  string   `gorm:"index;size:15" json:"admission_id,omitempty"`
	EmployeeID   string   `gorm:"index;size:15" json:"employee_id,omitempty"`
	Age          int      `json:"age,omitempty"`
	Gender       string   `gorm:"size:20" json:"gender,omitempty"`
	DOB          string   `gorm:"size:10" json:"dob,omitempty"`
	Address      string   `gorm:"size:512" json:"address,omitempty"`
	MobileNumber string   `gorm:"size:20" json:"mobile_number,omitempty"`
	Email        string   `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string   `gorm:"size:128" json:"-"`
	Points       int      `gorm:"default:0" json:"points"`
	IsAdmin      bool     `gorm:"default:false" json:"is_admin"`

	// A transaction ID lives in exactly one of these two sets
	// from creation until administrative deletion.
	ActiveTransactions StringList `gorm:"type:text" json:"active_transactions"`
	PrevTransactions   StringList `gorm:"type:text" json:"prev_transactions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Transaction struct {
	ID         string `gorm:"primaryKey;size:26" json:"id"`
	BookID     string `gorm:"index;size:26" json:"book_id"`
	BorrowerID string `gorm:"index;size:26" json:"borrower_id"`

	// Denormalized for historical display after the originals change.
	BookName     string `gorm:"size:512" json:"book_name"`
	BorrowerName string `gorm:"size:256" json:"borrower_name"`

	TransactionType TransactionType `gorm:"size:20" json:"transaction_type"`

	// Calendar dates as opaque YYYY-MM-DD strings, validated at the boundary.
	FromDate   string `gorm:"size:10" json:"from_date"`
	ToDate     string `gorm:"size:10" json:"to_date"`
	ReturnDate string `gorm:"size:10" json:"return_date,omitempty"`

	TransactionStatus TransactionStatus `gorm:"size:20;default:'Active'" json:"transaction_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
