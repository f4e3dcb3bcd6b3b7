package model

import (
	"time"
)

type CopyStatus string

const (
	CopyAvailable  CopyStatus = "AVAILABLE"
	CopyOnLoan     CopyStatus = "ON_LOAN"
	CopyReserved   CopyStatus = "RESERVED"
	CopyLost       CopyStatus = "LOST"
	CopyDamaged    CopyStatus = "DAMAGED"
	CopyProcessing CopyStatus = "PROCESSING"
)

type LoanStatus string

const (
	LoanBorrowed LoanStatus = "BORROWED"
	LoanReturned LoanStatus = "RETURNED"
	LoanOverdue  LoanStatus = "OVERDUE"
)

type HoldStatus string

const (
	HoldQueued    HoldStatus = "QUEUED"
	HoldReady     HoldStatus = "READY"
	HoldCanceled  HoldStatus = "CANCELED"
	HoldExpired   HoldStatus = "EXPIRED"
	HoldFulfilled HoldStatus = "FULFILLED"
)

// Terminal reports whether a hold can never leave its current status.
func (s HoldStatus) Terminal() bool {
	return s == HoldCanceled || s == HoldExpired || s == HoldFulfilled
}

type Book struct {
	ID              int    `json:"-" db:"id"`
	BookUid         string `json:"bookUid" db:"book_uid"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	ISBN            string `json:"isbn" db:"isbn"`
	Classification  string `json:"classification" db:"classification"`
	TotalCopies     int    `json:"totalCopies" db:"total_copies"`
	AvailableCopies int    `json:"availableCopies" db:"available_copies"`
}

type Copy struct {
	ID      int        `json:"-" db:"id"`
	CopyUid string     `json:"copyUid" db:"copy_uid"`
	BookID  int        `json:"-" db:"book_id"`
	BookUid string     `json:"bookUid" db:"book_uid"`
	Barcode string     `json:"barcode" db:"barcode"`
	Status  CopyStatus `json:"status" db:"status"`
}

// Borrower is the identity a loan is opened for. It comes from the caller,
// not from the acting-user context: a staff member checks books out on a
// patron's behalf.
type Borrower struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type Loan struct {
	ID           int        `json:"-" db:"id"`
	LoanUid      string     `json:"loanUid" db:"loan_uid"`
	CopyID       int        `json:"-" db:"copy_id"`
	CopyUid      string     `json:"copyUid" db:"copy_uid"`
	BookID       int        `json:"-" db:"book_id"`
	BookUid      string     `json:"bookUid" db:"book_uid"`
	BorrowerID   string     `json:"borrowerId" db:"borrower_id"`
	BorrowerName string     `json:"borrowerName" db:"borrower_name"`
	BorrowerRole string     `json:"borrowerRole" db:"borrower_role"`
	StaffID      *string    `json:"staffId,omitempty" db:"staff_id"`
	Status       LoanStatus `json:"status" db:"status"`
	BorrowedAt   time.Time  `json:"borrowedAt" db:"borrowed_at"`
	DueAt        time.Time  `json:"dueAt" db:"due_at"`
	ReturnedAt   *time.Time `json:"returnedAt,omitempty" db:"returned_at"`
	RenewalCount int        `json:"renewalCount" db:"renewal_count"`
}

// Open reports whether the loan still holds its copy.
func (l Loan) Open() bool {
	return l.Status == LoanBorrowed || l.Status == LoanOverdue
}

type Hold struct {
	ID        int        `json:"-" db:"id"`
	HoldUid   string     `json:"holdUid" db:"hold_uid"`
	BookID    int        `json:"-" db:"book_id"`
	BookUid   string     `json:"bookUid" db:"book_uid"`
	PatronID  string     `json:"patronId" db:"patron_id"`
	CopyID    *int       `json:"-" db:"copy_id"`
	Status    HoldStatus `json:"status" db:"status"`
	PlacedAt  time.Time  `json:"placedAt" db:"placed_at"`
	ReadyAt   *time.Time `json:"readyAt,omitempty" db:"ready_at"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type CheckoutRequest struct {
	BookUid  string     `json:"bookUid"`
	CopyUid  string     `json:"copyUid"`
	Borrower Borrower   `json:"borrower"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
}

type CheckinRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

type PlaceHoldRequest struct {
	BookUid  string `json:"bookUid" validate:"required"`
	PatronID string `json:"patronId" validate:"required"`
}

type CreateBookRequest struct {
	Title          string `json:"title" validate:"required"`
	Author         string `json:"author" validate:"required"`
	ISBN           string `json:"isbn" validate:"required"`
	Classification string `json:"classification"`
}

type AddCopyRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

type CopyStatusRequest struct {
	Status CopyStatus `json:"status" validate:"required,oneof=AVAILABLE LOST DAMAGED PROCESSING"`
}

type SweepResult struct {
	ExpiredHolds int `json:"expiredHolds"`
	OverdueLoans int `json:"overdueLoans"`
}
