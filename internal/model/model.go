package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cover string

const (
	CoverHard Cover = "hard"
	CoverSoft Cover = "soft"
)

type Book struct {
	ID        int             `json:"id" db:"id"`
	Title     string          `json:"title" db:"title"`
	Author    string          `json:"author" db:"author"`
	Cover     Cover           `json:"cover" db:"cover"`
	Inventory int             `json:"inventory" db:"inventory"`
	DailyFee  decimal.Decimal `json:"dailyFee" db:"daily_fee"`
}

type CreateBookRequest struct {
	Title     string          `json:"title" validate:"required,max=100"`
	Author    string          `json:"author" validate:"required,max=100"`
	Cover     Cover           `json:"cover" validate:"required,oneof=hard soft"`
	Inventory int             `json:"inventory" validate:"gte=0"`
	DailyFee  decimal.Decimal `json:"dailyFee"`
}

type Borrowing struct {
	ID                 int        `json:"id" db:"id"`
	BorrowingUid       string     `json:"borrowingUid" db:"borrowing_uid"`
	Username           string     `json:"username" db:"username"`
	BorrowDate         time.Time  `json:"borrowDate" db:"borrow_date"`
	ExpectedReturnDate time.Time  `json:"expectedReturnDate" db:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actualReturnDate" db:"actual_return_date"`
	IsActive           bool       `json:"isActive" db:"is_active"`
	Books              []Book     `json:"books" db:"-"`
}

// IsOverdue reports whether the borrowing is past its expected return date.
// For an active borrowing the check is against asOf, for a returned one
// against the actual return date.
func (b Borrowing) IsOverdue(asOf time.Time) bool {
	if b.IsActive {
		return b.ExpectedReturnDate.Before(truncateToDay(asOf))
	}
	if b.ActualReturnDate == nil {
		return false
	}
	return b.ActualReturnDate.After(b.ExpectedReturnDate)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type CreateBorrowingRequest struct {
	BookIDs  []int  `json:"bookIds" validate:"required,min=1,dive,gt=0"`
	Username string `json:"-" validate:"required"`
}

type ListBorrowingsFilter struct {
	Username string // empty for privileged callers
	UserID   string
	IsActive *bool
	Page     int
	Size     int
}

type ListBorrowings struct {
	Paging `json:",inline"`
	Items  []Borrowing `json:"items"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type PaymentType string

const (
	PaymentTypePayment PaymentType = "payment"
	PaymentTypeFine    PaymentType = "fine"
)

type Payment struct {
	ID          int             `json:"id" db:"id"`
	BorrowingID int             `json:"borrowingId" db:"borrowing_id"`
	Status      PaymentStatus   `json:"status" db:"status"`
	Type        PaymentType     `json:"type" db:"type"`
	SessionID   string          `json:"sessionId" db:"session_id"`
	SessionURL  string          `json:"sessionUrl" db:"session_url"`
	MoneyToPay  decimal.Decimal `json:"moneyToPay" db:"money_to_pay"`
}

// BorrowingResponse is the borrowing representation returned by the API.
// Payment is nil when the checkout session could not be created (the loan
// itself is still committed).
type BorrowingResponse struct {
	Borrowing `json:",inline"`
	Payment   *Payment `json:"payment,omitempty"`
}

type EventType string

const (
	EventBorrowingCreated  EventType = "CREATED"
	EventBorrowingReturned EventType = "RETURNED"
	EventBorrowingOverdue  EventType = "OVERDUE"
)

// BorrowingEvent is published to kafka on every lifecycle transition.
type BorrowingEvent struct {
	Type         EventType `json:"type"`
	BorrowingID  int       `json:"borrowingId"`
	BorrowingUid string    `json:"borrowingUid"`
	Username     string    `json:"username"`
}
