package model

import (
	"time"
)

type Book struct {
	ID          int    `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	ISBN        string `json:"isbn" db:"isbn"`
	Year        int    `json:"year" db:"year"`
	PublisherID *int   `json:"publisherId,omitempty" db:"publisher_id"`
	CategoryID  *int   `json:"categoryId,omitempty" db:"category_id"`
	TotalCopies int    `json:"totalCopies" db:"total_copies"`
}

// BookView is the inventory listing row: book attributes joined with
// category/publisher names and the live available-copy count.
type BookView struct {
	ID        int     `json:"id" db:"id"`
	Title     string  `json:"title" db:"title"`
	ISBN      string  `json:"isbn" db:"isbn"`
	Year      int     `json:"year" db:"year"`
	Category  *string `json:"category" db:"category"`
	Publisher *string `json:"publisher" db:"publisher"`
	Total     int     `json:"totalCopies" db:"total_copies"`
	Available int     `json:"available" db:"available"`
}

type CopyStatus string

const (
	CopyAvailable CopyStatus = "available"
	CopyOnLoan    CopyStatus = "on_loan"
)

type BookCopy struct {
	ID     int        `json:"id" db:"id"`
	BookID int        `json:"bookId" db:"book_id"`
	Status CopyStatus `json:"status" db:"copy_status"`
}

type Author struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Publisher struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Member struct {
	ID         int       `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	JoinedDate time.Time `json:"joinedDate" db:"joined_date"`
}

type Loan struct {
	ID         int        `json:"id" db:"id"`
	LoanUid    string     `json:"loanUid" db:"loan_uid"`
	MemberID   int        `json:"memberId" db:"member_id"`
	CopyID     int        `json:"copyId" db:"copy_id"`
	IssueDate  time.Time  `json:"issueDate" db:"issue_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate,omitempty" db:"return_date"`
	FineAmount int64      `json:"fineAmount" db:"fine_amount"`
}

type LoanStatus string

const (
	StatusIssued   LoanStatus = "Issued"
	StatusOverdue  LoanStatus = "Overdue"
	StatusReturned LoanStatus = "Returned"
)

// Status classifies a loan at read time. Overdue is never stored: it is
// an open loan whose due date has lapsed relative to today.
func (l Loan) Status(today time.Time) LoanStatus {
	return classify(l.ReturnDate, l.DueDate, today)
}

// LoanView is a ledger row joined with the book title and borrower name,
// as shown on the dashboard and the loans listing.
type LoanView struct {
	ID         int        `json:"id" db:"id"`
	LoanUid    string     `json:"loanUid" db:"loan_uid"`
	Title      string     `json:"title" db:"title"`
	Borrower   string     `json:"borrower" db:"borrower"`
	IssueDate  time.Time  `json:"issueDate" db:"issue_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate,omitempty" db:"return_date"`
	FineAmount int64      `json:"fineAmount" db:"fine_amount"`
	Status     LoanStatus `json:"status" db:"-"`
}

func (l LoanView) Classify(today time.Time) LoanStatus {
	return classify(l.ReturnDate, l.DueDate, today)
}

func classify(returned *time.Time, due, today time.Time) LoanStatus {
	if returned != nil {
		return StatusReturned
	}
	if TruncateDay(due).Before(TruncateDay(today)) {
		return StatusOverdue
	}
	return StatusIssued
}

// TruncateDay drops the time-of-day part and pins the day to UTC. Loan
// dates carry date granularity only, so comparing truncated values
// compares calendar days regardless of the zone either side arrived in.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type LoanFilter string

const (
	FilterAll     LoanFilter = "all"
	FilterActive  LoanFilter = "active"
	FilterOverdue LoanFilter = "overdue"
)

func (f LoanFilter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterOverdue:
		return true
	}
	return false
}

type Stats struct {
	TotalBooks   int `json:"totalBooks" db:"total_books"`
	ActiveLoans  int `json:"activeLoans" db:"active_loans"`
	OverdueLoans int `json:"overdueLoans" db:"overdue_loans"`
}

type CreateBookRequest struct {
	Title       string `json:"title" validate:"required"`
	ISBN        string `json:"isbn" validate:"required"`
	Year        int    `json:"year" validate:"required,gte=0"`
	PublisherID *int   `json:"publisherId"`
	CategoryID  *int   `json:"categoryId"`
	Copies      int    `json:"copies" validate:"required,min=1"`
	Author      string `json:"author" validate:"required"`
}

type CreateMemberRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type IssueLoanRequest struct {
	BookID   int `json:"bookId" validate:"required"`
	MemberID int `json:"memberId" validate:"required"`
}
