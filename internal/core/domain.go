package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TransactionIncome   TransactionType = "income"
	TransactionOutcome  TransactionType = "outcome"
	TransactionTransfer TransactionType = "transfer"
)

const (
	PeriodCurrentMonth PeriodKind = "current_month"
	PeriodCurrentYear  PeriodKind = "current_year"
	PeriodAllTime      PeriodKind = "all_time"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryOutcome CategoryType = "outcome"
)

const (
	BudgetPersonal BudgetType = "personal"
	BudgetJoint    BudgetType = "joint"
)

type (
	TransactionType string
	PeriodKind      string
	CategoryType    string
	BudgetType      string

	// Date is a calendar date; the time-of-day part is always midnight UTC.
	Date struct {
		time.Time
	}

	User struct {
		ID           int64
		FamilyID     int64
		Username     string
		PasswordHash string
	}

	Account struct {
		ID              int64
		UserID          int64
		Name            string
		Currency        string
		OpenningBalance Money
	}

	Category struct {
		ID             int64
		UserID         int64
		BaseCategoryID int64 // 0 when the category is not a subcategory
		BudgetID       int64 // 0 when the category is not budgeted
		Name           string
		Type           CategoryType
	}

	Budget struct {
		ID              int64
		UserID          int64
		Name            string
		Type            BudgetType
		PlannedOutcomes Money
	}

	Transaction struct {
		ID         int64
		AccountID  int64
		CategoryID int64 // 0 when uncategorised
		Type       TransactionType
		DueDate    Date
		DueTime    string // HH:MM:SS
		Amount     Money
		Note       string
	}
)

var (
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidPeriod     = errors.New("invalid period kind")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyName         = errors.New("empty name")
	ErrRecordNotFound    = errors.New("record not found")
	ErrAlreadyExists     = errors.New("record already exists")
	ErrInvalidInvite     = errors.New("invite code is invalid or expired")
	ErrRecordNotOwned    = errors.New("record belongs to another user")
	ErrSelfIsNotRelative = errors.New("own user is not a relative")
)

// AllPeriodKinds lists every period kind in the order summaries are reported.
func AllPeriodKinds() []PeriodKind {
	return []PeriodKind{PeriodCurrentMonth, PeriodCurrentYear, PeriodAllTime}
}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIncome, TransactionOutcome, TransactionTransfer:
		return true
	}
	return false
}

func (p PeriodKind) Valid() bool {
	switch p {
	case PeriodCurrentMonth, PeriodCurrentYear, PeriodAllTime:
		return true
	}
	return false
}

func (c CategoryType) Valid() bool {
	return c == CategoryIncome || c == CategoryOutcome
}

func (b BudgetType) Valid() bool {
	return b == BudgetPersonal || b == BudgetJoint
}

// NewDate builds a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return Date{Time: d.AddDate(0, 0, 1)}
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.DueDate.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(t.Note) > 200 {
		return errors.New("note too long (max 200 characters)")
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Currency) == "" {
		return errors.New("empty currency")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return errors.New("invalid category type")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if !b.Type.Valid() {
		return errors.New("invalid budget type")
	}
	if b.PlannedOutcomes.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
