package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	Bank    AccountType = "BANK"
	EWallet AccountType = "EWALLET"
	Cash    AccountType = "CASH"
)

type (
	TransactionType string

	AccountType string

	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Account is a named funding source. InitialBalance is the value of the
	// account before any tracked transaction; the current balance is never
	// stored, only derived (see Summarize).
	Account struct {
		ID             string
		Name           string
		Type           AccountType
		InitialBalance Money
	}

	// Transaction is a single dated income or expense record against one
	// account. Amount is always positive; direction is carried by Type.
	// Date is the user-editable effective date used for all aggregation,
	// CreatedAt the immutable audit timestamp.
	Transaction struct {
		ID          string
		Amount      Money
		Type        TransactionType
		Category    Category
		Description string
		Date        Date
		AccountID   string
		CreatedAt   time.Time
	}

	// Budget is a monthly spending ceiling for one expense category.
	// The category is the natural key; a Limit of zero means "no budget set".
	Budget struct {
		Category Category
		Limit    Money
	}
)

// Others belongs to both category sets.
const (
	CategoryFood       Category = "Food"
	CategoryTransport  Category = "Transport"
	CategoryLeisure    Category = "Leisure"
	CategoryHousing    Category = "Housing"
	CategoryShopping   Category = "Shopping"
	CategoryHealth     Category = "Health"
	CategorySalary     Category = "Salary"
	CategoryFreelance  Category = "Freelance"
	CategoryGift       Category = "Gift"
	CategoryInvestment Category = "Investment"
	CategoryBonus      Category = "Bonus"
	CategoryOthers     Category = "Others"
)

// ExpenseCategories lists the categories valid for expense transactions,
// in display order. Budgets are keyed by these.
var ExpenseCategories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryLeisure,
	CategoryHousing,
	CategoryShopping,
	CategoryHealth,
	CategoryOthers,
}

// IncomeCategories lists the categories valid for income transactions.
var IncomeCategories = []Category{
	CategorySalary,
	CategoryFreelance,
	CategoryGift,
	CategoryInvestment,
	CategoryBonus,
	CategoryOthers,
}

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrEmptyName          = errors.New("empty account name")
	ErrEmptyAccountID     = errors.New("empty account id")
	ErrInvalidDate        = errors.New("invalid date")
)

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (t AccountType) Valid() bool {
	switch t {
	case Bank, EWallet, Cash:
		return true
	default:
		return false
	}
}

// ValidFor reports whether the category belongs to the category set of the
// given transaction direction.
func (c Category) ValidFor(t TransactionType) bool {
	set := ExpenseCategories
	if t == Income {
		set = IncomeCategories
	}
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// SameMonth reports whether the date falls in the same calendar month and
// year as the given instant.
func (d Date) SameMonth(now time.Time) bool {
	return d.Year() == now.Year() && d.Time.Month() == now.Month()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyName
	}
	if len(a.Name) > 100 {
		return errors.New("account name too long (max 100 characters)")
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Category.ValidFor(t.Type) {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccountID
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if !b.Category.ValidFor(Expense) {
		return ErrInvalidCategory
	}
	if b.Limit.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
