package account

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"max.ks1230/expense-ledger/internal/entity/expense"
	"max.ks1230/expense-ledger/internal/model/customerr"
)

// Account is a credential pair with the expenses it owns.
// The password is kept in plaintext, the same way it is persisted.
type Account struct {
	username string
	password string
	expenses []expense.Expense
}

func New(username, password string) (*Account, error) {
	return WithExpenses(username, password, nil)
}

func WithExpenses(username, password string, expenses []expense.Expense) (*Account, error) {
	if strings.TrimSpace(username) == "" {
		return nil, customerr.NewValidation("username", "is blank")
	}
	if strings.TrimSpace(password) == "" {
		return nil, customerr.NewValidation("password", "is blank")
	}
	return &Account{
		username: username,
		password: password,
		expenses: cloneExpenses(expenses),
	}, nil
}

func (a *Account) Username() string {
	return a.username
}

func (a *Account) Password() string {
	return a.password
}

// Expenses returns a copy; it is empty, never nil, for an account without expenses.
func (a *Account) Expenses() []expense.Expense {
	return cloneExpenses(a.expenses)
}

func (a *Account) AddExpense(e expense.Expense) {
	a.expenses = append(a.expenses, e)
}

func (a *Account) ResetExpenses() {
	a.expenses = nil
}

func (a *Account) ReplaceExpenses(expenses []expense.Expense) {
	a.expenses = cloneExpenses(expenses)
}

func cloneExpenses(expenses []expense.Expense) []expense.Expense {
	res := make([]expense.Expense, len(expenses))
	copy(res, expenses)
	return res
}

type document struct {
	Username string            `json:"username"`
	Password string            `json:"password"`
	Expenses []expense.Expense `json:"expenses"`
}

// Marshal encodes the whole account as the persisted ledger document.
func Marshal(a *Account) ([]byte, error) {
	return json.Marshal(toDocument(a))
}

// MarshalIndent is Marshal for human readers.
func MarshalIndent(a *Account) ([]byte, error) {
	return json.MarshalIndent(toDocument(a), "", "  ")
}

func Unmarshal(data []byte) (*Account, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	acc, err := WithExpenses(doc.Username, doc.Password, doc.Expenses)
	if err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return acc, nil
}

func toDocument(a *Account) document {
	return document{
		Username: a.username,
		Password: a.password,
		Expenses: a.Expenses(),
	}
}
