package order

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"max.ks1230/expense-ledger/internal/entity/expense"
	"max.ks1230/expense-ledger/internal/model/customerr"
)

// Comparator returns a negative number when a sorts before b, zero on a tie.
type Comparator func(a, b expense.Expense) int

// Ordering selects one of the six supported orderings by its code.
type Ordering int

const (
	DateDescending Ordering = iota
	DateAscending
	NameDescending
	NameAscending
	AmountDescending
	AmountAscending
)

var orderings = []struct {
	label string
	cmp   Comparator
}{
	DateDescending:   {"Date descending", reversed(byDate)},
	DateAscending:    {"Date ascending", byDate},
	NameDescending:   {"Name descending", reversed(byName)},
	NameAscending:    {"Name ascending", byName},
	AmountDescending: {"Amount descending", reversed(byAmount)},
	AmountAscending:  {"Amount ascending", byAmount},
}

func Orderings() []Ordering {
	res := make([]Ordering, 0, len(orderings))
	for code := range orderings {
		res = append(res, Ordering(code))
	}
	return res
}

func (o Ordering) Valid() bool {
	return o >= 0 && int(o) < len(orderings)
}

func (o Ordering) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
	return orderings[o].label
}

// For returns the comparator behind an ordering code.
func For(code int) (Comparator, error) {
	o := Ordering(code)
	if !o.Valid() {
		return nil, customerr.NewInvalidArgument("order", fmt.Sprintf("code %d is not between 0 and %d", code, len(orderings)-1))
	}
	return orderings[o].cmp, nil
}

// Sort returns a stably sorted copy of expenses.
func Sort(expenses []expense.Expense, c Comparator) []expense.Expense {
	res := slices.Clone(expenses)
	if res == nil {
		res = make([]expense.Expense, 0)
	}
	slices.SortStableFunc(res, c)
	return res
}

func byDate(a, b expense.Expense) int {
	return a.Date().Compare(b.Date())
}

func byName(a, b expense.Expense) int {
	return strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name()))
}

func byAmount(a, b expense.Expense) int {
	return cmp.Compare(a.Amount(), b.Amount())
}

func reversed(c Comparator) Comparator {
	return func(a, b expense.Expense) int {
		return c(b, a)
	}
}
