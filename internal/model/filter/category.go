package filter

import (
	"max.ks1230/expense-ledger/internal/entity/expense"
	"max.ks1230/expense-ledger/internal/model/customerr"
)

// ByCategory keeps the expenses of the given category in their input order.
// expense.All keeps everything. The input slice is never modified.
func ByCategory(expenses []expense.Expense, category expense.Category) ([]expense.Expense, error) {
	if expenses == nil {
		return nil, customerr.NewInvalidArgument("expenses", "collection is absent")
	}
	if !category.Valid() {
		return nil, customerr.NewInvalidArgument("category", "is unset")
	}

	if category == expense.All {
		res := make([]expense.Expense, len(expenses))
		copy(res, expenses)
		return res, nil
	}

	res := make([]expense.Expense, 0)
	for _, exp := range expenses {
		if exp.Category() == category {
			res = append(res, exp)
		}
	}
	return res, nil
}
