package expense

import (
	"fmt"

	"max.ks1230/expense-ledger/internal/model/customerr"
)

type Category uint8

// The zero Category is unset.
const (
	Food Category = iota + 1
	Shopping
	Pleasure
	All
)

type categoryInfo struct {
	name  string
	label string
	color uint32
}

var categories = map[Category]categoryInfo{
	Food:     {name: "FOOD", label: "Food", color: 0xFF00FF00},
	Shopping: {name: "SHOPPING", label: "Shopping", color: 0xFFFFC800},
	Pleasure: {name: "PLEASURE", label: "Pleasure", color: 0xFF0000FF},
	All:      {name: "ALL", label: "All", color: 0x00000000},
}

// selection order used by category pickers
var categoryCodes = []Category{Food, Shopping, Pleasure, All}

func Categories() []Category {
	res := make([]Category, len(categoryCodes))
	copy(res, categoryCodes)
	return res
}

func CategoryFromCode(code int) (Category, error) {
	if code < 0 || code >= len(categoryCodes) {
		return 0, customerr.NewInvalidArgument("category", fmt.Sprintf("code %d is not between 0 and %d", code, len(categoryCodes)-1))
	}
	return categoryCodes[code], nil
}

func ParseCategory(name string) (Category, error) {
	for c, info := range categories {
		if info.name == name {
			return c, nil
		}
	}
	return 0, customerr.NewValidation("category", fmt.Sprintf("unknown category %q", name))
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

func (c Category) Label() string {
	return categories[c].label
}

// Color is the display color packed as 0xAARRGGBB.
func (c Category) Color() uint32 {
	return categories[c].color
}

func (c Category) String() string {
	if info, ok := categories[c]; ok {
		return info.name
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, customerr.NewValidation("category", "unset")
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
