package expense

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jinzhu/now"
	"max.ks1230/expense-ledger/internal/model/customerr"
)

const (
	MaxNameLength        = 10
	MaxDescriptionLength = 56
)

// Expense is a validated spending record. It cannot be changed after New.
type Expense struct {
	name        string
	date        CalendarDate
	category    Category
	amount      float64
	description string
}

// New validates every field against today's date before building the expense.
func New(name string, date CalendarDate, category Category, amount float64, description string) (Expense, error) {
	return newAt(name, date, category, amount, description, DateOf(now.BeginningOfDay()))
}

func newAt(name string, date CalendarDate, category Category, amount float64, description string, today CalendarDate) (Expense, error) {
	e := Expense{
		name:        name,
		date:        date,
		category:    category,
		amount:      amount,
		description: description,
	}
	if err := e.validate(); err != nil {
		return Expense{}, err
	}
	if date.After(today) {
		return Expense{}, customerr.NewValidation("date", fmt.Sprintf("%s is in the future", date))
	}
	return e, nil
}

func (e Expense) validate() error {
	if err := checkText("name", e.name, MaxNameLength); err != nil {
		return err
	}
	if err := checkText("description", e.description, MaxDescriptionLength); err != nil {
		return err
	}
	if _, err := NewDate(e.date.Year, e.date.Month, e.date.Day); err != nil {
		return err
	}
	if !e.category.Valid() || e.category == All {
		return customerr.NewValidation("category", "must be one of FOOD, SHOPPING, PLEASURE")
	}
	if math.IsNaN(e.amount) || math.IsInf(e.amount, 0) {
		return customerr.NewValidation("amount", "must be a finite number")
	}
	return nil
}

func checkText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return customerr.NewValidation(field, "is blank")
	}
	if utf8.RuneCountInString(value) > max {
		return customerr.NewValidation(field, fmt.Sprintf("longer than %d characters", max))
	}
	return nil
}

func (e Expense) Name() string {
	return e.name
}

func (e Expense) Date() CalendarDate {
	return e.date
}

func (e Expense) Category() Category {
	return e.category
}

func (e Expense) Amount() float64 {
	return e.amount
}

func (e Expense) Description() string {
	return e.description
}

type dateRecord struct {
	Day      int  `json:"day"`
	Month    int  `json:"month"`
	Year     int  `json:"year"`
	LeapYear bool `json:"leapYear"`
}

type record struct {
	Name        string     `json:"name"`
	Date        dateRecord `json:"date"`
	Category    Category   `json:"category"`
	Amount      float64    `json:"amount"`
	Description string     `json:"desc"`
}

func (e Expense) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		Name: e.name,
		Date: dateRecord{
			Day:      e.date.Day,
			Month:    int(e.date.Month),
			Year:     e.date.Year,
			LeapYear: e.date.LeapYear(),
		},
		Category:    e.category,
		Amount:      e.amount,
		Description: e.description,
	})
}

// UnmarshalJSON checks the stored shape. The future-date rule only applies when an
// expense is first created, so stored expenses are not rejected for it.
func (e *Expense) UnmarshalJSON(data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	decoded := Expense{
		name:        rec.Name,
		date:        CalendarDate{Day: rec.Date.Day, Month: time.Month(rec.Date.Month), Year: rec.Date.Year},
		category:    rec.Category,
		amount:      rec.Amount,
		description: rec.Description,
	}
	if err := decoded.validate(); err != nil {
		return err
	}
	*e = decoded
	return nil
}
