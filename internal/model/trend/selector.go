package trend

import (
	"fmt"
	"sync"

	"max.ks1230/expense-ledger/internal/model/customerr"
)

// Range is the number of trailing months shown by a trend.
type Range int

const (
	ThreeMonths  Range = 3
	SixMonths    Range = 6
	TwelveMonths Range = 12
)

var rangeCodes = []Range{ThreeMonths, SixMonths, TwelveMonths}

func (r Range) Valid() bool {
	return r == ThreeMonths || r == SixMonths || r == TwelveMonths
}

func (r Range) String() string {
	return fmt.Sprintf("%d months", int(r))
}

func RangeFromCode(code int) (Range, error) {
	if code < 0 || code >= len(rangeCodes) {
		return 0, customerr.NewInvalidArgument("range", fmt.Sprintf("code %d is not between 0 and %d", code, len(rangeCodes)-1))
	}
	return rangeCodes[code], nil
}

// Selector holds the range picked by the user. It starts at three months and keeps the
// last valid selection.
type Selector struct {
	mu      sync.Mutex
	current Range
}

func NewSelector() *Selector {
	return &Selector{current: ThreeMonths}
}

func (s *Selector) Current() Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Select switches to the range behind code. An invalid code leaves the state unchanged.
func (s *Selector) Select(code int) (Range, error) {
	r, err := RangeFromCode(code)
	if err != nil {
		return s.Current(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = r
	return r, nil
}
