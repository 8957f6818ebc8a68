package trend

import (
	"time"

	"github.com/jinzhu/now"
	"go.uber.org/zap"
	"max.ks1230/expense-ledger/internal/entity/expense"
	"max.ks1230/expense-ledger/internal/logger"
	"max.ks1230/expense-ledger/internal/model/customerr"
)

type config interface {
	PlotTop() float64
	PlotBottom() float64
	Locale() string
}

// Point is one month bucket of a trend. Y is the plot coordinate of Average.
type Point struct {
	Label   string
	Month   time.Month
	Year    int
	Average float64
	Y       float64
}

type Trend struct {
	Range  Range
	Points []Point
}

func (t Trend) Labels() []string {
	res := make([]string, 0, len(t.Points))
	for _, p := range t.Points {
		res = append(res, p.Label)
	}
	return res
}

func (t Trend) Values() []float64 {
	res := make([]float64, 0, len(t.Points))
	for _, p := range t.Points {
		res = append(res, p.Y)
	}
	return res
}

// Aggregator turns expenses into per-month averages scaled into a plot area whose
// top coordinate is smaller than its bottom one, as on screen.
type Aggregator struct {
	top    float64
	bottom float64
	locale string
}

func NewAggregator(config config) *Aggregator {
	top, bottom := config.PlotTop(), config.PlotBottom()
	if top > bottom {
		top, bottom = bottom, top
	}
	return &Aggregator{
		top:    top,
		bottom: bottom,
		locale: config.Locale(),
	}
}

func (a *Aggregator) Bounds() (top, bottom float64) {
	return a.top, a.bottom
}

// ComputeTrend buckets expenses into the rng months ending with ref's month, oldest first.
// Expenses are matched on month of year only, so a bucket also collects expenses from the
// same month of other years.
func (a *Aggregator) ComputeTrend(expenses []expense.Expense, rng Range, ref time.Time) (Trend, error) {
	if expenses == nil {
		return Trend{}, customerr.NewInvalidArgument("expenses", "collection is absent")
	}
	if !rng.Valid() {
		return Trend{}, customerr.NewInvalidArgument("range", rng.String()+" is not supported")
	}
	logger.Debug("ComputeTrend", zap.Int("range", int(rng)), zap.Int("expenses", len(expenses)))

	start := now.With(ref).BeginningOfMonth()
	points := make([]Point, 0, rng)
	for i := int(rng) - 1; i >= 0; i-- {
		month := start.AddDate(0, -i, 0)
		points = append(points, Point{
			Label:   monthLabel(a.locale, month.Month()),
			Month:   month.Month(),
			Year:    month.Year(),
			Average: averageOf(expenses, month.Month()),
		})
	}

	a.scale(points)
	return Trend{Range: rng, Points: points}, nil
}

func averageOf(expenses []expense.Expense, month time.Month) float64 {
	sum, count := 0.0, 0
	for _, exp := range expenses {
		if exp.Date().Month == month {
			sum += exp.Amount()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func (a *Aggregator) scale(points []Point) {
	peak := 0.0
	for _, p := range points {
		if p.Average > peak {
			peak = p.Average
		}
	}

	height := a.bottom - a.top
	for i := range points {
		v := points[i].Average
		if v == 0 || peak <= 0 {
			points[i].Y = a.bottom
			continue
		}
		points[i].Y = clamp(a.bottom-(v/peak)*height, a.top, a.bottom)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
