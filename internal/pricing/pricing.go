package pricing

import (
	"math"
	"strings"
)

// Quote holds the inputs of a single price calculation.
type Quote struct {
	Meters  float64
	Copies  int
	Machine string
	// BasePrice, when positive, replaces the tier tables with BasePrice × meters × copies.
	BasePrice float64
}

// Engine prices print jobs from a set of tier tables. It is safe for concurrent use.
type Engine struct {
	tables   Tables
	fallback int
}

// NewEngine validates the tables and builds an engine.
func NewEngine(tables Tables) (*Engine, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	fallback := 0
	for i, fam := range tables.Families {
		if fam.Match == "" {
			fallback = i
		}
	}
	return &Engine{tables: tables, fallback: fallback}, nil
}

// MustNewEngine is NewEngine for tables known to be valid, such as DefaultTables.
func MustNewEngine(tables Tables) *Engine {
	e, err := NewEngine(tables)
	if err != nil {
		panic(err)
	}
	return e
}

// Family returns the name of the family the machine label is priced with.
func (e *Engine) Family(machine string) string {
	return e.classify(machine).Name
}

// Price returns the job value in whole currency units.
func (e *Engine) Price(q Quote) int64 {
	if !(q.Meters > 0) {
		return 0
	}
	copies := q.Copies
	if copies < 1 {
		copies = 1
	}
	if q.BasePrice > 0 {
		return round(q.BasePrice * q.Meters * float64(copies))
	}
	return round(e.classify(q.Machine).amount(q.Meters, copies))
}

func (e *Engine) classify(machine string) Family {
	upper := strings.ToUpper(machine)
	for _, fam := range e.tables.Families {
		if fam.Match != "" && strings.Contains(upper, fam.Match) {
			return fam
		}
	}
	return e.tables.Families[e.fallback]
}

func (f Family) amount(meters float64, copies int) float64 {
	centimeters := meters * 100 * float64(copies)
	measure := centimeters
	if f.Basis == BasisMeters {
		measure = meters
	}

	value := meters * f.DefaultPerMeter
	for _, tier := range f.Tiers {
		if tier.matches(measure) {
			value = tier.charge(meters, centimeters)
			break
		}
	}

	if f.MultiplyCopies {
		value *= float64(copies)
	}
	return value
}

func (t Tier) charge(meters, centimeters float64) float64 {
	switch t.Charge {
	case ChargeFlat:
		return t.Rate
	case ChargePerCM:
		return centimeters * t.Rate
	default:
		return meters * t.Rate
	}
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
