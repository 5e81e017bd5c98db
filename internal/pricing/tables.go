package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// Basis selects the measure a family compares against its tier bounds.
type Basis string

const (
	// BasisCentimeters compares meters × 100 × copies.
	BasisCentimeters Basis = "centimeters"
	// BasisMeters compares raw meters and ignores copies.
	BasisMeters Basis = "meters"
)

// Charge describes how a matched tier turns a length into an amount.
type Charge string

const (
	ChargeFlat     Charge = "flat"
	ChargePerCM    Charge = "per_cm"
	ChargePerMeter Charge = "per_meter"
)

// Tier is one step of a family's price function. Nil bounds are open.
type Tier struct {
	Min          *float64 `mapstructure:"min" yaml:"min,omitempty"`
	MinInclusive bool     `mapstructure:"min_inclusive" yaml:"min_inclusive,omitempty"`
	Max          *float64 `mapstructure:"max" yaml:"max,omitempty"`
	MaxInclusive bool     `mapstructure:"max_inclusive" yaml:"max_inclusive,omitempty"`
	Charge       Charge   `mapstructure:"charge" yaml:"charge"`
	Rate         float64  `mapstructure:"rate" yaml:"rate"`
}

func (t Tier) matches(measure float64) bool {
	if t.Min != nil {
		if t.MinInclusive && measure < *t.Min {
			return false
		}
		if !t.MinInclusive && measure <= *t.Min {
			return false
		}
	}
	if t.Max != nil {
		if t.MaxInclusive && measure > *t.Max {
			return false
		}
		if !t.MaxInclusive && measure >= *t.Max {
			return false
		}
	}
	return true
}

// Family is the tier table for one machine family.
type Family struct {
	Name string `mapstructure:"name" yaml:"name"`
	// Match is the upper-case substring that selects this family. Empty marks the fallback.
	Match           string  `mapstructure:"match" yaml:"match"`
	Basis           Basis   `mapstructure:"basis" yaml:"basis"`
	MultiplyCopies  bool    `mapstructure:"multiply_copies" yaml:"multiply_copies"`
	DefaultPerMeter float64 `mapstructure:"default_per_meter" yaml:"default_per_meter"`
	Tiers           []Tier  `mapstructure:"tiers" yaml:"tiers"`
}

// Tables holds the ordered family list. The first family whose Match is contained in the
// machine label wins; the fallback family is used when nothing matches.
type Tables struct {
	Families []Family `mapstructure:"families" yaml:"families"`
}

// Validate checks the tables are usable by the engine.
func (t Tables) Validate() error {
	if len(t.Families) == 0 {
		return errors.New("pricing: no families configured")
	}
	fallbacks := 0
	for i, fam := range t.Families {
		if strings.TrimSpace(fam.Name) == "" {
			return fmt.Errorf("pricing: family %d has no name", i)
		}
		if fam.Match == "" {
			fallbacks++
		}
		switch fam.Basis {
		case BasisCentimeters, BasisMeters:
		default:
			return fmt.Errorf("pricing: family %s has unknown basis %q", fam.Name, fam.Basis)
		}
		for j, tier := range fam.Tiers {
			switch tier.Charge {
			case ChargeFlat, ChargePerCM, ChargePerMeter:
			default:
				return fmt.Errorf("pricing: family %s tier %d has unknown charge %q", fam.Name, j, tier.Charge)
			}
		}
	}
	if fallbacks != 1 {
		return fmt.Errorf("pricing: expected exactly one fallback family, got %d", fallbacks)
	}
	return nil
}

func bound(v float64) *float64 { return &v }

// DefaultTables returns the legacy tier tables for UV, plotter and textile printing.
func DefaultTables() Tables {
	return Tables{Families: []Family{
		{
			Name:            "uv",
			Match:           "UV",
			Basis:           BasisCentimeters,
			DefaultPerMeter: 70000,
			Tiers: []Tier{
				{Max: bound(20), MaxInclusive: true, Charge: ChargeFlat, Rate: 25000},
				{Min: bound(20), Max: bound(50), MaxInclusive: true, Charge: ChargePerCM, Rate: 1250},
				{Min: bound(50), Max: bound(75), MaxInclusive: true, Charge: ChargePerCM, Rate: 850},
				{Min: bound(6000), Charge: ChargePerMeter, Rate: 65000},
				{Min: bound(75), Max: bound(99), Charge: ChargeFlat, Rate: 70000},
			},
		},
		{
			Name:            "plotter",
			Match:           "PLOTTER",
			Basis:           BasisMeters,
			MultiplyCopies:  true,
			DefaultPerMeter: 15000,
			Tiers: []Tier{
				{Min: bound(10), Charge: ChargePerMeter, Rate: 12000},
			},
		},
		{
			Name:            "textile",
			Basis:           BasisCentimeters,
			DefaultPerMeter: 22000,
			Tiers: []Tier{
				{Max: bound(20), MaxInclusive: true, Charge: ChargeFlat, Rate: 7000},
				{Max: bound(75), Charge: ChargePerCM, Rate: 300},
				{Min: bound(1000), Max: bound(2000), Charge: ChargePerMeter, Rate: 20000},
				{Min: bound(2000), Charge: ChargePerMeter, Rate: 18000},
				{Min: bound(75), MinInclusive: true, Max: bound(99), Charge: ChargeFlat, Rate: 22000},
			},
		},
	}}
}
