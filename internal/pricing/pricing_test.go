package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_DefaultTables(t *testing.T) {
	engine := MustNewEngine(DefaultTables())

	cases := []struct {
		name  string
		quote Quote
		want  int64
	}{
		{"uv short run is flat", Quote{Meters: 0.1, Copies: 1, Machine: "UV"}, 25000},
		{"uv label is case insensitive", Quote{Meters: 0.1, Copies: 1, Machine: "impresora uv-2"}, 25000},
		{"uv per cm up to 50", Quote{Meters: 0.4, Copies: 1, Machine: "UV"}, 50000},
		{"uv per cm up to 75", Quote{Meters: 0.6, Copies: 1, Machine: "UV"}, 51000},
		{"uv 75cm stays per cm", Quote{Meters: 0.75, Copies: 1, Machine: "UV"}, 63750},
		{"uv carve out", Quote{Meters: 0.8, Copies: 1, Machine: "UV"}, 70000},
		{"uv default per meter", Quote{Meters: 2, Copies: 1, Machine: "UV"}, 140000},
		{"uv long run", Quote{Meters: 61, Copies: 1, Machine: "UV"}, 3965000},
		{"uv wins over plotter", Quote{Meters: 2, Copies: 1, Machine: "UV Plotter"}, 140000},
		{"plotter short", Quote{Meters: 2, Copies: 1, Machine: "Plotter X1"}, 30000},
		{"plotter long with copies", Quote{Meters: 11, Copies: 2, Machine: "PLOTTER"}, 264000},
		{"plotter threshold ignores copies", Quote{Meters: 6, Copies: 2, Machine: "plotter"}, 180000},
		{"textile flat", Quote{Meters: 0.1, Copies: 1, Machine: "DTF Textil"}, 7000},
		{"textile per cm", Quote{Meters: 0.5, Copies: 1, Machine: ""}, 15000},
		{"textile carve out at 75cm", Quote{Meters: 0.75, Copies: 1}, 22000},
		{"textile default", Quote{Meters: 5, Copies: 1}, 110000},
		{"textile mid band", Quote{Meters: 15, Copies: 1}, 300000},
		{"textile copies push to long band", Quote{Meters: 15, Copies: 2}, 270000},
		{"textile 2000cm falls to default", Quote{Meters: 20, Copies: 1}, 440000},
		{"textile copies count in centimeters", Quote{Meters: 0.3, Copies: 2}, 18000},
		{"fractional meters are rounded", Quote{Meters: 1.234, Copies: 1}, 27148},
		{"override wins", Quote{Meters: 5, Copies: 2, Machine: "UV", BasePrice: 100}, 1000},
		{"zero meters", Quote{Meters: 0, Copies: 3, Machine: "UV", BasePrice: 100}, 0},
		{"negative meters", Quote{Meters: -2, Copies: 1}, 0},
		{"nan meters", Quote{Meters: math.NaN(), Copies: 1}, 0},
		{"zero copies treated as one", Quote{Meters: 2, Copies: 0, Machine: "Plotter"}, 30000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.Price(tc.quote))
		})
	}
}

func TestFamily(t *testing.T) {
	engine := MustNewEngine(DefaultTables())

	assert.Equal(t, "uv", engine.Family("Mimaki UV"))
	assert.Equal(t, "plotter", engine.Family("plotter de corte"))
	assert.Equal(t, "textile", engine.Family(""))
	assert.Equal(t, "textile", engine.Family("Epson F2100"))
}

func TestNewEngine_RejectsInvalidTables(t *testing.T) {
	_, err := NewEngine(Tables{})
	require.Error(t, err)

	tables := DefaultTables()
	tables.Families[0].Tiers[0].Charge = "per_inch"
	_, err = NewEngine(tables)
	require.Error(t, err)

	tables = DefaultTables()
	tables.Families[0].Match = ""
	_, err = NewEngine(tables)
	require.ErrorContains(t, err, "fallback")
}
