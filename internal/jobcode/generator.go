// Package jobcode allocates the short numeric codes printed on job tickets.
package jobcode

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"
)

const (
	minCode = 1000
	maxCode = 9999

	// DefaultWindow is how long a code stays reserved after its job is created.
	DefaultWindow = 7 * 24 * time.Hour
	// DefaultMaxAttempts bounds the number of candidates drawn per allocation.
	DefaultMaxAttempts = 200
)

// ErrCodeSpaceExhausted is returned when no free code was found within the attempt budget.
var ErrCodeSpaceExhausted = errors.New("jobcode: no free code found")

// Lookup reports whether a job with the code was created at or after since.
type Lookup interface {
	CodeTaken(ctx context.Context, code string, since time.Time) (bool, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, code string, since time.Time) (bool, error)

// CodeTaken calls f.
func (f LookupFunc) CodeTaken(ctx context.Context, code string, since time.Time) (bool, error) {
	return f(ctx, code, since)
}

// Options tune a Generator. Zero values select the defaults.
type Options struct {
	Window      time.Duration
	MaxAttempts int
	Now         func() time.Time
	// Intn returns a uniform integer in [0, n).
	Intn func(n int) int
	// OnAttempts observes the number of candidates drawn by each successful allocation.
	OnAttempts func(n int)
}

// Generator draws four-digit codes that are unique within a trailing window. Two concurrent
// allocations may still pick the same code before either job is stored.
type Generator struct {
	lookup      Lookup
	window      time.Duration
	maxAttempts int
	now         func() time.Time
	intn        func(n int) int
	onAttempts  func(n int)
}

// NewGenerator builds a generator backed by lookup.
func NewGenerator(lookup Lookup, opts Options) *Generator {
	g := &Generator{
		lookup:      lookup,
		window:      opts.Window,
		maxAttempts: opts.MaxAttempts,
		now:         opts.Now,
		intn:        opts.Intn,
		onAttempts:  opts.OnAttempts,
	}
	if g.window <= 0 {
		g.window = DefaultWindow
	}
	if g.maxAttempts <= 0 {
		g.maxAttempts = DefaultMaxAttempts
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.intn == nil {
		g.intn = rand.Intn
	}
	return g
}

// Generate returns the first drawn code with no job created inside the window.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	since := g.now().Add(-g.window)
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code := strconv.Itoa(minCode + g.intn(maxCode-minCode+1))
		taken, err := g.lookup.CodeTaken(ctx, code, since)
		if err != nil {
			return "", err
		}
		if !taken {
			if g.onAttempts != nil {
				g.onAttempts(attempt)
			}
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
