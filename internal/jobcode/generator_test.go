package jobcode

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockedRange(lo, hi int) LookupFunc {
	return func(ctx context.Context, code string, since time.Time) (bool, error) {
		n, err := strconv.Atoi(code)
		if err != nil {
			return false, err
		}
		return n >= lo && n <= hi, nil
	}
}

// sequence replays draws in order, then repeats the last one.
func sequence(draws ...int) func(int) int {
	i := 0
	return func(n int) int {
		v := draws[i]
		if i < len(draws)-1 {
			i++
		}
		return v
	}
}

func TestGenerate_SkipsBlockedCodes(t *testing.T) {
	gen := NewGenerator(blockedRange(1000, 1010), Options{
		Intn: sequence(0, 5, 10, 11),
	})

	code, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1011", code)
}

func TestGenerate_NeverReturnsBlockedCode(t *testing.T) {
	gen := NewGenerator(blockedRange(1000, 1010), Options{})

	for i := 0; i < 500; i++ {
		code, err := gen.Generate(context.Background())
		require.NoError(t, err)
		require.Len(t, code, 4)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.True(t, n >= 1011 && n <= 9999, "code %s", code)
	}
}

func TestGenerate_UsesTrailingWindow(t *testing.T) {
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	var gotSince time.Time
	lookup := LookupFunc(func(ctx context.Context, code string, since time.Time) (bool, error) {
		gotSince = since
		return false, nil
	})

	_, err := NewGenerator(lookup, Options{Now: func() time.Time { return now }}).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now.Add(-7*24*time.Hour), gotSince)
}

func TestGenerate_BoundedAttempts(t *testing.T) {
	calls := 0
	lookup := LookupFunc(func(ctx context.Context, code string, since time.Time) (bool, error) {
		calls++
		return true, nil
	})

	_, err := NewGenerator(lookup, Options{MaxAttempts: 25}).Generate(context.Background())
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
	assert.Equal(t, 25, calls)
}

func TestGenerate_LookupErrorAborts(t *testing.T) {
	boom := errors.New("db down")
	lookup := LookupFunc(func(ctx context.Context, code string, since time.Time) (bool, error) {
		return false, boom
	})

	_, err := NewGenerator(lookup, Options{}).Generate(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestGenerate_ReportsAttempts(t *testing.T) {
	var observed int
	gen := NewGenerator(blockedRange(1000, 1001), Options{
		Intn:       sequence(0, 1, 2),
		OnAttempts: func(n int) { observed = n },
	})

	code, err := gen.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1002", code)
	assert.Equal(t, 3, observed)
}
