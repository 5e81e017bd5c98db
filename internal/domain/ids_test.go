package domain

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientID_EmbedsTime(t *testing.T) {
	at := time.Date(2025, 6, 1, 14, 5, 9, 123*int(time.Millisecond), time.UTC)

	id, err := NewClientID(at)
	require.NoError(t, err)

	assert.Equal(t, at, ClientIDTime(id))
	assert.Equal(t, 7, int(id.Version()))
}

func TestClientIDBounds_OrderByCreation(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 23, 59, 59, 999*int(time.Millisecond), time.UTC)

	first, err := NewClientID(start)
	require.NoError(t, err)
	last, err := NewClientID(end)
	require.NoError(t, err)
	before, err := NewClientID(start.Add(-time.Millisecond))
	require.NoError(t, err)
	after, err := NewClientID(end.Add(time.Millisecond))
	require.NoError(t, err)

	floor := ClientIDFloor(start)
	ceil := ClientIDCeil(end)

	assert.GreaterOrEqual(t, bytes.Compare(first[:], floor[:]), 0)
	assert.LessOrEqual(t, bytes.Compare(last[:], ceil[:]), 0)
	assert.Negative(t, bytes.Compare(before[:], floor[:]))
	assert.Positive(t, bytes.Compare(after[:], ceil[:]))
}
