package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobStatus(t *testing.T) {
	for _, s := range JobStatuses() {
		got, err := ParseJobStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseJobStatus("en proceso")
	assert.Error(t, err)
	_, err = ParseJobStatus("")
	assert.Error(t, err)
}

func TestJobStatuses_ReturnsCopy(t *testing.T) {
	statuses := JobStatuses()
	statuses[0] = "tampered"

	assert.Equal(t, JobStatusPending, JobStatuses()[0])
}

func TestJob_MachineLabel(t *testing.T) {
	machine := "Plotter X1"

	assert.Equal(t, "Plotter X1", (&Job{Machine: &machine}).MachineLabel())
	assert.Empty(t, (&Job{}).MachineLabel())
}
