package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pujaripavansai28/LMS/core"
)

func TestNewAssignment_deadline(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2030-01-02T15:04:05+02:00", time.Date(2030, 1, 2, 13, 4, 5, 0, time.UTC)},
		{"2030-01-02T15:04", time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)},
		{"2030-01-02 15:04", time.Date(2030, 1, 2, 15, 4, 0, 0, time.UTC)},
		{"2030-01-02", time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := NewAssignment{Deadline: tt.in}.deadline()
			require.NoError(t, err)
			assert.True(t, d.Valid)
			assert.True(t, tt.want.Equal(d.Time), "got %v", d.Time)
		})
	}

	d, err := NewAssignment{}.deadline()
	require.NoError(t, err)
	assert.False(t, d.Valid)

	_, err = NewAssignment{Deadline: "tomorrow"}.deadline()
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "deadline", vErr.Fields[0].Field)
}
