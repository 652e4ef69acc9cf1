package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{4, 4, 100},
		{5, 4, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.completed, tt.total), "Percent(%d, %d)", tt.completed, tt.total)
	}
}
