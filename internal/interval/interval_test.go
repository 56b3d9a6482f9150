package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPimsleurInterval(t *testing.T) {
	tables := NewTables()

	tests := []struct {
		name         string
		correctInRow int
		expected     float64
	}{
		{name: "first slot", correctInRow: 0, expected: 5},
		{name: "second slot", correctInRow: 1, expected: 25},
		{name: "third slot", correctInRow: 2, expected: 125},
		{name: "negative input saturates low", correctInRow: -5, expected: 5},
		{name: "huge input saturates high", correctInRow: 999, expected: tables.pimsleur[14]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tables.NextPimsleurInterval(tt.correctInRow))
		})
	}
}

func TestNextPimsleurInterval_Growth(t *testing.T) {
	tables := NewTables()
	prev := tables.NextPimsleurInterval(0)
	assert.Equal(t, 5.0, prev)
	for slot := 1; slot <= 14; slot++ {
		current := tables.NextPimsleurInterval(slot)
		assert.Equal(t, prev*5, current, "slot %d", slot)
		prev = current
	}
	// Saturated beyond the last slot.
	assert.Equal(t, tables.NextPimsleurInterval(14), tables.NextPimsleurInterval(15))
}

func TestNextSessionIntervalSecs(t *testing.T) {
	tables := NewTables()

	assert.Equal(t, 86400.0, tables.NextSessionIntervalSecs(0))

	prev := tables.NextSessionIntervalSecs(0)
	for box := 1; box <= 15; box++ {
		current := tables.NextSessionIntervalSecs(box)
		assert.GreaterOrEqual(t, current, prev*1.7-1e-6, "box %d", box)
		prev = current
	}

	// Out-of-range boxes saturate instead of panicking.
	assert.Equal(t, tables.NextSessionIntervalSecs(0), tables.NextSessionIntervalSecs(-3))
	assert.Equal(t, tables.NextSessionIntervalSecs(15), tables.NextSessionIntervalSecs(500))
}

func TestNextSessionIntervalDays(t *testing.T) {
	tables := NewTables()

	tests := []struct {
		name     string
		box      int
		expected int
	}{
		{name: "box 0 is one day", box: 0, expected: 1},
		{name: "box 1 is four days", box: 1, expected: 4},
		{name: "box 2 rounds up", box: 2, expected: 7},
		{name: "negative saturates", box: -1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tables.NextSessionIntervalDays(tt.box))
		})
	}

	assert.Equal(t, tables.NextSessionIntervalDays(15), tables.NextSessionIntervalDays(99))
}
