package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowMidpointStaysInsideTheWindowMonth(t *testing.T) {
	start := time.Date(2023, 1, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	mid := windowMidpoint(start, end)
	assert.Equal(t, time.January, mid.Month(), "a window ending on the 1st must not bucket into the next month")
	assert.False(t, mid.Before(start))
	assert.True(t, mid.Before(end))
}
