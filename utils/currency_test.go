package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartorder/backend/utils"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "€ 12,50", utils.FormatPrice(12.5))
	assert.Equal(t, "€ 0,00", utils.FormatPrice(0))
	assert.Equal(t, "€ 7,80", utils.FormatPrice(7.8))
}

func TestFormatElapsedClock(t *testing.T) {
	assert.Equal(t, "00:00", utils.FormatElapsedClock(0))
	assert.Equal(t, "00:59", utils.FormatElapsedClock(59))
	assert.Equal(t, "01:00", utils.FormatElapsedClock(60))
	assert.Equal(t, "02:05", utils.FormatElapsedClock(125))
	// Melewati satu jam tetap MM:SS, tidak roll ke jam
	assert.Equal(t, "75:00", utils.FormatElapsedClock(4500))
	assert.Equal(t, "00:00", utils.FormatElapsedClock(-5))
}
