package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSATScore(t *testing.T) {
	assert.InDelta(t, 0.0, CSATScore(1.0), 0.001)
	assert.InDelta(t, 50.0, CSATScore(3.0), 0.001)
	assert.InDelta(t, 100.0, CSATScore(5.0), 0.001)
	assert.InDelta(t, 81.25, CSATScore(4.25), 0.001)

	// Averages below the scale floor clamp to zero.
	assert.Equal(t, 0.0, CSATScore(0))
}

func TestNPSScore(t *testing.T) {
	// 6 promoters, 2 passives, 2 detractors out of 10 -> +40.
	assert.InDelta(t, 40.0, NPSScore(6, 2, 2), 0.001)

	// All detractors.
	assert.InDelta(t, -100.0, NPSScore(0, 0, 5), 0.001)

	// All promoters.
	assert.InDelta(t, 100.0, NPSScore(5, 0, 0), 0.001)

	// No numeric answers yet.
	assert.Equal(t, 0.0, NPSScore(0, 0, 0))
}
