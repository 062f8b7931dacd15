package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosest_ExactMatch(t *testing.T) {
	name, dist := Closest("verbose", []string{"verbose", "quiet"})
	assert.Equal(t, "verbose", name)
	assert.Equal(t, 0, dist)
}

func TestClosest_OneEditAway(t *testing.T) {
	name, dist := Closest("verbos", []string{"verbose", "quiet"})
	assert.Equal(t, "verbose", name)
	assert.Equal(t, 1, dist)
}

func TestClosest_NothingWithinDistance(t *testing.T) {
	name, dist := Closest("xyz123", []string{"verbose", "quiet"})
	assert.Equal(t, "", name)
	assert.Equal(t, 0, dist)
}

func TestClosest_EmptyKnownList(t *testing.T) {
	name, dist := Closest("verbose", nil)
	assert.Equal(t, "", name)
	assert.Equal(t, 0, dist)
}

func TestClosest_CaseInsensitive(t *testing.T) {
	name, dist := Closest("VERBOSE", []string{"verbose"})
	assert.Equal(t, "verbose", name)
	assert.Equal(t, 0, dist)
}
