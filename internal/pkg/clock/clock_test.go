package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := New(loc).Now()
	assert.Equal(t, loc, now.Location())
}

func TestNew_NilLocationIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, New(nil).Now().Location())
}

func TestFixed(t *testing.T) {
	at := time.Date(2024, 1, 8, 9, 6, 0, 0, time.UTC)
	c := Fixed(at)
	assert.Equal(t, at, c.Now())
	assert.Equal(t, at, c.Now())
}
