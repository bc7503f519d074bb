package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerationStatus_CanAdvanceTo(t *testing.T) {
	cases := []struct {
		from, to GenerationStatus
		want     bool
	}{
		{"", StatusWait, true},
		{StatusWait, StatusWait, true},
		{StatusWait, StatusProcessing, true},
		{StatusWait, StatusSuccess, true},
		{StatusWait, StatusFail, true},
		{StatusProcessing, StatusWait, false},
		{StatusProcessing, StatusFail, true},
		{StatusSuccess, StatusProcessing, false},
		{StatusSuccess, StatusFail, false},
		{StatusFail, StatusSuccess, false},
		{StatusFail, StatusFail, true},
		{StatusWait, "queued", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.from.CanAdvanceTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestGenerationStatus_Terminal(t *testing.T) {
	assert.True(t, StatusSuccess.Terminal())
	assert.True(t, StatusFail.Terminal())
	assert.False(t, StatusWait.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}
