package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextTakeoutSeq(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   int
	}{
		{"no prior takeouts", nil, 1},
		{"gaps do not matter", []string{"LLEVAR-1", "LLEVAR-2", "LLEVAR-5"}, 6},
		{"wraps at 99", []string{"LLEVAR-99"}, 1},
		{"ignores dine-in tables", []string{"4", "12", "S/N"}, 1},
		{"ignores malformed labels", []string{"LLEVAR-abc", "LLEVAR-", "LLEVAR-120"}, 1},
		{"mixed labels", []string{"7", "LLEVAR-3", "LLEVAR-10", "S/N"}, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextTakeoutSeq(tt.labels))
		})
	}
}

func TestTakeoutSeq(t *testing.T) {
	n, ok := TakeoutSeq("LLEVAR-42")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = TakeoutSeq("4")
	assert.False(t, ok)

	_, ok = TakeoutSeq("LLEVAR-0")
	assert.False(t, ok)

	_, ok = TakeoutSeq("LLEVAR-100")
	assert.False(t, ok)
}

func TestTakeoutLabel(t *testing.T) {
	assert.Equal(t, "LLEVAR-6", TakeoutLabel(6))
	assert.True(t, IsTakeoutLabel("LLEVAR-6"))
	assert.False(t, IsTakeoutLabel("S/N"))
}
