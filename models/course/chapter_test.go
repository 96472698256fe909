package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccessChapter(t *testing.T) {
	tests := []struct {
		name      string
		isFree    bool
		purchased bool
		want      bool
	}{
		{"free chapter without purchase", true, false, true},
		{"free chapter with purchase", true, true, true},
		{"paid chapter without purchase", false, false, false},
		{"paid chapter with purchase", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &Chapter{IsFree: tt.isFree}
			assert.Equal(t, tt.want, CanAccessChapter(ch, tt.purchased))
		})
	}
}

func TestCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0.0, CompletionPercentage(0, 0), "empty course must not divide by zero")
	assert.Equal(t, 0.0, CompletionPercentage(0, 4))
	assert.Equal(t, 25.0, CompletionPercentage(1, 4))
	assert.Equal(t, 50.0, CompletionPercentage(2, 4))
	assert.Equal(t, 100.0, CompletionPercentage(4, 4))
	assert.Equal(t, 33.33, CompletionPercentage(1, 3), "rounds to two decimals")
	assert.Equal(t, 66.67, CompletionPercentage(2, 3), "rounds half up")
	assert.Equal(t, 14.29, CompletionPercentage(1, 7))
}

func TestIsValidLevel(t *testing.T) {
	for _, level := range Levels {
		assert.True(t, IsValidLevel(level))
	}
	assert.False(t, IsValidLevel("D1"))
	assert.False(t, IsValidLevel("a1"))
	assert.False(t, IsValidLevel(""))
}
