package forumtopic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"plain", "News", 128, "News"},
		{"collapses whitespace", "  Release\n\n\tnotes  ", 128, "Release notes"},
		{"drops invisible", "Ne\u200bws\ufeff", 128, "News"},
		{"only whitespace", " \n\t ", 128, ""},
		{"cuts by characters", "ééé", 2, "éé"},
		{"trims after cut", "ab cd", 3, "ab"},
		{"long", strings.Repeat("x", 200), MaxTitleLength, strings.Repeat("x", 128)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.in, tt.max))
		})
	}
}

func TestSecureRandomID(t *testing.T) {
	seen := make(map[int64]bool)
	for range 100 {
		id := secureRandomID()
		assert.NotZero(t, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 90)
}
