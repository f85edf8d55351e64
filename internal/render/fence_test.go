package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFence(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantLen int
	}{
		{"empty content", "", 3},
		{"no backticks", "fn main() {}", 3},
		{"single backtick", "a `code` span", 3},
		{"double run", "``", 3},
		{"triple run", "```rust\n```", 4},
		{"longest run wins", "a``b````c``d", 5},
		{"run at end", "text`````", 6},
		{"nested fence in escaped block", "~~~\n```\n~~~", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fence := Fence(tt.content)
			require.Len(t, fence, tt.wantLen)
			assert.Equal(t, strings.Repeat("`", tt.wantLen), fence)

			// The delimiter must never appear as a full-length run in the
			// wrapped content.
			assert.NotContains(t, tt.content, fence)
		})
	}
}

func TestFenceLengthLaw(t *testing.T) {
	// For a longest run of length k the fence has length max(3, k+1).
	for k := 0; k <= 10; k++ {
		content := "x" + strings.Repeat("`", k) + "x"
		want := k + 1
		if want < 3 {
			want = 3
		}
		assert.Len(t, Fence(content), want, "longest run %d", k)
	}
}
