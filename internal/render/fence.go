package render

import "strings"

const (
	fenceChar = '`'
	minFence  = 3
)

// Fence returns a backtick delimiter guaranteed not to collide with the
// content it will wrap: one longer than the longest contiguous backtick
// run inside content, never shorter than the format minimum of three.
func Fence(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == fenceChar {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	n := longest + 1
	if n < minFence {
		n = minFence
	}
	return strings.Repeat(string(fenceChar), n)
}
