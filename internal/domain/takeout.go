package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Takeout table labels. A diner submitting "to go" sends TakeoutSentinel as
// the table label; the sequencer rewrites it to "LLEVAR-<n>" where n cycles
// through 1..99. The prefix is a wire contract point; do not rename.
const (
	TakeoutSentinel = "LLEVAR"
	takeoutPrefix   = "LLEVAR-"
	takeoutMaxSeq   = 99
)

// IsTakeoutLabel reports whether the label carries an assigned pickup number.
func IsTakeoutLabel(label string) bool {
	return strings.HasPrefix(label, takeoutPrefix)
}

// TakeoutSeq extracts the pickup number from a takeout label; ok is false
// for non-takeout or malformed labels.
func TakeoutSeq(label string) (int, bool) {
	if !IsTakeoutLabel(label) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(label, takeoutPrefix))
	if err != nil || n < 1 || n > takeoutMaxSeq {
		return 0, false
	}
	return n, true
}

// TakeoutLabel formats a pickup number as a table label.
func TakeoutLabel(seq int) string {
	return fmt.Sprintf("%s%d", takeoutPrefix, seq)
}

// NextTakeoutSeq derives the next pickup number from the labels of a
// tenant's existing orders: (max seen mod 99) + 1, so 99 wraps to 1.
// Read-then-compute with no reservation; two concurrent takeout submissions
// may collide, which only produces a duplicate cosmetic pickup number.
func NextTakeoutSeq(labels []string) int {
	max := 0
	for _, lb := range labels {
		if n, ok := TakeoutSeq(lb); ok && n > max {
			max = n
		}
	}
	return (max % takeoutMaxSeq) + 1
}
