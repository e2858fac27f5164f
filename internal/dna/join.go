package dna

import "fmt"

// OverlapError reports a join whose suffix/prefix do not agree.
type OverlapError struct {
	Overlap     int
	Left, Right string
	LeftLength  int
	RightLength int
}

func (e *OverlapError) Error() string {
	if e.LeftLength < e.Overlap || e.RightLength < e.Overlap {
		return fmt.Sprintf("overlap %d longer than fragment (left=%d right=%d)", e.Overlap, e.LeftLength, e.RightLength)
	}
	return fmt.Sprintf("overlap mismatch: left suffix %q != right prefix %q", e.Left, e.Right)
}

// Join concatenates left and right, dropping the shared overlap once.
// The last overlap bases of left must equal the first overlap bases of right.
func Join(left, right string, overlap int) (string, error) {
	if overlap < 0 {
		overlap = 0
	}
	if len(left) < overlap || len(right) < overlap {
		return "", &OverlapError{Overlap: overlap, LeftLength: len(left), RightLength: len(right)}
	}
	suf := left[len(left)-overlap:]
	pre := right[:overlap]
	if suf != pre {
		return "", &OverlapError{Overlap: overlap, Left: suf, Right: pre, LeftLength: len(left), RightLength: len(right)}
	}
	return left + right[overlap:], nil
}
