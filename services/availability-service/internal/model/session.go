package model

import "strings"

// Blocks reports whether the session occupies its interval. Status comparison ignores case and
// surrounding whitespace.
func (s BookedSession) Blocks() bool {
	return !strings.EqualFold(strings.TrimSpace(s.Status), StatusCancelled)
}
