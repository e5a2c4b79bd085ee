package policy

import (
	"fmt"
	"strings"
)

// FetchFailure decides what slot computation does when booked sessions cannot be loaded.
type FetchFailure string

const (
	// Block refuses to answer; callers see an error and cannot confirm a slot.
	Block FetchFailure = "block"
	// AssumeFree computes slots as if nothing were booked and marks the result degraded.
	AssumeFree FetchFailure = "assume_free"
)

func Parse(raw string) (FetchFailure, error) {
	switch FetchFailure(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Block:
		return Block, nil
	case AssumeFree:
		return AssumeFree, nil
	default:
		return "", fmt.Errorf("unknown sessions fetch failure policy %q (want %q or %q)", raw, Block, AssumeFree)
	}
}
