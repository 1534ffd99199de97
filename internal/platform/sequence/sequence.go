package sequence

import (
	"context"
	"fmt"
)

// Generator hands out gap-tolerant, strictly increasing numbers per
// (prefix, year). Two concurrent callers never receive the same number;
// a rolled-back caller leaves a gap, which is acceptable.
type Generator interface {
	Next(ctx context.Context, prefix string, year int) (int, error)
}

// Format renders a document number such as "FAC-2025-0042".
func Format(prefix string, year, n int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, n)
}
