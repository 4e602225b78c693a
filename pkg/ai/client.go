package ai

import (
	"context"

	"eaadss/pkg/assessment/types"
)

// Client writes the grower facing narrative for a report. Implementations
// never fail: they fall back to FallbackSummary.
type Client interface {
	Summarize(ctx context.Context, r *types.Report, kbCtx string) string
}
