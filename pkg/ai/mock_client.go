package ai

import (
	"context"
	"fmt"
	"strings"

	"eaadss/pkg/assessment/types"
)

type mockClient struct{}

// NewMock returns the offline client used when no LLM endpoint is configured.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) Summarize(_ context.Context, r *types.Report, _ string) string {
	return FallbackSummary(r)
}

// FallbackSummary renders the report as short markdown without any model.
func FallbackSummary(r *types.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s plan for %s (%d ha)**\n\n", r.Crop, r.Location, r.FarmSizeHa)
	fmt.Fprintf(&b, "- Soil: organic matter %.1f%% (%s), pH %.1f (%s), depth %d cm (%s)\n",
		r.SOMPct, r.Diagnosis.OrganicMatter.Label, r.PH, r.Diagnosis.PH.Label, r.DepthCM, r.Diagnosis.Depth.Label)
	fmt.Fprintf(&b, "- Carbon credits: %.2f t CO2/yr, about %.2f cars offset per hectare\n", r.CarbonCredits, r.CarsPerHa)
	fmt.Fprintf(&b, "- CO2 released by the crop: %.2f t/yr\n", r.CO2Released)
	if len(r.Practices) > 0 {
		titles := make([]string, 0, len(r.Practices))
		for _, p := range r.Practices {
			titles = append(titles, p.Title)
		}
		fmt.Fprintf(&b, "- Practices: %s\n", strings.Join(titles, "; "))
	}
	if r.Diagnosis.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Diagnosis.Message)
	}
	return b.String()
}
