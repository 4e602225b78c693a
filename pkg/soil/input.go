package soil

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSoilInput = errors.New("invalid soil test input")

// DefaultPH is shown when the grower relies on the spatial model.
const DefaultPH = 6.5

type Option struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PHRanges are the soil test pH bands a grower can pick from, each mapped to
// a representative value.
var PHRanges = []Option{
	{Key: "acidic", Label: "Acidic (Below 5.5)", Value: 5.0},
	{Key: "slightly_acidic", Label: "Slightly Acidic (5.5–6.5)", Value: 6.0},
	{Key: "neutral", Label: "Neutral (6.5–7.5)", Value: 7.0},
	{Key: "alkaline", Label: "Alkaline (Above 7.5)", Value: 8.0},
}

var SOMRatings = []Option{
	{Key: "low", Label: "Low (Below 40%)", Value: 30.0},
	{Key: "moderate", Label: "Moderate (40%–70%)", Value: 55.0},
	{Key: "high", Label: "High (Above 70%)", Value: 77.5},
}

// Test is a grower supplied soil test, expressed as range keys.
type Test struct {
	PHRange   string `json:"ph_range"`
	SOMRating string `json:"som_rating"`
}

// Resolve finds the options the range keys (or their labels) refer to.
func (t Test) Resolve() (ph, som Option, err error) {
	ph, ok := lookup(PHRanges, t.PHRange)
	if !ok {
		return Option{}, Option{}, fmt.Errorf("%w: ph_range %q", ErrInvalidSoilInput, t.PHRange)
	}
	som, ok = lookup(SOMRatings, t.SOMRating)
	if !ok {
		return Option{}, Option{}, fmt.Errorf("%w: som_rating %q", ErrInvalidSoilInput, t.SOMRating)
	}
	return ph, som, nil
}

// Values maps the range keys (or their labels) to pH and SOM percentages.
func (t Test) Values() (ph, som float64, err error) {
	p, s, err := t.Resolve()
	if err != nil {
		return 0, 0, err
	}
	return p.Value, s.Value, nil
}

func lookup(opts []Option, v string) (Option, bool) {
	v = strings.TrimSpace(v)
	for _, o := range opts {
		if strings.EqualFold(o.Key, v) || o.Label == v {
			return o, true
		}
	}
	return Option{}, false
}
