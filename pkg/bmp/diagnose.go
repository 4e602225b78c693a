package bmp

// Indicator is one soil health reading with its band label. Alert marks the
// bands that should be shown as a warning.
type Indicator struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Band  string  `json:"band"`
	Label string  `json:"label"`
	Alert bool    `json:"alert"`
}

type Diagnosis struct {
	OrganicMatter Indicator `json:"organic_matter"`
	PH            Indicator `json:"ph"`
	Depth         Indicator `json:"depth"`
	SoilAlert     bool      `json:"soil_alert"`
	Message       string    `json:"message"`
}

const (
	alertMessage    = "Soil Alert: Management should focus on building organic matter and protecting limited soil depth."
	balancedMessage = "Balanced Soil Baseline: Focus on maintaining current organic matter levels through optimal rotations."
)

func Diagnose(som, ph float64, depthCM int) Diagnosis {
	d := Diagnosis{
		OrganicMatter: classifySOM(som),
		PH:            classifyPH(ph),
		Depth:         classifyDepth(depthCM),
	}
	d.SoilAlert = depthCM < 30 || som < 40
	d.Message = balancedMessage
	if d.SoilAlert {
		d.Message = alertMessage
	}
	return d
}

func classifySOM(som float64) Indicator {
	in := Indicator{Value: som, Unit: "%"}
	switch {
	case som < 40:
		in.Band, in.Label, in.Alert = "low", "Low Organic Matter", true
	case som <= 70:
		in.Band, in.Label = "moderate", "Moderate Organic Matter"
	default:
		in.Band, in.Label = "good", "Good Organic Matter"
	}
	return in
}

func classifyPH(ph float64) Indicator {
	in := Indicator{Value: ph}
	switch {
	case ph < 5.5:
		in.Band, in.Label, in.Alert = "extremely_low", "Extremely Low", true
	case ph < 6.5:
		in.Band, in.Label = "low", "Low pH"
	case ph <= 7.5:
		in.Band, in.Label = "good", "Good pH"
	case ph <= 8.5:
		in.Band, in.Label = "high", "High pH"
	default:
		in.Band, in.Label, in.Alert = "extremely_high", "Extremely High", true
	}
	return in
}

func classifyDepth(depth int) Indicator {
	in := Indicator{Value: float64(depth), Unit: "cm"}
	switch {
	case depth < 30:
		in.Band, in.Label, in.Alert = "very_low", "Very Low Depth", true
	case depth <= 100:
		in.Band, in.Label = "adequate", "Adequate Depth"
	default:
		in.Band, in.Label = "very_high", "Very High Depth"
	}
	return in
}
