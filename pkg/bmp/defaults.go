package bmp

// CropCarbon is one row of the crop carbon table.
type CropCarbon struct {
	Crop         string  `json:"crop"`
	CreditsPerHa float64 `json:"carbon_credits_t_ha_yr"`
	CO2PerHa     float64 `json:"co2_released_t_ha_yr"`
}

// Practice is a best management practice shown for a crop.
type Practice struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Suggestion is a crop offered when the grower asks for recommendations.
type Suggestion struct {
	Crop      string `json:"crop"`
	Highlight string `json:"highlight,omitempty"`
}

var defaultCrops = []CropCarbon{
	{Crop: "Sugarcane", CreditsPerHa: 6.75, CO2PerHa: 3.42},
	{Crop: "Flooded Rice", CreditsPerHa: 9.12, CO2PerHa: 0.40},
	{Crop: "Sweet Corn", CreditsPerHa: 4.89, CO2PerHa: 2.65},
	{Crop: "Lettuce", CreditsPerHa: 3.21, CO2PerHa: 1.92},
	{Crop: "Turf Grass", CreditsPerHa: 7.43, CO2PerHa: 2.87},
	{Crop: "Legume Mix", CreditsPerHa: 5.38, CO2PerHa: 1.75},
	{Crop: "Sunn Hemp", CreditsPerHa: 8.27, CO2PerHa: 1.48},
	{Crop: "Cowpea", CreditsPerHa: 6.12, CO2PerHa: 1.95},
}

// coverCrops is keyed by cropKey.
var coverCrops = map[string]bool{"legume mix": true, "sunn hemp": true, "cowpea": true}

var defaultPractices = map[string][]Practice{
	"Sugarcane": {
		{"Rotate with Flooded Rice", "Rice as a cover crop retains soil moisture and organic matter, reducing emissions by ~2.5 tons CO₂/ha per year."},
		{"Use Fallow Periods", "Keeping fields submerged for 3–4 months before replanting slows organic matter breakdown."},
		{"Limit Ratoon Cycles to 2", "More ratoons accelerate soil organic matter depletion."},
		{"Mulch with Sugarcane Residue", "Incorporating trash adds ~1.2 tons of carbon/ha per year."},
	},
	"Flooded Rice": {
		{"Rotate with Sugarcane", "Maintains soil health and reduces subsidence by ~3.2 tons CO₂/ha per year."},
		{"Limit Sugarcane Ratoon Cycles to 2", "Prolonged ratooning leads to excessive soil depletion."},
		{"Mulch with Sugarcane Residue", "Leftover biomass adds ~1.5 tons of carbon/ha."},
	},
	"Sweet Corn": {
		{"Rotate with Legume Cover Crops", "Sunn Hemp or Cowpea fixes nitrogen, saving ~1.5 tons CO₂/ha."},
		{"Use Minimum Tillage", "Reducing disturbance preserves organic matter."},
		{"Incorporate Crop Residue", "Leaving corn stalks improves structure and adds ~0.9 tons of carbon/ha."},
	},
	"Lettuce": {
		{"Rotate with Flooded Rice", "Stabilizes soil moisture and reduces CO₂ loss by ~1 ton/ha."},
		{"Use Cover Crops", "Sunn Hemp or Ryegrass adds ~1.1 tons of carbon/ha."},
		{"Drip Irrigation", "Reduces water loss and lowers emissions by ~15%."},
		{"Minimize Tillage", "Prevents carbon loss and slows organic matter breakdown."},
	},
}

var coverCropPractices = []Practice{
	{"Use Before Sugarcane", "Fixes nitrogen, reducing synthetic fertilizer need by ~30%."},
	{"Incorporate Before Flowering", "Maximizes nitrogen release into soil."},
	{"Manage Water Table", "High moisture levels further slow CO₂ loss."},
	{"Increase Organic Matter", "Boosts microbial activity and reduces fertilizer dependency."},
}

var fallbackPractices = []Practice{
	{"Manage Water Table", "Keeping soil moisture levels high slows organic matter oxidation."},
}

var defaultSuggestions = []Suggestion{
	{Crop: "Flooded Rice", Highlight: "Best for slowing subsidence."},
	{Crop: "Sweet Corn"},
	{Crop: "Sunn Hemp", Highlight: "Rapidly builds organic matter."},
	{Crop: "Cowpea"},
}
