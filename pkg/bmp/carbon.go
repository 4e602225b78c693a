package bmp

import "math"

const (
	// CarTonsCO2PerYear is the average passenger car's yearly emissions.
	CarTonsCO2PerYear = 4.6

	fullDepthCM = 30.0
	fullSOMPct  = 60.0
)

// CarbonImpact scales a crop's base credits (t/ha/yr) by farm size, then
// discounts shallow soils below 30 cm and SOM below 60 %.
func CarbonImpact(baseCredits float64, farmSizeHa float64, depthCM int, somPct float64) float64 {
	depthFactor := math.Min(float64(depthCM)/fullDepthCM, 1.0)
	somFactor := math.Min(somPct/fullSOMPct, 1.0)
	return baseCredits * farmSizeHa * depthFactor * somFactor
}

// CarsOffsetPerHectare is how many average cars one hectare offsets per year.
func CarsOffsetPerHectare(totalCredits, farmSizeHa float64) float64 {
	if farmSizeHa <= 0 {
		return 0
	}
	return totalCredits / farmSizeHa / CarTonsCO2PerYear
}

// CO2Released is the crop's yearly emissions over the whole farm.
func CO2Released(crop CropCarbon, farmSizeHa float64) float64 {
	return crop.CO2PerHa * farmSizeHa
}
