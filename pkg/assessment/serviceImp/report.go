package serviceImp

import (
	"fmt"
	"strconv"

	"eaadss/entities"
	"eaadss/pkg/assessment/service"
	"eaadss/pkg/assessment/types"
	"eaadss/pkg/bmp"
	"eaadss/pkg/soil"
)

// BuildReport is a pure function of the selected field, the displayed soil
// values, the crop and the farm size. Summary and articles are left empty.
func BuildReport(rules bmp.RulesEngine, f *entities.Field, soilSource string, ph, som float64, crop string, sizeHa int) (*types.Report, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: no location selected", service.ErrWrongStep)
	}
	cc, ok := rules.Crop(crop)
	if !ok {
		return nil, fmt.Errorf("%w: %q", service.ErrUnknownCrop, crop)
	}
	if sizeHa < types.MinFarmSizeHa || sizeHa > types.MaxFarmSizeHa {
		return nil, fmt.Errorf("%w: got %d", service.ErrInvalidFarmSize, sizeHa)
	}

	size := float64(sizeHa)
	credits := bmp.CarbonImpact(cc.CreditsPerHa, size, f.EstDepthCM, som)
	return &types.Report{
		Location:      LocationText(f),
		Mode:          f.Mode,
		Lat:           f.Lat,
		Lon:           f.Lon,
		AreaHa:        f.AreaHa,
		SoilSource:    soilSource,
		PH:            ph,
		SOMPct:        som,
		DepthCM:       f.EstDepthCM,
		DepthClass:    soil.DepthClass(f.EstDepthCM),
		Diagnosis:     rules.Diagnose(som, ph, f.EstDepthCM),
		Crop:          cc.Crop,
		FarmSizeHa:    sizeHa,
		Practices:     rules.Practices(cc.Crop),
		CarbonCredits: credits,
		CarsPerHa:     bmp.CarsOffsetPerHectare(credits, size),
		CO2Released:   bmp.CO2Released(cc, size),
		Articles:      []entities.ArticleRef{},
	}, nil
}

// LocationText is "<area> ha Area" for drawn fields and "Lat: <lat>" for points.
func LocationText(f *entities.Field) string {
	if f.Mode == entities.ModePolygon && f.AreaHa != nil {
		return strconv.FormatFloat(*f.AreaHa, 'f', -1, 64) + " ha Area"
	}
	return fmt.Sprintf("Lat: %.4f", f.Lat)
}

// DefaultFarmSize is the whole drawn area when there is one, otherwise the
// last saved size, clamped to the accepted range. A drawing that rounds to
// 0.0 ha counts as no area.
func DefaultFarmSize(f *entities.Field, saved int) int {
	size := saved
	if f != nil && f.Mode == entities.ModePolygon && f.AreaHa != nil && *f.AreaHa > 0 {
		size = int(*f.AreaHa)
	}
	return min(max(size, types.MinFarmSizeHa), types.MaxFarmSizeHa)
}

// articleQuery steers guidance search towards the crop and the soil's weak spots.
func articleQuery(r *types.Report) string {
	q := r.Crop + " organic soil"
	if r.Diagnosis.OrganicMatter.Alert {
		q += " organic matter"
	}
	if r.Diagnosis.Depth.Alert {
		q += " subsidence depth"
	}
	if r.Diagnosis.PH.Alert {
		q += " pH"
	}
	return q
}
