package serviceImp

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"eaadss/pkg/assessment/types"
)

const (
	SummarySheet   = "Summary"
	practicesSheet = "Practices"
	articlesSheet  = "Articles"
)

// ReportWorkbook lays the report out as a summary sheet plus one sheet each
// for practices and suggested articles. The caller closes the file.
func ReportWorkbook(r *types.Report) (*excelize.File, error) {
	x := excelize.NewFile()
	if err := x.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}

	area := any("")
	if r.AreaHa != nil {
		area = *r.AreaHa
	}
	summary := [][]any{
		{"Field", "Value"},
		{"Location", r.Location},
		{"Latitude", r.Lat},
		{"Longitude", r.Lon},
		{"Area (ha)", area},
		{"Soil source", r.SoilSource},
		{"Organic matter (%)", r.SOMPct},
		{"Organic matter rating", r.Diagnosis.OrganicMatter.Label},
		{"pH", r.PH},
		{"pH rating", r.Diagnosis.PH.Label},
		{"Depth (cm)", r.DepthCM},
		{"Depth rating", r.Diagnosis.Depth.Label},
		{"Diagnosis", r.Diagnosis.Message},
		{"Crop", r.Crop},
		{"Farm size (ha)", r.FarmSizeHa},
		{"Carbon credits (t CO2/yr)", r.CarbonCredits},
		{"Cars offset per ha", r.CarsPerHa},
		{"CO2 released (t/yr)", r.CO2Released},
	}
	if err := writeRows(x, SummarySheet, summary); err != nil {
		return nil, err
	}

	if _, err := x.NewSheet(practicesSheet); err != nil {
		return nil, err
	}
	rows := [][]any{{"#", "Practice", "Detail"}}
	for i, p := range r.Practices {
		rows = append(rows, []any{i + 1, p.Title, p.Detail})
	}
	if err := writeRows(x, practicesSheet, rows); err != nil {
		return nil, err
	}

	if _, err := x.NewSheet(articlesSheet); err != nil {
		return nil, err
	}
	rows = [][]any{{"Title", "URL"}}
	for _, a := range r.Articles {
		rows = append(rows, []any{a.Title, a.URL})
	}
	if err := writeRows(x, articlesSheet, rows); err != nil {
		return nil, err
	}
	return x, nil
}

func writeRows(x *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
