package bmp

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const PracticesSheet = "Practices"

type RulesEngine interface {
	Crops() []CropCarbon
	Crop(name string) (CropCarbon, bool)
	Practices(crop string) []Practice
	Recommended() []Suggestion
	Diagnose(som, ph float64, depthCM int) Diagnosis
}

type rules struct {
	crops     []CropCarbon
	byName    map[string]int
	practices map[string][]Practice
}

// Default returns the engine with the built-in crop table and practices.
func Default() RulesEngine {
	r := &rules{practices: map[string][]Practice{}}
	r.setCrops(append([]CropCarbon(nil), defaultCrops...))
	for k, v := range defaultPractices {
		r.practices[cropKey(k)] = v
	}
	return r
}

// LoadFromFiles starts from the defaults and applies a crop carbon CSV and a
// practices workbook when given. A missing file is skipped with a warning; a
// file that exists but cannot be parsed is an error.
func LoadFromFiles(cropCSV, practicesXLSX string) (RulesEngine, error) {
	r := Default().(*rules)

	if cropCSV != "" {
		if err := r.loadCropsCSV(cropCSV); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
			log.Warn().Str("path", cropCSV).Msg("[bmp] crop table not found, using defaults")
		}
	}
	if practicesXLSX != "" {
		if err := r.loadPracticesXLSX(practicesXLSX); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
			log.Warn().Str("path", practicesXLSX).Msg("[bmp] practices workbook not found, using defaults")
		}
	}
	return r, nil
}

func (r *rules) setCrops(cs []CropCarbon) {
	r.crops = cs
	r.byName = make(map[string]int, len(cs))
	for i, c := range cs {
		r.byName[cropKey(c.Crop)] = i
	}
}

// cropKey is how crop names from the table, the workbook and callers meet.
func cropKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	for _, cut := range []string{" ", "-", "_", "(", ")", "/", "₂"} {
		s = strings.ReplaceAll(s, cut, "")
	}
	return s
}

func headerIndex(head []string) func(keys ...string) int {
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	return func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}
}

func (r *rules) loadCropsCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	head, err := cr.Read()
	if err != nil {
		return fmt.Errorf("crop table %s: %w", path, err)
	}
	find := headerIndex(head)
	cCrop := find("Crop", "crop_name")
	cCred := find("Carbon Credits (tons/ha/yr)", "carbon_credits", "credits")
	cCO2 := find("CO2 Released (tons/ha/yr)", "CO₂ Released (tons/ha/yr)", "co2_released", "co2")
	if cCrop == -1 || cCred == -1 || cCO2 == -1 {
		return fmt.Errorf("crop table %s missing required columns. Found headers: %v. Need: Crop, Carbon Credits, CO2 Released", path, head)
	}

	var out []CropCarbon
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("crop table %s: %w", path, err)
		}
		name := strings.TrimSpace(rec[cCrop])
		if name == "" {
			continue
		}
		cred, err1 := strconv.ParseFloat(strings.TrimSpace(rec[cCred]), 64)
		co2, err2 := strconv.ParseFloat(strings.TrimSpace(rec[cCO2]), 64)
		if err1 != nil || err2 != nil || cred < 0 || co2 < 0 {
			return fmt.Errorf("crop table %s line %d: bad numeric value", path, line)
		}
		out = append(out, CropCarbon{Crop: name, CreditsPerHa: cred, CO2PerHa: co2})
	}
	if len(out) == 0 {
		return fmt.Errorf("crop table %s has no rows", path)
	}
	r.setCrops(out)
	return nil
}

// loadPracticesXLSX replaces the practice list of every crop named in the
// Practices sheet.
func (r *rules) loadPracticesXLSX(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	x, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("practices workbook %s: %w", path, err)
	}
	defer x.Close()

	rows, err := x.GetRows(PracticesSheet)
	if err != nil {
		return fmt.Errorf("practices workbook %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil
	}
	find := headerIndex(rows[0])
	cCrop, cTitle, cDetail := find("Crop"), find("Practice", "title"), find("Detail", "notes")
	if cCrop == -1 || cTitle == -1 {
		return fmt.Errorf("practices workbook %s: need Crop and Practice columns", path)
	}

	get := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	loaded := map[string][]Practice{}
	for _, row := range rows[1:] {
		crop, title := get(row, cCrop), get(row, cTitle)
		if crop == "" || title == "" {
			continue
		}
		loaded[cropKey(crop)] = append(loaded[cropKey(crop)], Practice{Title: title, Detail: get(row, cDetail)})
	}
	for crop, ps := range loaded {
		r.practices[crop] = ps
	}
	log.Info().Str("path", path).Int("crops", len(loaded)).Msg("[bmp] practices loaded")
	return nil
}

func (r *rules) Crops() []CropCarbon { return append([]CropCarbon(nil), r.crops...) }

func (r *rules) Crop(name string) (CropCarbon, bool) {
	i, ok := r.byName[cropKey(name)]
	if !ok {
		return CropCarbon{}, false
	}
	return r.crops[i], true
}

func (r *rules) Practices(crop string) []Practice {
	k := cropKey(crop)
	if ps, ok := r.practices[k]; ok {
		return ps
	}
	if coverCrops[k] {
		return coverCropPractices
	}
	return fallbackPractices
}

func (r *rules) Recommended() []Suggestion {
	out := make([]Suggestion, 0, len(defaultSuggestions))
	for _, s := range defaultSuggestions {
		if _, ok := r.Crop(s.Crop); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *rules) Diagnose(som, ph float64, depthCM int) Diagnosis {
	return Diagnose(som, ph, depthCM)
}
