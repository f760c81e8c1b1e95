// Package config loads the Region and Weather preset catalogues the
// Realistic Model's callers (tests, tools, a future façade) pick from
// by name. The solver itself (internal/realistic) takes Region/Weather
// values directly and never imports this package, keeping its numeric
// core free of file I/O.
package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kestrelrf/losengine/internal/realistic"
)

//go:embed presets.yaml
var embeddedPresets []byte

// RegionPreset is the YAML-serializable form of realistic.Region.
type RegionPreset struct {
	Name             string  `yaml:"Name"`
	PathLossExponent float64 `yaml:"PathLossExponent"`
	BaseAttenuation  float64 `yaml:"BaseAttenuation"`
	VegetationFactor float64 `yaml:"VegetationFactor"`
	UrbanDensity     float64 `yaml:"UrbanDensity"`
	TerrainVariation float64 `yaml:"TerrainVariation"`
	DustProbability  float64 `yaml:"DustProbability"`
	AvgHumidity      float64 `yaml:"AvgHumidity"`
}

// Region converts the preset to the record internal/realistic consumes.
func (p RegionPreset) Region() realistic.Region {
	return realistic.Region{
		Name:             p.Name,
		PathLossExponent: p.PathLossExponent,
		BaseAttenuation:  p.BaseAttenuation,
		VegetationFactor: p.VegetationFactor,
		UrbanDensity:     p.UrbanDensity,
		TerrainVariation: p.TerrainVariation,
		DustProbability:  p.DustProbability,
		AvgHumidity:      p.AvgHumidity,
	}
}

// WeatherPreset is the YAML-serializable form of realistic.Weather.
type WeatherPreset struct {
	Name         string  `yaml:"Name"`
	RainRateMmH  float64 `yaml:"RainRateMmH"`
	HumidityPct  float64 `yaml:"HumidityPct"`
	VisibilityM  float64 `yaml:"VisibilityM"`
	TemperatureC float64 `yaml:"TemperatureC"`
}

// Weather converts the preset to the record internal/realistic consumes.
func (p WeatherPreset) Weather() realistic.Weather {
	return realistic.Weather{
		RainRateMmH:  p.RainRateMmH,
		HumidityPct:  p.HumidityPct,
		VisibilityM:  p.VisibilityM,
		TemperatureC: p.TemperatureC,
	}
}

// Catalogue is a parsed preset document: named Region and Weather
// records, looked up by name rather than by position.
type Catalogue struct {
	Regions map[string]RegionPreset
	Weather map[string]WeatherPreset
}

// document mirrors the YAML document's top-level shape before it is
// indexed into the Catalogue's maps.
type document struct {
	Regions []RegionPreset  `yaml:"Regions"`
	Weather []WeatherPreset `yaml:"Weather"`
}

// Load parses a preset document from raw YAML bytes.
func Load(data []byte) (Catalogue, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalogue{}, fmt.Errorf("config: parsing preset document: %w", err)
	}

	cat := Catalogue{
		Regions: make(map[string]RegionPreset, len(doc.Regions)),
		Weather: make(map[string]WeatherPreset, len(doc.Weather)),
	}
	for _, r := range doc.Regions {
		cat.Regions[r.Name] = r
	}
	for _, w := range doc.Weather {
		cat.Weather[w.Name] = w
	}
	return cat, nil
}

// Default returns the catalogue embedded in the binary, covering the
// named regions callers commonly reference (e.g.
// "central_coastal_plain").
func Default() (Catalogue, error) {
	return Load(embeddedPresets)
}

// Region looks up a named region preset, converted to realistic.Region.
func (c Catalogue) Region(name string) (realistic.Region, bool) {
	p, ok := c.Regions[name]
	if !ok {
		return realistic.Region{}, false
	}
	return p.Region(), true
}

// WeatherByName looks up a named weather preset, converted to
// realistic.Weather.
func (c Catalogue) WeatherByName(name string) (realistic.Weather, bool) {
	p, ok := c.Weather[name]
	if !ok {
		return realistic.Weather{}, false
	}
	return p.Weather(), true
}
