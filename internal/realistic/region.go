// Package realistic extends the free-space Friis model with additive
// environment and atmospheric loss terms, and inverts the resulting
// monotone loss curve by binary search to recover a maximum range.
package realistic

// Region describes the terrain and clutter environment a path crosses.
type Region struct {
	Name              string
	PathLossExponent  float64 // n; 2.0 is free space
	BaseAttenuation   float64 // dB, added as a flat offset
	VegetationFactor  float64 // [0,1]
	UrbanDensity      float64 // [0,1]
	TerrainVariation  float64 // [0,1]
	DustProbability   float64 // [0,1]
	AvgHumidity       float64 // percent
}

// Weather describes atmospheric conditions along a path at evaluation time.
type Weather struct {
	RainRateMmH float64
	HumidityPct float64
	VisibilityM float64
	TemperatureC float64
}
